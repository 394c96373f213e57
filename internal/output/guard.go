// Package output prepares the mapping file location before the automation
// run and checks the produced file after it.
package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ovirt-dr/generate-vars/internal/console"
	"github.com/ovirt-dr/generate-vars/internal/errors"
	"github.com/ovirt-dr/generate-vars/internal/log"
	"github.com/ovirt-dr/generate-vars/internal/prompt"
)

// Guard makes sure the automation run can write a fresh output file.
type Guard struct {
	prompter prompt.Prompter
	console  *console.Presenter
	logger   *log.Logger
}

// NewGuard creates a Guard that asks for overwrite confirmation through p.
func NewGuard(p prompt.Prompter, c *console.Presenter, logger *log.Logger) *Guard {
	if logger == nil {
		logger = log.Discard()
	}
	return &Guard{prompter: p, console: c, logger: logger}
}

// Prepare creates the parent directory of path when it is missing. When a
// file already exists at path the operator must confirm the overwrite, after
// which the file is removed. Declining returns an IO-002 error and leaves the
// file untouched.
func (g *Guard) Prepare(path string) error {
	dir := filepath.Dir(path)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		g.logger.Warn("output directory does not exist, creating it", "path", dir)
		g.console.Warn("Path '%s' does not exist. Create folder", dir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewOutputDirError(dir, err)
		}
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil
	}

	overwrite, err := prompt.Confirm(g.prompter,
		fmt.Sprintf("The output file '%s' already exists. Would you like to override it (y,n)?", path),
		"Please respond with 'yes' or 'no':")
	if err != nil {
		return err
	}
	if !overwrite {
		return errors.NewOutputNotOverwrittenError(path)
	}

	if err := os.Remove(path); err != nil {
		return errors.NewOutputRemoveError(path, err)
	}
	g.logger.Info("removed existing output file", "path", path)
	return nil
}
