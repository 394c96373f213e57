// Package prompt fills unresolved settings by asking the operator.
package prompt

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/ovirt-dr/generate-vars/internal/errors"
	"github.com/ovirt-dr/generate-vars/internal/log"
	"github.com/ovirt-dr/generate-vars/internal/settings"
)

// Resolver asks for every setting left empty by the settings file.
type Resolver struct {
	prompter Prompter
	logger   *log.Logger

	// isFile reports whether path names an existing regular file
	isFile func(path string) bool
}

// NewResolver creates a Resolver asking through p.
func NewResolver(p Prompter, logger *log.Logger) *Resolver {
	if logger == nil {
		logger = log.Discard()
	}
	return &Resolver{prompter: p, logger: logger, isFile: isRegularFile}
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Resolve returns rec with every field populated. Populated fields are kept
// without asking, except an ansible_play that does not name an existing file.
// Resolution only ends early when the operator's input ends or is cancelled.
func (r *Resolver) Resolve(rec settings.Record) (settings.Record, error) {
	var err error

	if rec.Site == "" {
		rec.Site, err = r.askDefault(settings.KeySite,
			fmt.Sprintf("Site address is not initialized. Please provide the site URL (%s):", settings.DefaultSite),
			settings.DefaultSite)
		if err != nil {
			return rec, err
		}
	}

	if rec.Username == "" {
		rec.Username, err = r.askDefault(settings.KeyUsername,
			fmt.Sprintf("Username is not initialized. Please provide username (%s):", settings.DefaultUsername),
			settings.DefaultUsername)
		if err != nil {
			return rec, err
		}
	}

	for rec.Password == "" {
		rec.Password, err = r.prompter.AskSecret(
			fmt.Sprintf("Password is not initialized. Please provide the password for username %s:", rec.Username))
		if err != nil {
			return rec, r.inputError(settings.KeyPassword, err)
		}
	}

	for rec.CAFile == "" {
		rec.CAFile, err = r.askDefault(settings.KeyCAFile,
			fmt.Sprintf("Ca file is not initialized. Please provide the ca file location (%s):", settings.DefaultCAFile),
			settings.DefaultCAFile)
		if err != nil {
			return rec, err
		}
	}

	for rec.OutputFile == "" {
		rec.OutputFile, err = r.askDefault(settings.KeyOutputFile,
			fmt.Sprintf("Output file is not initialized. Please provide the output file location for the mapping var file (%s):", settings.DefaultOutputFile),
			settings.DefaultOutputFile)
		if err != nil {
			return rec, err
		}
	}

	for rec.AnsiblePlay == "" || !r.isFile(rec.AnsiblePlay) {
		if rec.AnsiblePlay != "" {
			r.logger.Warn("ansible play not found", "path", rec.AnsiblePlay)
		}
		rec.AnsiblePlay, err = r.askDefault(settings.KeyAnsiblePlay,
			fmt.Sprintf("Ansible play '%s' is not initialized. Please provide the ansible play to generate the mapping var file (%s):", rec.AnsiblePlay, settings.DefaultAnsiblePlay),
			settings.DefaultAnsiblePlay)
		if err != nil {
			return rec, err
		}
	}

	return rec, nil
}

func (r *Resolver) askDefault(key, message, fallback string) (string, error) {
	answer, err := r.prompter.Ask(message)
	if err != nil {
		return "", r.inputError(key, err)
	}
	return settings.Layer(answer, fallback), nil
}

func (r *Resolver) inputError(key string, err error) error {
	switch {
	case stderrors.Is(err, io.EOF):
		return errors.NewInputClosedError(key)
	case stderrors.Is(err, huh.ErrUserAborted):
		return errors.NewPromptCancelledError(err)
	default:
		return fmt.Errorf("read %s: %w", key, err)
	}
}

var answers = map[string]bool{
	"yes": true,
	"ye":  true,
	"y":   true,
	"no":  false,
	"n":   false,
}

// Confirm asks question until the answer is one of yes, ye, y, no or n
// (case-insensitive), asking retry after each unrecognized answer.
func Confirm(p Prompter, question, retry string) (bool, error) {
	message := question
	for {
		answer, err := p.Ask(message)
		if err != nil {
			switch {
			case stderrors.Is(err, io.EOF):
				return false, errors.NewInputClosedError("confirmation")
			case stderrors.Is(err, huh.ErrUserAborted):
				return false, errors.NewPromptCancelledError(err)
			}
			return false, fmt.Errorf("read confirmation: %w", err)
		}
		if yes, ok := answers[strings.ToLower(answer)]; ok {
			return yes, nil
		}
		message = retry
	}
}
