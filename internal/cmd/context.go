package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ovirt-dr/generate-vars/internal/console"
	"github.com/ovirt-dr/generate-vars/internal/log"
	"github.com/ovirt-dr/generate-vars/internal/version"
)

// CommandContext holds the persistent flags of a command. Commands build it
// in their RunE instead of reading package-level variables.
type CommandContext struct {
	ConfFile   string
	LogFile    string
	LogLevel   string
	LogFormat  string
	NoColor    bool
	StrictExit bool
}

// NewCommandContext extracts command context from cobra.Command flags.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	confFile, err := cmd.Flags().GetString("conf-file")
	if err != nil {
		return nil, err
	}

	logFile, err := cmd.Flags().GetString("log-file")
	if err != nil {
		return nil, err
	}

	logLevel, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return nil, err
	}

	logFormat, err := cmd.Flags().GetString("log-format")
	if err != nil {
		return nil, err
	}

	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return nil, err
	}

	strictExit, err := cmd.Flags().GetBool("strict-exit")
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		ConfFile:   confFile,
		LogFile:    logFile,
		LogLevel:   logLevel,
		LogFormat:  logFormat,
		NoColor:    noColor,
		StrictExit: strictExit,
	}, nil
}

// Console returns a presenter writing to w.
func (c *CommandContext) Console(w io.Writer) *console.Presenter {
	return console.New(console.Options{Writer: w, NoColor: c.NoColor})
}

// OpenLogger opens the log destination selected by --log-file and
// --log-level. Without a log file records go to w. The returned output must
// be closed when the command ends.
func (c *CommandContext) OpenLogger(w io.Writer) (*log.Logger, log.Output, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, log.Output{}, fmt.Errorf("invalid flag --log-level: %w", err)
	}

	out := log.NewOutput(w)
	if c.LogFile != "" {
		if out, err = log.OpenFile(c.LogFile); err != nil {
			return nil, log.Output{}, err
		}
	}

	cfg := log.DefaultConfig()
	cfg.Level = level
	cfg.Format = log.ParseFormat(c.LogFormat)
	cfg.Output = out
	cfg.ServiceName = version.Name
	return log.New(cfg), out, nil
}
