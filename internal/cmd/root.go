package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ovirt-dr/generate-vars/internal/log"
)

const (
	defaultConfFile = "dr.conf"
	defaultLogFile  = "/tmp/ovirt-dr.log"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "generate-vars",
		Short: "Generate the oVirt disaster recovery variable mapping file",
		Long: `generate-vars collects the connection settings of the primary oVirt engine,
validates them against the engine API and runs the disaster recovery play
with the generate_mapping tag to write the variable mapping file.

Settings are read from the [generate_vars] section of the configuration
file. Any setting left empty is asked for interactively.

Running generate-vars without a subcommand is the same as 'generate-vars generate'.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGenerate,
	}

	pf := root.PersistentFlags()
	pf.String("conf-file", defaultConfFile, "configuration file with the [generate_vars] section")
	pf.String("log-file", defaultLogFile, "append log records and ansible output to this file ('' logs to the console)")
	pf.String("log-level", log.LevelDebug.String(), "log level (debug, info, warn, error)")
	pf.String("log-format", log.FormatText.String(), "log record format (text, json)")
	pf.Bool("no-color", false, "disable colored console output")
	pf.Bool("strict-exit", false, "exit with a non-zero status when the run is aborted")

	addGenerateFlags(root)

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx, which is cancelled on interrupt
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// StrictExit reports whether --strict-exit was given on the last execution
func StrictExit() bool {
	strict, err := rootCmd.PersistentFlags().GetBool("strict-exit")
	return err == nil && strict
}
