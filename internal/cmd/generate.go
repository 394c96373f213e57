package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ovirt-dr/generate-vars/internal/prompt"
	"github.com/ovirt-dr/generate-vars/internal/runner"
	"github.com/ovirt-dr/generate-vars/internal/settings"
	"github.com/ovirt-dr/generate-vars/internal/workflow"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the variable mapping file",
		Long: `Generate the variable mapping file for oVirt ansible disaster recovery.

The run loads the [generate_vars] settings, asks for any missing value,
checks the credentials against the engine API, makes sure the output file
can be written and runs:

  ansible-playbook <ansible_play> -t generate_mapping -e "site=... var_file=<output_file>" -vvvvv

The run succeeds when the play leaves the output file behind.`,
		Example: `  # Use dr.conf in the current directory and log to /tmp/ovirt-dr.log
  generate-vars generate

  # Another configuration file, logging to the console
  generate-vars generate --conf-file /etc/dr/dr.conf --log-file ''`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}
	addGenerateFlags(cmd)
	return cmd
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().String("ansible-playbook", runner.DefaultRunner, "automation runner executable")
	cmd.Flags().Bool("plain-prompts", false, "read answers line by line even when stdin is a terminal")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	runnerPath, err := cmd.Flags().GetString("ansible-playbook")
	if err != nil {
		return err
	}
	plain, err := cmd.Flags().GetBool("plain-prompts")
	if err != nil {
		return err
	}

	logger, out, err := cc.OpenLogger(cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer out.Close()

	presenter := cc.Console(cmd.OutOrStdout())
	wf := workflow.NewWorkflow(workflow.Config{
		Store:    settings.NewStore(cc.ConfFile),
		Prompter: prompt.New(cmd.InOrStdin(), presenter, plain),
		Console:  presenter,
		Logger:   logger,
		Runner:   runnerPath,
	})

	_, err = wf.Execute(cmd.Context())
	return err
}
