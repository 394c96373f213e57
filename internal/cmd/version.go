package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ovirt-dr/generate-vars/internal/version"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print version information including version number, git commit,
build date, Go version, and platform.`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}
	cmd.Flags().BoolP("verbose", "v", false, "show detailed version information")
	cmd.Flags().Bool("json", false, "output version information as JSON")
	return cmd
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.GetInfo()
	out := cmd.OutOrStdout()

	asJSON, _ := cmd.Flags().GetBool("json")    //nolint:errcheck // defined above
	verbose, _ := cmd.Flags().GetBool("verbose") //nolint:errcheck // defined above

	if asJSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal version info: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	if verbose {
		fmt.Fprintln(out, info.String())
		return nil
	}

	fmt.Fprintf(out, "%s %s\n", version.Name, info.Short())
	return nil
}
