package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ovirt-dr/generate-vars/internal/log"
	"github.com/ovirt-dr/generate-vars/internal/settings"
	"github.com/ovirt-dr/generate-vars/internal/ux"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "View or create the generate_vars configuration file",
		Long: `Manage the configuration file read by 'generate-vars generate'.

The file is an INI file with a [generate_vars] section holding the keys
site, username, password, ca_file, output_file and ansible_play.

Examples:
  # Show the effective settings
  generate-vars config show

  # Show them as YAML
  generate-vars config show -o yaml

  # Write a template to fill in
  generate-vars config init --conf-file dr.conf
`,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Display the effective settings",
		Long: `Display each setting as stored in the configuration file, or the default
used when it is empty. The password is never shown.`,
		Args: cobra.NoArgs,
		RunE: runConfigShow,
	}
	showCmd.Flags().StringP("output", "o", "text", "output format ("+strings.Join(ux.Formats, ", ")+")")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration template",
		Long: `Write a configuration file holding the [generate_vars] section with every
key set to its default. The password is left empty and will be asked for.`,
		Args: cobra.NoArgs,
		RunE: runConfigInit,
	}
	initCmd.Flags().Bool("force", false, "overwrite an existing configuration file")

	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(initCmd)
	return configCmd
}

// effectiveConfig is the view printed by config show.
type effectiveConfig struct {
	File      string          `json:"file" yaml:"file"`
	Section   string          `json:"section" yaml:"section"`
	Values    settings.Record `json:"values" yaml:"values"`
	Defaulted []string        `json:"defaulted,omitempty" yaml:"defaulted,omitempty"`
}

func newEffectiveConfig(path string, stored settings.Record) effectiveConfig {
	view := effectiveConfig{
		File:    path,
		Section: settings.Section,
		Values:  stored.Merge(settings.Defaults()),
	}
	for _, key := range settings.Keys {
		if stored.Get(key) == "" && view.Values.Get(key) != "" {
			view.Defaulted = append(view.Defaulted, key)
		}
	}
	if view.Values.Password != "" {
		view.Values.Password = log.Masked
	}
	return view
}

func (e effectiveConfig) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Configuration file: %s\n\n", e.File)
	fmt.Fprintf(&b, "[%s]\n", e.Section)
	for _, key := range settings.Keys {
		fmt.Fprintf(&b, "%-12s = %s", key, e.Values.Get(key))
		if slices.Contains(e.Defaulted, key) {
			b.WriteString("  (default)")
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	formatter, err := ux.NewFormatter(format, &ux.FormatterOptions{Writer: cmd.OutOrStdout()})
	if err != nil {
		return err
	}

	stored, err := settings.NewStore(cc.ConfFile).Load()
	if err != nil {
		return err
	}

	return formatter.Format(newEffectiveConfig(cc.ConfFile, stored))
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cc, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if err := settings.NewStore(cc.ConfFile).WriteTemplate(settings.Defaults(), force); err != nil {
		return err
	}

	cc.Console(cmd.OutOrStdout()).Success("Configuration template written to %s", cc.ConfFile)
	return nil
}
