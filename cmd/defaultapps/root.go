package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose    bool
	dryRun     bool
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	run := &runOptions{}

	cmd := &cobra.Command{
		Use:   "defaultapps [management parameters...]",
		Short: "Let the console user pick default applications for URL schemes and file types",
		Long: `defaultapps shows a dialog listing the applications able to handle each
selected URL scheme or file type, then sets the chosen ones as defaults.

Without a subcommand it behaves like "defaultapps run". Positional arguments
follow the management policy layout: selection, dialog path, dialog trigger,
utiluti trigger, icons trigger, support URL. When the first argument is "/"
the three leading policy arguments (mount point, computer name, user name)
are skipped.`,
		Args:          cobra.MaximumNArgs(maxPositional + jamfReserved),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCmdRunner(cmd, flags, run, args)
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "Show the dialog but only report what would be set")
	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Path to configuration file")

	run.bind(cmd)

	cmd.AddCommand(newRunCmd(flags))
	cmd.AddCommand(newQueryCmd(flags))
	cmd.AddCommand(newPresetsCmd(flags))
	cmd.AddCommand(newItemsCmd(flags))
	cmd.AddCommand(newConfigCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
