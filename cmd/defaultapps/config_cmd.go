package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/defaultapps/internal/config"
	"github.com/alexisbeaulieu97/defaultapps/pkg/diff"
)

func newConfigCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create configuration files",
	}

	cmd.AddCommand(newConfigShowCmd(root))
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigDiffCmd(root))

	return cmd
}

func newConfigShowCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root, nil)
			if err != nil {
				return err
			}
			return config.WriteYAML(cmd.OutOrStdout(), cfg)
		},
	}
}

type configInitOptions struct {
	output string
	force  bool
}

func newConfigInitCmd() *cobra.Command {
	opts := &configInitOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file populated with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Defaults()
			if err != nil {
				return err
			}

			if opts.output == "" {
				return config.WriteYAML(cmd.OutOrStdout(), cfg)
			}

			if exists, _ := afero.Exists(appFs, opts.output); exists && !opts.force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", opts.output)
			}

			var buf bytes.Buffer
			if err := config.WriteYAML(&buf, cfg); err != nil {
				return err
			}
			if err := afero.WriteFile(appFs, opts.output, buf.Bytes(), os.FileMode(0o644)); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing file")

	return cmd
}

type configDiffOptions struct {
	context bool
}

func newConfigDiffCmd(root *rootFlags) *cobra.Command {
	opts := &configDiffOptions{}

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show how the effective configuration differs from the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults, err := config.Defaults()
			if err != nil {
				return err
			}
			effective, err := loadConfig(cmd, root, nil)
			if err != nil {
				return err
			}

			var from, to bytes.Buffer
			if err := config.WriteYAML(&from, defaults); err != nil {
				return err
			}
			if err := config.WriteYAML(&to, effective); err != nil {
				return err
			}

			out := diff.Lines(from.Bytes(), to.Bytes(), "defaults", "effective", opts.context)
			if out == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Effective configuration matches the defaults.")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.context, "context", false, "Include unchanged lines")

	return cmd
}
