package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/defaultapps/internal/logger"
)

func newPresetsCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List selection presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root, nil)
			if err != nil {
				return err
			}
			_, resolver, err := newCatalog(cfg, logger.Nop())
			if err != nil {
				return err
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "NAME\tITEMS")
			for _, p := range resolver.Presets() {
				fmt.Fprintf(writer, "%s\t%s\n", p.Name, strings.Join(p.Tokens, ","))
			}
			return writer.Flush()
		},
	}
}

func newItemsCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "items",
		Short: "List the URL schemes and file types that can be selected",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root, nil)
			if err != nil {
				return err
			}
			reg, _, err := newCatalog(cfg, logger.Nop())
			if err != nil {
				return err
			}

			writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(writer, "TOKEN\tKIND\tLABEL")
			for _, item := range reg.All() {
				fmt.Fprintf(writer, "%s\t%s\t%s\n", item.Token, item.Kind, item.Label)
			}
			return writer.Flush()
		},
	}
}
