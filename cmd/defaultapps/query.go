package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/defaultapps/internal/handlers"
	"github.com/alexisbeaulieu97/defaultapps/internal/preset"
)

type queryOptions struct {
	json bool
}

func newQueryCmd(root *rootFlags) *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "query [selection]",
		Short: "Print current defaults and candidate applications without changing anything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, root, nil)
			if err != nil {
				return err
			}

			selection := cfg.Selection
			if len(args) == 1 {
				selection = args[0]
			}
			if strings.TrimSpace(selection) == "" {
				selection = preset.AllPreset
			}

			ctx := commandContext(cmd)
			app, err := newAppContext(ctx, cmd, cfg)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Deps.EnsureAll(ctx, app.dependencies(false)); err != nil {
				return err
			}

			fields, err := app.Pipeline.Query(ctx, selection)
			if err != nil {
				return err
			}

			if opts.json {
				return renderQueryJSON(cmd, fields)
			}
			return renderQueryTable(cmd, fields)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "Output as JSON")

	return cmd
}

func renderQueryTable(cmd *cobra.Command, fields []handlers.Field) error {
	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "TOKEN\tLABEL\tCURRENT\tCANDIDATES")

	for _, field := range fields {
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n",
			field.Item.Token,
			field.Item.Label,
			valueOrFallback(field.Current, "(none)"),
			valueOrFallback(strings.Join(field.Candidates, ", "), "(none)"),
		)
	}

	return writer.Flush()
}

type queryJSONField struct {
	Token      string   `json:"token"`
	Label      string   `json:"label"`
	Kind       string   `json:"kind"`
	Current    string   `json:"current,omitempty"`
	Candidates []string `json:"candidates"`
}

func renderQueryJSON(cmd *cobra.Command, fields []handlers.Field) error {
	payload := make([]queryJSONField, 0, len(fields))
	for _, field := range fields {
		payload = append(payload, queryJSONField{
			Token:      field.Item.Token,
			Label:      field.Item.Label,
			Kind:       string(field.Item.Kind),
			Current:    field.Current,
			Candidates: field.Candidates,
		})
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

func valueOrFallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
