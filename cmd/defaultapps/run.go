package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	pipelineapp "github.com/alexisbeaulieu97/defaultapps/internal/app/pipeline"
	"github.com/alexisbeaulieu97/defaultapps/internal/tui"
)

var runCmdRunner = runDefaults

func newRunCmd(root *rootFlags) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [management parameters...]",
		Short: "Show the selection dialog and apply the chosen defaults",
		Args:  cobra.MaximumNArgs(maxPositional + jamfReserved),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCmdRunner(cmd, root, opts, args)
		},
	}
	opts.bind(cmd)

	return cmd
}

func runDefaults(cmd *cobra.Command, root *rootFlags, opts *runOptions, args []string) error {
	overrides, err := positionalOverrides(args, opts.jamfArgs)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, root, overrides)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newAppContext(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	outcome, err := app.Pipeline.Run(ctx, pipelineapp.Request{
		Selection:    cfg.Selection,
		Header:       dialogHeader(cfg),
		Facts:        app.Facts,
		Dependencies: app.dependencies(true),
	})
	if err != nil {
		app.Log.Error(err, "run failed")
		return err
	}

	report := tui.Report{
		Title:     cfg.Dialog.Title,
		Results:   outcome.Results,
		Total:     len(outcome.Selection),
		Cancelled: outcome.Cancelled,
		DryRun:    cfg.DryRun,
		Duration:  outcome.Duration,
		Unicode:   isTerminal(cmd.OutOrStdout()),
	}
	fmt.Fprintln(cmd.OutOrStdout(), report.View())
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func isTerminal(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
