package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	pipelineapp "github.com/alexisbeaulieu97/defaultapps/internal/app/pipeline"
	"github.com/alexisbeaulieu97/defaultapps/internal/config"
	"github.com/alexisbeaulieu97/defaultapps/internal/deps"
	"github.com/alexisbeaulieu97/defaultapps/internal/dialog"
	"github.com/alexisbeaulieu97/defaultapps/internal/execx"
	"github.com/alexisbeaulieu97/defaultapps/internal/handlers"
	"github.com/alexisbeaulieu97/defaultapps/internal/items"
	"github.com/alexisbeaulieu97/defaultapps/internal/logger"
	"github.com/alexisbeaulieu97/defaultapps/internal/preset"
	"github.com/alexisbeaulieu97/defaultapps/internal/sysinfo"
)

// Replaced in tests.
var (
	newRunner = func(timeout time.Duration, user execx.ConsoleUser) execx.Runner {
		return execx.NewRunner(timeout, user)
	}
	appFs afero.Fs = afero.NewOsFs()
)

// AppContext bundles the services created for one invocation.
type AppContext struct {
	Config   *config.Config
	Log      *logger.Logger
	RunID    string
	Facts    sysinfo.Facts
	Registry *items.Registry
	Resolver *preset.Resolver
	Handlers *handlers.Client
	Deps     *deps.Checker
	Pipeline *pipelineapp.Service
}

func loadConfig(cmd *cobra.Command, root *rootFlags, overrides map[string]string) (*config.Config, error) {
	cfg, err := config.Load(config.LoadOptions{
		Path:      root.configPath,
		Flags:     boundFlags(cmd),
		Overrides: overrides,
	})
	if err != nil {
		return nil, err
	}
	if root.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// newCatalog builds the item registry and preset resolver from cfg.
func newCatalog(cfg *config.Config, log *logger.Logger) (*items.Registry, *preset.Resolver, error) {
	extra := make([]items.Item, 0, len(cfg.Items))
	for _, item := range cfg.Items {
		extra = append(extra, items.Item{
			Token: item.Token,
			Label: item.Label,
			Kind:  items.Kind(item.Kind),
			Key:   item.Key,
		})
	}

	reg, err := items.Default().Extend(extra)
	if err != nil {
		return nil, nil, err
	}
	return reg, preset.NewResolver(reg, cfg.Presets, log), nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config) (*logger.Logger, error) {
	opts := logger.Options{
		Level:         cfg.Log.Level,
		HumanReadable: !cfg.Log.JSON,
		Writer:        cmd.ErrOrStderr(),
		MaxSizeMB:     cfg.Log.MaxSizeMB,
		MaxBackups:    cfg.Log.MaxBackups,
	}

	fileWarning := ""
	if cfg.Log.File != "" {
		if logFileWritable(appFs, cfg.Log.File) {
			opts.FilePath = cfg.Log.File
		} else {
			fileWarning = "log file not writable; logging to console only"
		}
	}

	log, err := logger.New(opts)
	if err != nil {
		return nil, err
	}
	if fileWarning != "" {
		log.With("path", cfg.Log.File).Warn(fileWarning)
	}
	return log, nil
}

func logFileWritable(fs afero.Fs, path string) bool {
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false
	}
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// newAppContext wires every service for a run. System facts are read as the
// invoking user; handler queries and the dialog run as the console user.
func newAppContext(ctx context.Context, cmd *cobra.Command, cfg *config.Config) (*AppContext, error) {
	base, err := newLogger(cmd, cfg)
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	log := base.With("run_id", runID)

	reg, resolver, err := newCatalog(cfg, log)
	if err != nil {
		_ = base.Close()
		return nil, err
	}

	system := newRunner(cfg.Timeouts.Command, execx.ConsoleUser{})
	facts := sysinfo.Gather(ctx, system, log)
	log.WithFields(map[string]any{
		"console_user": facts.ConsoleUser,
		"os_version":   facts.OSVersion,
		"dry_run":      cfg.DryRun,
	}).Info("starting")

	user := newRunner(cfg.Timeouts.Command, facts.User())
	client := handlers.NewClient(user, appFs, handlers.Options{
		Utiluti: cfg.Binaries.Utiluti,
		Mdls:    cfg.Binaries.Mdls,
		Roots:   cfg.Roots,
		DryRun:  cfg.DryRun,
	}, log)
	checker := deps.NewChecker(appFs, system, cfg.Binaries.Agent, log)

	app := &AppContext{
		Config:   cfg,
		Log:      log,
		RunID:    runID,
		Facts:    facts,
		Registry: reg,
		Resolver: resolver,
		Handlers: client,
		Deps:     checker,
	}
	app.Pipeline = pipelineapp.NewService(pipelineapp.Options{
		Resolver: resolver,
		Handlers: client,
		Renderer: app.renderer(cmd),
		Deps:     checker,
		Log:      log,
	})
	return app, nil
}

// Close flushes the log file.
func (a *AppContext) Close() {
	if a == nil {
		return
	}
	_ = a.Log.Close()
}

func (a *AppContext) renderer(cmd *cobra.Command) dialog.Renderer {
	if a.Config.Renderer == "console" {
		console := dialog.NewConsole(cmd.InOrStdin(), cmd.OutOrStdout())
		console.AltScreen = isTerminal(cmd.OutOrStdout())
		return console
	}
	return &dialog.SwiftDialog{
		Binary: a.Config.Binaries.Dialog,
		Runner: newRunner(a.Config.Timeouts.Dialog, a.Facts.User()),
		Fs:     appFs,
		Dir:    a.Config.Dialog.WorkDir,
		Log:    a.Log,
	}
}

// dependencies lists the tools a run needs. The dialog binary is only
// required for the swiftDialog renderer.
func (a *AppContext) dependencies(withDialog bool) []deps.Dependency {
	cfg := a.Config
	list := []deps.Dependency{{Name: "utiluti", Path: cfg.Binaries.Utiluti, Trigger: cfg.Triggers.Utiluti}}
	if withDialog && cfg.Renderer != "console" {
		list = append(list, deps.Dependency{Name: "dialog", Path: cfg.Binaries.Dialog, Trigger: cfg.Triggers.Dialog})
	}
	if cfg.Dialog.IconPath != "" {
		list = append(list, deps.Dependency{Name: "icons", Path: cfg.Dialog.IconPath, Trigger: cfg.Triggers.Icons, Optional: true})
	}
	return list
}

func dialogHeader(cfg *config.Config) dialog.Header {
	d := cfg.Dialog
	header := dialog.Header{
		Title:       d.Title,
		Message:     d.Message,
		Icon:        d.Icon,
		BannerImage: d.BannerImage,
		InfoBox:     d.InfoBox,
		OverlayIcon: d.OverlayIcon,
		OnTop:       d.OnTop,
		Moveable:    d.Moveable,
		HelpMessage: d.HelpMessage,
		HelpImage:   d.HelpImage,
		Button1Text: d.Button1Text,
		Button2Text: d.Button2Text,
		Width:       d.Width,
		Height:      d.Height,
	}
	if d.IconPath != "" {
		header.Icon = d.IconPath
	}
	if d.SupportURL != "" {
		header.InfoButtonText = d.InfoButtonText
		header.InfoButtonAction = d.SupportURL
	}
	return header
}
