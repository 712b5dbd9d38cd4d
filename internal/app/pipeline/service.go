// Package pipeline runs the default-application flow end to end: resolve the
// selection, query current handlers, show the dialog, and apply the choices.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/alexisbeaulieu97/defaultapps/internal/deps"
	"github.com/alexisbeaulieu97/defaultapps/internal/dialog"
	"github.com/alexisbeaulieu97/defaultapps/internal/handlers"
	"github.com/alexisbeaulieu97/defaultapps/internal/items"
	"github.com/alexisbeaulieu97/defaultapps/internal/logger"
	"github.com/alexisbeaulieu97/defaultapps/internal/model"
	"github.com/alexisbeaulieu97/defaultapps/internal/preset"
	"github.com/alexisbeaulieu97/defaultapps/internal/sysinfo"
)

// Handlers queries and binds default applications.
type Handlers interface {
	Query(ctx context.Context, item items.Item) handlers.Field
	Apply(ctx context.Context, item items.Item, choice string) model.ApplyResult
}

// DependencyChecker makes sure the external tools are installed.
type DependencyChecker interface {
	EnsureAll(ctx context.Context, list []deps.Dependency) error
}

var (
	_ Handlers          = (*handlers.Client)(nil)
	_ DependencyChecker = (*deps.Checker)(nil)
)

// Options wires the collaborators of a Service.
type Options struct {
	Resolver *preset.Resolver
	Handlers Handlers
	Renderer dialog.Renderer
	// Deps may be nil when dependencies are checked elsewhere.
	Deps DependencyChecker
	Log  *logger.Logger
}

// Service coordinates a single run.
type Service struct {
	resolver *preset.Resolver
	handlers Handlers
	renderer dialog.Renderer
	deps     DependencyChecker
	log      *logger.Logger
}

// NewService constructs a pipeline service.
func NewService(opts Options) *Service {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		resolver: opts.Resolver,
		handlers: opts.Handlers,
		renderer: opts.Renderer,
		deps:     opts.Deps,
		log:      log,
	}
}

// Request configures a run.
type Request struct {
	Selection    string
	Header       dialog.Header
	Facts        sysinfo.Facts
	Dependencies []deps.Dependency
	OnResult     func(model.ApplyResult)
}

// Outcome reports what a run did. Results follow selection order and are
// empty when the user cancelled.
type Outcome struct {
	Selection []items.Item
	Document  *dialog.Document
	Cancelled bool
	Results   []model.ApplyResult
	Duration  time.Duration
}

// Run executes the full flow. Errors are returned only for fatal conditions:
// an empty selection, a missing required tool, or a renderer that could not
// be run. Per-item failures are recorded in the results.
func (s *Service) Run(ctx context.Context, req Request) (*Outcome, error) {
	start := time.Now()

	selection, err := s.resolver.Resolve(req.Selection)
	if err != nil {
		return nil, err
	}
	outcome := &Outcome{Selection: selection}
	s.log.With("items", preset.Tokens(selection)).Info("selection resolved")

	if s.deps != nil && len(req.Dependencies) > 0 {
		if err := s.deps.EnsureAll(ctx, req.Dependencies); err != nil {
			return nil, err
		}
	}

	fields := s.query(ctx, selection)

	doc, err := dialog.Build(fields, s.header(req))
	if err != nil {
		return nil, err
	}
	outcome.Document = doc

	raw, err := s.renderer.Render(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("render dialog: %w", err)
	}

	result := dialog.Extract(raw, doc)
	if result.Cancelled {
		s.log.With("exit_code", raw.ExitCode).Info("dialog cancelled; no changes made")
		outcome.Cancelled = true
		outcome.Duration = time.Since(start)
		return outcome, nil
	}
	if result.ParseErr != nil {
		s.log.Error(result.ParseErr, "could not read dialog output; treating every field as unselected")
	}

	outcome.Results = make([]model.ApplyResult, 0, len(selection))
	for _, item := range selection {
		res := s.handlers.Apply(ctx, item, result.Choice(item.Token))
		outcome.Results = append(outcome.Results, res)
		if req.OnResult != nil {
			req.OnResult(res)
		}
	}

	outcome.Duration = time.Since(start)
	counts := model.Counts(outcome.Results)
	s.log.WithFields(map[string]any{
		"applied": counts[model.StatusApplied] + counts[model.StatusPlanned],
		"skipped": counts[model.StatusSkipped],
		"failed":  counts[model.StatusFailed],
	}).Info("run complete")

	return outcome, nil
}

// Query resolves a selection and returns the current state of each item
// without showing a dialog or changing anything.
func (s *Service) Query(ctx context.Context, spec string) ([]handlers.Field, error) {
	selection, err := s.resolver.Resolve(spec)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, selection), nil
}

func (s *Service) query(ctx context.Context, selection []items.Item) []handlers.Field {
	fields := make([]handlers.Field, 0, len(selection))
	for _, item := range selection {
		fields = append(fields, s.handlers.Query(ctx, item))
	}
	return fields
}

func (s *Service) header(req Request) dialog.Header {
	header := req.Header
	if header.HelpMessage == "" {
		return header
	}
	expanded, err := sysinfo.Expand(header.HelpMessage, req.Facts)
	if err != nil {
		s.log.Error(err, "help message template invalid; using it verbatim")
		return header
	}
	header.HelpMessage = expanded
	return header
}
