// Package handlers queries and sets default handler applications through the
// utiluti command line tool.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/alexisbeaulieu97/defaultapps/internal/execx"
	"github.com/alexisbeaulieu97/defaultapps/internal/items"
	"github.com/alexisbeaulieu97/defaultapps/internal/logger"
	"github.com/alexisbeaulieu97/defaultapps/internal/model"
)

// Options configures a Client.
type Options struct {
	Utiluti string
	Mdls    string
	Roots   []string
	DryRun  bool
}

// Field is what the dialog needs to present one item. Current is empty when
// no default is assigned or it lives outside the recognised roots.
type Field struct {
	Item       items.Item
	Candidates []string
	Current    string
}

// HasCurrent reports whether a current default is known.
func (f Field) HasCurrent() bool {
	return f.Current != ""
}

// Client wraps the handler utility.
type Client struct {
	runner execx.Runner
	fs     afero.Fs
	opts   Options
	log    *logger.Logger
}

// NewClient creates a Client. Zero option values fall back to the standard
// binary locations and DefaultRoots.
func NewClient(runner execx.Runner, fs afero.Fs, opts Options, log *logger.Logger) *Client {
	if opts.Utiluti == "" {
		opts.Utiluti = "/usr/local/bin/utiluti"
	}
	if opts.Mdls == "" {
		opts.Mdls = "/usr/bin/mdls"
	}
	if len(opts.Roots) == 0 {
		opts.Roots = DefaultRoots()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{runner: runner, fs: fs, opts: opts, log: log}
}

// Roots returns the recognised application directories.
func (c *Client) Roots() []string {
	return append([]string(nil), c.opts.Roots...)
}

func (c *Client) utiluti(ctx context.Context, args ...string) (string, error) {
	res, err := c.runner.Run(ctx, c.opts.Utiluti, args...)
	if err != nil {
		return "", err
	}
	return res.Stdout, nil
}

// UTI resolves a file extension to its uniform type identifier. Dynamic
// identifiers mean the system knows no type for the extension.
func (c *Client) UTI(ctx context.Context, ext string) Lookup[string] {
	out, err := c.utiluti(ctx, "get-uti", strings.TrimPrefix(ext, "."))
	if err != nil {
		return Failure[string](err)
	}
	lookup := scalar(out)
	if lookup.OK() && strings.HasPrefix(lookup.Value, "dyn.") {
		return Missing[string]()
	}
	return lookup
}

// SchemeCandidates lists the bundle paths able to handle a URL scheme.
func (c *Client) SchemeCandidates(ctx context.Context, scheme string) Lookup[[]string] {
	out, err := c.utiluti(ctx, "url", "list", scheme)
	if err != nil {
		return Failure[[]string](err)
	}
	return lines(out)
}

// TypeCandidates lists the bundle paths able to open a UTI.
func (c *Client) TypeCandidates(ctx context.Context, uti string) Lookup[[]string] {
	out, err := c.utiluti(ctx, "type", "list", uti)
	if err != nil {
		return Failure[[]string](err)
	}
	return lines(out)
}

// SchemeDefault returns the bundle path currently handling a URL scheme.
func (c *Client) SchemeDefault(ctx context.Context, scheme string) Lookup[string] {
	out, err := c.utiluti(ctx, "url", scheme)
	if err != nil {
		return Failure[string](err)
	}
	return scalar(out)
}

// TypeDefault returns the bundle path currently opening a UTI.
func (c *Client) TypeDefault(ctx context.Context, uti string) Lookup[string] {
	out, err := c.utiluti(ctx, "type", uti)
	if err != nil {
		return Failure[string](err)
	}
	return scalar(out)
}

// BundleID reads the bundle identifier of an application via Spotlight metadata.
func (c *Client) BundleID(ctx context.Context, appPath string) Lookup[string] {
	res, err := c.runner.Run(ctx, c.opts.Mdls, "-name", "kMDItemCFBundleIdentifier", "-raw", appPath)
	if err != nil {
		return Failure[string](err)
	}
	return scalar(res.Stdout)
}

// Query collects the candidates and current default for item. Failures are
// logged and degrade the field to no candidates and no default.
func (c *Client) Query(ctx context.Context, item items.Item) Field {
	log := c.log.WithFields(map[string]any{"token": item.Token, "kind": string(item.Kind)})
	field := Field{Item: item, Candidates: []string{}}

	var candidates Lookup[[]string]
	var current Lookup[string]

	switch item.Kind {
	case items.KindURL:
		candidates = c.SchemeCandidates(ctx, item.LookupKey())
		current = c.SchemeDefault(ctx, item.LookupKey())
	default:
		uti := c.UTI(ctx, item.LookupKey())
		if !uti.OK() {
			logLookup(log, uti.State, uti.Err, "could not resolve type identifier")
			return field
		}
		log = log.With("uti", uti.Value)
		candidates = c.TypeCandidates(ctx, uti.Value)
		current = c.TypeDefault(ctx, uti.Value)
	}

	if candidates.OK() {
		field.Candidates = DisplayNames(candidates.Value, c.opts.Roots)
	} else {
		logLookup(log, candidates.State, candidates.Err, "no candidate applications found")
	}

	if current.OK() {
		if name, ok := DisplayName(current.Value, c.opts.Roots); ok {
			field.Current = name
		} else {
			log.With("path", current.Value).Debug("current default outside recognised application directories")
		}
	} else {
		logLookup(log, current.State, current.Err, "no current default found")
	}

	log.WithFields(map[string]any{"candidates": len(field.Candidates), "current": field.Current}).Info("queried handlers")
	return field
}

func logLookup(log *logger.Logger, state State, err error, msg string) {
	if state == Failed {
		log.Error(err, msg)
		return
	}
	log.Warn(msg)
}

// Apply binds choice as the default handler for item. Empty choices are
// skipped; every failure is recorded on the result rather than returned.
func (c *Client) Apply(ctx context.Context, item items.Item, choice string) model.ApplyResult {
	start := time.Now()
	log := c.log.WithFields(map[string]any{"token": item.Token, "kind": string(item.Kind)})

	result := model.ApplyResult{Token: item.Token, Application: strings.TrimSpace(choice)}
	finish := func(status model.ApplyStatus, msg string, err error) model.ApplyResult {
		result.Status = status
		result.Message = msg
		result.Error = err
		result.Duration = time.Since(start)
		result.Timestamp = time.Now()
		switch status {
		case model.StatusFailed:
			log.Error(err, msg)
		case model.StatusSkipped:
			log.Info(msg)
		default:
			log.WithFields(map[string]any{"app": result.Application, "bundle_id": result.BundleID}).Info(msg)
		}
		return result
	}

	if IsEmptyValue(result.Application) {
		result.Application = ""
		return finish(model.StatusSkipped, "no selection made", nil)
	}

	appPath, ok := Locate(c.fs, result.Application, c.opts.Roots)
	if !ok {
		return finish(model.StatusFailed, "application not found", fmt.Errorf("%s.app not found in %s", result.Application, strings.Join(c.opts.Roots, ", ")))
	}

	bundle := c.BundleID(ctx, appPath)
	if !bundle.OK() {
		return finish(model.StatusFailed, "could not resolve bundle identifier", lookupErr(bundle.State, bundle.Err, "no bundle identifier for "+appPath))
	}
	result.BundleID = bundle.Value

	args := []string{"url", "set", item.LookupKey(), bundle.Value}
	if item.Kind == items.KindType {
		uti := c.UTI(ctx, item.LookupKey())
		if !uti.OK() {
			return finish(model.StatusFailed, "could not resolve type identifier", lookupErr(uti.State, uti.Err, "no type identifier for ."+item.LookupKey()))
		}
		args = []string{"type", "set", uti.Value, bundle.Value}
	}

	if c.opts.DryRun {
		return finish(model.StatusPlanned, "dry-run: would set default handler", nil)
	}

	if _, err := c.utiluti(ctx, args...); err != nil {
		return finish(model.StatusFailed, "setting default handler failed", err)
	}
	return finish(model.StatusApplied, "default handler set", nil)
}

func lookupErr(state State, err error, msg string) error {
	if state == Failed && err != nil {
		return err
	}
	return errors.New(msg)
}
