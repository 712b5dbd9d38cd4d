// Package deps checks that the external binaries the run needs are present and
// asks the management agent to install them when they are not.
package deps

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/alexisbeaulieu97/defaultapps/internal/execx"
	"github.com/alexisbeaulieu97/defaultapps/internal/logger"
	apperrors "github.com/alexisbeaulieu97/defaultapps/pkg/errors"
)

// Dependency is an external file the run relies on.
type Dependency struct {
	Name string
	Path string
	// Trigger is the management policy event that installs Path.
	Trigger string
	// Optional dependencies only log when still missing after install.
	Optional bool
}

// Checker verifies and installs dependencies.
type Checker struct {
	fs     afero.Fs
	runner execx.Runner
	agent  string
	log    *logger.Logger
}

// NewChecker creates a Checker. agent is the management binary used to run
// install triggers, e.g. /usr/local/bin/jamf.
func NewChecker(fs afero.Fs, runner execx.Runner, agent string, log *logger.Logger) *Checker {
	if log == nil {
		log = logger.Nop()
	}
	return &Checker{fs: fs, runner: runner, agent: agent, log: log}
}

func (c *Checker) present(path string) bool {
	info, err := c.fs.Stat(path)
	return err == nil && !info.IsDir()
}

// Ensure makes sure dep exists, running its install trigger once if needed.
func (c *Checker) Ensure(ctx context.Context, dep Dependency) error {
	log := c.log.WithFields(map[string]any{"dependency": dep.Name, "path": dep.Path})

	if c.present(dep.Path) {
		log.Debug("dependency present")
		return nil
	}

	trigger := strings.TrimSpace(dep.Trigger)
	if trigger == "" {
		return c.missing(log, dep, fmt.Errorf("%s not found and no install trigger configured", dep.Path))
	}
	if c.agent == "" || !c.present(c.agent) {
		return c.missing(log, dep, fmt.Errorf("%s not found and management agent %q unavailable", dep.Path, c.agent))
	}

	log.With("trigger", trigger).Info("dependency missing, running install policy")
	if _, err := c.runner.Run(ctx, c.agent, "policy", "-event", trigger); err != nil {
		log.Error(err, "install policy failed")
	}

	if !c.present(dep.Path) {
		return c.missing(log, dep, fmt.Errorf("%s still missing after running trigger %q", dep.Path, trigger))
	}

	log.Info("dependency installed")
	return nil
}

func (c *Checker) missing(log *logger.Logger, dep Dependency, err error) error {
	if dep.Optional {
		log.Warn(err.Error())
		return nil
	}
	return apperrors.NewDependencyError(dep.Path, err)
}

// EnsureAll checks every dependency in order and stops at the first fatal one.
func (c *Checker) EnsureAll(ctx context.Context, list []Dependency) error {
	for _, dep := range list {
		if err := c.Ensure(ctx, dep); err != nil {
			return err
		}
	}
	return nil
}
