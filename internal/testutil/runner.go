// Package testutil provides fakes shared by package tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/alexisbeaulieu97/defaultapps/internal/execx"
	apperrors "github.com/alexisbeaulieu97/defaultapps/pkg/errors"
)

// Response is the canned reply for one command line.
type Response struct {
	Result execx.Result
	Err    error
}

// FakeRunner replays canned responses keyed by the space-joined command line
// and records every invocation. Unknown commands fail with exit code 1.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]Response
	calls     []string
}

var _ execx.Runner = (*FakeRunner)(nil)

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: map[string]Response{}}
}

// On registers stdout for a successful command.
func (f *FakeRunner) On(cmdline, stdout string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = Response{Result: execx.Result{Stdout: stdout}}
	return f
}

// Fail registers a failing command with the given exit code and stderr.
func (f *FakeRunner) Fail(cmdline string, exitCode int, stderr string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := strings.Fields(cmdline)[0]
	f.responses[cmdline] = Response{
		Result: execx.Result{Stderr: stderr, ExitCode: exitCode},
		Err:    apperrors.NewExecutionError(name, fmt.Errorf("exit status %d: %s", exitCode, stderr)),
	}
	return f
}

// Respond registers an arbitrary response.
func (f *FakeRunner) Respond(cmdline string, resp Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = resp
	return f
}

// Run implements execx.Runner.
func (f *FakeRunner) Run(ctx context.Context, name string, args ...string) (execx.Result, error) {
	cmdline := strings.Join(append([]string{name}, args...), " ")

	f.mu.Lock()
	f.calls = append(f.calls, cmdline)
	resp, ok := f.responses[cmdline]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return execx.Result{}, apperrors.NewExecutionError(name, err)
	}
	if !ok {
		return execx.Result{ExitCode: 1}, apperrors.NewExecutionError(name, errors.New("unexpected command: "+cmdline))
	}
	return resp.Result, resp.Err
}

// Calls returns every command line run so far.
func (f *FakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallsWithPrefix returns the recorded command lines starting with prefix.
func (f *FakeRunner) CallsWithPrefix(prefix string) []string {
	var out []string
	for _, call := range f.Calls() {
		if strings.HasPrefix(call, prefix) {
			out = append(out, call)
		}
	}
	return out
}

// RunnerFunc adapts a function to execx.Runner.
type RunnerFunc func(ctx context.Context, name string, args ...string) (execx.Result, error)

// Run implements execx.Runner.
func (f RunnerFunc) Run(ctx context.Context, name string, args ...string) (execx.Result, error) {
	return f(ctx, name, args...)
}
