// Package execx runs external binaries with a bounded timeout, optionally in
// the context of the logged-in console user.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/alexisbeaulieu97/defaultapps/pkg/errors"
)

// DefaultTimeout bounds a single invocation when the runner has none configured.
const DefaultTimeout = 15 * time.Second

// Result captures the output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// PrimaryOutput returns stderr if present, otherwise stdout.
func PrimaryOutput(res Result) string {
	if res.Stderr != "" {
		return res.Stderr
	}
	return res.Stdout
}

// Runner executes an external command and returns its trimmed output.
// A non-zero exit is reported as an error that still carries the Result.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (Result, error)
}

// ConsoleUser identifies the interactive user commands should run as.
type ConsoleUser struct {
	Name string
	UID  int
}

// Valid reports whether the user is a real, non-root login.
func (u ConsoleUser) Valid() bool {
	name := strings.TrimSpace(u.Name)
	return name != "" && name != "root" && name != "loginwindow" && u.UID > 0
}

var _ Runner = (*ExecRunner)(nil)

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct {
	Timeout time.Duration
	// AsUser, when valid and the process runs as root, wraps every command in
	// launchctl asuser/sudo so per-user defaults are read and written.
	AsUser ConsoleUser

	euid func() int
}

// NewRunner creates an ExecRunner.
func NewRunner(timeout time.Duration, user ConsoleUser) *ExecRunner {
	return &ExecRunner{Timeout: timeout, AsUser: user, euid: os.Geteuid}
}

// WithTimeout returns a copy of the runner using a different timeout.
func (r *ExecRunner) WithTimeout(timeout time.Duration) *ExecRunner {
	clone := *r
	clone.Timeout = timeout
	return &clone
}

// Command returns the argv actually executed for name/args.
func (r *ExecRunner) Command(name string, args ...string) []string {
	euid := r.euid
	if euid == nil {
		euid = os.Geteuid
	}
	argv := append([]string{name}, args...)
	if euid() != 0 || !r.AsUser.Valid() {
		return argv
	}
	prefix := []string{"launchctl", "asuser", strconv.Itoa(r.AsUser.UID), "sudo", "-u", r.AsUser.Name}
	return append(prefix, argv...)
}

// Run executes the command, waiting at most the configured timeout.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (Result, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	argv := r.Command(name, args...)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	err := cmd.Run()
	res := Result{
		Stdout: strings.TrimSpace(stdoutBuf.String()),
		Stderr: strings.TrimSpace(stderrBuf.String()),
	}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err == nil {
		return res, nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return res, apperrors.NewExecutionError(name, fmt.Errorf("timed out after %s: %w", timeout, context.DeadlineExceeded))
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if out := PrimaryOutput(res); out != "" {
			err = fmt.Errorf("%w: %s", err, out)
		}
	}
	return res, apperrors.NewExecutionError(name, err)
}

// ExitCode extracts the process exit code from an error returned by Run.
func ExitCode(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}

// IsTimeout reports whether err came from an invocation exceeding its timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
