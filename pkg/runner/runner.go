// Package runner runs external tools: the container build tool, package
// managers, template engines and linters.
//
// Everything goes through the Runner interface so callers can be tested
// with runnertest.Fake instead of touching the network or the host.
package runner

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/logging"
	"github.com/rs/zerolog"
)

// Command describes one external process invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory (optional).
	Dir string
	// Env is overlaid on the current environment.
	Env map[string]string
	// Stream forwards output to the runner's writers as it arrives, in
	// addition to capturing it.
	Stream bool
}

// String renders the command line for messages.
func (c Command) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// Result holds the outcome of a process that ran.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports a zero exit status.
func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner executes commands.
type Runner interface {
	// Run executes cmd to completion. A non-zero exit is reported through
	// Result.ExitCode with a nil error; the error is reserved for processes
	// that could not run at all (binary missing, context canceled).
	Run(ctx context.Context, cmd Command) (Result, error)

	// LookPath resolves an executable on PATH.
	LookPath(name string) (string, error)
}

// Exec is the os/exec backed Runner.
type Exec struct {
	stdout io.Writer
	stderr io.Writer
	logger zerolog.Logger
}

// NewExec returns a Runner that streams to stdout and stderr when asked.
func NewExec(stdout, stderr io.Writer) *Exec {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Exec{
		stdout: stdout,
		stderr: stderr,
		logger: logging.GetLogger("runner"),
	}
}

// Run implements Runner.
func (e *Exec) Run(ctx context.Context, c Command) (Result, error) {
	logging.LogCommand(e.logger, c.Name, c.Args)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), envList(c.Env)...)
	}

	var stdout, stderr bytes.Buffer
	if c.Stream {
		cmd.Stdout = io.MultiWriter(e.stdout, &stdout)
		cmd.Stderr = io.MultiWriter(e.stderr, &stderr)
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}

	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			e.logger.Debug().
				Str("command", c.Name).
				Int("exitCode", result.ExitCode).
				Str("stderr", result.Stderr).
				Msg("Command exited with non-zero status")
			return result, nil
		}
		if isNotFound(err) {
			return result, errors.Wrapf(err, errors.ErrToolNotFound, "%s not found", c.Name)
		}
		return result, errors.Wrapf(err, errors.ErrToolFailed, "failed to run %s", c.Name)
	}

	e.logger.Debug().Str("command", c.Name).Msg("Command executed successfully")
	return result, nil
}

// LookPath implements Runner.
func (e *Exec) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrToolNotFound, "%s not found on PATH", name)
	}
	return path, nil
}

// isNotFound reports a failed PATH lookup. Other launch failures, such as
// a missing working directory, are not a missing tool.
func isNotFound(err error) bool {
	var execErr *exec.Error
	return stderrors.As(err, &execErr)
}

// envList renders env in a stable order.
func envList(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, fmt.Sprintf("%s=%s", k, env[k]))
	}
	return out
}

// MustSucceed runs cmd and turns both launch failures and non-zero exits
// into an error carrying what was being attempted.
func MustSucceed(ctx context.Context, r Runner, cmd Command, what string) (Result, error) {
	result, err := r.Run(ctx, cmd)
	if err != nil {
		code := errors.ErrToolFailed
		if errors.IsErrorCode(err, errors.ErrToolNotFound) {
			code = errors.ErrToolNotFound
		}
		return result, errors.Wrapf(err, code, "%s", what).
			WithDetail("command", cmd.String())
	}
	if !result.Success() {
		return result, errors.Newf(errors.ErrToolFailed, "%s: %s exited with status %d",
			what, cmd.Name, result.ExitCode).
			WithDetail("command", cmd.String()).
			WithDetail("stderr", result.Stderr)
	}
	return result, nil
}
