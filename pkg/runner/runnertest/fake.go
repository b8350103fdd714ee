// Package runnertest provides a recording runner.Runner for tests.
package runnertest

import (
	"context"
	"strings"
	"sync"

	"github.com/arthur-debert/postgen/pkg/errors"
	"github.com/arthur-debert/postgen/pkg/runner"
)

// Response is what the fake answers for a matching command.
type Response struct {
	Result runner.Result
	Err    error
	// Do runs before the response is returned, e.g. to create files the
	// real tool would have produced.
	Do func(cmd runner.Command)
}

// Fake records every command it is asked to run. Commands are matched by
// prefix of their rendered command line; the longest matching prefix wins.
// Unmatched commands succeed with empty output.
type Fake struct {
	mu        sync.Mutex
	responses map[string]Response
	missing   map[string]bool
	Calls     []runner.Command
}

// New returns an empty Fake.
func New() *Fake {
	return &Fake{
		responses: make(map[string]Response),
		missing:   make(map[string]bool),
	}
}

// On registers a response for commands whose line starts with prefix.
func (f *Fake) On(prefix string, resp Response) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[prefix] = resp
	return f
}

// Fail makes commands starting with prefix exit with code and stderr.
func (f *Fake) Fail(prefix string, code int, stderr string) *Fake {
	return f.On(prefix, Response{Result: runner.Result{ExitCode: code, Stderr: stderr}})
}

// Missing marks a binary as absent: LookPath fails and Run returns
// TOOL_NOT_FOUND for it.
func (f *Fake) Missing(name string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.missing[name] = true
	return f
}

// Run implements runner.Runner.
func (f *Fake) Run(ctx context.Context, cmd runner.Command) (runner.Result, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, cmd)
	missing := f.missing[cmd.Name]
	resp, ok := f.match(cmd.String())
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return runner.Result{}, err
	}
	if missing {
		return runner.Result{}, errors.Newf(errors.ErrToolNotFound, "%s not found", cmd.Name)
	}
	if !ok {
		return runner.Result{}, nil
	}
	if resp.Do != nil {
		resp.Do(cmd)
	}
	return resp.Result, resp.Err
}

// LookPath implements runner.Runner.
func (f *Fake) LookPath(name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing[name] {
		return "", errors.Newf(errors.ErrToolNotFound, "%s not found on PATH", name)
	}
	return "/usr/bin/" + name, nil
}

// Lines returns the rendered command lines in call order.
func (f *Fake) Lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		out[i] = c.String()
	}
	return out
}

func (f *Fake) match(line string) (Response, bool) {
	best := -1
	var found Response
	for prefix, resp := range f.responses {
		if strings.HasPrefix(line, prefix) && len(prefix) > best {
			best = len(prefix)
			found = resp
		}
	}
	return found, best >= 0
}
