package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/safechain-dev/safe-chain/internal/executor"
)

// FakeRunner is a scripted executor.Runner. Commands are matched on their
// full command line (executor.Command.String). Unscripted commands fail
// with exit status 1, which is how lookups report a missing executable.
type FakeRunner struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	calls     []executor.Command
}

type fakeResponse struct {
	stdout string
	err    error
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string]fakeResponse)}
}

// On scripts a successful command with the given stdout.
func (f *FakeRunner) On(cmdline, stdout string) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = fakeResponse{stdout: stdout}
	return f
}

// Fail scripts a failing command.
func (f *FakeRunner) Fail(cmdline string, err error) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[cmdline] = fakeResponse{err: err}
	return f
}

// Installed scripts a successful lookup ("which" or "where") for each name.
func (f *FakeRunner) Installed(lookup string, names ...string) *FakeRunner {
	for _, name := range names {
		f.On(lookup+" "+name, "/usr/bin/"+name+"\n")
	}
	return f
}

// Run implements executor.Runner.
func (f *FakeRunner) Run(_ context.Context, cmd executor.Command) (*executor.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, cmd)

	resp, ok := f.responses[cmd.String()]
	if !ok {
		return &executor.Result{ExitCode: 1}, &executor.CommandError{
			Cmd:      cmd.String(),
			ExitCode: 1,
			Cause:    errors.New("exit status 1"),
		}
	}
	if resp.err != nil {
		return &executor.Result{ExitCode: 1}, resp.err
	}
	return &executor.Result{Stdout: resp.stdout}, nil
}

// Calls returns every command run so far.
func (f *FakeRunner) Calls() []executor.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]executor.Command, len(f.calls))
	copy(out, f.calls)
	return out
}
