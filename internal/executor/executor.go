// Package executor is the subprocess boundary of safe-chain. Every external
// program (lookup commands, shells, OS installers) is started through a
// Runner so that callers can be tested without touching the host.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
)

// Command describes one subprocess invocation.
type Command struct {
	Name string
	Args []string
	// Env replaces the environment when non-nil; nil inherits os.Environ()
	Env []string
	// Interactive attaches the process to the terminal instead of capturing output
	Interactive bool
}

// String renders the command line for logs and errors.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result represents the outcome of a command execution.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner starts subprocesses.
type Runner interface {
	Run(ctx context.Context, cmd Command) (*Result, error)
}

// OSRunner implements Runner using os/exec.
type OSRunner struct{}

// NewOSRunner creates a runner backed by the host OS.
func NewOSRunner() *OSRunner {
	return &OSRunner{}
}

// Run executes the command and waits for it. A non-zero exit status is
// reported as a *CommandError alongside the populated Result.
func (r *OSRunner) Run(ctx context.Context, command Command) (*Result, error) {
	if command.Name == "" {
		return nil, os.ErrInvalid
	}

	//nolint:gosec // G204: callers only pass names and flags from fixed allow-lists
	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	if command.Env != nil {
		cmd.Env = command.Env
	}

	var stdout, stderr bytes.Buffer
	if command.Interactive {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return result, nil
	}

	result.ExitCode = -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	}

	return result, &CommandError{
		Cmd:      command.String(),
		ExitCode: result.ExitCode,
		Stderr:   strings.TrimSpace(result.Stderr),
		Cause:    err,
	}
}

// CommandError reports a subprocess that could not start or exited non-zero.
type CommandError struct {
	Cmd      string
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *CommandError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command failed: %s: %v: %s", e.Cmd, e.Cause, e.Stderr)
	}
	return fmt.Sprintf("command failed: %s: %v", e.Cmd, e.Cause)
}

func (e *CommandError) Unwrap() error {
	return e.Cause
}

// executableNamePattern restricts lookups to plain executable names.
var executableNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// LookupCommand returns the platform lookup program: "where" on Windows,
// "which" everywhere else.
func LookupCommand(goos string) string {
	if goos == "windows" {
		return "where"
	}
	return "which"
}

// ExecutableExists reports whether name resolves on the executable search
// path. Any failure, including an invalid name, counts as "not installed".
func ExecutableExists(ctx context.Context, r Runner, goos, name string) bool {
	if !executableNamePattern.MatchString(name) {
		return false
	}

	_, err := r.Run(ctx, Command{
		Name: LookupCommand(goos),
		Args: []string{name},
	})
	return err == nil
}
