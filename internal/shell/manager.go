package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"syscall"

	"github.com/safechain-dev/safe-chain/internal/executor"
	"github.com/safechain-dev/safe-chain/internal/tools"
)

// Reporter receives the user-facing summary. *ui.Printer implements it.
type Reporter interface {
	WriteInformation(format string, args ...any)
	WriteError(format string, args ...any)
	EmptyLine()
	Bold(s string) string
	Green(s string) string
	Red(s string) string
}

// Config holds configuration for the shell manager
type Config struct {
	// ScriptsDir receives the startup scripts (default: ~/.safe-chain/scripts)
	ScriptsDir string
	// Shells are the registered dialects, usually Registered(env)
	Shells []Shell
	// Tools are the executables to wrap
	Tools    []tools.Tool
	Reporter Reporter
	Logger   *slog.Logger
}

// Result is the outcome for one shell.
type Result struct {
	Name    string
	Success bool
	Err     error
}

// Report aggregates the per-shell results of a run.
type Report struct {
	Results []Result
	// RestartRequired is set when at least one startup file was updated
	RestartRequired bool
}

// Succeeded returns the number of shells that succeeded.
func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Success {
			n++
		}
	}
	return n
}

// Failed returns the results that did not succeed.
func (r *Report) Failed() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.Success {
			failed = append(failed, res)
		}
	}
	return failed
}

// Manager orchestrates setup and teardown across shells. Shells are
// processed one at a time; one shell failing never stops the others.
type Manager struct {
	scriptsDir string
	shells     []Shell
	tools      []tools.Tool
	reporter   Reporter
	logger     *slog.Logger
}

// NewManager creates a new shell manager
func NewManager(config Config) (*Manager, error) {
	if config.ScriptsDir == "" {
		return nil, fmt.Errorf("ScriptsDir is required")
	}
	if config.Reporter == nil {
		return nil, fmt.Errorf("Reporter is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Manager{
		scriptsDir: config.ScriptsDir,
		shells:     config.Shells,
		tools:      config.Tools,
		reporter:   config.Reporter,
		logger:     logger,
	}, nil
}

// Setup distributes the startup scripts and installs the hook in every
// detected shell. It returns ErrNoShellsDetected when nothing is installed,
// and a *FileError when the scripts cannot be written.
func (m *Manager) Setup(ctx context.Context) (*Report, error) {
	m.reporter.WriteInformation("%s This will wrap safe-chain around %s.",
		m.reporter.Bold("Setting up shell aliases."), tools.PackageManagerList(m.tools))
	m.reporter.EmptyLine()

	if err := DistributeScripts(m.scriptsDir); err != nil {
		return nil, err
	}
	m.logger.Debug("distributed startup scripts", "dir", m.scriptsDir)

	shells := DetectShells(ctx, m.shells)
	if len(shells) == 0 {
		m.reporter.WriteError("No supported shells detected. Cannot set up aliases.")
		return nil, ErrNoShellsDetected
	}
	m.reportDetected(shells)

	report := &Report{}
	for _, s := range shells {
		res := m.setupShell(ctx, s)
		report.Results = append(report.Results, res)
		m.reportResult(res, "Setup successful", "Setup failed")
	}

	if report.Succeeded() > 0 {
		report.RestartRequired = true
		m.reporter.EmptyLine()
		m.reporter.WriteInformation("Please restart your terminal to apply the changes.")
	}
	return report, nil
}

// setupShell tears down before setting up so repeated runs leave exactly
// one hook line.
func (m *Manager) setupShell(ctx context.Context, s Shell) Result {
	logger := m.logger.With("shell", s.Name())

	if err := s.Teardown(ctx, m.tools); err != nil {
		logger.Debug("teardown before setup failed", "error", err)
		return Result{Name: s.Name(), Err: err}
	}
	if err := s.Setup(ctx, m.tools); err != nil {
		logger.Debug("setup failed", "error", err)
		return Result{Name: s.Name(), Err: err}
	}

	logger.Debug("setup complete")
	return Result{Name: s.Name(), Success: true}
}

// Teardown removes the hooks from every detected shell, or from every
// registered shell when all is set.
func (m *Manager) Teardown(ctx context.Context, all bool) (*Report, error) {
	shells := m.shells
	if !all {
		shells = DetectShells(ctx, m.shells)
	}

	report := &Report{}
	if len(shells) == 0 {
		m.reporter.WriteInformation("No supported shells detected. Nothing to remove.")
		return report, nil
	}

	m.reporter.WriteInformation("Removing shell aliases.")
	for _, s := range shells {
		res := Result{Name: s.Name(), Success: true}
		if err := s.Teardown(ctx, m.tools); err != nil {
			m.logger.Debug("teardown failed", "shell", s.Name(), "error", err)
			res = Result{Name: s.Name(), Err: err}
		}
		report.Results = append(report.Results, res)
		m.reportResult(res, "Teardown successful", "Teardown failed")
	}

	if report.Succeeded() > 0 {
		report.RestartRequired = true
		m.reporter.EmptyLine()
		m.reporter.WriteInformation("Please restart your terminal to apply the changes.")
	}
	return report, nil
}

// TeardownDirectories removes the scripts directory.
func (m *Manager) TeardownDirectories() error {
	if err := RemoveScriptsDir(m.scriptsDir); err != nil {
		return err
	}
	m.logger.Debug("removed scripts directory", "dir", m.scriptsDir)
	return nil
}

func (m *Manager) reportDetected(shells []Shell) {
	names := make([]string, len(shells))
	for i, s := range shells {
		names[i] = m.reporter.Bold(s.Name())
	}
	m.reporter.WriteInformation("Detected %d supported shell(s): %s.", len(shells), strings.Join(names, ", "))
}

func (m *Manager) reportResult(res Result, okText, failText string) {
	label := m.reporter.Bold("- " + res.Name + ":")
	if res.Success {
		m.reporter.WriteInformation("%s %s", label, m.reporter.Green(okText))
		return
	}

	m.reporter.WriteError("%s %s. Please check your %s configuration.", label, m.reporter.Red(failText), res.Name)
	if res.Err == nil {
		return
	}
	msg := "  Error: " + res.Err.Error()
	if code, ok := ErrorCode(res.Err); ok {
		msg += " (code: " + code + ")"
	}
	m.reporter.WriteError("%s", msg)
}

// ErrorCode extracts an OS-level code from err: the exit status of a failed
// subprocess or the errno of a failed system call.
func ErrorCode(err error) (string, bool) {
	var cmdErr *executor.CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode != 0 {
		return strconv.Itoa(cmdErr.ExitCode), true
	}

	var errno syscall.Errno
	if errors.As(err, &errno) && errno != 0 {
		return strconv.Itoa(int(errno)), true
	}
	return "", false
}
