package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/safechain-dev/safe-chain/internal/shell"
	"github.com/safechain-dev/safe-chain/internal/tools"
)

func newSetupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Wrap safe-chain around package managers in every detected shell",
		Long: `Install a hook in the startup file of every detected shell that sources
~/.safe-chain/scripts/, so npm, yarn, pip and friends run through safe-chain.

Running setup again is safe: existing hooks are replaced, never duplicated.
Shells listed in exclude_shells of the user config are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runSetup(cmd.Context())
		},
	}
}

// runSetup fails when no shell was detected or no shell could be set up;
// the manager has reported the details by then.
func (a *app) runSetup(ctx context.Context) error {
	m, err := a.newManager()
	if err != nil {
		return err
	}

	report, err := m.Setup(ctx)
	if errors.Is(err, shell.ErrNoShellsDetected) {
		return errReported
	}
	if err != nil {
		return err
	}
	if report.Succeeded() == 0 {
		return errReported
	}
	return nil
}

// newManager builds a shell manager for the registered dialects minus the
// ones the user excluded.
func (a *app) newManager() (*shell.Manager, error) {
	scriptsDir, err := shell.DefaultScriptsDir()
	if err != nil {
		return nil, err
	}

	env := shell.Env{Runner: a.runner, GOOS: a.info.OS, Logger: a.logger}
	shells := shell.Exclude(shell.Registered(env), a.config.ExcludeShells)
	if len(a.config.ExcludeShells) > 0 {
		a.logger.Debug("excluding shells", "excluded", a.config.ExcludeShells, "remaining", shell.ShellNames(shells))
	}

	return shell.NewManager(shell.Config{
		ScriptsDir: scriptsDir,
		Shells:     shells,
		Tools:      tools.Known(),
		Reporter:   a.printer,
		Logger:     a.logger,
	})
}
