package main

import (
	"context"

	"github.com/spf13/cobra"
)

func newTeardownCmd(a *app) *cobra.Command {
	var allShells bool

	cmd := &cobra.Command{
		Use:   "teardown",
		Short: "Remove safe-chain aliases from your shell configuration",
		Long: `Remove the safe-chain hook and any legacy aliases from the startup file
of every detected shell, then delete ~/.safe-chain/scripts/.

Example:
  safe-chain teardown               # Detected shells only
  safe-chain teardown --all-shells  # Also shells that are no longer installed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTeardown(cmd.Context(), allShells)
		},
	}

	cmd.Flags().BoolVar(&allShells, "all-shells", false, "Clean every supported shell, installed or not")

	return cmd
}

// runTeardown fails only when every shell it touched failed.
func (a *app) runTeardown(ctx context.Context, allShells bool) error {
	m, err := a.newManager()
	if err != nil {
		return err
	}

	report, err := m.Teardown(ctx, allShells)
	if err != nil {
		return err
	}
	if err := m.TeardownDirectories(); err != nil {
		return err
	}

	failed := report.Failed()
	if len(failed) == 0 {
		return nil
	}
	a.logger.Debug("teardown incomplete", "failed", len(failed), "shells", len(report.Results))
	if len(failed) == len(report.Results) {
		return errReported
	}
	return nil
}
