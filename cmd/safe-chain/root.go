package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/safechain-dev/safe-chain/internal/config"
	"github.com/safechain-dev/safe-chain/internal/executor"
	"github.com/safechain-dev/safe-chain/internal/platform"
	"github.com/safechain-dev/safe-chain/internal/shell"
	"github.com/safechain-dev/safe-chain/internal/ui"
)

// errReported marks a failure the user has already been told about; it
// only sets the exit status.
var errReported = errors.New("failure already reported")

// app holds the host dependencies of a CLI invocation. The fields below
// the blank line are filled in before any subcommand runs.
type app struct {
	runner   executor.Runner
	detector platform.Detector
	out      io.Writer
	errOut   io.Writer

	printer *ui.Printer
	logger  *slog.Logger
	config  *config.Config
	info    *platform.Info
}

// run executes the CLI and returns the process exit status.
func run(ctx context.Context, args []string, a *app) int {
	root := newRootCmd(a)
	root.SetArgs(args)

	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return 0
	}
	if errors.Is(err, errReported) {
		return 1
	}

	fmt.Fprintf(a.errOut, "Error: %v\n", err)
	if strings.HasPrefix(err.Error(), "unknown command") {
		fmt.Fprintln(a.errOut)
		_ = cmd.Usage()
	}
	return 1
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:     "safe-chain",
		Short:   "Protect package managers against malicious packages",
		Long:    "safe-chain wraps npm, yarn, pnpm, bun, pip, uv and friends in your shell so every install is checked first.",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Usage is only useful for argument errors, which happen before this point.
			cmd.SilenceUsage = true
			return a.init(cmd.Context())
		},
		SilenceErrors: true,
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	root.SetVersionTemplate("Current safe-chain version: {{.Version}}\n")

	root.AddCommand(newSetupCmd(a))
	root.AddCommand(newTeardownCmd(a))
	root.AddCommand(newUltimateCmd(a))
	return root
}

// init detects the platform and loads the user config before any subcommand runs.
func (a *app) init(ctx context.Context) error {
	a.printer = ui.NewPrinter(a.out, a.errOut)

	info, err := a.detector.Detect(ctx)
	if err != nil {
		return fmt.Errorf("detect platform: %w", err)
	}
	a.info = info

	cfgPath, err := config.DefaultPath()
	if err != nil {
		return err
	}
	cfg, err := config.NewParser(platform.StaticDetector{Info: info}, shell.Names()...).Load(ctx, cfgPath)
	if err != nil {
		return fmt.Errorf("load %s:\n%s", cfgPath, config.FormatError(err, os.Getenv(config.DebugEnvVar) != ""))
	}
	a.config = cfg

	a.logger = newLogger(a.errOut, cfg.LogLevel)
	a.logger.Debug("starting", "version", Version, "os", info.OS, "arch", info.ArchRaw, "config", cfgPath)
	return nil
}

// newLogger writes text logs to w. The level is Warn unless the debug
// environment variable or the configured level lowers it.
func newLogger(w io.Writer, level string) *slog.Logger {
	lvl := slog.LevelWarn
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	}
	if os.Getenv(config.DebugEnvVar) != "" {
		lvl = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler).With("run_id", uuid.NewString())
}
