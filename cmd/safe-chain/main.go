package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/safechain-dev/safe-chain/internal/executor"
	"github.com/safechain-dev/safe-chain/internal/platform"
)

// Version will be set at build time via -ldflags
var Version = "v1.0.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], &app{
		runner:   executor.NewOSRunner(),
		detector: platform.NewDetector(),
		out:      os.Stdout,
		errOut:   os.Stderr,
	})
	stop()
	os.Exit(code)
}
