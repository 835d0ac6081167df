package shell

import (
	"context"
	"path/filepath"
	"regexp"

	"github.com/safechain-dev/safe-chain/internal/executor"
	"github.com/safechain-dev/safe-chain/internal/tools"
)

var fishSourcePattern = regexp.MustCompile(`^source\s+~/\.safe-chain/scripts/init-fish\.fish`)

// Fish aliases separate name and body with whitespace: alias npm aikido-npm
func fishAliasPattern(tool string) *regexp.Regexp {
	return regexp.MustCompile(`^alias\s+` + regexp.QuoteMeta(tool) + `\s+`)
}

type fishShell struct {
	startup startupFile
	env     Env
}

func newFish(env Env) *fishShell {
	return &fishShell{
		env: env,
		startup: startupFile{
			shell:      NameFish,
			executable: "fish",
			args:       []string{"-c", "echo ~/.config/fish/config.fish"},
			fallback: func(_, home string) string {
				return filepath.Join(home, ".config", "fish", "config.fish")
			},
		},
	}
}

func (s *fishShell) Name() string { return NameFish }

func (s *fishShell) IsInstalled(ctx context.Context) bool {
	return executor.ExecutableExists(ctx, s.env.Runner, s.env.GOOS, "fish")
}

// HookLine is the line Setup appends.
func (s *fishShell) HookLine() string {
	return "source ~/.safe-chain/scripts/" + FishScript + " # Safe-chain Fish initialization script"
}

func (s *fishShell) Setup(ctx context.Context, _ []tools.Tool) error {
	path, err := s.startup.resolve(ctx, s.env)
	if err != nil {
		return err
	}
	return AppendLine(path, s.HookLine(), "")
}

func (s *fishShell) Teardown(ctx context.Context, tools []tools.Tool) error {
	path := s.startup.resolveForTeardown(ctx, s.env)
	if path == "" {
		return nil
	}
	return removeHooks(path, tools, fishAliasPattern, fishSourcePattern)
}
