package shell

import (
	"context"
	"os"
	"path/filepath"
	"regexp"

	"github.com/safechain-dev/safe-chain/internal/executor"
	"github.com/safechain-dev/safe-chain/internal/tools"
)

var posixSourcePattern = regexp.MustCompile(`^source\s+~/\.safe-chain/scripts/init-posix\.sh`)

func posixAliasPattern(tool string) *regexp.Regexp {
	return regexp.MustCompile(`^alias\s+` + regexp.QuoteMeta(tool) + `=`)
}

// posixShell covers the POSIX-compatible dialects (Bash, Zsh). Both source
// the same init-posix.sh script.
type posixShell struct {
	name       string
	executable string
	startup    startupFile
	env        Env
}

func newBash(env Env) *posixShell {
	return newPosixShell(env, NameBash, "bash", "echo ~/.bashrc", func(_, home string) string {
		return filepath.Join(home, ".bashrc")
	})
}

func newZsh(env Env) *posixShell {
	return newPosixShell(env, NameZsh, "zsh", "echo ${ZDOTDIR:-$HOME}/.zshrc", func(_, home string) string {
		if dir := os.Getenv("ZDOTDIR"); dir != "" {
			return filepath.Join(dir, ".zshrc")
		}
		return filepath.Join(home, ".zshrc")
	})
}

func newPosixShell(env Env, name, executable, startupCommand string, fallback func(goos, home string) string) *posixShell {
	return &posixShell{
		name:       name,
		executable: executable,
		env:        env,
		startup: startupFile{
			shell:      name,
			executable: executable,
			args:       []string{"-c", startupCommand},
			fallback:   fallback,
		},
	}
}

func (s *posixShell) Name() string { return s.name }

func (s *posixShell) IsInstalled(ctx context.Context) bool {
	return executor.ExecutableExists(ctx, s.env.Runner, s.env.GOOS, s.executable)
}

// HookLine is the line Setup appends.
func (s *posixShell) HookLine() string {
	return "source ~/.safe-chain/scripts/" + PosixScript + " # Safe-chain " + s.name + " initialization script"
}

func (s *posixShell) Setup(ctx context.Context, _ []tools.Tool) error {
	path, err := s.startup.resolve(ctx, s.env)
	if err != nil {
		return err
	}
	return AppendLine(path, s.HookLine(), "")
}

func (s *posixShell) Teardown(ctx context.Context, tools []tools.Tool) error {
	path := s.startup.resolveForTeardown(ctx, s.env)
	if path == "" {
		return nil
	}
	return removeHooks(path, tools, posixAliasPattern, posixSourcePattern)
}
