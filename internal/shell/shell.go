package shell

import (
	"context"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"github.com/safechain-dev/safe-chain/internal/executor"
	"github.com/safechain-dev/safe-chain/internal/tools"
)

// Shell is one supported startup-file dialect.
//
// Setup appends the hook line and reports success with a nil error.
// Teardown removes every alias line for the given tools plus the hook line;
// a missing startup file or a missing hook is not an error. A shell that
// cannot name its startup file is cleaned at the conventional location.
type Shell interface {
	Name() string
	IsInstalled(ctx context.Context) bool
	Setup(ctx context.Context, tools []tools.Tool) error
	Teardown(ctx context.Context, tools []tools.Tool) error
}

// Env carries what dialects need from the host.
type Env struct {
	Runner executor.Runner
	// GOOS selects the executable lookup command ("where" on Windows)
	GOOS   string
	Logger *slog.Logger
}

func (e Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e.Logger
}

// Registered returns every supported dialect in registration order.
func Registered(env Env) []Shell {
	return []Shell{
		newBash(env),
		newZsh(env),
		newFish(env),
		newPowerShellCore(env),
		newWindowsPowerShell(env),
	}
}

// startupFile resolves a dialect's startup file by asking the shell itself,
// so ZDOTDIR, $PROFILE and the like are honored.
type startupFile struct {
	shell      string
	executable string
	args       []string
	// environ replaces the subprocess environment when set
	environ func() []string
	// fallback is the conventional location under home for a GOOS, or ""
	// when the dialect has none there
	fallback func(goos, home string) string
}

func (s startupFile) resolve(ctx context.Context, env Env) (string, error) {
	cmd := executor.Command{Name: s.executable, Args: s.args}
	if s.environ != nil {
		cmd.Env = s.environ()
	}

	res, err := env.Runner.Run(ctx, cmd)
	if err != nil {
		return "", &StartupFileError{Shell: s.shell, Command: s.args[len(s.args)-1], Cause: err}
	}

	path := strings.TrimSpace(res.Stdout)
	if path == "" {
		return "", &StartupFileError{Shell: s.shell, Command: s.args[len(s.args)-1]}
	}

	env.logger().Debug("resolved startup file", "shell", s.shell, "path", path)
	return path, nil
}

// resolveForTeardown is resolve with a fallback to the conventional
// location, so hooks left behind by a since-uninstalled shell still come
// out. An empty path means there is nothing to clean.
func (s startupFile) resolveForTeardown(ctx context.Context, env Env) string {
	path, err := s.resolve(ctx, env)
	if err == nil {
		return path
	}
	if s.fallback == nil {
		return ""
	}

	home, herr := os.UserHomeDir()
	if herr != nil || home == "" {
		env.logger().Debug("startup file lookup failed, no home directory", "shell", s.shell, "error", err)
		return ""
	}

	path = s.fallback(env.GOOS, home)
	env.logger().Debug("startup file lookup failed, using default location", "shell", s.shell, "path", path, "error", err)
	return path
}

// removeHooks strips alias lines for every tool and the source line from path.
func removeHooks(path string, tools []tools.Tool, alias func(string) *regexp.Regexp, source *regexp.Regexp) error {
	for _, t := range tools {
		if err := RemoveLinesMatching(path, alias(t.Name), ""); err != nil {
			return err
		}
	}
	return RemoveLinesMatching(path, source, "")
}
