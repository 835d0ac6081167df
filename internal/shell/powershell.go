package shell

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/safechain-dev/safe-chain/internal/executor"
	"github.com/safechain-dev/safe-chain/internal/tools"
)

const powerShellProfileName = "Microsoft.PowerShell_profile.ps1"

const powerShellHookLine = `. "$HOME\.safe-chain\scripts\init-pwsh.ps1" # Safe-chain PowerShell initialization script`

var powerShellSourcePattern = regexp.MustCompile(`^\.\s+["']?\$HOME[/\\].safe-chain[/\\]scripts[/\\]init-pwsh\.ps1["']?`)

func powerShellAliasPattern(tool string) *regexp.Regexp {
	return regexp.MustCompile(`^Set-Alias\s+` + regexp.QuoteMeta(tool) + `\s+`)
}

// PolicyUnknown is reported when the execution policy cannot be queried.
const PolicyUnknown = "Unknown"

var (
	permissivePolicies = map[string]bool{
		"RemoteSigned": true,
		"Unrestricted": true,
		"Bypass":       true,
	}

	powerShellExecutables = map[string]bool{
		"pwsh":       true,
		"powershell": true,
	}
)

// powerShell covers PowerShell Core (pwsh) and Windows PowerShell
// (powershell). Both share one hook syntax and the init-pwsh.ps1 script.
type powerShell struct {
	name       string
	executable string
	startup    startupFile
	env        Env
	// environ replaces the environment of every subprocess when set
	environ func() []string
}

func newPowerShellCore(env Env) *powerShell {
	return newPowerShell(env, NamePowerShellCore, "pwsh", nil, powerShellCoreProfile)
}

// Windows PowerShell 5.1 chokes on PowerShell 7 modules inherited through
// PSModulePath, so its subprocesses only see its own module directories.
func newWindowsPowerShell(env Env) *powerShell {
	return newPowerShell(env, NameWindowsPowerShell, "powershell", windowsPowerShellEnviron, windowsPowerShellProfile)
}

func powerShellCoreProfile(goos, home string) string {
	if goos == "windows" {
		return filepath.Join(home, "Documents", "PowerShell", powerShellProfileName)
	}
	return filepath.Join(home, ".config", "powershell", powerShellProfileName)
}

// Windows PowerShell only exists on Windows.
func windowsPowerShellProfile(goos, home string) string {
	if goos != "windows" {
		return ""
	}
	return filepath.Join(home, "Documents", "WindowsPowerShell", powerShellProfileName)
}

func newPowerShell(env Env, name, executable string, environ func() []string, fallback func(goos, home string) string) *powerShell {
	return &powerShell{
		name:       name,
		executable: executable,
		env:        env,
		environ:    environ,
		startup: startupFile{
			shell:      name,
			executable: executable,
			args:       []string{"-NoProfile", "-Command", "echo $PROFILE"},
			environ:    environ,
			fallback:   fallback,
		},
	}
}

func (s *powerShell) Name() string { return s.name }

func (s *powerShell) IsInstalled(ctx context.Context) bool {
	return executor.ExecutableExists(ctx, s.env.Runner, s.env.GOOS, s.executable)
}

// HookLine is the line Setup appends.
func (s *powerShell) HookLine() string {
	return powerShellHookLine
}

func (s *powerShell) Setup(ctx context.Context, _ []tools.Tool) error {
	if policy := s.ExecutionPolicy(ctx); !permissivePolicies[policy] {
		return &ExecutionPolicyError{Shell: s.name, Policy: policy}
	}

	path, err := s.startup.resolve(ctx, s.env)
	if err != nil {
		return err
	}
	return AppendLine(path, s.HookLine(), "")
}

func (s *powerShell) Teardown(ctx context.Context, tools []tools.Tool) error {
	path := s.startup.resolveForTeardown(ctx, s.env)
	if path == "" {
		return nil
	}
	return removeHooks(path, tools, powerShellAliasPattern, powerShellSourcePattern)
}

// ExecutionPolicy returns the effective policy, or PolicyUnknown when the
// executable is not an allowed PowerShell or the query fails.
func (s *powerShell) ExecutionPolicy(ctx context.Context) string {
	if !powerShellExecutables[s.executable] {
		return PolicyUnknown
	}

	cmd := executor.Command{
		Name: s.executable,
		Args: []string{"-NoProfile", "-Command", "Get-ExecutionPolicy"},
	}
	if s.environ != nil {
		cmd.Env = s.environ()
	}

	res, err := s.env.Runner.Run(ctx, cmd)
	if err != nil {
		s.env.logger().Warn("failed to query PowerShell execution policy", "shell", s.name, "error", err)
		return PolicyUnknown
	}

	policy := strings.TrimSpace(res.Stdout)
	s.env.logger().Debug("PowerShell execution policy", "shell", s.name, "policy", policy)
	return policy
}

// windowsPowerShellModulePath lists Windows PowerShell's own module
// directories for the given user profile.
func windowsPowerShellModulePath(userProfile string) string {
	return strings.Join([]string{
		userProfile + `\Documents\WindowsPowerShell\Modules`,
		`C:\Program Files\WindowsPowerShell\Modules`,
		`C:\WINDOWS\system32\WindowsPowerShell\v1.0\Modules`,
	}, ";")
}

func windowsPowerShellEnviron() []string {
	environ := os.Environ()
	out := make([]string, 0, len(environ)+1)
	for _, kv := range environ {
		if key, _, ok := strings.Cut(kv, "="); ok && strings.EqualFold(key, "PSModulePath") {
			continue
		}
		out = append(out, kv)
	}
	return append(out, "PSModulePath="+windowsPowerShellModulePath(os.Getenv("USERPROFILE")))
}
