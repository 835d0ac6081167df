package shell

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/safechain-dev/safe-chain/internal/executor"
	"github.com/safechain-dev/safe-chain/internal/testutil"
	"github.com/safechain-dev/safe-chain/internal/tools"
)

const (
	bashStartupCmd    = "bash -c echo ~/.bashrc"
	zshStartupCmd     = "zsh -c echo ${ZDOTDIR:-$HOME}/.zshrc"
	fishStartupCmd    = "fish -c echo ~/.config/fish/config.fish"
	pwshStartupCmd    = "pwsh -NoProfile -Command echo $PROFILE"
	pwshPolicyCmd     = "pwsh -NoProfile -Command Get-ExecutionPolicy"
	winPwshStartupCmd = "powershell -NoProfile -Command echo $PROFILE"
	winPwshPolicyCmd  = "powershell -NoProfile -Command Get-ExecutionPolicy"

	testPermissivePolicy = "RemoteSigned\r\n"
)

// startupPaths maps each dialect to the startup file the fake shell reports.
type startupPaths map[string]string

// newFakeHost scripts a host where every dialect is installed and reports
// a startup file under an isolated home directory.
func newFakeHost(t *testing.T) (*testutil.FakeRunner, startupPaths) {
	t.Helper()
	home := testutil.SetupTestEnv(t)

	paths := startupPaths{
		NameBash:              filepath.Join(home, ".bashrc"),
		NameZsh:               filepath.Join(home, ".zshrc"),
		NameFish:              filepath.Join(home, ".config", "fish", "config.fish"),
		NamePowerShellCore:    filepath.Join(home, "Documents", "PowerShell", "Microsoft.PowerShell_profile.ps1"),
		NameWindowsPowerShell: filepath.Join(home, "Documents", "WindowsPowerShell", "Microsoft.PowerShell_profile.ps1"),
	}

	r := testutil.NewFakeRunner().
		Installed("which", "bash", "zsh", "fish", "pwsh", "powershell").
		On(bashStartupCmd, paths[NameBash]+"\n").
		On(zshStartupCmd, paths[NameZsh]+"\n").
		On(fishStartupCmd, paths[NameFish]+"\n").
		On(pwshStartupCmd, paths[NamePowerShellCore]+"\r\n").
		On(pwshPolicyCmd, testPermissivePolicy).
		On(winPwshStartupCmd, paths[NameWindowsPowerShell]+"\r\n").
		On(winPwshPolicyCmd, testPermissivePolicy)

	return r, paths
}

func testEnv(r executor.Runner) Env {
	return Env{Runner: r, GOOS: "linux"}
}

func shellByName(t *testing.T, shells []Shell, name string) Shell {
	t.Helper()
	for _, s := range shells {
		if s.Name() == name {
			return s
		}
	}
	t.Fatalf("shell %q not registered", name)
	return nil
}

func hookLine(t *testing.T, s Shell) string {
	t.Helper()
	h, ok := s.(interface{ HookLine() string })
	if !ok {
		t.Fatalf("%s does not expose HookLine", s.Name())
	}
	return h.HookLine()
}

func TestRegistered_Order(t *testing.T) {
	got := ShellNames(Registered(testEnv(testutil.NewFakeRunner())))
	want := Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Registered() = %v, want %v", got, want)
	}
}

func TestHookLines_BelowLengthBound(t *testing.T) {
	for _, s := range Registered(testEnv(testutil.NewFakeRunner())) {
		line := hookLine(t, s)
		if n := utf8.RuneCountInString(line); n >= MaxHookLineLength {
			t.Errorf("%s hook line is %d runes, want < %d: %q", s.Name(), n, MaxHookLineLength, line)
		}
	}
}

func TestHookLines_RecognizedBySourcePattern(t *testing.T) {
	env := testEnv(testutil.NewFakeRunner())
	tests := []struct {
		shell   Shell
		pattern interface{ MatchString(string) bool }
	}{
		{newBash(env), posixSourcePattern},
		{newZsh(env), posixSourcePattern},
		{newFish(env), fishSourcePattern},
		{newPowerShellCore(env), powerShellSourcePattern},
		{newWindowsPowerShell(env), powerShellSourcePattern},
	}

	for _, tt := range tests {
		if line := hookLine(t, tt.shell); !tt.pattern.MatchString(line) {
			t.Errorf("%s source pattern does not match its hook line %q", tt.shell.Name(), line)
		}
	}

	if want := `. "$HOME\.safe-chain\scripts\init-pwsh.ps1" # Safe-chain PowerShell initialization script`; hookLine(t, newPowerShellCore(env)) != want {
		t.Errorf("PowerShell hook = %q, want %q", hookLine(t, newPowerShellCore(env)), want)
	}
	if want := "source ~/.safe-chain/scripts/init-posix.sh # Safe-chain Zsh initialization script"; hookLine(t, newZsh(env)) != want {
		t.Errorf("Zsh hook = %q, want %q", hookLine(t, newZsh(env)), want)
	}
}

func TestShells_SetupIsIdempotent(t *testing.T) {
	ctx := context.Background()
	known := tools.Known()

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			r, paths := newFakeHost(t)
			s := shellByName(t, Registered(testEnv(r)), name)
			writeFile(t, paths[name], "# user config\n")

			for i := 0; i < 3; i++ {
				if err := s.Teardown(ctx, known); err != nil {
					t.Fatalf("Teardown() error = %v", err)
				}
				if err := s.Setup(ctx, known); err != nil {
					t.Fatalf("Setup() error = %v", err)
				}
			}

			content := readFile(t, paths[name])
			if n := strings.Count(content, hookLine(t, s)); n != 1 {
				t.Errorf("hook line appears %d times, want 1:\n%s", n, content)
			}
			if !strings.HasPrefix(content, "# user config\n") {
				t.Errorf("user content was modified:\n%s", content)
			}
		})
	}
}

func TestShells_RoundTrip(t *testing.T) {
	ctx := context.Background()
	known := tools.Known()
	originals := map[string]string{
		NameBash:              "export PATH=\"$HOME/bin:$PATH\"\nalias ll='ls -l'\n",
		NameZsh:               "autoload -Uz compinit\ncompinit",
		NameFish:              "set -gx EDITOR vim\n",
		NamePowerShellCore:    "Import-Module posh-git\r\n$env:EDITOR = 'code'\r\n",
		NameWindowsPowerShell: "",
	}

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			r, paths := newFakeHost(t)
			s := shellByName(t, Registered(testEnv(r)), name)
			original := originals[name]
			writeFile(t, paths[name], original)

			if err := s.Teardown(ctx, known); err != nil {
				t.Fatalf("Teardown() error = %v", err)
			}
			if err := s.Setup(ctx, known); err != nil {
				t.Fatalf("Setup() error = %v", err)
			}
			if err := s.Teardown(ctx, known); err != nil {
				t.Fatalf("Teardown() error = %v", err)
			}

			want := original
			if want != "" && !strings.HasSuffix(want, "\n") {
				// A missing final line break is added by the append.
				want += "\n"
			}
			if got := readFile(t, paths[name]); got != want {
				t.Errorf("content after round trip = %q, want %q", got, want)
			}
		})
	}
}

func TestShells_TeardownRemovesAliases(t *testing.T) {
	ctx := context.Background()
	known := tools.Known()

	tests := []struct {
		shell   string
		initial string
		want    string
	}{
		{
			shell:   NameBash,
			initial: "echo hi\nalias npm='aikido-npm'\nalias pip=\"aikido-pip\"\nalias npmx='other'\nsource ~/.safe-chain/scripts/init-posix.sh # Safe-chain Bash initialization script\n",
			want:    "echo hi\nalias npmx='other'\n",
		},
		{
			shell:   NameFish,
			initial: "alias npm aikido-npm\nalias yarn 'aikido-yarn'\nalias k kubectl\nsource ~/.safe-chain/scripts/init-fish.fish # Safe-chain Fish initialization script\n",
			want:    "alias k kubectl\n",
		},
		{
			shell:   NamePowerShellCore,
			initial: "echo hello\r\nSet-Alias npm aikido-npm\r\nexport FOO=bar\r\n. '$HOME/.safe-chain/scripts/init-pwsh.ps1'\r\n",
			want:    "echo hello\r\nexport FOO=bar\r\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			r, paths := newFakeHost(t)
			s := shellByName(t, Registered(testEnv(r)), tt.shell)
			writeFile(t, paths[tt.shell], tt.initial)

			if err := s.Teardown(ctx, known); err != nil {
				t.Fatalf("Teardown() error = %v", err)
			}
			if got := readFile(t, paths[tt.shell]); got != tt.want {
				t.Errorf("content = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShells_TeardownMissingFile(t *testing.T) {
	ctx := context.Background()

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			r, paths := newFakeHost(t)
			s := shellByName(t, Registered(testEnv(r)), name)

			if err := s.Teardown(ctx, tools.Known()); err != nil {
				t.Fatalf("Teardown() error = %v", err)
			}
			if fileExists(paths[name]) {
				t.Errorf("Teardown created %s", paths[name])
			}
		})
	}
}

func TestShells_StartupFileLookupFails(t *testing.T) {
	ctx := context.Background()
	r := testutil.NewFakeRunner().
		On(pwshPolicyCmd, testPermissivePolicy).
		On(winPwshPolicyCmd, testPermissivePolicy)

	for _, s := range Registered(testEnv(r)) {
		err := s.Setup(ctx, tools.Known())
		var startupErr *StartupFileError
		if !errors.As(err, &startupErr) {
			t.Errorf("%s Setup() error = %v, want *StartupFileError", s.Name(), err)
			continue
		}
		if code, ok := ErrorCode(err); !ok || code != "1" {
			t.Errorf("%s ErrorCode() = %q, %v; want 1", s.Name(), code, ok)
		}
	}
}

func TestShells_TeardownFallsBackToDefaultLocation(t *testing.T) {
	ctx := context.Background()
	known := tools.Known()

	for _, goos := range []string{"linux", "windows"} {
		t.Run(goos, func(t *testing.T) {
			home := testutil.SetupTestEnv(t)
			shells := Registered(Env{Runner: testutil.NewFakeRunner(), GOOS: goos})

			for _, s := range shells {
				path := defaultStartupPath(s, goos, home)
				if path == "" {
					if err := s.Teardown(ctx, known); err != nil {
						t.Errorf("%s Teardown() error = %v, want no-op", s.Name(), err)
					}
					continue
				}

				writeFile(t, path, "keep\n"+hookLine(t, s)+"\n")
				if err := s.Teardown(ctx, known); err != nil {
					t.Fatalf("%s Teardown() error = %v", s.Name(), err)
				}
				if got := readFile(t, path); got != "keep\n" {
					t.Errorf("%s content = %q, want %q", s.Name(), got, "keep\n")
				}
			}
		})
	}
}

func TestZsh_TeardownFallbackHonorsZDOTDIR(t *testing.T) {
	home := testutil.SetupTestEnv(t)
	dotdir := filepath.Join(home, "zdot")
	t.Setenv("ZDOTDIR", dotdir)

	s := newZsh(testEnv(testutil.NewFakeRunner()))
	path := filepath.Join(dotdir, ".zshrc")
	writeFile(t, path, s.HookLine()+"\n")

	if err := s.Teardown(context.Background(), nil); err != nil {
		t.Fatalf("Teardown() error = %v", err)
	}
	if got := readFile(t, path); got != "" {
		t.Errorf("content = %q, want empty", got)
	}
}

func TestShells_SetupDoesNotFallBack(t *testing.T) {
	home := testutil.SetupTestEnv(t)

	err := newBash(testEnv(testutil.NewFakeRunner())).Setup(context.Background(), nil)
	var startupErr *StartupFileError
	if !errors.As(err, &startupErr) {
		t.Fatalf("Setup() error = %v, want *StartupFileError", err)
	}
	if fileExists(filepath.Join(home, ".bashrc")) {
		t.Error("Setup wrote the default location")
	}
}

// defaultStartupPath is the conventional location each dialect falls back
// to under home.
func defaultStartupPath(s Shell, goos, home string) string {
	switch s.Name() {
	case NameBash:
		return filepath.Join(home, ".bashrc")
	case NameZsh:
		return filepath.Join(home, ".zshrc")
	case NameFish:
		return filepath.Join(home, ".config", "fish", "config.fish")
	case NamePowerShellCore:
		if goos == "windows" {
			return filepath.Join(home, "Documents", "PowerShell", "Microsoft.PowerShell_profile.ps1")
		}
		return filepath.Join(home, ".config", "powershell", "Microsoft.PowerShell_profile.ps1")
	case NameWindowsPowerShell:
		if goos == "windows" {
			return filepath.Join(home, "Documents", "WindowsPowerShell", "Microsoft.PowerShell_profile.ps1")
		}
	}
	return ""
}

func TestShells_EmptyStartupPath(t *testing.T) {
	r := testutil.NewFakeRunner().On(bashStartupCmd, "  \n")

	err := newBash(testEnv(r)).Setup(context.Background(), nil)
	var startupErr *StartupFileError
	if !errors.As(err, &startupErr) {
		t.Fatalf("Setup() error = %v, want *StartupFileError", err)
	}
	if startupErr.Command != "echo ~/.bashrc" {
		t.Errorf("Command = %q", startupErr.Command)
	}
}

func TestShells_IsInstalled(t *testing.T) {
	r := testutil.NewFakeRunner().Installed("where", "pwsh")
	env := Env{Runner: r, GOOS: "windows"}

	got := ShellNames(DetectShells(context.Background(), Registered(env)))
	if len(got) != 1 || got[0] != NamePowerShellCore {
		t.Errorf("DetectShells() = %v, want [%s]", got, NamePowerShellCore)
	}
}

func TestPowerShell_ExecutionPolicy(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		policy  *string
		wantErr bool
		want    string
	}{
		{name: "RemoteSigned", policy: strPtr("RemoteSigned\r\n"), want: "RemoteSigned"},
		{name: "Unrestricted", policy: strPtr("Unrestricted"), want: "Unrestricted"},
		{name: "Bypass", policy: strPtr(" Bypass "), want: "Bypass"},
		{name: "Restricted", policy: strPtr("Restricted\r\n"), want: "Restricted", wantErr: true},
		{name: "AllSigned", policy: strPtr("AllSigned"), want: "AllSigned", wantErr: true},
		{name: "query fails", want: PolicyUnknown, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, paths := newFakeHost(t)
			if tt.policy != nil {
				r.On(pwshPolicyCmd, *tt.policy)
			} else {
				r.Fail(pwshPolicyCmd, &executor.CommandError{Cmd: pwshPolicyCmd, ExitCode: 1, Cause: errors.New("exit status 1")})
			}
			s := newPowerShellCore(testEnv(r))

			if got := s.ExecutionPolicy(ctx); got != tt.want {
				t.Errorf("ExecutionPolicy() = %q, want %q", got, tt.want)
			}

			err := s.Setup(ctx, tools.Known())
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Setup() error = %v", err)
				}
				return
			}

			var policyErr *ExecutionPolicyError
			if !errors.As(err, &policyErr) {
				t.Fatalf("Setup() error = %v, want *ExecutionPolicyError", err)
			}
			if !strings.Contains(err.Error(), "Set-ExecutionPolicy -ExecutionPolicy RemoteSigned") {
				t.Errorf("error lacks remediation: %v", err)
			}
			if !strings.Contains(err.Error(), "'"+tt.want+"'") {
				t.Errorf("error lacks policy: %v", err)
			}
			if fileExists(paths[NamePowerShellCore]) {
				t.Error("profile was written despite the policy")
			}
		})
	}
}

func TestPowerShell_UnknownExecutable(t *testing.T) {
	r := testutil.NewFakeRunner()
	s := newPowerShell(testEnv(r), "Fake PowerShell", "pwsh.exe --evil", nil, nil)

	if got := s.ExecutionPolicy(context.Background()); got != PolicyUnknown {
		t.Errorf("ExecutionPolicy() = %q, want %q", got, PolicyUnknown)
	}
	if calls := r.Calls(); len(calls) != 0 {
		t.Errorf("ran %d commands for a disallowed executable", len(calls))
	}
}

func TestWindowsPowerShell_ModulePath(t *testing.T) {
	r, _ := newFakeHost(t)
	t.Setenv("USERPROFILE", `C:\Users\dev`)
	t.Setenv("PSModulePath", `C:\Program Files\PowerShell\7\Modules`)
	ctx := context.Background()
	known := tools.Known()

	if err := newWindowsPowerShell(testEnv(r)).Setup(ctx, known); err != nil {
		t.Fatalf("Windows PowerShell Setup() error = %v", err)
	}
	if err := newPowerShellCore(testEnv(r)).Setup(ctx, known); err != nil {
		t.Fatalf("PowerShell Core Setup() error = %v", err)
	}

	want := `PSModulePath=C:\Users\dev\Documents\WindowsPowerShell\Modules;C:\Program Files\WindowsPowerShell\Modules;C:\WINDOWS\system32\WindowsPowerShell\v1.0\Modules`
	for _, call := range r.Calls() {
		switch call.Name {
		case "powershell":
			var modulePaths []string
			for _, kv := range call.Env {
				if strings.HasPrefix(strings.ToUpper(kv), "PSMODULEPATH=") {
					modulePaths = append(modulePaths, kv)
				}
			}
			if len(modulePaths) != 1 || modulePaths[0] != want {
				t.Errorf("%s env PSModulePath = %v, want [%s]", call, modulePaths, want)
			}
		case "pwsh":
			if call.Env != nil {
				t.Errorf("%s should inherit the environment", call)
			}
		}
	}
}
