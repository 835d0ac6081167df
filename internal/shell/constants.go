package shell

// MaxHookLineLength bounds the lines the editor is allowed to remove. Every
// generated hook line stays strictly below it; longer lines are never
// considered ours.
const MaxHookLineLength = 100

const (
	// SafeChainDirName is the per-user directory under $HOME
	SafeChainDirName = ".safe-chain"

	// ScriptsDirName holds the distributed startup scripts
	ScriptsDirName = "scripts"
)

// Startup script file names
const (
	PosixScript      = "init-posix.sh"
	PowerShellScript = "init-pwsh.ps1"
	FishScript       = "init-fish.fish"
)

// Dialect names as shown to the user and accepted by exclude_shells
const (
	NameBash              = "Bash"
	NameZsh               = "Zsh"
	NameFish              = "Fish"
	NamePowerShellCore    = "PowerShell Core"
	NameWindowsPowerShell = "Windows PowerShell"
)

// Names lists every dialect name in registration order.
func Names() []string {
	return []string{NameBash, NameZsh, NameFish, NamePowerShellCore, NameWindowsPowerShell}
}
