// Package shell installs and removes the safe-chain hooks in interactive
// shell startup files.
//
// Each supported dialect implements the Shell interface:
//
//	Bash, Zsh           ~/.bashrc, ${ZDOTDIR:-$HOME}/.zshrc
//	Fish                ~/.config/fish/config.fish
//	PowerShell Core     $PROFILE as reported by pwsh
//	Windows PowerShell  $PROFILE as reported by powershell
//
// A hook is a single line that sources one of the embedded startup scripts
// from ~/.safe-chain/scripts. The startup file itself belongs to the user.
// Lines are only ever appended or removed through the editor in rcfile.go,
// and removal is restricted to short single lines that match a dialect
// pattern. A line that fails either check is kept even if it looks like a
// stale hook.
//
// # Idempotency
//
// The Manager always runs Teardown before Setup for a shell, so repeated
// setups leave exactly one hook line behind. Setup followed by Teardown
// restores the original content; the only difference is that an
// unterminated last line gains a line ending.
//
// # Line endings
//
// The editor detects the line ending already used by a file and keeps it.
// New files get the platform default.
package shell
