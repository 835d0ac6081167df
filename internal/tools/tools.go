// Package tools holds the registry of package-manager executables that
// safe-chain wraps in interactive shells.
package tools

import (
	"fmt"
	"strings"
)

// Ecosystem identifies the package ecosystem a tool belongs to.
type Ecosystem string

const (
	// EcosystemJS covers npm, yarn, pnpm and bun.
	EcosystemJS Ecosystem = "js"
	// EcosystemPy covers pip, uv, poetry and pipx.
	EcosystemPy Ecosystem = "py"
)

// Tool describes one executable safe-chain aliases.
type Tool struct {
	// Name is the command the user types (e.g. "npm")
	Name string
	// AikidoCommand is the wrapper executable the alias points to
	AikidoCommand string
	// Ecosystem is consumed downstream by the interception logic
	Ecosystem Ecosystem
	// PackageManager is the internal package manager name (pip3 -> pip)
	PackageManager string
}

// known is the fixed registry. When adding a tool here, also document it
// in the README.
var known = []Tool{
	{Name: "npm", AikidoCommand: "aikido-npm", Ecosystem: EcosystemJS, PackageManager: "npm"},
	{Name: "npx", AikidoCommand: "aikido-npx", Ecosystem: EcosystemJS, PackageManager: "npx"},
	{Name: "yarn", AikidoCommand: "aikido-yarn", Ecosystem: EcosystemJS, PackageManager: "yarn"},
	{Name: "pnpm", AikidoCommand: "aikido-pnpm", Ecosystem: EcosystemJS, PackageManager: "pnpm"},
	{Name: "pnpx", AikidoCommand: "aikido-pnpx", Ecosystem: EcosystemJS, PackageManager: "pnpx"},
	{Name: "bun", AikidoCommand: "aikido-bun", Ecosystem: EcosystemJS, PackageManager: "bun"},
	{Name: "bunx", AikidoCommand: "aikido-bunx", Ecosystem: EcosystemJS, PackageManager: "bunx"},
	{Name: "uv", AikidoCommand: "aikido-uv", Ecosystem: EcosystemPy, PackageManager: "uv"},
	{Name: "pip", AikidoCommand: "aikido-pip", Ecosystem: EcosystemPy, PackageManager: "pip"},
	{Name: "pip3", AikidoCommand: "aikido-pip3", Ecosystem: EcosystemPy, PackageManager: "pip"},
	{Name: "poetry", AikidoCommand: "aikido-poetry", Ecosystem: EcosystemPy, PackageManager: "poetry"},
	{Name: "python", AikidoCommand: "aikido-python", Ecosystem: EcosystemPy, PackageManager: "pip"},
	{Name: "python3", AikidoCommand: "aikido-python3", Ecosystem: EcosystemPy, PackageManager: "pip"},
	{Name: "pipx", AikidoCommand: "aikido-pipx", Ecosystem: EcosystemPy, PackageManager: "pipx"},
}

// Known returns a copy of the registry in its fixed order.
func Known() []Tool {
	out := make([]Tool, len(known))
	copy(out, known)
	return out
}

// Names returns the command names of the given tools.
func Names(tools []Tool) []string {
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name)
	}
	return names
}

// PackageManagerList formats the tool names for user output.
// Example: "npm, npx, and yarn commands"
func PackageManagerList(tools []Tool) string {
	names := Names(tools)
	switch len(names) {
	case 0:
		return "no commands"
	case 1:
		return fmt.Sprintf("%s commands", names[0])
	case 2:
		return fmt.Sprintf("%s and %s commands", names[0], names[1])
	default:
		last := names[len(names)-1]
		return fmt.Sprintf("%s, and %s commands", strings.Join(names[:len(names)-1], ", "), last)
	}
}
