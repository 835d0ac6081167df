package shell

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed startup-scripts/*
var startupScripts embed.FS

// ScriptFiles lists the startup scripts distributed by DistributeScripts.
func ScriptFiles() []string {
	return []string{PosixScript, PowerShellScript, FishScript}
}

// ScriptsDir returns <home>/.safe-chain/scripts.
func ScriptsDir(home string) string {
	return filepath.Join(home, SafeChainDirName, ScriptsDirName)
}

// DefaultScriptsDir returns ScriptsDir for the current user.
func DefaultScriptsDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return ScriptsDir(home), nil
}

// DistributeScripts writes every embedded startup script into dir,
// overwriting existing copies.
func DistributeScripts(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &FileError{Path: dir, Message: "failed to create scripts directory", Cause: err}
	}

	for _, name := range ScriptFiles() {
		content, err := startupScripts.ReadFile("startup-scripts/" + name)
		if err != nil {
			return fmt.Errorf("read embedded script %s: %w", name, err)
		}

		target := filepath.Join(dir, name)
		//nolint:gosec // G306: scripts are sourced by the user's shell and must be readable
		if err := os.WriteFile(target, content, 0o644); err != nil {
			return &FileError{Path: target, Message: "failed to write startup script", Cause: err}
		}
	}
	return nil
}

// RemoveScriptsDir deletes dir and everything in it. A missing directory
// is not an error.
func RemoveScriptsDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		return &FileError{Path: dir, Message: "failed to remove scripts directory", Cause: err}
	}
	return nil
}
