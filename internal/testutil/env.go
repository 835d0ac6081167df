// Package testutil provides utilities for testing safe-chain in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv points every home-directory lookup at a fresh temp directory
// and returns it. Tests never touch the real user's startup files or
// ~/.safe-chain.
//
// Cleanup is handled by t.TempDir and t.Setenv.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	home := t.TempDir()

	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("ZDOTDIR", "")
	t.Setenv("SAFE_CHAIN_CONFIG", filepath.Join(home, ".safe-chain", "config.lua"))
	t.Setenv("SAFE_CHAIN_DEBUG", "")

	if err := os.MkdirAll(filepath.Join(home, ".config"), 0o750); err != nil {
		t.Fatalf("failed to create test directory: %v", err)
	}

	return home
}
