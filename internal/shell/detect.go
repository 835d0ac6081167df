package shell

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentLookups bounds the lookup subprocesses run at once.
const maxConcurrentLookups = 4

// DetectShells returns the installed subset of shells in registration
// order. Detection only runs lookup subprocesses; they run concurrently,
// while setup and teardown stay sequential.
func DetectShells(ctx context.Context, shells []Shell) []Shell {
	found := make([]bool, len(shells))

	var g errgroup.Group
	g.SetLimit(maxConcurrentLookups)
	for i, s := range shells {
		g.Go(func() error {
			found[i] = s.IsInstalled(ctx)
			return nil
		})
	}
	_ = g.Wait()

	var installed []Shell
	for i, s := range shells {
		if found[i] {
			installed = append(installed, s)
		}
	}
	return installed
}

// Exclude drops the shells whose name matches one of names, ignoring case.
func Exclude(shells []Shell, names []string) []Shell {
	if len(names) == 0 {
		return shells
	}

	out := make([]Shell, 0, len(shells))
	for _, s := range shells {
		if !containsName(names, s.Name()) {
			out = append(out, s)
		}
	}
	return out
}

// ShellNames returns the names of shells.
func ShellNames(shells []Shell) []string {
	names := make([]string, len(shells))
	for i, s := range shells {
		names[i] = s.Name()
	}
	return names
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(strings.TrimSpace(n), name) {
			return true
		}
	}
	return false
}
