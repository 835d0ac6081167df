// Package platform detects the host operating system and architecture.
//
// safe-chain uses the result to pick line endings for new startup files,
// the executable lookup command, and the ultimate installer asset. The same
// information is exposed to the Lua user config as a read-only table.
package platform

import "context"

// Info contains platform detection information.
type Info struct {
	OS      string // "linux", "darwin", "windows"
	Arch    string // "amd64", "arm64" when supported, otherwise the raw GOARCH
	ArchRaw string // original GOARCH
	Distro  string // distro ID (Linux only, e.g., "ubuntu")
	Version string // distro or OS version
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// IsAMD64 returns true if the architecture is amd64.
func (i *Info) IsAMD64() bool {
	return i.Arch == "amd64"
}

// IsARM64 returns true if the architecture is arm64.
func (i *Info) IsARM64() bool {
	return i.Arch == "arm64"
}

// LineEnding returns the default line ending for new files on this platform.
func (i *Info) LineEnding() string {
	return LineEnding(i.OS)
}

// LineEnding returns "\r\n" for Windows and "\n" for everything else.
func LineEnding(goos string) string {
	if goos == "windows" {
		return "\r\n"
	}
	return "\n"
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// StaticDetector returns a fixed Info. It backs tests and callers that
// already know the platform.
type StaticDetector struct {
	Info *Info
}

// Detect returns the configured Info.
func (s StaticDetector) Detect(context.Context) (*Info, error) {
	return s.Info, nil
}
