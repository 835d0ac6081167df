package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect uses runtime.GOOS and runtime.GOARCH for OS and architecture and
// gopsutil for the distribution or OS version.
//
// If gopsutil fails, the distro fields stay empty and detection continues.
// Only context cancellation is a hard failure.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	arch, _ := normalizeArch(runtime.GOARCH)
	info := &Info{
		OS:      runtime.GOOS,
		Arch:    arch,
		ArchRaw: runtime.GOARCH,
	}

	platform, _, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	if info.IsLinux() {
		info.Distro = normalizePlatform(platform)
	}
	info.Version = normalizePlatform(version)

	return info, nil
}
