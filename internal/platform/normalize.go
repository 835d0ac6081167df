package platform

import "strings"

// normalizeArch converts GOARCH-style values to the names release assets
// use. Unsupported values are returned unchanged with ok=false.
func normalizeArch(arch string) (string, bool) {
	switch arch {
	case "amd64", "x86_64", "x64":
		return "amd64", true
	case "arm64", "aarch64":
		return "arm64", true
	default:
		return arch, false
	}
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}
