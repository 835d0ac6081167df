package ultimate

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/safechain-dev/safe-chain/internal/platform"
)

//go:embed release.yaml
var releaseYAML []byte

// ErrUnsupportedPlatform is returned when the manifest has no installer for
// the host OS and architecture.
var ErrUnsupportedPlatform = errors.New("platform not supported by SafeChain Ultimate")

// Manifest describes one pinned release.
type Manifest struct {
	Version string `yaml:"version"`
	BaseURL string `yaml:"base_url"`
	// Assets is keyed by OS, then architecture
	Assets map[string]map[string]Asset `yaml:"assets"`
}

// Asset is one downloadable installer.
type Asset struct {
	File string `yaml:"file"`
	// URL overrides BaseURL + File
	URL      string `yaml:"url,omitempty"`
	Checksum string `yaml:"checksum"`
	// SignatureURL points at an OpenPGP detached signature, if published
	SignatureURL string `yaml:"signature_url,omitempty"`
}

// DefaultManifest parses the embedded release manifest.
func DefaultManifest() (*Manifest, error) {
	return ParseManifest(releaseYAML)
}

// ParseManifest decodes and validates a manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse release manifest: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if m.Version == "" {
		return fmt.Errorf("release manifest: version is required")
	}
	for goos, arches := range m.Assets {
		for arch, a := range arches {
			if a.File == "" && a.URL == "" {
				return fmt.Errorf("release manifest: %s/%s has neither file nor url", goos, arch)
			}
			if _, _, err := splitChecksum(a.Checksum); err != nil {
				return fmt.Errorf("release manifest: %s/%s: %w", goos, arch, err)
			}
			if a.URL == "" && m.BaseURL == "" {
				return fmt.Errorf("release manifest: %s/%s needs base_url", goos, arch)
			}
		}
	}
	return nil
}

// AssetFor returns the installer for info, with URL resolved.
func (m *Manifest) AssetFor(info *platform.Info) (*Asset, error) {
	arches, ok := m.Assets[info.OS]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, info.OS)
	}
	a, ok := arches[info.Arch]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, info.OS, info.ArchRaw)
	}

	if a.URL == "" {
		a.URL = strings.TrimSuffix(m.BaseURL, "/") + "/" + a.File
	}
	if a.File == "" {
		a.File = a.URL[strings.LastIndex(a.URL, "/")+1:]
	}
	return &a, nil
}
