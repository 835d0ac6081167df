package ultimate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/safechain-dev/safe-chain/internal/executor"
	"github.com/safechain-dev/safe-chain/internal/platform"
)

// MacOSUninstallScript is installed by the macOS package.
const MacOSUninstallScript = "/Library/Application Support/AikidoSecurity/SafeChainUltimate/uninstall.sh"

// Reporter receives user-facing messages. *ui.Printer implements it.
type Reporter interface {
	WriteInformation(format string, args ...any)
	WriteWarning(format string, args ...any)
	WriteError(format string, args ...any)
}

// Options configures an Installer.
type Options struct {
	Runner   executor.Runner
	Reporter Reporter
	Logger   *slog.Logger
	Platform *platform.Info

	// Manifest defaults to the embedded release
	Manifest *Manifest
	// Downloader defaults to NewDownloader(DefaultTimeout)
	Downloader *Downloader
	// KeyringPath enables signature verification when the release publishes signatures
	KeyringPath string
	// TempDir is where installers are downloaded (default os.TempDir())
	TempDir string
}

// Installer installs and removes SafeChain Ultimate.
type Installer struct {
	runner      executor.Runner
	reporter    Reporter
	logger      *slog.Logger
	info        *platform.Info
	manifest    *Manifest
	downloader  *Downloader
	keyringPath string
	tempDir     string
}

// NewInstaller creates an installer.
func NewInstaller(opts Options) (*Installer, error) {
	if opts.Runner == nil {
		return nil, fmt.Errorf("Runner is required")
	}
	if opts.Reporter == nil {
		return nil, fmt.Errorf("Reporter is required")
	}
	if opts.Platform == nil {
		return nil, fmt.Errorf("Platform is required")
	}

	manifest := opts.Manifest
	if manifest == nil {
		var err error
		if manifest, err = DefaultManifest(); err != nil {
			return nil, err
		}
	}

	downloader := opts.Downloader
	if downloader == nil {
		downloader = NewDownloader(DefaultTimeout)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Installer{
		runner:      opts.Runner,
		reporter:    opts.Reporter,
		logger:      logger,
		info:        opts.Platform,
		manifest:    manifest,
		downloader:  downloader,
		keyringPath: opts.KeyringPath,
		tempDir:     opts.TempDir,
	}, nil
}

// Version returns the pinned release version.
func (i *Installer) Version() string {
	return i.manifest.Version
}

// Install downloads, verifies and installs the release for the host.
func (i *Installer) Install(ctx context.Context) error {
	if !i.info.IsWindows() && !i.info.IsMacOS() {
		i.reporter.WriteInformation("%s is not supported yet by SafeChain's ultimate version.", i.info.OS)
		return nil
	}

	return i.withInstaller(ctx, func(path string) error {
		i.reporter.WriteInformation("Installing SafeChain Ultimate %s...", i.manifest.Version)
		if err := i.run(ctx, installCommand(i.info, path)); err != nil {
			return fmt.Errorf("install SafeChain Ultimate: %w", err)
		}
		i.reporter.WriteInformation("SafeChain Ultimate %s installed successfully.", i.manifest.Version)
		return nil
	})
}

// Uninstall removes SafeChain Ultimate. On Windows the pinned MSI is
// fetched again since msiexec needs the package to uninstall it.
func (i *Installer) Uninstall(ctx context.Context) error {
	switch {
	case i.info.IsWindows():
		return i.withInstaller(ctx, func(path string) error {
			i.reporter.WriteInformation("Uninstalling SafeChain Ultimate...")
			if err := i.run(ctx, executor.Command{Name: "msiexec", Args: []string{"/x", path, "/qn", "/norestart"}}); err != nil {
				return fmt.Errorf("uninstall SafeChain Ultimate: %w", err)
			}
			i.reporter.WriteInformation("SafeChain Ultimate uninstalled successfully.")
			return nil
		})

	case i.info.IsMacOS():
		if _, err := os.Stat(MacOSUninstallScript); errors.Is(err, os.ErrNotExist) {
			i.reporter.WriteWarning("SafeChain Ultimate does not appear to be installed (%s not found).", MacOSUninstallScript)
			return nil
		}
		i.reporter.WriteInformation("Uninstalling SafeChain Ultimate...")
		cmd := executor.Command{Name: "sudo", Args: []string{MacOSUninstallScript}, Interactive: true}
		if err := i.run(ctx, cmd); err != nil {
			return fmt.Errorf("uninstall SafeChain Ultimate: %w", err)
		}
		i.reporter.WriteInformation("SafeChain Ultimate uninstalled successfully.")
		return nil

	default:
		i.reporter.WriteInformation("Uninstall is not yet supported on %s.", i.info.OS)
		return nil
	}
}

// withInstaller downloads and verifies the installer into a temp directory,
// calls fn with its path and removes the directory afterwards.
func (i *Installer) withInstaller(ctx context.Context, fn func(path string) error) error {
	asset, err := i.manifest.AssetFor(i.info)
	if err != nil {
		return err
	}

	dir, err := os.MkdirTemp(i.tempDir, "safe-chain-ultimate-*")
	if err != nil {
		return fmt.Errorf("create download directory: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, filepath.Base(asset.File))
	i.reporter.WriteInformation("Downloading SafeChain Ultimate %s...", i.manifest.Version)
	i.logger.Debug("downloading installer", "url", asset.URL, "dest", path)
	if err := i.downloader.DownloadToFile(ctx, asset.URL, path); err != nil {
		return err
	}

	if err := VerifyChecksum(path, asset.Checksum); err != nil {
		return err
	}
	i.logger.Debug("checksum verified", "checksum", asset.Checksum)

	if err := i.verifySignature(ctx, asset, path); err != nil {
		return err
	}

	return fn(path)
}

func (i *Installer) verifySignature(ctx context.Context, asset *Asset, path string) error {
	if i.keyringPath == "" {
		return nil
	}
	if asset.SignatureURL == "" {
		i.reporter.WriteWarning("A keyring is configured but release %s publishes no signature; relying on the checksum.", i.manifest.Version)
		return nil
	}

	sigPath := path + ".sig"
	if err := i.downloader.DownloadToFile(ctx, asset.SignatureURL, sigPath); err != nil {
		return fmt.Errorf("download signature: %w", err)
	}
	if err := VerifySignature(path, sigPath, i.keyringPath); err != nil {
		return err
	}
	i.logger.Debug("signature verified", "keyring", i.keyringPath)
	return nil
}

func installCommand(info *platform.Info, path string) executor.Command {
	if info.IsWindows() {
		return executor.Command{Name: "msiexec", Args: []string{"/i", path, "/qn", "/norestart"}}
	}
	return executor.Command{Name: "sudo", Args: []string{"installer", "-pkg", path, "-target", "/"}, Interactive: true}
}

func (i *Installer) run(ctx context.Context, cmd executor.Command) error {
	i.logger.Debug("running OS installer", "command", cmd.String())
	_, err := i.runner.Run(ctx, cmd)
	return err
}
