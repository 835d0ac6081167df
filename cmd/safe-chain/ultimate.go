package main

import (
	"github.com/spf13/cobra"

	"github.com/safechain-dev/safe-chain/internal/ultimate"
)

func newUltimateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ultimate",
		Short: "Install the ultimate version of safe-chain",
		Long: `Install SafeChain Ultimate, enabling protection for more ecosystems.

The installer is downloaded for this platform, verified against the pinned
checksum (and signature, when ultimate.keyring is configured) and handed to
the OS installer. Windows and macOS are supported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inst, err := a.newInstaller()
			if err != nil {
				return err
			}
			return inst.Install(cmd.Context())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "uninstall",
		Short: "Uninstall the ultimate version of safe-chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inst, err := a.newInstaller()
			if err != nil {
				return err
			}
			return inst.Uninstall(cmd.Context())
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "troubleshooting-logs",
		Short: "Print standard and error logs for safe-chain ultimate and its proxy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTroubleshootingLogs()
		},
	})

	return cmd
}

func (a *app) newInstaller() (*ultimate.Installer, error) {
	keyring, err := a.config.Ultimate.KeyringPath()
	if err != nil {
		return nil, err
	}

	inst, err := ultimate.NewInstaller(ultimate.Options{
		Runner:      a.runner,
		Reporter:    a.printer,
		Logger:      a.logger,
		Platform:    a.info,
		Downloader:  ultimate.NewDownloader(a.config.Ultimate.Timeout()),
		KeyringPath: keyring,
	})
	if err != nil {
		return nil, err
	}
	a.logger.Debug("pinned ultimate release", "version", inst.Version())
	return inst, nil
}

func (a *app) runTroubleshootingLogs() error {
	paths, err := ultimate.LogPathsFor(a.info.OS)
	if err != nil {
		a.printer.WriteError("Log printing is not supported on %s.", a.info.OS)
		return errReported
	}
	ultimate.PrintLogs(a.printer, paths)
	return nil
}
