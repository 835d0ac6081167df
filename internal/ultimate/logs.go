package ultimate

import (
	"errors"
	"fmt"
	"os"
)

// LogPaths locates the SafeChain Ultimate log files.
type LogPaths struct {
	Proxy         string
	ProxyError    string
	Ultimate      string
	UltimateError string
}

// LogPathsFor returns the log locations for goos. Only Windows and macOS
// are supported.
func LogPathsFor(goos string) (*LogPaths, error) {
	switch goos {
	case "windows":
		dir := `C:\ProgramData\AikidoSecurity\SafeChainUltimate\logs`
		return &LogPaths{
			Proxy:         dir + `\SafeChainProxy.log`,
			ProxyError:    dir + `\SafeChainProxy.err`,
			Ultimate:      dir + `\SafeChainUltimate.log`,
			UltimateError: dir + `\SafeChainUltimate.err`,
		}, nil
	case "darwin":
		dir := "/Library/Logs/AikidoSecurity/SafeChainUltimate"
		return &LogPaths{
			Proxy:         dir + "/safechain-proxy.log",
			ProxyError:    dir + "/safechain-proxy.error.log",
			Ultimate:      dir + "/safechain-ultimate.log",
			UltimateError: dir + "/safechain-ultimate.error.log",
		}, nil
	default:
		return nil, fmt.Errorf("%w: log printing on %s", ErrUnsupportedPlatform, goos)
	}
}

// PrintLogs writes the standard and error logs of the proxy and the
// ultimate service. Missing or unreadable files are reported, not returned.
func PrintLogs(r Reporter, paths *LogPaths) {
	printLogs(r, "SafeChain Proxy", paths.Proxy, paths.ProxyError)
	printLogs(r, "SafeChain Ultimate", paths.Ultimate, paths.UltimateError)
}

func printLogs(r Reporter, app, logPath, errLogPath string) {
	r.WriteInformation("=== %s Logs ===", app)
	switch data, err := os.ReadFile(logPath); {
	case err == nil:
		r.WriteInformation("%s", data)
	case errors.Is(err, os.ErrNotExist):
		r.WriteWarning("%s log file not found: %s", app, logPath)
	default:
		r.WriteError("Failed to read %s logs: %v", app, err)
	}

	r.WriteInformation("=== %s Error Logs ===", app)
	switch data, err := os.ReadFile(errLogPath); {
	case err == nil:
		r.WriteInformation("%s", data)
	case errors.Is(err, os.ErrNotExist):
		r.WriteInformation("No error log file found for %s.", app)
	default:
		r.WriteError("Failed to read %s error logs: %v", app, err)
	}
}
