// Package ultimate downloads, verifies and installs SafeChain Ultimate, the
// platform-native companion of safe-chain.
//
// The release is pinned by an embedded manifest (release.yaml) listing one
// installer per OS and architecture together with its checksum. Installers
// are fetched over HTTPS with retries, checked against the manifest
// checksum and, when the user configured a keyring and the release
// publishes one, an OpenPGP detached signature. Installation itself is
// delegated to the OS: msiexec on Windows and installer(8) on macOS.
//
// Other platforms are reported as unsupported without failing.
package ultimate
