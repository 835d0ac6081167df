package ultimate

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// ChecksumError reports a downloaded file whose digest does not match the
// manifest.
type ChecksumError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum verification failed for %s:\nactual:   %s\nexpected: %s", e.Path, e.Actual, e.Expected)
}

// SignatureError reports a failed OpenPGP signature check.
type SignatureError struct {
	Path  string
	Cause error
}

func (e *SignatureError) Error() string {
	return fmt.Sprintf("signature verification failed for %s: %v", e.Path, e.Cause)
}

func (e *SignatureError) Unwrap() error {
	return e.Cause
}

var hashes = map[string]func() hash.Hash{
	"sha256": sha256.New,
	"sha512": sha512.New,
}

// splitChecksum parses "algorithm:hex".
func splitChecksum(checksum string) (string, string, error) {
	algo, digest, ok := strings.Cut(checksum, ":")
	if !ok || digest == "" {
		return "", "", fmt.Errorf("invalid checksum %q: want <algorithm>:<hex>", checksum)
	}
	algo = strings.ToLower(algo)
	if _, ok := hashes[algo]; !ok {
		return "", "", fmt.Errorf("unsupported checksum algorithm %q", algo)
	}
	if _, err := hex.DecodeString(digest); err != nil {
		return "", "", fmt.Errorf("invalid checksum digest: %w", err)
	}
	return algo, digest, nil
}

// VerifyChecksum checks the file at path against "algorithm:hex".
func VerifyChecksum(path, expected string) error {
	if strings.Contains(path, "..") {
		return fmt.Errorf("invalid file path: %s", path)
	}

	algo, want, err := splitChecksum(expected)
	if err != nil {
		return err
	}

	actual, err := fileDigest(path, hashes[algo]())
	if err != nil {
		return fmt.Errorf("calculate checksum: %w", err)
	}

	if !strings.EqualFold(actual, want) {
		return &ChecksumError{Path: path, Expected: algo + ":" + want, Actual: algo + ":" + actual}
	}
	return nil
}

func fileDigest(path string, h hash.Hash) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifySignature checks a detached OpenPGP signature (armored or binary)
// of the file at path against the keyring at keyringPath.
func VerifySignature(path, signaturePath, keyringPath string) error {
	keyring, err := loadKeyring(keyringPath)
	if err != nil {
		return &SignatureError{Path: path, Cause: err}
	}

	file, err := os.Open(path)
	if err != nil {
		return &SignatureError{Path: path, Cause: fmt.Errorf("open file: %w", err)}
	}
	defer file.Close()

	sig, err := os.Open(signaturePath)
	if err != nil {
		return &SignatureError{Path: path, Cause: fmt.Errorf("open signature: %w", err)}
	}
	defer sig.Close()

	_, err = openpgp.CheckArmoredDetachedSignature(keyring, file, sig, nil)
	if err != nil {
		if _, seekErr := file.Seek(0, io.SeekStart); seekErr != nil {
			return &SignatureError{Path: path, Cause: seekErr}
		}
		if _, seekErr := sig.Seek(0, io.SeekStart); seekErr != nil {
			return &SignatureError{Path: path, Cause: seekErr}
		}
		_, err = openpgp.CheckDetachedSignature(keyring, file, sig, nil)
	}
	if err != nil {
		return &SignatureError{Path: path, Cause: err}
	}
	return nil
}
