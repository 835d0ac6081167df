package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config is the decoded safechain table.
type Config struct {
	// Dialect names (e.g. "Bash", "Windows PowerShell") to leave untouched
	ExcludeShells []string `mapstructure:"exclude_shells"`

	// One of debug, info, warn, error; empty keeps the CLI default
	LogLevel string `mapstructure:"log_level"`

	Ultimate UltimateConfig `mapstructure:"ultimate"`
}

// UltimateConfig holds settings for the ultimate companion installer.
type UltimateConfig struct {
	// Armored or binary OpenPGP public keyring used to verify release signatures
	Keyring string `mapstructure:"keyring"`

	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() *Config {
	return &Config{}
}

// Timeout returns the download timeout, falling back to DefaultUltimateTimeout.
func (u UltimateConfig) Timeout() time.Duration {
	if u.TimeoutSeconds <= 0 {
		return DefaultUltimateTimeout
	}
	return time.Duration(u.TimeoutSeconds) * time.Second
}

// KeyringPath expands a leading "~/" against the user's home directory.
func (u UltimateConfig) KeyringPath() (string, error) {
	if u.Keyring == "" || !strings.HasPrefix(u.Keyring, "~/") {
		return u.Keyring, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, u.Keyring[2:]), nil
}

var validLogLevels = map[string]bool{
	"":      true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the config. knownShells lists the accepted dialect names;
// when empty, shell names are not checked.
func (c *Config) Validate(knownShells []string) error {
	for i, name := range c.ExcludeShells {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Field: fmt.Sprintf("exclude_shells[%d]", i), Message: "shell name cannot be empty"}
		}
		if len(knownShells) > 0 && !containsFold(knownShells, name) {
			return &ValidationError{
				Field:   fmt.Sprintf("exclude_shells[%d]", i),
				Message: fmt.Sprintf("unknown shell %q (known: %s)", name, strings.Join(knownShells, ", ")),
			}
		}
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return &ValidationError{Field: "log_level", Message: fmt.Sprintf("unknown level %q", c.LogLevel)}
	}

	if c.Ultimate.TimeoutSeconds < 0 {
		return &ValidationError{Field: "ultimate.timeout_seconds", Message: "must not be negative"}
	}

	if strings.Contains(filepath.ToSlash(c.Ultimate.Keyring), "../") {
		return &ValidationError{Field: "ultimate.keyring", Message: "path traversal not allowed"}
	}

	return nil
}

func containsFold(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}
