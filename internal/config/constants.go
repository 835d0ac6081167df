package config

import "time"

// Lua schema field names and globals
const (
	luaGlobalSafeChain = "safechain"
)

const (
	// MaxConfigSize bounds the config file read into memory.
	MaxConfigSize = 1 << 20

	// DefaultParseTimeout applies when the caller's context has no deadline.
	DefaultParseTimeout = 5 * time.Second

	// DefaultUltimateTimeout is the download timeout for the ultimate installer.
	DefaultUltimateTimeout = 5 * time.Minute

	// ConfigEnvVar overrides the config file location.
	ConfigEnvVar = "SAFE_CHAIN_CONFIG"

	// DebugEnvVar enables debug logging when set to any non-empty value.
	DebugEnvVar = "SAFE_CHAIN_DEBUG"
)
