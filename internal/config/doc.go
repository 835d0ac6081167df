// Package config loads the optional safe-chain user configuration.
//
// The file lives at ~/.safe-chain/config.lua (SAFE_CHAIN_CONFIG overrides
// the location) and is evaluated in a sandboxed gopher-lua VM. A read-only
// platform table is injected before user code runs so settings can be
// conditional on the host:
//
//	safechain = {
//	  exclude_shells = { platform.is_windows and "Bash" or nil },
//	  log_level = "debug",
//	  ultimate = {
//	    keyring = "~/.safe-chain/ultimate.asc",
//	    timeout_seconds = 300,
//	  },
//	}
//
// The sandbox removes os, io, debug and every code-loading function. Only
// string, table and math remain.
//
// A missing file is not an error; Load returns Defaults().
package config
