package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	lua "github.com/yuin/gopher-lua"

	"github.com/safechain-dev/safe-chain/internal/platform"
)

// Parser evaluates Lua configs with platform detection.
type Parser struct {
	detector    platform.Detector
	knownShells []string
	logger      *slog.Logger
}

// NewParser creates a parser. detector may be nil, in which case no
// platform table is injected.
func NewParser(detector platform.Detector, knownShells ...string) *Parser {
	return &Parser{
		detector:    detector,
		knownShells: knownShells,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger used for debug output.
func (p *Parser) WithLogger(logger *slog.Logger) *Parser {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// DefaultPath returns SAFE_CHAIN_CONFIG when set, otherwise
// ~/.safe-chain/config.lua.
func DefaultPath() (string, error) {
	if p := os.Getenv(ConfigEnvVar); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".safe-chain", "config.lua"), nil
}

// Load reads and parses the config at path. A missing file yields Defaults().
func (p *Parser) Load(ctx context.Context, path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		p.logger.Debug("no user config, using defaults", "path", path)
		return Defaults(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxConfigSize+1))
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if len(data) > MaxConfigSize {
		return nil, &ParseError{
			Message: "config file too large",
			Detail:  fmt.Sprintf("%s exceeds %d bytes", path, MaxConfigSize),
		}
	}

	p.logger.Debug("loading user config", "path", path, "bytes", len(data))
	return p.ParseString(ctx, string(data))
}

// ParseString parses a Lua config from a string.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultParseTimeout)
		defer cancel()
	}

	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("config evaluation aborted: %w", ctxErr)
		}
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	cfg, err := extractConfig(L)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(p.knownShells); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig decodes the global safechain table. A config that never
// assigns it is valid and yields defaults.
func extractConfig(L *lua.LState) (*Config, error) {
	global := L.GetGlobal(luaGlobalSafeChain)
	switch global.Type() {
	case lua.LTNil:
		return Defaults(), nil
	case lua.LTTable:
	default:
		return nil, &ParseError{
			Message: "invalid 'safechain' table",
			Detail:  fmt.Sprintf("expected table, got %s", global.Type()),
		}
	}

	raw := toGo(global)
	cfg := Defaults()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      cfg,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, &ParseError{
			Message: "invalid 'safechain' table",
			Detail:  err.Error(),
		}
	}
	return cfg, nil
}

// toGo converts a Lua value into plain Go values for mapstructure.
// Tables with only numeric keys become slices ordered by key, which drops
// the holes left by conditionals like `cond and "x" or nil`. Empty tables
// become nil so they decode as zero values.
func toGo(v lua.LValue) interface{} {
	switch val := v.(type) {
	case lua.LString:
		return string(val)
	case lua.LNumber:
		return float64(val)
	case lua.LBool:
		return bool(val)
	case *lua.LTable:
		return tableToGo(val)
	default:
		return nil
	}
}

func tableToGo(t *lua.LTable) interface{} {
	type indexed struct {
		key   float64
		value interface{}
	}
	var (
		items  []indexed
		fields = map[string]interface{}{}
		mixed  bool
	)

	t.ForEach(func(key, value lua.LValue) {
		if value == lua.LNil {
			return
		}
		switch k := key.(type) {
		case lua.LNumber:
			items = append(items, indexed{key: float64(k), value: toGo(value)})
		default:
			fields[strings.TrimSpace(key.String())] = toGo(value)
			mixed = true
		}
	})

	if len(items) == 0 && len(fields) == 0 {
		return nil
	}
	if mixed {
		for _, it := range items {
			fields[fmt.Sprint(it.key)] = it.value
		}
		return fields
	}

	sort.Slice(items, func(i, j int) bool { return items[i].key < items[j].key })
	list := make([]interface{}, 0, len(items))
	for _, it := range items {
		list = append(list, it.value)
	}
	return list
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
