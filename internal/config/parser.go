package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/AloisH/capture-cli/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// Parser evaluates capture.lua overrides.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a parser; detector may be nil, in which case no
// platform table is injected.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseFile evaluates a capture.lua file and applies it onto base.
func (p *Parser) ParseFile(ctx context.Context, path string, base InstallConfig) (InstallConfig, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read %s: %w", path, err)
	}
	return p.ParseString(ctx, string(code), base)
}

// ParseString evaluates Lua code and applies the global "capture" table
// onto base. A script that defines no capture table leaves base unchanged.
func (p *Parser) ParseString(ctx context.Context, luaCode string, base InstallConfig) (InstallConfig, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return base, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return base, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return base, &ParseError{Message: "Lua syntax error", Detail: err.Error()}
	}

	value := L.GetGlobal("capture")
	switch value.Type() {
	case lua.LTNil:
		return base, nil
	case lua.LTTable:
	default:
		return base, &ParseError{
			Message: "invalid 'capture' table",
			Detail:  fmt.Sprintf("expected table, got %s", value.Type()),
		}
	}

	return applyTable(value.(*lua.LTable), base)
}

// stringFields maps capture table keys onto string config fields.
var stringFields = map[string]func(*InstallConfig, string){
	"version":       func(c *InstallConfig, v string) { c.Version = v },
	"repo":          func(c *InstallConfig, v string) { c.Repo = v },
	"base_url":      func(c *InstallConfig, v string) { c.BaseURL = v },
	"binary":        func(c *InstallConfig, v string) { c.BinaryName = v },
	"native_dir":    func(c *InstallConfig, v string) { c.NativeDir = v },
	"verify":        func(c *InstallConfig, v string) { c.Verify = VerifyMode(v) },
	"keyring":       func(c *InstallConfig, v string) { c.Keyring = v },
	"trusted_root":  func(c *InstallConfig, v string) { c.TrustedRoot = v },
	"cert_identity": func(c *InstallConfig, v string) { c.CertIdentity = v },
	"cert_issuer":   func(c *InstallConfig, v string) { c.CertIssuer = v },
	"extractor":     func(c *InstallConfig, v string) { c.Extractor = ExtractorKind(v) },
}

func applyTable(table *lua.LTable, cfg InstallConfig) (InstallConfig, error) {
	for key, set := range stringFields {
		v := table.RawGetString(key)
		switch v.Type() {
		case lua.LTNil:
			// nil values come from platform conditionals and mean "keep"
		case lua.LTString:
			set(&cfg, v.String())
		default:
			return cfg, typeError(key, "string", v)
		}
	}

	if v := table.RawGetString("max_redirects"); v != lua.LNil {
		n, ok := v.(lua.LNumber)
		if !ok || float64(n) != float64(int(n)) {
			return cfg, typeError("max_redirects", "integer", v)
		}
		cfg.MaxRedirects = int(n)
	}

	// timeout is either seconds (number) or a Go duration string
	if v := table.RawGetString("timeout"); v != lua.LNil {
		switch tv := v.(type) {
		case lua.LNumber:
			cfg.Timeout = time.Duration(float64(tv) * float64(time.Second))
		case lua.LString:
			d, err := time.ParseDuration(string(tv))
			if err != nil {
				return cfg, &ParseError{Message: "invalid 'timeout'", Detail: err.Error()}
			}
			cfg.Timeout = d
		default:
			return cfg, typeError("timeout", "number or duration string", v)
		}
	}

	return cfg, nil
}

func typeError(key, want string, got lua.LValue) error {
	return &ParseError{
		Message: fmt.Sprintf("invalid 'capture.%s'", key),
		Detail:  fmt.Sprintf("expected %s, got %s", want, got.Type()),
	}
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua or JSON error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// FormatError formats an error for user display. In verbose mode the raw
// detail is shown in full; otherwise any Lua stack traceback is dropped.
func FormatError(err error, verbose bool) string {
	parseErr, ok := err.(*ParseError)
	if !ok {
		return err.Error()
	}
	if verbose {
		return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
	}
	detail := parseErr.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	return fmt.Sprintf("%s: %s", parseErr.Message, detail)
}
