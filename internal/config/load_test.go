package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/AloisH/capture-cli/internal/platform"
)

func TestLoader_Load(t *testing.T) {
	detector := platform.StaticDetector{OS: "darwin", Arch: "arm64"}

	t.Run("manifest_only", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, `{"version": "0.4.0", "repository": "github:acme/capture"}`)

		cfg, err := NewLoader(detector, nil).Load(context.Background(), dir)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Version != "0.4.0" || cfg.Repo != "acme/capture" {
			t.Errorf("unexpected config: %+v", cfg)
		}
		if cfg.PackageRoot != dir {
			t.Errorf("PackageRoot = %q, want %q", cfg.PackageRoot, dir)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("loaded config should validate: %v", err)
		}
	})

	t.Run("lua_overrides_manifest", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, `{"version": "0.4.0"}`)
		lua := `capture = { version = "0.4.1", extractor = platform.is_apple_silicon and "tar" or "native" }`
		if err := os.WriteFile(filepath.Join(dir, LuaConfigFile), []byte(lua), 0644); err != nil {
			t.Fatalf("write lua: %v", err)
		}

		cfg, err := NewLoader(detector, NopLogger()).Load(context.Background(), dir)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Version != "0.4.1" {
			t.Errorf("Version = %q", cfg.Version)
		}
		if cfg.Extractor != ExtractorTar {
			t.Errorf("Extractor = %q", cfg.Extractor)
		}
		if cfg.Repo != DefaultRepo {
			t.Errorf("Repo = %q", cfg.Repo)
		}
	})

	t.Run("missing_manifest", func(t *testing.T) {
		if _, err := NewLoader(detector, nil).Load(context.Background(), t.TempDir()); err == nil {
			t.Error("expected error without package.json")
		}
	})

	t.Run("broken_lua", func(t *testing.T) {
		dir := t.TempDir()
		writeManifest(t, dir, `{"version": "0.4.0"}`)
		if err := os.WriteFile(filepath.Join(dir, LuaConfigFile), []byte(`capture = {`), 0644); err != nil {
			t.Fatalf("write lua: %v", err)
		}
		if _, err := NewLoader(detector, nil).Load(context.Background(), dir); err == nil {
			t.Error("expected error for broken capture.lua")
		}
	})
}
