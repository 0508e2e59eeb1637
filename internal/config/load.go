package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/AloisH/capture-cli/internal/platform"
)

// Loader layers defaults, package.json and capture.lua into an InstallConfig.
type Loader struct {
	detector platform.Detector
	logger   Logger
}

// NewLoader creates a loader. detector feeds the capture.lua platform table.
func NewLoader(detector platform.Detector, logger Logger) *Loader {
	if logger == nil {
		logger = NopLogger()
	}
	return &Loader{detector: detector, logger: logger}
}

// Load builds the configuration for the package rooted at packageRoot.
// The result is not validated: flags are applied on top by the caller,
// which then calls Validate.
func (l *Loader) Load(ctx context.Context, packageRoot string) (InstallConfig, error) {
	root, err := filepath.Abs(packageRoot)
	if err != nil {
		return InstallConfig{}, fmt.Errorf("resolve package root: %w", err)
	}

	cfg := DefaultInstallConfig()
	cfg.PackageRoot = root

	manifest, err := LoadManifest(root)
	if err != nil {
		return cfg, err
	}
	cfg.Version = manifest.Version
	if repo := manifest.Repo(); repo != "" {
		cfg.Repo = repo
	}
	l.logger.Debug("loaded manifest", "name", manifest.Name, "version", cfg.Version, "repo", cfg.Repo)

	luaPath := filepath.Join(root, LuaConfigFile)
	if _, err := os.Stat(luaPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("stat %s: %w", LuaConfigFile, err)
	}

	cfg, err = NewParser(l.detector).ParseFile(ctx, luaPath, cfg)
	if err != nil {
		return cfg, err
	}
	l.logger.Debug("applied overrides", "file", luaPath, "version", cfg.Version, "verify", cfg.Verify)

	return cfg, nil
}
