// Package testutil provides utilities for testing capture in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv points HOME at a fresh temp directory so tests never touch
// the user's real ~/.capture, and turns off debug logging and colour so
// output is stable. It returns the temporary home directory.
//
// Cleanup is handled by t.TempDir and t.Setenv.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	home := filepath.Join(tmpDir, "home")

	t.Setenv("HOME", home)
	t.Setenv("CAPTURE_DEBUG", "")
	t.Setenv("NO_COLOR", "1")

	if err := os.MkdirAll(home, 0o750); err != nil {
		t.Fatalf("failed to create test home %s: %v", home, err)
	}

	return home
}

// WritePackage creates an npm package root holding a package.json with
// version and, if non-empty, a capture.lua with luaConfig.
func WritePackage(t *testing.T, version, luaConfig string) string {
	t.Helper()

	root := t.TempDir()
	manifest := `{"name": "capture-cli", "version": "` + version + `"}`
	if err := os.WriteFile(filepath.Join(root, "package.json"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("failed to write package.json: %v", err)
	}

	if luaConfig != "" {
		if err := os.WriteFile(filepath.Join(root, "capture.lua"), []byte(luaConfig), 0o644); err != nil {
			t.Fatalf("failed to write capture.lua: %v", err)
		}
	}

	return root
}
