package capture

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewMeta(t *testing.T) {
	command := []string{"npm", "run", "dev"}
	m := NewMeta(4242, command)

	if m.PID != 4242 {
		t.Errorf("PID = %d, want 4242", m.PID)
	}
	if m.ID == "" {
		t.Error("expected non-empty ID")
	}

	// the caller's slice must not alias the stored command
	command[0] = "changed"
	if m.Command[0] != "npm" {
		t.Errorf("Command aliased caller slice: %v", m.Command)
	}

	started, err := time.Parse(time.RFC3339, m.StartedAt)
	if err != nil {
		t.Fatalf("StartedAt %q is not RFC3339: %v", m.StartedAt, err)
	}
	if !strings.HasSuffix(m.StartedAt, "Z") {
		t.Errorf("StartedAt should be UTC, got %q", m.StartedAt)
	}
	if time.Since(started) > time.Minute {
		t.Errorf("StartedAt too old: %s", m.StartedAt)
	}

	if NewMeta(1, nil).ID == m.ID {
		t.Error("expected distinct IDs per run")
	}
}

func TestMetaSaveLoad(t *testing.T) {
	dir := t.TempDir()
	m := &Meta{ID: "run-1", PID: 42, Command: []string{"echo", "hi"}, StartedAt: "2025-01-01T00:00:00Z"}

	if err := m.Save(dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, MetaFile+".tmp")); !os.IsNotExist(err) {
		t.Error("temporary file should be renamed away")
	}

	got, err := LoadMeta(dir)
	if err != nil {
		t.Fatalf("LoadMeta() error = %v", err)
	}
	if got.PID != 42 || got.StartedAt != "2025-01-01T00:00:00Z" || got.ID != "run-1" {
		t.Errorf("LoadMeta() = %+v", got)
	}
	if strings.Join(got.Command, " ") != "echo hi" {
		t.Errorf("Command = %v", got.Command)
	}
}

func TestLoadMetaWithoutID(t *testing.T) {
	dir := t.TempDir()
	data := `{"pid": 7, "command": ["sleep", "9"], "started_at": "2025-01-01T00:00:00Z"}`
	if err := os.WriteFile(filepath.Join(dir, MetaFile), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadMeta(dir)
	if err != nil {
		t.Fatalf("LoadMeta() error = %v", err)
	}
	if m.PID != 7 || m.ID != "" {
		t.Errorf("LoadMeta() = %+v", m)
	}
}

func TestLoadMetaErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadMeta(t.TempDir()); err == nil {
			t.Error("expected error for missing meta.json")
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, MetaFile), []byte("{"), 0644); err != nil {
			t.Fatal(err)
		}
		_, err := LoadMeta(dir)
		if err == nil || !strings.Contains(err.Error(), "unmarshal meta") {
			t.Errorf("expected unmarshal error, got %v", err)
		}
	})
}
