package capture

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Meta is the content of meta.json.
type Meta struct {
	// ID distinguishes runs reusing the same name.
	ID        string   `json:"id,omitempty"`
	PID       int      `json:"pid"`
	Command   []string `json:"command"`
	StartedAt string   `json:"started_at"`
}

// NewMeta describes a process started now.
func NewMeta(pid int, command []string) *Meta {
	return &Meta{
		ID:        uuid.New().String(),
		PID:       pid,
		Command:   append([]string(nil), command...),
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Save writes meta.json into dir atomically.
// Uses write-then-rename so readers never see a partial file.
func (m *Meta) Save(dir string) error {
	finalPath := filepath.Join(dir, MetaFile)
	tmpPath := finalPath + ".tmp"

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}

	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("write temporary meta file: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename meta file: %w", err)
	}

	return nil
}

// LoadMeta reads meta.json from dir.
func LoadMeta(dir string) (*Meta, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetaFile))
	if err != nil {
		return nil, fmt.Errorf("read meta file: %w", err)
	}

	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal meta: %w", err)
	}
	return &m, nil
}
