package capture

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// BaseDirName is the directory under $HOME holding all captures.
	BaseDirName = ".capture"

	MetaFile   = "meta.json"
	StdoutFile = "stdout.log"
	StderrFile = "stderr.log"
)

var (
	// ErrNoCapture is returned when a named capture does not exist.
	ErrNoCapture = errors.New("no capture")
	// ErrInvalidName is returned for names that are not a single path element.
	ErrInvalidName = errors.New("invalid capture name")
)

// NotFoundError names the capture that was looked up.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no capture '%s'", e.Name)
}

// Is reports ErrNoCapture so callers can match without the name.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNoCapture
}

// Store resolves capture directories below a base directory.
type Store struct {
	base string
}

// NewStore returns a store rooted at base.
func NewStore(base string) *Store {
	return &Store{base: base}
}

// DefaultStore returns the store rooted at $HOME/.capture.
func DefaultStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return NewStore(filepath.Join(home, BaseDirName)), nil
}

// Base returns the store's root directory.
func (s *Store) Base() string {
	return s.base
}

// Dir returns the directory of the named capture.
func (s *Store) Dir(name string) string {
	return filepath.Join(s.base, name)
}

// LogPath returns the stdout or stderr log of the named capture.
func (s *Store) LogPath(name string, stderr bool) string {
	if stderr {
		return filepath.Join(s.Dir(name), StderrFile)
	}
	return filepath.Join(s.Dir(name), StdoutFile)
}

// ValidateName rejects names that would escape the base directory.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Exists reports whether the named capture directory exists.
func (s *Store) Exists(name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}
	info, err := os.Stat(s.Dir(name))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat capture %s: %w", name, err)
	}
	return info.IsDir(), nil
}

// Names returns the names of all capture directories, sorted.
func (s *Store) Names() ([]string, error) {
	entries, err := os.ReadDir(s.base)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.base, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Reset removes any previous state of the named capture and recreates its
// empty directory.
func (s *Store) Reset(name string) error {
	dir := s.Dir(name)
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove existing capture: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create capture dir: %w", err)
	}
	return nil
}

// Remove deletes the named capture directory.
func (s *Store) Remove(name string) error {
	if err := os.RemoveAll(s.Dir(name)); err != nil {
		return fmt.Errorf("remove capture dir: %w", err)
	}
	return nil
}
