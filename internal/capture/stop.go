package capture

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoTarget is returned when neither a name nor --all is given.
var ErrNoTarget = errors.New("provide a name or --all")

// Stop terminates the named capture's process and removes its directory.
func (s *Store) Stop(ctx context.Context, name string) error {
	ok, err := s.Exists(name)
	if err != nil {
		return err
	}
	if !ok {
		return &NotFoundError{Name: name}
	}

	if err := s.kill(ctx, name); err != nil {
		return err
	}
	return s.Remove(name)
}

// StopAll stops every capture and returns how many were removed.
func (s *Store) StopAll(ctx context.Context) (int, error) {
	names, err := s.Names()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, name := range names {
		if err := s.kill(ctx, name); err != nil {
			return count, err
		}
		if err := s.Remove(name); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// kill sends SIGTERM to the pid in meta.json. Missing or unreadable
// metadata leaves nothing to signal.
func (s *Store) kill(ctx context.Context, name string) error {
	meta, err := LoadMeta(s.Dir(name))
	if err != nil {
		return nil
	}
	if err := terminate(ctx, meta.PID); err != nil {
		return fmt.Errorf("terminate %s (pid %d): %w", name, meta.PID, err)
	}
	return nil
}
