package capture

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// FollowInterval is how often a followed log is polled for new data.
const FollowInterval = 100 * time.Millisecond

// LogOptions selects which part of a log is printed. Head takes
// precedence over Lines; Grep filters before either is applied.
type LogOptions struct {
	Lines  *int
	Head   *int
	Grep   string
	Stderr bool
	Follow bool
}

// Logs writes the selected log lines of capture name to w. With Follow it
// blocks, printing lines appended after the call, until ctx is cancelled.
func (s *Store) Logs(ctx context.Context, name string, opts LogOptions, w io.Writer) error {
	ok, err := s.Exists(name)
	if err != nil {
		return err
	}
	if !ok {
		return &NotFoundError{Name: name}
	}

	path := s.LogPath(name, opts.Stderr)
	if opts.Follow {
		return follow(ctx, path, opts.Grep, w)
	}

	lines, err := readLines(path)
	if err != nil {
		return err
	}

	for _, line := range selectLines(lines, opts) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log file: %w", err)
	}
	return lines, nil
}

// selectLines applies grep, then head or tail.
func selectLines(lines []string, opts LogOptions) []string {
	if opts.Grep != "" {
		var filtered []string
		for _, l := range lines {
			if strings.Contains(l, opts.Grep) {
				filtered = append(filtered, l)
			}
		}
		lines = filtered
	}

	switch {
	case opts.Head != nil:
		n := max(*opts.Head, 0)
		return lines[:min(n, len(lines))]
	case opts.Lines != nil:
		n := max(*opts.Lines, 0)
		return lines[max(len(lines)-n, 0):]
	default:
		return lines
	}
}

// follow prints lines appended to path after the call until ctx is done.
func follow(ctx context.Context, path, grep string, w io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek log file: %w", err)
	}

	ticker := time.NewTicker(FollowInterval)
	defer ticker.Stop()

	reader := bufio.NewReader(f)
	var partial strings.Builder
	for {
		chunk, err := reader.ReadString('\n')
		partial.WriteString(chunk)

		if err == nil {
			line := strings.TrimSuffix(partial.String(), "\n")
			partial.Reset()
			if grep == "" || strings.Contains(line, grep) {
				if _, err := fmt.Fprintln(w, line); err != nil {
					return err
				}
			}
			continue
		}
		if !errors.Is(err, io.EOF) {
			return fmt.Errorf("read log file: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
