package capture

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Entry is one row of List.
type Entry struct {
	Name  string
	Meta  *Meta
	Alive bool
}

// Status returns "running" or "dead".
func (e Entry) Status() string {
	if e.Alive {
		return "running"
	}
	return "dead"
}

// List returns every capture with a readable meta.json, sorted by name.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	names, err := s.Names()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		meta, err := LoadMeta(s.Dir(name))
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:  name,
			Meta:  meta,
			Alive: Alive(ctx, meta.PID),
		})
	}
	return entries, nil
}

// PrintList writes entries as a table, or "no active captures".
func PrintList(w io.Writer, entries []Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "no active captures")
		return
	}

	fmt.Fprintf(w, "%-16s %-8s %-10s %-24s %s\n", "NAME", "PID", "STATUS", "STARTED", "COMMAND")
	for _, e := range entries {
		// pad before colouring so escape codes don't skew the columns
		status := fmt.Sprintf("%-10s", e.Status())
		if e.Alive {
			status = color.GreenString(status)
		} else {
			status = color.RedString(status)
		}
		fmt.Fprintf(w, "%-16s %-8d %s %-24s %s\n",
			e.Name, e.Meta.PID, status, e.Meta.StartedAt, strings.Join(e.Meta.Command, " "))
	}
}
