package capture

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestRunner(t *testing.T) (*Runner, *Store, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), ".capture"))
	var stdout, stderr bytes.Buffer
	return NewRunner(s, &stdout, &stderr, nil), s, &stdout, &stderr
}

func TestRunnerStart(t *testing.T) {
	requireTool(t, "sh")
	r, s, stdout, stderr := newTestRunner(t)

	command := []string{"sh", "-c", "echo out1; echo err1 >&2; echo out2; printf partial; exit 3"}
	code, err := r.Start(context.Background(), "job", command)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}

	wantOut := "out1\nout2\npartial\n"
	if stdout.String() != wantOut {
		t.Errorf("terminal stdout = %q, want %q", stdout.String(), wantOut)
	}
	if stderr.String() != "err1\n" {
		t.Errorf("terminal stderr = %q, want %q", stderr.String(), "err1\n")
	}

	outLog, err := os.ReadFile(s.LogPath("job", false))
	if err != nil {
		t.Fatalf("read stdout.log: %v", err)
	}
	if string(outLog) != wantOut {
		t.Errorf("stdout.log = %q, want %q", outLog, wantOut)
	}
	errLog, err := os.ReadFile(s.LogPath("job", true))
	if err != nil {
		t.Fatalf("read stderr.log: %v", err)
	}
	if string(errLog) != "err1\n" {
		t.Errorf("stderr.log = %q", errLog)
	}

	meta, err := LoadMeta(s.Dir("job"))
	if err != nil {
		t.Fatalf("meta.json missing: %v", err)
	}
	if meta.PID <= 0 {
		t.Errorf("PID = %d", meta.PID)
	}
	if len(meta.Command) != 3 || meta.Command[0] != "sh" {
		t.Errorf("Command = %v", meta.Command)
	}

	if _, err := os.Stat(filepath.Join(s.Base(), "start.lock")); !os.IsNotExist(err) {
		t.Error("start lock should be released")
	}
}

func TestRunnerStartSuccess(t *testing.T) {
	requireTool(t, "true")
	r, _, _, _ := newTestRunner(t)

	code, err := r.Start(context.Background(), "ok", []string{"true"})
	if err != nil || code != 0 {
		t.Errorf("Start() = %d, %v; want 0, nil", code, err)
	}
}

func TestRunnerStartRefusesRunningCapture(t *testing.T) {
	r, s, _, _ := newTestRunner(t)
	seedCapture(t, s, "web", NewMeta(os.Getpid(), []string{"server"}), "keep me\n", "")

	_, err := r.Start(context.Background(), "web", []string{"true"})
	if !errors.Is(err, ErrCaptureRunning) {
		t.Fatalf("expected ErrCaptureRunning, got %v", err)
	}

	data, _ := os.ReadFile(s.LogPath("web", false))
	if string(data) != "keep me\n" {
		t.Errorf("running capture's logs were touched: %q", data)
	}
}

func TestRunnerStartReplacesDeadCapture(t *testing.T) {
	requireTool(t, "sh")
	r, s, _, _ := newTestRunner(t)
	seedCapture(t, s, "web", NewMeta(deadPID(t), []string{"old"}), "old output\n", "old err\n")

	if _, err := r.Start(context.Background(), "web", []string{"sh", "-c", "echo new"}); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	data, _ := os.ReadFile(s.LogPath("web", false))
	if string(data) != "new\n" {
		t.Errorf("stdout.log = %q, want %q", data, "new\n")
	}
	data, _ = os.ReadFile(s.LogPath("web", true))
	if len(data) != 0 {
		t.Errorf("stderr.log should be reset, got %q", data)
	}
}

func TestRunnerStartErrors(t *testing.T) {
	tests := []struct {
		name     string
		capture  string
		command  []string
		wantDir  bool
		checkErr func(error) bool
	}{
		{
			name:     "invalid_name",
			capture:  "../x",
			command:  []string{"true"},
			checkErr: func(err error) bool { return errors.Is(err, ErrInvalidName) },
		},
		{
			name:     "empty_command",
			capture:  "job",
			checkErr: func(err error) bool { return err != nil },
		},
		{
			name:     "missing_executable",
			capture:  "job",
			command:  []string{"/nonexistent/capture-test-binary"},
			checkErr: func(err error) bool { return err != nil },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, s, _, _ := newTestRunner(t)

			_, err := r.Start(context.Background(), tt.capture, tt.command)
			if !tt.checkErr(err) {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok, _ := s.Exists("job"); ok {
				t.Error("failed start should not leave a capture directory")
			}
		})
	}
}

func TestRunnerStartCancelled(t *testing.T) {
	requireTool(t, "sleep")
	r, _, _, _ := newTestRunner(t)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	code, err := r.Start(ctx, "long", []string{"sleep", "30"})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if code != 1 {
		t.Errorf("exit code = %d, want 1 for a signalled child", code)
	}
	if time.Since(start) > 10*time.Second {
		t.Error("child was not terminated on cancellation")
	}
}
