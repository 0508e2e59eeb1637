package capture

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// requireTool skips the test when name is not on PATH.
func requireTool(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available", name)
	}
}

// seedCapture creates a capture directory with meta and log contents.
func seedCapture(t *testing.T, s *Store, name string, meta *Meta, stdout, stderr string) {
	t.Helper()

	dir := s.Dir(name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if meta != nil {
		if err := meta.Save(dir); err != nil {
			t.Fatalf("save meta: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, StdoutFile), []byte(stdout), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, StderrFile), []byte(stderr), 0644); err != nil {
		t.Fatal(err)
	}
}

// deadPID returns the pid of a process that has already exited and been
// reaped.
func deadPID(t *testing.T) int {
	t.Helper()
	requireTool(t, "true")

	cmd := exec.Command("true")
	if err := cmd.Run(); err != nil {
		t.Fatalf("run true: %v", err)
	}
	return cmd.Process.Pid
}

// sleeper starts a long-running process and kills it at cleanup.
func sleeper(t *testing.T) *exec.Cmd {
	t.Helper()
	requireTool(t, "sleep")

	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start sleep: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})
	return cmd
}
