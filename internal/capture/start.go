package capture

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/AloisH/capture-cli/internal/config"
)

// ErrCaptureRunning is returned when starting a name whose process is alive.
var ErrCaptureRunning = errors.New("capture is already running")

// Runner starts captures.
type Runner struct {
	store  *Store
	stdout io.Writer
	stderr io.Writer
	logger config.Logger
}

// NewRunner returns a runner that echoes child output to stdout and stderr.
func NewRunner(store *Store, stdout, stderr io.Writer, logger config.Logger) *Runner {
	if logger == nil {
		logger = config.NopLogger()
	}
	return &Runner{store: store, stdout: stdout, stderr: stderr, logger: logger}
}

// Start runs command as capture name and blocks until it exits. The
// returned code is the child's exit status, or 1 when it was killed by a
// signal. Cancelling ctx sends SIGTERM to the child.
func (r *Runner) Start(ctx context.Context, name string, command []string) (int, error) {
	if err := ValidateName(name); err != nil {
		return 0, err
	}
	if len(command) == 0 {
		return 0, errors.New("no command given")
	}

	cmd, stdoutLog, stderrLog, err := r.launch(ctx, name, command)
	if err != nil {
		return 0, err
	}
	defer stdoutLog.Close()
	defer stderrLog.Close()

	// Pipes must be drained before Wait closes them.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		tee(cmd.stdout, stdoutLog, r.stdout)
	}()
	go func() {
		defer wg.Done()
		tee(cmd.stderr, stderrLog, r.stderr)
	}()
	wg.Wait()

	err = cmd.Wait()
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		code := exitErr.ExitCode()
		if code < 0 {
			code = 1
		}
		r.logger.Debug("capture exited", "name", name, "code", code)
		return code, nil
	default:
		return 1, fmt.Errorf("wait for command: %w", err)
	}
}

type child struct {
	*exec.Cmd
	stdout io.ReadCloser
	stderr io.ReadCloser
}

// launch prepares the capture directory and spawns the command while the
// start lock is held.
func (r *Runner) launch(ctx context.Context, name string, command []string) (*child, *os.File, *os.File, error) {
	lock, err := AcquireLock(ctx, r.store.Base())
	if err != nil {
		return nil, nil, nil, err
	}
	defer lock.Release()

	if meta, err := LoadMeta(r.store.Dir(name)); err == nil && Alive(ctx, meta.PID) {
		return nil, nil, nil, fmt.Errorf("%w: '%s' (pid %d)", ErrCaptureRunning, name, meta.PID)
	}

	if err := r.store.Reset(name); err != nil {
		return nil, nil, nil, err
	}

	stdoutLog, err := os.Create(r.store.LogPath(name, false))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("create log file: %w", err)
	}
	stderrLog, err := os.Create(r.store.LogPath(name, true))
	if err != nil {
		stdoutLog.Close()
		return nil, nil, nil, fmt.Errorf("create log file: %w", err)
	}

	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	c := &child{Cmd: cmd}

	closeLogs := func() {
		stdoutLog.Close()
		stderrLog.Close()
	}
	if c.stdout, err = cmd.StdoutPipe(); err != nil {
		closeLogs()
		return nil, nil, nil, fmt.Errorf("stdout pipe: %w", err)
	}
	if c.stderr, err = cmd.StderrPipe(); err != nil {
		closeLogs()
		return nil, nil, nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		closeLogs()
		_ = r.store.Remove(name)
		return nil, nil, nil, fmt.Errorf("spawn %s: %w", command[0], err)
	}

	meta := NewMeta(cmd.Process.Pid, command)
	if err := meta.Save(r.store.Dir(name)); err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		closeLogs()
		return nil, nil, nil, err
	}

	r.logger.Debug("capture started", "name", name, "pid", meta.PID, "id", meta.ID)
	return c, stdoutLog, stderrLog, nil
}

// tee copies src line by line to log and terminal, flushing each line.
// A final line without a newline gets one.
func tee(src io.Reader, log *os.File, terminal io.Writer) {
	reader := bufio.NewReader(src)
	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 {
			if line[len(line)-1] != '\n' {
				line = append(line, '\n')
			}
			_, _ = log.Write(line)
			if terminal != nil {
				_, _ = terminal.Write(line)
			}
		}
		if err != nil {
			return
		}
	}
}
