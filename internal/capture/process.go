package capture

import (
	"context"
	"errors"

	"github.com/shirou/gopsutil/v4/process"
)

// Alive reports whether a process with pid exists.
func Alive(ctx context.Context, pid int) bool {
	if pid <= 0 {
		return false
	}
	ok, err := process.PidExistsWithContext(ctx, int32(pid))
	return err == nil && ok
}

// terminate sends SIGTERM to pid. A process that is already gone is not an
// error.
func terminate(ctx context.Context, pid int) error {
	if pid <= 0 {
		return nil
	}
	p, err := process.NewProcessWithContext(ctx, int32(pid))
	if err != nil {
		if errors.Is(err, process.ErrorProcessNotRunning) {
			return nil
		}
		return err
	}
	if err := p.TerminateWithContext(ctx); err != nil && Alive(ctx, pid) {
		return err
	}
	return nil
}
