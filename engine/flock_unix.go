//go:build unix

package engine

import (
	"fmt"
	"os"
	"syscall"
)

// lockFile takes an exclusive advisory lock on path. With wait unset it
// fails with ErrWalletBusy instead of blocking.
func lockFile(path string, wait bool) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("engine: open lock file: %w", err)
	}
	how := syscall.LOCK_EX
	if !wait {
		how |= syscall.LOCK_NB
	}
	if err := syscall.Flock(int(f.Fd()), how); err != nil {
		_ = f.Close()
		if !wait {
			return nil, fmt.Errorf("%w: %s", ErrWalletBusy, path)
		}
		return nil, fmt.Errorf("engine: acquire lock: %w", err)
	}
	return f, nil
}

func unlockFile(f *os.File) {
	if f == nil {
		return
	}
	_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
	_ = f.Close()
}
