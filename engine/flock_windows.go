//go:build windows

package engine

import (
	"fmt"
	"os"
)

// lockFile only opens the lock file on Windows. Actions are serialized
// in-process by the engine mutex but not across processes.
func lockFile(path string, _ bool) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, fmt.Errorf("engine: open lock file: %w", err)
	}
	return f, nil
}

func unlockFile(f *os.File) {
	if f == nil {
		return
	}
	_ = f.Close()
}
