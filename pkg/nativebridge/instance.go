package nativebridge

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/eurora-ai/eurora-core/pkg/eurora"
)

// ErrSingleInstanceContention is returned by EnsureSingleInstance when another
// native host process already holds the lock (spec §4.2 "Single-instance
// guard ... enforced by a file lock"; spec §6 exit code 2).
var ErrSingleInstanceContention = fmt.Errorf("another native host instance is already running")

// lockHandle is released through the platform-specific unlockFile implementation.
type lockHandle struct {
	file *os.File
}

// EnsureSingleInstance acquires an exclusive, non-blocking lock on
// <lockDir>/eurora-native-host.lock, returning ErrSingleInstanceContention if
// another process holds it. The returned handle's Release should be
// deferred by the caller for the lifetime of the process.
func EnsureSingleInstance(lockDir string) (*lockHandle, error) {
	if err := os.MkdirAll(lockDir, 0o700); err != nil {
		return nil, eurora.WithKind(eurora.KindConfiguration, fmt.Errorf("create lock dir: %w", err))
	}
	path := filepath.Join(lockDir, "eurora-native-host.lock")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, eurora.WithKind(eurora.KindConfiguration, fmt.Errorf("open lock file: %w", err))
	}
	h := &lockHandle{file: f}
	if err := tryLockExclusive(f); err != nil {
		f.Close()
		return nil, ErrSingleInstanceContention
	}
	return h, nil
}

// Release drops the lock and closes the underlying file.
func (h *lockHandle) Release() error {
	if h == nil || h.file == nil {
		return nil
	}
	unlockFile(h.file)
	return h.file.Close()
}
