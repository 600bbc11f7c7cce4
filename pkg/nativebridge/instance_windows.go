//go:build windows

package nativebridge

import (
	"os"

	"golang.org/x/sys/windows"
)

// tryLockExclusive takes a whole-file exclusive lock via LockFileEx with the
// non-blocking flag, matching the POSIX flock(LOCK_EX|LOCK_NB) semantics
// used on other platforms.
func tryLockExclusive(f *os.File) error {
	var ol windows.Overlapped
	return windows.LockFileEx(
		windows.Handle(f.Fd()),
		windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
		0,
		1, 0,
		&ol,
	)
}

func unlockFile(f *os.File) {
	var ol windows.Overlapped
	_ = windows.UnlockFileEx(windows.Handle(f.Fd()), 0, 1, 0, &ol)
}
