//go:build windows

package parentpid

import (
	"strings"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var browserExecutableNames = map[string]bool{
	"firefox.exe": true, "chrome.exe": true, "msedge.exe": true,
	"brave.exe": true, "librewolf.exe": true, "chromium.exe": true,
}

// resolveBrowserAncestor walks the ancestor chain from seedPID using a
// toolhelp snapshot, matching process names against known browser
// executables case-insensitively, exactly as the original Windows
// implementation does via CreateToolhelp32Snapshot/Process32FirstW/NextW.
func resolveBrowserAncestor(seedPID uint32) uint32 {
	procs, ok := snapshotProcesses()
	if !ok {
		return seedPID
	}

	pid := seedPID
	for i := 0; i < 8; i++ { // bounded walk to avoid cycles in a corrupt table
		entry, found := procs[pid]
		if !found {
			return pid
		}
		if browserExecutableNames[strings.ToLower(entry.exeFile)] {
			return pid
		}
		if entry.parentPID == 0 || entry.parentPID == pid {
			return pid
		}
		pid = entry.parentPID
	}
	return pid
}

type processEntry struct {
	parentPID uint32
	exeFile   string
}

func snapshotProcesses() (map[uint32]processEntry, bool) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, false
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	result := make(map[uint32]processEntry)
	if err := windows.Process32First(snap, &entry); err != nil {
		return nil, false
	}
	for {
		name := syscall.UTF16ToString(entry.ExeFile[:])
		result[entry.ProcessID] = processEntry{parentPID: entry.ParentProcessID, exeFile: name}
		if err := windows.Process32Next(snap, &entry); err != nil {
			break
		}
	}
	return result, true
}
