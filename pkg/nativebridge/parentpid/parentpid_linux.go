//go:build linux

package parentpid

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// portalProcessNames are intermediary processes that can sit between a
// sandboxed/flatpak browser and this native host; when the immediate parent
// is one of these, we walk up one more generation and scan for a sibling
// that looks like a real browser, mirroring the original implementation's
// "grandparent sibling scan" for xdg-desktop-portal.
var portalProcessNames = map[string]bool{
	"xdg-desktop-portal":          true,
	"xdg-desktop-portal-gtk":      true,
	"xdg-desktop-portal-gnome":    true,
	"xdg-desktop-portal-kde":      true,
}

var browserExecutableNames = map[string]bool{
	"firefox": true, "firefox-esr": true,
	"chrome": true, "google-chrome": true, "google-chrome-stable": true,
	"chromium": true, "chromium-browser": true,
	"brave": true, "brave-browser": true,
	"microsoft-edge": true, "msedge": true,
	"librewolf": true,
}

func resolveBrowserAncestor(seedPID uint32) uint32 {
	pid := seedPID
	name, parent, ok := statProcess(pid)
	if !ok {
		return seedPID
	}
	if portalProcessNames[name] {
		if sib, found := findBrowserSibling(parent); found {
			return sib
		}
		return parent
	}
	return pid
}

// statProcess reads /proc/<pid>/stat and returns (comm, ppid, ok).
func statProcess(pid uint32) (string, uint32, bool) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return "", 0, false
	}
	s := string(data)
	open := strings.IndexByte(s, '(')
	closeIdx := strings.LastIndexByte(s, ')')
	if open < 0 || closeIdx < 0 || closeIdx < open {
		return "", 0, false
	}
	name := s[open+1 : closeIdx]
	rest := strings.Fields(s[closeIdx+1:])
	// Field 3 (state) is rest[0]; field 4 (ppid) is rest[1].
	if len(rest) < 2 {
		return name, 0, false
	}
	ppid64, err := strconv.ParseUint(rest[1], 10, 32)
	if err != nil {
		return name, 0, false
	}
	return name, uint32(ppid64), true
}

// findBrowserSibling scans /proc for a process whose parent is
// grandparentPID and whose name matches a known browser executable.
func findBrowserSibling(grandparentPID uint32) (uint32, bool) {
	entries, err := os.ReadDir("/proc")
	if err != nil {
		return 0, false
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		pid64, err := strconv.ParseUint(e.Name(), 10, 32)
		if err != nil {
			continue
		}
		name, ppid, ok := statProcess(uint32(pid64))
		if !ok || ppid != grandparentPID {
			continue
		}
		if browserExecutableNames[name] {
			return uint32(pid64), true
		}
	}
	return 0, false
}
