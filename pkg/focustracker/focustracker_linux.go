//go:build linux

package focustracker

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// linuxPoller queries the active window via the display server's CLI tools
// (xdotool under X11/XWayland; most desktop environments ship it or an
// equivalent). This mirrors the original implementation's approach of
// shelling out to platform query tools rather than linking against a
// display-server client library directly, keeping the cross-compile matrix
// simple.
type linuxPoller struct{}

func newPlatformPoller() platformPoller { return linuxPoller{} }

func (linuxPoller) Poll(icon IconConfig) (FocusedWindow, bool, error) {
	out, err := exec.Command("xdotool", "getactivewindow", "getwindowpid", "getwindowname").Output()
	if err != nil {
		return FocusedWindow{}, false, fmt.Errorf("query active window: %w", err)
	}
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) < 1 {
		return FocusedWindow{}, false, nil
	}
	pid64, err := strconv.ParseUint(strings.TrimSpace(lines[0]), 10, 32)
	if err != nil {
		return FocusedWindow{}, false, fmt.Errorf("parse window pid: %w", err)
	}
	pid := uint32(pid64)

	title := ""
	if len(lines) > 1 {
		title = strings.TrimSpace(strings.Join(lines[1:], "\n"))
	}

	name, err := processName(pid)
	if err != nil {
		// A transient read failure on /proc is a skip, not a fatal error
		// (spec §4.1: "query errors are logged and skipped").
		return FocusedWindow{}, false, fmt.Errorf("read process name: %w", err)
	}

	return FocusedWindow{
		ProcessID:   pid,
		ProcessName: name,
		WindowTitle: title,
		// Icon extraction isn't attempted on Linux: there is no single
		// reliable desktop-environment-independent API for it, so this
		// field stays empty rather than failing (spec §4.1).
	}, true, nil
}

// processName reads the canonical process name for pid from /proc/<pid>/stat,
// the same source pkg/nativebridge/parentpid uses for ancestor-walk parsing: field 2 is
// "(comm)", parenthesized and possibly containing spaces, so the name is the
// text between the first '(' and the last ')'.
func processName(pid uint32) (string, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return "", err
	}
	s := string(data)
	open := strings.IndexByte(s, '(')
	closeIdx := strings.LastIndexByte(s, ')')
	if open < 0 || closeIdx < 0 || closeIdx < open {
		return "", fmt.Errorf("malformed stat line for pid %d", pid)
	}
	return s[open+1 : closeIdx], nil
}
