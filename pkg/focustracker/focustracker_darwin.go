//go:build darwin

package focustracker

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// darwinPoller queries the frontmost application via osascript (System
// Events), matching spec §4.1's "macOS queries the frontmost process"
// without requiring cgo bindings to Cocoa/NSWorkspace.
type darwinPoller struct{}

func newPlatformPoller() platformPoller { return darwinPoller{} }

const frontmostScript = `
tell application "System Events"
	set frontApp to first application process whose frontmost is true
	set appName to name of frontApp
	set appPID to unix id of frontApp
	try
		set winName to name of front window of frontApp
	on error
		set winName to ""
	end try
end tell
return appName & "\n" & appPID & "\n" & winName
`

func (darwinPoller) Poll(icon IconConfig) (FocusedWindow, bool, error) {
	out, err := exec.Command("osascript", "-e", frontmostScript).Output()
	if err != nil {
		return FocusedWindow{}, false, fmt.Errorf("query frontmost process: %w", err)
	}
	lines := strings.SplitN(strings.TrimRight(string(out), "\n"), "\n", 3)
	if len(lines) < 2 {
		return FocusedWindow{}, false, nil
	}
	name := strings.TrimSpace(lines[0])
	pid64, err := strconv.ParseUint(strings.TrimSpace(lines[1]), 10, 32)
	if err != nil {
		return FocusedWindow{}, false, fmt.Errorf("parse frontmost pid: %w", err)
	}
	title := ""
	if len(lines) == 3 {
		title = strings.TrimSpace(lines[2])
	}

	return FocusedWindow{
		ProcessID:   uint32(pid64),
		ProcessName: name,
		WindowTitle: title,
	}, true, nil
}
