// Package parentpid recovers the PID of the browser process that launched
// the native messaging host (spec §4.2: "carrying the PID of the browser
// ancestor process"). Grounded directly on the original Rust source's
// euro-native-messaging/src/parent_pid.rs: capture the OS parent PID as the
// very first action in main() (before any other processing, since on some
// platforms the parent can be reaped/reparented once this process outlives
// it), then resolve the actual browser ancestor lazily, with an env var
// override taking precedence.
package parentpid

import (
	"os"
	"strconv"
)

// EnvOverride is checked by GetParentPID before any platform detection (spec
// §6: "Env var EURORA_BROWSER_PID overrides browser-ancestor detection if
// set to a valid unsigned integer").
const EnvOverride = "EURORA_BROWSER_PID"

var capturedPPID uint32

// CaptureParentPID records the OS parent PID at the moment of the call. It
// must be called once, at the very start of main(), before flag parsing or
// logging initialization.
func CaptureParentPID() {
	capturedPPID = uint32(os.Getppid())
}

// GetParentPID returns the resolved browser ancestor PID: the
// EURORA_BROWSER_PID override if set and valid, otherwise the
// platform-specific resolution seeded by the PID captured at startup.
func GetParentPID() uint32 {
	if v := os.Getenv(EnvOverride); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			return uint32(n)
		}
	}
	return resolveBrowserAncestor(capturedPPID)
}
