//go:build darwin

package parentpid

// resolveBrowserAncestor on macOS trusts the direct parent process, matching
// the original implementation (no portal-intermediary concept exists on
// this platform).
func resolveBrowserAncestor(seedPID uint32) uint32 {
	return seedPID
}
