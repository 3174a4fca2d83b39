//go:build !linux

package procfs

// IsBeingDebugged has no portable implementation here; reporting false
// means snapshots proceed rather than refusing unconditionally, which
// matches this platform's signal protocol already being unsupported.
func IsBeingDebugged() bool {
	return false
}
