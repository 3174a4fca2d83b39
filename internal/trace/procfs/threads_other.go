//go:build !linux

package procfs

import "github.com/kolkov/threadstack/internal/trace/errs"

// ListThreads is unsupported outside Linux: there is no portable
// per-task directory to enumerate.
func ListThreads() ([]int32, error) {
	return nil, errs.Unsupported
}

// ThreadExists always reports false outside Linux, since the signal
// protocol that would need it is itself unsupported there.
func ThreadExists(tid int32) bool {
	return false
}

// CurrentTID has no portable meaning outside Linux in this library; it
// returns 0, which never collides with a real tid.
func CurrentTID() int32 {
	return 0
}
