//go:build linux

package procfs

import (
	"os"
	"strconv"

	"github.com/kolkov/threadstack/internal/trace/errs"
	"golang.org/x/sys/unix"
)

// ListThreads enumerates the OS thread ids (Linux tids) of the calling
// process by reading /proc/self/task.
func ListThreads() ([]int32, error) {
	entries, err := os.ReadDir("/proc/self/task")
	if err != nil {
		return nil, errs.IOError
	}
	tids := make([]int32, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if name == "" || name[0] == '.' {
			continue
		}
		tid, err := strconv.ParseUint(name, 10, 32)
		if err != nil {
			continue // bad tid found in procfs; skip rather than fail the whole listing.
		}
		tids = append(tids, int32(tid))
	}
	return tids, nil
}

// ThreadExists reports whether tid still names a live thread in this
// process, used to decide whether a parked signal-data block can safely
// be reused for a fresh request against the same tid.
func ThreadExists(tid int32) bool {
	_, err := os.Stat("/proc/self/task/" + strconv.Itoa(int(tid)))
	return err == nil
}

// CurrentTID returns the calling goroutine's OS thread id. The caller
// must have called runtime.LockOSThread for this value to remain valid
// beyond the current call — Go may otherwise migrate the goroutine to a
// different OS thread at any scheduling point.
func CurrentTID() int32 {
	return int32(unix.Gettid())
}
