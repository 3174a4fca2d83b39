//go:build linux

package procfs

import (
	"os"
	"strconv"
	"strings"
)

// unknownThreadName is returned when a thread's name cannot be read, e.g.
// because it exited between enumeration and the name lookup.
const unknownThreadName = "<unknown name>"

// ThreadName reads a thread's kernel-assigned name from
// /proc/self/task/<tid>/comm, best-effort. A failure here never aborts a
// snapshot; it only degrades that one entry's ThreadName field.
func ThreadName(tid int32) string {
	buf, err := os.ReadFile("/proc/self/task/" + strconv.Itoa(int(tid)) + "/comm")
	if err != nil {
		return unknownThreadName
	}
	return strings.TrimRight(string(buf), "\n")
}
