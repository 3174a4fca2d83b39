//go:build linux

package procfs

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// IsBeingDebugged reports whether a tracer (a debugger, strace, etc.) is
// attached to the current process, by reading the TracerPid field out of
// /proc/self/status. Unwinding beside a debugger can deadlock inside the
// runtime linker, so callers use this to refuse collection up front
// rather than risk it.
func IsBeingDebugged() bool {
	f, err := os.Open("/proc/self/status")
	if err != nil {
		// If we can't tell, assume no debugger rather than refusing
		// every snapshot on a procfs hiccup.
		return false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "TracerPid:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return false
		}
		pid, err := strconv.Atoi(fields[1])
		return err == nil && pid != 0
	}
	return false
}
