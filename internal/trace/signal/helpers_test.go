package signal

import (
	"time"

	"golang.org/x/sys/unix"
)

// pastDeadline returns a deadline that has already elapsed, for tests
// that want WaitUntil's fast path without actually sleeping.
func pastDeadline() time.Time {
	return time.Now().Add(-time.Second)
}

func sigactionWithHandler(h uintptr) unix.Sigaction {
	return unix.Sigaction{Handler: h}
}
