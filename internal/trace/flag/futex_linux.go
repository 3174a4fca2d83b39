//go:build linux

package flag

import (
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Futex operation constants from linux/futex.h. golang.org/x/sys/unix does
// not export these, so they are reproduced here verbatim.
const (
	futexWait        = 0
	futexWake        = 1
	futexPrivateFlag = 128
)

// futexWakeAll wakes every thread waiting on addr via a FUTEX_WAKE_PRIVATE
// syscall. Safe to call from a signal handler: it touches no Go runtime
// state beyond the raw syscall itself.
func futexWakeAll(addr *uint32) {
	_, _, _ = unix.Syscall(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexWake|futexPrivateFlag),
		uintptr(^uint32(0)>>1), // INT_MAX: wake every waiter.
	)
}

// futexWaitUntil blocks for up to timeout on addr becoming non-zero,
// using FUTEX_WAIT_PRIVATE so a spurious wake just causes the caller's
// loop to re-check the deadline. It never blocks longer than timeout even
// if the wait is retried by the kernel.
func futexWaitUntil(addr *uint32, timeout time.Duration) {
	if timeout <= 0 {
		return
	}
	ts := unix.NsecToTimespec(timeout.Nanoseconds())
	_, _, _ = unix.Syscall6(unix.SYS_FUTEX,
		uintptr(unsafe.Pointer(addr)),
		uintptr(futexWait|futexPrivateFlag),
		uintptr(0), // wait only while *addr == 0
		uintptr(unsafe.Pointer(&ts)),
		0, 0,
	)
}
