// Package stacktrace collects call stacks across goroutines pinned to
// their own OS thread, using an asynchronous signal handshake rather than
// stopping the whole process.
//
// # Quick start
//
// A thread that should be collectible must pin itself and run Participate
// on that same pinned goroutine for as long as it wants to remain a valid
// target:
//
//	func worker(ctx context.Context) {
//		runtime.LockOSThread()
//		defer runtime.UnlockOSThread()
//		_ = stacktrace.Participate(ctx) // returns once ctx is canceled
//	}
//
// Any other goroutine can then ask for that thread's stack by tid:
//
//	stack, err := stacktrace.GetThreadStack(tid, time.Now().Add(time.Second))
//	if err != nil {
//		log.Printf("collection failed: %v", err)
//		return
//	}
//	fmt.Println(stack.Symbolize(mySymbolizer))
//
// # How it works
//
// Each request fills in a shared block of state addressed by the target's
// Linux thread id, then delivers a real queued signal to that thread via
// tgkill. A participating goroutine reacts to the signal on its own stack,
// races a compare-and-swap against the requester potentially giving up
// first, and on winning collects its own stack directly into the shared
// block before waking the requester. Losing either race — because the
// requester's deadline passed, or because the signal never reached a
// thread that stopped running Participate — degrades cleanly: the
// requester times out, and the shared block is parked for reuse the next
// time that same tid is addressed, rather than freed while a signal might
// still be in flight toward it.
//
// # Platform support
//
// Cross-thread collection requires Linux: it depends on tgkill, realtime
// signal delivery, and /proc/self/task for thread enumeration. On other
// platforms every cross-thread operation returns an error wrapping
// [ErrUnsupported]; collecting the calling goroutine's own stack with
// GetStackTrace works everywhere Go does, since it never needs the signal
// protocol at all.
package stacktrace
