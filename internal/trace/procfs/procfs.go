// Package procfs implements the OS-level collaborators that the rest of
// this module's protocol needs but does not define itself:
// current-thread-id, process-thread enumeration, thread naming, thread
// existence, and debugger-presence detection. Signal delivery itself
// lives in internal/trace/signal.
//
// Everything here is Linux-specific by nature (it reads /proc and issues
// Linux-only syscalls); non-Linux builds get stub implementations, since
// there is no portable equivalent to fall back to: ListThreads reports
// errs.Unsupported, and the others return a fixed safe default.
package procfs
