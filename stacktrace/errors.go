package stacktrace

import "github.com/kolkov/threadstack/internal/trace/errs"

// Sentinel errors returned by this package, wrapped with context via
// fmt.Errorf's %w rather than exposed as their own types: callers that
// care distinguish outcomes with errors.Is against these values.
var (
	// ErrUnsupported means the current platform cannot run the signal
	// protocol, or the protocol could not be installed in this process.
	ErrUnsupported = errs.Unsupported

	// ErrInvalidArgument means a caller-supplied value was rejected
	// outright, such as a signal number already claimed by something
	// else in the process.
	ErrInvalidArgument = errs.InvalidArgument

	// ErrNotFound means the target tid did not name a live thread in
	// this process when signal delivery was attempted.
	ErrNotFound = errs.NotFound

	// ErrTimedOut means the deadline passed before the target responded.
	ErrTimedOut = errs.TimedOut

	// ErrIncomplete means a debugger or other tracer is attached to this
	// process, so a snapshot was refused without touching any thread.
	// Per-thread failures inside a snapshot are reported through
	// Snapshot.NumFailed instead.
	ErrIncomplete = errs.Incomplete

	// ErrIOError means a filesystem operation this package depends on
	// (such as enumerating /proc/self/task) failed.
	ErrIOError = errs.IOError
)
