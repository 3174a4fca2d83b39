// Package errs defines the sentinel error kinds shared by every layer of
// the stack collection protocol, so a caller can errors.Is against a
// single stable set of values regardless of which package produced the
// error.
package errs

import "errors"

var (
	// Unsupported means the platform lacks a required primitive, or the
	// signal handler could not be installed because of a conflicting
	// prior handler.
	Unsupported = errors.New("threadstack: unsupported")

	// InvalidArgument means the caller-supplied signal number could not
	// be installed.
	InvalidArgument = errors.New("threadstack: invalid argument")

	// NotFound means signal delivery to the target tid failed, most
	// commonly because the target thread has already exited.
	NotFound = errors.New("threadstack: thread not found")

	// TimedOut means the deadline elapsed without a response and the
	// signal had not yet been observed by the target thread.
	TimedOut = errors.New("threadstack: timed out")

	// Incomplete means a debugger or tracer is attached and collection
	// was refused to avoid deadlocking inside the runtime linker.
	Incomplete = errors.New("threadstack: incomplete")

	// IOError means thread enumeration failed.
	IOError = errors.New("threadstack: io error")
)
