package signal

import (
	"time"

	"github.com/kolkov/threadstack/internal/trace/buffer"
)

// Request is an in-flight cross-thread collection request. It is opaque
// to callers outside this package; its only purpose is letting Collect
// later find the signalData it handed out.
type Request struct {
	sd  *signalData
	tid int32
}

// Trigger starts an asynchronous collection against tid, writing into
// stack once the target responds. It returns errs.NotFound if tid does
// not name a live thread in this process, and errs.Unsupported if the
// signal protocol could not be installed (non-Linux, or a conflicting
// handler already present).
func Trigger(tid int32, stack *buffer.StackBuffer) (*Request, error) {
	sd, err := triggerAsync(tid, stack)
	if err != nil {
		return nil, err
	}
	return &Request{sd: sd, tid: tid}, nil
}

// Collect blocks until the target responds or deadline passes, then
// revokes the request. It returns true iff stack was populated.
func (r *Request) Collect(deadline time.Time) bool {
	return awaitCollection(r.sd, r.tid, deadline)
}

// Drop revokes a request the caller no longer intends to wait for, e.g.
// because the collector holding it is being closed. It performs the same
// revoke/park bookkeeping Collect does, discarding whatever it observes.
func (r *Request) Drop() {
	revoke(r.sd, r.tid)
}

// SetSignal reconfigures which signal number the protocol uses. Most
// callers never need this; it exists for processes that have already
// claimed the default realtime signal for something else.
func SetSignal(n int) error {
	return Configure(n)
}
