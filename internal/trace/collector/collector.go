// Package collector exposes the cross-thread handshake in internal/trace/
// signal as a small object lifecycle: one request out, one wait in, with a
// Close that revokes cleanly if the caller gives up early.
//
// A value meant to be used exactly once panics loudly on misuse rather
// than silently reusing stale state.
package collector

import (
	"fmt"
	"time"

	"github.com/kolkov/threadstack/internal/trace/buffer"
	"github.com/kolkov/threadstack/internal/trace/signal"
)

// Collector drives a single cross-thread stack collection against one
// target tid. It is not safe for concurrent use and is not reusable: each
// Collector services exactly one TriggerAsync/AwaitCollection pair.
type Collector struct {
	tid     int32
	stack   buffer.StackBuffer
	req     *signal.Request
	started bool
	done    bool
}

// New returns a Collector targeting tid. Collection does not begin until
// TriggerAsync is called.
func New(tid int32) *Collector {
	return &Collector{tid: tid}
}

// TriggerAsync delivers the collection request to the target thread and
// returns immediately. It panics if called more than once on the same
// Collector, matching the one-shot contract AwaitCollection/Close rely on.
func (c *Collector) TriggerAsync() error {
	if c.started {
		panic("threadstack: Collector.TriggerAsync called twice")
	}
	c.started = true
	req, err := signal.Trigger(c.tid, &c.stack)
	if err != nil {
		return fmt.Errorf("threadstack: trigger tid %d: %w", c.tid, err)
	}
	c.req = req
	return nil
}

// AwaitCollection blocks until the target responds or deadline passes. It
// panics if TriggerAsync was never called or AwaitCollection already ran.
func (c *Collector) AwaitCollection(deadline time.Time) (*buffer.StackBuffer, bool) {
	if !c.started {
		panic("threadstack: Collector.AwaitCollection called before TriggerAsync")
	}
	if c.done {
		panic("threadstack: Collector.AwaitCollection called twice")
	}
	c.done = true
	if c.req == nil {
		return nil, false
	}
	if !c.req.Collect(deadline) {
		return nil, false
	}
	return &c.stack, true
}

// Close revokes an in-flight request the caller no longer wants to wait
// for. It is a no-op if AwaitCollection already completed or TriggerAsync
// was never called.
func (c *Collector) Close() {
	if !c.started || c.done || c.req == nil {
		return
	}
	c.done = true
	c.req.Drop()
}
