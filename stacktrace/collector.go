package stacktrace

import (
	"fmt"
	"time"

	"github.com/kolkov/threadstack/internal/trace/collector"
)

// Collector drives a single cross-thread stack collection against one
// target thread, for callers that want to overlap the wait with other
// work instead of calling GetThreadStack's blocking round trip.
//
// A Collector is used exactly once: TriggerAsync, then either
// AwaitCollection or Close, never both and never either one twice.
type Collector struct {
	inner *collector.Collector
}

// NewCollector returns a Collector targeting tid.
func NewCollector(tid int32) *Collector {
	return &Collector{inner: collector.New(tid)}
}

// TriggerAsync delivers the request and returns immediately.
func (c *Collector) TriggerAsync() error {
	return c.inner.TriggerAsync()
}

// AwaitCollection blocks until the target responds or deadline passes.
func (c *Collector) AwaitCollection(deadline time.Time) (*Stack, bool) {
	return c.inner.AwaitCollection(deadline)
}

// Close revokes an in-flight request the caller no longer intends to wait
// for.
func (c *Collector) Close() {
	c.inner.Close()
}

// Snapshot holds the result of collecting every thread's stack in this
// process at roughly the same moment. See SnapshotAllStacks.
type Snapshot struct {
	inner *collector.Snapshot
}

// SnapshotAllStacks lists every thread in the current process and
// attempts to collect each one's stack against a single shared deadline.
// Threads that do not respond in time are still listed, just without a
// collected stack. It returns ErrIncomplete without touching any thread
// if a debugger is attached to this process.
func SnapshotAllStacks(deadline time.Time) (*Snapshot, error) {
	snap, err := collector.SnapshotAllStacks(deadline)
	if err != nil {
		return nil, fmt.Errorf("threadstack: %w", err)
	}
	return &Snapshot{inner: snap}, nil
}

// NumFailed reports how many threads in the snapshot did not yield a
// stack, either because triggering the request failed or because the
// target never responded by the snapshot's deadline.
func (s *Snapshot) NumFailed() int {
	return s.inner.NumFailed
}

// VisitGroups calls fn once per contiguous group of threads sharing an
// identical stack.
func (s *Snapshot) VisitGroups(fn func(stack *Stack, tids []int32)) {
	s.inner.VisitGroups(fn)
}
