package signal

import (
	"testing"

	"github.com/kolkov/threadstack/internal/trace/buffer"
)

func TestRevokeBeforeHandlerParksBlockForReuse(t *testing.T) {
	const tid = 99001
	var stack buffer.StackBuffer
	sd := acquireOrAllocate(tid, &stack)
	pending.Store(tid, sd)

	completed := revoke(sd, tid)
	if completed {
		t.Fatal("revoke before any handler ran must report incomplete")
	}
	if sd.queuedToTID.Load() != notInUse {
		t.Fatalf("queuedToTID = %d, want notInUse", sd.queuedToTID.Load())
	}

	v, ok := pending.Load(tid)
	if !ok || v.(*signalData) != sd {
		t.Fatal("expected the same block to remain parked under tid")
	}
}

func TestAcquireOrAllocateReusesParkedBlock(t *testing.T) {
	const tid = 99002
	var first buffer.StackBuffer
	sd := acquireOrAllocate(tid, &first)
	pending.Store(tid, sd)
	revoke(sd, tid) // parks it.

	var second buffer.StackBuffer
	reused := acquireOrAllocate(tid, &second)
	if reused != sd {
		t.Fatal("expected the parked block to be reused, not a fresh allocation")
	}
	if reused.stack != &second {
		t.Fatal("reset did not repoint stack at the new buffer")
	}
	if reused.queuedToTID.Load() != int64(tid) {
		t.Fatalf("queuedToTID = %d, want %d", reused.queuedToTID.Load(), tid)
	}
}

func TestAcquireOrAllocateDoesNotReuseInFlightBlock(t *testing.T) {
	const tid = 99003
	var stack buffer.StackBuffer
	sd := acquireOrAllocate(tid, &stack)
	pending.Store(tid, sd) // still "in flight": queuedToTID == tid.

	var other buffer.StackBuffer
	fresh := acquireOrAllocate(tid, &other)
	if fresh == sd {
		t.Fatal("must not hand out a block that is still in flight")
	}
}

func TestHandleWakeupLosesRaceAfterRevoke(t *testing.T) {
	const tid = 99004
	var stack buffer.StackBuffer
	sd := acquireOrAllocate(tid, &stack)
	pending.Store(tid, sd)
	revoke(sd, tid) // the requester gave up first.

	handleWakeup(tid) // must be a no-op: the CAS should fail.
	if stack.NumFrames != 0 {
		t.Fatal("a handler that lost the CAS race must never write the stack")
	}
}

func TestHandleWakeupWinsRaceAndSignals(t *testing.T) {
	const tid = 99005
	var stack buffer.StackBuffer
	sd := acquireOrAllocate(tid, &stack)
	pending.Store(tid, sd)

	handleWakeup(tid)

	if stack.NumFrames == 0 {
		t.Fatal("expected the handler to have collected a stack")
	}
	done := awaitCollection(sd, tid, pastDeadline())
	if !done {
		t.Fatal("expected awaitCollection to observe completion")
	}
}

func TestDefaultOrIgnoreOrOurs(t *testing.T) {
	if !isDefaultOrIgnoreOrOurs(sigactionWithHandler(0)) {
		t.Error("SIG_DFL should be accepted")
	}
	if !isDefaultOrIgnoreOrOurs(sigactionWithHandler(1)) {
		t.Error("SIG_IGN should be accepted")
	}
	if isDefaultOrIgnoreOrOurs(sigactionWithHandler(0x1234)) {
		t.Error("a real handler address should be refused")
	}
}
