package signal

import (
	"context"
	"os"
	osSignal "os/signal"

	"github.com/kolkov/threadstack/internal/trace/errs"
	"github.com/kolkov/threadstack/internal/trace/procfs"
	"github.com/kolkov/threadstack/internal/trace/unwind"
)

// Participate runs on the calling goroutine until ctx is canceled, making
// that goroutine a valid stack-collection target. The caller must have
// already pinned itself to its OS thread with runtime.LockOSThread, since
// the tid this registers under is only stable for the lifetime of that
// pin.
//
// Nothing can force an arbitrary goroutine to run code inside real signal
// context, so the goroutine instead opts in and reacts to the configured
// signal on its own, at whatever point it happens to be scheduled. A
// goroutine that never calls Participate, or that is blocked somewhere
// that never returns to this loop, behaves exactly like a thread that
// masks the signal: requests against its tid time out and leak a parked
// block, reclaimed the next time that tid is targeted or swept.
func Participate(ctx context.Context) error {
	tid := procfs.CurrentTID()
	if tid == 0 {
		return errs.Unsupported
	}

	ch := make(chan os.Signal, 8)
	osSignal.Notify(ch, toSignal(currentSignal()))
	defer osSignal.Stop(ch)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ch:
			handleWakeup(tid)
		}
	}
}

// handleWakeup races the CAS against a concurrent revoke, and only the
// side that wins may touch the stack buffer.
func handleWakeup(myTID int32) {
	v, ok := pending.Load(myTID)
	if !ok {
		return
	}
	sd := v.(*signalData)
	if !sd.queuedToTID.CompareAndSwap(int64(myTID), dumpStarted) {
		return
	}
	unwind.CollectSafely(1, sd.stack)
	sd.resultReady.Signal()
}
