// Package signal implements the tracer/target handshake that lets one
// goroutine collect the call stack of an arbitrary other OS thread in the
// same process, using a realtime signal keyed off a per-request
// signalData block.
//
// Go gives user code no way to install a handler that runs synchronously,
// on the interrupted thread's own stack, inside true signal context. A
// goroutine that wants to be a valid collection target must therefore opt
// in by calling Participate, which reacts to the configured signal on its
// own stack and races the CAS against revocation.
//
// Every other piece of the handshake — the queuedToTID/resultReady state
// machine, the leak-on-lost-signal rule, the raw tgkill delivery that
// avoids racing a recycled tid, the per-tid free-list for leaked blocks —
// follows the same state machine a synchronous handler would need.
package signal

import (
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/kolkov/threadstack/internal/trace/buffer"
	"github.com/kolkov/threadstack/internal/trace/errs"
	"github.com/kolkov/threadstack/internal/trace/flag"
	"github.com/kolkov/threadstack/internal/trace/procfs"
	"github.com/kolkov/threadstack/internal/trace/unwind"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// State values for signalData.queuedToTID. A positive value is always a
// tid awaiting a response.
const (
	notInUse    = 0
	dumpStarted = -1
)

// signalData is shared between exactly one tracer and at most one target,
// addressed by tid through the pending map rather than by pointer
// transmitted through the signal itself (Go's signal delivery model does
// not expose siginfo's payload to user code at all, with or without a
// raw syscall, so there is nothing to gain from constructing one).
type signalData struct {
	stack       *buffer.StackBuffer
	queuedToTID atomic.Int64
	resultReady flag.CompletionFlag
}

func (sd *signalData) reset(tid int32, stack *buffer.StackBuffer) {
	sd.stack = stack
	sd.resultReady.Reset()
	sd.queuedToTID.Store(int64(tid))
}

var (
	mu        sync.Mutex // guards signum/installed/disabled below.
	signum    = defaultSignal()
	installed bool
	disabled  bool

	// pending serves two roles, deliberately sharing one map the way a
	// goroutine-context pool would: while a request is
	// in flight it holds the live signalData keyed by target tid; once
	// revoked with the signal still possibly in transit, the same entry
	// is left in place (queuedToTID reset to notInUse) as a parked,
	// reusable block for the next request against that same tid.
	pending sync.Map // int32 tid -> *signalData

	triggerCount atomic.Uint32
)

// defaultSignal picks the first realtime signal not otherwise reserved by
// the C library, so as not to collide with a signal some other library
// linked into the process has already claimed.
func defaultSignal() int {
	return unix.SIGRTMIN()
}

var log = logrus.New()

// SetLogger overrides the package-level logger used for ambient warnings
// (never for anything on the handler's hot path — that code path never
// logs, by construction, since logging is not async-signal-safe).
func SetLogger(l *logrus.Logger) { log = l }

// Configure installs (or reinstalls) the process-wide signal handler for
// signum. It refuses and returns errs.InvalidArgument if a conflicting,
// non-default, non-ignore, non-ours handler is already registered.
func Configure(newSignum int) error {
	mu.Lock()
	defer mu.Unlock()
	if !installLocked(newSignum) {
		return errs.InvalidArgument
	}
	return nil
}

// ensureInstalled lazily installs the default signal the first time a
// collection is attempted, idempotently and under the same lock every
// install or reconfigure goes through.
func ensureInstalled() error {
	mu.Lock()
	defer mu.Unlock()
	if disabled {
		return errs.Unsupported
	}
	if installed {
		return nil
	}
	if !installLocked(signum) {
		return errs.Unsupported
	}
	return nil
}

// installLocked must be called with mu held. It returns false if
// installation was refused because of a conflicting prior handler.
func installLocked(newSignum int) bool {
	if installed && newSignum == signum {
		return true // idempotent no-op.
	}

	var old unix.Sigaction
	if err := unix.Sigaction(newSignum, nil, &old); err != nil {
		log.WithError(err).WithField("signal", newSignum).
			Warn("threadstack: unable to query prior signal disposition")
		disabled = true
		return false
	}
	if !isDefaultOrIgnoreOrOurs(old) {
		log.WithField("signal", newSignum).
			Warn("threadstack: refusing to install stack trace signal handler: " +
				"a conflicting handler is already registered")
		disabled = true
		return false
	}

	// We deliberately never call unix.Sigaction to install our own
	// disposition: Go's runtime already owns sigaction for any signal
	// threaded through signal.Notify, and installing underneath it would
	// fight the runtime for ownership of the slot. Routing a
	// participant's wake-up rides entirely on signal.Notify (see
	// participate.go); the query above only detects a genuinely
	// conflicting third-party handler before we touch the signal at all.
	// A change of signum takes effect for every Participate loop the next
	// time it re-reads currentSignal, which only happens when it is next
	// started; existing loops keep listening on the signal they started
	// with until their caller restarts them.
	signum = newSignum
	installed = true
	disabled = false
	return true
}

func isDefaultOrIgnoreOrOurs(act unix.Sigaction) bool {
	return act.Handler == 0 /* SIG_DFL */ || act.Handler == 1 /* SIG_IGN */
}

// currentSignal returns the currently configured signal number.
func currentSignal() int {
	mu.Lock()
	defer mu.Unlock()
	return signum
}

// triggerAsync allocates or reuses a signalData block for tid, publishes
// it so a Participate loop on that tid can find it, and delivers a real
// queued signal to that OS thread via tgkill, scoped to the current
// process so a recycled tid in some unrelated process is never signaled.
func triggerAsync(tid int32, stack *buffer.StackBuffer) (*signalData, error) {
	if err := ensureInstalled(); err != nil {
		return nil, err
	}
	unwind.Prime()

	sd := acquireOrAllocate(tid, stack)
	pending.Store(tid, sd)

	maybeSweep()

	if err := unix.Tgkill(os.Getpid(), int(tid), toSignal(currentSignal())); err != nil {
		// Delivery failed outright (most commonly ESRCH: the thread is
		// already gone). Nothing is in flight, so reclaim immediately.
		pending.Delete(tid)
		return nil, errs.NotFound
	}
	return sd, nil
}

// acquireOrAllocate reuses a parked block for tid when one exists and is
// not currently in flight, matching spec's free-list design note: reuse
// is safe because only that tid's target will ever touch the block again.
func acquireOrAllocate(tid int32, stack *buffer.StackBuffer) *signalData {
	if v, ok := pending.Load(tid); ok {
		sd := v.(*signalData)
		if sd.queuedToTID.Load() == notInUse {
			sd.reset(tid, stack)
			return sd
		}
	}
	sd := &signalData{stack: stack}
	sd.queuedToTID.Store(int64(tid))
	return sd
}

// maybeSweep periodically purges parked blocks whose tid no longer
// exists, bounding the free-list's growth by amortizing reclamation
// across many triggers instead of scanning on every one.
func maybeSweep() {
	const sweepInterval = 256
	if triggerCount.Add(1)%sweepInterval != 0 {
		return
	}
	pending.Range(func(key, value any) bool {
		tid := key.(int32)
		sd := value.(*signalData)
		if sd.queuedToTID.Load() == notInUse && !procfs.ThreadExists(tid) {
			pending.Delete(tid)
		}
		return true
	})
}

// awaitCollection waits for the handshake to complete (or deadline to
// pass), then revokes, returning true iff the target's stack was
// populated.
func awaitCollection(sd *signalData, tid int32, deadline time.Time) bool {
	sd.resultReady.WaitUntil(deadline)
	return revoke(sd, tid)
}

// revoke implements spec's revoke_sig_data: it atomically withdraws the
// request, then decides between three outcomes based on what it observes.
func revoke(sd *signalData, tid int32) bool {
	old := sd.queuedToTID.Swap(notInUse)
	switch old {
	case int64(tid):
		// The handler never observed the request. The signal may still
		// be in flight and the handler may still dereference sd, so it
		// is parked rather than discarded: pending already holds it
		// keyed by tid, and it now reads as "free" to the next caller.
		return false
	case dumpStarted:
		// The handler is mid-write or has finished; either way we must
		// wait for it to finish before the stack buffer is safe to read,
		// and only then is the block itself safe to drop from pending.
		sd.resultReady.Wait()
		pending.Delete(tid)
		return true
	default:
		panic("threadstack: invalid queuedToTID observed during revoke")
	}
}

func toSignal(n int) syscall.Signal { return syscall.Signal(n) }
