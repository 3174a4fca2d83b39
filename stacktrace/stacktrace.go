package stacktrace

import (
	"context"
	"fmt"
	"time"

	"github.com/kolkov/threadstack/internal/trace/buffer"
	"github.com/kolkov/threadstack/internal/trace/collector"
	"github.com/kolkov/threadstack/internal/trace/errs"
	"github.com/kolkov/threadstack/internal/trace/procfs"
	"github.com/kolkov/threadstack/internal/trace/signal"
	"github.com/kolkov/threadstack/internal/trace/unwind"
	"github.com/sirupsen/logrus"
)

// HexFlags controls how Stack renders addresses as hex text.
type HexFlags = buffer.HexFlags

const (
	// HexZeroXPrefix prefixes every address with "0x".
	HexZeroXPrefix = buffer.HexZeroXPrefix
	// NoFixCallerAddresses disables the address-1 caller correction that
	// is otherwise applied unconditionally to every nonzero frame.
	NoFixCallerAddresses = buffer.NoFixCallerAddresses
)

// Symbolizer resolves a program counter to a human-readable symbol name.
type Symbolizer = buffer.Symbolizer

// Stack is a captured, fixed-capacity call stack. The zero value is an
// empty stack.
type Stack = buffer.StackBuffer

// SetLogger redirects this package's ambient logging (installation
// warnings, never anything on a collection's hot path) to l.
func SetLogger(l *logrus.Logger) {
	signal.SetLogger(l)
}

// SetStackTraceSignal configures which signal number the cross-thread
// protocol uses. It must be called, if at all, before any other function
// in this package, and returns ErrInvalidArgument if a conflicting
// handler is already registered for that signal in this process.
//
// Most programs never need to call this: a default realtime signal is
// installed lazily on first use.
func SetStackTraceSignal(signum int) error {
	if err := signal.Configure(signum); err != nil {
		return fmt.Errorf("threadstack: %w", err)
	}
	return nil
}

// Participate makes the calling goroutine a valid collection target for
// as long as ctx is active. The caller must have already pinned itself to
// its OS thread with runtime.LockOSThread; Participate returns ctx.Err()
// when ctx is canceled.
func Participate(ctx context.Context) error {
	return signal.Participate(ctx)
}

// ListThreads returns the Linux thread id of every thread currently
// running in this process. It returns ErrUnsupported on non-Linux
// platforms.
func ListThreads() ([]int32, error) {
	tids, err := procfs.ListThreads()
	if err != nil {
		return nil, fmt.Errorf("threadstack: %w", err)
	}
	return tids, nil
}

// GetThreadStack collects the stack of the thread identified by tid,
// waiting up to deadline for it to respond. tid must come from
// ListThreads or from a thread that is itself calling Participate;
// addressing a tid by any other means risks the usual tid-recycling
// hazard that tgkill itself is scoped to this process to avoid.
func GetThreadStack(tid int32, deadline time.Time) (*Stack, error) {
	c := collector.New(tid)
	if err := c.TriggerAsync(); err != nil {
		return nil, err
	}
	stack, ok := c.AwaitCollection(deadline)
	if !ok {
		return nil, fmt.Errorf("threadstack: tid %d: %w", tid, errs.TimedOut)
	}
	return stack, nil
}

// DumpThreadStack is GetThreadStack followed by rendering the result with
// Symbolize, or a short explanatory line if collection failed.
func DumpThreadStack(tid int32, deadline time.Time, sym Symbolizer) string {
	stack, err := GetThreadStack(tid, deadline)
	if err != nil {
		return fmt.Sprintf("<%s>\n", err)
	}
	return stack.Symbolize(sym)
}

// GetStackTrace collects the calling goroutine's own stack. Unlike every
// other function in this package, this never touches the signal protocol
// and works identically on every platform Go supports.
func GetStackTrace() *Stack {
	var s Stack
	unwind.CollectSafely(1, &s)
	return &s
}

// GetStackTraceHex renders the calling goroutine's own stack as
// space-separated hex addresses, truncated to fit maxLen characters.
func GetStackTraceHex(maxLen int, flags HexFlags) string {
	return GetStackTrace().StringifyHex(maxLen, flags)
}

// HexStackTraceToString expands a hex-rendered stack (as produced by
// GetStackTraceHex) back into one symbol per line using sym. It is the
// counterpart that lets a caller log compact hex at collection time and
// resolve symbols later, out of band.
func HexStackTraceToString(hex string, sym Symbolizer) string {
	s, err := buffer.ParseHex(hex)
	if err != nil {
		return fmt.Sprintf("    (unparseable stack trace: %v)\n", err)
	}
	return s.Symbolize(sym)
}

// GetLogFormatStackTraceHex renders the calling goroutine's own stack the
// way a log line expects: one raw address per frame, no symbol lookup.
func GetLogFormatStackTraceHex() string {
	return GetStackTrace().ToLogHex()
}
