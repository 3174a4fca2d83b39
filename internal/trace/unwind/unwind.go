// Package unwind guards the one step of stack collection that cannot
// necessarily be assumed safe to run from arbitrary interrupted context:
// actually walking the stack.
//
// Some unwinders' first call through a dynamic linker is not reentrant,
// so a signal interrupting a thread already inside that lazy init could
// deadlock. This package primes the unwinder once, up front, outside any
// handler, and exposes a safety oracle a caller can consult before ever
// triggering a collection against a thread it does not trust.
//
// Go's unwinder (runtime.Callers/runtime.CallersFrames) carries none of
// that hazard: it walks frame pointers and pcdata the runtime already
// maintains, with no dynamic-linker reentrancy and no lazy global init
// gated by a non-recursive lock. Safe is therefore true unconditionally
// by default. The hook is kept, and Prime is kept a real sync.Once rather
// than deleted, purely so embedders who know their process's unwinder is
// compromised (a corrupted runtime, a fuzzing harness that deliberately
// breaks invariants) have an escape hatch, and so tests can exercise the
// synthetic-frame fallback path.
package unwind

import (
	"reflect"
	"runtime"
	"sync"

	"github.com/kolkov/threadstack/internal/trace/buffer"
)

var primeOnce sync.Once

// Prime performs one throwaway unwind outside of any signal-adjacent
// context, before the first collection signal is sent. It is idempotent
// and safe to call from multiple triggerers.
func Prime() {
	primeOnce.Do(func() {
		var pcs [1]uintptr
		runtime.Callers(0, pcs[:])
	})
}

// Safe reports whether it is currently safe to unwind. Overridable for
// embedders and tests; defaults to true since Go's unwinder carries none
// of the dynamic-linker reentrancy hazard this hook exists to guard
// against.
var Safe = func() bool { return true }

// CollectSafely fills buf with the caller's stack, skipping skip frames
// above CollectSafely itself, unless Safe reports false, in which case it
// records a single sentinel frame rather than risk unwinding.
func CollectSafely(skip int, buf *buffer.StackBuffer) {
	if !Safe() {
		buf.Reset()
		buf.Frames[0] = unsafeToCollectPC
		buf.NumFrames = 1
		return
	}
	buf.Collect(skip + 1)
}

// couldNotCollectStackTraceBecauseUnsafeToUnwind is never called; it exists
// so unsafeToCollectPC can point at a real symbol table entry, and a
// Symbolizer resolving that frame therefore reports this function's name
// instead of "(unknown)".
func couldNotCollectStackTraceBecauseUnsafeToUnwind() {}

// unsafeToCollectPC is the address of
// couldNotCollectStackTraceBecauseUnsafeToUnwind, used as a sentinel frame
// whenever Safe reports false, so the resulting frame symbolizes to a
// readable marker rather than an unresolvable address.
var unsafeToCollectPC = reflect.ValueOf(couldNotCollectStackTraceBecauseUnsafeToUnwind).Pointer()
