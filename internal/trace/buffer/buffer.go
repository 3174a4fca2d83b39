// Package buffer implements the fixed-capacity frame array shared between a
// tracer goroutine and a target OS thread during cross-thread stack
// collection.
//
// A StackBuffer is written exactly once, by the target thread inside a
// signal handler (see internal/trace/signal), and is read only after the
// tracer observes the handshake complete. Outside of that one write, a
// StackBuffer behaves like any other value type: comparable, hashable,
// orderable, and safe to copy once collection has finished.
package buffer

import (
	"hash/fnv"
	"runtime"
	"unsafe"
)

// MaxFrames bounds how many call-site addresses a StackBuffer can hold.
// Reducing it truncates deep stacks silently; raising it enlarges every
// StackBuffer, including the one each collector allocates up front for
// its request (the signal-data block itself only holds a pointer to it).
const MaxFrames = 16

// StackBuffer is a fixed-capacity, ordered sequence of call-site addresses,
// innermost frame first. Only Frames[:NumFrames] is defined.
type StackBuffer struct {
	Frames    [MaxFrames]uintptr
	NumFrames int
}

// Collect captures the calling goroutine's stack into the buffer, skipping
// skipFrames frames above Collect's own frame (so skipFrames=0 starts the
// trace at Collect's caller).
//
// This performs a local, non-signal unwind. Cross-thread collection never
// calls this method directly on the target's buffer from outside the
// target thread — see internal/trace/unwind for the signal-context path,
// which guards this call behind the unwind-safety oracle and primes
// runtime.Callers outside of signal context first.
func (b *StackBuffer) Collect(skipFrames int) {
	b.NumFrames = runtime.Callers(skipFrames+2, b.Frames[:])
}

// Reset clears the buffer so it can be reused by a new collection. The
// caller must guarantee no concurrent reader or writer.
func (b *StackBuffer) Reset() {
	b.NumFrames = 0
}

// defined returns the portion of Frames that is populated.
func (b *StackBuffer) defined() []uintptr {
	return b.Frames[:b.NumFrames]
}

// Equals reports whether two buffers have the same defined prefix.
func (b *StackBuffer) Equals(other *StackBuffer) bool {
	if b.NumFrames != other.NumFrames {
		return false
	}
	for i := 0; i < b.NumFrames; i++ {
		if b.Frames[i] != other.Frames[i] {
			return false
		}
	}
	return true
}

// Less orders buffers lexicographically over their defined prefix; a
// buffer that is a proper prefix of another sorts first.
func (b *StackBuffer) Less(other *StackBuffer) bool {
	n := b.NumFrames
	if other.NumFrames < n {
		n = other.NumFrames
	}
	for i := 0; i < n; i++ {
		if b.Frames[i] != other.Frames[i] {
			return b.Frames[i] < other.Frames[i]
		}
	}
	return b.NumFrames < other.NumFrames
}

// Hash returns a 64-bit FNV-1a content hash of the defined prefix.
//
// Hashes the raw pointer bytes rather than a formatted string, since this
// runs on every collection, not just on report generation.
func (b *StackBuffer) Hash() uint64 {
	h := fnv.New64a()
	frames := b.defined()
	if len(frames) == 0 {
		return h.Sum64()
	}
	//nolint:gosec // G103: reading the slice's own backing bytes for hashing, not aliasing foreign memory.
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&frames[0])), len(frames)*int(unsafe.Sizeof(uintptr(0))))
	_, _ = h.Write(raw)
	return h.Sum64()
}
