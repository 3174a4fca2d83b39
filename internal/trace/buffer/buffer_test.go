package buffer

import "testing"

func mkBuffer(frames ...uintptr) *StackBuffer {
	b := &StackBuffer{}
	b.NumFrames = copy(b.Frames[:], frames)
	return b
}

func TestCollectCapturesOwnStack(t *testing.T) {
	var b StackBuffer
	func() {
		b.Collect(0)
	}()
	if b.NumFrames == 0 {
		t.Fatal("Collect() produced an empty stack")
	}
	for i := 0; i < b.NumFrames; i++ {
		if b.Frames[i] == 0 {
			t.Errorf("frame %d is nil, want a real PC", i)
		}
	}
}

func TestEqualsReflexive(t *testing.T) {
	b := mkBuffer(1, 2, 3)
	if !b.Equals(b) {
		t.Error("Equals(self) = false, want true")
	}
}

func TestEqualsDiffersOnLength(t *testing.T) {
	a := mkBuffer(1, 2)
	b := mkBuffer(1, 2, 3)
	if a.Equals(b) {
		t.Error("buffers of different length compared equal")
	}
}

func TestLessIrreflexive(t *testing.T) {
	b := mkBuffer(1, 2, 3)
	if b.Less(b) {
		t.Error("Less(self) = true, want false")
	}
}

func TestLessTransitive(t *testing.T) {
	s := mkBuffer(1, 1)
	tt := mkBuffer(1, 2)
	u := mkBuffer(2, 0)
	if !s.Less(tt) || !tt.Less(u) || !s.Less(u) {
		t.Error("Less is not transitive over this triple")
	}
}

func TestLessPrefixIsSmaller(t *testing.T) {
	short := mkBuffer(5)
	long := mkBuffer(5, 9)
	if !short.Less(long) {
		t.Error("a proper prefix should sort before the longer buffer")
	}
	if long.Less(short) {
		t.Error("the longer buffer should not sort before its own prefix")
	}
}

func TestHashStable(t *testing.T) {
	a := mkBuffer(0xdead, 0xbeef)
	b := mkBuffer(0xdead, 0xbeef)
	if a.Hash() != b.Hash() {
		t.Error("equal prefixes hashed differently")
	}
}

func TestHashIgnoresTrailingGarbage(t *testing.T) {
	a := mkBuffer(1, 2)
	b := &StackBuffer{}
	b.Frames[0], b.Frames[1] = 1, 2
	b.Frames[2] = 0xff // garbage beyond NumFrames must not affect the hash.
	b.NumFrames = 2
	if a.Hash() != b.Hash() {
		t.Error("hash depends on bytes beyond the defined prefix")
	}
}

func TestResetClearsLength(t *testing.T) {
	b := mkBuffer(1, 2, 3)
	b.Reset()
	if b.NumFrames != 0 {
		t.Errorf("NumFrames after Reset() = %d, want 0", b.NumFrames)
	}
}
