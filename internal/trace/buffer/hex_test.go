package buffer

import "testing"

func TestParseHexRoundTrip(t *testing.T) {
	b := mkBuffer(0x1000, 0x2000, 0x3000)
	hex := b.StringifyHex(256, 0)

	parsed, err := ParseHex(hex)
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if parsed.NumFrames != b.NumFrames {
		t.Fatalf("NumFrames = %d, want %d", parsed.NumFrames, b.NumFrames)
	}
	// StringifyHex applied the caller-address correction, so the parsed
	// frames are the corrected addresses, not the originals.
	for i := 0; i < b.NumFrames; i++ {
		want := b.Frames[i] - 1
		if parsed.Frames[i] != want {
			t.Errorf("frame %d = %#x, want %#x", i, parsed.Frames[i], want)
		}
	}
}

func TestParseHexZeroXPrefix(t *testing.T) {
	b := mkBuffer(0x4000)
	hex := b.StringifyHex(256, HexZeroXPrefix)

	parsed, err := ParseHex(hex)
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if parsed.NumFrames != 1 || parsed.Frames[0] != 0x4000-1 {
		t.Fatalf("got %+v", parsed)
	}
}

func TestParseHexRejectsGarbage(t *testing.T) {
	if _, err := ParseHex("not-hex-at-all"); err == nil {
		t.Fatal("expected error parsing non-hex text")
	}
}

func TestParseHexTruncatesAtMaxFrames(t *testing.T) {
	hex := ""
	for i := 0; i < MaxFrames+5; i++ {
		if i != 0 {
			hex += " "
		}
		hex += "0000000000000001"
	}
	parsed, err := ParseHex(hex)
	if err != nil {
		t.Fatalf("ParseHex: %v", err)
	}
	if parsed.NumFrames != MaxFrames {
		t.Fatalf("NumFrames = %d, want %d", parsed.NumFrames, MaxFrames)
	}
}
