package buffer

import (
	"fmt"
	"strconv"
	"strings"
)

// HexFlags controls the rendering performed by StringifyHex.
type HexFlags uint8

const (
	// HexZeroXPrefix prepends "0x" to each rendered address.
	HexZeroXPrefix HexFlags = 1 << iota
	// NoFixCallerAddresses disables the "address-1" caller correction.
	// Return addresses point at the instruction after the call, so by
	// default every non-zero address is decremented by one before
	// printing; this flag turns that off.
	NoFixCallerAddresses
)

const hexEntryLength = 16 // 16 lowercase hex digits per frame, fixed width.

// correctedAddr applies the caller-address fix-up: every non-zero frame
// address is decremented by one unless the caller asked us not to,
// because a return address points one instruction past the call that
// produced it.
func correctedAddr(addr uintptr, flags HexFlags) uintptr {
	if addr != 0 && flags&NoFixCallerAddresses == 0 {
		return addr - 1
	}
	return addr
}

// StringifyHex renders the defined prefix as space-separated 16-hex-digit
// addresses into a string no longer than maxLen bytes including the slack
// a fixed C buffer would reserve for its NUL terminator; Go callers get a
// plain string instead of a fixed buffer, but the length cap and
// truncation-on-overflow behavior are unchanged.
func (b *StackBuffer) StringifyHex(maxLen int, flags HexFlags) string {
	var buf strings.Builder
	entryLen := hexEntryLength
	if flags&HexZeroXPrefix != 0 {
		entryLen += 2
	}
	limit := maxLen - entryLen - 2 // room for a leading separator and NUL-equivalent slack.
	for i := 0; i < b.NumFrames; i++ {
		if buf.Len() > limit {
			break
		}
		if i != 0 {
			buf.WriteByte(' ')
		}
		if flags&HexZeroXPrefix != 0 {
			buf.WriteString("0x")
		}
		fmt.Fprintf(&buf, "%016x", correctedAddr(b.Frames[i], flags))
	}
	return buf.String()
}

// ParseHex parses the output of StringifyHex back into a StackBuffer.
// Addresses are stored exactly as parsed, including whatever caller-
// address correction StringifyHex applied, since ParseHex has no way to
// know which flags produced the text it is given.
func ParseHex(hex string) (*StackBuffer, error) {
	var b StackBuffer
	fields := strings.Fields(hex)
	if len(fields) > MaxFrames {
		fields = fields[:MaxFrames]
	}
	for i, f := range fields {
		f = strings.TrimPrefix(f, "0x")
		addr, err := strconv.ParseUint(f, 16, 64)
		if err != nil {
			return nil, fmt.Errorf("threadstack: parse hex stack trace frame %d %q: %w", i, f, err)
		}
		b.Frames[i] = uintptr(addr)
	}
	b.NumFrames = len(fields)
	return &b, nil
}

// Symbolizer resolves a program counter to a human-readable symbol,
// supplied by the caller rather than implemented here.
type Symbolizer interface {
	Symbolize(pc uintptr) (symbol string, ok bool)
}

// Symbolize renders one "    @ <ptr>  <symbol>" line per frame, using sym
// to resolve each frame's caller-corrected address. Frames that fail to
// resolve, or whose address is zero, render as "(unknown)".
func (b *StackBuffer) Symbolize(sym Symbolizer) string {
	var buf strings.Builder
	for i := 0; i < b.NumFrames; i++ {
		addr := b.Frames[i]
		corrected := correctedAddr(addr, 0)
		symbol := "(unknown)"
		if addr != 0 {
			if s, ok := sym.Symbolize(corrected); ok {
				symbol = s
			}
		}
		fmt.Fprintf(&buf, "    @ %#016x  %s\n", addr, symbol)
	}
	return buf.String()
}

// ToLogHex renders the same per-frame layout as Symbolize but without a
// symbol column, for contexts where symbolization is unavailable or too
// slow (e.g. a logging hot path).
func (b *StackBuffer) ToLogHex() string {
	var buf strings.Builder
	for i := 0; i < b.NumFrames; i++ {
		fmt.Fprintf(&buf, "    @ %#016x\n", b.Frames[i])
	}
	return buf.String()
}
