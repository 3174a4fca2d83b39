package stacktrace

import (
	"strings"
	"testing"
)

func TestGetStackTraceCapturesOwnStack(t *testing.T) {
	s := GetStackTrace()
	if s.NumFrames == 0 {
		t.Fatal("expected at least one frame")
	}
}

func TestGetStackTraceHexAndLogFormatAgreeOnFrameCount(t *testing.T) {
	hex := GetStackTraceHex(512, 0)
	if hex == "" {
		t.Fatal("expected non-empty hex rendering")
	}
	logFormat := GetLogFormatStackTraceHex()
	if logFormat == "" {
		t.Fatal("expected non-empty log-format rendering")
	}
	hexFrames := len(strings.Fields(hex))
	logFrames := strings.Count(logFormat, "\n")
	if hexFrames != logFrames {
		t.Errorf("hex rendering has %d frames, log format has %d", hexFrames, logFrames)
	}
}

func TestHexStackTraceToStringRoundTrips(t *testing.T) {
	hex := GetStackTraceHex(512, 0)
	out := HexStackTraceToString(hex, stubSymbolizer{})
	if out == "" {
		t.Fatal("expected non-empty symbolized output")
	}
}

func TestHexStackTraceToStringRejectsGarbage(t *testing.T) {
	out := HexStackTraceToString("not hex", stubSymbolizer{})
	if out == "" {
		t.Fatal("expected an explanatory line rather than a panic or empty string")
	}
}

func TestGetThreadStackUnknownTIDFails(t *testing.T) {
	if _, err := GetThreadStack(1<<30, pastDeadline()); err == nil {
		t.Fatal("expected an error for a tid that cannot exist")
	}
}

type stubSymbolizer struct{}

func (stubSymbolizer) Symbolize(pc uintptr) (string, bool) {
	return "stub", true
}
