package collector

import "testing"

func TestTriggerAsyncTwicePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic on the second TriggerAsync call")
		}
	}()
	c := New(999999) // a tid unlikely to exist; the first call errors but still flips started.
	_ = c.TriggerAsync()
	_ = c.TriggerAsync()
}

func TestAwaitCollectionBeforeTriggerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic when AwaitCollection precedes TriggerAsync")
		}
	}()
	c := New(1)
	_, _ = c.AwaitCollection(pastDeadline())
}

func TestCloseAfterFailedTriggerIsNoop(t *testing.T) {
	c := New(999999)
	_ = c.TriggerAsync()
	c.Close() // must not panic even though nothing was ever in flight.
}

func TestCloseBeforeTriggerIsNoop(t *testing.T) {
	c := New(1)
	c.Close()
}
