package debounce

import (
	"testing"
	"time"
)

func TestImmediateWithoutInterval(t *testing.T) {
	f := New(1, 0)
	now := time.Now()
	if !f.IsAccepted(0, true, true, now) {
		t.Error("expected immediate accept")
	}
	if f.IsAccepted(0, true, false, now) {
		t.Error("accepted candidate that differs from raw")
	}
}

func TestBounceRejected(t *testing.T) {
	f := New(2, 5*time.Millisecond)
	t0 := time.Now()
	ms := func(n int) time.Time { return t0.Add(time.Duration(n) * time.Millisecond) }

	readings := []struct {
		at   int
		raw  bool
		want bool
	}{
		{0, true, false},
		{1, false, false},
		{2, true, false},
		{4, true, false},
		{7, true, true},
		{8, true, true},
		{9, false, false},
	}
	for _, r := range readings {
		if got := f.IsAccepted(1, r.raw, r.raw, ms(r.at)); got != r.want {
			t.Errorf("t=%dms raw=%v: got %v, want %v", r.at, r.raw, got, r.want)
		}
	}
}

func TestReset(t *testing.T) {
	f := New(1, 5*time.Millisecond)
	t0 := time.Now()
	f.IsAccepted(0, true, true, t0)
	f.Reset(0)
	if f.IsAccepted(0, true, true, t0.Add(6*time.Millisecond)) {
		t.Error("history survived reset")
	}
	if !f.IsAccepted(0, true, true, t0.Add(11*time.Millisecond)) {
		t.Error("expected accept after interval")
	}
}
