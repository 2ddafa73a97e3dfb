package counter

import "testing"

func TestProgramsBounds(t *testing.T) {
	p := NewPrograms()
	p.SetBounds(2, 10, 12)

	if got := p.Current(2); got != 10 {
		t.Fatalf("got %d, want 10 after clamping to bounds", got)
	}
	if !p.Increment(2) || !p.Increment(2) {
		t.Fatal("increment within bounds reported unchanged")
	}
	if p.Increment(2) {
		t.Error("increment at upper bound reported changed")
	}
	if got := p.Current(2); got != 12 {
		t.Errorf("got %d, want 12", got)
	}

	p.Set(2, 10)
	if p.Decrement(2) {
		t.Error("decrement at lower bound reported changed")
	}

	if p.Current(0) != 0 {
		t.Error("other channel affected")
	}
}

func TestProgramsDefaultRange(t *testing.T) {
	p := NewPrograms()
	p.Set(0, 127)
	if p.Increment(0) {
		t.Error("increment past 127")
	}
	p.Set(0, 0)
	if p.Decrement(0) {
		t.Error("decrement below 0")
	}
}

func TestValuesIncrement(t *testing.T) {
	tests := []struct {
		name   string
		step   uint8
		policy Policy
		want   []uint8
	}{
		{"reset", 50, PolicyReset, []uint8{50, 100, 0, 50}},
		{"reset exact", 64, PolicyReset, []uint8{64, 0, 64}},
		{"edge", 50, PolicyEdge, []uint8{50, 100, 127, 127}},
		{"zero step", 0, PolicyReset, []uint8{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValues(1)
			for i, want := range tt.want {
				if got := v.Increment(0, tt.step, tt.policy); got != want {
					t.Fatalf("step %d: got %d, want %d", i, got, want)
				}
			}
		})
	}
}

func TestValuesIncDec(t *testing.T) {
	v := NewValues(2)
	want := []uint8{50, 100, 127, 77, 27, 0, 50}
	for i, w := range want {
		if got := v.IncDec(1, 50); got != w {
			t.Fatalf("step %d: got %d, want %d", i, got, w)
		}
	}
	if v.Current(0) != 0 {
		t.Error("other index affected")
	}

	v.Reset(1)
	if v.Current(1) != 0 {
		t.Error("reset did not clear value")
	}
	if got := v.IncDec(1, 10); got != 10 {
		t.Errorf("got %d, want 10 after reset", got)
	}
}
