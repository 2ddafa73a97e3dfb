package display

import (
	"image/color"
	"testing"

	"deckfw/lib/event"
)

type fakePanel struct{ shown [][]string }

func (p *fakePanel) ShowLines(lines []string) error {
	p.shown = append(p.shown, lines)
	return nil
}

func TestFormat(t *testing.T) {
	tests := []struct {
		kind      event.Kind
		d1, d2    uint8
		ch        uint8
		alternate bool
		want      string
	}{
		{event.NoteOn, 60, 100, 1, false, "Note On 60 v100 CH1"},
		{event.NoteOn, 60, 100, 1, true, "Note On C4 v100 CH1"},
		{event.NoteOff, 61, 0, 16, true, "Note Off C#4 v0 CH16"},
		{event.ControlChange, 7, 90, 2, false, "CC 7 v90 CH2"},
		{event.ProgramChange, 12, 0, 3, false, "Program 12 CH3"},
		{event.MMCRecordOn, 127, 0, 0, false, "MMC Rec On ID127"},
		{event.RealTimeStart, 0, 0, 0, false, "Start"},
	}
	for _, tt := range tests {
		if got := Format(tt.kind, tt.d1, tt.d2, tt.ch, tt.alternate); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestNoteName(t *testing.T) {
	if got := NoteName(0); got != "C-1" {
		t.Errorf("got %q, want C-1", got)
	}
	if got := NoteName(127); got != "G9" {
		t.Errorf("got %q, want G9", got)
	}
}

func TestEventUpdatesPanel(t *testing.T) {
	p := &fakePanel{}
	d := New(p, false, nil)

	d.Event(event.Out, event.NoteOn, 60, 100, 1)
	d.Event(event.In, event.ControlChange, 1, 2, 3)

	if len(p.shown) != 2 {
		t.Fatalf("got %d panel updates, want 2", len(p.shown))
	}
	last := p.shown[1]
	if last[0] != "In: CC 1 v2 CH3" || last[1] != "Out: Note On 60 v100 CH1" {
		t.Errorf("got %q", last)
	}
}

func TestRender(t *testing.T) {
	img := Render(96, 96, color.Black, color.White, "Note On", "C4")
	if img.Bounds().Dx() != 96 || img.Bounds().Dy() != 96 {
		t.Fatalf("got bounds %v", img.Bounds())
	}
	lit := 0
	for y := 0; y < 96; y++ {
		for x := 0; x < 96; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r > 0 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("no text drawn")
	}
}
