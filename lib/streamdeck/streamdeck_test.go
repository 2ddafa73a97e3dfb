package streamdeck

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"
)

func TestDecodeKeys(t *testing.T) {
	m := &ModelXL
	pressed := make([]bool, m.Buttons())
	buf := make([]byte, 3+m.Keys)
	buf[3+0] = 1
	buf[3+31] = 1

	if zone := m.decode(buf, pressed); zone != -1 {
		t.Errorf("got zone %d, want -1", zone)
	}
	if !pressed[0] || !pressed[31] || pressed[1] {
		t.Errorf("unexpected state %v", pressed)
	}

	buf[3+0] = 0
	m.decode(buf, pressed)
	if pressed[0] {
		t.Error("key 0 still pressed")
	}
}

func TestDecodeEncoderPush(t *testing.T) {
	m := &ModelPlus
	pressed := make([]bool, m.Buttons())

	m.decode([]byte{reportEncoder, 0, 0, encoderPush, 0, 0, 1, 0}, pressed)
	if !pressed[m.Keys+2] {
		t.Error("encoder 2 push not mapped after keys")
	}

	m.decode([]byte{reportEncoder, 0, 0, encoderRotate, 0xFF, 0, 0, 0}, pressed)
	if !pressed[m.Keys+2] || pressed[m.Keys] {
		t.Error("rotation changed push state")
	}
}

func TestDecodeTouch(t *testing.T) {
	m := &ModelPlus
	pressed := make([]bool, m.Buttons())
	buf := make([]byte, 14)
	buf[0] = reportTouch
	buf[3] = 1

	tests := []struct {
		x    uint16
		zone int
	}{
		{0, 0},
		{199, 0},
		{200, 1},
		{650, 3},
		{900, 3},
	}
	for _, tt := range tests {
		buf[5] = byte(tt.x)
		buf[6] = byte(tt.x >> 8)
		if got := m.decode(buf, pressed); got != tt.zone {
			t.Errorf("x=%d: got zone %d, want %d", tt.x, got, tt.zone)
		}
	}

	if got := ModelXL.decode(buf, pressed); got != -1 {
		t.Errorf("XL has no touch strip, got zone %d", got)
	}
}

func TestPages(t *testing.T) {
	data := bytes.Repeat([]byte{0xAA}, 25)
	p := pages(data, 10)
	if len(p) != 3 {
		t.Fatalf("got %d pages, want 3", len(p))
	}
	if p[2].index != 2 || len(p[2].chunk) != 5 || !p[2].last {
		t.Errorf("bad final page %+v", p[2])
	}
	if p[0].last || p[1].last {
		t.Error("only the final page is last")
	}
	if len(pages(nil, 10)) != 0 {
		t.Error("empty data produced pages")
	}
}

func TestRotate180(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.White)
	r := rotate180(img)
	if r.RGBAAt(1, 1) != (color.RGBA{255, 255, 255, 255}) {
		t.Error("corner not rotated")
	}
	if r.RGBAAt(0, 0).A != 0 {
		t.Error("origin not cleared")
	}
}

func TestKeyLines(t *testing.T) {
	got := keyLines([]string{"In: CC 7", "Out: Clock"})
	want := []string{"In:", "CC", "7", "Out:", "Clock"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

type touches struct {
	mu  sync.Mutex
	got []string
}

func (t *touches) touch(zone int, pressed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.got = append(t.got, fmt.Sprintf("%d:%t", zone, pressed))
}

func (t *touches) events() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.got...)
}

func TestTouchHoldRetap(t *testing.T) {
	rec := &touches{}
	h := NewTouchHold(100*time.Millisecond, rec.touch)
	defer h.Stop()

	h.Tap(3)
	time.Sleep(60 * time.Millisecond)
	h.Tap(3)
	time.Sleep(60 * time.Millisecond)

	if got := rec.events(); len(got) != 2 || got[0] != "3:true" || got[1] != "3:true" {
		t.Fatalf("got %v before the second hold expired", got)
	}

	time.Sleep(150 * time.Millisecond)
	want := []string{"3:true", "3:true", "3:false"}
	got := rec.events()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTouchHoldZonesIndependent(t *testing.T) {
	rec := &touches{}
	h := NewTouchHold(20*time.Millisecond, rec.touch)
	defer h.Stop()

	h.Tap(0)
	h.Tap(1)
	time.Sleep(100 * time.Millisecond)

	got := rec.events()
	if len(got) != 4 {
		t.Fatalf("got %v, want both zones pressed and released", got)
	}
	released := map[string]bool{}
	for _, e := range got[2:] {
		released[e] = true
	}
	if !released["0:false"] || !released["1:false"] {
		t.Errorf("got %v", got)
	}

	// A fired zone starts a fresh hold.
	h.Tap(0)
	time.Sleep(100 * time.Millisecond)
	if got := rec.events(); len(got) != 6 || got[5] != "0:false" {
		t.Errorf("got %v", got)
	}
}
