package streamdeck

import (
	"sync"
	"time"
)

// TouchHold turns LCD taps, which have no release report, into presses held
// for a fixed time. Tapping a zone that is still held extends its hold.
type TouchHold struct {
	hold  time.Duration
	touch func(zone int, pressed bool)

	mu    sync.Mutex
	zones map[int]*heldZone
}

type heldZone struct {
	timer *time.Timer
	gen   uint64
}

func NewTouchHold(hold time.Duration, touch func(zone int, pressed bool)) *TouchHold {
	return &TouchHold{
		hold:  hold,
		touch: touch,
		zones: map[int]*heldZone{},
	}
}

func (h *TouchHold) Tap(zone int) {
	h.touch(zone, true)

	h.mu.Lock()
	defer h.mu.Unlock()
	z := h.zones[zone]
	if z == nil {
		z = &heldZone{}
		h.zones[zone] = z
	}
	if z.timer != nil && z.timer.Stop() {
		z.timer.Reset(h.hold)
		return
	}
	// The previous release already fired or is firing; a stale one must not
	// release this tap.
	z.gen++
	gen := z.gen
	z.timer = time.AfterFunc(h.hold, func() { h.release(zone, gen) })
}

func (h *TouchHold) release(zone int, gen uint64) {
	h.mu.Lock()
	z := h.zones[zone]
	current := z != nil && z.gen == gen
	if current {
		z.timer = nil
	}
	h.mu.Unlock()
	if current {
		h.touch(zone, false)
	}
}

// Stop cancels pending releases.
func (h *TouchHold) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for zone, z := range h.zones {
		if z.timer != nil {
			z.timer.Stop()
		}
		delete(h.zones, zone)
	}
}
