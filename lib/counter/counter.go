package counter

import "sync"

const (
	Channels = 16
	MaxValue = 127
)

// Policy decides what Values.Increment does once a value would pass MaxValue.
type Policy int

const (
	PolicyReset Policy = iota
	PolicyEdge
)

// Programs tracks the current program per MIDI channel within configurable
// bounds.
type Programs struct {
	mu  sync.Mutex
	cur [Channels]uint8
	min [Channels]uint8
	max [Channels]uint8
}

func NewPrograms() *Programs {
	p := &Programs{}
	for ch := range p.max {
		p.max[ch] = MaxValue
	}
	return p
}

// SetBounds sets the inclusive program range for a channel and clamps the
// current value into it.
func (p *Programs) SetBounds(channel, lo, hi uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if hi > MaxValue {
		hi = MaxValue
	}
	if lo > hi {
		lo = hi
	}
	p.min[channel], p.max[channel] = lo, hi
	p.cur[channel] = clamp(p.cur[channel], lo, hi)
}

func (p *Programs) Current(channel uint8) uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cur[channel]
}

func (p *Programs) Set(channel, program uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cur[channel] = clamp(program, p.min[channel], p.max[channel])
}

// Increment reports whether the program actually moved.
func (p *Programs) Increment(channel uint8) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cur[channel] >= p.max[channel] {
		return false
	}
	p.cur[channel]++
	return true
}

func (p *Programs) Decrement(channel uint8) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cur[channel] <= p.min[channel] {
		return false
	}
	p.cur[channel]--
	return true
}

func clamp(v, lo, hi uint8) uint8 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Values is the per-input accumulator behind multi-value buttons.
type Values struct {
	mu   sync.Mutex
	vals []uint8
	down []bool
}

func NewValues(n int) *Values {
	return &Values{vals: make([]uint8, n), down: make([]bool, n)}
}

func (v *Values) Current(index int) uint8 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vals[index]
}

func (v *Values) Increment(index int, step uint8, policy Policy) uint8 {
	v.mu.Lock()
	defer v.mu.Unlock()
	next := int(v.vals[index]) + int(step)
	if next > MaxValue {
		switch policy {
		case PolicyEdge:
			next = MaxValue
		default:
			next = 0
		}
	}
	v.vals[index] = uint8(next)
	return v.vals[index]
}

// IncDec moves the value by step, reversing direction whenever it reaches
// either end of the 7-bit range.
func (v *Values) IncDec(index int, step uint8) uint8 {
	v.mu.Lock()
	defer v.mu.Unlock()
	next := int(v.vals[index])
	if v.down[index] {
		next -= int(step)
		if next <= 0 {
			next = 0
			v.down[index] = false
		}
	} else {
		next += int(step)
		if next >= MaxValue {
			next = MaxValue
			v.down[index] = true
		}
	}
	v.vals[index] = uint8(next)
	return v.vals[index]
}

func (v *Values) Reset(index int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.vals[index] = 0
	v.down[index] = false
}
