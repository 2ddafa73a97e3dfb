package debounce

import "time"

type history struct {
	seen  bool
	raw   bool
	since time.Time
}

// Filter accepts a candidate state once the raw input has held that value
// for at least Interval.
type Filter struct {
	Interval time.Duration
	hist     []history
}

func New(n int, interval time.Duration) *Filter {
	return &Filter{Interval: interval, hist: make([]history, n)}
}

func (f *Filter) IsAccepted(index int, raw, candidate bool, at time.Time) bool {
	h := &f.hist[index]
	if !h.seen || h.raw != raw {
		h.seen = true
		h.raw = raw
		h.since = at
	}
	if raw != candidate {
		return false
	}
	return at.Sub(h.since) >= f.Interval
}

func (f *Filter) Reset(index int) {
	f.hist[index] = history{}
}
