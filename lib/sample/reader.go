package sample

const maxReadings = 32

// Reader turns queued snapshots into per-button reading histories.
type Reader struct {
	q       *Queue
	buttons int
	columns int
	count   []uint8
	bits    []uint32
}

func NewReader(q *Queue, buttons, columns int) *Reader {
	return &Reader{
		q:       q,
		buttons: buttons,
		columns: columns,
		count:   make([]uint8, buttons),
		bits:    make([]uint32, buttons),
	}
}

// Poll drains the queue and returns the number of snapshots consumed.
func (r *Reader) Poll() int {
	n := 0
	for {
		s, ok := r.q.TryConsume()
		if !ok {
			return n
		}
		n++
		for i := 0; i < r.buttons; i++ {
			r.bits[i] <<= 1
			if s.Button(i, r.columns) {
				r.bits[i] |= 1
			}
			if r.count[i] < maxReadings {
				r.count[i]++
			}
		}
	}
}

// Read returns the pending readings for a button, newest in bit 0, and
// clears them.
func (r *Reader) Read(index int) (count uint8, bits uint32, ok bool) {
	if index >= r.buttons || r.count[index] == 0 {
		return 0, 0, false
	}
	count, bits = r.count[index], r.bits[index]
	r.count[index] = 0
	r.bits[index] = 0
	return count, bits, true
}
