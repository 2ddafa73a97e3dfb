package sample

import (
	"sync"
	"sync/atomic"
)

// Snapshot holds one scan of every input column, one bit per input line.
type Snapshot []byte

// NoLock is the exclusive-access primitive for single-threaded setups where
// producer and consumer never run concurrently.
type NoLock struct{}

func (NoLock) Lock()   {}
func (NoLock) Unlock() {}

// Queue is a fixed-depth circular buffer of snapshots. One producer writes
// scans from timer context, the main loop drains them.
//
// Both cursors advance before the slot they govern is touched: head is
// incremented and then written, tail is incremented and then read.
type Queue struct {
	mu       sync.Locker
	buf      []Snapshot
	readOnly Snapshot
	head     int
	tail     int
	count    int
	dropped  atomic.Uint64
}

func NewQueue(depth, columns int, lock sync.Locker) *Queue {
	if depth < 1 {
		depth = 1
	}
	if lock == nil {
		lock = &sync.Mutex{}
	}
	q := &Queue{
		mu:       lock,
		buf:      make([]Snapshot, depth),
		readOnly: make(Snapshot, columns),
	}
	for i := range q.buf {
		q.buf[i] = make(Snapshot, columns)
	}
	return q
}

func (q *Queue) Depth() int      { return len(q.buf) }
func (q *Queue) Columns() int    { return len(q.readOnly) }
func (q *Queue) Dropped() uint64 { return q.dropped.Load() }

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Produce stores a copy of s. When the queue is full the sample is dropped
// and false is returned; the buffered samples are left untouched.
func (q *Queue) Produce(s Snapshot) bool {
	q.mu.Lock()
	if q.count == len(q.buf) {
		q.mu.Unlock()
		q.dropped.Add(1)
		return false
	}
	q.head++
	if q.head == len(q.buf) {
		q.head = 0
	}
	copy(q.buf[q.head], s)
	q.count++
	q.mu.Unlock()
	return true
}

// TryConsume returns the oldest buffered snapshot. The returned slice is the
// queue's read-only copy and stays valid until the next TryConsume call.
func (q *Queue) TryConsume() (Snapshot, bool) {
	q.mu.Lock()
	if q.count == 0 {
		q.mu.Unlock()
		return nil, false
	}
	q.tail++
	if q.tail == len(q.buf) {
		q.tail = 0
	}
	copy(q.readOnly, q.buf[q.tail])
	q.count--
	q.mu.Unlock()
	return q.readOnly, true
}
