package sample

import (
	"bytes"
	"sync"
	"testing"
)

func TestQueueFIFO(t *testing.T) {
	q := NewQueue(3, 2, nil)

	for i := byte(1); i <= 3; i++ {
		if !q.Produce(Snapshot{i, i * 10}) {
			t.Fatalf("produce %d dropped", i)
		}
	}
	if q.Len() != 3 {
		t.Fatalf("got len %d, want 3", q.Len())
	}

	for i := byte(1); i <= 3; i++ {
		s, ok := q.TryConsume()
		if !ok {
			t.Fatalf("consume %d: no data", i)
		}
		if !bytes.Equal(s, Snapshot{i, i * 10}) {
			t.Errorf("got %v, want %v", s, Snapshot{i, i * 10})
		}
	}
}

func TestQueueFullDrops(t *testing.T) {
	q := NewQueue(2, 1, NoLock{})
	q.Produce(Snapshot{1})
	q.Produce(Snapshot{2})

	head, tail := q.head, q.tail
	if q.Produce(Snapshot{3}) {
		t.Fatal("produce into full queue succeeded")
	}
	if q.head != head || q.tail != tail || q.count != 2 {
		t.Errorf("cursors changed: head %d->%d tail %d->%d count %d", head, q.head, tail, q.tail, q.count)
	}
	if q.Dropped() != 1 {
		t.Errorf("got %d dropped, want 1", q.Dropped())
	}

	s, _ := q.TryConsume()
	if s[0] != 1 {
		t.Errorf("got %d, want 1", s[0])
	}
	s, _ = q.TryConsume()
	if s[0] != 2 {
		t.Errorf("got %d, want 2", s[0])
	}
}

func TestQueueEmpty(t *testing.T) {
	q := NewQueue(2, 1, nil)
	q.Produce(Snapshot{9})
	q.TryConsume()

	head, tail := q.head, q.tail
	if _, ok := q.TryConsume(); ok {
		t.Fatal("consume from empty queue returned data")
	}
	if q.head != head || q.tail != tail || q.count != 0 {
		t.Error("cursors changed on empty consume")
	}
}

func TestQueueWraps(t *testing.T) {
	q := NewQueue(2, 1, nil)
	for i := byte(0); i < 10; i++ {
		q.Produce(Snapshot{i})
		s, ok := q.TryConsume()
		if !ok || s[0] != i {
			t.Fatalf("round %d: got %v %v", i, s, ok)
		}
	}
}

func TestQueueConcurrent(t *testing.T) {
	q := NewQueue(3, 1, nil)
	const n = 1000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			for !q.Produce(Snapshot{byte(i)}) {
			}
		}
	}()

	for i := 0; i < n; i++ {
		var s Snapshot
		var ok bool
		for s, ok = q.TryConsume(); !ok; s, ok = q.TryConsume() {
		}
		if s[0] != byte(i) {
			t.Fatalf("got %d, want %d", s[0], byte(i))
		}
	}
	wg.Wait()
}

func TestSnapshotLinear(t *testing.T) {
	s := make(Snapshot, Columns(12, 0))
	if len(s) != 2 {
		t.Fatalf("got %d columns, want 2", len(s))
	}
	s.SetButton(3, 0, true)
	s.SetButton(9, 0, true)
	if s[0] != 0x08 || s[1] != 0x02 {
		t.Errorf("got %08b %08b", s[0], s[1])
	}
	if !s.Button(9, 0) || s.Button(8, 0) {
		t.Error("wrong button state")
	}
}

func TestSnapshotMatrix(t *testing.T) {
	const columns = 8
	s := make(Snapshot, columns)
	s.SetButton(10, columns, true) // row 1, column 2
	if s[2] != 0x02 {
		t.Errorf("got %08b, want 00000010", s[2])
	}
	if !s.Button(10, columns) {
		t.Error("button 10 not set")
	}
}

func TestEncoderPair(t *testing.T) {
	tests := []struct {
		id, columns, want int
	}{
		{0, 0, 0},
		{1, 0, 0},
		{5, 0, 2},
		{3, 8, 3},
		{11, 8, 3},
		{19, 8, 11},
	}
	for _, tt := range tests {
		if got := EncoderPair(tt.id, tt.columns); got != tt.want {
			t.Errorf("EncoderPair(%d, %d) = %d, want %d", tt.id, tt.columns, got, tt.want)
		}
	}
}

func TestEncoderPairState(t *testing.T) {
	s := make(Snapshot, 1)
	s.SetButton(2, 0, true)
	if got := s.EncoderPairState(1, 0); got != 0b10 {
		t.Errorf("linear: got %02b, want 10", got)
	}

	m := make(Snapshot, 4)
	m.SetButton(1, 4, true) // row 0, column 1
	m.SetButton(5, 4, true) // row 1, column 1
	if got := m.EncoderPairState(1, 4); got != 0b11 {
		t.Errorf("matrix: got %02b, want 11", got)
	}
}

func TestReaderHistory(t *testing.T) {
	q := NewQueue(4, 1, nil)
	r := NewReader(q, 2, 0)

	q.Produce(Snapshot{0x01})
	q.Produce(Snapshot{0x00})
	q.Produce(Snapshot{0x03})

	if n := r.Poll(); n != 3 {
		t.Fatalf("got %d snapshots, want 3", n)
	}

	count, bits, ok := r.Read(0)
	if !ok || count != 3 || bits != 0b101 {
		t.Errorf("button 0: got count %d bits %03b ok %v", count, bits, ok)
	}
	count, bits, ok = r.Read(1)
	if !ok || count != 3 || bits != 0b001 {
		t.Errorf("button 1: got count %d bits %03b ok %v", count, bits, ok)
	}

	if _, _, ok := r.Read(0); ok {
		t.Error("history not cleared after read")
	}
}
