package bitset

// Set is a fixed-size packed bit array indexed by logical input id.
type Set struct {
	bits []byte
	n    int
}

func New(n int) *Set {
	return &Set{bits: make([]byte, (n+7)/8), n: n}
}

func (s *Set) Len() int { return s.n }

func (s *Set) Get(i int) bool {
	return s.bits[i/8]&(1<<(i%8)) != 0
}

func (s *Set) Set(i int, v bool) {
	if v {
		s.bits[i/8] |= 1 << (i % 8)
	} else {
		s.bits[i/8] &^= 1 << (i % 8)
	}
}

func (s *Set) ClearAll() {
	clear(s.bits)
}
