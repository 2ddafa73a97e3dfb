package xtouch

import (
	"sync"

	"gitlab.com/gomidi/midi/v2"
)

// Surface keeps button state for a periodic sampler and forwards analog and
// touch inputs as they arrive.
type Surface struct {
	OnAnalog func(index int, value uint16)
	OnTouch  func(index int, touched bool)

	mu      sync.Mutex
	pressed [Buttons]bool
}

func NewSurface() *Surface {
	return &Surface{}
}

// Handle applies one inbound message and returns the input it decoded to.
func (s *Surface) Handle(msg midi.Message) (Input, bool) {
	in, ok := Decode(msg)
	if !ok {
		return in, false
	}
	switch in.Kind {
	case KindButton:
		s.mu.Lock()
		s.pressed[in.Index] = in.Pressed
		s.mu.Unlock()
	case KindAnalog:
		if s.OnAnalog != nil {
			s.OnAnalog(in.Index, in.Value)
		}
	case KindTouch:
		if s.OnTouch != nil {
			s.OnTouch(in.Index, in.Pressed)
		}
	}
	return in, true
}

func (s *Surface) Pressed(index int) bool {
	if index < 0 || index >= Buttons {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pressed[index]
}
