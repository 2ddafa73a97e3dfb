package leds

import (
	"fmt"
	"log/slog"

	"deckfw/lib/bitset"
	"deckfw/lib/event"
)

// Control selects which MIDI messages drive an LED.
type Control uint8

const (
	ControlNote Control = iota
	ControlCC
	ControlProgram
)

var controlNames = [...]string{"note", "cc", "program"}

func (c Control) String() string {
	if int(c) < len(controlNames) {
		return controlNames[c]
	}
	return fmt.Sprintf("Control(%d)", uint8(c))
}

func (c Control) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Control) UnmarshalText(text []byte) error {
	for i, name := range controlNames {
		if name == string(text) {
			*c = Control(i)
			return nil
		}
	}
	return fmt.Errorf("leds: unknown control %q", text)
}

// Mapping binds one LED to a MIDI message. Local LEDs follow what this
// device sends, the others follow MIDI in.
type Mapping struct {
	Index        int
	ActivationID uint8
	Channel      uint8
	Control      Control
	Local        bool
}

type Renderer interface {
	SetLED(index int, on bool) error
}

type LEDs struct {
	r        Renderer
	log      *slog.Logger
	state    *bitset.Set
	mappings []Mapping
}

func New(n int, r Renderer, logger *slog.Logger) *LEDs {
	if logger == nil {
		logger = slog.Default()
	}
	return &LEDs{r: r, log: logger, state: bitset.New(n)}
}

func (l *LEDs) State(index int) bool { return l.state.Get(index) }

func (l *LEDs) Len() int { return l.state.Len() }

// SetMappings replaces the LED table and turns every LED off.
func (l *LEDs) SetMappings(m []Mapping) {
	l.mappings = m
	for i := 0; i < l.state.Len(); i++ {
		l.render(i, false, true)
	}
}

func (l *LEDs) MIDIToState(kind event.Kind, data1, data2, channel uint8, src event.Source) {
	for _, m := range l.mappings {
		if m.Local != (src == event.Internal) || m.Channel != channel {
			continue
		}
		switch {
		case m.Control == ControlNote && (kind == event.NoteOn || kind == event.NoteOff):
			if data1 == m.ActivationID {
				l.render(m.Index, kind == event.NoteOn && data2 > 0, false)
			}
		case m.Control == ControlCC && kind == event.ControlChange:
			if data1 == m.ActivationID {
				l.render(m.Index, data2 > 0, false)
			}
		case m.Control == ControlProgram && kind == event.ProgramChange:
			l.render(m.Index, data1 == m.ActivationID, false)
		}
	}
}

func (l *LEDs) render(index int, on, force bool) {
	if index >= l.state.Len() {
		return
	}
	if !force && l.state.Get(index) == on {
		return
	}
	if l.r != nil {
		if err := l.r.SetLED(index, on); err != nil {
			l.log.Debug("leds: render failed", "led", index, "err", err)
			return
		}
	}
	l.state.Set(index, on)
}
