package button

import (
	"log/slog"
	"time"

	"deckfw/lib/bitset"
	"deckfw/lib/dispatch"
	"deckfw/lib/event"
)

// Section selects a per-button configuration field.
type Section int

const (
	SectionType Section = iota
	SectionMessage
	SectionID
	SectionVelocity
	SectionChannel
)

type Inputs interface {
	Read(index int) (count uint8, bits uint32, ok bool)
}

type Filter interface {
	IsAccepted(index int, raw, candidate bool, at time.Time) bool
	Reset(index int)
}

type Config interface {
	Read(section Section, index int) uint8
}

type PresetStore interface {
	SetPreset(preset uint8) error
}

type Notifier interface {
	Notify(block event.Block, index int)
}

type Dispatcher interface {
	Send(index int, value bool, desc dispatch.Descriptor)
}

// Layout describes the flattened index space: physical buttons first, then
// buttons derived from analog inputs, then touchscreen buttons.
type Layout struct {
	Buttons     int
	Analog      int
	Touchscreen int
}

func (l Layout) Total() int { return l.Buttons + l.Analog + l.Touchscreen }

type Options struct {
	Layout        Layout
	Inputs        Inputs
	Filter        Filter
	Config        Config
	Presets       PresetStore
	Notifier      Notifier
	Dispatcher    Dispatcher
	ReadoutPeriod time.Duration
	Now           func() time.Time
	Logger        *slog.Logger

	// Analog readings at or above AnalogOn press a button, at or below
	// AnalogOff release it.
	AnalogOn  uint16
	AnalogOff uint16
}

type Engine struct {
	layout   Layout
	inputs   Inputs
	filter   Filter
	config   Config
	presets  PresetStore
	notifier Notifier
	dispatch Dispatcher
	period   time.Duration
	now      func() time.Time
	log      *slog.Logger

	analogOn  uint16
	analogOff uint16

	pressed *bitset.Set
	latched *bitset.Set
}

func New(opts Options) *Engine {
	e := &Engine{
		layout:    opts.Layout,
		inputs:    opts.Inputs,
		filter:    opts.Filter,
		config:    opts.Config,
		presets:   opts.Presets,
		notifier:  opts.Notifier,
		dispatch:  opts.Dispatcher,
		period:    opts.ReadoutPeriod,
		now:       opts.Now,
		log:       opts.Logger,
		analogOn:  opts.AnalogOn,
		analogOff: opts.AnalogOff,
		pressed:   bitset.New(opts.Layout.Total()),
		latched:   bitset.New(opts.Layout.Total()),
	}
	if e.period == 0 {
		e.period = time.Millisecond
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	if e.analogOn == 0 {
		e.analogOn = 1000
	}
	if e.analogOff == 0 {
		e.analogOff = 600
	}
	if e.notifier == nil {
		e.notifier = nopNotifier{}
	}
	return e
}

type nopNotifier struct{}

func (nopNotifier) Notify(event.Block, int) {}

func (e *Engine) Layout() Layout { return e.layout }

func (e *Engine) Pressed(index int) bool { return e.pressed.Get(index) }

func (e *Engine) Latched(index int) bool { return e.latched.Get(index) }

// Update feeds every pending reading of the physical buttons through the
// filter, oldest first, and processes the accepted states.
func (e *Engine) Update() {
	for i := 0; i < e.layout.Buttons; i++ {
		count, states, ok := e.inputs.Read(i)
		if !ok {
			continue
		}
		now := e.now()
		for reading := 0; reading < int(count); reading++ {
			pos := int(count) - 1 - reading
			at := now.Add(-e.period * time.Duration(pos))
			state := (states>>pos)&0x01 != 0
			if !e.filter.IsAccepted(i, state, state, at) {
				continue
			}
			e.ProcessEvent(i, state)
		}
	}
}

// ProcessEvent handles a debounced state for one button. Nothing happens
// unless the state differs from the last one seen.
func (e *Engine) ProcessEvent(index int, newState bool) {
	if newState == e.pressed.Get(index) {
		return
	}
	e.pressed.Set(index, newState)

	desc := dispatch.Descriptor{
		Message:  dispatch.MessageType(e.config.Read(SectionMessage, index)),
		ID:       e.config.Read(SectionID, index),
		Channel:  e.config.Read(SectionChannel, index),
		Velocity: e.config.Read(SectionVelocity, index),
	}
	configured := dispatch.Type(e.config.Read(SectionType, index))

	if desc.Message != dispatch.None {
		typ, sendMIDI := dispatch.Resolve(desc.Message, configured)
		value := newState

		if typ == dispatch.Latching {
			if newState {
				value = !e.latched.Get(index)
				e.latched.Set(index, value)
			} else {
				sendMIDI = false
			}
		}

		switch {
		case sendMIDI:
			e.log.Debug("button: dispatch", "index", index, "message", desc.Message, "value", value)
			e.dispatch.Send(index, value, desc)
		case desc.Message == dispatch.PresetChange && value:
			e.log.Info("button: preset change", "index", index, "preset", desc.ID)
			if err := e.presets.SetPreset(desc.ID); err != nil {
				e.log.Warn("button: preset change failed", "preset", desc.ID, "err", err)
			}
		}
	}

	e.notifier.Notify(event.BlockButtons, index)
}

// ProcessAnalog handles a button derived from an analog input.
func (e *Engine) ProcessAnalog(analogIndex int, state bool) {
	e.ProcessEvent(e.layout.Buttons+analogIndex, state)
}

// ProcessTouch handles a touchscreen button.
func (e *Engine) ProcessTouch(touchIndex int, state bool) {
	e.ProcessEvent(e.layout.Buttons+e.layout.Analog+touchIndex, state)
}

// StateFromAnalog converts an ADC reading to a button state with hysteresis:
// readings between the off and on thresholds keep the current state.
func (e *Engine) StateFromAnalog(analogIndex int, value uint16) bool {
	switch {
	case value >= e.analogOn:
		return true
	case value <= e.analogOff:
		return false
	}
	return e.pressed.Get(e.layout.Buttons + analogIndex)
}

// Reset forgets the state of one button, including its debounce history.
func (e *Engine) Reset(index int) {
	e.pressed.Set(index, false)
	e.latched.Set(index, false)
	if index < e.layout.Buttons {
		e.filter.Reset(index)
	}
}

func (e *Engine) ResetAll() {
	for i := 0; i < e.layout.Total(); i++ {
		e.Reset(i)
	}
}
