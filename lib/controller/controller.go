package controller

import (
	"context"
	"log/slog"
	"time"

	"gitlab.com/gomidi/midi/v2"

	"deckfw/lib/button"
	"deckfw/lib/config"
	"deckfw/lib/counter"
	"deckfw/lib/debounce"
	"deckfw/lib/dispatch"
	"deckfw/lib/display"
	"deckfw/lib/event"
	"deckfw/lib/leds"
	"deckfw/lib/sample"
)

const pendingOps = 256

// Source reports the instantaneous state of a physical button.
type Source interface {
	Pressed(index int) bool
}

type Deps struct {
	Out      dispatch.Transport
	LEDs     leds.Renderer
	Panel    display.Panel
	Notifier button.Notifier
	Logger   *slog.Logger
	Now      func() time.Time
}

// Controller owns the button engine and everything it feeds. Engine state is
// only touched from the goroutine calling Update or Run; other goroutines
// hand work over through HandleIncoming, Analog and Touch.
type Controller struct {
	cfg      *config.Config
	store    *config.Store
	queue    *sample.Queue
	reader   *sample.Reader
	engine   *button.Engine
	dispatch *dispatch.Dispatcher
	programs *counter.Programs
	values   *counter.Values
	leds     *leds.LEDs
	display  *display.Display
	log      *slog.Logger
	columns  int
	ops      chan func()
}

func New(cfg *config.Config, deps Deps) *Controller {
	log := deps.Logger
	if log == nil {
		log = slog.Default()
	}
	layout := button.Layout{
		Buttons:     cfg.Layout.Buttons,
		Analog:      cfg.Layout.Analog,
		Touchscreen: cfg.Layout.Touchscreen,
	}

	c := &Controller{
		cfg:      cfg,
		store:    config.NewStore(cfg),
		programs: counter.NewPrograms(),
		values:   counter.NewValues(layout.Total()),
		log:      log,
		columns:  cfg.Layout.Columns,
		ops:      make(chan func(), pendingOps),
	}
	c.queue = sample.NewQueue(cfg.Scan.BufferDepth, sample.Columns(layout.Buttons, c.columns), nil)
	c.reader = sample.NewReader(c.queue, layout.Buttons, c.columns)

	for _, r := range cfg.ProgramChange {
		c.programs.SetBounds(r.Channel-1, r.Min, r.Max)
	}

	nLEDs := cfg.Layout.LEDs
	if nLEDs == 0 {
		nLEDs = layout.Total()
	}
	c.leds = leds.New(nLEDs, deps.LEDs, log)
	c.display = display.New(deps.Panel, cfg.Display.AlternateNotes, log)

	c.dispatch = dispatch.New(deps.Out, dispatch.Options{
		LEDs:     c.leds,
		Display:  c.display,
		Programs: c.programs,
		Values:   c.values,
		Logger:   log,
	})
	c.engine = button.New(button.Options{
		Layout:        layout,
		Inputs:        c.reader,
		Filter:        debounce.New(layout.Buttons, cfg.Scan.Debounce),
		Config:        c.store,
		Presets:       c.store,
		Notifier:      deps.Notifier,
		Dispatcher:    c.dispatch,
		ReadoutPeriod: cfg.Scan.ReadoutPeriod,
		Now:           deps.Now,
		Logger:        log,
	})

	c.store.OnPresetChange(c.presetChanged)
	c.loadLEDs()
	return c
}

func (c *Controller) Queue() *sample.Queue      { return c.queue }
func (c *Controller) Engine() *button.Engine    { return c.engine }
func (c *Controller) Store() *config.Store      { return c.store }
func (c *Controller) LEDs() *leds.LEDs          { return c.leds }
func (c *Controller) Display() *display.Display { return c.display }

func (c *Controller) presetChanged(preset uint8) {
	c.log.Info("controller: preset changed", "preset", preset, "name", c.cfg.Presets[preset].Name)
	c.engine.ResetAll()
	for i := 0; i < c.engine.Layout().Total(); i++ {
		c.values.Reset(i)
	}
	c.loadLEDs()
}

func (c *Controller) loadLEDs() {
	var m []leds.Mapping
	for _, l := range c.store.LEDs() {
		m = append(m, leds.Mapping{
			Index:        l.Index,
			ActivationID: l.ActivationID,
			Channel:      l.Channel - 1,
			Control:      l.Control,
			Local:        l.Local,
		})
	}
	c.leds.SetMappings(m)
}

// Update runs one pass of the main loop: queued work from other goroutines,
// then any sampled button readings.
func (c *Controller) Update() {
drain:
	for {
		select {
		case fn := <-c.ops:
			fn()
		default:
			break drain
		}
	}
	if c.reader.Poll() > 0 {
		c.engine.Update()
	}
}

// Run calls Update every readout period until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	period := c.cfg.Scan.ReadoutPeriod
	if period <= 0 {
		period = time.Millisecond
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-c.ops:
			fn()
		case <-ticker.C:
			c.Update()
		}
	}
}

// Sample snapshots src every period into the queue until ctx is done.
// Snapshots are dropped while the queue is full.
func (c *Controller) Sample(ctx context.Context, period time.Duration, src Source) error {
	if period <= 0 {
		period = time.Millisecond
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	snap := make(sample.Snapshot, c.queue.Columns())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.SampleOnce(snap, src)
		}
	}
}

// SampleOnce captures src into snap and queues it.
func (c *Controller) SampleOnce(snap sample.Snapshot, src Source) bool {
	for i := 0; i < c.cfg.Layout.Buttons; i++ {
		snap.SetButton(i, c.columns, src.Pressed(i))
	}
	return c.queue.Produce(snap)
}

func (c *Controller) post(fn func()) {
	select {
	case c.ops <- fn:
	default:
		c.log.Warn("controller: work queue full, dropping input")
	}
}

// Analog hands an analog reading to the main loop.
func (c *Controller) Analog(index int, value uint16) {
	if index < 0 || index >= c.cfg.Layout.Analog {
		return
	}
	c.post(func() {
		c.engine.ProcessAnalog(index, c.engine.StateFromAnalog(index, value))
	})
}

// Touch hands a touchscreen press or release to the main loop.
func (c *Controller) Touch(index int, pressed bool) {
	if index < 0 || index >= c.cfg.Layout.Touchscreen {
		return
	}
	c.post(func() { c.engine.ProcessTouch(index, pressed) })
}

// HandleIncoming hands inbound MIDI to the main loop.
func (c *Controller) HandleIncoming(msg midi.Message) {
	msg = append(midi.Message(nil), msg...)
	c.post(func() { c.processIncoming(msg) })
}

func (c *Controller) processIncoming(msg midi.Message) {
	var ch, d1, d2 uint8
	switch {
	case msg.GetNoteOn(&ch, &d1, &d2):
		kind := event.NoteOn
		if d2 == 0 {
			kind = event.NoteOff
		}
		c.incoming(kind, d1, d2, ch)
	case msg.GetNoteOff(&ch, &d1, &d2):
		c.incoming(event.NoteOff, d1, d2, ch)
	case msg.GetControlChange(&ch, &d1, &d2):
		c.incoming(event.ControlChange, d1, d2, ch)
	case msg.GetProgramChange(&ch, &d1):
		c.incoming(event.ProgramChange, d1, 0, ch)
		c.programs.Set(ch, d1)
		if c.cfg.MIDI.PresetOnProgramChange {
			if err := c.store.SetPreset(d1); err != nil {
				c.log.Debug("controller: program change ignored", "program", d1, "err", err)
			}
		}
	default:
		if kind, ok := realTimeKind(msg); ok {
			c.display.Event(event.In, kind, 0, 0, 0)
		}
	}
}

func (c *Controller) incoming(kind event.Kind, data1, data2, channel uint8) {
	c.leds.MIDIToState(kind, data1, data2, channel, event.External)
	c.display.Event(event.In, kind, data1, data2, channel+1)
}

func realTimeKind(msg midi.Message) (event.Kind, bool) {
	if len(msg) != 1 {
		return 0, false
	}
	switch msg[0] {
	case 0xF8:
		return event.RealTimeClock, true
	case 0xFA:
		return event.RealTimeStart, true
	case 0xFB:
		return event.RealTimeContinue, true
	case 0xFC:
		return event.RealTimeStop, true
	case 0xFE:
		return event.RealTimeActiveSensing, true
	case 0xFF:
		return event.RealTimeSystemReset, true
	}
	return 0, false
}

// State is a point-in-time view of the controller for status reporting.
type State struct {
	Preset  uint8    `json:"preset"`
	Name    string   `json:"name"`
	Pressed []int    `json:"pressed"`
	Latched []int    `json:"latched"`
	LEDs    []int    `json:"leds"`
	Display []string `json:"display"`
	Dropped uint64   `json:"dropped"`
}

// State asks the main loop for a snapshot, so Run must be active.
func (c *Controller) State(ctx context.Context) (State, error) {
	ch := make(chan State, 1)
	c.post(func() { ch <- c.state() })
	select {
	case s := <-ch:
		return s, nil
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

func (c *Controller) state() State {
	preset := c.store.Preset()
	s := State{
		Preset:  preset,
		Name:    c.cfg.Presets[preset].Name,
		Pressed: []int{},
		Latched: []int{},
		LEDs:    []int{},
		Display: c.display.Lines(),
		Dropped: c.queue.Dropped(),
	}
	for i := 0; i < c.engine.Layout().Total(); i++ {
		if c.engine.Pressed(i) {
			s.Pressed = append(s.Pressed, i)
		}
		if c.engine.Latched(i) {
			s.Latched = append(s.Latched, i)
		}
	}
	for i := 0; i < c.leds.Len(); i++ {
		if c.leds.State(i) {
			s.LEDs = append(s.LEDs, i)
		}
	}
	return s
}
