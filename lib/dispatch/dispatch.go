package dispatch

import (
	"log/slog"

	"deckfw/lib/counter"
	"deckfw/lib/event"
)

// Transport writes MIDI. Implementations must not retain the SysEx slice.
type Transport interface {
	SendNoteOn(note, velocity, channel uint8) error
	SendNoteOff(note, velocity, channel uint8) error
	SendControlChange(controller, value, channel uint8) error
	SendProgramChange(program, channel uint8) error
	SendSysEx(data []byte, final bool) error
	SendRealTime(kind event.Kind) error
	NoteOffAsNoteOn() bool
}

type LEDs interface {
	MIDIToState(kind event.Kind, data1, data2, channel uint8, src event.Source)
}

type Display interface {
	Event(dir event.Direction, kind event.Kind, data1, data2, channel uint8)
}

type ProgramCounter interface {
	Increment(channel uint8) bool
	Decrement(channel uint8) bool
	Current(channel uint8) uint8
}

type Accumulator interface {
	Current(index int) uint8
	Increment(index int, step uint8, policy counter.Policy) uint8
	IncDec(index int, step uint8) uint8
}

type Options struct {
	LEDs     LEDs
	Display  Display
	Programs ProgramCounter
	Values   Accumulator
	Logger   *slog.Logger
}

const (
	mmcCommandStop        = 0x01
	mmcCommandPlay        = 0x02
	mmcCommandRecordStart = 0x06
	mmcCommandRecordStop  = 0x07
	mmcCommandPause       = 0x09
)

// Dispatcher turns a resolved button event into MIDI and feedback.
type Dispatcher struct {
	out      Transport
	leds     LEDs
	display  Display
	programs ProgramCounter
	values   Accumulator
	log      *slog.Logger

	// mmc is rewritten in place for every transport command: byte 2 carries
	// the device id, byte 4 the command.
	mmc [6]byte
}

func New(out Transport, opts Options) *Dispatcher {
	d := &Dispatcher{
		out:      out,
		leds:     opts.LEDs,
		display:  opts.Display,
		programs: opts.Programs,
		values:   opts.Values,
		log:      opts.Logger,
		mmc:      [6]byte{0xF0, 0x7F, 0x7F, 0x06, 0x00, 0xF7},
	}
	if d.leds == nil {
		d.leds = nopLEDs{}
	}
	if d.display == nil {
		d.display = nopDisplay{}
	}
	if d.programs == nil {
		d.programs = counter.NewPrograms()
	}
	if d.log == nil {
		d.log = slog.Default()
	}
	return d
}

type action func(d *Dispatcher, index int, desc Descriptor)

type actions struct {
	press   action
	release action
}

var table = [messageTypeCount]actions{
	Note:                  {press: (*Dispatcher).noteOn, release: (*Dispatcher).noteOff},
	ProgramChange:         {press: (*Dispatcher).programChange},
	ProgramChangeInc:      {press: (*Dispatcher).programChangeInc},
	ProgramChangeDec:      {press: (*Dispatcher).programChangeDec},
	ControlChange:         {press: (*Dispatcher).controlChange},
	ControlChangeReset:    {press: (*Dispatcher).controlChange, release: (*Dispatcher).controlChangeZero},
	MMCPlay:               {press: mmc(mmcCommandPlay, event.MMCPlay)},
	MMCStop:               {press: mmc(mmcCommandStop, event.MMCStop)},
	MMCPause:              {press: mmc(mmcCommandPause, event.MMCPause)},
	MMCRecord:             {press: mmc(mmcCommandRecordStart, event.MMCRecordOn), release: mmc(mmcCommandRecordStop, event.MMCRecordOff)},
	RealTimeClock:         {press: realTime(event.RealTimeClock)},
	RealTimeStart:         {press: realTime(event.RealTimeStart)},
	RealTimeContinue:      {press: realTime(event.RealTimeContinue)},
	RealTimeStop:          {press: realTime(event.RealTimeStop)},
	RealTimeActiveSensing: {press: realTime(event.RealTimeActiveSensing)},
	RealTimeSystemReset:   {press: realTime(event.RealTimeSystemReset)},
	MultiValIncResetNote:  {press: multiVal(false, incReset)},
	MultiValIncDecNote:    {press: multiVal(false, incDec)},
	MultiValIncResetCC:    {press: multiVal(true, incReset)},
	MultiValIncDecCC:      {press: multiVal(true, incDec)},
}

// Send runs the press or release action configured for the descriptor's
// message type. Message types without an action for that edge do nothing.
func (d *Dispatcher) Send(index int, value bool, desc Descriptor) {
	if !desc.Message.Valid() {
		return
	}
	a := table[desc.Message].release
	if value {
		a = table[desc.Message].press
	}
	if a != nil {
		a(d, index, desc)
	}
}

func (d *Dispatcher) sent(err error, what string, desc Descriptor) bool {
	if err != nil {
		d.log.Debug("dispatch: send failed", "message", what, "id", desc.ID, "channel", desc.Channel, "err", err)
		return false
	}
	return true
}

func (d *Dispatcher) sendNoteOn(note, velocity uint8, desc Descriptor) {
	if !d.sent(d.out.SendNoteOn(note, velocity, desc.Channel), "note on", desc) {
		return
	}
	d.display.Event(event.Out, event.NoteOn, note, velocity, desc.Channel+1)
	d.leds.MIDIToState(event.NoteOn, note, velocity, desc.Channel, event.Internal)
}

// sendNoteOff reports shown as the display kind; the LEDs always see a note
// off.
func (d *Dispatcher) sendNoteOff(note uint8, shown event.Kind, desc Descriptor) {
	if !d.sent(d.out.SendNoteOff(note, 0, desc.Channel), "note off", desc) {
		return
	}
	d.display.Event(event.Out, shown, note, 0, desc.Channel+1)
	d.leds.MIDIToState(event.NoteOff, note, 0, desc.Channel, event.Internal)
}

func (d *Dispatcher) sendControlChange(value uint8, desc Descriptor) {
	if !d.sent(d.out.SendControlChange(desc.ID, value, desc.Channel), "control change", desc) {
		return
	}
	d.display.Event(event.Out, event.ControlChange, desc.ID, value, desc.Channel+1)
	d.leds.MIDIToState(event.ControlChange, desc.ID, value, desc.Channel, event.Internal)
}

func (d *Dispatcher) sendProgramChange(program uint8, desc Descriptor) {
	if !d.sent(d.out.SendProgramChange(program, desc.Channel), "program change", desc) {
		return
	}
	d.leds.MIDIToState(event.ProgramChange, program, 0, desc.Channel, event.Internal)
	d.display.Event(event.Out, event.ProgramChange, program, 0, desc.Channel+1)
}

func (d *Dispatcher) noteOn(_ int, desc Descriptor) { d.sendNoteOn(desc.ID, desc.Velocity, desc) }

// noteOff shows the release the way the transport puts it on the wire.
func (d *Dispatcher) noteOff(_ int, desc Descriptor) {
	kind := event.NoteOff
	if d.out.NoteOffAsNoteOn() {
		kind = event.NoteOn
	}
	d.sendNoteOff(desc.ID, kind, desc)
}

func (d *Dispatcher) controlChange(_ int, desc Descriptor) { d.sendControlChange(desc.Velocity, desc) }

func (d *Dispatcher) controlChangeZero(_ int, desc Descriptor) { d.sendControlChange(0, desc) }

func (d *Dispatcher) programChange(_ int, desc Descriptor) { d.sendProgramChange(desc.ID, desc) }

func (d *Dispatcher) programChangeInc(_ int, desc Descriptor) {
	if !d.programs.Increment(desc.Channel) {
		return
	}
	d.sendProgramChange(d.programs.Current(desc.Channel), desc)
}

func (d *Dispatcher) programChangeDec(_ int, desc Descriptor) {
	if !d.programs.Decrement(desc.Channel) {
		return
	}
	d.sendProgramChange(d.programs.Current(desc.Channel), desc)
}

func mmc(command uint8, kind event.Kind) action {
	return func(d *Dispatcher, _ int, desc Descriptor) {
		d.mmc[2] = desc.ID
		d.mmc[4] = command
		if !d.sent(d.out.SendSysEx(d.mmc[:], true), "mmc", desc) {
			return
		}
		d.display.Event(event.Out, kind, d.mmc[2], 0, 0)
	}
}

func realTime(kind event.Kind) action {
	return func(d *Dispatcher, _ int, desc Descriptor) {
		if !d.sent(d.out.SendRealTime(kind), kind.String(), desc) {
			return
		}
		d.display.Event(event.Out, kind, 0, 0, 0)
	}
}

type stepFunc func(values Accumulator, index int, step uint8) uint8

func incReset(values Accumulator, index int, step uint8) uint8 {
	return values.Increment(index, step, counter.PolicyReset)
}

func incDec(values Accumulator, index int, step uint8) uint8 {
	return values.IncDec(index, step)
}

// multiVal advances the accumulator by the configured velocity and sends the
// new value only if it differs from the previous one.
func multiVal(cc bool, next stepFunc) action {
	return func(d *Dispatcher, index int, desc Descriptor) {
		if d.values == nil {
			return
		}
		current := d.values.Current(index)
		value := next(d.values, index, desc.Velocity)
		if value == current {
			return
		}
		switch {
		case cc:
			d.sendControlChange(value, desc)
		case value == 0:
			d.sendNoteOff(desc.ID, event.NoteOff, desc)
		default:
			d.sendNoteOn(desc.ID, value, desc)
		}
	}
}

type nopLEDs struct{}

func (nopLEDs) MIDIToState(event.Kind, uint8, uint8, uint8, event.Source) {}

type nopDisplay struct{}

func (nopDisplay) Event(event.Direction, event.Kind, uint8, uint8, uint8) {}
