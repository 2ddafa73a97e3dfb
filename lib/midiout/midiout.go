package midiout

import (
	"errors"
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"go.bug.st/serial"

	"deckfw/lib/event"
)

const DINBaud = 31250

type Output struct {
	send            func(msg midi.Message) error
	noteOffAsNoteOn bool
	sysex           []byte
}

func New(send func(msg midi.Message) error) *Output {
	return &Output{send: send}
}

func NewPort(port drivers.Out) (*Output, error) {
	send, err := midi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("midiout: open output port: %w", err)
	}
	return New(send), nil
}

// NewSerial opens a UART for DIN MIDI.
func NewSerial(device string, baud int) (*Output, func() error, error) {
	if baud == 0 {
		baud = DINBaud
	}
	p, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, nil, fmt.Errorf("midiout: open serial %s: %w", device, err)
	}
	out := New(func(msg midi.Message) error {
		_, err := p.Write(msg.Bytes())
		return err
	})
	return out, p.Close, nil
}

// Multi sends every message to all outputs, like USB and DIN at once.
func Multi(outs ...*Output) *Output {
	return New(func(msg midi.Message) error {
		var errs []error
		for _, o := range outs {
			if err := o.send(msg); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
}

// SetNoteOffAsNoteOn makes note off go out as note on with velocity 0.
func (o *Output) SetNoteOffAsNoteOn(v bool) { o.noteOffAsNoteOn = v }

func (o *Output) NoteOffAsNoteOn() bool { return o.noteOffAsNoteOn }

func (o *Output) SendNoteOn(note, velocity, channel uint8) error {
	return o.send(midi.NoteOn(channel, note, velocity))
}

func (o *Output) SendNoteOff(note, velocity, channel uint8) error {
	if o.noteOffAsNoteOn {
		return o.send(midi.NoteOn(channel, note, 0))
	}
	return o.send(midi.NoteOffVelocity(channel, note, velocity))
}

func (o *Output) SendControlChange(controller, value, channel uint8) error {
	return o.send(midi.ControlChange(channel, controller, value))
}

func (o *Output) SendProgramChange(program, channel uint8) error {
	return o.send(midi.ProgramChange(channel, program))
}

// SendSysEx takes a framed message (F0 ... F7). Fragments are collected
// until final is set.
func (o *Output) SendSysEx(data []byte, final bool) error {
	o.sysex = append(o.sysex, data...)
	if !final {
		return nil
	}
	msg := midi.Message(append([]byte(nil), o.sysex...))
	o.sysex = o.sysex[:0]
	if len(msg) < 2 || msg[0] != 0xF0 || msg[len(msg)-1] != 0xF7 {
		return fmt.Errorf("midiout: malformed sysex % X", msg)
	}
	return o.send(msg)
}

func (o *Output) SendRealTime(kind event.Kind) error {
	var msg midi.Message
	switch kind {
	case event.RealTimeClock:
		msg = midi.TimingClock()
	case event.RealTimeStart:
		msg = midi.Start()
	case event.RealTimeContinue:
		msg = midi.Continue()
	case event.RealTimeStop:
		msg = midi.Stop()
	case event.RealTimeActiveSensing:
		msg = midi.Activesense()
	case event.RealTimeSystemReset:
		msg = midi.Reset()
	default:
		return fmt.Errorf("midiout: %s is not a real-time message", kind)
	}
	return o.send(msg)
}
