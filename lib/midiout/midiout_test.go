package midiout

import (
	"bytes"
	"errors"
	"testing"

	"gitlab.com/gomidi/midi/v2"

	"deckfw/lib/event"
)

type capture struct {
	msgs [][]byte
	err  error
}

func (c *capture) send(msg midi.Message) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, append([]byte(nil), msg.Bytes()...))
	return nil
}

func TestChannelMessages(t *testing.T) {
	c := &capture{}
	o := New(c.send)

	o.SendNoteOn(60, 100, 0)
	o.SendNoteOff(60, 0, 1)
	o.SendControlChange(7, 90, 2)
	o.SendProgramChange(12, 3)

	want := [][]byte{
		{0x90, 60, 100},
		{0x81, 60, 0},
		{0xB2, 7, 90},
		{0xC3, 12},
	}
	if len(c.msgs) != len(want) {
		t.Fatalf("got %d messages, want %d", len(c.msgs), len(want))
	}
	for i := range want {
		if !bytes.Equal(c.msgs[i], want[i]) {
			t.Errorf("message %d: got % X, want % X", i, c.msgs[i], want[i])
		}
	}
}

func TestNoteOffAsNoteOn(t *testing.T) {
	c := &capture{}
	o := New(c.send)
	o.SetNoteOffAsNoteOn(true)
	o.SendNoteOff(60, 0, 0)
	if !bytes.Equal(c.msgs[0], []byte{0x90, 60, 0}) {
		t.Errorf("got % X", c.msgs[0])
	}
	if !o.NoteOffAsNoteOn() {
		t.Error("mode not reported")
	}
}

func TestSysEx(t *testing.T) {
	c := &capture{}
	o := New(c.send)

	frame := []byte{0xF0, 0x7F, 0x7F, 0x06, 0x02, 0xF7}
	if err := o.SendSysEx(frame, true); err != nil {
		t.Fatal(err)
	}
	frame[4] = 0x01
	if !bytes.Equal(c.msgs[0], []byte{0xF0, 0x7F, 0x7F, 0x06, 0x02, 0xF7}) {
		t.Errorf("sent message aliased caller buffer: % X", c.msgs[0])
	}

	o.SendSysEx([]byte{0xF0, 0x7D}, false)
	o.SendSysEx([]byte{0x01, 0xF7}, true)
	if !bytes.Equal(c.msgs[1], []byte{0xF0, 0x7D, 0x01, 0xF7}) {
		t.Errorf("got % X", c.msgs[1])
	}

	if err := o.SendSysEx([]byte{0x01}, true); err == nil {
		t.Error("expected error for unframed sysex")
	}
}

func TestRealTime(t *testing.T) {
	c := &capture{}
	o := New(c.send)
	kinds := []event.Kind{
		event.RealTimeClock, event.RealTimeStart, event.RealTimeContinue,
		event.RealTimeStop, event.RealTimeActiveSensing, event.RealTimeSystemReset,
	}
	for _, k := range kinds {
		if err := o.SendRealTime(k); err != nil {
			t.Fatal(err)
		}
	}
	want := []byte{0xF8, 0xFA, 0xFB, 0xFC, 0xFE, 0xFF}
	for i, b := range want {
		if len(c.msgs[i]) != 1 || c.msgs[i][0] != b {
			t.Errorf("got % X, want %X", c.msgs[i], b)
		}
	}
	if err := o.SendRealTime(event.NoteOn); err == nil {
		t.Error("expected error for non real-time kind")
	}
}

func TestMulti(t *testing.T) {
	a, b := &capture{}, &capture{err: errors.New("unplugged")}
	m := Multi(New(a.send), New(b.send))
	if err := m.SendNoteOn(1, 2, 0); err == nil {
		t.Error("expected joined error")
	}
	if len(a.msgs) != 1 {
		t.Error("healthy output skipped")
	}
}
