// Package xtouch drives a Behringer X-Touch in MC-less MIDI mode as a button
// surface: its controls are read into the controller's button, analog and
// touchscreen blocks, and its button LEDs and scribble strips show feedback.
package xtouch

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
)

const DeviceIDXTouch = 0x14

// Wire numbers of the controls read as input.
const (
	noteButtonLast = 103
	noteTouchFirst = 110
	noteTouchMain  = 118

	ccFootControl = 4
	ccFootSwitch1 = 64
	ccFootSwitch2 = 67
	ccFaderFirst  = 70
	ccFaderMain   = 78
)

const (
	// LEDs is the number of lit note buttons.
	LEDs = noteButtonLast + 1
	// Buttons covers the note buttons, then foot switches 1 and 2.
	Buttons = LEDs + 2
	// Analog covers faders 1-8, the main fader, then the foot controller.
	Analog = 10
	// Touch covers the touch sensors of faders 1-8 and the main fader.
	Touch = 9

	analogFootControl = Analog - 1
	// Analog inputs are 7 bit on the wire and 10 bit in the controller.
	analogScaleShift = 3
)

type Kind uint8

const (
	KindButton Kind = iota
	KindAnalog
	KindTouch
)

func (k Kind) String() string {
	switch k {
	case KindButton:
		return "button"
	case KindAnalog:
		return "analog"
	case KindTouch:
		return "touch"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Input is one control change. Index counts within the block named by Kind.
type Input struct {
	Kind    Kind
	Index   int
	Pressed bool
	Value   uint16
}

func (in Input) String() string {
	if in.Kind == KindAnalog {
		return fmt.Sprintf("analog %d = %d", in.Index, in.Value)
	}
	state := "up"
	if in.Pressed {
		state = "down"
	}
	return fmt.Sprintf("%s %d %s", in.Kind, in.Index, state)
}

// Decode maps an inbound message to the control it came from. Encoders, the
// jog wheel and anything else without a block report false.
func Decode(msg midi.Message) (Input, bool) {
	var ch, d1, d2 uint8
	switch {
	case msg.GetNoteStart(&ch, &d1, &d2):
		return decodeNote(d1, true)
	case msg.GetNoteEnd(&ch, &d1):
		return decodeNote(d1, false)
	case msg.GetControlChange(&ch, &d1, &d2):
		return decodeCC(d1, d2)
	}
	return Input{}, false
}

func decodeNote(key uint8, on bool) (Input, bool) {
	switch {
	case key <= noteButtonLast:
		return Input{Kind: KindButton, Index: int(key), Pressed: on}, true
	case key >= noteTouchFirst && key <= noteTouchMain:
		return Input{Kind: KindTouch, Index: int(key - noteTouchFirst), Pressed: on}, true
	}
	return Input{}, false
}

func decodeCC(controller, value uint8) (Input, bool) {
	switch {
	case controller >= ccFaderFirst && controller <= ccFaderMain:
		return analog(int(controller-ccFaderFirst), value), true
	case controller == ccFootControl:
		return analog(analogFootControl, value), true
	case controller == ccFootSwitch1:
		return Input{Kind: KindButton, Index: LEDs, Pressed: value > 0}, true
	case controller == ccFootSwitch2:
		return Input{Kind: KindButton, Index: LEDs + 1, Pressed: value > 0}, true
	}
	return Input{}, false
}

func analog(index int, value uint8) Input {
	return Input{Kind: KindAnalog, Index: index, Value: uint16(value) << analogScaleShift}
}
