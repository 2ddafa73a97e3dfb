package event

import "fmt"

// Kind identifies a MIDI event for feedback sinks (LEDs, display).
type Kind int

const (
	NoteOn Kind = iota
	NoteOff
	ControlChange
	ProgramChange
	MMCPlay
	MMCStop
	MMCPause
	MMCRecordOn
	MMCRecordOff
	RealTimeClock
	RealTimeStart
	RealTimeContinue
	RealTimeStop
	RealTimeActiveSensing
	RealTimeSystemReset
	SysEx
)

var kindNames = map[Kind]string{
	NoteOn:                "Note On",
	NoteOff:               "Note Off",
	ControlChange:         "CC",
	ProgramChange:         "Program",
	MMCPlay:               "MMC Play",
	MMCStop:               "MMC Stop",
	MMCPause:              "MMC Pause",
	MMCRecordOn:           "MMC Rec On",
	MMCRecordOff:          "MMC Rec Off",
	RealTimeClock:         "Clock",
	RealTimeStart:         "Start",
	RealTimeContinue:      "Continue",
	RealTimeStop:          "Stop",
	RealTimeActiveSensing: "Act Sense",
	RealTimeSystemReset:   "Reset",
	SysEx:                 "SysEx",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

type Direction int

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	if d == In {
		return "In"
	}
	return "Out"
}

// Source tells LED logic whether a message came from this device or arrived
// over MIDI in.
type Source int

const (
	Internal Source = iota
	External
)

// Block identifies a configuration block for host notifications.
type Block int

const (
	BlockGlobal Block = iota
	BlockButtons
	BlockEncoders
	BlockAnalog
	BlockLEDs
	BlockDisplay
	BlockTouchscreen
)

var blockNames = [...]string{"global", "buttons", "encoders", "analog", "leds", "display", "touchscreen"}

func (b Block) String() string {
	if b >= 0 && int(b) < len(blockNames) {
		return blockNames[b]
	}
	return fmt.Sprintf("block%d", int(b))
}
