package dispatch

import "fmt"

// MessageType is what a button sends when it changes state.
type MessageType uint8

const (
	Note MessageType = iota
	ProgramChange
	ControlChange
	ControlChangeReset
	MMCStop
	MMCPlay
	MMCRecord
	MMCPause
	RealTimeClock
	RealTimeStart
	RealTimeContinue
	RealTimeStop
	RealTimeActiveSensing
	RealTimeSystemReset
	ProgramChangeInc
	ProgramChangeDec
	None
	PresetChange
	MultiValIncResetNote
	MultiValIncDecNote
	MultiValIncResetCC
	MultiValIncDecCC

	messageTypeCount
)

var messageTypeNames = [messageTypeCount]string{
	Note:                  "note",
	ProgramChange:         "programChange",
	ControlChange:         "controlChange",
	ControlChangeReset:    "controlChangeReset",
	MMCStop:               "mmcStop",
	MMCPlay:               "mmcPlay",
	MMCRecord:             "mmcRecord",
	MMCPause:              "mmcPause",
	RealTimeClock:         "realTimeClock",
	RealTimeStart:         "realTimeStart",
	RealTimeContinue:      "realTimeContinue",
	RealTimeStop:          "realTimeStop",
	RealTimeActiveSensing: "realTimeActiveSensing",
	RealTimeSystemReset:   "realTimeSystemReset",
	ProgramChangeInc:      "programChangeInc",
	ProgramChangeDec:      "programChangeDec",
	None:                  "none",
	PresetChange:          "preset",
	MultiValIncResetNote:  "multiValIncResetNote",
	MultiValIncDecNote:    "multiValIncDecNote",
	MultiValIncResetCC:    "multiValIncResetCC",
	MultiValIncDecCC:      "multiValIncDecCC",
}

func (m MessageType) Valid() bool { return m < messageTypeCount }

func (m MessageType) String() string {
	if m.Valid() {
		return messageTypeNames[m]
	}
	return fmt.Sprintf("MessageType(%d)", uint8(m))
}

func (m MessageType) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("dispatch: invalid message type %d", uint8(m))
	}
	return []byte(m.String()), nil
}

func (m *MessageType) UnmarshalText(text []byte) error {
	for i, name := range messageTypeNames {
		if name == string(text) {
			*m = MessageType(i)
			return nil
		}
	}
	return fmt.Errorf("dispatch: unknown message type %q", text)
}

// Type is the configured button behaviour.
type Type uint8

const (
	Momentary Type = iota
	Latching
)

func (t Type) String() string {
	switch t {
	case Momentary:
		return "momentary"
	case Latching:
		return "latching"
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

func (t Type) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Type) UnmarshalText(text []byte) error {
	switch string(text) {
	case "momentary":
		*t = Momentary
	case "latching":
		*t = Latching
	default:
		return fmt.Errorf("dispatch: unknown button type %q", text)
	}
	return nil
}

// Descriptor is the stored configuration a dispatch acts on. ID is the note,
// controller or program number depending on the message type.
type Descriptor struct {
	Message  MessageType
	ID       uint8
	Channel  uint8
	Velocity uint8
}

type override struct {
	forced   bool
	typ      Type
	suppress bool
}

var overrides = [messageTypeCount]override{
	ProgramChange:         {forced: true, typ: Momentary},
	ProgramChangeInc:      {forced: true, typ: Momentary},
	ProgramChangeDec:      {forced: true, typ: Momentary},
	MMCPlay:               {forced: true, typ: Momentary},
	MMCStop:               {forced: true, typ: Momentary},
	MMCPause:              {forced: true, typ: Momentary},
	ControlChange:         {forced: true, typ: Momentary},
	RealTimeClock:         {forced: true, typ: Momentary},
	RealTimeStart:         {forced: true, typ: Momentary},
	RealTimeContinue:      {forced: true, typ: Momentary},
	RealTimeStop:          {forced: true, typ: Momentary},
	RealTimeActiveSensing: {forced: true, typ: Momentary},
	RealTimeSystemReset:   {forced: true, typ: Momentary},
	MultiValIncResetNote:  {forced: true, typ: Momentary},
	MultiValIncDecNote:    {forced: true, typ: Momentary},
	MultiValIncResetCC:    {forced: true, typ: Momentary},
	MultiValIncDecCC:      {forced: true, typ: Momentary},
	MMCRecord:             {forced: true, typ: Latching},
	PresetChange:          {forced: true, typ: Momentary, suppress: true},
}

// Resolve returns the behaviour a message type actually runs with and
// whether it produces MIDI at all.
func Resolve(m MessageType, configured Type) (typ Type, sendMIDI bool) {
	if !m.Valid() {
		return configured, true
	}
	o := overrides[m]
	if !o.forced {
		return configured, true
	}
	return o.typ, !o.suppress
}
