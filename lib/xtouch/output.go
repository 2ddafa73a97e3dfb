package xtouch

import (
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

type LCDColor uint8

const (
	ColorBlack   LCDColor = 0
	ColorRed     LCDColor = 1
	ColorGreen   LCDColor = 2
	ColorYellow  LCDColor = 3
	ColorBlue    LCDColor = 4
	ColorMagenta LCDColor = 5
	ColorCyan    LCDColor = 6
	ColorWhite   LCDColor = 7
)

type LEDState uint8

const (
	LEDOff   LEDState = 0
	LEDFlash LEDState = 64
	LEDOn    LEDState = 127
)

const (
	strips     = 8
	stripWidth = 7
)

type Output struct {
	send     func(msg midi.Message) error
	DeviceID uint8
	// LCDColor backlights the scribble strips used by ShowLines.
	LCDColor LCDColor
}

func NewOutput(port drivers.Out, deviceID uint8) (*Output, error) {
	send, err := midi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("xtouch: open output port: %w", err)
	}
	return newOutput(send, deviceID), nil
}

func newOutput(send func(msg midi.Message) error, deviceID uint8) *Output {
	return &Output{send: send, DeviceID: deviceID, LCDColor: ColorWhite}
}

func (o *Output) SetButtonLED(button uint8, state LEDState) error {
	return o.send(midi.NoteOn(0, button, uint8(state)))
}

func (o *Output) SetLCD(lcd uint8, color LCDColor, invertUpper bool, invertLower bool, upper string, lower string) error {
	cc := uint8(color)
	if invertUpper {
		cc |= 0x10
	}
	if invertLower {
		cc |= 0x20
	}

	data := []byte{0x00, 0x20, 0x32, o.DeviceID, 0x4C, lcd, cc}
	data = append(data, fitStrip(upper)...)
	data = append(data, fitStrip(lower)...)
	return o.send(midi.SysEx(data))
}

// SetLED lights the button LED at index. The foot switches have no LED.
func (o *Output) SetLED(index int, on bool) error {
	if index < 0 || index >= LEDs {
		return nil
	}
	state := LEDOff
	if on {
		state = LEDOn
	}
	return o.SetButtonLED(uint8(index), state)
}

// ShowLines spreads the first two lines across the scribble strips, upper
// row then lower row.
func (o *Output) ShowLines(lines []string) error {
	var upper, lower string
	if len(lines) > 0 {
		upper = lines[0]
	}
	if len(lines) > 1 {
		lower = lines[1]
	}
	up, low := splitStrips(upper), splitStrips(lower)
	for i := 0; i < strips; i++ {
		if err := o.SetLCD(uint8(i), o.LCDColor, false, false, up[i], low[i]); err != nil {
			return err
		}
	}
	return nil
}

func splitStrips(s string) [strips]string {
	var out [strips]string
	for i := 0; i < strips; i++ {
		start := i * stripWidth
		if start >= len(s) {
			break
		}
		out[i] = s[start:min(start+stripWidth, len(s))]
	}
	return out
}

func fitStrip(s string) string {
	if len(s) > stripWidth {
		return s[:stripWidth]
	}
	return s + strings.Repeat(" ", stripWidth-len(s))
}
