package streamdeck

import (
	"encoding/binary"
	"fmt"
)

const (
	reportKeys    = 0x00
	reportTouch   = 0x02
	reportEncoder = 0x03

	encoderPush   = 0x00
	encoderRotate = 0x01
)

// decode applies one input report to pressed (keys, then encoder pushes)
// and returns the touched LCD zone, or -1.
func (m *Model) decode(buf []byte, pressed []bool) int {
	if len(buf) < 4 {
		return -1
	}
	switch buf[0] {
	case reportKeys:
		for i := 0; i < m.Keys && 3+i < len(buf); i++ {
			pressed[i] = buf[3+i] != 0
		}
	case reportEncoder:
		if m.Encoders == 0 || len(buf) < 4+m.Encoders || buf[3] != encoderPush {
			return -1
		}
		for i := 0; i < m.Encoders; i++ {
			pressed[m.Keys+i] = buf[4+i] != 0
		}
	case reportTouch:
		if len(buf) < 14 {
			return -1
		}
		return m.touchZone(int(binary.LittleEndian.Uint16(buf[5:7])))
	}
	return -1
}

// Scan reads input reports until the device fails or is closed, keeping
// the button state current for Pressed. Touches on the LCD are reported
// through touch by zone.
func (d *Device) Scan(touch func(zone int)) error {
	for {
		_, buf, err := d.dev.GetInputReport()
		if err != nil {
			return fmt.Errorf("streamdeck: read input: %w", err)
		}
		d.mu.Lock()
		zone := d.model.decode(buf, d.pressed)
		d.mu.Unlock()
		if zone >= 0 && touch != nil {
			touch(zone)
		}
	}
}

func (d *Device) Pressed(index int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return index >= 0 && index < len(d.pressed) && d.pressed[index]
}
