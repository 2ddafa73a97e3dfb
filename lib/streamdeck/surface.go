package streamdeck

import (
	"image/color"
	"strings"

	"deckfw/lib/display"
)

// SetLED paints key index with OnColor or OffColor.
func (d *Device) SetLED(index int, on bool) error {
	c := d.OffColor
	if on {
		c = d.OnColor
	}
	return d.SetKeyColor(index, c)
}

// ShowLines draws the lines on the LCD strip, or on DisplayKey for models
// without one.
func (d *Device) ShowLines(lines []string) error {
	m := d.model
	if m.LCDWidth > 0 {
		img := display.Render(m.LCDWidth, m.LCDHeight, color.Black, color.White, lines...)
		return d.SetLCDImage(0, 0, m.LCDWidth, m.LCDHeight, img)
	}
	if d.DisplayKey < 0 {
		return nil
	}
	img := display.Render(m.KeySize, m.KeySize, color.Black, color.White, keyLines(lines)...)
	return d.SetKeyImage(d.DisplayKey, img)
}

// keyLines wraps "In: Note On 60 v100 CH1" style lines to fit a key.
func keyLines(lines []string) []string {
	var out []string
	for _, l := range lines {
		out = append(out, strings.Fields(l)...)
	}
	return out
}

func (d *Device) SetKeyText(key int, bg, fg color.Color, text string) error {
	sz := d.model.KeySize
	return d.SetKeyImage(key, display.Render(sz, sz, bg, fg, strings.Split(text, "\n")...))
}
