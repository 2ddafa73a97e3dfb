package streamdeck

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"sync"

	xdraw "golang.org/x/image/draw"

	"rafaelmartins.com/p/usbhid"
)

type Device struct {
	dev   *usbhid.Device
	model *Model

	// OnColor and OffColor paint keys used as LEDs.
	OnColor  color.Color
	OffColor color.Color

	// DisplayKey shows the event lines on a key when the model has no LCD.
	// Negative disables it.
	DisplayKey int

	mu      sync.Mutex
	pressed []bool
}

// Open attaches to the first connected deck of model m, or of any known
// model when m is nil.
func Open(m *Model) (*Device, error) {
	devices, err := usbhid.Enumerate(func(dev *usbhid.Device) bool {
		found := productModels[dev.ProductId()]
		return dev.VendorId() == elgatoVendorID && found != nil && (m == nil || found == m)
	})
	if err != nil {
		return nil, fmt.Errorf("streamdeck: enumerate: %w", err)
	}
	if len(devices) == 0 {
		return nil, fmt.Errorf("streamdeck: no device found")
	}

	dev := devices[0]
	if err := dev.Open(true); err != nil {
		return nil, fmt.Errorf("streamdeck: open: %w", err)
	}
	return newDevice(dev, productModels[dev.ProductId()]), nil
}

func newDevice(dev *usbhid.Device, m *Model) *Device {
	return &Device{
		dev:        dev,
		model:      m,
		OnColor:    color.RGBA{50, 180, 50, 255},
		OffColor:   color.Black,
		DisplayKey: -1,
		pressed:    make([]bool, m.Buttons()),
	}
}

func (d *Device) Model() *Model        { return d.model }
func (d *Device) Close() error         { return d.dev.Close() }
func (d *Device) SerialNumber() string { return d.dev.SerialNumber() }
func (d *Device) Product() string      { return d.dev.Product() }

func (d *Device) FirmwareVersion() (string, error) {
	buf, err := d.dev.GetFeatureReport(5)
	if err != nil {
		return "", err
	}
	b, _, _ := bytes.Cut(buf[5:], []byte{0})
	return string(b), nil
}

func (d *Device) SetBrightness(perc byte) error {
	pl := make([]byte, d.dev.GetFeatureReportLength())
	pl[0] = 0x08
	pl[1] = min(perc, 100)
	return d.dev.SetFeatureReport(3, pl)
}

func (d *Device) Reset() error {
	pl := make([]byte, d.dev.GetFeatureReportLength())
	pl[0] = 0x02
	return d.dev.SetFeatureReport(3, pl)
}

func (d *Device) SetKeyColor(key int, c color.Color) error {
	sz := d.model.KeySize
	img := image.NewRGBA(image.Rect(0, 0, sz, sz))
	xdraw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, xdraw.Src)
	return d.SetKeyImage(key, img)
}

func (d *Device) SetKeyImage(key int, img image.Image) error {
	if key < 0 || key >= d.model.Keys {
		return fmt.Errorf("streamdeck: invalid key %d", key)
	}

	sz := d.model.KeySize
	scaled := image.NewRGBA(image.Rect(0, 0, sz, sz))
	xdraw.BiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	if d.model.FlipKeys {
		scaled = rotate180(scaled)
	}

	data, err := encodeJPEG(scaled)
	if err != nil {
		return err
	}
	return d.sendPaged(8, data, func(hdr []byte, page uint16, last bool, n int) {
		hdr[0] = 0x02
		hdr[1] = 0x07
		hdr[2] = byte(key)
		hdr[3] = boolByte(last)
		binary.LittleEndian.PutUint16(hdr[4:], uint16(n))
		binary.LittleEndian.PutUint16(hdr[6:], page)
	})
}

func (d *Device) SetLCDImage(x, y, w, h int, img image.Image) error {
	if d.model.LCDWidth == 0 {
		return fmt.Errorf("streamdeck: %s has no LCD", d.model.Name)
	}

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.BiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Over, nil)

	data, err := encodeJPEG(scaled)
	if err != nil {
		return err
	}
	return d.sendPaged(16, data, func(hdr []byte, page uint16, last bool, n int) {
		hdr[0] = 0x02
		hdr[1] = 0x0C
		binary.LittleEndian.PutUint16(hdr[2:], uint16(x))
		binary.LittleEndian.PutUint16(hdr[4:], uint16(y))
		binary.LittleEndian.PutUint16(hdr[6:], uint16(w))
		binary.LittleEndian.PutUint16(hdr[8:], uint16(h))
		hdr[10] = boolByte(last)
		binary.LittleEndian.PutUint16(hdr[11:], page)
		binary.LittleEndian.PutUint16(hdr[13:], uint16(n))
	})
}

func (d *Device) ClearAllKeys() error {
	for i := 0; i < d.model.Keys; i++ {
		if err := d.SetKeyColor(i, color.Black); err != nil {
			return err
		}
	}
	return nil
}

// sendPaged splits data across output reports, each starting with a
// header of hdrLen bytes filled in by fill.
func (d *Device) sendPaged(hdrLen int, data []byte, fill func(hdr []byte, page uint16, last bool, n int)) error {
	reportLen := int(d.dev.GetOutputReportLength())
	for _, p := range pages(data, reportLen-hdrLen) {
		report := make([]byte, reportLen)
		fill(report[:hdrLen], p.index, p.last, len(p.chunk))
		copy(report[hdrLen:], p.chunk)
		if err := d.dev.SetOutputReport(2, report); err != nil {
			return fmt.Errorf("streamdeck: write page %d: %w", p.index, err)
		}
	}
	return nil
}

type page struct {
	index uint16
	chunk []byte
	last  bool
}

func pages(data []byte, size int) []page {
	var out []page
	for start := 0; start < len(data); start += size {
		end := min(start+size, len(data))
		out = append(out, page{
			index: uint16(len(out)),
			chunk: data[start:end],
			last:  end == len(data),
		})
	}
	return out
}

func rotate180(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(b.Max.X-1-x, b.Max.Y-1-y, src.At(x, y))
		}
	}
	return dst
}

func encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}); err != nil {
		return nil, fmt.Errorf("streamdeck: encode: %w", err)
	}
	return buf.Bytes(), nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
