package streamdeck

const elgatoVendorID = 0x0fd9

type Model struct {
	Name      string
	Keys      int
	KeyRows   int
	KeyCols   int
	KeySize   int
	FlipKeys  bool
	Encoders  int
	LCDWidth  int
	LCDHeight int
}

var ModelXL = Model{
	Name:     "XL",
	Keys:     32,
	KeyRows:  4,
	KeyCols:  8,
	KeySize:  96,
	FlipKeys: true,
}

var ModelPlus = Model{
	Name:      "Plus",
	Keys:      8,
	KeyRows:   2,
	KeyCols:   4,
	KeySize:   120,
	Encoders:  4,
	LCDWidth:  800,
	LCDHeight: 100,
}

var productModels = map[uint16]*Model{
	0x006c: &ModelXL,
	0x008f: &ModelXL,
	0x0084: &ModelPlus,
}

// Buttons is the number of physical buttons: keys first, then encoder
// pushes.
func (m *Model) Buttons() int { return m.Keys + m.Encoders }

// TouchZones splits the LCD strip into one zone per encoder.
func (m *Model) TouchZones() int {
	if m.LCDWidth == 0 {
		return 0
	}
	return m.Encoders
}

func (m *Model) touchZone(x int) int {
	zones := m.TouchZones()
	if zones == 0 {
		return -1
	}
	zone := x * zones / m.LCDWidth
	return max(0, min(zone, zones-1))
}
