package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"deckfw/lib/dispatch"
	"deckfw/lib/leds"
)

type Layout struct {
	Buttons     int `yaml:"buttons"`
	Analog      int `yaml:"analog"`
	Touchscreen int `yaml:"touchscreen"`
	// Columns > 0 selects matrix addressing with one byte per column.
	Columns int `yaml:"columns"`
	LEDs    int `yaml:"leds"`
}

type Scan struct {
	Period        time.Duration `yaml:"period"`
	ReadoutPeriod time.Duration `yaml:"readoutPeriod"`
	Debounce      time.Duration `yaml:"debounce"`
	BufferDepth   int           `yaml:"bufferDepth"`
}

type MIDI struct {
	Port                  string `yaml:"port"`
	Serial                string `yaml:"serial"`
	Baud                  int    `yaml:"baud"`
	NoteOffAsNoteOn       bool   `yaml:"noteOffAsNoteOn"`
	PresetOnProgramChange bool   `yaml:"presetOnProgramChange"`
}

type CInfo struct {
	Address   string `yaml:"address"`
	QueueSize int    `yaml:"queueSize"`
}

type Display struct {
	AlternateNotes bool `yaml:"alternateNotes"`
}

type ProgramRange struct {
	Channel uint8 `yaml:"channel"`
	Min     uint8 `yaml:"min"`
	Max     uint8 `yaml:"max"`
}

// Button channels are 1-16 in the file.
type Button struct {
	Index    int                  `yaml:"index"`
	Message  dispatch.MessageType `yaml:"message"`
	ID       uint8                `yaml:"id"`
	Channel  uint8                `yaml:"channel"`
	Velocity uint8                `yaml:"velocity"`
	Type     dispatch.Type        `yaml:"type"`
}

func (b *Button) UnmarshalYAML(n *yaml.Node) error {
	type plain Button
	p := plain{Channel: 1, Velocity: 127}
	if err := n.Decode(&p); err != nil {
		return err
	}
	*b = Button(p)
	return nil
}

type LED struct {
	Index        int          `yaml:"index"`
	ActivationID uint8        `yaml:"activationID"`
	Channel      uint8        `yaml:"channel"`
	Control      leds.Control `yaml:"control"`
	Local        bool         `yaml:"local"`
}

func (l *LED) UnmarshalYAML(n *yaml.Node) error {
	type plain LED
	p := plain{Channel: 1, Local: true}
	if err := n.Decode(&p); err != nil {
		return err
	}
	*l = LED(p)
	return nil
}

type Preset struct {
	Name    string   `yaml:"name"`
	Buttons []Button `yaml:"buttons"`
	LEDs    []LED    `yaml:"leds"`
}

type Config struct {
	Layout        Layout         `yaml:"layout"`
	Scan          Scan           `yaml:"scan"`
	MIDI          MIDI           `yaml:"midi"`
	CInfo         CInfo          `yaml:"cinfo"`
	Display       Display        `yaml:"display"`
	ProgramChange []ProgramRange `yaml:"programChange"`
	Presets       []Preset       `yaml:"presets"`
}

func Default() *Config {
	return &Config{
		Layout: Layout{Buttons: 32},
		Scan: Scan{
			Period:        time.Millisecond,
			ReadoutPeriod: time.Millisecond,
			Debounce:      5 * time.Millisecond,
			BufferDepth:   3,
		},
		MIDI:    MIDI{Baud: 31250},
		CInfo:   CInfo{QueueSize: 64},
		Presets: []Preset{{Name: "default"}},
	}
}

// Load reads and validates the file at path. A non-nil fit adjusts the layout
// to the attached surface before validation.
func Load(path string, fit func(*Layout)) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if fit != nil {
		fit(&cfg.Layout)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes and validates data.
func Parse(data []byte) (*Config, error) {
	cfg, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Decode applies data over the defaults without validating it.
func Decode(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Layout.Buttons < 0 || c.Layout.Analog < 0 || c.Layout.Touchscreen < 0 {
		return fmt.Errorf("config: negative layout size")
	}
	if c.Layout.Columns > 0 && c.Layout.Buttons > c.Layout.Columns*8 {
		return fmt.Errorf("config: %d buttons do not fit a %d column matrix", c.Layout.Buttons, c.Layout.Columns)
	}
	if c.Scan.BufferDepth < 1 {
		return fmt.Errorf("config: scan buffer depth must be at least 1")
	}
	if len(c.Presets) == 0 {
		return fmt.Errorf("config: no presets")
	}
	total := c.Layout.Buttons + c.Layout.Analog + c.Layout.Touchscreen
	for _, r := range c.ProgramChange {
		if r.Channel < 1 || r.Channel > 16 {
			return fmt.Errorf("config: program change channel %d out of range", r.Channel)
		}
		if r.Min > r.Max || r.Max > 127 {
			return fmt.Errorf("config: program change range %d-%d invalid", r.Min, r.Max)
		}
	}
	for p, preset := range c.Presets {
		for _, b := range preset.Buttons {
			if b.Index < 0 || b.Index >= total {
				return fmt.Errorf("config: preset %d: button %d out of range", p, b.Index)
			}
			if b.Channel < 1 || b.Channel > 16 {
				return fmt.Errorf("config: preset %d: button %d: channel %d out of range", p, b.Index, b.Channel)
			}
			if b.ID > 127 || b.Velocity > 127 {
				return fmt.Errorf("config: preset %d: button %d: value above 127", p, b.Index)
			}
		}
		for _, l := range preset.LEDs {
			if l.Index < 0 || l.Index >= c.Layout.LEDs {
				return fmt.Errorf("config: preset %d: led %d out of range", p, l.Index)
			}
			if l.Channel < 1 || l.Channel > 16 {
				return fmt.Errorf("config: preset %d: led %d: channel %d out of range", p, l.Index, l.Channel)
			}
		}
	}
	return nil
}
