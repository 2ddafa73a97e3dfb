package config

import (
	"fmt"
	"sync"

	"deckfw/lib/button"
	"deckfw/lib/dispatch"
)

type entry struct {
	message  dispatch.MessageType
	id       uint8
	channel  uint8
	velocity uint8
	typ      dispatch.Type
}

// Store serves per-button configuration from the active preset.
type Store struct {
	mu     sync.RWMutex
	cfg    *Config
	tables [][]entry
	active int
	hooks  []func(preset uint8)
}

func NewStore(cfg *Config) *Store {
	total := cfg.Layout.Buttons + cfg.Layout.Analog + cfg.Layout.Touchscreen
	s := &Store{cfg: cfg}
	for _, preset := range cfg.Presets {
		table := make([]entry, total)
		for i := range table {
			table[i] = entry{message: dispatch.Note, id: uint8(i % 128), velocity: 127, typ: dispatch.Momentary}
		}
		for _, b := range preset.Buttons {
			table[b.Index] = entry{
				message:  b.Message,
				id:       b.ID,
				channel:  b.Channel - 1,
				velocity: b.Velocity,
				typ:      b.Type,
			}
		}
		s.tables = append(s.tables, table)
	}
	return s
}

func (s *Store) Config() *Config { return s.cfg }

func (s *Store) Read(section button.Section, index int) uint8 {
	s.mu.RLock()
	e := s.tables[s.active][index]
	s.mu.RUnlock()

	switch section {
	case button.SectionType:
		return uint8(e.typ)
	case button.SectionMessage:
		return uint8(e.message)
	case button.SectionID:
		return e.id
	case button.SectionVelocity:
		return e.velocity
	case button.SectionChannel:
		return e.channel
	}
	return 0
}

func (s *Store) Preset() uint8 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint8(s.active)
}

func (s *Store) LEDs() []LED {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Presets[s.active].LEDs
}

// OnPresetChange registers fn to run after every preset switch.
func (s *Store) OnPresetChange(fn func(preset uint8)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, fn)
}

func (s *Store) SetPreset(preset uint8) error {
	s.mu.Lock()
	if int(preset) >= len(s.tables) {
		s.mu.Unlock()
		return fmt.Errorf("config: preset %d out of range (have %d)", preset, len(s.tables))
	}
	if int(preset) == s.active {
		s.mu.Unlock()
		return nil
	}
	s.active = int(preset)
	hooks := append([]func(uint8){}, s.hooks...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(preset)
	}
	return nil
}
