// Package host opens the connections a controller talks to besides its own
// surface: the MIDI port and DIN serial output, and the configuration-info
// channel.
package host

import (
	"errors"
	"fmt"
	"log/slog"

	"gitlab.com/gomidi/midi/v2"

	"deckfw/lib/button"
	"deckfw/lib/cinfo"
	"deckfw/lib/config"
	"deckfw/lib/midiout"
)

type Host struct {
	Out      *midiout.Output
	Notifier button.Notifier

	cfg     *config.Config
	log     *slog.Logger
	closers []func() error
}

func Open(cfg *config.Config, logger *slog.Logger) (*Host, error) {
	h := &Host{cfg: cfg, log: logger, Notifier: cinfo.Discard{}}

	var outs []*midiout.Output
	if cfg.MIDI.Port != "" {
		port, err := midiout.FindOut(cfg.MIDI.Port)
		if err != nil {
			return nil, err
		}
		out, err := midiout.NewPort(port)
		if err != nil {
			return nil, err
		}
		logger.Info("host: midi output", "port", port.String())
		outs = append(outs, out)
	}
	if cfg.MIDI.Serial != "" {
		out, closeSerial, err := midiout.NewSerial(cfg.MIDI.Serial, cfg.MIDI.Baud)
		if err != nil {
			h.Close()
			return nil, err
		}
		logger.Info("host: din output", "device", cfg.MIDI.Serial, "baud", cfg.MIDI.Baud)
		h.closers = append(h.closers, closeSerial)
		outs = append(outs, out)
	}
	if len(outs) == 0 {
		h.Close()
		return nil, fmt.Errorf("host: no midi output configured")
	}
	h.Out = midiout.Multi(outs...)
	h.Out.SetNoteOffAsNoteOn(cfg.MIDI.NoteOffAsNoteOn)

	if cfg.CInfo.Address != "" {
		client, err := cinfo.Dial(cfg.CInfo.Address, cfg.CInfo.QueueSize, logger)
		if err != nil {
			logger.Warn("host: configuration info disabled", "err", err)
		} else {
			h.Notifier = client
			h.closers = append(h.closers, client.Close)
		}
	}
	return h, nil
}

// Listen passes inbound MIDI from the configured port to fn.
func (h *Host) Listen(fn func(msg midi.Message)) error {
	if h.cfg.MIDI.Port == "" {
		return nil
	}
	port, err := midiout.FindIn(h.cfg.MIDI.Port)
	if err != nil {
		return err
	}
	stop, err := midi.ListenTo(port, func(msg midi.Message, timestampms int32) {
		fn(msg)
	})
	if err != nil {
		return fmt.Errorf("host: listen %s: %w", port, err)
	}
	h.log.Info("host: midi input", "port", port.String())
	h.closers = append(h.closers, func() error { stop(); return nil })
	return nil
}

func (h *Host) Close() error {
	var errs []error
	for i := len(h.closers) - 1; i >= 0; i-- {
		errs = append(errs, h.closers[i]())
	}
	h.closers = nil
	return errors.Join(errs...)
}
