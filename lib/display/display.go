package display

import (
	"fmt"
	"log/slog"

	"deckfw/lib/event"
)

type Panel interface {
	ShowLines(lines []string) error
}

// Display keeps the last inbound and outbound MIDI event and mirrors them to
// a panel.
type Display struct {
	panel     Panel
	alternate bool
	log       *slog.Logger
	in, out   string
}

func New(p Panel, alternateNotes bool, logger *slog.Logger) *Display {
	if logger == nil {
		logger = slog.Default()
	}
	return &Display{panel: p, alternate: alternateNotes, log: logger}
}

func (d *Display) Lines() []string {
	return []string{"In: " + d.in, "Out: " + d.out}
}

func (d *Display) Event(dir event.Direction, kind event.Kind, data1, data2, channel uint8) {
	text := Format(kind, data1, data2, channel, d.alternate)
	if dir == event.In {
		d.in = text
	} else {
		d.out = text
	}
	if d.panel == nil {
		return
	}
	if err := d.panel.ShowLines(d.Lines()); err != nil {
		d.log.Debug("display: update failed", "err", err)
	}
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func NoteName(note uint8) string {
	return fmt.Sprintf("%s%d", noteNames[note%12], int(note/12)-1)
}

// Format renders one event as a short line. Channels arrive 1-based.
func Format(kind event.Kind, data1, data2, channel uint8, alternateNotes bool) string {
	switch kind {
	case event.NoteOn, event.NoteOff:
		note := fmt.Sprint(data1)
		if alternateNotes {
			note = NoteName(data1)
		}
		return fmt.Sprintf("%s %s v%d CH%d", kind, note, data2, channel)
	case event.ControlChange:
		return fmt.Sprintf("%s %d v%d CH%d", kind, data1, data2, channel)
	case event.ProgramChange:
		return fmt.Sprintf("%s %d CH%d", kind, data1, channel)
	case event.MMCPlay, event.MMCStop, event.MMCPause, event.MMCRecordOn, event.MMCRecordOff:
		return fmt.Sprintf("%s ID%d", kind, data1)
	}
	return kind.String()
}
