package midiout

import (
	"fmt"
	"strings"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// FindIn returns the first input port whose name contains substr, ignoring
// case.
func FindIn(substr string) (drivers.In, error) {
	lower := strings.ToLower(substr)
	for _, port := range midi.GetInPorts() {
		if strings.Contains(strings.ToLower(port.String()), lower) {
			return port, nil
		}
	}
	return nil, fmt.Errorf("midiout: no input port matching %q", substr)
}

func FindOut(substr string) (drivers.Out, error) {
	lower := strings.ToLower(substr)
	for _, port := range midi.GetOutPorts() {
		if strings.Contains(strings.ToLower(port.String()), lower) {
			return port, nil
		}
	}
	return nil, fmt.Errorf("midiout: no output port matching %q", substr)
}

// PortNames lists input and output ports for error messages.
func PortNames() (in, out []string) {
	for _, p := range midi.GetInPorts() {
		in = append(in, p.String())
	}
	for _, p := range midi.GetOutPorts() {
		out = append(out, p.String())
	}
	return in, out
}
