package cinfo

import (
	"encoding/binary"
	"fmt"
)

const (
	slipEnd    = 0xC0
	slipEsc    = 0xDB
	slipEscEnd = 0xDC
	slipEscEsc = 0xDD
)

func oscPad(n int) int {
	return (4 - n%4) % 4
}

func appendOSCString(buf []byte, s string) []byte {
	buf = append(buf, s...)
	buf = append(buf, 0)
	for n := oscPad(len(s) + 1); n > 0; n-- {
		buf = append(buf, 0)
	}
	return buf
}

// buildOSC encodes a message with int32 and string arguments.
func buildOSC(addr string, args ...any) []byte {
	buf := appendOSCString(nil, addr)

	typetag := ","
	for _, arg := range args {
		switch arg.(type) {
		case int32:
			typetag += "i"
		case string:
			typetag += "s"
		}
	}
	buf = appendOSCString(buf, typetag)

	for _, arg := range args {
		switch v := arg.(type) {
		case int32:
			buf = binary.BigEndian.AppendUint32(buf, uint32(v))
		case string:
			buf = appendOSCString(buf, v)
		}
	}
	return buf
}

func readOSCString(data []byte, pos int) (string, int) {
	end := pos
	for end < len(data) && data[end] != 0 {
		end++
	}
	return string(data[pos:end]), end + 1 + oscPad(end-pos+1)
}

func parseOSC(data []byte) (addr string, args []any, err error) {
	if len(data) < 4 {
		return "", nil, fmt.Errorf("osc: message too short")
	}
	addr, pos := readOSCString(data, 0)
	if pos >= len(data) || data[pos] != ',' {
		return addr, nil, nil
	}

	typetag, pos := readOSCString(data, pos)
	for _, t := range typetag[1:] {
		switch t {
		case 'i':
			if pos+4 > len(data) {
				return addr, args, fmt.Errorf("osc: truncated int32")
			}
			args = append(args, int32(binary.BigEndian.Uint32(data[pos:])))
			pos += 4
		case 's':
			var s string
			s, pos = readOSCString(data, pos)
			args = append(args, s)
		default:
			return addr, args, fmt.Errorf("osc: unsupported type %q", t)
		}
	}
	return addr, args, nil
}

func slipEncode(data []byte) []byte {
	out := []byte{slipEnd}
	for _, b := range data {
		switch b {
		case slipEnd:
			out = append(out, slipEsc, slipEscEnd)
		case slipEsc:
			out = append(out, slipEsc, slipEscEsc)
		default:
			out = append(out, b)
		}
	}
	return append(out, slipEnd)
}

func slipDecode(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] == slipEsc && i+1 < len(data) {
			switch data[i+1] {
			case slipEscEnd:
				out = append(out, slipEnd)
			case slipEscEsc:
				out = append(out, slipEsc)
			}
			i++
		} else {
			out = append(out, data[i])
		}
	}
	return out
}

func extractSLIPFrame(data []byte) (frame []byte, rest []byte, ok bool) {
	start := -1
	for i, b := range data {
		if b != slipEnd {
			continue
		}
		if start == -1 || i == start+1 {
			start = i
			continue
		}
		return slipDecode(data[start+1 : i]), data[i+1:], true
	}
	return nil, data, false
}
