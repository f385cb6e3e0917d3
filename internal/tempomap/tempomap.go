// Package tempomap scans raw Standard MIDI File bytes for Set Tempo
// meta-events (FF 51 03), independent of the full SMF track/VLQ
// decoding the smf package does for reading back a Timeline. It backs
// cmd/aldatempo, a small CLI that lists or rewrites every tempo event
// in a compiled file without parsing it all the way back to an
// event.Timeline.
//
// Adapted from the teacher's internal/miditempo/miditempo.go: its
// getFileTempo byte-at-a-time state machine found the first tempo
// event only; Scan here keeps running after each match so it finds
// every one, and each TempoEvent records enough to let Patch rewrite
// its value in place, the same way the teacher's SetTempo did for the
// single event it found.
package tempomap

import "fmt"

// TempoEvent is one Set Tempo meta-event found by Scan.
type TempoEvent struct {
	ByteOffset       int    // offset of the event's first tempo-value byte
	MicrosPerQuarter uint32 // the event's tempo value
}

// Scan finds every Set Tempo meta-event in data, in byte order.
func Scan(data []byte) []TempoEvent {
	var events []TempoEvent
	var state int
	var addr int
	var value uint32
	for i, b := range data {
		switch state {
		case 0:
			if b == 0xFF {
				state = 1
			}
		case 1:
			if b == 0x51 {
				state = 2
			} else {
				state = 0
			}
		case 2:
			if b == 0x03 {
				state = 3
			} else {
				state = 0
			}
		case 3:
			addr = i
			value = uint32(b) << 16
			state = 4
		case 4:
			value += uint32(b) << 8
			state = 5
		case 5:
			value += uint32(b)
			events = append(events, TempoEvent{ByteOffset: addr, MicrosPerQuarter: value})
			state = 0
		}
	}
	return events
}

// low3 packs the low 24 bits of v into 3 big-endian bytes, the wire
// format of a Set Tempo event's value.
func low3(v uint32) [3]byte {
	return [3]byte{byte(v >> 16), byte(v >> 8), byte(v)}
}

// Patch rewrites the tempo event at ev's offset to microsPerQuarter,
// returning a modified copy of data. It does not mutate data.
func Patch(data []byte, ev TempoEvent, microsPerQuarter uint32) ([]byte, error) {
	if microsPerQuarter == 0 {
		return nil, fmt.Errorf("%d is too small for a Set Tempo event value", microsPerQuarter)
	}
	if microsPerQuarter > 0xFFFFFF {
		return nil, fmt.Errorf("%d is too large for a Set Tempo event value", microsPerQuarter)
	}
	if ev.ByteOffset+3 > len(data) {
		return nil, fmt.Errorf("tempo event offset %d out of range", ev.ByteOffset)
	}
	out := make([]byte, len(data))
	copy(out, data)
	bs := low3(microsPerQuarter)
	copy(out[ev.ByteOffset:ev.ByteOffset+3], bs[:])
	return out, nil
}

// PatchAll rewrites every tempo event found in data to the same
// value, returning a modified copy.
func PatchAll(data []byte, microsPerQuarter uint32) ([]byte, error) {
	out := data
	for _, ev := range Scan(data) {
		var err error
		out, err = Patch(out, ev, microsPerQuarter)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
