package smf

import (
	"encoding/binary"
	"fmt"

	"github.com/ellisgrant-audio/aldacore/aldaerr"
	"github.com/ellisgrant-audio/aldacore/event"
	"github.com/ellisgrant-audio/aldacore/token"
)

// Read parses data as a Standard MIDI File (format 0 or 1) into an
// event.Timeline plus the TempoMap used to resolve every event's
// absolute time, per spec.md §4.5. It tolerates running status and
// channel messages our own Write never emits, so it can read files
// produced by other tools, not just this package's own output. A
// non-nil error is an *aldaerr.Diagnostic of kind SMFError.
func Read(data []byte) (_ *event.Timeline, _ TempoMap, err error) {
	defer func() {
		if err != nil {
			err = aldaerr.New(aldaerr.SMFError, token.Position{}, "", "%v", err)
		}
	}()
	ticksPerQuarter, trackChunks, err := readHeader(data)
	if err != nil {
		return nil, nil, err
	}

	type rawEvent struct {
		tick    int
		kind    event.Kind
		channel int
		a, b    int
	}
	var rawEvents []rawEvent
	var rawTempos []rawTempoEvent

	for _, track := range trackChunks {
		tick := 0
		pos := 0
		var runningStatus byte
		for pos < len(track) {
			delta, next, err := decodeVLQ(track, pos)
			if err != nil {
				return nil, nil, fmt.Errorf("smf: %v", err)
			}
			pos = next
			tick += delta

			if pos >= len(track) {
				return nil, nil, fmt.Errorf("smf: truncated event at tick %d", tick)
			}
			status := track[pos]
			if status < 0x80 {
				// running status: reuse the previous status byte and
				// treat this byte as the first data byte.
				status = runningStatus
			} else {
				pos++
				runningStatus = status
			}

			switch {
			case status == metaEvent:
				if pos >= len(track) {
					return nil, nil, fmt.Errorf("smf: truncated meta event at tick %d", tick)
				}
				metaType := track[pos]
				pos++
				length, next, err := decodeVLQ(track, pos)
				if err != nil {
					return nil, nil, fmt.Errorf("smf: %v", err)
				}
				pos = next
				if pos+length > len(track) {
					return nil, nil, fmt.Errorf("smf: truncated meta event data at tick %d", tick)
				}
				payload := track[pos : pos+length]
				pos += length
				if metaType == metaSetTempo && length == 3 {
					micros := uint32(payload[0])<<16 | uint32(payload[1])<<8 | uint32(payload[2])
					rawTempos = append(rawTempos, rawTempoEvent{Tick: tick, MicrosPerQuarter: micros})
				}
				if metaType == metaEndOfTrack {
					pos = len(track)
				}

			case status == 0xF0 || status == 0xF7:
				length, next, err := decodeVLQ(track, pos)
				if err != nil {
					return nil, nil, fmt.Errorf("smf: %v", err)
				}
				pos = next + length

			default:
				hi := status & 0xF0
				channel := int(status & 0x0F)
				dataLen := channelMessageDataLen(hi)
				if pos+dataLen > len(track) {
					return nil, nil, fmt.Errorf("smf: truncated channel message at tick %d", tick)
				}
				data := track[pos : pos+dataLen]
				pos += dataLen
				switch hi {
				case statusNoteOn:
					if data[1] == 0 {
						rawEvents = append(rawEvents, rawEvent{tick, event.NoteOff, channel, int(data[0]), 0})
					} else {
						rawEvents = append(rawEvents, rawEvent{tick, event.NoteOn, channel, int(data[0]), int(data[1])})
					}
				case statusNoteOff:
					rawEvents = append(rawEvents, rawEvent{tick, event.NoteOff, channel, int(data[0]), 0})
				case statusProgramChange:
					rawEvents = append(rawEvents, rawEvent{tick, event.ProgramChange, channel, int(data[0]), 0})
				case statusControlChange:
					rawEvents = append(rawEvents, rawEvent{tick, event.ControlChange, channel, int(data[0]), int(data[1])})
				}
			}
		}
	}

	tempoMap := buildTempoMapFromTicks(rawTempos, ticksPerQuarter)

	tl := &event.Timeline{}
	for _, p := range tempoMap {
		tl.Events = append(tl.Events, event.Event{
			Kind: event.TempoChange, Time: p.Time, Channel: -1, MicrosPerQuarter: int(p.MicrosPerQuarter),
		})
	}
	for _, r := range rawEvents {
		seconds := tempoMap.SecondsAt(r.tick, ticksPerQuarter)
		e := event.Event{Time: seconds, Channel: r.channel, Kind: r.kind}
		switch r.kind {
		case event.NoteOn:
			e.Pitch, e.Velocity = r.a, r.b
		case event.NoteOff:
			e.Pitch = r.a
		case event.ProgramChange:
			e.Program = r.a
		case event.ControlChange:
			e.Controller, e.Value = r.a, r.b
		}
		tl.Events = append(tl.Events, e)
	}
	event.SortEvents(tl.Events)
	return tl, tempoMap, nil
}

// channelMessageDataLen returns the number of data bytes that follow
// a channel voice message's status byte (high nibble).
func channelMessageDataLen(hi byte) int {
	switch hi {
	case 0xC0, 0xD0: // program change, channel aftertouch
		return 1
	default: // note off/on, poly aftertouch, control change, pitch bend
		return 2
	}
}

// readHeader parses the MThd chunk and returns every MTrk chunk's raw
// byte payload in file order.
func readHeader(data []byte) (ticksPerQuarter int, tracks [][]byte, err error) {
	if len(data) < 14 || string(data[0:4]) != chunkMThd {
		return 0, nil, fmt.Errorf("smf: missing MThd header")
	}
	headerLen := binary.BigEndian.Uint32(data[4:8])
	format := binary.BigEndian.Uint16(data[8:10])
	numTracks := binary.BigEndian.Uint16(data[10:12])
	division := binary.BigEndian.Uint16(data[12:14])
	if division&0x8000 != 0 {
		return 0, nil, fmt.Errorf("smf: SMPTE time division is not supported")
	}
	if format != 0 && format != 1 {
		return 0, nil, fmt.Errorf("smf: unsupported SMF format %d", format)
	}

	pos := 8 + int(headerLen)
	for i := 0; i < int(numTracks); i++ {
		if pos+8 > len(data) || string(data[pos:pos+4]) != chunkMTrk {
			return 0, nil, fmt.Errorf("smf: missing MTrk header for track %d", i)
		}
		length := int(binary.BigEndian.Uint32(data[pos+4 : pos+8]))
		start := pos + 8
		if start+length > len(data) {
			return 0, nil, fmt.Errorf("smf: truncated track %d", i)
		}
		tracks = append(tracks, data[start:start+length])
		pos = start + length
	}
	return int(division), tracks, nil
}
