// Package smf implements the Standard MIDI File format-1 writer and
// reader of spec.md §4.4/§4.5: tempo track first, one track per
// channel, VLQ delta-times, no running status, tracks terminated by an
// explicit End-of-Track meta-event.
//
// Grounded on the teacher's writeMidiFile/fourBarsMusic in etudes.go
// for the overall "accumulate a bytes.Buffer per track, prepend an
// MTrk header, binary.Write big-endian" shape, generalized from the
// teacher's fixed two-byte deltas to real variable-length quantities.
package smf

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/ellisgrant-audio/aldacore/event"
)

const (
	chunkMThd = "MThd"
	chunkMTrk = "MTrk"

	statusNoteOff        = 0x80
	statusNoteOn         = 0x90
	statusControlChange  = 0xB0
	statusProgramChange  = 0xC0
	metaEvent            = 0xFF
	metaSetTempo         = 0x51
	metaEndOfTrack       = 0x2F
)

// Write renders tl as a format-1 Standard MIDI File: track 0 carries
// every TempoChange event, and one subsequent track per channel in
// the order the channels first appear in tl, per spec.md §4.4.
func Write(tl *event.Timeline, ticksPerQuarter uint16) ([]byte, error) {
	if ticksPerQuarter == 0 || ticksPerQuarter&0x8000 != 0 {
		return nil, fmt.Errorf("ticks-per-quarter must be a positive value below 32768, got %d", ticksPerQuarter)
	}

	tempoMap := buildTempoMapFromSeconds(tl.TempoEvents(), int(ticksPerQuarter))
	channels := tl.Channels()

	var buf bytes.Buffer
	buf.WriteString(chunkMThd)
	binary.Write(&buf, binary.BigEndian, uint32(6))
	binary.Write(&buf, binary.BigEndian, uint16(1)) // format 1
	binary.Write(&buf, binary.BigEndian, uint16(1+len(channels)))
	binary.Write(&buf, binary.BigEndian, ticksPerQuarter)

	writeChunk(&buf, writeTempoTrack(tempoMap))
	for _, ch := range channels {
		writeChunk(&buf, writeChannelTrack(tl.ForChannel(ch), ch, tempoMap, int(ticksPerQuarter)))
	}
	return buf.Bytes(), nil
}

func writeChunk(buf *bytes.Buffer, track []byte) {
	buf.WriteString(chunkMTrk)
	binary.Write(buf, binary.BigEndian, uint32(len(track)))
	buf.Write(track)
}

func writeTempoTrack(tempoMap TempoMap) []byte {
	var buf bytes.Buffer
	lastTick := 0
	for _, p := range tempoMap {
		buf.Write(encodeVLQ(p.Tick - lastTick))
		lastTick = p.Tick
		buf.WriteByte(metaEvent)
		buf.WriteByte(metaSetTempo)
		buf.WriteByte(0x03)
		buf.WriteByte(byte(p.MicrosPerQuarter >> 16))
		buf.WriteByte(byte(p.MicrosPerQuarter >> 8))
		buf.WriteByte(byte(p.MicrosPerQuarter))
	}
	writeEndOfTrack(&buf)
	return buf.Bytes()
}

func writeChannelTrack(events []event.Event, channel int, tempoMap TempoMap, ticksPerQuarter int) []byte {
	var buf bytes.Buffer
	lastTick := 0
	writeEvent := func(tick int, status byte, data ...byte) {
		buf.Write(encodeVLQ(tick - lastTick))
		lastTick = tick
		buf.WriteByte(status)
		buf.Write(data)
	}
	for _, e := range events {
		tick := tempoMap.TickAt(e.Time, ticksPerQuarter)
		switch e.Kind {
		case event.ProgramChange:
			writeEvent(tick, statusProgramChange|byte(channel), byte(e.Program))
		case event.ControlChange:
			writeEvent(tick, statusControlChange|byte(channel), byte(e.Controller), byte(e.Value))
		case event.NoteOn:
			writeEvent(tick, statusNoteOn|byte(channel), byte(e.Pitch), byte(e.Velocity))
		case event.NoteOff:
			writeEvent(tick, statusNoteOff|byte(channel), byte(e.Pitch), 0)
		}
	}
	writeEndOfTrack(&buf)
	return buf.Bytes()
}

func writeEndOfTrack(buf *bytes.Buffer) {
	buf.WriteByte(0x00) // delta 0
	buf.WriteByte(metaEvent)
	buf.WriteByte(metaEndOfTrack)
	buf.WriteByte(0x00)
}
