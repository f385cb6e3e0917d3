// Package event defines the timed MIDI event union of spec.md §3 and
// the Timeline a Generator produces and an SMF Writer/Reader consumes.
//
// Grounded on winlinvip-audio's small tagged-event struct
// (midi/event.go) and williamsharkey-midi's channel-message kind
// enumeration (messages/channel/reader.go), adapted to carry an
// absolute time in seconds rather than a raw delta-tick, per spec.md
// §3's "Times are absolute seconds from start."
package event

import "sort"

// Kind tags which union member an Event is.
type Kind int

const (
	NoteOn Kind = iota
	NoteOff
	ProgramChange
	ControlChange
	TempoChange
)

func (k Kind) String() string {
	switch k {
	case NoteOn:
		return "NoteOn"
	case NoteOff:
		return "NoteOff"
	case ProgramChange:
		return "ProgramChange"
	case ControlChange:
		return "ControlChange"
	case TempoChange:
		return "TempoChange"
	default:
		return "Unknown"
	}
}

// priority orders same-tick events within a track per spec.md §4.4:
// ProgramChange < ControlChange < NoteOff < NoteOn.
func (k Kind) priority() int {
	switch k {
	case ProgramChange:
		return 0
	case ControlChange:
		return 1
	case NoteOff:
		return 2
	case NoteOn:
		return 3
	case TempoChange:
		return 0
	default:
		return 4
	}
}

// Event is one timed MIDI event. Only the fields relevant to Kind are
// meaningful. Channel is -1 for TempoChange, which belongs to the
// dedicated tempo track rather than any channel-part track.
type Event struct {
	Kind    Kind
	Time    float64 // absolute seconds from start
	Channel int     // 0-15, or -1 for TempoChange

	Pitch    int // NoteOn / NoteOff
	Velocity int // NoteOn

	Program int // ProgramChange

	Controller int // ControlChange
	Value      int // ControlChange

	MicrosPerQuarter int // TempoChange
}

// Timeline is the full timed event sequence produced by the Generator
// (spec.md §4.3) and consumed by the SMF Writer (§4.4); the SMF Reader
// (§4.5) produces one back from bytes.
type Timeline struct {
	Events []Event
}

// Channels returns the distinct non-tempo channels used, in order of
// first appearance — this fixes track ordering for the SMF Writer.
func (tl *Timeline) Channels() []int {
	seen := map[int]bool{}
	var chans []int
	for _, e := range tl.Events {
		if e.Kind == TempoChange {
			continue
		}
		if !seen[e.Channel] {
			seen[e.Channel] = true
			chans = append(chans, e.Channel)
		}
	}
	return chans
}

// ForChannel returns the events for one channel, sorted by (time,
// kind-priority) per spec.md §4.4.
func (tl *Timeline) ForChannel(channel int) []Event {
	var out []Event
	for _, e := range tl.Events {
		if e.Kind != TempoChange && e.Channel == channel {
			out = append(out, e)
		}
	}
	SortEvents(out)
	return out
}

// TempoEvents returns the TempoChange events, sorted by time; spec.md
// §3 requires these be non-decreasing in time.
func (tl *Timeline) TempoEvents() []Event {
	var out []Event
	for _, e := range tl.Events {
		if e.Kind == TempoChange {
			out = append(out, e)
		}
	}
	SortEvents(out)
	return out
}

// SortEvents orders events by absolute time, breaking ties by
// kind-priority per spec.md §4.4.
func SortEvents(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Time != events[j].Time {
			return events[i].Time < events[j].Time
		}
		return events[i].Kind.priority() < events[j].Kind.priority()
	})
}
