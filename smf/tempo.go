package smf

import (
	"math"
	"sort"

	"github.com/ellisgrant-audio/aldacore/event"
)

// defaultMicrosPerQuarter is the SMF-spec default tempo (120 BPM) a
// file is assumed to start at if it carries no Set Tempo event at
// tick 0.
const defaultMicrosPerQuarter = 500000

// TempoPoint is one point where the tempo changes, known in both
// domains the pipeline cares about: tick (the SMF wire encoding) and
// seconds (the event.Timeline encoding).
type TempoPoint struct {
	Tick             int
	Time             float64 // seconds
	MicrosPerQuarter uint32
}

// TempoMap is a time-ordered sequence of TempoPoints, returned by
// Read alongside the event.Timeline it decoded, per SPEC_FULL.md §6.
type TempoMap []TempoPoint

// TickAt converts an absolute time in seconds to the tick it falls
// at, under tm's piecewise-constant tempo.
func (tm TempoMap) TickAt(seconds float64, ticksPerQuarter int) int {
	p := tm.pointBefore(seconds)
	deltaTicks := (seconds - p.Time) * float64(ticksPerQuarter) * 1e6 / float64(p.MicrosPerQuarter)
	return p.Tick + int(math.Round(deltaTicks))
}

// SecondsAt converts an absolute tick to seconds, under tm's
// piecewise-constant tempo.
func (tm TempoMap) SecondsAt(tick int, ticksPerQuarter int) float64 {
	p := tm.tickPointBefore(tick)
	deltaSeconds := float64(tick-p.Tick) * float64(p.MicrosPerQuarter) / 1e6 / float64(ticksPerQuarter)
	return p.Time + deltaSeconds
}

func (tm TempoMap) pointBefore(seconds float64) TempoPoint {
	if len(tm) == 0 {
		return TempoPoint{MicrosPerQuarter: defaultMicrosPerQuarter}
	}
	p := tm[0]
	for _, q := range tm[1:] {
		if q.Time > seconds {
			break
		}
		p = q
	}
	return p
}

func (tm TempoMap) tickPointBefore(tick int) TempoPoint {
	if len(tm) == 0 {
		return TempoPoint{MicrosPerQuarter: defaultMicrosPerQuarter}
	}
	p := tm[0]
	for _, q := range tm[1:] {
		if q.Tick > tick {
			break
		}
		p = q
	}
	return p
}

// buildTempoMapFromSeconds turns a Timeline's (already time-sorted)
// TempoChange events into a TempoMap with tick positions computed
// forward from tick 0, for use by Write.
func buildTempoMapFromSeconds(events []event.Event, ticksPerQuarter int) TempoMap {
	if len(events) == 0 {
		return TempoMap{{Tick: 0, Time: 0, MicrosPerQuarter: defaultMicrosPerQuarter}}
	}
	points := make(TempoMap, 0, len(events))
	tick := 0
	prevTime := 0.0
	prevMicros := uint32(defaultMicrosPerQuarter)
	for i, e := range events {
		if i > 0 {
			deltaSeconds := e.Time - prevTime
			deltaTicks := deltaSeconds * float64(ticksPerQuarter) * 1e6 / float64(prevMicros)
			tick += int(math.Round(deltaTicks))
		}
		points = append(points, TempoPoint{Tick: tick, Time: e.Time, MicrosPerQuarter: uint32(e.MicrosPerQuarter)})
		prevTime = e.Time
		prevMicros = uint32(e.MicrosPerQuarter)
	}
	return points
}

// rawTempoEvent is a Set Tempo event as decoded from SMF bytes, before
// its tick is known to be the first in the file.
type rawTempoEvent struct {
	Tick             int
	MicrosPerQuarter uint32
}

// buildTempoMapFromTicks turns the Set Tempo events gathered across
// every track of a file being read into a TempoMap with seconds
// computed forward from tick 0, synthesizing a default tick-0 entry
// when the file doesn't define one explicitly (per the SMF spec's
// "120 BPM until told otherwise" default).
func buildTempoMapFromTicks(raw []rawTempoEvent, ticksPerQuarter int) TempoMap {
	sort.Slice(raw, func(i, j int) bool { return raw[i].Tick < raw[j].Tick })
	if len(raw) == 0 || raw[0].Tick != 0 {
		raw = append([]rawTempoEvent{{Tick: 0, MicrosPerQuarter: defaultMicrosPerQuarter}}, raw...)
	}

	points := make(TempoMap, 0, len(raw))
	time := 0.0
	for i, r := range raw {
		if i > 0 {
			prev := raw[i-1]
			deltaTicks := r.Tick - prev.Tick
			time += float64(deltaTicks) * float64(prev.MicrosPerQuarter) / 1e6 / float64(ticksPerQuarter)
		}
		points = append(points, TempoPoint{Tick: r.Tick, Time: time, MicrosPerQuarter: r.MicrosPerQuarter})
	}
	return points
}
