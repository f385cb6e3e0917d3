// Package lower implements the reverse-lowering half of spec.md §4.5:
// turning a decoded event.Timeline back into an ast.Tree for
// inspection or re-emission, completing the round trip
// parse -> generate -> smf.Write -> smf.Read -> lower.Lower named by
// SPEC_FULL.md §7.
//
// The recovered tree is a faithful debug rendering, not an attempt at
// idiomatic re-notation: every recovered duration is an exact
// NoteLengthS (seconds) node rather than a best-fit note-length
// fraction, so the round trip loses no precision to quantization
// except at note start times, which are snapped to the requested beat
// grid per spec.md §4.5.
package lower

import (
	"sort"

	"github.com/ellisgrant-audio/aldacore/ast"
	"github.com/ellisgrant-audio/aldacore/event"
	"github.com/ellisgrant-audio/aldacore/gm"
	"github.com/ellisgrant-audio/aldacore/token"
)

// noteSpan is a paired NoteOn/NoteOff, before grid quantization.
type noteSpan struct {
	start, end float64
	pitch      int
}

// Lower reconstructs an ast.Tree from tl, one PartDecl+EventSeq per
// channel used, in the order tl.Channels returns them (first
// appearance in tl). gridDenominator is the
// beat-grid resolution (e.g. 16 for a 1/16-note grid) that note start
// times are snapped to; spec.md §4.5 default is 16.
func Lower(tl *event.Timeline, gridDenominator int) *ast.Tree {
	if gridDenominator <= 0 {
		gridDenominator = 16
	}
	root := ast.NewRoot(token.Position{})
	tempoEvents := tl.TempoEvents()

	for _, ch := range tl.Channels() {
		events := tl.ForChannel(ch)
		instrument := instrumentNameForChannel(ch, events)
		root.Children = append(root.Children, &ast.Node{
			Kind: ast.PartDecl, Instruments: []string{instrument},
		})

		spans := pairNoteSpans(events)
		groups := groupByQuantizedStart(spans, gridDenominator, tempoEvents)
		seq := buildEventSeq(groups, gridDenominator, tempoEvents)
		root.Children = append(root.Children, seq)
	}

	return &ast.Tree{Root: root}
}

// instrumentNameForChannel resolves a channel's ProgramChange event
// to a canonical GM instrument name, falling back to the General MIDI
// channel-10 percussion convention or an "unknown-instrument" marker.
func instrumentNameForChannel(channel int, events []event.Event) string {
	if channel == 9 {
		return "standard-kit"
	}
	for _, e := range events {
		if e.Kind == event.ProgramChange {
			if name, err := gm.NameForProgram(e.Program); err == nil {
				return name
			}
		}
	}
	return "unknown-instrument"
}

// pairNoteSpans matches NoteOn/NoteOff pairs first-in-first-out:
// within one pitch, the earliest unmatched NoteOn pairs with the next
// NoteOff, handling the overlapping-same-pitch case in time order.
func pairNoteSpans(events []event.Event) []noteSpan {
	open := map[int][]event.Event{} // pitch -> queue of unmatched NoteOn
	var spans []noteSpan
	for _, e := range events {
		switch e.Kind {
		case event.NoteOn:
			open[e.Pitch] = append(open[e.Pitch], e)
		case event.NoteOff:
			q := open[e.Pitch]
			if len(q) == 0 {
				continue // unmatched NoteOff; ignore
			}
			on := q[0]
			open[e.Pitch] = q[1:]
			spans = append(spans, noteSpan{start: on.Time, end: e.Time, pitch: e.Pitch})
		}
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return spans
}

// quantizedGroup is every note sharing one quantized start time.
type quantizedGroup struct {
	start float64 // quantized
	spans []noteSpan
}

func gridSeconds(t float64, gridDenominator int, tempoEvents []event.Event) float64 {
	bpm := 120.0
	for _, te := range tempoEvents {
		if te.Time > t {
			break
		}
		bpm = 60000000.0 / float64(te.MicrosPerQuarter)
	}
	whole := 4 * 60 / bpm
	return whole / float64(gridDenominator)
}

func quantize(t float64, gridDenominator int, tempoEvents []event.Event) float64 {
	g := gridSeconds(t, gridDenominator, tempoEvents)
	if g <= 0 {
		return t
	}
	steps := t / g
	rounded := float64(int(steps + 0.5))
	return rounded * g
}

func groupByQuantizedStart(spans []noteSpan, gridDenominator int, tempoEvents []event.Event) []quantizedGroup {
	var groups []quantizedGroup
	for _, s := range spans {
		qs := quantize(s.start, gridDenominator, tempoEvents)
		if n := len(groups); n > 0 && groups[n-1].start == qs {
			groups[n-1].spans = append(groups[n-1].spans, s)
			continue
		}
		groups = append(groups, quantizedGroup{start: qs, spans: []noteSpan{s}})
	}
	return groups
}

// buildEventSeq turns quantized note groups into Note/Chord/Rest
// nodes, inserting a Rest for any gap between groups at least one
// grid unit wide, per spec.md §4.5.
func buildEventSeq(groups []quantizedGroup, gridDenominator int, tempoEvents []event.Event) *ast.Node {
	seq := &ast.Node{Kind: ast.EventSeq}
	currentOctave := -1
	cursor := 0.0

	for _, grp := range groups {
		gap := grp.start - cursor
		if g := gridSeconds(grp.start, gridDenominator, tempoEvents); gap >= g {
			seq.Children = append(seq.Children, &ast.Node{
				Kind: ast.Rest,
				Dur:  &ast.Node{Kind: ast.Duration, Children: []*ast.Node{{Kind: ast.NoteLengthS, Sec: gap}}},
			})
		}

		var notes []*ast.Node
		maxEnd := grp.start
		for _, s := range grp.spans {
			letter, accid, octave := pitchToNote(s.pitch)
			if octave != currentOctave {
				seq.Children = append(seq.Children, &ast.Node{Kind: ast.OctaveSet, Octave: octave})
				currentOctave = octave
			}
			dur := s.end - s.start
			notes = append(notes, &ast.Node{
				Kind: ast.Note, Letter: letter, Accidentals: accid,
				Dur: &ast.Node{Kind: ast.Duration, Children: []*ast.Node{{Kind: ast.NoteLengthS, Sec: dur}}},
			})
			if s.end > maxEnd {
				maxEnd = s.end
			}
		}
		if len(notes) == 1 {
			seq.Children = append(seq.Children, notes[0])
		} else if len(notes) > 1 {
			seq.Children = append(seq.Children, &ast.Node{Kind: ast.Chord, Children: notes})
		}
		cursor = maxEnd
	}
	return seq
}

var semitoneNames = [12]struct {
	letter byte
	accid  string
}{
	{'c', ""}, {'c', "+"}, {'d', ""}, {'d', "+"}, {'e', ""}, {'f', ""},
	{'f', "+"}, {'g', ""}, {'g', "+"}, {'a', ""}, {'a', "+"}, {'b', ""},
}

// pitchToNote maps a MIDI pitch number back to a letter, accidental,
// and octave, inverse to generate.pitchOf's c4==60 convention.
func pitchToNote(pitch int) (letter byte, accidentals string, octave int) {
	octave = pitch/12 - 1
	n := semitoneNames[((pitch%12)+12)%12]
	return n.letter, n.accid, octave
}
