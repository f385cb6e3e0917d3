package generate

import (
	"fmt"
	"math"

	"github.com/ellisgrant-audio/aldacore/ast"
	"github.com/ellisgrant-audio/aldacore/token"
)

// wholeNoteSeconds is spec.md §4.3's tempo-to-time formula: a whole
// note lasts 4*60/bpm seconds.
func wholeNoteSeconds(bpm float64) float64 {
	return 4 * 60 / bpm
}

// durationOfNoteLength applies the dotted-duration formula of
// spec.md §4.3: base * (2 - 2^-dots), base = whole/denom.
func durationOfNoteLength(denom, dots int, bpm float64) (float64, error) {
	if denom <= 0 {
		return 0, fmt.Errorf("note-length denominator must be positive, got %d", denom)
	}
	base := wholeNoteSeconds(bpm) / float64(denom)
	factor := 2 - math.Pow(2, -float64(dots))
	return base * factor, nil
}

// durationOfComponent resolves one DurationComponent (NoteLength,
// NoteLengthMs, or NoteLengthS); the Ms/S forms bypass tempo entirely,
// per spec.md §4.3.
func durationOfComponent(n *ast.Node, bpm float64) (float64, error) {
	switch n.Kind {
	case ast.NoteLength:
		return durationOfNoteLength(n.Denom, n.Dots, bpm)
	case ast.NoteLengthMs:
		return float64(n.Ms) / 1000.0, nil
	case ast.NoteLengthS:
		return n.Sec, nil
	default:
		return 0, fmt.Errorf("%s is not a duration component", n.Kind)
	}
}

// durationOfDuration sums a (possibly tied) Duration node's
// components, per spec.md §4.3's tied-duration summation rule.
func durationOfDuration(dur *ast.Node, bpm float64) (float64, error) {
	var total float64
	for _, c := range dur.Children {
		d, err := durationOfComponent(c, bpm)
		if err != nil {
			return 0, err
		}
		total += d
	}
	return total, nil
}

// resolveDuration computes the duration in seconds for an optional
// Duration node, falling back to the part's current default note
// length. Supplying an explicit duration whose first component is a
// plain NoteLength updates that default for subsequent undimensioned
// notes, per spec.md §4.3.
func (g *generator) resolveDuration(dur *ast.Node, part *partState) float64 {
	if dur == nil {
		d, err := durationOfNoteLength(part.defaultDenom, part.defaultDots, part.tempo)
		if err != nil {
			g.fail(token.Position{}, "%v", err)
		}
		return d
	}
	d, err := durationOfDuration(dur, part.tempo)
	if err != nil {
		g.fail(dur.Pos, "%v", err)
	}
	if first := dur.Children[0]; first.Kind == ast.NoteLength {
		part.defaultDenom = first.Denom
		part.defaultDots = first.Dots
	}
	return d
}

// measureState carries the running tempo and default note-length
// denominator/dots across a measuring pass, mirroring the part state
// resolveDuration reads and updates during real generation.
type measureState struct {
	bpm         float64
	denom, dots int
	vars        map[string][]*ast.Node

	// repPass is the 1-based pass index of the innermost Repeat
	// currently being measured, 0 when none is in progress. Mirrors
	// generator.repPass so a plain OnReps tag nested inside a repeated
	// group measures against the pass actually being summed.
	repPass int
}

// currentPass returns st's active repetition pass, defaulting to 1
// when no enclosing Repeat is being measured.
func currentPass(st *measureState) int {
	if st.repPass == 0 {
		return 1
	}
	return st.repPass
}

// measureEventSeq computes the nominal (untempo-scaled by any
// enclosing cram) duration of an event list, used by processCram to
// compute its inner/outer scale factor per spec.md §4.3's "Crams"
// rule. It does not mutate any part or emit any events, but it does
// thread default-note-length updates across the sequence the same way
// resolveDuration does, so e.g. `{c8 d e}` measures d and e at 1/8
// rather than the cram's entry default.
func measureEventSeq(events []*ast.Node, bpm float64, defDenom, defDots, repPass int, vars map[string][]*ast.Node) (float64, error) {
	st := &measureState{bpm: bpm, denom: defDenom, dots: defDots, vars: vars, repPass: repPass}
	return measureEventSeqState(events, st)
}

func measureEventSeqState(events []*ast.Node, st *measureState) (float64, error) {
	var total float64
	for _, n := range events {
		d, err := measureEvent(n, st)
		if err != nil {
			return 0, err
		}
		total += d
	}
	return total, nil
}

// measureDuration resolves n (a Note/Rest/Chord/Cram's optional
// Duration node) exactly as resolveDuration does for the real
// traversal: falling back to st's current default, and updating that
// default when n's first component is a plain NoteLength.
func measureDuration(n *ast.Node, st *measureState) (float64, error) {
	if n == nil {
		return durationOfNoteLength(st.denom, st.dots, st.bpm)
	}
	d, err := durationOfDuration(n, st.bpm)
	if err != nil {
		return 0, err
	}
	if first := n.Children[0]; first.Kind == ast.NoteLength {
		st.denom = first.Denom
		st.dots = first.Dots
	}
	return d, nil
}

func measureEvent(n *ast.Node, st *measureState) (float64, error) {
	switch n.Kind {
	case ast.Note, ast.Rest:
		return measureDuration(n.Dur, st)

	case ast.Chord:
		firstDur := n.Dur
		if firstDur == nil {
			firstDur = n.Children[0].Dur
		}
		return measureDuration(firstDur, st)

	case ast.Cram:
		return measureDuration(n.Dur, st)

	case ast.BracketSeq:
		return measureEventSeqState(n.Children, st)

	case ast.Repeat:
		savedPass := st.repPass
		var total float64
		for i := 1; i <= n.Count; i++ {
			st.repPass = i
			d, err := measureRepeatedInner(n.Children[0], st)
			if err != nil {
				st.repPass = savedPass
				return 0, err
			}
			total += d
		}
		st.repPass = savedPass
		return total, nil

	case ast.OnReps:
		return measureOnReps(n, st)

	case ast.VoiceGroup:
		var max float64
		for _, v := range n.Children {
			d, err := measureEventSeqState(v.Children, st)
			if err != nil {
				return 0, err
			}
			if d > max {
				max = d
			}
		}
		return max, nil

	case ast.VarRef:
		events, ok := st.vars[n.Name]
		if !ok {
			return 0, fmt.Errorf("undefined variable %q", n.Name)
		}
		return measureEventSeqState(events, st)

	default:
		// Barline, OctaveSet/Up/Down, Marker, AtMarker, LispList, VarDef
		// consume no musical time.
		return 0, nil
	}
}

func measureRepeatedInner(inner *ast.Node, st *measureState) (float64, error) {
	if inner.Kind == ast.BracketSeq {
		return measureEventSeqState(inner.Children, st)
	}
	return measureEvent(inner, st)
}

func measureOnReps(n *ast.Node, st *measureState) (float64, error) {
	inner := n.Children[0]
	if inner.Kind != ast.Repeat {
		if ast.Contains(n.Reps, currentPass(st)) {
			return measureEvent(inner, st)
		}
		return 0, nil
	}
	savedPass := st.repPass
	var total float64
	for i := 1; i <= inner.Count; i++ {
		if !ast.Contains(n.Reps, i) {
			continue
		}
		st.repPass = i
		d, err := measureRepeatedInner(inner.Children[0], st)
		if err != nil {
			st.repPass = savedPass
			return 0, err
		}
		total += d
	}
	st.repPass = savedPass
	return total, nil
}
