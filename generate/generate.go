// Package generate implements the AST-to-MIDI lowering engine of
// spec.md §4.3: a stateful single-pass traversal of the AST that
// maintains per-part state (octave, quant, volume, pan, program, time
// cursor, default note length, tempo, key signature, transpose) plus
// program-wide marker and variable tables, and produces a timed
// event.Timeline.
//
// Grounded on the teacher's constrain/tighten/adjustSuccessor
// pitch-folding functions (etudes.go) for the octave-range-clamping
// idiom, and its mkMidi per-beat cursor advance for the
// "walk forward accumulating a time cursor" shape.
package generate

import (
	"github.com/ellisgrant-audio/aldacore/aldaerr"
	"github.com/ellisgrant-audio/aldacore/ast"
	"github.com/ellisgrant-audio/aldacore/event"
	"github.com/ellisgrant-audio/aldacore/token"
)

// Defaults carries the initial settings named by spec.md §4.3.
type Defaults struct {
	BPM                int // initial tempo; default 120
	TicksPerQuarter    int // default 480, consumed by the smf package
	DefaultDenominator int // default note-length denominator; default 4
	DefaultOctave      int // default octave; default 4
}

// DefaultDefaults returns spec.md §4.3's stated defaults.
func DefaultDefaults() Defaults {
	return Defaults{BPM: 120, TicksPerQuarter: 480, DefaultDenominator: 4, DefaultOctave: 4}
}

// genAbort unwinds generation to Generate on the first generation
// error, matching the parser's single-diagnostic-then-halt idiom.
type genAbort struct{ diag *aldaerr.Diagnostic }

// Generate lowers tree into a timed event sequence. It returns a
// generation error for an undefined variable/marker reference, an
// out-of-range octave or pitch, an unknown instrument, an unknown
// attribute name, a malformed attribute directive (empty, missing or
// non-numeric argument, or arguments to a dynamic marking), or a
// note-length denominator that is not positive.
func Generate(tree *ast.Tree, d Defaults) (tl *event.Timeline, diag *aldaerr.Diagnostic) {
	g := newGenerator(d)
	g.timeline.Events = append(g.timeline.Events, eventAt0TempoChange(g.globalTempo))

	defer func() {
		if r := recover(); r != nil {
			if a, ok := r.(genAbort); ok {
				tl, diag = nil, a.diag
				return
			}
			panic(r)
		}
	}()

	for _, child := range tree.Root.Children {
		switch child.Kind {
		case ast.PartDecl:
			g.selectOrCreatePart(child)
		case ast.EventSeq:
			part := g.currentPartOrDefault()
			g.processEventSeq(child, part)
		}
	}
	return g.timeline, nil
}

// eventAt0TempoChange seeds the timeline with the program's starting
// tempo, so a tempo directive is never required for the smf package
// to know what tempo the piece begins at.
func eventAt0TempoChange(bpm float64) event.Event {
	return event.Event{Kind: event.TempoChange, Time: 0, Channel: -1, MicrosPerQuarter: int(60000000.0 / bpm)}
}

func (g *generator) fail(pos token.Position, format string, args ...interface{}) {
	diag := aldaerr.New(aldaerr.GenerationError, pos, "", format, args...)
	panic(genAbort{diag})
}

// processEventSeq processes every child of an EventSeq/BracketSeq/
// Voice/VarDef node in order.
func (g *generator) processEventSeq(n *ast.Node, part *partState) {
	for _, child := range n.Children {
		g.processEvent(child, part)
	}
}

// processEvent dispatches a single event node to its handler.
func (g *generator) processEvent(n *ast.Node, part *partState) {
	switch n.Kind {
	case ast.Note:
		g.processNote(n, part)
	case ast.Rest:
		g.processRest(n, part)
	case ast.Chord:
		g.processChord(n, part)
	case ast.Barline:
		// no-op: a barline carries no musical time in this lowering.
	case ast.OctaveSet:
		g.setOctave(n, part, n.Octave)
	case ast.OctaveUp:
		g.setOctave(n, part, part.octave+1)
	case ast.OctaveDown:
		g.setOctave(n, part, part.octave-1)
	case ast.LispList:
		g.processAttribute(n, part)
	case ast.VarDef:
		g.vars[n.Name] = n.Children
	case ast.VarRef:
		events, ok := g.vars[n.Name]
		if !ok {
			g.fail(n.Pos, "undefined variable %q", n.Name)
		}
		g.processEventSeq(&ast.Node{Children: events}, part)
	case ast.Marker:
		g.markers[n.Name] = part.time
	case ast.AtMarker:
		t, ok := g.markers[n.Name]
		if !ok {
			g.fail(n.Pos, "undefined marker %q", n.Name)
		}
		part.time = t
	case ast.VoiceGroup:
		g.processVoiceGroup(n, part)
	case ast.Cram:
		g.processCram(n, part)
	case ast.BracketSeq:
		g.processEventSeq(n, part)
	case ast.Repeat:
		g.processRepeat(n, part)
	case ast.OnReps:
		g.processOnReps(n, part)
	default:
		g.fail(n.Pos, "%s cannot appear as an event", n.Kind)
	}
}

func (g *generator) setOctave(n *ast.Node, part *partState, octave int) {
	if octave < 0 || octave > 10 {
		g.fail(n.Pos, "octave %d is out of range 0-10", octave)
	}
	part.octave = octave
}

// processNote emits a NoteOn/NoteOff pair and advances the part's time
// cursor by the note's duration, per spec.md §4.3's timing/pitch
// algebra. A slurred note (a "~" immediately after its duration, per
// spec.md §4.2) gates for its full nominal duration rather than the
// part's quant percentage, matching the glossary's "requesting legato
// articulation."
func (g *generator) processNote(n *ast.Node, part *partState) {
	dur := g.resolveDuration(n.Dur, part) * part.cramScale
	pitch := g.pitchOf(n, part)
	quant := part.quant
	if n.Slurred {
		quant = 100
	}
	start := part.time
	gate := dur * float64(quant) / 100.0
	g.emitNote(start, gate, part, pitch)
	part.time = start + dur
}

func (g *generator) processRest(n *ast.Node, part *partState) {
	dur := g.resolveDuration(n.Dur, part) * part.cramScale
	part.time += dur
}

// processChord emits every constituent note at the chord's start time,
// advancing the part's cursor once per spec.md §4.3's "Chords" rule.
func (g *generator) processChord(n *ast.Node, part *partState) {
	firstDur := n.Dur
	if firstDur == nil {
		firstDur = n.Children[0].Dur
	}
	dur := g.resolveDuration(firstDur, part) * part.cramScale
	start := part.time
	for _, child := range n.Children {
		if child.Kind != ast.Note {
			continue // a Rest inside a chord is silent
		}
		pitch := g.pitchOf(child, part)
		quant := part.quant
		if child.Slurred {
			quant = 100
		}
		gate := dur * float64(quant) / 100.0
		g.emitNote(start, gate, part, pitch)
	}
	part.time = start + dur
}

// processVoiceGroup runs every voice from the group's shared start
// time and rejoins at the maximum end time, per spec.md §4.3.
func (g *generator) processVoiceGroup(n *ast.Node, part *partState) {
	start := part.time
	maxEnd := start
	for _, voice := range n.Children {
		part.time = start
		g.processEventSeq(voice, part)
		if part.time > maxEnd {
			maxEnd = part.time
		}
	}
	part.time = maxEnd
}

// processCram rescales its inner events to fit the outer duration, per
// spec.md §4.3: outer / sum(inner nominal durations). Nested crams
// multiply through via part.cramScale.
func (g *generator) processCram(n *ast.Node, part *partState) {
	outer := g.resolveDuration(n.Dur, part)
	nominal, err := measureEventSeq(n.Children, part.tempo, part.defaultDenom, part.defaultDots, g.currentRepPass(), g.vars)
	if err != nil {
		g.fail(n.Pos, "%v", err)
	}
	scale := 0.0
	if nominal > 0 {
		scale = outer / nominal
	}
	saved := part.cramScale
	part.cramScale *= scale
	start := part.time
	g.processEventSeq(n, part)
	part.cramScale = saved
	part.time = start + outer
}

// processRepeat expands its inner event Count times in place, tracking
// the current 1-based pass in g.repPass so an OnReps tag nested inside
// the repeated group (rather than wrapping the Repeat itself) can
// filter by the pass actually running.
func (g *generator) processRepeat(n *ast.Node, part *partState) {
	inner := n.Children[0]
	saved := g.repPass
	for i := 1; i <= n.Count; i++ {
		g.repPass = i
		g.runInnerOnce(inner, part)
	}
	g.repPass = saved
}

// processOnReps filters a wrapped Repeat so the inner event only plays
// on the selected 1-based repetition indices, per spec.md §4.3's
// "Brackets and repeats" rule: skipped passes consume no time. When
// OnReps instead tags a single event nested inside a repeated group
// (e.g. "[c d'2 e]*3"), it filters against the enclosing Repeat's
// current pass, g.currentRepPass().
func (g *generator) processOnReps(n *ast.Node, part *partState) {
	inner := n.Children[0]
	if inner.Kind == ast.Repeat {
		repeated := inner.Children[0]
		saved := g.repPass
		for i := 1; i <= inner.Count; i++ {
			if ast.Contains(n.Reps, i) {
				g.repPass = i
				g.runInnerOnce(repeated, part)
			}
		}
		g.repPass = saved
		return
	}
	if ast.Contains(n.Reps, g.currentRepPass()) {
		g.runInnerOnce(inner, part)
	}
}

func (g *generator) runInnerOnce(inner *ast.Node, part *partState) {
	if inner.Kind == ast.BracketSeq {
		g.processEventSeq(inner, part)
		return
	}
	g.processEvent(inner, part)
}

func (g *generator) emitNote(start, gate float64, part *partState, pitch int) {
	g.timeline.Events = append(g.timeline.Events, event.Event{
		Kind: event.NoteOn, Time: start, Channel: part.channel,
		Pitch: pitch, Velocity: part.volume,
	})
	g.timeline.Events = append(g.timeline.Events, event.Event{
		Kind: event.NoteOff, Time: start + gate, Channel: part.channel, Pitch: pitch,
	})
}
