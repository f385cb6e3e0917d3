package generate

import (
	"github.com/ellisgrant-audio/aldacore/ast"
	"github.com/ellisgrant-audio/aldacore/event"
	"github.com/ellisgrant-audio/aldacore/gm"
)

// partState is the per-part generator state named by spec.md §4.3: an
// octave, a quant percentage, a volume, a pan, a channel/program, a
// time cursor, a default note length, a tempo, a key signature, a
// transpose offset, and the cram-nesting scale factor currently in
// effect.
//
// The variable and marker tables are generator-global rather than
// per-part (see the decision recorded in DESIGN.md): scenario 7 of
// spec.md §8 requires one part's marker to be visible from another
// part's event stream, which a per-part table cannot express.
type partState struct {
	key     string
	channel int

	octave       int
	quant        int
	volume       int
	pan          int
	program      int
	time         float64
	defaultDenom int
	defaultDots  int
	tempo        float64
	keySig       map[byte]int
	transpose    int
	cramScale    float64
}

const (
	defaultVelocity = 100
	defaultPan      = 64
)

func newPartState(channel int, tempo float64, d Defaults) *partState {
	return &partState{
		channel:      channel,
		octave:       d.DefaultOctave,
		quant:        90,
		volume:       defaultVelocity,
		pan:          defaultPan,
		time:         0,
		defaultDenom: d.DefaultDenominator,
		defaultDots:  0,
		tempo:        tempo,
		keySig:       map[byte]int{},
		cramScale:    1,
	}
}

// generator holds the whole-program state threaded through Generate.
type generator struct {
	defaults       Defaults
	globalTempo    float64
	parts          map[string]*partState
	current        *partState
	nonPercussionN int

	vars     map[string][]*ast.Node
	markers  map[string]float64
	timeline *event.Timeline

	// repPass is the 1-based pass index of the innermost Repeat
	// currently being expanded, 0 when not inside one. It lets an
	// OnReps tag on an event nested inside a repeated group (e.g.
	// "[c d'2 e]*3") filter by the pass actually in progress, not just
	// the "OnReps directly wraps a Repeat" case.
	repPass int
}

// currentRepPass returns the active repetition pass, defaulting to 1
// when no enclosing Repeat is in progress.
func (g *generator) currentRepPass() int {
	if g.repPass == 0 {
		return 1
	}
	return g.repPass
}

func newGenerator(d Defaults) *generator {
	return &generator{
		defaults: d,
		globalTempo: func() float64 {
			if d.BPM > 0 {
				return float64(d.BPM)
			}
			return 120
		}(),
		parts:    map[string]*partState{},
		vars:     map[string][]*ast.Node{},
		markers:  map[string]float64{},
		timeline: &event.Timeline{},
	}
}

// assignChannel returns the 0-based MIDI channel for the nth
// (0-based) non-percussion part declared, skipping channel 9 (MIDI
// channel 10, reserved for percussion) and wrapping at 16, per
// spec.md §4.3's channel-assignment rule.
func assignChannel(nth int) int {
	ch := nth % 15
	if ch >= 9 {
		ch++
	}
	return ch
}

// selectOrCreatePart switches g.current to the part named by decl,
// creating it (and its ProgramChange event) on first declaration. A
// repeated declaration of the same key reselects the existing part
// without reassigning its channel or program.
func (g *generator) selectOrCreatePart(decl *ast.Node) {
	key := decl.Alias
	if key == "" {
		key = decl.Instruments[0]
	}
	if p, ok := g.parts[key]; ok {
		g.current = p
		return
	}

	inst, err := gm.Lookup(decl.Instruments[0])
	if err != nil {
		g.fail(decl.Pos, "%v", err)
	}

	channel := 9
	if !inst.Percussion {
		channel = assignChannel(g.nonPercussionN)
		g.nonPercussionN++
	}

	p := newPartState(channel, g.globalTempo, g.defaults)
	p.key = key
	p.program = inst.Program
	g.parts[key] = p
	g.current = p

	g.timeline.Events = append(g.timeline.Events, event.Event{
		Kind: event.ProgramChange, Time: 0, Channel: channel, Program: inst.Program,
	})
}

// currentPartOrDefault returns the part under construction, creating
// an unnamed default part (channel 0, GM program 0) when an event
// sequence appears before any part declaration, per spec.md §4.2's
// `root := (part_block | event_seq)*` grammar.
func (g *generator) currentPartOrDefault() *partState {
	if g.current != nil {
		return g.current
	}
	p := newPartState(assignChannel(g.nonPercussionN), g.globalTempo, g.defaults)
	g.nonPercussionN++
	p.key = "default"
	g.parts[p.key] = p
	g.current = p
	g.timeline.Events = append(g.timeline.Events, event.Event{
		Kind: event.ProgramChange, Time: 0, Channel: p.channel, Program: 0,
	})
	return p
}
