package generate

import (
	"testing"

	"github.com/ellisgrant-audio/aldacore/event"
	"github.com/ellisgrant-audio/aldacore/parser"
	"github.com/stretchr/testify/require"
)

func mustGenerate(t *testing.T, source string) *event.Timeline {
	t.Helper()
	tree, diag := parser.Parse(source, "t.alda")
	require.Nil(t, diag, "parse: %v", diag)
	tl, gdiag := Generate(tree, DefaultDefaults())
	require.Nil(t, gdiag, "generate: %v", gdiag)
	return tl
}

func noteOns(tl *event.Timeline) []event.Event {
	var out []event.Event
	for _, e := range tl.Events {
		if e.Kind == event.NoteOn {
			out = append(out, e)
		}
	}
	return out
}

func TestGenerateSimpleNoteTimingAndPitch(t *testing.T) {
	tl := mustGenerate(t, "piano: c4")
	ons := noteOns(tl)
	require.Len(t, ons, 1)
	require.Equal(t, 60, ons[0].Pitch)
	require.Equal(t, 0.0, ons[0].Time)

	var off event.Event
	for _, e := range tl.Events {
		if e.Kind == event.NoteOff {
			off = e
		}
	}
	// whole = 4*60/120 = 2s; quarter = 0.5s; quant 90% -> 0.45s gate.
	require.InDelta(t, 0.45, off.Time, 1e-9)
}

func TestGenerateDottedDuration(t *testing.T) {
	tl := mustGenerate(t, "piano: c4.")
	var onTime, offTime float64
	for _, e := range tl.Events {
		switch e.Kind {
		case event.NoteOn:
			onTime = e.Time
		case event.NoteOff:
			offTime = e.Time
		}
	}
	// quarter*1.5 = 0.75s nominal, 90% gate = 0.675s
	require.InDelta(t, 0, onTime, 1e-9)
	require.InDelta(t, 0.675, offTime, 1e-9)
}

func TestGenerateTiedDurationSumsComponents(t *testing.T) {
	tl := mustGenerate(t, "piano: c4~4")
	ons, offs := 0, 0
	var offTime float64
	for _, e := range tl.Events {
		if e.Kind == event.NoteOn {
			ons++
		}
		if e.Kind == event.NoteOff {
			offs++
			offTime = e.Time
		}
	}
	require.Equal(t, 1, ons)
	require.Equal(t, 1, offs)
	// two quarters at 0.5s each = 1.0s nominal, 90% gate = 0.9s
	require.InDelta(t, 0.9, offTime, 1e-9)
}

func TestGenerateOctaveChangeShiftsPitch(t *testing.T) {
	tl := mustGenerate(t, "piano: o5 c")
	ons := noteOns(tl)
	require.Equal(t, 72, ons[0].Pitch)
}

func TestGenerateAccidentalsOverrideKeySignature(t *testing.T) {
	tl := mustGenerate(t, `piano: (key-signature "c+") c c+ c_`)
	ons := noteOns(tl)
	require.Len(t, ons, 3)
	require.Equal(t, 61, ons[0].Pitch) // inherits key signature's sharp
	require.Equal(t, 61, ons[1].Pitch) // explicit sharp
	require.Equal(t, 60, ons[2].Pitch) // explicit natural cancels it
}

func TestGenerateChordSharesStartAndDuration(t *testing.T) {
	tl := mustGenerate(t, "piano: c/e/g4")
	ons := noteOns(tl)
	require.Len(t, ons, 3)
	for _, o := range ons {
		require.Equal(t, 0.0, o.Time)
	}
	require.ElementsMatch(t, []int{60, 64, 67}, []int{ons[0].Pitch, ons[1].Pitch, ons[2].Pitch})
}

func TestGenerateCramRescalesToOuterDuration(t *testing.T) {
	tl := mustGenerate(t, "piano: {c d e}4")
	ons := noteOns(tl)
	require.Len(t, ons, 3)
	// outer = quarter = 0.5s, split evenly across 3 quarters-worth
	// nominal (1.5s), so each inner note takes 1/3 of 0.5s.
	require.InDelta(t, 0.0, ons[0].Time, 1e-9)
	require.InDelta(t, 0.5/3, ons[1].Time, 1e-9)
	require.InDelta(t, 2*0.5/3, ons[2].Time, 1e-9)
}

func TestGenerateRepeatExpandsEvents(t *testing.T) {
	tl := mustGenerate(t, "piano: [c]*3")
	require.Len(t, noteOns(tl), 3)
}

func TestGenerateOnRepsFiltersSelectedPasses(t *testing.T) {
	tl := mustGenerate(t, "piano: [c d]*3'1,3")
	ons := noteOns(tl)
	require.Len(t, ons, 4) // two notes per selected pass, passes 1 and 3
}

func TestGenerateOnRepsFiltersEventNestedInsideRepeat(t *testing.T) {
	tl := mustGenerate(t, "piano: [c d'2]*3")
	ons := noteOns(tl)
	// c plays on all 3 passes; d only on pass 2: 3 + 1 = 4 notes, with
	// d appearing third (after pass-1's c and pass-2's c).
	require.Len(t, ons, 4)
	require.Equal(t, 62, ons[2].Pitch) // d, played during pass 2
}

func TestGenerateCramPropagatesDefaultDenomToInnerNotes(t *testing.T) {
	tl := mustGenerate(t, "piano: {c8 d e}4")
	ons := noteOns(tl)
	require.Len(t, ons, 3)
	// c8 sets the default to 1/8 for d and e, so the nominal cram sum is
	// 1/8+1/8+1/8 = 3/8 whole notes; the outer quarter (1/4) is split
	// across that sum in equal 1/3 shares, same as {c d e}4's 1/3-each
	// split since all three inner notes share one denominator.
	require.InDelta(t, 0.0, ons[0].Time, 1e-9)
	require.InDelta(t, 0.5/3, ons[1].Time, 1e-9)
	require.InDelta(t, 2*0.5/3, ons[2].Time, 1e-9)
}

func TestGenerateVariableExpandsInline(t *testing.T) {
	tl := mustGenerate(t, "theme = c d e\npiano: theme theme")
	require.Len(t, noteOns(tl), 6)
}

func TestGenerateMarkerVisibleAcrossParts(t *testing.T) {
	tl := mustGenerate(t, "piano: c4 %here\nviolin: @here d4")
	var violinOnTime float64
	for _, e := range tl.Events {
		if e.Kind == event.NoteOn && e.Channel == 1 {
			violinOnTime = e.Time
		}
	}
	require.InDelta(t, 0.5, violinOnTime, 1e-9)
}

func TestGenerateTempoDirectiveChangesSubsequentDurations(t *testing.T) {
	tl := mustGenerate(t, "piano: (tempo 60) c4")
	var onTime, offTime float64
	for _, e := range tl.Events {
		if e.Kind == event.NoteOn {
			onTime = e.Time
		}
		if e.Kind == event.NoteOff {
			offTime = e.Time
		}
	}
	require.Equal(t, 0.0, onTime)
	// at 60bpm, whole=4s, quarter=1s, 90% gate = 0.9s
	require.InDelta(t, 0.9, offTime, 1e-9)
}

func TestGenerateDynamicMarkingSetsVelocity(t *testing.T) {
	tl := mustGenerate(t, "piano: (mf) c4 (pp) d4")
	ons := noteOns(tl)
	require.Len(t, ons, 2)
	require.Equal(t, 70, ons[0].Velocity)
	require.Equal(t, 25, ons[1].Velocity)
}

func TestGenerateTransposeArithmeticExpression(t *testing.T) {
	tl := mustGenerate(t, "piano: (transpose (- 0 12)) c4")
	ons := noteOns(tl)
	require.Equal(t, 48, ons[0].Pitch)
}

func TestGenerateUndefinedVariableIsGenerationError(t *testing.T) {
	tree, diag := parser.Parse("piano: nope", "t.alda")
	require.Nil(t, diag)
	_, gdiag := Generate(tree, DefaultDefaults())
	require.NotNil(t, gdiag)
	require.Contains(t, gdiag.Error(), "undefined variable")
}

func TestGenerateUndefinedMarkerIsGenerationError(t *testing.T) {
	tree, diag := parser.Parse("piano: @nowhere c", "t.alda")
	require.Nil(t, diag)
	_, gdiag := Generate(tree, DefaultDefaults())
	require.NotNil(t, gdiag)
	require.Contains(t, gdiag.Error(), "undefined marker")
}

func TestGenerateOutOfRangeOctaveIsGenerationError(t *testing.T) {
	tree, diag := parser.Parse("piano: o11 c", "t.alda")
	require.Nil(t, diag)
	_, gdiag := Generate(tree, DefaultDefaults())
	require.NotNil(t, gdiag)
	require.Contains(t, gdiag.Error(), "out of range")
}

func TestGenerateUnknownInstrumentIsGenerationError(t *testing.T) {
	tree, diag := parser.Parse("kazoo: c", "t.alda")
	require.Nil(t, diag)
	_, gdiag := Generate(tree, DefaultDefaults())
	require.NotNil(t, gdiag)
	require.Contains(t, gdiag.Error(), "not a supported instrument")
}

func TestGenerateChannelAssignmentSkipsPercussionChannel(t *testing.T) {
	tl := mustGenerate(t, "piano: c\nviolin: c\nviola: c\ncello: c\ncontrabass: c\n"+
		"flute: c\noboe: c\nclarinet: c\nbassoon: c\ntrumpet: c")
	chans := tl.Channels()
	require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}, chans)
}
