package parser

import (
	"testing"

	"github.com/ellisgrant-audio/aldacore/ast"
	"github.com/go-test/deep"
	"github.com/stretchr/testify/require"
)

func TestParseSimplePartAndNotes(t *testing.T) {
	tree, diag := Parse("piano: c d e", "t.alda")
	require.Nil(t, diag)
	require.Len(t, tree.Root.Children, 2)

	pd := tree.Root.Children[0]
	require.Equal(t, ast.PartDecl, pd.Kind)
	require.Equal(t, []string{"piano"}, pd.Instruments)

	seq := tree.Root.Children[1]
	require.Equal(t, ast.EventSeq, seq.Kind)
	require.Len(t, seq.Children, 3)
	for i, want := range []byte{'c', 'd', 'e'} {
		require.Equal(t, ast.Note, seq.Children[i].Kind)
		require.Equal(t, want, seq.Children[i].Letter)
	}
}

func TestParseMultiInstrumentAliasedPart(t *testing.T) {
	tree, diag := Parse(`violin/viola "strings": c`, "t.alda")
	require.Nil(t, diag)
	pd := tree.Root.Children[0]
	if diff := deep.Equal([]string{"violin", "viola"}, pd.Instruments); diff != nil {
		t.Fatalf("unexpected instruments: %v", diff)
	}
	require.Equal(t, "strings", pd.Alias)
}

func TestParseTiedDurationAndSlur(t *testing.T) {
	tree, diag := Parse("piano: c1~1~", "t.alda")
	require.Nil(t, diag)
	note := tree.Root.Children[1].Children[0]
	require.True(t, note.Slurred)
	require.Len(t, note.Dur.Children, 2)
	require.Equal(t, 1, note.Dur.Children[0].Denom)
	require.Equal(t, 1, note.Dur.Children[1].Denom)
}

func TestParseChord(t *testing.T) {
	tree, diag := Parse("piano: c/e/g", "t.alda")
	require.Nil(t, diag)
	chord := tree.Root.Children[1].Children[0]
	require.Equal(t, ast.Chord, chord.Kind)
	require.Len(t, chord.Children, 3)
}

func TestParseCramWithOuterDuration(t *testing.T) {
	tree, diag := Parse("piano: {c d e}4", "t.alda")
	require.Nil(t, diag)
	cram := tree.Root.Children[1].Children[0]
	require.Equal(t, ast.Cram, cram.Kind)
	require.Len(t, cram.Children, 3)
	require.NotNil(t, cram.Dur)
	require.Equal(t, 4, cram.Dur.Children[0].Denom)
}

func TestParseVariableDefinitionAndReference(t *testing.T) {
	tree, diag := Parse("theme = c d e\npiano: theme theme", "t.alda")
	require.Nil(t, diag)
	require.Len(t, tree.Root.Children, 3) // VarDef event_seq, PartDecl, EventSeq

	varSeq := tree.Root.Children[0]
	require.Equal(t, ast.EventSeq, varSeq.Kind)
	require.Len(t, varSeq.Children, 1)
	def := varSeq.Children[0]
	require.Equal(t, ast.VarDef, def.Kind)
	require.Equal(t, "theme", def.Name)
	require.Len(t, def.Children, 3)

	eventSeq := tree.Root.Children[2]
	require.Len(t, eventSeq.Children, 2)
	require.Equal(t, ast.VarRef, eventSeq.Children[0].Kind)
	require.Equal(t, "theme", eventSeq.Children[0].Name)
}

func TestParseMarkerAndAtMarker(t *testing.T) {
	tree, diag := Parse("piano: c %here d\nviolin: @here e", "t.alda")
	require.Nil(t, diag)
	pianoSeq := tree.Root.Children[1]
	require.Equal(t, ast.Marker, pianoSeq.Children[1].Kind)
	violinSeq := tree.Root.Children[3]
	require.Equal(t, ast.AtMarker, violinSeq.Children[0].Kind)
}

func TestParseBracketRepeat(t *testing.T) {
	tree, diag := Parse("piano: [c d]*3", "t.alda")
	require.Nil(t, diag)
	repeat := tree.Root.Children[1].Children[0]
	require.Equal(t, ast.Repeat, repeat.Kind)
	require.Equal(t, 3, repeat.Count)
	require.Equal(t, ast.BracketSeq, repeat.Children[0].Kind)
}

func TestParseOnRepsSpecifier(t *testing.T) {
	tree, diag := Parse("piano: [c d e]*3'1-2", "t.alda")
	require.Nil(t, diag)
	repeat := tree.Root.Children[1].Children[0]
	require.Equal(t, ast.OnReps, repeat.Kind)
	require.Len(t, repeat.Reps, 1)
	require.Equal(t, 1, repeat.Reps[0].Lo)
	require.Equal(t, 2, repeat.Reps[0].Hi)
	require.Equal(t, ast.Repeat, repeat.Children[0].Kind)
}

func TestParseVoiceGroup(t *testing.T) {
	tree, diag := Parse("piano: V1: c d V2: e f V0:", "t.alda")
	require.Nil(t, diag)
	vg := tree.Root.Children[1].Children[0]
	require.Equal(t, ast.VoiceGroup, vg.Kind)
	require.Len(t, vg.Children, 2)
	require.Equal(t, 1, vg.Children[0].VoiceNum)
	require.Equal(t, 2, vg.Children[1].VoiceNum)
}

func TestParseLispAttribute(t *testing.T) {
	tree, diag := Parse("piano: (tempo 60) c4", "t.alda")
	require.Nil(t, diag)
	sexp := tree.Root.Children[1].Children[0]
	require.Equal(t, ast.LispList, sexp.Kind)
	require.Len(t, sexp.Children, 2)
	require.Equal(t, ast.LispSymbol, sexp.Children[0].Kind)
	require.Equal(t, "tempo", sexp.Children[0].Name)
	require.Equal(t, ast.LispNumber, sexp.Children[1].Kind)
	require.Equal(t, 60, sexp.Children[1].IntNum)
}

func TestParseNestedSexp(t *testing.T) {
	tree, diag := Parse("piano: (transpose (- 0 12))", "t.alda")
	require.Nil(t, diag)
	outer := tree.Root.Children[1].Children[0]
	require.Len(t, outer.Children, 2)
	inner := outer.Children[1]
	require.Equal(t, ast.LispList, inner.Kind)
	require.Len(t, inner.Children, 3)
}

func TestParseTopLevelEventSeqWithoutPart(t *testing.T) {
	tree, diag := Parse("c d e", "t.alda")
	require.Nil(t, diag)
	require.Len(t, tree.Root.Children, 1)
	require.Equal(t, ast.EventSeq, tree.Root.Children[0].Kind)
}

func TestParseMissingClosingBraceIsASyntaxError(t *testing.T) {
	_, diag := Parse("piano: {c d e", "t.alda")
	require.NotNil(t, diag)
	require.Contains(t, diag.Error(), "missing closing")
}

func TestParseUnexpectedTokenReportsPositionAndExcerpt(t *testing.T) {
	_, diag := Parse("piano: c )", "t.alda")
	require.NotNil(t, diag)
	require.NotEmpty(t, diag.Excerpt())
	require.Contains(t, diag.Excerpt(), "^")
}

func TestParseInvalidRepSpecIsASyntaxError(t *testing.T) {
	_, diag := Parse("piano: [c d]*3'3-1", "t.alda")
	require.NotNil(t, diag)
}
