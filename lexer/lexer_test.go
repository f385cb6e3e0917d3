package lexer

import (
	"testing"

	"github.com/ellisgrant-audio/aldacore/token"
	"github.com/stretchr/testify/require"
)

// kinds extracts the Kind sequence from a token slice, dropping the
// trailing EOF for readability in expectations.
func kinds(toks []token.Token) []token.Kind {
	var ks []token.Kind
	for _, t := range toks {
		if t.Kind == token.EOF {
			continue
		}
		ks = append(ks, t.Kind)
	}
	return ks
}

func TestScanSimpleNotes(t *testing.T) {
	toks, diag := Scan("piano: c d e", "t.alda")
	require.Nil(t, diag)
	require.Equal(t, []token.Kind{
		token.Name, token.Colon,
		token.NoteLetter, token.NoteLetter, token.NoteLetter,
	}, kinds(toks))
}

func TestScanNameNotMistakenForNoteLetter(t *testing.T) {
	toks, diag := Scan("read", "t.alda")
	require.Nil(t, diag)
	require.Equal(t, []token.Kind{token.Name}, kinds(toks))
	require.Equal(t, "read", toks[0].Text)
}

func TestScanRestNotMistakenForName(t *testing.T) {
	toks, diag := Scan("r4", "t.alda")
	require.Nil(t, diag)
	require.Equal(t, []token.Kind{token.RestLetter, token.Number}, kinds(toks))
}

func TestScanOctaveAndDuration(t *testing.T) {
	toks, diag := Scan("o4 c4.", "t.alda")
	require.Nil(t, diag)
	require.Equal(t, []token.Kind{
		token.OctaveSet, token.NoteLetter, token.Number, token.Dot,
	}, kinds(toks))
	require.Equal(t, 4, toks[0].IntVal)
}

func TestScanMillisecondAndSecondDurations(t *testing.T) {
	toks, diag := Scan("c500ms d2s", "t.alda")
	require.Nil(t, diag)
	require.Equal(t, []token.Kind{
		token.NoteLetter, token.NumberMs, token.NoteLetter, token.NumberS,
	}, kinds(toks))
	require.Equal(t, 500, toks[1].IntVal)
	require.InDelta(t, 2.0, toks[3].FloatVal, 1e-9)
}

func TestScanAccidentalsAndTieAndSlur(t *testing.T) {
	toks, diag := Scan("c+~4~", "t.alda")
	require.Nil(t, diag)
	require.Equal(t, []token.Kind{
		token.NoteLetter, token.Accidental, token.Tie, token.Number, token.Tie,
	}, kinds(toks))
}

func TestScanFlatAccidental(t *testing.T) {
	toks, diag := Scan("b-", "t.alda")
	require.Nil(t, diag)
	require.Equal(t, []token.Kind{token.NoteLetter, token.Accidental}, kinds(toks))
	require.Equal(t, "-", toks[1].Text)
}

func TestScanDoubleFlatAccidental(t *testing.T) {
	toks, diag := Scan("b--2", "t.alda")
	require.Nil(t, diag)
	require.Equal(t, []token.Kind{
		token.NoteLetter, token.Accidental, token.Accidental, token.Number,
	}, kinds(toks))
}

func TestScanHyphenatedNameNotMistakenForAccidental(t *testing.T) {
	toks, diag := Scan("acoustic-grand-piano:", "t.alda")
	require.Nil(t, diag)
	require.Equal(t, []token.Kind{token.Name, token.Colon}, kinds(toks))
	require.Equal(t, "acoustic-grand-piano", toks[0].Text)
}

func TestScanChordSlashSeparatedNotes(t *testing.T) {
	toks, diag := Scan("c/e/g", "t.alda")
	require.Nil(t, diag)
	require.Equal(t, []token.Kind{
		token.NoteLetter, token.Slash, token.NoteLetter, token.Slash, token.NoteLetter,
	}, kinds(toks))
}

func TestScanVoiceMarker(t *testing.T) {
	toks, diag := Scan("V1: c V0:", "t.alda")
	require.Nil(t, diag)
	require.Equal(t, []token.Kind{
		token.VoiceMarker, token.NoteLetter, token.VoiceMarker,
	}, kinds(toks))
	require.Equal(t, 1, toks[0].IntVal)
	require.Equal(t, 0, toks[2].IntVal)
}

func TestScanMarkerAndAtMarker(t *testing.T) {
	toks, diag := Scan("%here @here", "t.alda")
	require.Nil(t, diag)
	require.Equal(t, []token.Kind{token.Marker, token.AtMarker}, kinds(toks))
	require.Equal(t, "here", toks[0].Text)
}

func TestScanBracketRepeatAndReps(t *testing.T) {
	toks, diag := Scan("[c d]*3'1-2,4", "t.alda")
	require.Nil(t, diag)
	require.Equal(t, []token.Kind{
		token.BracketOpen, token.NoteLetter, token.NoteLetter, token.BracketClose,
		token.RepeatOp, token.RepetitionsOp,
	}, kinds(toks))
	require.Equal(t, 3, toks[4].IntVal)
	require.Equal(t, "1-2,4", toks[5].Text)
}

func TestScanCommentsAreSkipped(t *testing.T) {
	toks, diag := Scan("c # a comment\nd", "t.alda")
	require.Nil(t, diag)
	require.Equal(t, []token.Kind{token.NoteLetter, token.Newline, token.NoteLetter}, kinds(toks))
}

func TestScanPartDeclWithAliasAndSexp(t *testing.T) {
	toks, diag := Scan(`piano "keys": (tempo 120) c`, "t.alda")
	require.Nil(t, diag)
	require.Equal(t, []token.Kind{
		token.Name, token.Alias, token.Colon,
		token.ParenOpen, token.Symbol, token.LispNumber, token.ParenClose,
		token.NoteLetter,
	}, kinds(toks))
}

func TestScanLispModeNegativeAndNestedParens(t *testing.T) {
	toks, diag := Scan("(transpose (- 0 12))", "t.alda")
	require.Nil(t, diag)
	require.Equal(t, []token.Kind{
		token.ParenOpen, token.Symbol,
		token.ParenOpen, token.Symbol, token.LispNumber, token.LispNumber, token.ParenClose,
		token.ParenClose,
	}, kinds(toks))
}

func TestScanUnterminatedStringIsAnError(t *testing.T) {
	_, diag := Scan(`piano "keys: c`, "t.alda")
	require.NotNil(t, diag)
	require.Equal(t, "unterminated string literal", diag.Message)
}

func TestScanUnexpectedCharacterIsAnError(t *testing.T) {
	_, diag := Scan("c & d", "t.alda")
	require.NotNil(t, diag)
	require.Contains(t, diag.Error(), "unexpected character")
}

func TestScanTerminatesWithEOF(t *testing.T) {
	toks, diag := Scan("", "t.alda")
	require.Nil(t, diag)
	require.Len(t, toks, 1)
	require.Equal(t, token.EOF, toks[0].Kind)
}
