package generate

import "github.com/ellisgrant-audio/aldacore/ast"

var letterSemitone = map[byte]int{'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11}

// pitchOf computes a note's MIDI pitch number per spec.md §4.3: middle
// C (MIDI 60) is c4, each octave is ±12 semitones, explicit
// accidentals override the part's key signature for that letter, and
// the part's transpose is applied last.
func (g *generator) pitchOf(n *ast.Node, part *partState) int {
	pitch := 60 + (part.octave-4)*12 + letterSemitone[n.Letter]

	delta, hasKeySig := part.keySig[n.Letter]
	if n.Accidentals != "" {
		delta = 0
		for _, r := range n.Accidentals {
			switch r {
			case '+':
				delta++
			case '-':
				delta--
			case '_':
				delta = 0
			}
		}
	} else if !hasKeySig {
		delta = 0
	}

	pitch += delta + part.transpose
	if pitch < 0 || pitch > 127 {
		g.fail(n.Pos, "pitch %d (%c%s in octave %d) is out of MIDI range 0-127", pitch, n.Letter, n.Accidentals, part.octave)
	}
	return pitch
}

// parseKeySignature reads a (key-signature "f+ c+ g+") directive's
// string argument into a per-letter accidental map, matching Alda's
// convention of one space-separated letter+accidental token per
// altered scale degree.
func parseKeySignature(arg *ast.Node) map[byte]int {
	sig := map[byte]int{}
	var text string
	switch arg.Kind {
	case ast.LispString:
		text = arg.Str
	case ast.LispSymbol:
		text = arg.Name
	default:
		return sig
	}

	var letter byte
	var delta int
	haveLetter := false
	flush := func() {
		if haveLetter {
			sig[letter] = delta
		}
		haveLetter, delta = false, 0
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == ' ':
			flush()
		case c >= 'a' && c <= 'g':
			flush()
			letter, haveLetter = c, true
		case c == '+':
			delta++
		case c == '-':
			delta--
		case c == '_':
			delta = 0
		}
	}
	flush()
	return sig
}
