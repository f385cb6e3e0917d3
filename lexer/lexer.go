// Package lexer implements the Alda scanner (spec.md §4.1): a
// two-mode (normal / Lisp) tokenizer sharing a single paren-depth
// counter, producing an immutable token stream terminated by EOF, and
// halting with a single diagnostic on the first lexical failure.
//
// The scanning loop is a single explicit-state pass over the rune
// stream, in the spirit of the teacher's getFileTempo byte-at-a-time
// state machine (internal/miditempo/miditempo.go) generalized from a
// fixed 6-state byte scan to an open-ended token scan.
package lexer

import (
	"strings"
	"unicode"

	"github.com/ellisgrant-audio/aldacore/aldaerr"
	"github.com/ellisgrant-audio/aldacore/token"
)

type scanner struct {
	src      []rune
	filename string
	pos      int // index into src
	line     int
	col      int
	parens   int // shared paren-depth counter; >0 means Lisp mode
	toks     []token.Token
	lastKind token.Kind // kind of the previously emitted token; gates '-'
}

// Scan tokenizes source, returning the token stream (always
// EOF-terminated on success) and the first lexical error, if any. On
// error, the returned slice ends with an Error token and scanning
// halts; no recovery is attempted.
func Scan(source, filename string) ([]token.Token, *aldaerr.Diagnostic) {
	s := &scanner{
		src:      []rune(source),
		filename: filename,
		line:     1,
		col:      1,
	}
	for {
		tok, diag := s.next()
		if diag != nil {
			s.toks = append(s.toks, token.Token{Kind: token.Error, Pos: diag.Pos})
			return s.toks, diag
		}
		s.toks = append(s.toks, tok)
		s.lastKind = tok.Kind
		if tok.Kind == token.EOF {
			return s.toks, nil
		}
	}
}

func (s *scanner) errf(pos token.Position, format string, args ...interface{}) *aldaerr.Diagnostic {
	return aldaerr.New(aldaerr.ScanError, pos, string(s.src), format, args...)
}

func (s *scanner) here() token.Position {
	return token.Position{Line: s.line, Col: s.col, Filename: s.filename}
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() rune {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) peekAt(n int) rune {
	i := s.pos + n
	if i < 0 || i >= len(s.src) {
		return 0
	}
	return s.src[i]
}

func (s *scanner) advance() rune {
	r := s.src[s.pos]
	s.pos++
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
func isAlpha(r rune) bool { return unicode.IsLetter(r) }
func isNameChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}
func isLispSymbolChar(r rune) bool {
	if isNameChar(r) {
		return true
	}
	switch r {
	case '!', '?', '+', '*', '/', '<', '>', '=', '.', ':':
		return true
	}
	return false
}

// next scans and returns the next token.
func (s *scanner) next() (token.Token, *aldaerr.Diagnostic) {
	s.skipSpaceAndComments()
	pos := s.here()
	if s.eof() {
		return token.Token{Kind: token.EOF, Pos: pos}, nil
	}

	if s.parens > 0 {
		return s.nextLisp(pos)
	}
	return s.nextNormal(pos)
}

// skipSpaceAndComments consumes spaces, tabs, carriage returns, and
// '#'-to-end-of-line comments. Newlines are significant and are left
// for the caller to tokenize.
func (s *scanner) skipSpaceAndComments() {
	for !s.eof() {
		r := s.peek()
		switch {
		case r == ' ' || r == '\t' || r == '\r':
			s.advance()
		case r == '#':
			for !s.eof() && s.peek() != '\n' {
				s.advance()
			}
		default:
			return
		}
	}
}

func (s *scanner) nextNormal(pos token.Position) (token.Token, *aldaerr.Diagnostic) {
	r := s.peek()

	switch {
	case r == '\n':
		s.advance()
		return token.Token{Kind: token.Newline, Text: "\n", Pos: pos}, nil

	case r == '(':
		s.advance()
		s.parens++
		return token.Token{Kind: token.ParenOpen, Text: "(", Pos: pos}, nil

	case r == ')':
		s.advance()
		if s.parens > 0 {
			s.parens--
		}
		return token.Token{Kind: token.ParenClose, Text: ")", Pos: pos}, nil

	case r == '{':
		s.advance()
		return token.Token{Kind: token.CramOpen, Text: "{", Pos: pos}, nil
	case r == '}':
		s.advance()
		return token.Token{Kind: token.CramClose, Text: "}", Pos: pos}, nil
	case r == '[':
		s.advance()
		return token.Token{Kind: token.BracketOpen, Text: "[", Pos: pos}, nil
	case r == ']':
		s.advance()
		return token.Token{Kind: token.BracketClose, Text: "]", Pos: pos}, nil

	case r == '|':
		s.advance()
		return token.Token{Kind: token.Barline, Text: "|", Pos: pos}, nil
	case r == '/':
		s.advance()
		return token.Token{Kind: token.Slash, Text: "/", Pos: pos}, nil
	case r == ':':
		s.advance()
		return token.Token{Kind: token.Colon, Text: ":", Pos: pos}, nil
	case r == '=':
		s.advance()
		return token.Token{Kind: token.Equals, Text: "=", Pos: pos}, nil
	case r == '~':
		s.advance()
		return token.Token{Kind: token.Tie, Text: "~", Pos: pos}, nil
	case r == '.':
		s.advance()
		return token.Token{Kind: token.Dot, Text: ".", Pos: pos}, nil
	case r == '>':
		s.advance()
		return token.Token{Kind: token.OctaveUp, Text: ">", Pos: pos}, nil
	case r == '<':
		s.advance()
		return token.Token{Kind: token.OctaveDown, Text: "<", Pos: pos}, nil
	case r == '+' || r == '_':
		s.advance()
		return token.Token{Kind: token.Accidental, Text: string(r), Pos: pos}, nil
	case r == '-':
		// '-' is the flat accidental (spec.md §4.1) directly after a
		// NoteLetter or another Accidental, e.g. "b--" (double flat);
		// anywhere else it's the first character of a hyphenated name
		// like "acoustic-grand-piano", handled by scanName.
		if s.lastKind == token.NoteLetter || s.lastKind == token.Accidental {
			s.advance()
			return token.Token{Kind: token.Accidental, Text: "-", Pos: pos}, nil
		}
		return s.scanName(pos)

	case r == '"':
		return s.scanAlias(pos)

	case r == '%':
		return s.scanMarker(pos, token.Marker)
	case r == '@':
		return s.scanMarker(pos, token.AtMarker)

	case r == '*':
		return s.scanRepeat(pos)
	case r == '\'':
		return s.scanRepetitions(pos)

	case isDigit(r):
		return s.scanNumber(pos)

	case r == 'o' && isDigit(s.peekAt(1)):
		return s.scanOctaveSet(pos)

	case r == 'V' && isDigit(s.peekAt(1)):
		return s.scanVoiceMarker(pos)

	case r == 'r' && !isAlpha(s.peekAt(1)) && s.peekAt(1) != '_':
		s.advance()
		return token.Token{Kind: token.RestLetter, Text: "r", Pos: pos}, nil

	case r >= 'a' && r <= 'g' && !isAlpha(s.peekAt(1)):
		s.advance()
		return token.Token{Kind: token.NoteLetter, Text: string(r), Pos: pos}, nil

	case isAlpha(r) || r == '_':
		return s.scanName(pos)

	default:
		return token.Token{}, s.errf(pos, "unexpected character %q", r)
	}
}

// scanName consumes a run of name characters (letters, digits,
// underscore, hyphen) as a single Name token. It is reached whenever a
// letter can't be resolved to a single-char note/rest token because
// more name characters follow.
func (s *scanner) scanName(pos token.Position) (token.Token, *aldaerr.Diagnostic) {
	var b strings.Builder
	for !s.eof() && isNameChar(s.peek()) {
		b.WriteRune(s.advance())
	}
	if b.Len() == 0 {
		r := s.advance()
		return token.Token{}, s.errf(pos, "unexpected character %q", r)
	}
	return token.Token{Kind: token.Name, Text: b.String(), Pos: pos}, nil
}

func (s *scanner) scanAlias(pos token.Position) (token.Token, *aldaerr.Diagnostic) {
	s.advance() // opening quote
	var b strings.Builder
	for {
		if s.eof() {
			return token.Token{}, s.errf(pos, "unterminated string literal")
		}
		r := s.advance()
		if r == '"' {
			return token.Token{Kind: token.Alias, Text: b.String(), Pos: pos}, nil
		}
		if r == '\\' && !s.eof() {
			b.WriteRune(s.advance())
			continue
		}
		b.WriteRune(r)
	}
}

func (s *scanner) scanMarker(pos token.Position, kind token.Kind) (token.Token, *aldaerr.Diagnostic) {
	s.advance() // % or @
	var b strings.Builder
	for !s.eof() && isNameChar(s.peek()) {
		b.WriteRune(s.advance())
	}
	if b.Len() == 0 {
		return token.Token{}, s.errf(pos, "expected a name after marker sigil")
	}
	return token.Token{Kind: kind, Text: b.String(), Pos: pos}, nil
}

func (s *scanner) scanRepeat(pos token.Position) (token.Token, *aldaerr.Diagnostic) {
	s.advance() // '*'
	start := s.pos
	for !s.eof() && isDigit(s.peek()) {
		s.advance()
	}
	if s.pos == start {
		return token.Token{}, s.errf(pos, "expected a repeat count after '*'")
	}
	text := string(s.src[start:s.pos])
	n := atoiSafe(text)
	return token.Token{Kind: token.RepeatOp, Text: text, Pos: pos, Lit: token.IntLit, IntVal: n}, nil
}

// scanRepetitions scans the on-repetitions specifier grammar from
// spec.md §9: rep ("," rep)* where rep := N | N "-" M.
func (s *scanner) scanRepetitions(pos token.Position) (token.Token, *aldaerr.Diagnostic) {
	s.advance() // '\''
	start := s.pos
	for !s.eof() && (isDigit(s.peek()) || s.peek() == ',' || s.peek() == '-') {
		s.advance()
	}
	if s.pos == start {
		return token.Token{}, s.errf(pos, "expected a repetitions specifier after '''")
	}
	text := string(s.src[start:s.pos])
	return token.Token{Kind: token.RepetitionsOp, Text: text, Pos: pos}, nil
}

func (s *scanner) scanOctaveSet(pos token.Position) (token.Token, *aldaerr.Diagnostic) {
	s.advance() // 'o'
	start := s.pos
	for !s.eof() && isDigit(s.peek()) {
		s.advance()
	}
	text := string(s.src[start:s.pos])
	return token.Token{Kind: token.OctaveSet, Text: "o" + text, Pos: pos, Lit: token.IntLit, IntVal: atoiSafe(text)}, nil
}

func (s *scanner) scanVoiceMarker(pos token.Position) (token.Token, *aldaerr.Diagnostic) {
	s.advance() // 'V'
	start := s.pos
	for !s.eof() && isDigit(s.peek()) {
		s.advance()
	}
	text := string(s.src[start:s.pos])
	if !s.eof() && s.peek() == ':' {
		s.advance()
	}
	return token.Token{Kind: token.VoiceMarker, Text: "V" + text, Pos: pos, Lit: token.IntLit, IntVal: atoiSafe(text)}, nil
}

// scanNumber consumes a digit run and, when immediately followed by
// "ms" or "s" not itself followed by a letter, upgrades the token kind
// per spec.md §4.1.
func (s *scanner) scanNumber(pos token.Position) (token.Token, *aldaerr.Diagnostic) {
	start := s.pos
	for !s.eof() && isDigit(s.peek()) {
		s.advance()
	}
	digits := string(s.src[start:s.pos])

	if s.peek() == 'm' && s.peekAt(1) == 's' && !isAlpha(s.peekAt(2)) {
		s.advance()
		s.advance()
		n := atoiSafe(digits)
		return token.Token{Kind: token.NumberMs, Text: digits + "ms", Pos: pos, Lit: token.IntLit, IntVal: n}, nil
	}
	if s.peek() == 's' && !isAlpha(s.peekAt(1)) {
		s.advance()
		f := float64(atoiSafe(digits))
		return token.Token{Kind: token.NumberS, Text: digits + "s", Pos: pos, Lit: token.FloatLit, FloatVal: f}, nil
	}
	n := atoiSafe(digits)
	return token.Token{Kind: token.Number, Text: digits, Pos: pos, Lit: token.IntLit, IntVal: n}, nil
}

func (s *scanner) nextLisp(pos token.Position) (token.Token, *aldaerr.Diagnostic) {
	r := s.peek()

	switch {
	case r == '\n':
		s.advance()
		return token.Token{Kind: token.Newline, Text: "\n", Pos: pos}, nil
	case r == '(':
		s.advance()
		s.parens++
		return token.Token{Kind: token.ParenOpen, Text: "(", Pos: pos}, nil
	case r == ')':
		s.advance()
		if s.parens > 0 {
			s.parens--
		}
		return token.Token{Kind: token.ParenClose, Text: ")", Pos: pos}, nil
	case r == '"':
		return s.scanLispString(pos)
	case r == '-' && isDigit(s.peekAt(1)):
		return s.scanLispNumber(pos)
	case isDigit(r):
		return s.scanLispNumber(pos)
	case isLispSymbolChar(r):
		return s.scanLispSymbol(pos)
	default:
		return token.Token{}, s.errf(pos, "unexpected character %q in lisp form", r)
	}
}

func (s *scanner) scanLispString(pos token.Position) (token.Token, *aldaerr.Diagnostic) {
	s.advance() // opening quote
	var b strings.Builder
	for {
		if s.eof() {
			return token.Token{}, s.errf(pos, "unterminated string literal")
		}
		r := s.advance()
		if r == '"' {
			return token.Token{Kind: token.LispString, Text: b.String(), Pos: pos}, nil
		}
		if r == '\\' && !s.eof() {
			b.WriteRune(s.advance())
			continue
		}
		b.WriteRune(r)
	}
}

func (s *scanner) scanLispNumber(pos token.Position) (token.Token, *aldaerr.Diagnostic) {
	start := s.pos
	if s.peek() == '-' {
		s.advance()
	}
	for !s.eof() && isDigit(s.peek()) {
		s.advance()
	}
	isFloat := false
	if s.peek() == '.' && isDigit(s.peekAt(1)) {
		isFloat = true
		s.advance()
		for !s.eof() && isDigit(s.peek()) {
			s.advance()
		}
	}
	text := string(s.src[start:s.pos])
	if isFloat {
		return token.Token{Kind: token.LispNumber, Text: text, Pos: pos, Lit: token.FloatLit, FloatVal: atofSafe(text)}, nil
	}
	return token.Token{Kind: token.LispNumber, Text: text, Pos: pos, Lit: token.IntLit, IntVal: atoiSafe(text)}, nil
}

func (s *scanner) scanLispSymbol(pos token.Position) (token.Token, *aldaerr.Diagnostic) {
	start := s.pos
	for !s.eof() && isLispSymbolChar(s.peek()) {
		s.advance()
	}
	text := string(s.src[start:s.pos])
	return token.Token{Kind: token.Symbol, Text: text, Pos: pos}, nil
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}

func atofSafe(s string) float64 {
	neg := false
	i := 0
	if i < len(s) && s[i] == '-' {
		neg = true
		i++
	}
	whole := 0.0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		whole = whole*10 + float64(s[i]-'0')
	}
	if i < len(s) && s[i] == '.' {
		i++
		frac := 0.0
		scale := 1.0
		for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
			frac = frac*10 + float64(s[i]-'0')
			scale *= 10
		}
		whole += frac / scale
	}
	if neg {
		whole = -whole
	}
	return whole
}
