// Package parser implements the Alda recursive-descent parser (spec.md
// §4.2): it runs the lexer, builds a typed ast.Tree, and reports the
// first syntax error with a source excerpt and caret column.
//
// The part-declaration-vs-variable-reference lookahead and the general
// primary/postfix shape are grounded on BrianBFarias-alda's ASTNode
// traversal idiom (client/parser/format.go, other_examples/); the
// shared paren-depth Lisp-mode handoff to the lexer matches spec.md
// §4.2's "S-expression parsing switches the scanner into Lisp mode
// automatically."
package parser

import (
	"github.com/ellisgrant-audio/aldacore/aldaerr"
	"github.com/ellisgrant-audio/aldacore/ast"
	"github.com/ellisgrant-audio/aldacore/lexer"
	"github.com/ellisgrant-audio/aldacore/token"
)

// parseAbort unwinds the recursive descent to Parse on the first
// syntax error, per spec.md §4.2's "no panic-mode resync."
type parseAbort struct{ diag *aldaerr.Diagnostic }

type parser struct {
	toks     []token.Token
	idx      int
	source   string
	filename string
}

// Parse scans and parses source into a Tree, or returns the first
// error encountered in either phase.
func Parse(source, filename string) (tree *ast.Tree, diag *aldaerr.Diagnostic) {
	toks, scanDiag := lexer.Scan(source, filename)
	if scanDiag != nil {
		return nil, scanDiag
	}
	p := &parser{toks: toks, source: source, filename: filename}

	defer func() {
		if r := recover(); r != nil {
			if abort, ok := r.(parseAbort); ok {
				tree, diag = nil, abort.diag
				return
			}
			panic(r)
		}
	}()

	root := p.parseRoot()
	return &ast.Tree{Root: root}, nil
}

func (p *parser) fail(pos token.Position, format string, args ...interface{}) {
	diag := aldaerr.New(aldaerr.SyntaxError, pos, p.source, format, args...)
	panic(parseAbort{diag})
}

func (p *parser) cur() token.Token {
	if p.idx >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.idx]
}

func (p *parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *parser) peekAt(n int) token.Token {
	i := p.idx + n
	if i < 0 || i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *parser) advance() token.Token {
	t := p.cur()
	if p.idx < len(p.toks)-1 {
		p.idx++
	}
	return t
}

func (p *parser) expect(k token.Kind) token.Token {
	if !p.at(k) {
		p.fail(p.cur().Pos, "expected %s but found %s %q", k, p.cur().Kind, p.cur().Text)
	}
	return p.advance()
}

func (p *parser) skipNewlines() {
	for p.at(token.Newline) {
		p.advance()
	}
}

func isDurationStart(k token.Kind) bool {
	return k == token.Number || k == token.NumberMs || k == token.NumberS
}

// isPartDeclStart performs the NAME ("/" NAME)* ALIAS? ":" lookahead of
// spec.md §4.2 without consuming any tokens.
func (p *parser) isPartDeclStart() bool {
	if !p.at(token.Name) {
		return false
	}
	i := p.idx + 1
	get := func(n int) token.Token {
		if n < 0 || n >= len(p.toks) {
			return p.toks[len(p.toks)-1]
		}
		return p.toks[n]
	}
	for get(i).Kind == token.Slash {
		i++
		if get(i).Kind != token.Name {
			return false
		}
		i++
	}
	if get(i).Kind == token.Alias {
		i++
	}
	return get(i).Kind == token.Colon
}

// parseRoot implements `root := (part_block | event_seq)*`.
func (p *parser) parseRoot() *ast.Node {
	root := ast.NewRoot(p.cur().Pos)
	for {
		p.skipNewlines()
		if p.at(token.EOF) {
			break
		}
		if p.isPartDeclStart() {
			pd := p.parsePartDecl()
			root.Children = append(root.Children, pd)
			es := p.parseEventSeq(p.atTopLevelStop)
			root.Children = append(root.Children, es)
			continue
		}
		es := p.parseEventSeq(p.atTopLevelStop)
		root.Children = append(root.Children, es)
	}
	return root
}

func (p *parser) atTopLevelStop() bool {
	return p.at(token.EOF) || p.isPartDeclStart()
}

// parsePartDecl implements `part_decl := NAME ("/" NAME)* ALIAS? ":"`.
func (p *parser) parsePartDecl() *ast.Node {
	pos := p.cur().Pos
	var instruments []string
	instruments = append(instruments, p.expect(token.Name).Text)
	for p.at(token.Slash) {
		p.advance()
		instruments = append(instruments, p.expect(token.Name).Text)
	}
	alias := ""
	if p.at(token.Alias) {
		alias = p.advance().Text
	}
	p.expect(token.Colon)
	return &ast.Node{Kind: ast.PartDecl, Pos: pos, Instruments: instruments, Alias: alias}
}

// parseEventSeq implements `event_seq := event*`, consuming events
// until stop() reports true (and skipping Newlines between events,
// which carry no grammatical meaning per spec.md §4.1).
func (p *parser) parseEventSeq(stop func() bool) *ast.Node {
	node := &ast.Node{Kind: ast.EventSeq, Pos: p.cur().Pos}
	for {
		p.skipNewlines()
		if stop() {
			break
		}
		node.Children = append(node.Children, p.parseEvent())
	}
	return node
}

// parseEvent implements `event := primary postfix`.
func (p *parser) parseEvent() *ast.Node {
	pos := p.cur().Pos
	prim := p.parsePrimary()

	if p.at(token.RepeatOp) {
		tok := p.advance()
		prim = &ast.Node{Kind: ast.Repeat, Pos: pos, Children: []*ast.Node{prim}, Count: tok.IntVal}
	}
	if p.at(token.RepetitionsOp) {
		tok := p.advance()
		ranges, err := parseRepSpec(tok.Text)
		if err != nil {
			p.fail(tok.Pos, "%v", err)
		}
		prim = &ast.Node{Kind: ast.OnReps, Pos: pos, Children: []*ast.Node{prim}, Reps: ranges}
	}
	return prim
}

func (p *parser) parsePrimary() *ast.Node {
	tok := p.cur()
	switch tok.Kind {
	case token.NoteLetter:
		return p.parseNoteOrChord()
	case token.RestLetter:
		return p.parseRest()
	case token.OctaveSet:
		p.advance()
		return &ast.Node{Kind: ast.OctaveSet, Pos: tok.Pos, Octave: tok.IntVal}
	case token.OctaveUp:
		p.advance()
		return &ast.Node{Kind: ast.OctaveUp, Pos: tok.Pos}
	case token.OctaveDown:
		p.advance()
		return &ast.Node{Kind: ast.OctaveDown, Pos: tok.Pos}
	case token.Barline:
		p.advance()
		return &ast.Node{Kind: ast.Barline, Pos: tok.Pos}
	case token.ParenOpen:
		return p.parseSexp()
	case token.CramOpen:
		return p.parseCram()
	case token.BracketOpen:
		return p.parseBracketSeq()
	case token.Marker:
		p.advance()
		return &ast.Node{Kind: ast.Marker, Pos: tok.Pos, Name: tok.Text}
	case token.AtMarker:
		p.advance()
		return &ast.Node{Kind: ast.AtMarker, Pos: tok.Pos, Name: tok.Text}
	case token.VoiceMarker:
		return p.parseVoiceGroup()
	case token.Name:
		if p.peekAt(1).Kind == token.Equals {
			return p.parseVarDef()
		}
		p.advance()
		return &ast.Node{Kind: ast.VarRef, Pos: tok.Pos, Name: tok.Text}
	default:
		p.fail(tok.Pos, "unexpected token %s %q", tok.Kind, tok.Text)
		return nil
	}
}

// parseNoteOrChord implements `note_or_chord := note ("/" note_or_rest)*`.
func (p *parser) parseNoteOrChord() *ast.Node {
	first := p.parseNote()
	notes := []*ast.Node{first}
	for p.at(token.Slash) {
		p.advance()
		if p.at(token.RestLetter) {
			notes = append(notes, p.parseRest())
		} else {
			notes = append(notes, p.parseNote())
		}
	}
	if len(notes) == 1 {
		return first
	}
	return &ast.Node{Kind: ast.Chord, Pos: first.Pos, Children: notes}
}

// parseNote implements `note := LETTER accidental* duration? "~"?`.
func (p *parser) parseNote() *ast.Node {
	letterTok := p.expect(token.NoteLetter)
	accid := ""
	for p.at(token.Accidental) {
		accid += p.advance().Text
	}
	var dur *ast.Node
	if isDurationStart(p.cur().Kind) {
		dur = p.parseDuration()
	}
	slurred := false
	if p.at(token.Tie) {
		p.advance()
		slurred = true
	}
	return &ast.Node{
		Kind: ast.Note, Pos: letterTok.Pos,
		Letter: letterTok.Text[0], Accidentals: accid, Dur: dur, Slurred: slurred,
	}
}

// parseRest implements `rest := "r" duration?`.
func (p *parser) parseRest() *ast.Node {
	tok := p.expect(token.RestLetter)
	var dur *ast.Node
	if isDurationStart(p.cur().Kind) {
		dur = p.parseDuration()
	}
	return &ast.Node{Kind: ast.Rest, Pos: tok.Pos, Dur: dur}
}

// parseDuration implements `duration := dur_component ("~" dur_component)*`,
// distinguishing a tie (a "~" immediately followed by another duration
// component) from a trailing slur marker, which parseNote consumes.
func (p *parser) parseDuration() *ast.Node {
	first := p.parseDurComponent()
	comps := []*ast.Node{first}
	for p.at(token.Tie) && isDurationStart(p.peekAt(1).Kind) {
		p.advance()
		comps = append(comps, p.parseDurComponent())
	}
	return &ast.Node{Kind: ast.Duration, Pos: first.Pos, Children: comps}
}

// parseDurComponent implements `dur_component := NUMBER dot* | NUMBER_MS | NUMBER_S`.
func (p *parser) parseDurComponent() *ast.Node {
	tok := p.cur()
	switch tok.Kind {
	case token.Number:
		p.advance()
		dots := 0
		for p.at(token.Dot) {
			p.advance()
			dots++
		}
		return &ast.Node{Kind: ast.NoteLength, Pos: tok.Pos, Denom: tok.IntVal, Dots: dots}
	case token.NumberMs:
		p.advance()
		return &ast.Node{Kind: ast.NoteLengthMs, Pos: tok.Pos, Ms: tok.IntVal}
	case token.NumberS:
		p.advance()
		return &ast.Node{Kind: ast.NoteLengthS, Pos: tok.Pos, Sec: tok.FloatVal}
	default:
		p.fail(tok.Pos, "expected a duration but found %s %q", tok.Kind, tok.Text)
		return nil
	}
}

// parseSexp implements `sexp := "(" sexp_item* ")"`; the lexer has
// already switched into Lisp mode via the shared paren-depth counter.
func (p *parser) parseSexp() *ast.Node {
	pos := p.expect(token.ParenOpen).Pos
	var items []*ast.Node
	for !p.at(token.ParenClose) {
		if p.at(token.EOF) {
			p.fail(pos, "unterminated s-expression")
		}
		items = append(items, p.parseSexpItem())
	}
	p.advance() // ")"
	return &ast.Node{Kind: ast.LispList, Pos: pos, Children: items}
}

func (p *parser) parseSexpItem() *ast.Node {
	tok := p.cur()
	switch tok.Kind {
	case token.Newline:
		p.advance()
		return p.parseSexpItem()
	case token.Symbol:
		p.advance()
		return &ast.Node{Kind: ast.LispSymbol, Pos: tok.Pos, Name: tok.Text}
	case token.LispNumber:
		p.advance()
		if tok.Lit == token.FloatLit {
			return &ast.Node{Kind: ast.LispNumber, Pos: tok.Pos, FloatNum: tok.FloatVal}
		}
		return &ast.Node{Kind: ast.LispNumber, Pos: tok.Pos, NumIsInt: true, IntNum: tok.IntVal}
	case token.LispString:
		p.advance()
		return &ast.Node{Kind: ast.LispString, Pos: tok.Pos, Str: tok.Text}
	case token.ParenOpen:
		return p.parseSexp()
	default:
		p.fail(tok.Pos, "unexpected token %s %q in s-expression", tok.Kind, tok.Text)
		return nil
	}
}

// parseCram implements `cram := "{" event_seq "}" duration?`.
func (p *parser) parseCram() *ast.Node {
	pos := p.expect(token.CramOpen).Pos
	es := p.parseEventSeq(func() bool { return p.at(token.CramClose) || p.at(token.EOF) })
	if !p.at(token.CramClose) {
		p.fail(pos, "missing closing '}' for cram")
	}
	p.advance()
	var dur *ast.Node
	if isDurationStart(p.cur().Kind) {
		dur = p.parseDuration()
	}
	return &ast.Node{Kind: ast.Cram, Pos: pos, Children: es.Children, Dur: dur}
}

// parseBracketSeq implements `bracket_seq := "[" event_seq "]"`.
func (p *parser) parseBracketSeq() *ast.Node {
	pos := p.expect(token.BracketOpen).Pos
	es := p.parseEventSeq(func() bool { return p.at(token.BracketClose) || p.at(token.EOF) })
	if !p.at(token.BracketClose) {
		p.fail(pos, "missing closing ']' for bracket sequence")
	}
	p.advance()
	return &ast.Node{Kind: ast.BracketSeq, Pos: pos, Children: es.Children}
}

// parseVoiceGroup implements
// `voice_group := ("V" N ":" event_seq)+ ("V" "0" ":")?`.
func (p *parser) parseVoiceGroup() *ast.Node {
	pos := p.cur().Pos
	var voices []*ast.Node
	for p.at(token.VoiceMarker) && p.cur().IntVal != 0 {
		vtok := p.advance()
		es := p.parseEventSeq(func() bool {
			return p.at(token.VoiceMarker) || p.at(token.EOF) || p.isPartDeclStart()
		})
		voices = append(voices, &ast.Node{Kind: ast.Voice, Pos: vtok.Pos, VoiceNum: vtok.IntVal, Children: es.Children})
	}
	if p.at(token.VoiceMarker) && p.cur().IntVal == 0 {
		p.advance()
	}
	if len(voices) == 0 {
		p.fail(pos, "expected at least one voice in voice group")
	}
	return &ast.Node{Kind: ast.VoiceGroup, Pos: pos, Children: voices}
}

// parseVarDef implements the `name = events` production; the event
// list runs until a newline, EOF, or the start of a new part
// declaration, per the worked example in spec.md §8 scenario 6.
func (p *parser) parseVarDef() *ast.Node {
	nameTok := p.expect(token.Name)
	p.expect(token.Equals)
	node := &ast.Node{Kind: ast.VarDef, Pos: nameTok.Pos, Name: nameTok.Text}
	for !p.at(token.Newline) && !p.at(token.EOF) && !p.isPartDeclStart() {
		node.Children = append(node.Children, p.parseEvent())
	}
	return node
}

// parseRepSpec implements spec.md §9's on-repetitions grammar:
// `rep ("," rep)*` where `rep := N | N "-" M`.
func parseRepSpec(text string) ([]ast.RepRange, error) {
	return parseRepSpecImpl(text)
}
