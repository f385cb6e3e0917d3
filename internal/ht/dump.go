package ht

import (
	"fmt"

	"github.com/ellisgrant-audio/aldacore/ast"
	"github.com/ellisgrant-audio/aldacore/event"
)

// DumpTree renders a parsed ast.Tree as an HTML page of nested lists,
// one <li> per node with its children in a nested <ul>, for
// cmd/aldadump.
func DumpTree(tree *ast.Tree) *ElementTree {
	body := Body("", H1("", SC("alda ast")), nodeList(tree.Root))
	return Html("", Head("", Title("", SC("alda ast"))), body)
}

func nodeList(n *ast.Node) *ElementTree {
	li := Li("", SC(nodeLabel(n)))
	var children []Content
	for _, c := range n.Children {
		children = append(children, nodeList(c))
	}
	if n.Dur != nil {
		children = append(children, nodeList(n.Dur))
	}
	if len(children) > 0 {
		li.C = append(li.C, Ul("", children...))
	}
	return li
}

func nodeLabel(n *ast.Node) string {
	switch n.Kind {
	case ast.PartDecl:
		return fmt.Sprintf("PartDecl %v alias=%s", n.Instruments, n.Alias)
	case ast.Note:
		return fmt.Sprintf("Note %c%s slurred=%v", n.Letter, n.Accidentals, n.Slurred)
	case ast.OctaveSet:
		return fmt.Sprintf("OctaveSet %d", n.Octave)
	case ast.NoteLength:
		return fmt.Sprintf("NoteLength 1/%d dots=%d", n.Denom, n.Dots)
	case ast.NoteLengthMs:
		return fmt.Sprintf("NoteLengthMs %dms", n.Ms)
	case ast.NoteLengthS:
		return fmt.Sprintf("NoteLengthS %.4fs", n.Sec)
	case ast.LispSymbol, ast.VarDef, ast.VarRef, ast.Marker, ast.AtMarker:
		return fmt.Sprintf("%s %s", n.Kind, n.Name)
	case ast.LispNumber:
		if n.NumIsInt {
			return fmt.Sprintf("LispNumber %d", n.IntNum)
		}
		return fmt.Sprintf("LispNumber %f", n.FloatNum)
	case ast.LispString:
		return fmt.Sprintf("LispString %q", n.Str)
	case ast.Repeat:
		return fmt.Sprintf("Repeat x%d", n.Count)
	case ast.OnReps:
		return fmt.Sprintf("OnReps %v", n.Reps)
	case ast.Voice:
		return fmt.Sprintf("Voice %d", n.VoiceNum)
	default:
		return n.Kind.String()
	}
}

// DumpTimeline renders a generated event.Timeline as an HTML table,
// one row per event, grouped by channel, for cmd/aldadump.
func DumpTimeline(tl *event.Timeline) *ElementTree {
	var rows []Content
	rows = append(rows, Tr("", Th("", SC("time")), Th("", SC("channel")), Th("", SC("kind")), Th("", SC("detail"))))
	for _, e := range tl.TempoEvents() {
		rows = append(rows, eventRow(e))
	}
	for _, ch := range tl.Channels() {
		for _, e := range tl.ForChannel(ch) {
			rows = append(rows, eventRow(e))
		}
	}
	body := Body("", H1("", SC("alda timeline")), Table("", rows...))
	return Html("", Head("", Title("", SC("alda timeline"))), body)
}

func eventRow(e event.Event) *ElementTree {
	detail := ""
	switch e.Kind {
	case event.NoteOn, event.NoteOff:
		detail = fmt.Sprintf("pitch=%d velocity=%d", e.Pitch, e.Velocity)
	case event.ProgramChange:
		detail = fmt.Sprintf("program=%d", e.Program)
	case event.ControlChange:
		detail = fmt.Sprintf("controller=%d value=%d", e.Controller, e.Value)
	case event.TempoChange:
		detail = fmt.Sprintf("microsPerQuarter=%d", e.MicrosPerQuarter)
	}
	channel := fmt.Sprintf("%d", e.Channel)
	if e.Channel < 0 {
		channel = "-"
	}
	return Tr("",
		Td("", SC(fmt.Sprintf("%.4f", e.Time))),
		Td("", SC(channel)),
		Td("", SC(e.Kind.String())),
		Td("", SC(detail)),
	)
}
