package generate

import (
	"github.com/ellisgrant-audio/aldacore/ast"
	"github.com/ellisgrant-audio/aldacore/event"
	"github.com/ellisgrant-audio/aldacore/internal/names"
)

// processAttribute dispatches one Lisp-form directive node, per
// spec.md §4.3's attribute list. An unrecognized directive name or a
// missing/non-numeric argument is a generation failure.
func (g *generator) processAttribute(n *ast.Node, part *partState) {
	if len(n.Children) == 0 {
		g.fail(n.Pos, "empty attribute directive")
	}
	head := n.Children[0]
	if head.Kind != ast.LispSymbol {
		g.fail(n.Pos, "expected an attribute name")
	}

	if v, ok := names.Velocity(head.Name); ok {
		if len(n.Children) != 1 {
			g.fail(n.Pos, "dynamic marking %q takes no arguments", head.Name)
		}
		part.volume = v
		return
	}

	info, ok := names.Attribute(head.Name)
	if !ok {
		g.fail(n.Pos, "%q is not a recognized attribute", head.Name)
	}
	args := n.Children[1:]
	if len(args) < info.Arity {
		g.fail(n.Pos, "%q requires %d argument(s)", head.Name, info.Arity)
	}

	switch head.Name {
	case "tempo":
		bpm := g.evalNumberArg(args[0])
		part.tempo = bpm
		g.emitTempo(part.time, bpm)

	case "tempo!":
		bpm := g.evalNumberArg(args[0])
		g.globalTempo = bpm
		for _, p := range g.parts {
			p.tempo = bpm
		}
		g.emitTempo(part.time, bpm)

	case "vol", "volume":
		part.volume = clampInt(int(g.evalNumberArg(args[0])), 0, 127)

	case "quant", "quantize":
		part.quant = clampInt(int(g.evalNumberArg(args[0])), 0, 100)

	case "pan", "panning":
		part.pan = clampInt(int(g.evalNumberArg(args[0])), 0, 127)
		g.timeline.Events = append(g.timeline.Events, event.Event{
			Kind: event.ControlChange, Time: part.time, Channel: part.channel,
			Controller: 10, Value: part.pan,
		})

	case "transpose":
		part.transpose = int(g.evalNumberArg(args[0]))

	case "octave":
		g.setOctave(n, part, int(g.evalNumberArg(args[0])))

	case "key-signature":
		part.keySig = parseKeySignature(args[0])
	}
}

func (g *generator) emitTempo(at, bpm float64) {
	g.timeline.Events = append(g.timeline.Events, event.Event{
		Kind: event.TempoChange, Time: at, Channel: -1,
		MicrosPerQuarter: int(60000000.0 / bpm),
	})
}

// evalNumberArg evaluates an attribute argument that must reduce to a
// number, either a literal or a small arithmetic s-expression such as
// `(- 0 12)`.
func (g *generator) evalNumberArg(n *ast.Node) float64 {
	v, ok := evalLispNumber(n)
	if !ok {
		g.fail(n.Pos, "expected a numeric argument")
	}
	return v
}

// evalLispNumber reduces a LispNumber literal or an arithmetic
// s-expression (+, -, *, /) over such literals to a float64, covering
// the "(transpose (- 0 12))" idiom used for negative transpositions.
func evalLispNumber(n *ast.Node) (float64, bool) {
	switch n.Kind {
	case ast.LispNumber:
		if n.NumIsInt {
			return float64(n.IntNum), true
		}
		return n.FloatNum, true

	case ast.LispList:
		if len(n.Children) < 2 || n.Children[0].Kind != ast.LispSymbol {
			return 0, false
		}
		op := n.Children[0].Name
		acc, ok := evalLispNumber(n.Children[1])
		if !ok {
			return 0, false
		}
		for _, arg := range n.Children[2:] {
			v, ok := evalLispNumber(arg)
			if !ok {
				return 0, false
			}
			switch op {
			case "+":
				acc += v
			case "-":
				acc -= v
			case "*":
				acc *= v
			case "/":
				acc /= v
			default:
				return 0, false
			}
		}
		if op == "-" && len(n.Children) == 2 {
			acc = -acc
		}
		return acc, true

	default:
		return 0, false
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
