// Package aldaerr defines the single diagnostic type returned by every
// phase of the pipeline (scan, parse, generate, SMF read), per spec.md
// §7. Each phase surfaces the first error it hits; there is no
// recovery, so one struct shape covers all four taxonomies.
package aldaerr

import (
	"fmt"
	"strings"

	"github.com/ellisgrant-audio/aldacore/token"
)

// Kind classifies which phase raised the diagnostic.
type Kind int

const (
	ScanError Kind = iota
	SyntaxError
	GenerationError
	SMFError
)

func (k Kind) String() string {
	switch k {
	case ScanError:
		return "scan error"
	case SyntaxError:
		return "syntax error"
	case GenerationError:
		return "generation error"
	case SMFError:
		return "SMF error"
	default:
		return "error"
	}
}

// Diagnostic is {kind, message, position, source_line_excerpt,
// caret_column} as required by spec.md §7. Source is the full text
// being scanned/parsed so Excerpt can recover the offending line; it
// is empty for generation and SMF diagnostics, which are raised
// without source text.
type Diagnostic struct {
	Kind    Kind
	Message string
	Pos     token.Position
	Source  string
}

func (d *Diagnostic) Error() string {
	if d.Pos.Line == 0 && d.Pos.Col == 0 {
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("%s: %s at %s", d.Kind, d.Message, d.Pos)
}

// Excerpt returns the single source line the diagnostic refers to,
// followed by a caret line pointing at d.Pos.Col. It returns "" if no
// source text was attached.
func (d *Diagnostic) Excerpt() string {
	if d.Source == "" {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if d.Pos.Line < 1 || d.Pos.Line > len(lines) {
		return ""
	}
	line := lines[d.Pos.Line-1]
	col := d.Pos.Col
	if col < 1 {
		col = 1
	}
	caret := strings.Repeat(" ", col-1) + "^"
	return line + "\n" + caret
}

// New builds a Diagnostic. source may be "" when no excerpt is wanted.
func New(kind Kind, pos token.Position, source string, format string, args ...interface{}) *Diagnostic {
	return &Diagnostic{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
		Source:  source,
	}
}
