package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ellisgrant-audio/aldacore/ast"
)

// parseRepSpecImpl parses the on-repetitions specifier scanned by the
// lexer's RepetitionsOp token into a set of ranges, per spec.md §9:
// `rep ("," rep)*` where `rep := N | N "-" M`.
func parseRepSpecImpl(text string) ([]ast.RepRange, error) {
	var ranges []ast.RepRange
	for _, field := range strings.Split(text, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			return nil, fmt.Errorf("empty repetitions field in %q", text)
		}
		if i := strings.IndexByte(field, '-'); i >= 0 {
			lo, err := strconv.Atoi(field[:i])
			if err != nil {
				return nil, fmt.Errorf("invalid repetitions range %q: %v", field, err)
			}
			hi, err := strconv.Atoi(field[i+1:])
			if err != nil {
				return nil, fmt.Errorf("invalid repetitions range %q: %v", field, err)
			}
			if hi < lo {
				return nil, fmt.Errorf("invalid repetitions range %q: high end below low end", field)
			}
			ranges = append(ranges, ast.RepRange{Lo: lo, Hi: hi})
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid repetitions index %q: %v", field, err)
		}
		ranges = append(ranges, ast.RepRange{Lo: n, Hi: n})
	}
	return ranges, nil
}
