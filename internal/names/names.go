// Package names provides the small lookup tables the generator uses to
// validate attribute names and reject malformed input with the
// "unknown attribute" failure mode of spec.md §4.3.
//
// Adapted from the teacher's internal/valid/valid.go
// table-plus-membership-test shape (PatternInfo/KeyInfo/Pattern()),
// repointed at Alda attribute names instead of UI scale patterns.
package names

// AttributeInfo describes one Lisp-form attribute directive recognized
// by the generator (spec.md §4.3).
type AttributeInfo struct {
	Name  string
	Arity int // number of arguments the directive takes
}

var attributeInfo = []AttributeInfo{
	{"tempo", 1},
	{"tempo!", 1},
	{"vol", 1},
	{"volume", 1},
	{"quant", 1},
	{"quantize", 1},
	{"pan", 1},
	{"panning", 1},
	{"transpose", 1},
	{"key-signature", 1},
	{"octave", 1},
}

// dynamicVelocities maps dynamic markings to MIDI velocity, per
// spec.md §4.3.
var dynamicVelocities = map[string]int{
	"ppp": 10, "pp": 25, "p": 40, "mp": 55,
	"mf": 70, "f": 85, "ff": 100, "fff": 115,
}

// Attribute returns true and the directive's arity if name is a
// recognized attribute symbol.
func Attribute(name string) (AttributeInfo, bool) {
	for _, a := range attributeInfo {
		if a.Name == name {
			return a, true
		}
	}
	return AttributeInfo{}, false
}

// Velocity returns the MIDI velocity for a dynamic marking symbol
// (e.g. "mf"), per spec.md §4.3's dynamic-marking table.
func Velocity(marking string) (int, bool) {
	v, ok := dynamicVelocities[marking]
	return v, ok
}
