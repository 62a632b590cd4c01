package css

import (
	"cmp"
	"strconv"
)

// Specificity is CSS cascade specificity (a, b, c, d):
//
//   - a: inline style origin, always 0 for selectors
//   - b: number of id conditions
//   - c: number of class, attribute and pseudo-class conditions
//   - d: number of type selectors and pseudo-elements
//
// Values are comparable with == and may be used as map keys.
type Specificity struct {
	A, B, C, D int
}

// SpecificityOf computes specificity of the selector tree.
func SpecificityOf(sel Selector) Specificity {
	var s Specificity
	Walk(sel, func(node Selector) {
		switch n := node.(type) {
		case *ElementSelector:
			if !n.IsUniversal() {
				s.D++
			}
		case *SimpleSelector:
			if !n.element.IsUniversal() {
				s.D++
			}
			for _, c := range n.conditions {
				if c.kind == ConditionID {
					s.B++
				} else {
					s.C++
				}
			}
		case *PseudoElementSelector:
			s.D++
		case *CombinatorSelector:
			// children are visited by Walk
		default:
			panic("unknown selector kind " + node.Kind().String())
		}
	})
	return s
}

// Add returns component-wise sum.
func (s Specificity) Add(other Specificity) Specificity {
	return Specificity{A: s.A + other.A, B: s.B + other.B, C: s.C + other.C, D: s.D + other.D}
}

// Compare returns negative value when s is less specific than other, zero
// when they are equal and positive value otherwise.
func (s Specificity) Compare(other Specificity) int {
	if c := cmp.Compare(s.A, other.A); c != 0 {
		return c
	}
	if c := cmp.Compare(s.B, other.B); c != 0 {
		return c
	}
	if c := cmp.Compare(s.C, other.C); c != 0 {
		return c
	}
	return cmp.Compare(s.D, other.D)
}

// Less returns true if s < other (strictly).
func (s Specificity) Less(other Specificity) bool {
	return s.Compare(other) < 0
}

// String returns "a,b,c,d".
func (s Specificity) String() string {
	b := make([]byte, 0, 16)
	b = strconv.AppendInt(b, int64(s.A), 10)
	b = append(b, ',')
	b = strconv.AppendInt(b, int64(s.B), 10)
	b = append(b, ',')
	b = strconv.AppendInt(b, int64(s.C), 10)
	b = append(b, ',')
	b = strconv.AppendInt(b, int64(s.D), 10)
	return string(b)
}

// MaxSpecificity returns the highest specificity among selectors in the list.
func (l SelectorList) MaxSpecificity() Specificity {
	var out Specificity
	for _, sel := range l {
		if s := SpecificityOf(sel); out.Less(s) {
			out = s
		}
	}
	return out
}
