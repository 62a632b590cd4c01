package css

import "strconv"

// Locator points to a place in the source text. Lines and columns are 1-based,
// zero Line means location is unknown.
type Locator struct {
	URI    string
	Line   int
	Column int
}

// IsKnown returns true if the locator carries position information.
func (l Locator) IsKnown() bool {
	return l.Line > 0
}

func (l Locator) String() string {
	pos := strconv.Itoa(l.Line) + ":" + strconv.Itoa(l.Column)
	if l.URI == "" {
		return pos
	}
	return l.URI + ":" + pos
}
