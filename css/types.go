package css

import (
	"fmt"
	"io"
	"slices"
	"strings"
)

// cssEscapeDoubleQuoted escapes a string for use inside CSS double quotes.
// Backslashes and double quotes are escaped per CSS syntax: \" and \\.
func cssEscapeDoubleQuoted(s string) string {
	// Fast path: nothing to escape.
	if !strings.ContainsAny(s, `"\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Declaration is a single property declaration. Values are kept as written
// (whitespace collapsed), they are not interpreted.
type Declaration struct {
	Name      string
	Value     string
	Important bool
}

func (d Declaration) String() string {
	if d.Important {
		return d.Name + ": " + d.Value + " !important"
	}
	return d.Name + ": " + d.Value
}

// Rule represents a single CSS rule (selectors + declarations).
type Rule struct {
	Selectors    SelectorList  // Parsed selectors
	Declarations []Declaration // Declarations in source order
	Loc          Locator       // Location of the first selector in source
}

// GetProperty returns the effective declaration for a property within the
// rule: the last important one, otherwise the last one.
func (r Rule) GetProperty(name string) (Declaration, bool) {
	var (
		found Declaration
		ok    bool
	)
	for _, d := range r.Declarations {
		if d.Name != name || (ok && found.Important && !d.Important) {
			continue
		}
		found, ok = d, true
	}
	return found, ok
}

// MediaBlock represents a @media block with its raw query and nested rules.
// Queries are not interpreted.
type MediaBlock struct {
	Query string
	Rules []Rule
	Loc   Locator
}

// StylesheetItem is a single top-level item in a stylesheet.
// Exactly one of Rule, MediaBlock, or Import is non-nil.
type StylesheetItem struct {
	Rule       *Rule       // A plain rule (selectors + declarations)
	MediaBlock *MediaBlock // A @media block containing nested rules
	Import     *string     // An @import URL
}

// Stylesheet represents a parsed CSS stylesheet.
type Stylesheet struct {
	URI   string           // Source identifier, may be empty
	Items []StylesheetItem // All top-level items in source order

	errors *ErrorHandler
}

// ErrorCount returns number of errors reported by the parser.
func (s *Stylesheet) ErrorCount() int {
	if s.errors == nil {
		return 0
	}
	return s.errors.ErrorCount()
}

// FatalErrorCount returns number of fatal errors reported by the parser.
func (s *Stylesheet) FatalErrorCount() int {
	if s.errors == nil {
		return 0
	}
	return s.errors.FatalErrorCount()
}

// WarningCount returns number of warnings reported by the parser.
func (s *Stylesheet) WarningCount() int {
	if s.errors == nil {
		return 0
	}
	return s.errors.WarningCount()
}

// Err returns combined parsing errors, if any.
func (s *Stylesheet) Err() error {
	if s.errors == nil {
		return nil
	}
	return s.errors.Err()
}

// Imports returns all @import URLs from the stylesheet in source order.
func (s *Stylesheet) Imports() []string {
	var urls []string
	for _, item := range s.Items {
		if item.Import != nil {
			urls = append(urls, *item.Import)
		}
	}
	return urls
}

// Rules returns all top-level rules in source order. Rules nested in @media
// blocks are not included.
func (s *Stylesheet) Rules() []Rule {
	var rules []Rule
	for _, item := range s.Items {
		if item.Rule != nil {
			rules = append(rules, *item.Rule)
		}
	}
	return rules
}

// RulesBySelector returns all top-level rules having selector with the given
// canonical text.
func (s *Stylesheet) RulesBySelector(selector string) []Rule {
	var matches []Rule
	for _, item := range s.Items {
		if item.Rule == nil {
			continue
		}
		for _, sel := range item.Rule.Selectors {
			if sel.String() == selector {
				matches = append(matches, *item.Rule)
				break
			}
		}
	}
	return matches
}

// CascadeEntry is a single selector of a rule with its specificity.
type CascadeEntry struct {
	Selector    Selector
	Specificity Specificity
	Rule        *Rule
	Media       string // Media query of enclosing @media block, empty for top-level rules
	Order       int    // Position in source order
}

// Cascade returns one entry per selector of every rule (including rules in
// @media blocks) sorted by specificity in ascending order. Entries with equal
// specificity keep source order, so later entries win.
func (s *Stylesheet) Cascade() []CascadeEntry {
	var entries []CascadeEntry
	add := func(rule *Rule, media string) {
		for _, sel := range rule.Selectors {
			entries = append(entries, CascadeEntry{
				Selector:    sel,
				Specificity: SpecificityOf(sel),
				Rule:        rule,
				Media:       media,
				Order:       len(entries),
			})
		}
	}
	for _, item := range s.Items {
		switch {
		case item.Rule != nil:
			add(item.Rule, "")
		case item.MediaBlock != nil:
			for i := range item.MediaBlock.Rules {
				add(&item.MediaBlock.Rules[i], item.MediaBlock.Query)
			}
		}
	}
	slices.SortStableFunc(entries, func(a, b CascadeEntry) int {
		return a.Specificity.Compare(b.Specificity)
	})
	return entries
}

// WriteTo writes the stylesheet to w in source order, implementing io.WriterTo.
// Selectors are written in canonical form.
func (s *Stylesheet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, item := range s.Items {
		var n int
		var err error

		switch {
		case item.Import != nil:
			n, err = fmt.Fprintf(w, "@import url(\"%s\");\n", cssEscapeDoubleQuoted(*item.Import))
		case item.MediaBlock != nil:
			n, err = writeMediaBlock(w, item.MediaBlock)
		case item.Rule != nil:
			n, err = writeRule(w, item.Rule, "")
		}

		total += int64(n)
		if err != nil {
			return total, err
		}

		// Add blank line between items (except after last)
		if i < len(s.Items)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

// String returns the CSS text of the stylesheet.
func (s *Stylesheet) String() string {
	var sb strings.Builder
	s.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// writeRule writes a single CSS rule to w with every line prefixed by indent.
func writeRule(w io.Writer, rule *Rule, indent string) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "%s%s {\n", indent, rule.Selectors.String())
	total += n
	if err != nil {
		return total, err
	}
	for _, d := range rule.Declarations {
		n, err = fmt.Fprintf(w, "%s  %s;\n", indent, d.String())
		total += n
		if err != nil {
			return total, err
		}
	}
	n, err = fmt.Fprintf(w, "%s}\n", indent)
	total += n
	return total, err
}

// writeMediaBlock writes an @media block to w.
func writeMediaBlock(w io.Writer, mb *MediaBlock) (int, error) {
	var total int
	n, err := fmt.Fprintf(w, "@media %s {\n", mb.Query)
	total += n
	if err != nil {
		return total, err
	}

	for i := range mb.Rules {
		n, err = writeRule(w, &mb.Rules[i], "  ")
		total += n
		if err != nil {
			return total, err
		}

		// Blank line between rules in a media block (except after last)
		if i < len(mb.Rules)-1 {
			n, err = fmt.Fprint(w, "\n")
			total += n
			if err != nil {
				return total, err
			}
		}
	}

	n, err = fmt.Fprint(w, "}\n")
	total += n
	return total, err
}
