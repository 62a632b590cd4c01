package css

import (
	"slices"
	"strings"
)

// SelectorKind identifies the variant of a Selector.
type SelectorKind int

const (
	SelectorElement        SelectorKind = iota // E, ns|E, *
	SelectorSimple                             // element with conditions: E.cls[attr]
	SelectorDescendant                         // E F
	SelectorChild                              // E > F
	SelectorDirectAdjacent                     // E + F
	SelectorGeneralSibling                     // E ~ F
	SelectorPseudoElement                      // ::before
)

var selectorKindNames = [...]string{
	SelectorElement:        "element",
	SelectorSimple:         "simple",
	SelectorDescendant:     "descendant",
	SelectorChild:          "child",
	SelectorDirectAdjacent: "direct-adjacent",
	SelectorGeneralSibling: "general-sibling",
	SelectorPseudoElement:  "pseudo-element",
}

func (k SelectorKind) String() string {
	if k < 0 || int(k) >= len(selectorKindNames) {
		return "unknown"
	}
	return selectorKindNames[k]
}

// IsCombinator returns true for kinds which join two selectors.
func (k SelectorKind) IsCombinator() bool {
	return k >= SelectorDescendant && k <= SelectorGeneralSibling
}

// Selector is a node of parsed selector tree. The set of implementations is
// closed: *ElementSelector, *SimpleSelector, *CombinatorSelector and
// *PseudoElementSelector.
type Selector interface {
	Kind() SelectorKind
	Locator() Locator
	String() string
	selector()
}

func (*ElementSelector) selector()       {}
func (*SimpleSelector) selector()        {}
func (*CombinatorSelector) selector()    {}
func (*PseudoElementSelector) selector() {}

// ElementSelector is a type selector. Empty local name (or "*") denotes
// universal selector.
type ElementSelector struct {
	namespace OptString
	localName string
	loc       Locator
}

// NewElementSelector creates type selector. Both "" and "*" produce universal
// selector. Namespace prefix is absent when selector was not qualified, present
// and empty for "|E" form.
func NewElementSelector(namespace OptString, localName string, loc Locator) *ElementSelector {
	if localName == "*" {
		localName = ""
	}
	return &ElementSelector{namespace: namespace, localName: localName, loc: loc}
}

func (s *ElementSelector) Kind() SelectorKind {
	return SelectorElement
}

func (s *ElementSelector) Locator() Locator {
	return s.loc
}

// LocalName returns element name, absent for universal selector.
func (s *ElementSelector) LocalName() OptString {
	if s.localName == "" {
		return None()
	}
	return Some(s.localName)
}

// Namespace returns namespace prefix.
func (s *ElementSelector) Namespace() OptString {
	return s.namespace
}

// IsUniversal returns true for "*" selector (possibly namespace qualified).
func (s *ElementSelector) IsUniversal() bool {
	return s.localName == ""
}

func (s *ElementSelector) String() string {
	name := s.localName
	if name == "" {
		name = "*"
	}
	if ns, ok := s.namespace.Get(); ok {
		return ns + "|" + name
	}
	return name
}

// SimpleSelector is an element selector followed by one or more conditions
// in source order.
type SimpleSelector struct {
	element    *ElementSelector
	conditions []*Condition
}

// NewSimpleSelector creates compound selector. Nil element means universal.
func NewSimpleSelector(element *ElementSelector, conditions ...*Condition) *SimpleSelector {
	if element == nil {
		loc := Locator{}
		if len(conditions) > 0 {
			loc = conditions[0].Locator()
		}
		element = NewElementSelector(None(), "", loc)
	}
	return &SimpleSelector{element: element, conditions: slices.Clone(conditions)}
}

func (s *SimpleSelector) Kind() SelectorKind {
	return SelectorSimple
}

func (s *SimpleSelector) Locator() Locator {
	return s.element.Locator()
}

// Element returns type part of the compound selector.
func (s *SimpleSelector) Element() *ElementSelector {
	return s.element
}

// Conditions returns conditions in source order.
func (s *SimpleSelector) Conditions() []*Condition {
	return slices.Clone(s.conditions)
}

func (s *SimpleSelector) String() string {
	var b strings.Builder
	b.WriteString(s.element.String())
	for _, c := range s.conditions {
		b.WriteString(c.String())
	}
	return b.String()
}

// CombinatorSelector joins two selectors with a combinator. Trees built by the
// parser lean left: Ancestor may be another combinator, Simple never is.
type CombinatorSelector struct {
	kind     SelectorKind
	ancestor Selector
	simple   Selector
	loc      Locator
}

func newCombinatorSelector(kind SelectorKind, ancestor, simple Selector, loc Locator) *CombinatorSelector {
	return &CombinatorSelector{kind: kind, ancestor: ancestor, simple: simple, loc: loc}
}

// NewDescendantSelector creates "ancestor simple" selector. Pseudo-elements are
// attached to their compound selector as descendant with no whitespace.
func NewDescendantSelector(ancestor, simple Selector, loc Locator) *CombinatorSelector {
	return newCombinatorSelector(SelectorDescendant, ancestor, simple, loc)
}

// NewChildSelector creates "ancestor > simple" selector.
func NewChildSelector(ancestor, simple Selector, loc Locator) *CombinatorSelector {
	return newCombinatorSelector(SelectorChild, ancestor, simple, loc)
}

// NewDirectAdjacentSelector creates "ancestor + simple" selector.
func NewDirectAdjacentSelector(ancestor, simple Selector, loc Locator) *CombinatorSelector {
	return newCombinatorSelector(SelectorDirectAdjacent, ancestor, simple, loc)
}

// NewGeneralSiblingSelector creates "ancestor ~ simple" selector.
func NewGeneralSiblingSelector(ancestor, simple Selector, loc Locator) *CombinatorSelector {
	return newCombinatorSelector(SelectorGeneralSibling, ancestor, simple, loc)
}

func (s *CombinatorSelector) Kind() SelectorKind {
	return s.kind
}

func (s *CombinatorSelector) Locator() Locator {
	return s.loc
}

// Ancestor returns left operand.
func (s *CombinatorSelector) Ancestor() Selector {
	return s.ancestor
}

// Simple returns right operand.
func (s *CombinatorSelector) Simple() Selector {
	return s.simple
}

// Combinator returns combinator token as it appears in serialized text.
func (s *CombinatorSelector) Combinator() string {
	switch s.kind {
	case SelectorChild:
		return " > "
	case SelectorDirectAdjacent:
		return " + "
	case SelectorGeneralSibling:
		return " ~ "
	default:
		if _, ok := s.simple.(*PseudoElementSelector); ok {
			return ""
		}
		return " "
	}
}

func (s *CombinatorSelector) String() string {
	return s.ancestor.String() + s.Combinator() + s.simple.String()
}

// PseudoElementSelector denotes sub-part of an element, e.g. ::before.
type PseudoElementSelector struct {
	name        OptString
	doubleColon bool
	loc         Locator
}

// NewPseudoElementSelector creates pseudo-element selector. doubleColon is
// false for CSS2 syntax (:before).
func NewPseudoElementSelector(name OptString, doubleColon bool, loc Locator) *PseudoElementSelector {
	return &PseudoElementSelector{name: name, doubleColon: doubleColon, loc: loc}
}

func (s *PseudoElementSelector) Kind() SelectorKind {
	return SelectorPseudoElement
}

func (s *PseudoElementSelector) Locator() Locator {
	return s.loc
}

// LocalName returns pseudo-element name.
func (s *PseudoElementSelector) LocalName() OptString {
	return s.name
}

// DoubleColon reports if pseudo-element was written with "::".
func (s *PseudoElementSelector) DoubleColon() bool {
	return s.doubleColon
}

// Text returns canonical form, absent when the name is absent.
func (s *PseudoElementSelector) Text() (string, bool) {
	name, ok := s.name.Get()
	if !ok {
		return "", false
	}
	if s.doubleColon {
		return "::" + name, true
	}
	return ":" + name, true
}

func (s *PseudoElementSelector) String() string {
	text, _ := s.Text()
	return text
}

// Walk visits every node of the selector tree in pre-order.
func Walk(sel Selector, fn func(Selector)) {
	fn(sel)
	if c, ok := sel.(*CombinatorSelector); ok {
		Walk(c.ancestor, fn)
		Walk(c.simple, fn)
	}
}

// SelectorList is a comma separated group of selectors in source order.
type SelectorList []Selector

func (l SelectorList) String() string {
	parts := make([]string, 0, len(l))
	for _, s := range l {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ", ")
}
