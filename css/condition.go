package css

import "strings"

// ConditionKind identifies the variant of a Condition.
type ConditionKind int

const (
	ConditionAttribute            ConditionKind = iota // [name] or [name="v"]
	ConditionOneOfAttribute                            // [name~="v"]
	ConditionBeginHyphenAttribute                      // [name|="v"]
	ConditionPrefixAttribute                           // [name^="v"]
	ConditionSuffixAttribute                           // [name$="v"]
	ConditionSubstringAttribute                        // [name*="v"]
	ConditionClass                                     // .v
	ConditionID                                        // #v
	ConditionLang                                      // :lang(v)
	ConditionPseudoClass                               // :v or ::v
	ConditionOnlyChild                                 // :only-child
	ConditionOnlyOfType                                // :only-of-type
	ConditionPositional                                // :first-child, :nth-child(v), ...
)

var conditionKindNames = [...]string{
	ConditionAttribute:            "attribute",
	ConditionOneOfAttribute:       "one-of-attribute",
	ConditionBeginHyphenAttribute: "begin-hyphen-attribute",
	ConditionPrefixAttribute:      "prefix-attribute",
	ConditionSuffixAttribute:      "suffix-attribute",
	ConditionSubstringAttribute:   "substring-attribute",
	ConditionClass:                "class",
	ConditionID:                   "id",
	ConditionLang:                 "lang",
	ConditionPseudoClass:          "pseudo-class",
	ConditionOnlyChild:            "only-child",
	ConditionOnlyOfType:           "only-of-type",
	ConditionPositional:           "positional",
}

func (k ConditionKind) String() string {
	if k < 0 || int(k) >= len(conditionKindNames) {
		return "unknown"
	}
	return conditionKindNames[k]
}

// IsAttribute returns true for all attribute matcher kinds.
func (k ConditionKind) IsAttribute() bool {
	return k >= ConditionAttribute && k <= ConditionSubstringAttribute
}

// matcher returns attribute matcher operator for the kind.
func (k ConditionKind) matcher() string {
	switch k {
	case ConditionAttribute:
		return "="
	case ConditionOneOfAttribute:
		return "~="
	case ConditionBeginHyphenAttribute:
		return "|="
	case ConditionPrefixAttribute:
		return "^="
	case ConditionSuffixAttribute:
		return "$="
	case ConditionSubstringAttribute:
		return "*="
	default:
		return ""
	}
}

// Condition is a qualifier attached to a simple selector: class, id, attribute
// matcher or pseudo-class. Conditions are immutable once created.
type Condition struct {
	kind        ConditionKind
	localName   OptString
	value       OptString
	doubleColon bool
	loc         Locator
}

func newAttributeCondition(kind ConditionKind, name string, value OptString, loc Locator) *Condition {
	return &Condition{kind: kind, localName: Some(name), value: value, loc: loc}
}

// NewAttributeCondition creates [name] (absent value) or [name="value"] condition.
func NewAttributeCondition(name string, value OptString, loc Locator) *Condition {
	return newAttributeCondition(ConditionAttribute, name, value, loc)
}

// NewOneOfAttributeCondition creates [name~="value"] condition.
func NewOneOfAttributeCondition(name string, value OptString, loc Locator) *Condition {
	return newAttributeCondition(ConditionOneOfAttribute, name, value, loc)
}

// NewBeginHyphenAttributeCondition creates [name|="value"] condition.
func NewBeginHyphenAttributeCondition(name string, value OptString, loc Locator) *Condition {
	return newAttributeCondition(ConditionBeginHyphenAttribute, name, value, loc)
}

// NewPrefixAttributeCondition creates [name^="value"] condition.
func NewPrefixAttributeCondition(name string, value OptString, loc Locator) *Condition {
	return newAttributeCondition(ConditionPrefixAttribute, name, value, loc)
}

// NewSuffixAttributeCondition creates [name$="value"] condition.
func NewSuffixAttributeCondition(name string, value OptString, loc Locator) *Condition {
	return newAttributeCondition(ConditionSuffixAttribute, name, value, loc)
}

// NewSubstringAttributeCondition creates [name*="value"] condition.
func NewSubstringAttributeCondition(name string, value OptString, loc Locator) *Condition {
	return newAttributeCondition(ConditionSubstringAttribute, name, value, loc)
}

// NewClassCondition creates .value condition.
func NewClassCondition(value string, loc Locator) *Condition {
	return &Condition{kind: ConditionClass, value: Some(value), loc: loc}
}

// NewIDCondition creates #value condition.
func NewIDCondition(value string, loc Locator) *Condition {
	return &Condition{kind: ConditionID, value: Some(value), loc: loc}
}

// NewLangCondition creates :lang(value) condition.
func NewLangCondition(lang string, loc Locator) *Condition {
	return &Condition{kind: ConditionLang, value: Some(lang), loc: loc}
}

// NewPseudoClassCondition creates generic pseudo-class condition. Value holds
// everything after the colon(s), including function arguments if any.
func NewPseudoClassCondition(value OptString, doubleColon bool, loc Locator) *Condition {
	return &Condition{kind: ConditionPseudoClass, value: value, doubleColon: doubleColon, loc: loc}
}

// NewOnlyChildCondition creates :only-child condition.
func NewOnlyChildCondition(loc Locator) *Condition {
	return &Condition{kind: ConditionOnlyChild, loc: loc}
}

// NewOnlyOfTypeCondition creates :only-of-type condition.
func NewOnlyOfTypeCondition(loc Locator) *Condition {
	return &Condition{kind: ConditionOnlyOfType, loc: loc}
}

// NewPositionalCondition creates structural pseudo-class condition, name is
// one of first-child, nth-child, etc. Functional forms carry their argument.
func NewPositionalCondition(name string, arg OptString, loc Locator) *Condition {
	return &Condition{kind: ConditionPositional, localName: Some(name), value: arg, loc: loc}
}

// Kind returns condition variant.
func (c *Condition) Kind() ConditionKind {
	return c.kind
}

// LocalName returns attribute or positional pseudo-class name. Absent for
// class, id, lang and generic pseudo-class conditions.
func (c *Condition) LocalName() OptString {
	return c.localName
}

// Value returns stored payload verbatim.
func (c *Condition) Value() OptString {
	return c.value
}

// DoubleColon reports if pseudo-class was written with "::".
func (c *Condition) DoubleColon() bool {
	return c.doubleColon
}

// Locator returns source position of the condition.
func (c *Condition) Locator() Locator {
	return c.loc
}

// Text returns canonical CSS form of the condition. The only case when text
// is absent is pseudo-class condition without value.
func (c *Condition) Text() (string, bool) {
	switch c.kind {
	case ConditionAttribute, ConditionOneOfAttribute, ConditionBeginHyphenAttribute,
		ConditionPrefixAttribute, ConditionSuffixAttribute, ConditionSubstringAttribute:
		var b strings.Builder
		b.WriteByte('[')
		b.WriteString(c.localName.String())
		if v, ok := c.value.Get(); ok {
			b.WriteString(c.kind.matcher())
			b.WriteByte('"')
			b.WriteString(cssEscapeDoubleQuoted(v))
			b.WriteByte('"')
		}
		b.WriteByte(']')
		return b.String(), true
	case ConditionClass:
		return "." + c.value.String(), true
	case ConditionID:
		return "#" + c.value.String(), true
	case ConditionLang:
		return ":lang(" + c.value.String() + ")", true
	case ConditionPseudoClass:
		v, ok := c.value.Get()
		if !ok {
			return "", false
		}
		if c.doubleColon {
			return "::" + v, true
		}
		return ":" + v, true
	case ConditionOnlyChild:
		return ":only-child", true
	case ConditionOnlyOfType:
		return ":only-of-type", true
	case ConditionPositional:
		if arg, ok := c.value.Get(); ok {
			return ":" + c.localName.String() + "(" + arg + ")", true
		}
		return ":" + c.localName.String(), true
	default:
		panic("unknown condition kind " + c.kind.String())
	}
}

// String returns canonical CSS form of the condition, absent text is
// rendered as empty string.
func (c *Condition) String() string {
	s, _ := c.Text()
	return s
}
