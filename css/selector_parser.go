package css

import (
	"strings"
	"unicode/utf8"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// CSS2 pseudo-elements which may be written with a single colon.
var legacyPseudoElements = map[string]bool{
	"before":       true,
	"after":        true,
	"first-line":   true,
	"first-letter": true,
}

// structural pseudo-classes, functional ones require an argument
var positionalPseudoClasses = map[string]bool{
	"first-child":      false,
	"last-child":       false,
	"first-of-type":    false,
	"last-of-type":     false,
	"nth-child":        true,
	"nth-last-child":   true,
	"nth-of-type":      true,
	"nth-last-of-type": true,
}

// selectorParser is a recursive descent parser over already tokenized
// selector text. It stops at the first problem, reports it to the handler
// exactly once and never returns partial results.
type selectorParser struct {
	tokens []token
	pos    int
	h      *ErrorHandler
	legacy bool
	err    *ParseError
}

func (sp *selectorParser) cur() token {
	return sp.tokens[sp.pos]
}

func (sp *selectorParser) peek(n int) token {
	if sp.pos+n >= len(sp.tokens) {
		return sp.tokens[len(sp.tokens)-1]
	}
	return sp.tokens[sp.pos+n]
}

func (sp *selectorParser) next() {
	if sp.pos < len(sp.tokens)-1 {
		sp.pos++
	}
}

// skipWhitespace returns true if any whitespace was skipped.
func (sp *selectorParser) skipWhitespace() bool {
	skipped := false
	for sp.cur().is(css.WhitespaceToken) {
		sp.next()
		skipped = true
	}
	return skipped
}

// unexpected reports current token as invalid in the given context.
func (sp *selectorParser) unexpected(context string, expected ...string) {
	t := sp.cur()
	ctx := sp.h.sprintf(context)
	list := strings.Join(expected, ", ")
	if t.is(css.ErrorToken) {
		sp.h.Errorf(t.loc, msgUnexpectedEOF, ctx, list)
	} else {
		sp.h.Errorf(t.loc, msgInvalidToken, ctx, t.describe(), list)
	}
	sp.err = &ParseError{Loc: t.loc, Message: sp.h.ErrorMessage()}
}

// parseSelectorList parses comma separated list of complex selectors.
func (sp *selectorParser) parseSelectorList() SelectorList {
	var list SelectorList
	sp.skipWhitespace()
	for {
		sel, ok := sp.parseComplexSelector()
		if !ok {
			return nil
		}
		list = append(list, sel)

		sp.skipWhitespace()
		switch t := sp.cur(); {
		case t.is(css.ErrorToken):
			return list
		case t.is(css.CommaToken):
			sp.next()
			sp.skipWhitespace()
		default:
			sp.unexpected(ctxSelector, `","`, "<EOF>")
			return nil
		}
	}
}

// parseComplexSelector parses compound selectors joined by combinators into a
// left leaning tree.
func (sp *selectorParser) parseComplexSelector() (Selector, bool) {
	left, pseudo, ok := sp.parseCompoundSelector()
	if !ok {
		return nil, false
	}
	for {
		ws := sp.skipWhitespace()
		t := sp.cur()
		if t.is(css.ErrorToken) || t.is(css.CommaToken) {
			return left, true
		}

		var combine func(ancestor, simple Selector, loc Locator) *CombinatorSelector
		explicit := true
		switch {
		case t.isDelim('>'):
			combine = NewChildSelector
		case t.isDelim('+'):
			combine = NewDirectAdjacentSelector
		case t.isDelim('~'):
			combine = NewGeneralSiblingSelector
		case ws:
			combine, explicit = NewDescendantSelector, false
		default:
			sp.unexpected(ctxSelector, `" "`, `">"`, `"+"`, `"~"`, `","`, "<EOF>")
			return nil, false
		}
		if pseudo != nil {
			sp.h.Errorf(pseudo.Locator(), msgPseudoElementFirst, sp.h.sprintf(ctxSelector), pseudo.String())
			sp.err = &ParseError{Loc: pseudo.Locator(), Message: sp.h.ErrorMessage()}
			return nil, false
		}
		if explicit {
			sp.next()
			sp.skipWhitespace()
		}

		var right Selector
		if right, pseudo, ok = sp.parseCompoundSelector(); !ok {
			return nil, false
		}
		left = combine(left, right, t.loc)
	}
}

// parseCompoundSelector parses optional type selector followed by conditions
// and optional trailing pseudo-element. Returned pseudo-element, if any, is
// already attached to the result.
func (sp *selectorParser) parseCompoundSelector() (Selector, *PseudoElementSelector, bool) {
	start := sp.cur().loc

	element, ok := sp.parseTypeSelector()
	if !ok {
		return nil, nil, false
	}

	var (
		conditions []*Condition
		pseudo     *PseudoElementSelector
	)
loop:
	for pseudo == nil {
		t := sp.cur()
		switch {
		case t.is(css.HashToken):
			conditions = append(conditions, NewIDCondition(t.data[1:], t.loc))
			sp.next()

		case t.isDelim('.'):
			sp.next()
			if !sp.cur().is(css.IdentToken) {
				sp.unexpected(ctxSelector, "<IDENT>")
				return nil, nil, false
			}
			conditions = append(conditions, NewClassCondition(sp.cur().data, t.loc))
			sp.next()

		case t.is(css.LeftBracketToken):
			c, ok := sp.parseAttributeCondition()
			if !ok {
				return nil, nil, false
			}
			conditions = append(conditions, c)

		case t.is(css.ColonToken):
			c, pe, ok := sp.parsePseudo()
			if !ok {
				return nil, nil, false
			}
			if pe != nil {
				pseudo = pe
				continue
			}
			conditions = append(conditions, c)

		default:
			break loop
		}
	}

	if element == nil && len(conditions) == 0 && pseudo == nil {
		sp.unexpected(ctxSelector, "<IDENT>", `"*"`, `"#"`, `"."`, `"["`, `":"`)
		return nil, nil, false
	}

	var sel Selector
	switch {
	case len(conditions) > 0:
		sel = NewSimpleSelector(element, conditions...)
	case element != nil:
		sel = element
	default:
		sel = NewElementSelector(None(), "", start)
	}
	if pseudo != nil {
		sel = NewDescendantSelector(sel, pseudo, pseudo.Locator())
	}
	return sel, pseudo, true
}

// parseTypeSelector parses E, *, ns|E, *|E, |E. Returns nil element without
// error if there is no type selector.
func (sp *selectorParser) parseTypeSelector() (*ElementSelector, bool) {
	t := sp.cur()

	var (
		ns   OptString
		name string
	)
	switch {
	case t.is(css.IdentToken) || t.isDelim('*'):
		name = t.data
		sp.next()
		if !sp.cur().isDelim('|') {
			return NewElementSelector(None(), name, t.loc), true
		}
		ns = Some(name)
	case t.isDelim('|'):
		ns = Some("")
	default:
		return nil, true
	}

	// namespace separator
	sp.next()
	if n := sp.cur(); n.is(css.IdentToken) || n.isDelim('*') {
		name = n.data
		sp.next()
		return NewElementSelector(ns, name, t.loc), true
	}
	sp.unexpected(ctxSelector, "<IDENT>", `"*"`)
	return nil, false
}

// parseAttributeCondition parses [name], [name op value] where op is one of
// = ~= |= ^= $= *= and value is identifier or string.
func (sp *selectorParser) parseAttributeCondition() (*Condition, bool) {
	start := sp.cur().loc
	sp.next()
	sp.skipWhitespace()

	if !sp.cur().is(css.IdentToken) {
		sp.unexpected(ctxAttribute, "<IDENT>")
		return nil, false
	}
	name := sp.cur().data
	sp.next()
	if sp.cur().isDelim('|') && sp.peek(1).is(css.IdentToken) {
		name += "|" + sp.peek(1).data
		sp.next()
		sp.next()
	}
	sp.skipWhitespace()

	var create func(name string, value OptString, loc Locator) *Condition
	switch t := sp.cur(); {
	case t.is(css.RightBracketToken):
		sp.next()
		return NewAttributeCondition(name, None(), start), true
	case t.isDelim('='):
		create = NewAttributeCondition
	case t.is(css.IncludeMatchToken):
		create = NewOneOfAttributeCondition
	case t.is(css.DashMatchToken):
		create = NewBeginHyphenAttributeCondition
	case t.is(css.PrefixMatchToken):
		create = NewPrefixAttributeCondition
	case t.is(css.SuffixMatchToken):
		create = NewSuffixAttributeCondition
	case t.is(css.SubstringMatchToken):
		create = NewSubstringAttributeCondition
	default:
		sp.unexpected(ctxAttribute, `"]"`, `"="`, `"~="`, `"|="`, `"^="`, `"$="`, `"*="`)
		return nil, false
	}
	sp.next()
	sp.skipWhitespace()

	var value string
	switch t := sp.cur(); {
	case t.is(css.IdentToken):
		value = t.data
	case t.is(css.StringToken):
		value = unquote(t.data)
	default:
		sp.unexpected(ctxAttribute, "<IDENT>", "<STRING>")
		return nil, false
	}
	sp.next()
	sp.skipWhitespace()

	if !sp.cur().is(css.RightBracketToken) {
		sp.unexpected(ctxAttribute, `"]"`)
		return nil, false
	}
	sp.next()
	return create(name, Some(value), start), true
}

// parsePseudo parses everything starting with a colon. Exactly one of the
// returned condition and pseudo-element is non-nil on success.
func (sp *selectorParser) parsePseudo() (*Condition, *PseudoElementSelector, bool) {
	start := sp.cur().loc
	sp.next()

	if sp.cur().is(css.ColonToken) {
		sp.next()
		if !sp.cur().is(css.IdentToken) {
			sp.unexpected(ctxPseudoElement, "<IDENT>")
			return nil, nil, false
		}
		pe := NewPseudoElementSelector(Some(sp.cur().data), true, start)
		sp.next()
		return nil, pe, true
	}

	t := sp.cur()
	switch {
	case t.is(css.IdentToken):
		sp.next()
		name := strings.ToLower(t.data)
		if sp.legacy && legacyPseudoElements[name] {
			return nil, NewPseudoElementSelector(Some(t.data), false, start), true
		}
		switch name {
		case "only-child":
			return NewOnlyChildCondition(start), nil, true
		case "only-of-type":
			return NewOnlyOfTypeCondition(start), nil, true
		}
		if functional, ok := positionalPseudoClasses[name]; ok && !functional {
			return NewPositionalCondition(t.data, None(), start), nil, true
		}
		return NewPseudoClassCondition(Some(t.data), false, start), nil, true

	case t.is(css.FunctionToken):
		fn := strings.TrimSuffix(t.data, "(")
		sp.next()
		args, ok := sp.parseFunctionArguments()
		if !ok {
			return nil, nil, false
		}
		name := strings.ToLower(fn)
		functional, positional := positionalPseudoClasses[name]
		if (name == "lang" || (positional && functional)) && args == "" {
			// report closing parenthesis as unexpected
			sp.pos--
			sp.unexpected(ctxPseudoClass, "<IDENT>")
			return nil, nil, false
		}
		switch {
		case name == "lang":
			return NewLangCondition(args, start), nil, true
		case positional && functional:
			return NewPositionalCondition(fn, Some(args), start), nil, true
		}
		return NewPseudoClassCondition(Some(fn+"("+args+")"), false, start), nil, true

	default:
		sp.unexpected(ctxPseudoClass, "<IDENT>", "<FUNCTION>")
		return nil, nil, false
	}
}

// parseFunctionArguments collects raw text up to the matching closing
// parenthesis which is consumed. Surrounding whitespace is dropped.
func (sp *selectorParser) parseFunctionArguments() (string, bool) {
	var b strings.Builder
	depth := 0
	for {
		t := sp.cur()
		switch {
		case t.is(css.ErrorToken):
			sp.unexpected(ctxPseudoClass, `")"`)
			return "", false
		case t.is(css.LeftParenthesisToken), t.is(css.FunctionToken):
			depth++
		case t.is(css.RightParenthesisToken):
			if depth == 0 {
				sp.next()
				return strings.TrimSpace(b.String()), true
			}
			depth--
		}
		b.WriteString(t.data)
		sp.next()
	}
}

// unquote removes surrounding quotes from a CSS string token and resolves
// its escapes.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' && s[len(s)-1] == '"' ||
		s[0] == '\'' && s[len(s)-1] == '\'') {
		s = s[1 : len(s)-1]
	}
	if !strings.Contains(s, `\`) {
		return s
	}
	return unescape(s)
}

// unescape decodes CSS escapes in string content. A backslash followed by up
// to six hex digits is a code point, one whitespace after the digits is part
// of the escape. Escaped newline is a line continuation and produces nothing.
// Any other escaped character stands for itself. Zero, surrogates and code
// points above U+10FFFF decode to U+FFFD.
func unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			i++
			continue
		}
		i++
		if i == len(s) {
			// dangling backslash at the end of string is ignored
			break
		}
		switch c := s[i]; {
		case parse.IsNewline(c) || c == '\f':
			i = skipNewline(s, i)
		case hexValue(c) >= 0:
			var r rune
			j := i
			for ; j < len(s) && j-i < 6 && hexValue(s[j]) >= 0; j++ {
				r = r<<4 | rune(hexValue(s[j]))
			}
			i = j
			if i < len(s) && parse.IsWhitespace(s[i]) {
				i = skipNewline(s, i)
			}
			if r == 0 || !utf8.ValidRune(r) {
				r = utf8.RuneError
			}
			b.WriteRune(r)
		default:
			_, size := utf8.DecodeRuneInString(s[i:])
			b.WriteString(s[i : i+size])
			i += size
		}
	}
	return b.String()
}

// skipNewline steps over one whitespace character at i, CRLF counts as one.
func skipNewline(s string, i int) int {
	if s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n' {
		return i + 2
	}
	return i + 1
}

func hexValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
