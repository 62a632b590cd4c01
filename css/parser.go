package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unsafe"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// ParserOptions controls parser behavior.
type ParserOptions struct {
	lang         language.Tag
	legacyPseudo bool
	handler      *ErrorHandler
}

// WithLanguage selects language of error messages.
func WithLanguage(tag language.Tag) func(*ParserOptions) {
	return func(opts *ParserOptions) {
		opts.lang = tag
	}
}

// WithLegacyPseudoElements controls whether :before, :after, :first-line and
// :first-letter are treated as pseudo-elements (default) or pseudo-classes.
func WithLegacyPseudoElements(enable bool) func(*ParserOptions) {
	return func(opts *ParserOptions) {
		opts.legacyPseudo = enable
	}
}

// WithErrorHandler makes parser report problems to the provided handler.
func WithErrorHandler(h *ErrorHandler) func(*ParserOptions) {
	return func(opts *ParserOptions) {
		opts.handler = h
	}
}

// Parser parses CSS selectors and stylesheets into selector trees.
// Problems are accumulated in the parser error handler across calls.
type Parser struct {
	log          *zap.Logger
	handler      *ErrorHandler
	legacyPseudo bool
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger, options ...func(*ParserOptions)) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	opts := &ParserOptions{lang: language.English, legacyPseudo: true}
	for _, setOpt := range options {
		setOpt(opts)
	}
	if opts.handler == nil {
		opts.handler = NewErrorHandler(log, opts.lang)
	}
	return &Parser{
		log:          log.Named("css-parser"),
		handler:      opts.handler,
		legacyPseudo: opts.legacyPseudo,
	}
}

// ErrorHandler returns handler which accumulates parsing problems.
func (p *Parser) ErrorHandler() *ErrorHandler {
	return p.handler
}

// SetErrorHandler replaces error handler.
func (p *Parser) SetErrorHandler(h *ErrorHandler) {
	p.handler = h
}

// ParseSelectors parses comma separated selector list. On malformed input
// exactly one error is reported to the error handler and returned, the list
// is nil in this case.
func (p *Parser) ParseSelectors(text string) (SelectorList, error) {
	return p.parseSelectorText(text, Locator{Line: 1, Column: 1})
}

// ParseSelectorsFrom reads selector list from r, uri is used in locators.
func (p *Parser) ParseSelectorsFrom(r io.Reader, uri string) (SelectorList, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		err = fmt.Errorf("unable to read selectors: %w", err)
		p.handler.Fatal(Locator{URI: uri}, err)
		return nil, err
	}
	return p.parseSelectorText(string(data), Locator{URI: uri, Line: 1, Column: 1})
}

func (p *Parser) parseSelectorText(text string, base Locator) (SelectorList, error) {
	tokens, err := tokenize(text, base)
	if err != nil {
		err = fmt.Errorf("unable to tokenize selectors: %w", err)
		p.handler.Fatal(base, err)
		return nil, err
	}
	sp := &selectorParser{tokens: tokens, h: p.handler, legacy: p.legacyPseudo}
	list := sp.parseSelectorList()
	if sp.err != nil {
		p.log.Debug("Rejected selector", zap.String("selector", text), zap.Stringer("location", sp.err.Loc))
		return nil, sp.err
	}
	return list, nil
}

// ParseFrom reads and parses stylesheet from r. Read failures are reported
// to the error handler as fatal errors.
func (p *Parser) ParseFrom(r io.Reader, source string) *Stylesheet {
	data, err := io.ReadAll(r)
	if err != nil {
		p.handler.Fatal(Locator{URI: source}, fmt.Errorf("unable to read stylesheet: %w", err))
		return &Stylesheet{URI: source, Items: make([]StylesheetItem, 0), errors: p.handler}
	}
	return p.Parse(data, source)
}

// Parse parses CSS text into a Stylesheet. Rules with invalid selectors are
// dropped, each reporting one error.
// The optional source parameter identifies what's being parsed (for debug logging and locators).
func (p *Parser) Parse(data []byte, source ...string) *Stylesheet {
	var uri string
	if len(source) > 0 {
		uri = source[0]
	}
	sheet := &Stylesheet{
		URI:    uri,
		Items:  make([]StylesheetItem, 0),
		errors: p.handler,
	}

	if uri != "" {
		p.log.Debug("Parsing CSS", zap.String("source", uri), zap.Int("bytes", len(data)))
	}

	// Keep room for the terminating NULL so input does not reallocate and
	// token data can be located in src.
	src := make([]byte, len(data), len(data)+1)
	copy(src, data)
	ctx := &sheetContext{src: src, uri: uri}
	parser := css.NewParser(parse.NewInputBytes(src), false)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			p.reportGrammarError(ctx, parser.Err())
			return sheet

		case css.BeginAtRuleGrammar:
			atRule := strings.ToLower(string(data))
			loc := ctx.locateKeyword(data, parser.Values(), parser.Offset())
			if atRule == "@media" {
				query := joinValues(parser.Values())
				rules := p.parseMediaBlockRules(parser, ctx)
				p.log.Debug("Parsed @media block", zap.String("query", query), zap.Int("rules", len(rules)))
				sheet.Items = append(sheet.Items, StylesheetItem{
					MediaBlock: &MediaBlock{Query: query, Rules: rules, Loc: loc},
				})
				continue
			}
			p.skipAtRuleBlock(parser)
			p.handler.Warningf(loc, msgIgnoringAtRule, atRule)

		case css.AtRuleGrammar:
			// Simple @-rule without block (e.g., @import)
			atRule := strings.ToLower(string(data))
			switch atRule {
			case "@import":
				if url := extractImportURL(parser.Values()); url != "" {
					sheet.Items = append(sheet.Items, StylesheetItem{Import: &url})
					p.log.Debug("Parsed @import", zap.String("url", url))
				}
			case "@charset":
				p.log.Debug("Skipping @charset", zap.String("charset", joinValues(parser.Values())))
			default:
				p.handler.Warningf(ctx.locateKeyword(data, parser.Values(), parser.Offset()), msgIgnoringAtRule, atRule)
			}

		case css.BeginRulesetGrammar:
			if rule, ok := p.parseRule(parser, ctx); ok {
				sheet.Items = append(sheet.Items, StylesheetItem{Rule: rule})
			}
		}
	}
}

// sheetContext keeps source buffer to compute locations of grammar tokens.
type sheetContext struct {
	src []byte
	uri string
}

// offset returns position of token data in the source buffer. Lexer tokens
// are sub-slices of it, but the grammar parser copies some (at-rule names)
// and inserts shared whitespace, those are not found.
func (ctx *sheetContext) offset(data []byte) (int, bool) {
	if len(data) == 0 || len(ctx.src) == 0 {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(ctx.src)))
	ptr := uintptr(unsafe.Pointer(unsafe.SliceData(data)))
	if ptr < base || ptr+uintptr(len(data)) > base+uintptr(len(ctx.src)) {
		return 0, false
	}
	return int(ptr - base), true
}

func (ctx *sheetContext) position(off int) Locator {
	line, col, _ := parse.Position(bytes.NewReader(ctx.src), off)
	return Locator{URI: ctx.uri, Line: line, Column: col}
}

// locateKeyword finds a name the grammar parser hands out as a lowercased
// copy (at-keywords and property names): the last case-insensitive match
// before the first value token, or before end when there are no values.
// Must be called before the parser moves to the next grammar item.
func (ctx *sheetContext) locateKeyword(keyword []byte, values []css.Token, end int) Locator {
	if len(keyword) == 0 {
		return Locator{URI: ctx.uri}
	}
	limit := min(end, len(ctx.src))
	for _, v := range values {
		if off, ok := ctx.offset(v.Data); ok {
			limit = off
			break
		}
	}
	for i := limit - len(keyword); i >= 0; i-- {
		if bytes.EqualFold(ctx.src[i:i+len(keyword)], keyword) {
			return ctx.position(i)
		}
	}
	return Locator{URI: ctx.uri}
}

func (p *Parser) reportGrammarError(ctx *sheetContext, err error) {
	if err == nil || errors.Is(err, io.EOF) {
		return
	}
	loc := Locator{URI: ctx.uri}
	var perr *parse.Error
	if errors.As(err, &perr) {
		loc.Line, loc.Column = perr.Line, perr.Column
	}
	p.handler.Errorf(loc, msgStylesheetSyntax, err.Error())
}

// parseRule parses selector prelude of the current ruleset and its
// declarations. Declarations are always consumed, even when selectors are
// rejected.
func (p *Parser) parseRule(parser *css.Parser, ctx *sheetContext) (*Rule, bool) {
	text, loc := preludeText(parser.Values(), ctx)
	decls := p.parseDeclarations(parser, ctx)

	selectors, err := p.parseSelectorText(text, loc)
	if err != nil {
		return nil, false
	}
	return &Rule{Selectors: selectors, Declarations: decls, Loc: loc}, true
}

// preludeText returns selector text of the ruleset and where it starts. The
// text is taken from the source as written so selector locators keep real
// columns, tokens are joined only when they cannot be found in the source.
func preludeText(values []css.Token, ctx *sheetContext) (string, Locator) {
	first, last := -1, -1
	for i, v := range values {
		if v.TokenType == css.WhitespaceToken {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
	}
	if first < 0 {
		return "", Locator{URI: ctx.uri}
	}

	start, okStart := ctx.offset(values[first].Data)
	end, okEnd := ctx.offset(values[last].Data)
	if okStart && okEnd && start <= end {
		end += len(values[last].Data)
		return string(ctx.src[start:end]), ctx.position(start)
	}

	var sb strings.Builder
	for _, v := range values[first : last+1] {
		sb.Write(v.Data)
	}
	return sb.String(), Locator{URI: ctx.uri}
}

// extractImportURL extracts the URL from @import tokens.
// Handles: @import "url"; @import url("url"); @import url(url);
func extractImportURL(tokens []css.Token) string {
	for _, t := range tokens {
		switch t.TokenType {
		case css.StringToken:
			return unquote(string(t.Data))
		case css.URLToken:
			// url(something) - the token data is the full url(...) string
			s := string(t.Data)
			s = strings.TrimPrefix(s, "url(")
			s = strings.TrimSuffix(s, ")")
			return unquote(strings.TrimSpace(s))
		}
	}
	return ""
}

// parseDeclarations parses property declarations until EndRulesetGrammar.
func (p *Parser) parseDeclarations(parser *css.Parser, ctx *sheetContext) []Declaration {
	var decls []Declaration

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndRulesetGrammar:
			return decls

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			name := string(data)
			values := parser.Values()
			value, important := declarationValue(values)
			if value == "" {
				p.handler.Warningf(ctx.locateKeyword(data, values, parser.Offset()), msgIgnoringProperty, name)
				continue
			}
			decls = append(decls, Declaration{Name: name, Value: value, Important: important})
		}
	}
}

// declarationValue converts value tokens to text, collapsing whitespace and
// stripping trailing !important.
func declarationValue(tokens []css.Token) (string, bool) {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			parts = append(parts, string(t.Data))
		} else if len(parts) > 0 {
			// Add space between non-whitespace tokens
			parts = append(parts, " ")
		}
	}
	// drop trailing whitespace entries to look at the last two real tokens
	for len(parts) > 0 && parts[len(parts)-1] == " " {
		parts = parts[:len(parts)-1]
	}

	important := false
	if n := len(parts); n >= 2 && strings.EqualFold(parts[n-1], "important") {
		bang := n - 2
		if parts[bang] == " " {
			bang--
		}
		if bang >= 0 && parts[bang] == "!" {
			important = true
			parts = parts[:bang]
		}
	}
	return strings.TrimSpace(strings.Join(parts, "")), important
}

// joinValues returns tokens as text with collapsed whitespace.
func joinValues(tokens []css.Token) string {
	var parts []string
	for _, t := range tokens {
		if t.TokenType != css.WhitespaceToken {
			parts = append(parts, string(t.Data))
		} else if len(parts) > 0 {
			parts = append(parts, " ")
		}
	}
	return strings.TrimSpace(strings.Join(parts, ""))
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			return
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}

// parseMediaBlockRules parses rules inside an @media block and returns them.
// Nested at-rules are skipped.
func (p *Parser) parseMediaBlockRules(parser *css.Parser, ctx *sheetContext) []Rule {
	var rules []Rule

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar, css.EndAtRuleGrammar:
			return rules

		case css.BeginAtRuleGrammar:
			loc := ctx.locateKeyword(data, parser.Values(), parser.Offset())
			p.skipAtRuleBlock(parser)
			p.handler.Warningf(loc, msgIgnoringAtRule, strings.ToLower(string(data)))

		case css.BeginRulesetGrammar:
			if rule, ok := p.parseRule(parser, ctx); ok {
				rules = append(rules, *rule)
			}
		}
	}
}
