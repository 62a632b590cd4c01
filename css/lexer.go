package css

import (
	"errors"
	"io"
	"unicode/utf8"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// token is a lexer token with its position in the source.
type token struct {
	tt   css.TokenType
	data string
	loc  Locator
}

func (t token) is(tt css.TokenType) bool {
	return t.tt == tt
}

func (t token) isDelim(d byte) bool {
	return t.tt == css.DelimToken && len(t.data) == 1 && t.data[0] == d
}

// describe returns token text for error messages.
func (t token) describe() string {
	if t.tt == css.ErrorToken {
		return "<EOF>"
	}
	return t.data
}

// tokenize splits text into tokens dropping comments. Positions are counted
// from base, which is the location of the first character of text. The last
// token is always css.ErrorToken marking the end of input.
func tokenize(text string, base Locator) ([]token, error) {
	if base.Line == 0 {
		base.Line, base.Column = 1, 1
	}
	l := css.NewLexer(parse.NewInputString(text))
	pos := base

	var tokens []token
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			tokens = append(tokens, token{tt: css.ErrorToken, loc: pos})
			return tokens, nil
		}
		t := token{tt: tt, data: string(data), loc: pos}
		pos = advance(pos, data)
		if tt == css.CommentToken {
			continue
		}
		tokens = append(tokens, t)
	}
}

// advance moves location over the data.
func advance(loc Locator, data []byte) Locator {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r == '\n' {
			loc.Line++
			loc.Column = 1
			continue
		}
		loc.Column++
	}
	return loc
}
