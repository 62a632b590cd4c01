package css

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

var (
	utf8BOM       = []byte{0xEF, 0xBB, 0xBF}
	charsetPrefix = []byte(`@charset "`)
)

// charsetRule returns label from @charset rule if data starts with one. The
// rule must be spelled exactly `@charset "label";`.
func charsetRule(data []byte) string {
	if !bytes.HasPrefix(data, charsetPrefix) {
		return ""
	}
	rest := data[len(charsetPrefix):]
	end := bytes.IndexByte(rest, '"')
	if end <= 0 || end+1 >= len(rest) || rest[end+1] != ';' {
		return ""
	}
	return string(rest[:end])
}

// DecodeStylesheet converts stylesheet bytes to UTF-8. Encoding is taken from
// enc when it is not nil, from UTF-8 BOM or leading @charset rule otherwise.
// Returns decoded text and name of the encoding used.
func DecodeStylesheet(data []byte, enc encoding.Encoding) ([]byte, string, error) {
	if enc != nil {
		name, err := ianaindex.IANA.Name(enc)
		if err != nil {
			name = fmt.Sprintf("%v", enc)
		}
		out, _, err := transform.Bytes(enc.NewDecoder(), data)
		if err != nil {
			return nil, name, fmt.Errorf("unable to decode stylesheet from %s: %w", name, err)
		}
		return out, name, nil
	}

	if bytes.HasPrefix(data, utf8BOM) {
		return data[len(utf8BOM):], "utf-8", nil
	}

	label := charsetRule(data)
	if label == "" {
		return data, "utf-8", nil
	}
	found, name := charset.Lookup(label)
	if found == nil {
		return nil, "", fmt.Errorf("unknown stylesheet charset %q", label)
	}
	r, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return nil, name, fmt.Errorf("unable to decode stylesheet from %s: %w", name, err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, name, fmt.Errorf("unable to decode stylesheet from %s: %w", name, err)
	}
	return out, name, nil
}
