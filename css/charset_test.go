package css_test

import (
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"

	"cssom/css"
)

func TestDecodeStylesheet(t *testing.T) {
	cp1251 := "p { content: \"\xcf\xf0\xe8\xe2\xe5\xf2\" }"

	tests := []struct {
		name     string
		data     string
		want     string
		encoding string
	}{
		{"plain", "p { color: red }", "p { color: red }", "utf-8"},
		{"bom", "\xef\xbb\xbfp { color: red }", "p { color: red }", "utf-8"},
		{"charset rule", "@charset \"windows-1251\";\n" + cp1251, "Привет", "windows-1251"},
		{"not exact rule", "@charset 'windows-1251';\np {}", "@charset 'windows-1251';", "utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, name, err := css.DecodeStylesheet([]byte(tt.data), nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(string(out), tt.want) {
				t.Errorf("expected %q in output, got %q", tt.want, out)
			}
			if name != tt.encoding {
				t.Errorf("expected encoding %q, got %q", tt.encoding, name)
			}
		})
	}
}

func TestDecodeStylesheet_Forced(t *testing.T) {
	data := []byte("p { content: \"\xcf\xf0\xe8\xe2\xe5\xf2\" }")
	out, name, err := css.DecodeStylesheet(data, charmap.Windows1251)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "windows-1251" {
		t.Errorf("expected windows-1251, got %q", name)
	}
	if want := `p { content: "Привет" }`; string(out) != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestDecodeStylesheet_UnknownCharset(t *testing.T) {
	if _, _, err := css.DecodeStylesheet([]byte(`@charset "no-such-thing"; p {}`), nil); err == nil {
		t.Error("expected error for unknown charset")
	}
}

func TestDecodeStylesheet_ParsesDecoded(t *testing.T) {
	data := []byte("@charset \"windows-1251\";\np.\xcf { color: red }")
	out, _, err := css.DecodeStylesheet(data, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := css.NewParser(nil)
	sheet := p.Parse(out)
	rules := sheet.RulesBySelector("p.П")
	if len(rules) != 1 {
		t.Fatalf("expected rule with decoded class name, got %s", sheet)
	}
}
