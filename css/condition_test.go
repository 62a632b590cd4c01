package css_test

import (
	"strings"
	"testing"

	"cssom/css"
)

func TestCondition_AttributeText(t *testing.T) {
	ctors := []struct {
		kind css.ConditionKind
		op   string
		new  func(name string, value css.OptString, loc css.Locator) *css.Condition
	}{
		{css.ConditionAttribute, "=", css.NewAttributeCondition},
		{css.ConditionOneOfAttribute, "~=", css.NewOneOfAttributeCondition},
		{css.ConditionBeginHyphenAttribute, "|=", css.NewBeginHyphenAttributeCondition},
		{css.ConditionPrefixAttribute, "^=", css.NewPrefixAttributeCondition},
		{css.ConditionSuffixAttribute, "$=", css.NewSuffixAttributeCondition},
		{css.ConditionSubstringAttribute, "*=", css.NewSubstringAttributeCondition},
	}

	for _, c := range ctors {
		t.Run(c.kind.String(), func(t *testing.T) {
			if !c.kind.IsAttribute() {
				t.Errorf("expected %s to be attribute kind", c.kind)
			}

			without := c.new("test", css.None(), css.Locator{})
			if without.Kind() != c.kind {
				t.Errorf("expected kind %s, got %s", c.kind, without.Kind())
			}
			if name, _ := without.LocalName().Get(); name != "test" {
				t.Errorf("expected local name 'test', got '%s'", name)
			}
			if without.Value().IsSet() {
				t.Error("expected absent value")
			}
			if got := without.String(); got != "[test]" {
				t.Errorf("expected '[test]', got '%s'", got)
			}
			if strings.Contains(without.String(), "=") {
				t.Errorf("absent value must not produce operator: %s", without)
			}

			empty := c.new("test", css.Some(""), css.Locator{})
			if v, ok := empty.Value().Get(); !ok || v != "" {
				t.Errorf("expected present empty value, got %q (present=%v)", v, ok)
			}
			if got, want := empty.String(), `[test`+c.op+`""]`; got != want {
				t.Errorf("expected '%s', got '%s'", want, got)
			}

			with := c.new("test", css.Some("value"), css.Locator{})
			if got, want := with.String(), `[test`+c.op+`"value"]`; got != want {
				t.Errorf("expected '%s', got '%s'", want, got)
			}
		})
	}
}

func TestCondition_AttributeValueEscaped(t *testing.T) {
	c := css.NewAttributeCondition("title", css.Some(`say "hi" \o/`), css.Locator{})
	if got, want := c.String(), `[title="say \"hi\" \\o/"]`; got != want {
		t.Errorf("expected '%s', got '%s'", want, got)
	}
}

func TestCondition_ClassAndID(t *testing.T) {
	class := css.NewClassCondition("red", css.Locator{})
	if class.Kind() != css.ConditionClass {
		t.Errorf("expected class kind, got %s", class.Kind())
	}
	if class.LocalName().IsSet() {
		t.Error("class condition must not have local name")
	}
	if got := class.String(); got != ".red" {
		t.Errorf("expected '.red', got '%s'", got)
	}

	id := css.NewIDCondition("x34y", css.Locator{})
	if id.Kind() != css.ConditionID {
		t.Errorf("expected id kind, got %s", id.Kind())
	}
	if v, _ := id.Value().Get(); v != "x34y" {
		t.Errorf("expected value 'x34y', got '%s'", v)
	}
	if got := id.String(); got != "#x34y" {
		t.Errorf("expected '#x34y', got '%s'", got)
	}
}

func TestCondition_PseudoClass(t *testing.T) {
	tests := []struct {
		name        string
		value       css.OptString
		doubleColon bool
		text        string
		present     bool
	}{
		{"absent", css.None(), false, "", false},
		{"absent double colon", css.None(), true, "", false},
		{"empty", css.Some(""), false, ":", true},
		{"empty double colon", css.Some(""), true, "::", true},
		{"value", css.Some("hover"), false, ":hover", true},
		{"value double colon", css.Some("hover"), true, "::hover", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := css.NewPseudoClassCondition(tt.value, tt.doubleColon, css.Locator{})
			if c.Kind() != css.ConditionPseudoClass {
				t.Errorf("expected pseudo-class kind, got %s", c.Kind())
			}
			if c.LocalName().IsSet() {
				t.Error("pseudo-class condition must not have local name")
			}
			if c.DoubleColon() != tt.doubleColon {
				t.Errorf("expected double colon %v", tt.doubleColon)
			}
			text, ok := c.Text()
			if ok != tt.present {
				t.Fatalf("expected text presence %v, got %v", tt.present, ok)
			}
			if text != tt.text {
				t.Errorf("expected '%s', got '%s'", tt.text, text)
			}
		})
	}
}

func TestCondition_Structural(t *testing.T) {
	tests := []struct {
		cond *css.Condition
		kind css.ConditionKind
		text string
	}{
		{css.NewLangCondition("en", css.Locator{}), css.ConditionLang, ":lang(en)"},
		{css.NewOnlyChildCondition(css.Locator{}), css.ConditionOnlyChild, ":only-child"},
		{css.NewOnlyOfTypeCondition(css.Locator{}), css.ConditionOnlyOfType, ":only-of-type"},
		{css.NewPositionalCondition("first-child", css.None(), css.Locator{}), css.ConditionPositional, ":first-child"},
		{css.NewPositionalCondition("nth-child", css.Some("2n+1"), css.Locator{}), css.ConditionPositional, ":nth-child(2n+1)"},
		{css.NewPositionalCondition("nth-last-of-type", css.Some("odd"), css.Locator{}), css.ConditionPositional, ":nth-last-of-type(odd)"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if tt.cond.Kind() != tt.kind {
				t.Errorf("expected kind %s, got %s", tt.kind, tt.cond.Kind())
			}
			if tt.cond.Kind().IsAttribute() {
				t.Errorf("%s must not be attribute kind", tt.cond.Kind())
			}
			if got := tt.cond.String(); got != tt.text {
				t.Errorf("expected '%s', got '%s'", tt.text, got)
			}
		})
	}
}

func TestCondition_LocatorIsCarried(t *testing.T) {
	loc := css.Locator{URI: "a.css", Line: 3, Column: 7}
	c := css.NewClassCondition("x", loc)
	if c.Locator() != loc {
		t.Errorf("expected locator %v, got %v", loc, c.Locator())
	}
	if got := loc.String(); got != "a.css:3:7" {
		t.Errorf("expected 'a.css:3:7', got '%s'", got)
	}
	if got := (css.Locator{Line: 1, Column: 2}).String(); got != "1:2" {
		t.Errorf("expected '1:2', got '%s'", got)
	}
}

func TestOptString(t *testing.T) {
	var zero css.OptString
	if zero.IsSet() {
		t.Error("zero value must be absent")
	}
	if got := zero.Or("def"); got != "def" {
		t.Errorf("expected default for absent value, got '%s'", got)
	}
	if got := css.Some("").Or("def"); got != "" {
		t.Errorf("expected empty string for present empty value, got '%s'", got)
	}
	if css.Some("") == css.None() {
		t.Error("empty and absent values must differ")
	}
	if v, ok := css.Some("v").Get(); !ok || v != "v" {
		t.Errorf("expected present 'v', got %q (present=%v)", v, ok)
	}
}
