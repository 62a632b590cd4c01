package css_test

import (
	"testing"

	"cssom/css"
)

func TestDumpTree(t *testing.T) {
	p := css.NewParser(nil)
	list, err := p.ParseSelectors("ul > li.red")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `child
  element
    namespace: <none>
    local-name: "ul"
  simple
    element
      namespace: <none>
      local-name: "li"
    class
      value: "red"
`
	if got := css.DumpTree(list[0]); got != want {
		t.Errorf("unexpected dump:\n%s\nwant:\n%s", got, want)
	}
}

func TestDumpTree_OptionalValues(t *testing.T) {
	sel := css.NewDescendantSelector(
		css.NewSimpleSelector(
			css.NewElementSelector(css.Some(""), "*", css.Locator{}),
			css.NewAttributeCondition("title", css.None(), css.Locator{}),
			css.NewAttributeCondition("lang", css.Some(""), css.Locator{}),
		),
		css.NewPseudoElementSelector(css.Some("before"), true, css.Locator{}),
		css.Locator{},
	)

	want := `descendant
  simple
    element
      namespace: ""
      local-name: <none>
    attribute
      local-name: "title"
      value: <none>
    attribute
      local-name: "lang"
      value: ""
  pseudo-element
    local-name: "before"
`
	if got := css.DumpTree(sel); got != want {
		t.Errorf("unexpected dump:\n%s\nwant:\n%s", got, want)
	}
}
