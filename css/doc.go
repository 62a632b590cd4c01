// Package css provides CSS selector object model, selector and stylesheet
// parsing and cascade specificity computation.
//
// # Conditions
//
// A Condition qualifies a simple selector. Every condition has a kind:
//
//   - Attribute matchers: [attr], [attr="v"], [attr~="v"], [attr|="v"],
//     [attr^="v"], [attr$="v"], [attr*="v"]
//   - Class and id: .cls, #id
//   - Pseudo-classes: :lang(en), :only-child, :only-of-type, structural
//     (:first-child, :nth-child(2n+1), ...) and generic (:hover, ::x)
//
// Condition values are three-valued (see OptString): absent, empty and
// non-empty are distinct and print differently ([a] vs [a=""]).
//
// # Selectors
//
// Selector trees are built from ElementSelector (E, ns|E, *), SimpleSelector
// (element with conditions), CombinatorSelector (E F, E > F, E + F, E ~ F)
// and PseudoElementSelector (::before). Pseudo-elements are attached to their
// compound selector with descendant combinator printed without whitespace.
// All nodes are immutable and may be shared between goroutines.
//
// # Specificity
//
// SpecificityOf computes (a, b, c, d) tuple: ids go to b; classes,
// attributes and pseudo-classes to c; type selectors and pseudo-elements to
// d. Universal selector contributes nothing. Tuples compare lexicographically.
//
// # Usage
//
//	parser := css.NewParser(logger)
//	list, err := parser.ParseSelectors("ul li.red, #nav > a:hover")
//	if err != nil {
//	    // exactly one error has been reported, list is nil
//	}
//	for _, sel := range list {
//	    fmt.Println(css.SpecificityOf(sel), sel)
//	}
//
//	sheet := parser.Parse(cssBytes, "style.css")
//	for _, e := range sheet.Cascade() {
//	    fmt.Println(e.Specificity, e.Selector)
//	}
package css
