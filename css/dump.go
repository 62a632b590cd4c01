package css

import "cssom/utils/debug"

// DumpTree describes selector tree as indented text, one node per line.
// Intended for diagnostics, format is not stable.
func DumpTree(sel Selector) string {
	tw := debug.NewTreeWriter()
	dumpSelector(tw, 0, sel)
	return tw.String()
}

func dumpSelector(tw *debug.TreeWriter, depth int, sel Selector) {
	switch s := sel.(type) {
	case *ElementSelector:
		tw.Line(depth, "%s", s.Kind())
		ns, ok := s.Namespace().Get()
		tw.Field(depth+1, "namespace", ns, ok)
		name, ok := s.LocalName().Get()
		tw.Field(depth+1, "local-name", name, ok)
	case *SimpleSelector:
		tw.Line(depth, "%s", s.Kind())
		dumpSelector(tw, depth+1, s.element)
		for _, c := range s.conditions {
			dumpCondition(tw, depth+1, c)
		}
	case *CombinatorSelector:
		tw.Line(depth, "%s", s.Kind())
		dumpSelector(tw, depth+1, s.ancestor)
		dumpSelector(tw, depth+1, s.simple)
	case *PseudoElementSelector:
		tw.Line(depth, "%s", s.Kind())
		name, ok := s.name.Get()
		tw.Field(depth+1, "local-name", name, ok)
	}
}

func dumpCondition(tw *debug.TreeWriter, depth int, c *Condition) {
	tw.Line(depth, "%s", c.Kind())
	if name, ok := c.LocalName().Get(); ok {
		tw.Field(depth+1, "local-name", name, true)
	}
	value, ok := c.Value().Get()
	tw.Field(depth+1, "value", value, ok)
}
