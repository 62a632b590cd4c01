package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"cssom/css"
	"cssom/state"
)

type specificityLine struct {
	spec css.Specificity
	text string
	tree string
}

func runSpecificity(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("specificity")

	if cmd.Args().Len() == 0 {
		return errors.New("no selectors to process")
	}

	parser := env.NewParser()

	var lines []specificityLine
	for _, arg := range cmd.Args().Slice() {
		list, err := parser.ParseSelectors(arg)
		if err != nil {
			// already reported to parser error handler
			log.Warn("Skipping selector", zap.String("selector", arg), zap.Error(err))
			continue
		}
		for _, sel := range list {
			l := specificityLine{spec: css.SpecificityOf(sel), text: sel.String()}
			if cmd.Bool("tree") {
				l.tree = css.DumpTree(sel)
			}
			lines = append(lines, l)
		}
	}

	if cmd.Bool("sort") {
		sortLines(lines)
	}

	out := cmd.Root().Writer
	for _, l := range lines {
		if _, err := fmt.Fprintf(out, "%s\t%s\n", l.spec, l.text); err != nil {
			return fmt.Errorf("unable to write output: %w", err)
		}
		if _, err := io.WriteString(out, l.tree); err != nil {
			return fmt.Errorf("unable to write output: %w", err)
		}
	}

	if n := parser.ErrorHandler().ErrorCount(); n > 0 {
		return fmt.Errorf("%d malformed selector(s): %w", n, parser.ErrorHandler().Err())
	}
	return nil
}

// sortLines orders lines by specificity, selectors with equal specificity are
// ordered naturally by their text (h2 before h10).
func sortLines(lines []specificityLine) {
	slices.SortStableFunc(lines, func(a, b specificityLine) int {
		if c := a.spec.Compare(b.spec); c != 0 {
			return c
		}
		switch {
		case natural.Less(a.text, b.text):
			return -1
		case natural.Less(b.text, a.text):
			return 1
		}
		return 0
	})
}
