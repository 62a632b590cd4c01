package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"cssom/css"
	"cssom/state"
)

func runCheck(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("check")

	if cmd.Args().Len() == 0 {
		return errors.New("no stylesheet to check")
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many sources", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	src := cmd.Args().Get(0)

	if cp := cmd.String("charset"); len(cp) > 0 {
		enc, err := ianaindex.IANA.Encoding(cp)
		if err != nil || enc == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
		} else {
			env.CodePage = enc
		}
	}

	data, err := readSource(src)
	if err != nil {
		return err
	}
	if src != "-" {
		if err := env.Rpt.StoreCopy("input/"+filepath.Base(src), src); err != nil {
			log.Debug("Unable to store stylesheet in report", zap.Error(err))
		}
	}

	text, encName, err := css.DecodeStylesheet(data, env.CodePage)
	if err != nil {
		return err
	}
	log.Debug("Stylesheet decoded", zap.String("source", src), zap.String("charset", encName))

	parser := env.NewParser()
	sheet := parser.Parse(text, src)

	if err := writeCascade(cmd.Root().Writer, sheet); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}

	log.Info("Stylesheet checked", zap.String("source", src),
		zap.Int("rules", len(sheet.Cascade())),
		zap.Int("errors", sheet.ErrorCount()),
		zap.Int("fatal", sheet.FatalErrorCount()),
		zap.Int("warnings", sheet.WarningCount()))

	if sheet.Err() != nil {
		env.Rpt.StoreData("errors.txt", []byte(sheet.Err().Error()+"\n"))
	}
	if n := sheet.ErrorCount() + sheet.FatalErrorCount(); n > 0 {
		return fmt.Errorf("stylesheet '%s' has %d error(s): %w", src, n, sheet.Err())
	}
	return nil
}

func readSource(src string) ([]byte, error) {
	if src == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("unable to read stylesheet from STDIN: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("unable to read stylesheet: %w", err)
	}
	return data, nil
}

// writeCascade prints one line per selector in cascade order: specificity,
// location, media query if any and selector.
func writeCascade(w io.Writer, sheet *css.Stylesheet) error {
	for _, e := range sheet.Cascade() {
		media := ""
		if e.Media != "" {
			media = "@media " + e.Media + "\t"
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s%s\n", e.Specificity, e.Rule.Loc, media, e.Selector); err != nil {
			return err
		}
	}
	return nil
}
