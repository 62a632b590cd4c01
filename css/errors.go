package css

import (
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Message catalog keys. English text is the key itself.
const (
	msgInvalidToken       = "Error in %s. (Invalid token \"%s\". Was expecting one of: %s.)"
	msgUnexpectedEOF      = "Error in %s. (Unexpected end of input. Was expecting one of: %s.)"
	msgPseudoElementFirst = "Error in %s. (Pseudo-element \"%s\" must be the last part of the selector.)"
	msgIgnoringAtRule     = "Ignoring the at-rule \"%s\"."
	msgIgnoringProperty   = "Ignoring the declaration \"%s\" without value."
	msgStylesheetSyntax   = "Error in style sheet. (%s)"

	ctxSelector      = "selector"
	ctxAttribute     = "attribute selector"
	ctxPseudoClass   = "pseudo class"
	ctxPseudoElement = "pseudo element"
)

var catalog = []struct {
	tag  language.Tag
	key  string
	text string
}{
	{language.German, msgInvalidToken, "Fehler in %s. (Ungültiges Token \"%s\". Erwartet wurde eines von: %s.)"},
	{language.German, msgUnexpectedEOF, "Fehler in %s. (Unerwartetes Ende der Eingabe. Erwartet wurde eines von: %s.)"},
	{language.German, msgPseudoElementFirst, "Fehler in %s. (Pseudo-Element \"%s\" muss der letzte Teil des Selektors sein.)"},
	{language.German, msgIgnoringAtRule, "Die At-Regel \"%s\" wird ignoriert."},
	{language.German, msgIgnoringProperty, "Die Deklaration \"%s\" ohne Wert wird ignoriert."},
	{language.German, msgStylesheetSyntax, "Fehler im Stylesheet. (%s)"},
	{language.German, ctxSelector, "Selektor"},
	{language.German, ctxAttribute, "Attributselektor"},
	{language.German, ctxPseudoClass, "Pseudoklasse"},
	{language.German, ctxPseudoElement, "Pseudo-Element"},
}

func init() {
	for _, e := range catalog {
		if err := message.SetString(e.tag, e.key, e.text); err != nil {
			panic(err)
		}
	}
}

// ParseError is a single problem reported while parsing.
type ParseError struct {
	Loc     Locator
	Message string
}

func (e *ParseError) Error() string {
	if !e.Loc.IsKnown() {
		return e.Message
	}
	return e.Loc.String() + ": " + e.Message
}

// ErrorHandler accumulates problems found by the parser. Errors mean that a
// selector or rule was rejected, warnings mean that something was skipped,
// fatal errors mean that the source could not be read.
// NOTE: not to be used concurrently.
type ErrorHandler struct {
	log     *zap.Logger
	printer *message.Printer

	errors   int
	fatals   int
	warnings int
	last     string
	err      error
}

// NewErrorHandler creates handler which formats messages for the requested
// language. Unsupported languages fall back to English.
func NewErrorHandler(log *zap.Logger, lang language.Tag) *ErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ErrorHandler{
		log:     log.Named("css-errors"),
		printer: message.NewPrinter(lang),
	}
}

func (h *ErrorHandler) sprintf(key string, args ...any) string {
	return h.printer.Sprintf(key, args...)
}

// Warningf reports that some part of the input was ignored.
func (h *ErrorHandler) Warningf(loc Locator, key string, args ...any) {
	msg := h.sprintf(key, args...)
	h.warnings++
	h.log.Debug("CSS warning", zap.Stringer("location", loc), zap.String("message", msg))
}

// Errorf reports that some part of the input was rejected.
func (h *ErrorHandler) Errorf(loc Locator, key string, args ...any) {
	msg := h.sprintf(key, args...)
	h.errors++
	h.last = msg
	h.err = multierr.Append(h.err, &ParseError{Loc: loc, Message: msg})
	h.log.Debug("CSS error", zap.Stringer("location", loc), zap.String("message", msg))
}

// Fatal reports that source could not be processed at all.
func (h *ErrorHandler) Fatal(loc Locator, err error) {
	h.fatals++
	h.last = err.Error()
	h.err = multierr.Append(h.err, &ParseError{Loc: loc, Message: err.Error()})
	h.log.Debug("CSS fatal error", zap.Stringer("location", loc), zap.Error(err))
}

// ErrorCount returns number of reported errors.
func (h *ErrorHandler) ErrorCount() int {
	return h.errors
}

// FatalErrorCount returns number of reported fatal errors.
func (h *ErrorHandler) FatalErrorCount() int {
	return h.fatals
}

// WarningCount returns number of reported warnings.
func (h *ErrorHandler) WarningCount() int {
	return h.warnings
}

// ErrorMessage returns text of the last reported error or fatal error.
func (h *ErrorHandler) ErrorMessage() string {
	return h.last
}

// Err returns all reported errors and fatal errors combined, nil if there
// were none. Individual errors are available with multierr.Errors.
func (h *ErrorHandler) Err() error {
	return h.err
}
