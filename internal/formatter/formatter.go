package formatter

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"strings"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/parser"
)

// DefaultIndent matches the two-space layout of JSON.stringify(v, null, 2)
const DefaultIndent = "  "

// Formatter pretty-prints and minifies JSON text. Key order and number
// literals are kept exactly as written.
type Formatter struct {
	indent string
}

// NewFormatter creates a new Formatter with the default indentation
func NewFormatter() *Formatter {
	return &Formatter{indent: DefaultIndent}
}

// NewFormatterWithIndent creates a Formatter using indent as one level of indentation
func NewFormatterWithIndent(indent string) *Formatter {
	return &Formatter{indent: indent}
}

// Validate reports whether text is valid JSON. No repair is attempted.
func (f *Formatter) Validate(text string) (bool, error) {
	if err := parser.Check(text); err != nil {
		return false, err
	}
	return true, nil
}

// Format returns text pretty-printed with one value per line
func (f *Formatter) Format(text string) (string, error) {
	if err := parser.Check(text); err != nil {
		return "", wrap("formatting failed", err)
	}

	var buf bytes.Buffer
	// json.Indent copies trailing whitespace, so trim first
	if err := json.Indent(&buf, []byte(strings.TrimSpace(text)), "", f.indent); err != nil {
		return "", errors.NewParsingError("formatting failed", err)
	}
	return buf.String(), nil
}

// Minify returns text without insignificant whitespace
func (f *Formatter) Minify(text string) (string, error) {
	if err := parser.Check(text); err != nil {
		return "", wrap("minification failed", err)
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(text)); err != nil {
		return "", errors.NewParsingError("minification failed", err)
	}
	return buf.String(), nil
}

// wrap keeps empty-input errors as they are and labels parse failures with the stage.
func wrap(stage string, err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && appErr.Type == errors.ErrorTypeParsing {
		return errors.NewParsingError(stage+": "+appErr.Message, appErr.Err)
	}
	return err
}
