// Package converter renders parsed JSON documents as YAML or XML and pulls
// JSON documents out of string-valued fields.
package converter

import (
	stderrors "errors"

	"github.com/mcncl/jsonkit/internal/config"
	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/formatter"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/parser"
)

// Converter holds the settings shared by the conversions.
type Converter struct {
	rootName    string
	singularize bool
	field       string
	formatter   *formatter.Formatter
}

// NewConverter creates a Converter with default settings
func NewConverter() *Converter {
	return NewConverterWithConfig(config.NewConfig())
}

// NewConverterWithConfig creates a Converter from configuration
func NewConverterWithConfig(cfg *config.Config) *Converter {
	return &Converter{
		rootName:    cfg.XML.RootName,
		singularize: cfg.XML.SingularizeItems,
		field:       cfg.Extract.Field,
		formatter:   formatter.NewFormatterWithIndent(cfg.IndentString()),
	}
}

// parse reads text into the ordered tree, labelling parse failures with stage.
func parse(stage, text string) (models.IntermediateRepresentation, error) {
	ir, err := parser.ParseString(text)
	if err == nil {
		return ir, nil
	}
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && appErr.Type == errors.ErrorTypeParsing {
		return ir, errors.NewConversionError(stage+": "+appErr.Message, appErr.Err)
	}
	return ir, err
}
