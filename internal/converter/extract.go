package converter

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
	"github.com/mcncl/jsonkit/internal/parser"
)

// pathChars mark a field as a gjson path rather than a plain key.
const pathChars = `.*?#|@\`

// ExtractNested parses the JSON document stored as a string in field and
// returns it pretty-printed. An empty field means the configured default.
//
// A top-level key that matches field exactly wins, with the last duplicate
// taking precedence. Otherwise a field containing path characters is resolved
// with gjson path syntax, so "data.body" reaches into nested objects and
// "a\.b" names a key containing a dot.
func (c *Converter) ExtractNested(text, field string) (string, error) {
	if field == "" {
		field = c.field
	}

	ir, err := parser.ParseString(text)
	if err != nil {
		return "", wrapExtraction(err)
	}

	nested, ok := lookupKey(ir.Root, field)
	if !ok && strings.ContainsAny(field, pathChars) {
		if result := gjson.Get(text, field); result.Type == gjson.String {
			nested, ok = result.String(), true
		}
	}
	if !ok {
		return "", errors.NewExtractionError(
			fmt.Sprintf("field '%s' not found or not a string", field),
			errors.ErrInvalidFieldType,
		)
	}

	if err := parser.Check(nested); err != nil {
		return "", errors.NewExtractionError(
			fmt.Sprintf("could not parse nested JSON in '%s'", field),
			fmt.Errorf("%w: %w", errors.ErrNestedParse, err),
		)
	}

	return c.formatter.Format(nested)
}

// lookupKey returns the string stored under key in a root object.
func lookupKey(root models.JSONValue, key string) (string, bool) {
	obj, ok := root.(*models.JSONObject)
	if !ok {
		return "", false
	}
	value, ok := obj.Get(key)
	if !ok {
		return "", false
	}
	s, ok := value.(string)
	return s, ok
}

// wrapExtraction labels an outer-document parse failure; empty input passes through.
func wrapExtraction(err error) error {
	if appErr, ok := err.(*errors.AppError); ok && appErr.Type == errors.ErrorTypeParsing {
		return errors.NewExtractionError("outer document is not valid JSON: "+appErr.Message, appErr.Err)
	}
	return err
}
