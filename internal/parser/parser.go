package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	stderrors "errors" // Standard errors package

	"github.com/mcncl/jsonkit/internal/errors" // Custom errors package
	"github.com/mcncl/jsonkit/internal/models"
)

// SyntaxError is a JSON syntax error with a human readable position.
type SyntaxError struct {
	Msg    string
	Offset int64 // byte offset just past the offending byte
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at line %d, column %d (offset %d)", e.Msg, e.Line, e.Column, e.Offset)
}

// Unwrap lets errors.Is match ErrInvalidJSON.
func (e *SyntaxError) Unwrap() error {
	return errors.ErrInvalidJSON
}

// Check reports whether text holds exactly one valid JSON value.
// The returned error wraps a *SyntaxError when the text is not valid.
func Check(text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.NewInputError("input string is empty or consists only of whitespace", errors.ErrEmptyInput)
	}
	return check([]byte(text))
}

func check(data []byte) error {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		var syntaxError *json.SyntaxError
		if stderrors.As(err, &syntaxError) {
			se := locate(data, syntaxError)
			return errors.NewParsingError(
				fmt.Sprintf("JSON syntax error at line %d, column %d", se.Line, se.Column),
				se,
			)
		}
		return errors.NewParsingError("failed to decode JSON", err)
	}
	// encoding/json silently replaces invalid UTF-8 inside strings
	if pos := invalidUTF8(data); pos >= 0 {
		se := at(data, pos, fmt.Sprintf("invalid UTF-8 byte 0x%02x", data[pos]))
		return errors.NewParsingError(
			fmt.Sprintf("JSON syntax error at line %d, column %d", se.Line, se.Column),
			se,
		)
	}
	return nil
}

// invalidUTF8 returns the index of the first byte that is not valid UTF-8, or -1.
func invalidUTF8(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// locate converts the decoder's byte offset into a line and column.
func locate(data []byte, err *json.SyntaxError) *SyntaxError {
	return at(data, int(err.Offset)-1, err.Error())
}

// at builds a SyntaxError for the byte at pos.
func at(data []byte, pos int, msg string) *SyntaxError {
	if pos > len(data) {
		pos = len(data)
	}
	if pos < 0 {
		pos = 0
	}
	prefix := data[:pos]
	lastNL := bytes.LastIndexByte(prefix, '\n')
	return &SyntaxError{
		Msg:    msg,
		Offset: int64(pos) + 1,
		Line:   bytes.Count(prefix, []byte{'\n'}) + 1,
		Column: utf8.RuneCount(prefix[lastNL+1:]) + 1,
	}
}

// Parse converts JSON data from an io.Reader into an IntermediateRepresentation
func Parse(reader io.Reader) (models.IntermediateRepresentation, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read input", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return models.IntermediateRepresentation{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	// Validate first so malformed input is always reported with a position.
	if err := check(data); err != nil {
		return models.IntermediateRepresentation{}, err
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber() // Keep number literals exactly as written

	rootValue, err := decodeValue(decoder)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewParsingError("failed to decode JSON", err)
	}

	return models.IntermediateRepresentation{Root: rootValue}, nil
}

// decodeValue reads one value from the token stream, keeping object key order.
func decodeValue(dec *json.Decoder) (models.JSONValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil // string, json.Number, bool or nil
	}

	switch delim {
	case '{':
		obj := models.NewJSONObject()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("unexpected object key token %v", keyTok)
			}
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, value)
		}
		if _, err := dec.Token(); err != nil { // closing '}'
			return nil, err
		}
		return obj, nil
	case '[':
		arr := make(models.JSONArray, 0)
		for dec.More() {
			value, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, value)
		}
		if _, err := dec.Token(); err != nil { // closing ']'
			return nil, err
		}
		return arr, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", rune(delim))
	}
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.IntermediateRepresentation, error) {
	// Provide a specific error for truly empty or whitespace-only strings
	if strings.TrimSpace(jsonString) == "" {
		return models.IntermediateRepresentation{}, errors.NewInputError("input string is empty or consists only of whitespace", errors.ErrEmptyInput)
	}
	return Parse(strings.NewReader(jsonString))
}

// ReadFile reads a whole input file, reporting missing and empty files with
// the input error type.
func ReadFile(filePath string) ([]byte, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return nil, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return nil, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.NewInputError(fmt.Sprintf("failed to read file '%s'", filePath), err)
	}
	return data, nil
}
