package converter

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"

	"github.com/mcncl/jsonkit/internal/models"
)

const (
	xmlHeader   = `<?xml version="1.0" encoding="UTF-8"?>`
	rootItemTag = "item"
)

// ToXML converts JSON text to an XML document. Each object member becomes an
// element named after its key; array items are flattened into repeated
// elements named after the singular form of the key.
func (c *Converter) ToXML(text string) (string, error) {
	ir, err := parse("XML conversion failed", text)
	if err != nil {
		return "", err
	}
	return c.RenderXML(ir), nil
}

// RenderXML converts an already parsed document to XML.
func (c *Converter) RenderXML(ir models.IntermediateRepresentation) string {
	root := elementName(c.rootName)

	var inner strings.Builder
	switch v := ir.Root.(type) {
	case *models.JSONObject:
		for _, key := range v.Keys() {
			child, _ := v.Get(key)
			c.writeElement(&inner, key, child)
		}
	case models.JSONArray:
		for _, item := range v {
			c.writeElement(&inner, rootItemTag, item)
		}
	default:
		return fmt.Sprintf("%s\n<%s>%s</%s>", xmlHeader, root, escapeText(scalarText(v)), root)
	}

	if inner.Len() == 0 {
		return fmt.Sprintf("%s\n<%s></%s>", xmlHeader, root, root)
	}
	return fmt.Sprintf("%s\n<%s>\n%s\n</%s>", xmlHeader, root, inner.String(), root)
}

func (c *Converter) writeElement(b *strings.Builder, key string, value models.JSONValue) {
	name := elementName(key)

	switch v := value.(type) {
	case models.JSONArray:
		if len(v) == 0 {
			fmt.Fprintf(b, "<%s></%s>", name, name)
			return
		}
		itemKey := key
		if c.singularize {
			itemKey = singular(key)
		}
		for _, item := range v {
			c.writeElement(b, itemKey, item)
		}
	case *models.JSONObject:
		fmt.Fprintf(b, "<%s>", name)
		for _, childKey := range v.Keys() {
			child, _ := v.Get(childKey)
			c.writeElement(b, childKey, child)
		}
		fmt.Fprintf(b, "</%s>", name)
	default:
		fmt.Fprintf(b, "<%s>%s</%s>", name, escapeText(scalarText(v)), name)
	}
}

// singular drops one trailing "s". It is a naive heuristic: "statuses"
// becomes "statuse".
func singular(key string) string {
	if len(key) > 1 && strings.HasSuffix(key, "s") {
		return key[:len(key)-1]
	}
	return key
}

// elementName returns key when it is a usable XML name, otherwise a
// snake_case rendering of it.
func elementName(key string) string {
	if isXMLName(key) {
		return key
	}

	var b strings.Builder
	lastInvalid := false
	for _, r := range strcase.ToSnake(key) {
		if isNameChar(r) {
			b.WriteRune(r)
			lastInvalid = false
			continue
		}
		if !lastInvalid {
			b.WriteByte('_')
		}
		lastInvalid = true
	}

	name := b.String()
	if first, _ := utf8.DecodeRuneInString(name); name == "" || !isNameStart(first) {
		name = "_" + name
	}
	return name
}

// isXMLName reports whether s is a letter or underscore followed by name characters.
func isXMLName(s string) bool {
	for i, r := range s {
		if r == utf8.RuneError {
			return false
		}
		if (i == 0 && !isNameStart(r)) || !isNameChar(r) {
			return false
		}
	}
	return s != ""
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameChar(r rune) bool {
	return isNameStart(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '.' || r == '-'
}

func scalarText(v models.JSONValue) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func escapeText(s string) string {
	var b strings.Builder
	// EscapeText only fails when the writer does
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
