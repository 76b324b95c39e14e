package repair

import "strings"

// Pass is one rewrite stage of the repair pipeline.
type Pass struct {
	Name  string
	Apply func(string) string
}

// Passes returns the repair stages in the order they run.
func Passes() []Pass {
	return []Pass{
		{Name: "quote-keys", Apply: QuoteKeys},
		{Name: "normalize-quotes", Apply: NormalizeQuotes},
		{Name: "remove-trailing-commas", Apply: RemoveTrailingCommas},
		{Name: "insert-missing-commas", Apply: InsertMissingCommas},
		{Name: "strip-comments", Apply: StripComments},
		{Name: "escape-inner-quotes", Apply: EscapeInnerQuotes},
		{Name: "balance-brackets", Apply: BalanceBrackets},
		{Name: "drop-leading-comma", Apply: DropLeadingComma},
	}
}

// QuoteKeys wraps bare identifiers used as object keys in double quotes.
// A key is an identifier preceded by '{' or ',' and followed by ':'.
func QuoteKeys(text string) string {
	kinds := classify(text, anyQuote)
	var b strings.Builder
	b.Grow(len(text) + 16)

	var last byte // last significant byte outside comments
	for i := 0; i < len(text); {
		c := text[i]
		if kinds[i] == kindCode && isIdentStart(c) && (last == '{' || last == ',') {
			j := i + 1
			for j < len(text) && kinds[j] == kindCode && isIdentPart(text[j]) {
				j++
			}
			next := j
			for next < len(text) && kinds[next] == kindCode && isSpace(text[next]) {
				next++
			}
			if next < len(text) && kinds[next] == kindCode && text[next] == ':' {
				b.WriteByte('"')
				b.WriteString(text[i:j])
				b.WriteByte('"')
				last = '"'
			} else {
				b.WriteString(text[i:j])
				last = text[j-1]
			}
			i = j
			continue
		}

		b.WriteByte(c)
		switch kinds[i] {
		case kindCode:
			if !isSpace(c) {
				last = c
			}
		case kindOpenQuote, kindString, kindCloseQuote:
			last = '"'
		}
		i++
	}
	return b.String()
}

// NormalizeQuotes turns single-quoted string literals into double-quoted ones.
// Double quotes inside such a literal are escaped and \' is unescaped.
// Single quotes inside double-quoted literals are left alone.
func NormalizeQuotes(text string) string {
	kinds := classify(text, anyQuote)
	var b strings.Builder
	b.Grow(len(text) + 8)

	inSingle := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch kinds[i] {
		case kindOpenQuote:
			inSingle = c == '\''
			b.WriteByte('"')
		case kindCloseQuote:
			b.WriteByte('"')
			inSingle = false
		case kindString:
			if !inSingle {
				b.WriteByte(c)
				continue
			}
			switch {
			case c == '\\' && i+1 < len(text):
				if text[i+1] == '\'' {
					b.WriteByte('\'')
				} else {
					b.WriteString(text[i : i+2])
				}
				i++
			case c == '"':
				b.WriteString(`\"`)
			default:
				b.WriteByte(c)
			}
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// RemoveTrailingCommas drops commas that directly precede '}' or ']'.
func RemoveTrailingCommas(text string) string {
	kinds := classify(text, doubleQuote)
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); i++ {
		if kinds[i] == kindCode && text[i] == ',' {
			n := nextSignificant(text, kinds, i+1)
			if n < len(text) && kinds[n] == kindCode && (text[n] == '}' || text[n] == ']') {
				continue
			}
		}
		b.WriteByte(text[i])
	}
	return b.String()
}

// InsertMissingCommas adds a comma between a value that ends and the next
// value that starts when only whitespace separates them.
// A closing quote immediately followed by a word character is most likely an
// unescaped quote inside a string and is left for EscapeInnerQuotes.
func InsertMissingCommas(text string) string {
	kinds := classify(text, doubleQuote)
	var b strings.Builder
	b.Grow(len(text) + 16)

	for i := 0; i < len(text); i++ {
		b.WriteByte(text[i])
		if !endsValue(text, kinds, i) {
			continue
		}
		if kinds[i] == kindCloseQuote && i+1 < len(text) && isIdentPart(text[i+1]) {
			continue
		}
		n := nextSignificant(text, kinds, i+1)
		if n < len(text) && startsValue(text, kinds, n) {
			b.WriteByte(',')
		}
	}
	return b.String()
}

func endsValue(text string, kinds []kind, i int) bool {
	switch kinds[i] {
	case kindCloseQuote:
		return true
	case kindCode:
		return text[i] == '}' || text[i] == ']'
	}
	return false
}

func startsValue(text string, kinds []kind, i int) bool {
	switch kinds[i] {
	case kindOpenQuote:
		return true
	case kindCode:
		c := text[i]
		return isIdentPart(c) || c == '[' || c == '{'
	}
	return false
}

// StripComments removes // line comments and /* */ block comments outside
// string literals. The newline ending a line comment is kept.
func StripComments(text string) string {
	kinds := classify(text, doubleQuote)
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(text); i++ {
		if kinds[i] != kindComment {
			b.WriteByte(text[i])
		}
	}
	return b.String()
}

// EscapeInnerQuotes escapes stray double quotes inside string literals.
// The real end of a literal is taken to be the first unescaped quote that is
// followed by ',', ':', '}', ']' or the end of the text; quotes before it are
// escaped. A literal without such a boundary is copied unchanged.
func EscapeInnerQuotes(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 8)

	for i := 0; i < len(text); {
		if text[i] != '"' {
			b.WriteByte(text[i])
			i++
			continue
		}

		end := literalEnd(text, i)
		if end < 0 {
			// No plausible boundary: keep the standard string extent
			end = standardEnd(text, i)
			b.WriteString(text[i:end])
			i = end
			continue
		}

		b.WriteByte('"')
		for j := i + 1; j < end; j++ {
			switch {
			case text[j] == '\\' && j+1 < end:
				b.WriteString(text[j : j+2])
				j++
			case text[j] == '"':
				b.WriteString(`\"`)
			default:
				b.WriteByte(text[j])
			}
		}
		b.WriteByte('"')
		i = end + 1
	}
	return b.String()
}

// literalEnd finds the closing quote of the literal opened at start, or -1.
func literalEnd(text string, start int) int {
	for j := start + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case '"':
			k := j + 1
			for k < len(text) && isSpace(text[k]) {
				k++
			}
			if k == len(text) || strings.IndexByte(",:}]", text[k]) >= 0 {
				return j
			}
		}
	}
	return -1
}

// standardEnd returns the index just past the first unescaped quote after
// start, or len(text) for an unterminated literal.
func standardEnd(text string, start int) int {
	for j := start + 1; j < len(text); j++ {
		switch text[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(text)
}

// BalanceBrackets appends the missing '}' and then the missing ']' at the end
// of the text. It counts only brackets outside strings and comments and does
// not try to place closers where they belong.
func BalanceBrackets(text string) string {
	kinds := classify(text, doubleQuote)
	var braces, brackets int
	for i := 0; i < len(text); i++ {
		if kinds[i] != kindCode {
			continue
		}
		switch text[i] {
		case '{':
			braces++
		case '}':
			braces--
		case '[':
			brackets++
		case ']':
			brackets--
		}
	}

	if braces <= 0 && brackets <= 0 {
		return text
	}
	var b strings.Builder
	b.WriteString(text)
	if braces > 0 {
		b.WriteString(strings.Repeat("}", braces))
	}
	if brackets > 0 {
		b.WriteString(strings.Repeat("]", brackets))
	}
	return b.String()
}

// DropLeadingComma removes a stray comma at the start of the text.
func DropLeadingComma(text string) string {
	trimmed := strings.TrimLeft(text, " \t\r\n")
	if strings.HasPrefix(trimmed, ",") {
		return trimmed[1:]
	}
	return text
}
