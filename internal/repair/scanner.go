package repair

import "strings"

// state is the lexical context of the scanner.
type state int

const (
	stateNormal state = iota
	stateInString
	stateInLineComment
	stateInBlockComment
)

// kind classifies a single byte of the input.
type kind uint8

const (
	kindCode kind = iota
	kindOpenQuote
	kindString
	kindCloseQuote
	kindComment
)

const (
	doubleQuote = `"`
	anyQuote    = `"'`
)

// classify labels every byte of text with the lexical context it belongs to.
// Bytes listed in quotes open a string literal that is closed by the same
// byte; a backslash inside a literal escapes the byte after it. Unterminated
// literals and comments run to the end of the text.
func classify(text, quotes string) []kind {
	kinds := make([]kind, len(text))
	st := stateNormal
	var quote byte

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch st {
		case stateNormal:
			switch {
			case strings.IndexByte(quotes, c) >= 0:
				st, quote = stateInString, c
				kinds[i] = kindOpenQuote
			case c == '/' && i+1 < len(text) && text[i+1] == '/':
				st = stateInLineComment
				kinds[i], kinds[i+1] = kindComment, kindComment
				i++
			case c == '/' && i+1 < len(text) && text[i+1] == '*':
				st = stateInBlockComment
				kinds[i], kinds[i+1] = kindComment, kindComment
				i++
			default:
				kinds[i] = kindCode
			}
		case stateInString:
			switch c {
			case '\\':
				kinds[i] = kindString
				if i+1 < len(text) {
					kinds[i+1] = kindString
					i++
				}
			case quote:
				kinds[i] = kindCloseQuote
				st = stateNormal
			default:
				kinds[i] = kindString
			}
		case stateInLineComment:
			if c == '\n' {
				// the newline itself is kept as whitespace
				kinds[i] = kindCode
				st = stateNormal
			} else {
				kinds[i] = kindComment
			}
		case stateInBlockComment:
			kinds[i] = kindComment
			if c == '*' && i+1 < len(text) && text[i+1] == '/' {
				kinds[i+1] = kindComment
				i++
				st = stateNormal
			}
		}
	}
	return kinds
}

// nextSignificant returns the index of the first byte at or after from that
// is neither whitespace nor part of a comment, or len(text).
func nextSignificant(text string, kinds []kind, from int) int {
	for i := from; i < len(text); i++ {
		if kinds[i] == kindComment {
			continue
		}
		if kinds[i] == kindCode && isSpace(text[i]) {
			continue
		}
		return i
	}
	return len(text)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}
