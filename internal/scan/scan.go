// Package scan classifies and bounds the lexical elements of JSON text.
// It works over a byte buffer and a cursor position; structural tokens
// are classified without allocating. String decoding produces the fully
// unescaped payload in one pass.
package scan

import (
	"github.com/omniflow/jsonplug/internal/document"
)

// Token is the syntactic class of the element starting at a cursor
// position.
type Token uint8

const (
	TokenEOF Token = iota
	TokenBeginObject
	TokenEndObject
	TokenBeginArray
	TokenEndArray
	TokenColon
	TokenComma
	TokenString
	TokenNumber
	TokenLiteral
	TokenInvalid
)

// SkipSpace advances pos past JSON whitespace: space, tab, carriage
// return, line feed.
func SkipSpace(data []byte, pos int) int {
	for pos < len(data) {
		switch data[pos] {
		case ' ', '\t', '\r', '\n':
			pos++
		default:
			return pos
		}
	}
	return pos
}

// Classify reports the token class starting at pos, which must already
// be past any whitespace.
func Classify(data []byte, pos int) Token {
	if pos >= len(data) {
		return TokenEOF
	}
	switch data[pos] {
	case '{':
		return TokenBeginObject
	case '}':
		return TokenEndObject
	case '[':
		return TokenBeginArray
	case ']':
		return TokenEndArray
	case ':':
		return TokenColon
	case ',':
		return TokenComma
	case '"':
		return TokenString
	case 't', 'f', 'n':
		return TokenLiteral
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return TokenNumber
	default:
		return TokenInvalid
	}
}

// Literal matches one of the keywords true, false or null at pos by
// exact byte comparison. A partial match such as "tru" is a syntax
// error. It returns the keyword and the position past it.
func Literal(data []byte, pos int) (string, int, error) {
	if pos >= len(data) {
		return "", pos, document.SyntaxErrorf(pos, "unexpected end of input")
	}
	for _, kw := range [...]string{"true", "false", "null"} {
		if kw[0] != data[pos] {
			continue
		}
		if pos+len(kw) <= len(data) && string(data[pos:pos+len(kw)]) == kw {
			return kw, pos + len(kw), nil
		}
		return "", pos, document.SyntaxErrorf(pos, "invalid literal, expected %q", kw)
	}
	return "", pos, document.SyntaxErrorf(pos, "invalid literal")
}

// Number bounds a numeric literal at pos: optional minus, one or more
// digits, optional fraction, optional exponent. Leading zeros before
// further digits are accepted for robustness, a documented deviation
// from strict JSON. A fraction or exponent with no digits is a syntax
// error, as is a leading plus. It reports the position past the literal
// and whether the literal was integral (no fraction, no exponent).
func Number(data []byte, pos int) (int, bool, error) {
	start := pos
	if pos < len(data) && data[pos] == '-' {
		pos++
	}
	digits := 0
	for pos < len(data) && isDigit(data[pos]) {
		pos++
		digits++
	}
	if digits == 0 {
		return start, false, document.SyntaxErrorf(start, "invalid number")
	}
	integral := true
	if pos < len(data) && data[pos] == '.' {
		integral = false
		pos++
		digits = 0
		for pos < len(data) && isDigit(data[pos]) {
			pos++
			digits++
		}
		if digits == 0 {
			return start, false, document.SyntaxErrorf(start, "invalid number: no digits after decimal point")
		}
	}
	if pos < len(data) && (data[pos] == 'e' || data[pos] == 'E') {
		integral = false
		pos++
		if pos < len(data) && (data[pos] == '+' || data[pos] == '-') {
			pos++
		}
		digits = 0
		for pos < len(data) && isDigit(data[pos]) {
			pos++
			digits++
		}
		if digits == 0 {
			return start, false, document.SyntaxErrorf(start, "invalid number: no digits in exponent")
		}
	}
	return pos, integral, nil
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
