package scan

import (
	"strconv"
	"strings"

	"github.com/omniflow/jsonplug/internal/document"
)

// String decodes the string literal whose opening quote sits at pos. It
// returns the unescaped payload and the position past the closing quote.
// Raw control bytes below 0x20 inside the literal are accepted, a
// documented deviation from strict JSON. An unterminated literal, an
// unknown escape, or a malformed \u escape fails the scan.
func String(data []byte, pos int) (string, int, error) {
	start := pos
	pos++ // opening quote

	// Fast path: no escapes before the closing quote.
	i := pos
	for i < len(data) && data[i] != '"' && data[i] != '\\' {
		i++
	}
	if i < len(data) && data[i] == '"' {
		return string(data[pos:i]), i + 1, nil
	}

	var out strings.Builder
	out.Grow(i - pos)
	out.Write(data[pos:i])
	pos = i

	for pos < len(data) {
		switch data[pos] {
		case '"':
			return out.String(), pos + 1, nil
		case '\\':
			next, err := decodeEscape(data, pos, &out)
			if err != nil {
				return "", pos, err
			}
			pos = next
		default:
			out.WriteByte(data[pos])
			pos++
		}
	}
	return "", pos, document.SyntaxErrorf(start, "unterminated string")
}

// decodeEscape consumes the escape sequence starting at the backslash at
// pos, appending the decoded bytes to out.
func decodeEscape(data []byte, pos int, out *strings.Builder) (int, error) {
	if pos+1 >= len(data) {
		return pos, document.SyntaxErrorf(pos, "unterminated escape")
	}
	switch data[pos+1] {
	case '"':
		out.WriteByte('"')
	case '\\':
		out.WriteByte('\\')
	case '/':
		out.WriteByte('/')
	case 'b':
		out.WriteByte('\b')
	case 'f':
		out.WriteByte('\f')
	case 'n':
		out.WriteByte('\n')
	case 'r':
		out.WriteByte('\r')
	case 't':
		out.WriteByte('\t')
	case 'u':
		if pos+6 > len(data) {
			return pos, document.SyntaxErrorf(pos, "incomplete \\u escape")
		}
		cp, err := strconv.ParseUint(string(data[pos+2:pos+6]), 16, 16)
		if err != nil {
			return pos, document.SyntaxErrorf(pos, "invalid \\u escape %q", data[pos+2:pos+6])
		}
		writeCodePoint(out, uint32(cp))
		return pos + 6, nil
	default:
		return pos, document.SyntaxErrorf(pos, "invalid escape character %q", data[pos+1])
	}
	return pos + 2, nil
}

// writeCodePoint emits a BMP code point as 1-3 UTF-8 bytes. Surrogate
// halves are encoded independently as 3-byte sequences; adjacent \u
// pairs are never combined into a supplementary-plane code point. That
// is a known limitation of the engine, kept deliberately.
func writeCodePoint(out *strings.Builder, cp uint32) {
	switch {
	case cp <= 0x7F:
		out.WriteByte(byte(cp))
	case cp <= 0x7FF:
		out.WriteByte(0xC0 | byte(cp>>6))
		out.WriteByte(0x80 | byte(cp&0x3F))
	default:
		out.WriteByte(0xE0 | byte(cp>>12))
		out.WriteByte(0x80 | byte(cp>>6&0x3F))
		out.WriteByte(0x80 | byte(cp&0x3F))
	}
}
