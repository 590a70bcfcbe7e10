// Package serialize renders a document tree as JSON text. Serialization
// is total for well-formed trees: string escaping and number formatting
// never fail, and non-finite numbers degrade to null rather than
// producing invalid output.
package serialize

import (
	"math"
	"strconv"

	"github.com/omniflow/jsonplug/internal/document"
)

// Compact renders v in canonical form with no insignificant whitespace.
func Compact(v *document.Value) []byte {
	return AppendValue(nil, v)
}

// Indent renders v in pretty form, with a newline between container
// elements and width spaces of indentation per nesting level. The output
// is semantically identical to the compact form.
func Indent(v *document.Value, width int) []byte {
	if width < 0 {
		width = 0
	}
	e := encoder{pretty: true, width: width}
	return e.value(nil, v, 0)
}

// AppendValue appends the compact form of v to dst and returns the
// extended buffer.
func AppendValue(dst []byte, v *document.Value) []byte {
	e := encoder{}
	return e.value(dst, v, 0)
}

type encoder struct {
	pretty bool
	width  int
}

func (e *encoder) value(dst []byte, v *document.Value, depth int) []byte {
	switch v.Kind() {
	case document.KindNull:
		return append(dst, "null"...)
	case document.KindBool:
		b, _ := v.Bool()
		if b {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case document.KindNumber:
		f, _ := v.Float64()
		return appendNumber(dst, f, v.Integral())
	case document.KindString:
		s, _ := v.StringValue()
		return appendString(dst, s)
	case document.KindArray:
		items, _ := v.Items()
		if len(items) == 0 {
			return append(dst, "[]"...)
		}
		dst = append(dst, '[')
		for i, item := range items {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = e.newline(dst, depth+1)
			dst = e.value(dst, item, depth+1)
		}
		dst = e.newline(dst, depth)
		return append(dst, ']')
	case document.KindObject:
		members, _ := v.Members()
		if len(members) == 0 {
			return append(dst, "{}"...)
		}
		dst = append(dst, '{')
		for i, m := range members {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = e.newline(dst, depth+1)
			dst = appendString(dst, m.Key)
			dst = append(dst, ':')
			if e.pretty {
				dst = append(dst, ' ')
			}
			dst = e.value(dst, m.Value, depth+1)
		}
		dst = e.newline(dst, depth)
		return append(dst, '}')
	default:
		return append(dst, "null"...)
	}
}

func (e *encoder) newline(dst []byte, depth int) []byte {
	if !e.pretty {
		return dst
	}
	dst = append(dst, '\n')
	for i := 0; i < depth*e.width; i++ {
		dst = append(dst, ' ')
	}
	return dst
}

// appendNumber formats f using the shortest representation that
// round-trips through an IEEE-754 double. Integral values print without
// a decimal point; NaN and infinities serialize as null.
func appendNumber(dst []byte, f float64, integral bool) []byte {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return append(dst, "null"...)
	}
	if integral && math.Abs(f) <= 1<<53 {
		return strconv.AppendFloat(dst, f, 'f', -1, 64)
	}
	return strconv.AppendFloat(dst, f, 'g', -1, 64)
}

const hexDigits = "0123456789abcdef"

// appendString emits s quoted, escaping the quote, the backslash, and
// control bytes below 0x20. The named shortcuts cover \b \f \n \r \t;
// other control bytes use the \u00XX form. Non-ASCII UTF-8 passes
// through untouched.
func appendString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case b == '"':
			dst = append(dst, '\\', '"')
		case b == '\\':
			dst = append(dst, '\\', '\\')
		case b >= 0x20:
			dst = append(dst, b)
		case b == '\b':
			dst = append(dst, '\\', 'b')
		case b == '\f':
			dst = append(dst, '\\', 'f')
		case b == '\n':
			dst = append(dst, '\\', 'n')
		case b == '\r':
			dst = append(dst, '\\', 'r')
		case b == '\t':
			dst = append(dst, '\\', 't')
		default:
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[b>>4], hexDigits[b&0xF])
		}
	}
	return append(dst, '"')
}
