// Package parse turns raw JSON text into a document tree by recursive
// descent. Parsing is strict and non-recovering: on any failure every
// node allocated so far is released and a single terminal error with an
// approximate byte offset is returned.
package parse

import (
	"strconv"

	"github.com/omniflow/jsonplug/internal/document"
	"github.com/omniflow/jsonplug/internal/scan"
)

// DefaultMaxDepth bounds nesting when Options leaves MaxDepth unset.
// Recursion depth equals nesting depth, so the bound keeps adversarial
// input from exhausting the stack.
const DefaultMaxDepth = 200

// Options adjusts parser limits.
type Options struct {
	// MaxDepth is the maximum container nesting depth. Zero or
	// negative selects DefaultMaxDepth.
	MaxDepth int
}

// Parse decodes data into a tree allocated through a, using default
// options.
func Parse(data []byte, a document.Allocator) (*document.Value, error) {
	return WithOptions(data, a, Options{})
}

// WithOptions decodes data into a tree allocated through a. The input
// must hold exactly one JSON value; non-whitespace bytes after it fail
// with ErrTrailingData.
func WithOptions(data []byte, a document.Allocator, opts Options) (*document.Value, error) {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	p := &parser{data: data, alloc: a, maxDepth: maxDepth}

	v, err := p.parseValue(0)
	if err != nil {
		return nil, err
	}
	p.pos = scan.SkipSpace(p.data, p.pos)
	if p.pos < len(p.data) {
		document.Release(a, v)
		return nil, document.TrailingErrorf(p.pos, "unexpected %q after value", p.data[p.pos])
	}
	return v, nil
}

type parser struct {
	data     []byte
	pos      int
	alloc    document.Allocator
	maxDepth int
}

func (p *parser) parseValue(depth int) (*document.Value, error) {
	if depth > p.maxDepth {
		return nil, document.DepthErrorf(p.pos, "nesting exceeds %d levels", p.maxDepth)
	}
	p.pos = scan.SkipSpace(p.data, p.pos)

	switch scan.Classify(p.data, p.pos) {
	case scan.TokenBeginObject:
		return p.parseObject(depth)
	case scan.TokenBeginArray:
		return p.parseArray(depth)
	case scan.TokenString:
		return p.parseString()
	case scan.TokenNumber:
		return p.parseNumber()
	case scan.TokenLiteral:
		return p.parseLiteral()
	case scan.TokenEOF:
		return nil, document.SyntaxErrorf(p.pos, "unexpected end of input")
	default:
		return nil, document.SyntaxErrorf(p.pos, "unexpected %q", p.data[p.pos])
	}
}

func (p *parser) parseObject(depth int) (*document.Value, error) {
	obj, err := document.NewObject(p.alloc)
	if err != nil {
		return nil, err
	}
	p.pos++ // '{'

	p.pos = scan.SkipSpace(p.data, p.pos)
	if scan.Classify(p.data, p.pos) == scan.TokenEndObject {
		p.pos++
		return obj, nil
	}

	for {
		p.pos = scan.SkipSpace(p.data, p.pos)
		if scan.Classify(p.data, p.pos) != scan.TokenString {
			document.Release(p.alloc, obj)
			return nil, document.SyntaxErrorf(p.pos, "expected object key")
		}
		key, end, err := scan.String(p.data, p.pos)
		if err != nil {
			document.Release(p.alloc, obj)
			return nil, err
		}
		p.pos = end

		p.pos = scan.SkipSpace(p.data, p.pos)
		if scan.Classify(p.data, p.pos) != scan.TokenColon {
			document.Release(p.alloc, obj)
			return nil, document.SyntaxErrorf(p.pos, "expected ':' after object key")
		}
		p.pos++

		child, err := p.parseValue(depth + 1)
		if err != nil {
			document.Release(p.alloc, obj)
			return nil, err
		}
		// Duplicate keys are kept in order; lookup resolves them
		// last-wins.
		if err := obj.Add(key, child); err != nil {
			document.Release(p.alloc, child)
			document.Release(p.alloc, obj)
			return nil, err
		}

		p.pos = scan.SkipSpace(p.data, p.pos)
		switch scan.Classify(p.data, p.pos) {
		case scan.TokenComma:
			p.pos++
		case scan.TokenEndObject:
			p.pos++
			return obj, nil
		default:
			document.Release(p.alloc, obj)
			return nil, document.SyntaxErrorf(p.pos, "expected ',' or '}' in object")
		}
	}
}

func (p *parser) parseArray(depth int) (*document.Value, error) {
	arr, err := document.NewArray(p.alloc)
	if err != nil {
		return nil, err
	}
	p.pos++ // '['

	p.pos = scan.SkipSpace(p.data, p.pos)
	if scan.Classify(p.data, p.pos) == scan.TokenEndArray {
		p.pos++
		return arr, nil
	}

	for {
		child, err := p.parseValue(depth + 1)
		if err != nil {
			document.Release(p.alloc, arr)
			return nil, err
		}
		if err := arr.Append(child); err != nil {
			document.Release(p.alloc, child)
			document.Release(p.alloc, arr)
			return nil, err
		}

		p.pos = scan.SkipSpace(p.data, p.pos)
		switch scan.Classify(p.data, p.pos) {
		case scan.TokenComma:
			p.pos++
		case scan.TokenEndArray:
			p.pos++
			return arr, nil
		default:
			document.Release(p.alloc, arr)
			return nil, document.SyntaxErrorf(p.pos, "expected ',' or ']' in array")
		}
	}
}

func (p *parser) parseString() (*document.Value, error) {
	s, end, err := scan.String(p.data, p.pos)
	if err != nil {
		return nil, err
	}
	p.pos = end
	return document.NewString(p.alloc, s)
}

func (p *parser) parseNumber() (*document.Value, error) {
	start := p.pos
	end, integral, err := scan.Number(p.data, p.pos)
	if err != nil {
		return nil, err
	}
	f, err := strconv.ParseFloat(string(p.data[start:end]), 64)
	if err != nil {
		return nil, document.SyntaxErrorf(start, "invalid number %q", p.data[start:end])
	}
	p.pos = end
	return document.NewParsedNumber(p.alloc, f, integral)
}

func (p *parser) parseLiteral() (*document.Value, error) {
	kw, end, err := scan.Literal(p.data, p.pos)
	if err != nil {
		return nil, err
	}
	p.pos = end
	switch kw {
	case "true":
		return document.NewBool(p.alloc, true)
	case "false":
		return document.NewBool(p.alloc, false)
	default:
		return document.NewNull(p.alloc)
	}
}
