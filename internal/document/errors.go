package document

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax reports input the scanner or parser could not recognize:
	// unterminated strings or containers, invalid literals, invalid
	// numbers, invalid escapes.
	ErrSyntax = errors.New("syntax error")

	// ErrTrailingData reports extra non-whitespace bytes after a
	// well-formed top-level value.
	ErrTrailingData = errors.New("trailing data after value")

	// ErrTypeMismatch reports a typed accessor invoked on the wrong
	// variant. Callers may recover from it; values are never coerced.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrAllocation reports that the allocator refused a node request,
	// for example because a memory budget was exhausted.
	ErrAllocation = errors.New("allocation failed")

	// ErrNotFound reports a missing object key or array index.
	ErrNotFound = errors.New("not found")

	// ErrMaxDepth reports input nested beyond the configured limit. It
	// is a syntax error for the purposes of errors.Is.
	ErrMaxDepth = fmt.Errorf("%w: maximum nesting depth exceeded", ErrSyntax)
)

// ParseError is the terminal error returned by a failed parse. It
// carries an approximate byte offset for diagnostics and unwraps to one
// of the category sentinels above.
type ParseError struct {
	Offset int
	Msg    string
	kind   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v at offset %d: %s", e.kind, e.Offset, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.kind
}

// SyntaxErrorf builds a ParseError in the ErrSyntax category.
func SyntaxErrorf(offset int, format string, args ...any) *ParseError {
	return &ParseError{Offset: offset, Msg: fmt.Sprintf(format, args...), kind: ErrSyntax}
}

// TrailingErrorf builds a ParseError in the ErrTrailingData category.
func TrailingErrorf(offset int, format string, args ...any) *ParseError {
	return &ParseError{Offset: offset, Msg: fmt.Sprintf(format, args...), kind: ErrTrailingData}
}

// DepthErrorf builds a ParseError in the ErrMaxDepth category.
func DepthErrorf(offset int, format string, args ...any) *ParseError {
	return &ParseError{Offset: offset, Msg: fmt.Sprintf(format, args...), kind: ErrMaxDepth}
}
