// Package document defines the JSON value tree shared by the parser,
// serializer and plugin protocol, together with the allocation policy
// that governs node ownership.
package document

import (
	"fmt"
	"math"
)

// Kind identifies the variant stored in a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindArray
	KindObject
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// maxSafeInteger is the largest magnitude at which IEEE-754 doubles
// represent every integer exactly.
const maxSafeInteger = 1 << 53

// Member is a single object entry. Objects keep members in insertion
// order and may hold several members with the same key; see Get for the
// lookup policy.
type Member struct {
	Key   string
	Value *Value
}

// Value is a single node of a document tree. A Value has exactly one
// owner: the holder of the root, or the container it was appended to.
// Containers own their children; releasing a container releases every
// child. A Value must never be appended to two containers.
type Value struct {
	kind     Kind
	boolean  bool
	number   float64
	integral bool
	str      string
	items    []*Value
	members  []Member
}

// Kind reports the variant held by v.
func (v *Value) Kind() Kind {
	return v.kind
}

// Bool returns the boolean payload.
func (v *Value) Bool() (bool, error) {
	if v.kind != KindBool {
		return false, mismatch(KindBool, v.kind)
	}
	return v.boolean, nil
}

// Float64 returns the numeric payload.
func (v *Value) Float64() (float64, error) {
	if v.kind != KindNumber {
		return 0, mismatch(KindNumber, v.kind)
	}
	return v.number, nil
}

// Int64 returns the numeric payload as an integer. It fails when the
// value is not a number, or the number has a fractional part or exceeds
// the range of exactly representable integers.
func (v *Value) Int64() (int64, error) {
	if v.kind != KindNumber {
		return 0, mismatch(KindNumber, v.kind)
	}
	if v.number != math.Trunc(v.number) || math.Abs(v.number) > maxSafeInteger {
		return 0, fmt.Errorf("%w: number %v is not an exact integer", ErrTypeMismatch, v.number)
	}
	return int64(v.number), nil
}

// Integral reports whether the number was written (or built) without a
// fractional part. It is false for every non-number variant.
func (v *Value) Integral() bool {
	return v.kind == KindNumber && v.integral
}

// StringValue returns the string payload. The payload is always a fully
// decoded UTF-8 byte sequence; an empty string is a legal payload.
func (v *Value) StringValue() (string, error) {
	if v.kind != KindString {
		return "", mismatch(KindString, v.kind)
	}
	return v.str, nil
}

// Items returns the ordered elements of an array. The returned slice is
// owned by v and must not be retained across mutation or release.
func (v *Value) Items() ([]*Value, error) {
	if v.kind != KindArray {
		return nil, mismatch(KindArray, v.kind)
	}
	return v.items, nil
}

// Members returns the ordered members of an object, duplicates included.
// The returned slice is owned by v and must not be retained across
// mutation or release.
func (v *Value) Members() ([]Member, error) {
	if v.kind != KindObject {
		return nil, mismatch(KindObject, v.kind)
	}
	return v.members, nil
}

// Len returns the child count of a container and zero for leaves.
func (v *Value) Len() int {
	switch v.kind {
	case KindArray:
		return len(v.items)
	case KindObject:
		return len(v.members)
	default:
		return 0
	}
}

// Get looks up an object member by key. Duplicate keys follow the
// last-wins policy: the most recently added member shadows earlier ones,
// matching what a map-backed consumer of the same document would observe.
func (v *Value) Get(key string) (*Value, error) {
	if v.kind != KindObject {
		return nil, mismatch(KindObject, v.kind)
	}
	for i := len(v.members) - 1; i >= 0; i-- {
		if v.members[i].Key == key {
			return v.members[i].Value, nil
		}
	}
	return nil, fmt.Errorf("%w: key %q", ErrNotFound, key)
}

// At returns element i of an array.
func (v *Value) At(i int) (*Value, error) {
	if v.kind != KindArray {
		return nil, mismatch(KindArray, v.kind)
	}
	if i < 0 || i >= len(v.items) {
		return nil, fmt.Errorf("%w: index %d out of range [0,%d)", ErrNotFound, i, len(v.items))
	}
	return v.items[i], nil
}

// Equal reports structural equality of two trees. Array order and object
// member order are both significant; two objects are equal only when
// their member sequences match pairwise.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolean == b.boolean
	case KindNumber:
		if math.IsNaN(a.number) && math.IsNaN(b.number) {
			return true
		}
		return a.number == b.number
	case KindString:
		return a.str == b.str
	case KindArray:
		if len(a.items) != len(b.items) {
			return false
		}
		for i := range a.items {
			if !Equal(a.items[i], b.items[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.members) != len(b.members) {
			return false
		}
		for i := range a.members {
			if a.members[i].Key != b.members[i].Key {
				return false
			}
			if !Equal(a.members[i].Value, b.members[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func mismatch(want, got Kind) error {
	return fmt.Errorf("%w: want %s, got %s", ErrTypeMismatch, want, got)
}
