package document

import "math"

// NewNull allocates a null node.
func NewNull(a Allocator) (*Value, error) {
	return a.New()
}

// NewBool allocates a boolean node.
func NewBool(a Allocator, b bool) (*Value, error) {
	v, err := a.New()
	if err != nil {
		return nil, err
	}
	v.kind = KindBool
	v.boolean = b
	return v, nil
}

// NewNumber allocates a number node. The integral flag is inferred from
// the value so that whole numbers serialize without a decimal point.
func NewNumber(a Allocator, f float64) (*Value, error) {
	integral := f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) <= maxSafeInteger
	return NewParsedNumber(a, f, integral)
}

// NewInt allocates a number node from an integer.
func NewInt(a Allocator, n int64) (*Value, error) {
	return NewParsedNumber(a, float64(n), true)
}

// NewParsedNumber allocates a number node with an explicit integral
// flag, used by the parser which knows whether the literal carried a
// fraction or exponent.
func NewParsedNumber(a Allocator, f float64, integral bool) (*Value, error) {
	v, err := a.New()
	if err != nil {
		return nil, err
	}
	v.kind = KindNumber
	v.number = f
	v.integral = integral
	return v, nil
}

// NewString allocates a string node holding an already-decoded UTF-8
// payload.
func NewString(a Allocator, s string) (*Value, error) {
	v, err := a.New()
	if err != nil {
		return nil, err
	}
	v.kind = KindString
	v.str = s
	return v, nil
}

// NewArray allocates an empty array node.
func NewArray(a Allocator) (*Value, error) {
	v, err := a.New()
	if err != nil {
		return nil, err
	}
	v.kind = KindArray
	return v, nil
}

// NewObject allocates an empty object node.
func NewObject(a Allocator) (*Value, error) {
	v, err := a.New()
	if err != nil {
		return nil, err
	}
	v.kind = KindObject
	return v, nil
}

// Append adds child to the end of an array. Ownership of child moves to
// the array.
func (v *Value) Append(child *Value) error {
	if v.kind != KindArray {
		return mismatch(KindArray, v.kind)
	}
	v.items = append(v.items, child)
	return nil
}

// Add appends a member to an object without inspecting existing keys, so
// duplicate keys from the input survive in order. Ownership of child
// moves to the object.
func (v *Value) Add(key string, child *Value) error {
	if v.kind != KindObject {
		return mismatch(KindObject, v.kind)
	}
	v.members = append(v.members, Member{Key: key, Value: child})
	return nil
}

// Set replaces the value of the last member with the given key, or
// appends a new member when the key is absent. The displaced child is
// released through a. Ownership of child moves to the object.
func (v *Value) Set(a Allocator, key string, child *Value) error {
	if v.kind != KindObject {
		return mismatch(KindObject, v.kind)
	}
	for i := len(v.members) - 1; i >= 0; i-- {
		if v.members[i].Key == key {
			Release(a, v.members[i].Value)
			v.members[i].Value = child
			return nil
		}
	}
	v.members = append(v.members, Member{Key: key, Value: child})
	return nil
}
