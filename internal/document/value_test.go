package document

import (
	"errors"
	"testing"
)

func TestTypedAccessors(t *testing.T) {
	t.Parallel()

	a := HeapAllocator{}

	s, err := NewString(a, "hello")
	if err != nil {
		t.Fatalf("NewString: %v", err)
	}
	if got, err := s.StringValue(); err != nil || got != "hello" {
		t.Errorf("StringValue = %q, %v, want hello", got, err)
	}
	if _, err := s.Float64(); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Float64 on string = %v, want ErrTypeMismatch", err)
	}
	if _, err := s.Bool(); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Bool on string = %v, want ErrTypeMismatch", err)
	}
	if _, err := s.Items(); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Items on string = %v, want ErrTypeMismatch", err)
	}

	n, err := NewNumber(a, 3.5)
	if err != nil {
		t.Fatalf("NewNumber: %v", err)
	}
	if _, err := n.Int64(); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Int64 on 3.5 = %v, want ErrTypeMismatch", err)
	}
	if n.Integral() {
		t.Error("Integral() on 3.5 = true, want false")
	}

	i, err := NewInt(a, 42)
	if err != nil {
		t.Fatalf("NewInt: %v", err)
	}
	if got, err := i.Int64(); err != nil || got != 42 {
		t.Errorf("Int64 = %d, %v, want 42", got, err)
	}
	if !i.Integral() {
		t.Error("Integral() on 42 = false, want true")
	}
}

func TestEmptyStringDistinctFromNull(t *testing.T) {
	t.Parallel()

	a := HeapAllocator{}
	empty, _ := NewString(a, "")
	null, _ := NewNull(a)

	if empty.Kind() != KindString {
		t.Errorf("empty string Kind = %v, want %v", empty.Kind(), KindString)
	}
	if Equal(empty, null) {
		t.Error("empty string compares equal to null")
	}
	if got, err := empty.StringValue(); err != nil || got != "" {
		t.Errorf("StringValue = %q, %v, want empty", got, err)
	}
}

func TestObjectDuplicateKeyLastWins(t *testing.T) {
	t.Parallel()

	a := HeapAllocator{}
	obj, _ := NewObject(a)

	first, _ := NewInt(a, 1)
	second, _ := NewInt(a, 2)
	other, _ := NewBool(a, true)

	if err := obj.Add("k", first); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := obj.Add("x", other); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := obj.Add("k", second); err != nil {
		t.Fatalf("Add: %v", err)
	}

	// All members survive in insertion order.
	members, err := obj.Members()
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(members) != 3 || members[0].Key != "k" || members[1].Key != "x" || members[2].Key != "k" {
		t.Fatalf("member order = %+v, want k, x, k", members)
	}

	// Lookup observes the most recent occurrence.
	got, err := obj.Get("k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if n, err := got.Int64(); err != nil || n != 2 {
		t.Errorf("Get(k) = %d, %v, want 2 (last occurrence)", n, err)
	}

	if _, err := obj.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(missing) = %v, want ErrNotFound", err)
	}
}

func TestObjectSetReplacesLastOccurrence(t *testing.T) {
	t.Parallel()

	a := HeapAllocator{}
	obj, _ := NewObject(a)

	v1, _ := NewInt(a, 1)
	v2, _ := NewInt(a, 2)
	if err := obj.Add("k", v1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := obj.Set(a, "k", v2); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if obj.Len() != 1 {
		t.Fatalf("Len = %d after Set on existing key, want 1", obj.Len())
	}
	got, _ := obj.Get("k")
	if n, _ := got.Int64(); n != 2 {
		t.Errorf("Get(k) = %d, want 2", n)
	}

	v3, _ := NewInt(a, 3)
	if err := obj.Set(a, "new", v3); err != nil {
		t.Fatalf("Set new key: %v", err)
	}
	if obj.Len() != 2 {
		t.Errorf("Len = %d after Set on new key, want 2", obj.Len())
	}
}

func TestArrayAt(t *testing.T) {
	t.Parallel()

	a := HeapAllocator{}
	arr, _ := NewArray(a)
	for i := int64(0); i < 3; i++ {
		v, _ := NewInt(a, i)
		if err := arr.Append(v); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	v, err := arr.At(2)
	if err != nil {
		t.Fatalf("At(2): %v", err)
	}
	if n, _ := v.Int64(); n != 2 {
		t.Errorf("At(2) = %d, want 2", n)
	}
	if _, err := arr.At(3); !errors.Is(err, ErrNotFound) {
		t.Errorf("At(3) = %v, want ErrNotFound", err)
	}
	if _, err := arr.At(-1); !errors.Is(err, ErrNotFound) {
		t.Errorf("At(-1) = %v, want ErrNotFound", err)
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	a := HeapAllocator{}

	build := func() *Value {
		obj, _ := NewObject(a)
		arr, _ := NewArray(a)
		for _, f := range []float64{1, 2.5, -4} {
			v, _ := NewNumber(a, f)
			_ = arr.Append(v)
		}
		_ = obj.Add("list", arr)
		s, _ := NewString(a, "text")
		_ = obj.Add("s", s)
		return obj
	}

	left, right := build(), build()
	if !Equal(left, right) {
		t.Error("identical trees compare unequal")
	}

	extra, _ := NewNull(a)
	_ = right.Add("tail", extra)
	if Equal(left, right) {
		t.Error("trees with different member counts compare equal")
	}
}
