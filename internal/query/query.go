// Package query evaluates JSONPath expressions against document trees.
package query

import (
	"errors"
	"fmt"
	"sort"

	"github.com/theory/jsonpath"

	"github.com/omniflow/jsonplug/internal/document"
)

var (
	ErrInvalidPath = errors.New("invalid JSONPath expression")
	ErrNotFound    = errors.New("no match for JSONPath expression")
)

// Select evaluates pathExpr against root and returns the matches as an
// array document allocated through a. Duplicate object keys collapse
// last-wins during evaluation, mirroring the lookup policy of
// document.Get.
func Select(a document.Allocator, root *document.Value, pathExpr string) (*document.Value, error) {
	if pathExpr == "" {
		return nil, fmt.Errorf("%w: expression is empty", ErrInvalidPath)
	}
	path, err := jsonpath.Parse(pathExpr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPath, pathExpr, err)
	}

	results := path.Select(toNative(root))

	out, err := document.NewArray(a)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		child, err := fromNative(a, r)
		if err != nil {
			document.Release(a, out)
			return nil, err
		}
		if err := out.Append(child); err != nil {
			document.Release(a, child)
			document.Release(a, out)
			return nil, err
		}
	}
	return out, nil
}

// First evaluates pathExpr and returns only the first match.
func First(a document.Allocator, root *document.Value, pathExpr string) (*document.Value, error) {
	if pathExpr == "" {
		return nil, fmt.Errorf("%w: expression is empty", ErrInvalidPath)
	}
	path, err := jsonpath.Parse(pathExpr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPath, pathExpr, err)
	}
	results := path.Select(toNative(root))
	if len(results) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, pathExpr)
	}
	return fromNative(a, results[0])
}

// toNative converts a tree to plain Go values for the JSONPath engine:
// map[string]any for objects, []any for arrays, and the scalar kinds.
func toNative(v *document.Value) any {
	switch v.Kind() {
	case document.KindBool:
		b, _ := v.Bool()
		return b
	case document.KindNumber:
		f, _ := v.Float64()
		return f
	case document.KindString:
		s, _ := v.StringValue()
		return s
	case document.KindArray:
		items, _ := v.Items()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = toNative(item)
		}
		return out
	case document.KindObject:
		members, _ := v.Members()
		out := make(map[string]any, len(members))
		for _, m := range members {
			out[m.Key] = toNative(m.Value)
		}
		return out
	default:
		return nil
	}
}

// fromNative rebuilds a tree from plain Go values. Object keys are
// emitted in sorted order because native maps carry no insertion order.
func fromNative(a document.Allocator, data any) (*document.Value, error) {
	switch t := data.(type) {
	case nil:
		return document.NewNull(a)
	case bool:
		return document.NewBool(a, t)
	case float64:
		return document.NewNumber(a, t)
	case int:
		return document.NewInt(a, int64(t))
	case string:
		return document.NewString(a, t)
	case []any:
		arr, err := document.NewArray(a)
		if err != nil {
			return nil, err
		}
		for _, item := range t {
			child, err := fromNative(a, item)
			if err != nil {
				document.Release(a, arr)
				return nil, err
			}
			if err := arr.Append(child); err != nil {
				document.Release(a, child)
				document.Release(a, arr)
				return nil, err
			}
		}
		return arr, nil
	case map[string]any:
		obj, err := document.NewObject(a)
		if err != nil {
			return nil, err
		}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child, err := fromNative(a, t[k])
			if err != nil {
				document.Release(a, obj)
				return nil, err
			}
			if err := obj.Add(k, child); err != nil {
				document.Release(a, child)
				document.Release(a, obj)
				return nil, err
			}
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("%w: unsupported native type %T", document.ErrTypeMismatch, data)
	}
}
