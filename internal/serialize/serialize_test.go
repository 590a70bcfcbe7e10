package serialize

import (
	"math"
	"strings"
	"testing"

	"github.com/omniflow/jsonplug/internal/document"
	"github.com/omniflow/jsonplug/internal/parse"
)

var heap = document.HeapAllocator{}

func roundTrip(t *testing.T, v *document.Value) *document.Value {
	t.Helper()
	text := Compact(v)
	parsed, err := parse.Parse(text, heap)
	if err != nil {
		t.Fatalf("reparsing %q: %v", text, err)
	}
	return parsed
}

func TestCompactScalars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		build func() (*document.Value, error)
		want  string
	}{
		{"null", func() (*document.Value, error) { return document.NewNull(heap) }, "null"},
		{"true", func() (*document.Value, error) { return document.NewBool(heap, true) }, "true"},
		{"false", func() (*document.Value, error) { return document.NewBool(heap, false) }, "false"},
		{"integral", func() (*document.Value, error) { return document.NewNumber(heap, 42) }, "42"},
		{"negative_zero", func() (*document.Value, error) { return document.NewNumber(heap, math.Copysign(0, -1)) }, "-0"},
		{"fraction", func() (*document.Value, error) { return document.NewNumber(heap, 3.5) }, "3.5"},
		{"small_exponent", func() (*document.Value, error) { return document.NewNumber(heap, -0.25) }, "-0.25"},
		{"nan_as_null", func() (*document.Value, error) { return document.NewNumber(heap, math.NaN()) }, "null"},
		{"inf_as_null", func() (*document.Value, error) { return document.NewNumber(heap, math.Inf(1)) }, "null"},
		{"string", func() (*document.Value, error) { return document.NewString(heap, "hi") }, `"hi"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			v, err := tc.build()
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			if got := string(Compact(v)); got != tc.want {
				t.Errorf("Compact = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNumberFidelity(t *testing.T) {
	t.Parallel()

	// Textual form may change (1e3 -> 1000); the value must not.
	inputs := []string{"0", "-0", "42", "3.5", "1e3", "-2.5E-1", "1.7976931348623157e308", "5e-324"}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			t.Parallel()
			v, err := parse.Parse([]byte(in), heap)
			if err != nil {
				t.Fatalf("Parse(%q): %v", in, err)
			}
			want, _ := v.Float64()

			re := roundTrip(t, v)
			got, err := re.Float64()
			if err != nil {
				t.Fatalf("Float64: %v", err)
			}
			if got != want && !(math.IsNaN(got) && math.IsNaN(want)) {
				t.Errorf("round-trip of %q: %v != %v", in, got, want)
			}
		})
	}

	v, _ := parse.Parse([]byte("1e3"), heap)
	if got := string(Compact(v)); got != "1000" {
		t.Errorf("Compact(1e3) = %q, want 1000", got)
	}
}

func TestEscapingInverse(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"",
		"plain",
		`quote " and backslash \`,
		"control \x01\x02\x1f bytes",
		"newline\nand tab\t",
		"non-ascii: héllo 世界",
		"slash / stays bare",
	}
	for _, s := range inputs {
		v, err := document.NewString(heap, s)
		if err != nil {
			t.Fatalf("NewString: %v", err)
		}
		re := roundTrip(t, v)
		got, err := re.StringValue()
		if err != nil || got != s {
			t.Errorf("round-trip of %q = %q, %v", s, got, err)
		}
	}
}

func TestControlCharacterEscapes(t *testing.T) {
	t.Parallel()

	v, _ := document.NewString(heap, "\b\f\n\r\t\x00\x1f")
	want := `"\b\f\n\r\t\u0000\u001f"`
	if got := string(Compact(v)); got != want {
		t.Errorf("Compact = %q, want %q", got, want)
	}
}

func TestRoundTripTree(t *testing.T) {
	t.Parallel()

	obj, _ := document.NewObject(heap)
	arr, _ := document.NewArray(heap)
	for _, f := range []float64{1, 2, 3.5, -4} {
		n, _ := document.NewNumber(heap, f)
		_ = arr.Append(n)
	}
	_ = obj.Add("numbers", arr)
	s, _ := document.NewString(heap, "value with \"quotes\"")
	_ = obj.Add("text", s)
	null, _ := document.NewNull(heap)
	_ = obj.Add("nothing", null)
	flag, _ := document.NewBool(heap, true)
	_ = obj.Add("flag", flag)
	empty, _ := document.NewObject(heap)
	_ = obj.Add("empty", empty)

	re := roundTrip(t, obj)
	if !document.Equal(obj, re) {
		t.Errorf("parse(serialize(v)) != v:\n%s\n%s", Compact(obj), Compact(re))
	}
}

func TestSerializeIdempotent(t *testing.T) {
	t.Parallel()

	input := `{"a":[1,2,3.5,-4],"b":{"nested":"x"},"c":null,"d":[[]],"e":1000}`
	v, err := parse.Parse([]byte(input), heap)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	once := Compact(v)
	again, err := parse.Parse(once, heap)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	twice := Compact(again)
	if string(once) != string(twice) {
		t.Errorf("serialize not idempotent:\n%s\n%s", once, twice)
	}
}

func TestIndentMatchesCompactSemantics(t *testing.T) {
	t.Parallel()

	input := `{"a":[1,2],"b":{"c":"d"},"e":[]}`
	v, err := parse.Parse([]byte(input), heap)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	pretty := Indent(v, 2)
	if !strings.Contains(string(pretty), "\n") {
		t.Error("Indent produced no newlines")
	}
	reparsed, err := parse.Parse(pretty, heap)
	if err != nil {
		t.Fatalf("reparsing pretty output: %v", err)
	}
	if !document.Equal(v, reparsed) {
		t.Errorf("pretty form changed semantics:\n%s", pretty)
	}
	if got := string(Compact(reparsed)); got != input {
		t.Errorf("compact(parse(pretty)) = %q, want %q", got, input)
	}
}

func TestIndentLayout(t *testing.T) {
	t.Parallel()

	v, err := parse.Parse([]byte(`{"a":[1]}`), heap)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := "{\n  \"a\": [\n    1\n  ]\n}"
	if got := string(Indent(v, 2)); got != want {
		t.Errorf("Indent = %q, want %q", got, want)
	}
}

func TestDuplicateKeysSurviveRoundTrip(t *testing.T) {
	t.Parallel()

	input := `{"k":1,"k":2}`
	v, err := parse.Parse([]byte(input), heap)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := string(Compact(v)); got != input {
		t.Errorf("Compact = %q, want %q", got, input)
	}
}
