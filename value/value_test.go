package value

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/span"
)

// valueCmp lets cmp.Diff compare Values with Equal semantics.
var valueCmp = cmp.Comparer(Equal)

var at = span.New(1, 1)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNothing, "nothing"},
		{KindBool, "bool"},
		{KindInt, "int"},
		{KindFloat, "float"},
		{KindString, "string"},
		{KindList, "list"},
		{KindRecord, "record"},
		{KindRange, "range"},
		{KindError, "error"},
		{Kind(99), "unknown"},
	}
	for _, tc := range tests {
		if got := tc.kind.String(); got != tc.want {
			t.Errorf("Kind(%d): got %q, want %q", tc.kind, got, tc.want)
		}
	}
}

func TestZeroValueIsNothing(t *testing.T) {
	var v Value
	if !v.IsNothing() {
		t.Errorf("zero Value should be nothing, got %s", v.Kind())
	}
}

func TestScalarAccessors(t *testing.T) {
	if b, ok := Bool(true, at).AsBool(); !ok || !b {
		t.Error("AsBool failed")
	}
	if i, ok := Int(42, at).AsInt(); !ok || i != 42 {
		t.Error("AsInt failed")
	}
	if f, ok := Float(1.5, at).AsFloat(); !ok || f != 1.5 {
		t.Error("AsFloat failed")
	}
	if s, ok := String("x", at).AsString(); !ok || s != "x" {
		t.Error("AsString failed")
	}
	if _, ok := Int(1, at).AsString(); ok {
		t.Error("AsString on int should fail")
	}
	if Int(1, at).Span() != at {
		t.Error("span not kept")
	}
}

func TestListCopiesItems(t *testing.T) {
	items := []Value{Int(1, at), Int(2, at)}
	l := List(items, at)
	items[0] = Int(100, at)

	got, _ := l.At(0)
	if n, _ := got.AsInt(); n != 1 {
		t.Errorf("list should not alias caller slice, got %d", n)
	}

	out := l.Items()
	out[1] = Int(200, at)
	got, _ = l.At(1)
	if n, _ := got.AsInt(); n != 2 {
		t.Errorf("Items should return a copy, got %d", n)
	}
	if _, ok := l.At(5); ok {
		t.Error("At beyond end should fail")
	}
}

func TestRecordOrderAndDuplicates(t *testing.T) {
	r := Record(at,
		Field{Name: "b", Value: Int(1, at)},
		Field{Name: "a", Value: Int(2, at)},
		Field{Name: "b", Value: Int(3, at)},
	)
	if diff := cmp.Diff([]string{"b", "a"}, r.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	got, ok := r.Get("b")
	if !ok {
		t.Fatal("expected field b")
	}
	if n, _ := got.AsInt(); n != 3 {
		t.Errorf("repeated field should replace value, got %d", n)
	}
	if r.Len() != 2 {
		t.Errorf("expected 2 fields, got %d", r.Len())
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get on missing field should fail")
	}
}

func TestErrorValueTakesErrorSpan(t *testing.T) {
	v := Error(errors.CantConvert("boolean", "string", span.New(4, 2)))
	if !v.IsError() {
		t.Fatal("expected error value")
	}
	if v.Span() != span.New(4, 2) {
		t.Errorf("expected span 4:2, got %s", v.Span())
	}
	appErr, ok := v.AsError()
	if !ok || appErr.Code != errors.ErrCodeCantConvert {
		t.Errorf("unexpected descriptor %v", appErr)
	}
	if !Error(nil).IsError() {
		t.Error("Error(nil) should still be an error value")
	}
}

func TestEqualIgnoresSpans(t *testing.T) {
	a := Record(span.New(1, 1),
		Field{Name: "x", Value: List([]Value{Int(1, span.New(2, 1)), String("s", span.New(3, 1))}, span.New(2, 1))},
	)
	b := Record(span.New(9, 9),
		Field{Name: "x", Value: List([]Value{Int(1, span.Unknown), String("s", span.Unknown)}, span.Unknown)},
	)
	if !Equal(a, b) {
		t.Error("values differing only in spans should be equal")
	}
}

func TestEqual_Table(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"int vs float", Int(1, at), Float(1, at), false},
		{"nan", Float(math.NaN(), at), Float(math.NaN(), at), true},
		{"field order matters", Record(at, Field{"a", Int(1, at)}, Field{"b", Int(2, at)}),
			Record(at, Field{"b", Int(2, at)}, Field{"a", Int(1, at)}), false},
		{"list length", List([]Value{Int(1, at)}, at), List(nil, at), false},
		{"errors by code and message", Error(errors.ColumnNotFound("a", at)), Error(errors.ColumnNotFound("a", span.Unknown)), true},
		{"different errors", Error(errors.ColumnNotFound("a", at)), Error(errors.ColumnNotFound("b", at)), false},
		{"ranges", RangeOf(Range{1, 3, Inclusive}, at), RangeOf(Range{1, 3, RightExclusive}, at), false},
		{"nothing", Nothing(at), Nothing(span.Unknown), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Equal(tc.a, tc.b); got != tc.want {
				t.Errorf("Equal(%s, %s) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestValueString(t *testing.T) {
	v := Record(at,
		Field{Name: "name", Value: String("a b", at)},
		Field{Name: "n", Value: List([]Value{Int(1, at), Float(2, at), Bool(false, at), Nothing(at)}, at)},
		Field{Name: "first.last", Value: RangeOf(Range{0, 2, RightExclusive}, at)},
	)
	want := `{name: "a b", n: [1, 2.0, false, null], "first.last": 0..<2}`
	if got := v.String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		1:           "1.0",
		1.5:         "1.5",
		-0.25:       "-0.25",
		1e21:        "1e+21",
		math.Inf(1): "inf",
	}
	for in, want := range tests {
		if got := FormatFloat(in); got != want {
			t.Errorf("FormatFloat(%v) = %q, want %q", in, got, want)
		}
	}
}
