package commands

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/pipeline"
	"github.com/kbukum/rowpipe/value"
)

func TestToBool_Table(t *testing.T) {
	tests := []struct {
		name string
		in   value.Value
		want bool
	}{
		{"bool false", value.Bool(false, at), false},
		{"bool true", value.Bool(true, at), true},
		{"string false", value.String("false", at), false},
		{"string true", value.String("true", at), true},
		{"string mixed case padded", value.String("  TrUe \n", at), true},
		{"int zero", value.Int(0, at), false},
		{"int one", value.Int(1, at), true},
		{"int negative", value.Int(-5, at), true},
		{"float zero", value.Float(0.0, at), false},
		{"float one", value.Float(1.0, at), true},
		{"float below epsilon", value.Float(1e-17, at), false},
		{"float at epsilon", value.Float(epsilon, at), true},
		{"string 0.0", value.String("0.0", at), false},
		{"string 0", value.String("0", at), false},
		{"string 1", value.String("1", at), true},
		{"string 3.7", value.String("3.7", at), true},
		{"string negative", value.String("-2", at), true},
		{"string exponent", value.String("1e-20", at), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ToBool(tc.in, head)
			b, ok := got.AsBool()
			if !ok {
				t.Fatalf("expected bool, got %s", got)
			}
			if b != tc.want {
				t.Errorf("got %v, want %v", b, tc.want)
			}
		})
	}
}

func TestToBool_Failures(t *testing.T) {
	tests := []struct {
		name string
		in   value.Value
		code errors.ErrorCode
	}{
		{"text", value.String("hello", at), errors.ErrCodeCantConvert},
		{"empty text", value.String("", at), errors.ErrCodeCantConvert},
		{"record", value.Record(at, value.Field{Name: "a", Value: value.Int(1, at)}), errors.ErrCodeUnsupportedInput},
		{"list", value.List([]value.Value{value.Int(1, at)}, at), errors.ErrCodeUnsupportedInput},
		{"nothing", value.Nothing(at), errors.ErrCodeUnsupportedInput},
		{"range", value.RangeOf(value.Range{From: 1, To: 2}, at), errors.ErrCodeUnsupportedInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ToBool(tc.in, head)
			e, ok := got.AsError()
			if !ok {
				t.Fatalf("expected error value, got %s", got)
			}
			if e.Code != tc.code {
				t.Errorf("got %s, want %s", e.Code, tc.code)
			}
			if e.Span != head {
				t.Errorf("expected error at command head %s, got %s", head, e.Span)
			}
		})
	}
}

func TestToBool_UnsupportedMessage(t *testing.T) {
	e, _ := ToBool(value.List(nil, at), head).AsError()
	if e.Message != "'into bool' does not support this input" {
		t.Errorf("unexpected message %q", e.Message)
	}
}

func TestToBool_Spans(t *testing.T) {
	in := value.Bool(true, at)
	if got := ToBool(in, head); got.Span() != at {
		t.Errorf("bool input should keep its span, got %s", got.Span())
	}
	if got := ToBool(value.Int(1, at), head); got.Span() != head {
		t.Errorf("converted value should carry the head span, got %s", got.Span())
	}
}

func TestToBool_ErrorPassthrough(t *testing.T) {
	in := value.Error(errors.ColumnNotFound("x", at))
	got := ToBool(in, head)
	if diff := cmp.Diff(in, got, valueCmp); diff != "" {
		t.Errorf("error value should pass through (-want +got):\n%s", diff)
	}
}

func TestParseBool_NaNAndInf(t *testing.T) {
	if b, err := ParseBool("inf", at); err != nil || !b {
		t.Errorf("inf: got %v, %v", b, err)
	}
	// NaN fails every comparison, including the epsilon test.
	if b, err := ParseBool("NaN", at); err != nil || b {
		t.Errorf("NaN: got %v, %v", b, err)
	}
	if float64(epsilon) != math.Nextafter(1, 2)-1 {
		t.Errorf("epsilon = %g", float64(epsilon))
	}
}

func TestParseBool_FloatGrammar(t *testing.T) {
	tests := []struct {
		text    string
		want    bool
		wantErr bool
	}{
		{"1e400", true, false},
		{"-1E400", true, false},
		{"1e-400", false, false},
		{"Infinity", true, false},
		{"+inf", true, false},
		{".5", true, false},
		{"2.", true, false},
		{"0x1p3", false, true},
		{"-0X1P3", false, true},
		{"+0x10", false, true},
		{"1_0", false, true},
		{"0x_1p0", false, true},
		{"1e", false, true},
	}
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			got, err := ParseBool(tc.text, at)
			if tc.wantErr {
				if !errors.HasCode(err, errors.ErrCodeCantConvert) {
					t.Fatalf("expected CANT_CONVERT, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tc.want {
				t.Errorf("ParseBool(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestIntoBool_Totality(t *testing.T) {
	input := []value.Value{
		value.Bool(false, at), value.Int(7, at), value.Float(-0.5, at),
		value.String("nope", at), value.String("FALSE", at),
	}
	got := run(t, IntoBool{Head: head}, input...)
	if len(got) != len(input) {
		t.Fatalf("stream length changed: %d -> %d", len(input), len(got))
	}
	for i, v := range got {
		if v.Kind() != value.KindBool && v.Kind() != value.KindError {
			t.Errorf("element %d: got kind %s", i, v.Kind())
		}
	}
}

func TestIntoBool_PathIsolation(t *testing.T) {
	nested := value.Record(at,
		value.Field{Name: "deep", Value: value.List([]value.Value{value.String("keep", at)}, at)},
	)
	in := value.Record(at,
		value.Field{Name: "x", Value: value.String("true", at)},
		value.Field{Name: "y", Value: nested},
	)
	got := run(t, IntoBool{Head: head, Paths: []value.CellPath{value.PathOf("x")}}, in)

	want := value.Record(at,
		value.Field{Name: "x", Value: value.Bool(true, at)},
		value.Field{Name: "y", Value: nested},
	)
	if diff := cmp.Diff([]value.Value{want}, got, valueCmp); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	y, _ := got[0].Get("y")
	if y.String() != nested.String() {
		t.Errorf("sibling changed: %s", y)
	}
}

func TestIntoBool_MultiplePaths(t *testing.T) {
	in := value.Record(at,
		value.Field{Name: "a", Value: value.Int(0, at)},
		value.Field{Name: "b", Value: value.String("yes", at)},
		value.Field{Name: "c", Value: value.Float(2.5, at)},
	)
	cmd := IntoBool{Head: head, Paths: []value.CellPath{value.PathOf("a"), value.PathOf("b"), value.PathOf("c")}}
	got := run(t, cmd, in)[0]

	if a, _ := got.Get("a"); !value.Equal(a, value.Bool(false, at)) {
		t.Errorf("a = %s", a)
	}
	b, _ := got.Get("b")
	if code := errorCode(t, b); code != errors.ErrCodeCantConvert {
		t.Errorf("b: got %s", code)
	}
	if c, _ := got.Get("c"); !value.Equal(c, value.Bool(true, at)) {
		t.Errorf("c = %s", c)
	}
}

func TestIntoBool_MissingColumn(t *testing.T) {
	in := value.Record(at, value.Field{Name: "a", Value: value.Int(1, at)})
	got := run(t, IntoBool{Head: head, Paths: []value.CellPath{value.PathOf("b")}}, in, value.Int(3, at))
	if len(got) != 2 {
		t.Fatalf("expected stream to continue, got %v", got)
	}
	if code := errorCode(t, got[0]); code != errors.ErrCodeColumnNotFound {
		t.Errorf("got %s, want COLUMN_NOT_FOUND", code)
	}
	if code := errorCode(t, got[1]); code != errors.ErrCodeIncompatiblePathAccess {
		t.Errorf("got %s, want INCOMPATIBLE_PATH_ACCESS", code)
	}
}

func TestIntoBool_EmptyPathRejected(t *testing.T) {
	cmd := IntoBool{Head: head, Paths: []value.CellPath{{}}}
	_, err := cmd.Apply(pipeline.FromSlice([]value.Value{value.Int(1, at)}))
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}
