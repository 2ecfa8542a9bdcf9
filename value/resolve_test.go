package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/span"
)

func sample() Value {
	return Record(span.New(1, 1),
		Field{Name: "x", Value: String("1", span.New(1, 5))},
		Field{Name: "y", Value: Record(span.New(2, 1),
			Field{Name: "deep", Value: List([]Value{Int(1, span.New(2, 9)), Int(2, span.New(2, 12))}, span.New(2, 8))},
		)},
		Field{Name: "rows", Value: List([]Value{
			Record(span.New(3, 2), Field{Name: "v", Value: Float(0, span.New(3, 6))}),
			Record(span.New(4, 2), Field{Name: "v", Value: Float(2.5, span.New(4, 6))}),
		}, span.New(3, 1))},
	)
}

func toUpperMarker(v Value) Value {
	return String("changed", v.Span())
}

func codeOf(t *testing.T, v Value) errors.ErrorCode {
	t.Helper()
	appErr, ok := v.AsError()
	if !ok {
		t.Fatalf("expected error value, got %s", v)
	}
	return appErr.Code
}

func TestFollow(t *testing.T) {
	root := sample()
	got, err := Follow(root, PathOf("rows", 1, "v"))
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := got.AsFloat(); f != 2.5 {
		t.Errorf("got %s", got)
	}

	got, err = Follow(root, nil)
	if err != nil || !Equal(got, root) {
		t.Error("empty path should return root")
	}

	_, err = Follow(root, PathOf("rows", 9))
	if !errors.HasCode(err, errors.ErrCodeAccessBeyondEnd) {
		t.Errorf("expected ACCESS_BEYOND_END, got %v", err)
	}
}

func TestApply_IsolatesSiblings(t *testing.T) {
	root := sample()
	before, _ := root.Get("y")

	out := Apply(root, PathOf("x"), toUpperMarker)

	x, _ := out.Get("x")
	if s, _ := x.AsString(); s != "changed" {
		t.Errorf("x not rewritten: %s", x)
	}
	after, _ := out.Get("y")
	if diff := cmp.Diff(before, after, valueCmp); diff != "" {
		t.Errorf("sibling changed (-before +after):\n%s", diff)
	}
	if after.Span() != before.Span() {
		t.Error("sibling span changed")
	}
	deepBefore, _ := Follow(root, PathOf("y", "deep", 1))
	deepAfter, _ := Follow(out, PathOf("y", "deep", 1))
	if deepBefore.Span() != deepAfter.Span() || !Equal(deepBefore, deepAfter) {
		t.Error("nested sibling structure changed")
	}
	orig, _ := root.Get("x")
	if s, _ := orig.AsString(); s != "1" {
		t.Error("input root was mutated")
	}
	if diff := cmp.Diff(root.Columns(), out.Columns()); diff != "" {
		t.Errorf("field order changed:\n%s", diff)
	}
}

func TestApply_NestedIndex(t *testing.T) {
	root := sample()
	out := Apply(root, PathOf("rows", 0, "v"), toUpperMarker)

	got, _ := Follow(out, PathOf("rows", 0, "v"))
	if s, _ := got.AsString(); s != "changed" {
		t.Errorf("target not rewritten: %s", got)
	}
	other, _ := Follow(out, PathOf("rows", 1, "v"))
	if f, _ := other.AsFloat(); f != 2.5 {
		t.Errorf("other row changed: %s", other)
	}
	orig, _ := Follow(root, PathOf("rows", 0, "v"))
	if _, ok := orig.AsFloat(); !ok {
		t.Error("input list was mutated")
	}
}

func TestApply_FailuresBecomeErrorValues(t *testing.T) {
	tests := []struct {
		name     string
		path     CellPath
		failedAt CellPath // location replaced by the error; nil means root
		code     errors.ErrorCode
	}{
		{"missing top-level field", PathOf("nope"), nil, errors.ErrCodeColumnNotFound},
		{"missing nested field", PathOf("y", "nope"), PathOf("y"), errors.ErrCodeColumnNotFound},
		{"index beyond end", PathOf("rows", 5, "v"), PathOf("rows"), errors.ErrCodeAccessBeyondEnd},
		{"field on list", PathOf("rows", "v"), PathOf("rows"), errors.ErrCodeIncompatiblePathAccess},
		{"index on record", PathOf("y", 0), PathOf("y"), errors.ErrCodeIncompatiblePathAccess},
		{"field on scalar", PathOf("x", "inner"), PathOf("x"), errors.ErrCodeIncompatiblePathAccess},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			root := sample()
			out := Apply(root, tc.path, toUpperMarker)

			failed, err := Follow(out, tc.failedAt)
			if err != nil {
				t.Fatalf("failed location not reachable: %v", err)
			}
			if code := codeOf(t, failed); code != tc.code {
				t.Errorf("expected %s, got %s", tc.code, code)
			}
			appErr, _ := failed.AsError()
			if appErr.Details["path"] != tc.path.String() {
				t.Errorf("expected path detail %q, got %v", tc.path.String(), appErr.Details["path"])
			}
			if tc.failedAt != nil {
				if diff := cmp.Diff(root.Columns(), out.Columns()); diff != "" {
					t.Errorf("root structure changed:\n%s", diff)
				}
			}
		})
	}
}

func TestApply_EmptyPathTransformsRoot(t *testing.T) {
	out := Apply(Int(1, span.Unknown), nil, toUpperMarker)
	if s, _ := out.AsString(); s != "changed" {
		t.Errorf("got %s", out)
	}
}

func TestApply_LeavesEarlierErrorsAlone(t *testing.T) {
	root := Record(span.Unknown, Field{Name: "a", Value: Error(errors.CantConvert("boolean", "string", span.Unknown))})
	out := Apply(root, PathOf("a", "b"), toUpperMarker)
	a, _ := out.Get("a")
	if code := codeOf(t, a); code != errors.ErrCodeCantConvert {
		t.Errorf("earlier error replaced by %s", code)
	}
}

func TestApplyAll_Sequential(t *testing.T) {
	root := Record(span.Unknown, Field{Name: "n", Value: Int(1, span.Unknown)})
	inc := func(v Value) Value {
		n, _ := v.AsInt()
		return Int(n+1, v.Span())
	}
	out := ApplyAll(root, []CellPath{PathOf("n"), PathOf("n"), PathOf("n")}, inc)
	n, _ := out.Get("n")
	if i, _ := n.AsInt(); i != 4 {
		t.Errorf("expected 4 after three sequential applications, got %d", i)
	}

	if got := ApplyAll(Int(1, span.Unknown), nil, inc); !Equal(got, Int(2, span.Unknown)) {
		t.Errorf("no paths should transform the whole value, got %s", got)
	}
}

func TestApplyAll_ContinuesAfterFailure(t *testing.T) {
	root := Record(span.Unknown,
		Field{Name: "a", Value: Int(1, span.Unknown)},
		Field{Name: "b", Value: Record(span.Unknown)},
	)
	out := ApplyAll(root, []CellPath{PathOf("b", "missing"), PathOf("a")}, toUpperMarker)
	b, _ := out.Get("b")
	if code := codeOf(t, b); code != errors.ErrCodeColumnNotFound {
		t.Errorf("expected COLUMN_NOT_FOUND, got %s", code)
	}
	a, _ := out.Get("a")
	if s, _ := a.AsString(); s != "changed" {
		t.Errorf("second path not applied: %s", a)
	}
}

func TestUpdate_Strict(t *testing.T) {
	root := sample()
	out, err := Update(root, PathOf("y", "deep", 0), toUpperMarker)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := Follow(out, PathOf("y", "deep", 0))
	if s, _ := got.AsString(); s != "changed" {
		t.Errorf("got %s", got)
	}

	same, err := Update(root, PathOf("y", "deep", 7), toUpperMarker)
	if !errors.HasCode(err, errors.ErrCodeAccessBeyondEnd) {
		t.Fatalf("expected ACCESS_BEYOND_END, got %v", err)
	}
	if !Equal(same, root) {
		t.Error("failed update should return the root unchanged")
	}
}
