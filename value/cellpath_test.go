package value

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/span"
)

func TestParseCellPath(t *testing.T) {
	tests := []struct {
		text string
		want CellPath
	}{
		{"value", PathOf("value")},
		{"rows.0.name", PathOf("rows", 0, "name")},
		{`"first.name".x`, PathOf("first.name", "x")},
		{`"0"`, PathOf("0")},
		{"3", PathOf(3)},
	}
	ignoreSpan := cmpopts.IgnoreFields(PathMember{}, "Span")
	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			got, err := ParseCellPath(tc.text, span.Unknown)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, got, ignoreSpan); diff != "" {
				t.Errorf("path mismatch (-want +got):\n%s", diff)
			}
			if got.String() != tc.text {
				t.Errorf("String() = %q, want %q", got.String(), tc.text)
			}
		})
	}
}

func TestParseCellPath_MemberSpans(t *testing.T) {
	got, err := ParseCellPath("ab.1", span.New(2, 10))
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Span != span.New(2, 10) {
		t.Errorf("first member span: got %s", got[0].Span)
	}
	if got[1].Span != span.New(2, 13) {
		t.Errorf("second member span: got %s", got[1].Span)
	}
}

func TestParseCellPath_Errors(t *testing.T) {
	for _, text := range []string{"", "a.", ".a", "a..b", `"open`, `"a"b`} {
		t.Run(text, func(t *testing.T) {
			_, err := ParseCellPath(text, span.Unknown)
			if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
				t.Errorf("expected INVALID_INPUT, got %v", err)
			}
		})
	}
}

func TestPathMemberString(t *testing.T) {
	if got := FieldOf("a b").String(); got != `"a b"` {
		t.Errorf("got %s", got)
	}
	if got := IndexOf(7).String(); got != "7" {
		t.Errorf("got %s", got)
	}
}
