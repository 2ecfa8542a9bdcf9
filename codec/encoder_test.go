package codec

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/pipeline"
	"github.com/kbukum/rowpipe/span"
	"github.com/kbukum/rowpipe/value"
)

var u = span.Unknown

func sampleRecord() value.Value {
	return value.Record(u,
		value.Field{Name: "name", Value: value.String("x", u)},
		value.Field{Name: "flag", Value: value.String("true", u)},
		value.Field{Name: "ok", Value: value.Bool(true, u)},
		value.Field{Name: "tags", Value: value.List([]value.Value{value.Int(1, u), value.Float(2.5, u)}, u)},
		value.Field{Name: "none", Value: value.Nothing(u)},
	)
}

func encodeAll(t *testing.T, format Format, vals []value.Value, opts ...EncoderOption) string {
	t.Helper()
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, format, opts...)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range vals {
		if err := enc.Encode(v); err != nil {
			t.Fatal(err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
	if enc.Count() != len(vals) {
		t.Errorf("Count() = %d, want %d", enc.Count(), len(vals))
	}
	return buf.String()
}

func TestEncoder_JSON(t *testing.T) {
	got := encodeAll(t, FormatJSON, []value.Value{sampleRecord(), value.String("a\"b", u)})
	want := `{"name":"x","flag":"true","ok":true,"tags":[1,2.5],"none":null}` + "\n" + `"a\"b"` + "\n"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestEncoder_EmptyStream(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatJSON, FormatText} {
		t.Run(string(format), func(t *testing.T) {
			if got := encodeAll(t, format, nil); got != "" {
				t.Errorf("empty stream wrote %q", got)
			}
		})
	}
}

func TestEncoder_JSONSpecialFloats(t *testing.T) {
	got := encodeAll(t, FormatJSON, []value.Value{value.Float(math.NaN(), u), value.Float(3, u), value.RangeOf(value.Range{From: 1, To: 3}, u)})
	want := "\"NaN\"\n3.0\n\"1..3\"\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncoder_JSONError(t *testing.T) {
	v := value.Error(errors.CantConvert("boolean", "string", span.New(2, 3)))
	got := encodeAll(t, FormatJSON, []value.Value{v})
	for _, want := range []string{`{"error":{`, `"code":"CANT_CONVERT"`, `"span":{"line":2,"column":3}`, `"from":"string"`} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %s in %s", want, got)
		}
	}
}

func TestEncoder_YAMLRoundTrip(t *testing.T) {
	vals := []value.Value{sampleRecord(), value.Int(7, u), value.String("null", u)}
	out := encodeAll(t, FormatYAML, vals)
	if !strings.Contains(out, `flag: "true"`) {
		t.Errorf("string that looks like a bool should be quoted:\n%s", out)
	}

	dec, err := NewDecoder(strings.NewReader(out), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	back, err := pipeline.Collect(context.Background(), pipeline.From[value.Value](dec))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(vals, back, valueCmp); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestEncoder_YAMLError(t *testing.T) {
	v := value.Error(errors.ColumnNotFound("b", span.New(4, 1)))
	out := encodeAll(t, FormatYAML, []value.Value{v})
	for _, want := range []string{"error:", "code: COLUMN_NOT_FOUND", "line: 4", "column: b"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}

func TestEncoder_Text(t *testing.T) {
	vals := []value.Value{
		value.Record(u, value.Field{Name: "a b", Value: value.Int(1, u)}, value.Field{Name: "c", Value: value.Bool(false, u)}),
		value.Error(errors.CantConvert("boolean", "string", span.New(2, 3))),
		value.List(nil, u),
	}
	got := encodeAll(t, FormatText, vals)
	want := "{\"a b\": 1, c: false}\nerror CANT_CONVERT: can't convert string to boolean (at 2:3)\n[]\n"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestEncoder_TextColor(t *testing.T) {
	plain := encodeAll(t, FormatText, []value.Value{value.Bool(true, u)}, WithColor(false))
	colored := encodeAll(t, FormatText, []value.Value{value.Bool(true, u)}, WithColor(true))
	if strings.Contains(plain, "\x1b[") {
		t.Errorf("unexpected escape codes: %q", plain)
	}
	if !strings.Contains(colored, "\x1b[") || !strings.Contains(colored, "true") {
		t.Errorf("expected colored output, got %q", colored)
	}
}

func TestEncoder_UnsupportedFormat(t *testing.T) {
	if _, err := NewEncoder(&bytes.Buffer{}, FormatLines); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestShouldColor(t *testing.T) {
	var buf bytes.Buffer
	if !ShouldColor(&buf, ColorAlways) {
		t.Error("always should color")
	}
	if ShouldColor(&buf, ColorNever) {
		t.Error("never should not color")
	}
	if ShouldColor(&buf, ColorAuto) {
		t.Error("a buffer is not a terminal")
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat(" JSON ", OutputFormats); err != nil || f != FormatJSON {
		t.Errorf("got %q, %v", f, err)
	}
	if _, err := ParseFormat("lines", OutputFormats); !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("lines is not an output format, got %v", err)
	}
}
