package value

import (
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/span"
)

// Kind identifies the variant held by a Value.
type Kind int

const (
	KindNothing Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindRecord
	KindRange
	KindError
)

var kindNames = [...]string{
	KindNothing: "nothing",
	KindBool:    "bool",
	KindInt:     "int",
	KindFloat:   "float",
	KindString:  "string",
	KindList:    "list",
	KindRecord:  "record",
	KindRange:   "range",
	KindError:   "error",
}

// String returns the user-facing type name of the kind.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Value is a structured datum. The zero Value is Nothing with an unknown span.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	vals []Value  // list items, or record values parallel to cols
	cols []string // record field names
	rng  Range
	err  *errors.AppError
	span span.Span
}

// Field is a named record entry used to build records.
type Field struct {
	Name  string
	Value Value
}

// --- Constructors ---

// Nothing returns the empty value.
func Nothing(s span.Span) Value {
	return Value{kind: KindNothing, span: s}
}

// Bool returns a boolean value.
func Bool(b bool, s span.Span) Value {
	return Value{kind: KindBool, b: b, span: s}
}

// Int returns an integer value.
func Int(i int64, s span.Span) Value {
	return Value{kind: KindInt, i: i, span: s}
}

// Float returns a floating-point value.
func Float(f float64, s span.Span) Value {
	return Value{kind: KindFloat, f: f, span: s}
}

// String returns a string value.
func String(str string, s span.Span) Value {
	return Value{kind: KindString, s: str, span: s}
}

// List returns a list value holding a copy of items.
func List(items []Value, s span.Span) Value {
	return Value{kind: KindList, vals: slices.Clone(items), span: s}
}

// Record returns a record with the given fields in order. A repeated name
// replaces the earlier field's value and keeps its position.
func Record(s span.Span, fields ...Field) Value {
	cols := make([]string, 0, len(fields))
	vals := make([]Value, 0, len(fields))
	for _, f := range fields {
		if idx := slices.Index(cols, f.Name); idx >= 0 {
			vals[idx] = f.Value
			continue
		}
		cols = append(cols, f.Name)
		vals = append(vals, f.Value)
	}
	return Value{kind: KindRecord, cols: cols, vals: vals, span: s}
}

// RangeOf returns a range value.
func RangeOf(r Range, s span.Span) Value {
	return Value{kind: KindRange, rng: r, span: s}
}

// Error returns an error value. Its span is the error's span.
func Error(err *errors.AppError) Value {
	if err == nil {
		err = errors.Internal(nil)
	}
	return Value{kind: KindError, err: err, span: err.Span}
}

// --- Accessors ---

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// Span returns the source position of v.
func (v Value) Span() span.Span { return v.span }

// WithSpan returns a copy of v tagged with s.
func (v Value) WithSpan(s span.Span) Value {
	v.span = s
	return v
}

// IsError reports whether v is an error value.
func (v Value) IsError() bool { return v.kind == KindError }

// IsNothing reports whether v is the empty value.
func (v Value) IsNothing() bool { return v.kind == KindNothing }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the integer held by v.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the float held by v.
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == KindFloat }

// AsString returns the text held by v.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsRange returns the range held by v.
func (v Value) AsRange() (Range, bool) { return v.rng, v.kind == KindRange }

// AsError returns the error descriptor held by v.
func (v Value) AsError() (*errors.AppError, bool) {
	if v.kind != KindError {
		return nil, false
	}
	return v.err, true
}

// Len returns the number of list items or record fields, and zero for
// every other kind.
func (v Value) Len() int {
	switch v.kind {
	case KindList, KindRecord:
		return len(v.vals)
	default:
		return 0
	}
}

// Items returns a copy of the list items, or nil if v is not a list.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return slices.Clone(v.vals)
}

// Columns returns a copy of the record field names in order, or nil if v is
// not a record.
func (v Value) Columns() []string {
	if v.kind != KindRecord {
		return nil
	}
	return slices.Clone(v.cols)
}

// Fields returns a copy of the record fields in order, or nil if v is not a
// record.
func (v Value) Fields() []Field {
	if v.kind != KindRecord {
		return nil
	}
	out := make([]Field, len(v.cols))
	for i, c := range v.cols {
		out[i] = Field{Name: c, Value: v.vals[i]}
	}
	return out
}

// Get returns the record field with the given name.
func (v Value) Get(name string) (Value, bool) {
	if v.kind != KindRecord {
		return Value{}, false
	}
	idx := slices.Index(v.cols, name)
	if idx < 0 {
		return Value{}, false
	}
	return v.vals[idx], true
}

// At returns the list item at index i.
func (v Value) At(i int) (Value, bool) {
	if v.kind != KindList || i < 0 || i >= len(v.vals) {
		return Value{}, false
	}
	return v.vals[i], true
}

// withChild returns a copy of the list or record v with the child at idx
// replaced. The backing slice is copied; siblings are shared.
func (v Value) withChild(idx int, child Value) Value {
	vals := slices.Clone(v.vals)
	vals[idx] = child
	v.vals = vals
	return v
}

// String renders v in a compact single-line form.
func (v Value) String() string {
	var b strings.Builder
	v.write(&b)
	return b.String()
}

func (v Value) write(b *strings.Builder) {
	switch v.kind {
	case KindNothing:
		b.WriteString("null")
	case KindBool:
		b.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		b.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		b.WriteString(FormatFloat(v.f))
	case KindString:
		b.WriteString(strconv.Quote(v.s))
	case KindList:
		b.WriteByte('[')
		for i, item := range v.vals {
			if i > 0 {
				b.WriteString(", ")
			}
			item.write(b)
		}
		b.WriteByte(']')
	case KindRecord:
		b.WriteByte('{')
		for i, c := range v.cols {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(quoteMember(c))
			b.WriteString(": ")
			v.vals[i].write(b)
		}
		b.WriteByte('}')
	case KindRange:
		b.WriteString(v.rng.String())
	case KindError:
		b.WriteString("error(")
		b.WriteString(v.err.Error())
		b.WriteByte(')')
	}
}

// FormatFloat renders f so that it always reads back as a float.
func FormatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
