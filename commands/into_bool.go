package commands

import (
	"context"
	stderrors "errors"
	"math"
	"strconv"
	"strings"

	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/pipeline"
	"github.com/kbukum/rowpipe/span"
	"github.com/kbukum/rowpipe/validation"
	"github.com/kbukum/rowpipe/value"
)

// epsilon is the float64 machine epsilon. Numbers whose magnitude is below
// it count as zero.
const epsilon = 0x1p-52

// IntoBool converts each element, or the cells its paths address, to a
// boolean.
type IntoBool struct {
	Head  span.Span
	Paths []value.CellPath `json:"paths" validate:"dive,min=1"`
}

func (IntoBool) Name() string  { return "into bool" }
func (IntoBool) Usage() string { return "Convert value to boolean" }

// Apply maps every element through ToBool.
func (c IntoBool) Apply(in *Stream) (*Stream, error) {
	if err := validation.Validate(c); err != nil {
		return nil, err
	}
	return pipeline.Map(in, func(_ context.Context, v value.Value) (value.Value, error) {
		return c.convert(v), nil
	}), nil
}

func (c IntoBool) convert(v value.Value) value.Value {
	if len(c.Paths) == 0 {
		return ToBool(v, c.Head)
	}
	return value.ApplyAll(v, c.Paths, func(old value.Value) value.Value {
		return ToBool(old, c.Head)
	})
}

// ToBool coerces a single value. Booleans are returned unchanged; ints are
// true when non-zero; floats are true when not within epsilon of zero;
// strings go through ParseBool. Error values pass through. Every other kind
// yields an UNSUPPORTED_INPUT error value. Results carry the head span.
func ToBool(v value.Value, head span.Span) value.Value {
	switch v.Kind() {
	case value.KindBool, value.KindError:
		return v
	case value.KindInt:
		n, _ := v.AsInt()
		return value.Bool(n != 0, head)
	case value.KindFloat:
		f, _ := v.AsFloat()
		return value.Bool(math.Abs(f) >= epsilon, head)
	case value.KindString:
		s, _ := v.AsString()
		b, err := ParseBool(s, head)
		if err != nil {
			return value.Error(err)
		}
		return value.Bool(b, head)
	default:
		return value.Error(errors.UnsupportedInput("'into bool' does not support this input", head).
			WithDetail("kind", v.Kind().String()))
	}
}

// ParseBool interprets text as a boolean. "true" and "false" match after
// trimming, case-insensitively. Any other text that parses as a number is
// true unless it is within epsilon of zero, so "3.7" and "-1" are true.
func ParseBool(s string, at span.Span) (bool, *errors.AppError) {
	switch t := strings.ToLower(strings.TrimSpace(s)); t {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		f, ok := parseDecimal(t)
		if !ok {
			return false, errors.CantConvert("boolean", "string", at).WithDetail("text", s)
		}
		return math.Abs(f) >= epsilon, nil
	}
}

// parseDecimal parses lowercased decimal float text. Hex mantissas and
// digit separators are rejected. Out-of-range magnitudes become ±Inf or 0.
func parseDecimal(t string) (float64, bool) {
	if strings.Contains(t, "_") || strings.HasPrefix(strings.TrimLeft(t, "+-"), "0x") {
		return 0, false
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil && !stderrors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}
