package commands

import (
	"fmt"
	"slices"

	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/pipeline"
	"github.com/kbukum/rowpipe/span"
	"github.com/kbukum/rowpipe/validation"
	"github.com/kbukum/rowpipe/value"
)

// MaxRangePositions bounds how many positions a range argument may expand to.
const MaxRangePositions = 1 << 24

// DropNth removes elements by zero-based position. Row is either an int,
// optionally followed by more ints in Rest, or a range with Rest empty.
type DropNth struct {
	Head span.Span
	Row  value.Value
	Rest []value.Value
}

func (DropNth) Name() string  { return "drop nth" }
func (DropNth) Usage() string { return "Drop the selected rows" }

// Apply wraps the stream in a positional drop filter.
func (c DropNth) Apply(in *Stream) (*Stream, error) {
	positions, err := c.Positions()
	if err != nil {
		return nil, err
	}
	return pipeline.DropPositions(in, positions), nil
}

// Positions returns the sorted positions to drop, or a structural error
// when the arguments have the wrong shape.
func (c DropNth) Positions() ([]int, error) {
	switch c.Row.Kind() {
	case value.KindNothing:
		return nil, errors.MissingArgument("row number or row range").WithSpan(c.Head)
	case value.KindInt:
		return c.intPositions()
	case value.KindRange:
		return c.rangePositions()
	default:
		return nil, errors.TypeMismatch("int or range", c.Row.Span()).WithDetail("kind", c.Row.Kind().String())
	}
}

func (c DropNth) intPositions() ([]int, error) {
	row, _ := c.Row.AsInt()
	v := validation.New().NonNegative("row", row)
	positions := make([]int, 0, len(c.Rest)+1)
	positions = append(positions, int(row))
	for i, r := range c.Rest {
		n, ok := r.AsInt()
		if !ok {
			return nil, errors.TypeMismatch("int", r.Span()).
				WithDetail("argument", fmt.Sprintf("rest[%d]", i)).
				WithDetail("kind", r.Kind().String())
		}
		v.NonNegative(fmt.Sprintf("rest[%d]", i), n)
		positions = append(positions, int(n))
	}
	if err := v.Validate(); err != nil {
		return nil, err.WithSpan(c.Row.Span())
	}
	slices.Sort(positions)
	return positions, nil
}

func (c DropNth) rangePositions() ([]int, error) {
	r, _ := c.Row.AsRange()
	v := validation.New().
		Custom(len(c.Rest) == 0, "rest", "row numbers cannot be combined with a range").
		NonNegative("row.from", r.From).
		Custom(r.Len() <= MaxRangePositions, "row", fmt.Sprintf("range covers more than %d rows", MaxRangePositions))
	if err := v.Validate(); err != nil {
		return nil, err.WithSpan(c.Row.Span())
	}
	ints := r.Ints()
	positions := make([]int, len(ints))
	for i, n := range ints {
		positions[i] = int(n)
	}
	return positions, nil
}
