package value

import (
	"math"
	"strconv"
	"strings"

	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/span"
)

// Inclusion says whether a range contains its upper bound.
type Inclusion int

const (
	Inclusive Inclusion = iota
	RightExclusive
)

// Range is an integer range from From to To, stepping by one.
type Range struct {
	From      int64
	To        int64
	Inclusion Inclusion
}

// Len returns the number of integers in the range. A reversed range is
// empty. Counts that do not fit in an int64 saturate at math.MaxInt64.
func (r Range) Len() int64 {
	if r.To < r.From {
		return 0
	}
	n := uint64(r.To) - uint64(r.From)
	if r.Inclusion == Inclusive {
		n++
		if n == 0 {
			return math.MaxInt64
		}
	}
	if n > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(n)
}

// Contains reports whether n lies inside the range.
func (r Range) Contains(n int64) bool {
	if n < r.From {
		return false
	}
	if r.Inclusion == Inclusive {
		return n <= r.To
	}
	return n < r.To
}

// Ints expands the range in ascending order.
func (r Range) Ints() []int64 {
	out := make([]int64, 0, r.Len())
	for n := r.From; r.Contains(n); n++ {
		out = append(out, n)
		if n == math.MaxInt64 {
			break
		}
	}
	return out
}

// String renders the range as "from..to" or "from..<to".
func (r Range) String() string {
	op := ".."
	if r.Inclusion == RightExclusive {
		op = "..<"
	}
	return strconv.FormatInt(r.From, 10) + op + strconv.FormatInt(r.To, 10)
}

// ParseRange parses "from..to" (inclusive) or "from..<to" (exclusive).
func ParseRange(text string, at span.Span) (Range, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(text), "..")
	if !ok {
		return Range{}, errors.TypeMismatch("range", at).WithDetail("text", text)
	}
	r := Range{Inclusion: Inclusive}
	if rest, excl := strings.CutPrefix(to, "<"); excl {
		r.Inclusion = RightExclusive
		to = rest
	}
	var err error
	if r.From, err = strconv.ParseInt(from, 10, 64); err != nil {
		return Range{}, errors.TypeMismatch("range", at).WithDetail("text", text).WithCause(err)
	}
	if r.To, err = strconv.ParseInt(to, 10, 64); err != nil {
		return Range{}, errors.TypeMismatch("range", at).WithDetail("text", text).WithCause(err)
	}
	return r, nil
}
