package value

import "math"

// Equal reports whether a and b hold the same data. Spans are ignored at
// every depth; records compare field names and values in order; error
// values compare by code and message.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNothing:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f || (math.IsNaN(a.f) && math.IsNaN(b.f))
	case KindString:
		return a.s == b.s
	case KindRange:
		return a.rng == b.rng
	case KindError:
		return a.err.Code == b.err.Code && a.err.Message == b.err.Message
	case KindRecord:
		if len(a.cols) != len(b.cols) {
			return false
		}
		for i := range a.cols {
			if a.cols[i] != b.cols[i] {
				return false
			}
		}
		fallthrough
	case KindList:
		if len(a.vals) != len(b.vals) {
			return false
		}
		for i := range a.vals {
			if !Equal(a.vals[i], b.vals[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Equal reports whether v and other hold the same data; see Equal.
func (v Value) Equal(other Value) bool { return Equal(v, other) }
