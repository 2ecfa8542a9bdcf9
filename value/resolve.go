package value

import (
	"slices"

	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/span"
)

// Transform rewrites a single value.
type Transform func(Value) Value

// Follow returns the value that path addresses inside root.
func Follow(root Value, path CellPath) (Value, error) {
	cur := root
	for _, m := range path {
		_, child, err := locate(cur, m, path)
		if err != nil {
			return Value{}, err
		}
		cur = child
	}
	return cur, nil
}

// Update replaces the value addressed by path with f(old) and returns the
// rewritten root. If the walk fails, root is returned unchanged together
// with an *errors.AppError naming the member that could not be resolved.
func Update(root Value, path CellPath, f Transform) (Value, error) {
	out, err := update(root, path, path, f)
	if err != nil {
		return root, err
	}
	return out, nil
}

func update(cur Value, rest, full CellPath, f Transform) (Value, *errors.AppError) {
	if len(rest) == 0 {
		return f(cur), nil
	}
	idx, child, err := locate(cur, rest[0], full)
	if err != nil {
		return cur, err
	}
	next, err := update(child, rest[1:], full, f)
	if err != nil {
		return cur, err
	}
	return cur.withChild(idx, next), nil
}

// Apply is the total form of Update. A failed walk never aborts: the node at
// which resolution failed is replaced by an error value and every other part
// of root is kept. Error values met on the way are left as they are, so an
// earlier failure is not masked by a later one.
//
// An empty path applies f to root itself.
func Apply(root Value, path CellPath, f Transform) Value {
	return apply(root, path, path, f)
}

func apply(cur Value, rest, full CellPath, f Transform) Value {
	if len(rest) == 0 {
		return f(cur)
	}
	if cur.IsError() {
		return cur
	}
	idx, child, err := locate(cur, rest[0], full)
	if err != nil {
		return Error(err)
	}
	return cur.withChild(idx, apply(child, rest[1:], full, f))
}

// ApplyAll applies f through each path in turn, left to right, each against
// the output of the previous one. With no paths, f is applied to root.
func ApplyAll(root Value, paths []CellPath, f Transform) Value {
	if len(paths) == 0 {
		return f(root)
	}
	out := root
	for _, p := range paths {
		out = Apply(out, p, f)
	}
	return out
}

// locate resolves a single member against cur and returns the child index
// and the child value.
func locate(cur Value, m PathMember, full CellPath) (int, Value, *errors.AppError) {
	at := m.Span
	if !at.IsKnown() {
		at = cur.span
	}
	switch m.Kind {
	case FieldMember:
		if cur.kind != KindRecord {
			return 0, Value{}, pathError(errors.IncompatiblePathAccess(m.String(), cur.kind.String(), at), full)
		}
		idx := slices.Index(cur.cols, m.Name)
		if idx < 0 {
			return 0, Value{}, pathError(errors.ColumnNotFound(m.Name, at), full)
		}
		return idx, cur.vals[idx], nil
	case IndexMember:
		if cur.kind != KindList {
			return 0, Value{}, pathError(errors.IncompatiblePathAccess(m.String(), cur.kind.String(), at), full)
		}
		if m.Index < 0 || m.Index >= len(cur.vals) {
			return 0, Value{}, pathError(errors.AccessBeyondEnd(m.Index, len(cur.vals), at), full)
		}
		return m.Index, cur.vals[m.Index], nil
	}
	return 0, Value{}, errors.Internal(nil).WithSpan(span.Unknown).WithDetail("member_kind", int(m.Kind))
}

func pathError(err *errors.AppError, full CellPath) *errors.AppError {
	return err.WithDetail("path", full.String())
}
