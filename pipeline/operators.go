package pipeline

import (
	"context"
)

// Map transforms each value using fn. A non-nil error from fn ends the
// stream with that error.
func Map[I, O any](p *Pipeline[I], fn func(context.Context, I) (O, error)) *Pipeline[O] {
	return derive(p, func(_ context.Context, source Iterator[I]) Iterator[O] {
		return &mapIter[I, O]{source: source, fn: fn}
	})
}

// FlatMap transforms each value into an iterator and flattens the results.
// The interrupt flag is checked before every flattened element, so a
// partially drained expansion stops as soon as the flag is set.
func FlatMap[I, O any](p *Pipeline[I], fn func(context.Context, I) (Iterator[O], error)) *Pipeline[O] {
	return derive(p, func(_ context.Context, source Iterator[I]) Iterator[O] {
		return &flatMapIter[I, O]{source: source, fn: fn}
	})
}

// FlatMapSlice is FlatMap for expansions that are computed eagerly.
func FlatMapSlice[I, O any](p *Pipeline[I], fn func(context.Context, I) ([]O, error)) *Pipeline[O] {
	return FlatMap(p, func(ctx context.Context, in I) (Iterator[O], error) {
		out, err := fn(ctx, in)
		if err != nil {
			return nil, err
		}
		return &sliceIter[O]{items: out}, nil
	})
}

// Tap calls fn for each value and passes the value on unchanged. The
// runner counts elements with it.
func Tap[T any](p *Pipeline[T], fn func(context.Context, T) error) *Pipeline[T] {
	return derive(p, func(_ context.Context, source Iterator[T]) Iterator[T] {
		return &tapIter[T]{source: source, fn: fn}
	})
}

// Take yields at most n values and then stops pulling upstream.
func Take[T any](p *Pipeline[T], n int) *Pipeline[T] {
	return derive(p, func(_ context.Context, source Iterator[T]) Iterator[T] {
		return &takeIter[T]{source: source, remaining: n}
	})
}

type mapIter[I, O any] struct {
	source Iterator[I]
	fn     func(context.Context, I) (O, error)
}

func (it *mapIter[I, O]) Next(ctx context.Context) (result O, ok bool, err error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		var zero O
		return zero, false, err
	}
	out, err := it.fn(ctx, val)
	if err != nil {
		var zero O
		return zero, false, err
	}
	return out, true, nil
}

func (it *mapIter[I, O]) Close() error { return it.source.Close() }

type flatMapIter[I, O any] struct {
	source  Iterator[I]
	fn      func(context.Context, I) (Iterator[O], error)
	current Iterator[O]
}

func (it *flatMapIter[I, O]) Next(ctx context.Context) (result O, ok bool, err error) {
	for {
		if it.current != nil {
			val, ok, err := it.current.Next(ctx)
			if err != nil {
				var zero O
				return zero, false, err
			}
			if ok {
				return val, true, nil
			}
			_ = it.current.Close()
			it.current = nil
		}
		in, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			var zero O
			return zero, false, err
		}
		inner, err := it.fn(ctx, in)
		if err != nil {
			var zero O
			return zero, false, err
		}
		it.current = inner
	}
}

func (it *flatMapIter[I, O]) Close() error {
	if it.current != nil {
		_ = it.current.Close()
	}
	return it.source.Close()
}

type tapIter[T any] struct {
	source Iterator[T]
	fn     func(context.Context, T) error
}

func (it *tapIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return val, ok, err
	}
	if err := it.fn(ctx, val); err != nil {
		var zero T
		return zero, false, err
	}
	return val, true, nil
}

func (it *tapIter[T]) Close() error { return it.source.Close() }

type takeIter[T any] struct {
	source    Iterator[T]
	remaining int
}

func (it *takeIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	if it.remaining <= 0 {
		return result, false, nil
	}
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return val, false, err
	}
	it.remaining--
	return val, true, nil
}

func (it *takeIter[T]) Close() error { return it.source.Close() }
