package pipeline

import (
	"context"
	"slices"
)

// DropPositions removes the elements whose zero-based stream position is
// listed in positions. The caller's slice is copied and sorted; it is never
// modified. Positions past the end of the stream are ignored and duplicates
// drop a single element.
//
// Only the next pending position is consulted per element, so the look-ahead
// cost is constant regardless of how many positions are given.
func DropPositions[T any](p *Pipeline[T], positions []int) *Pipeline[T] {
	sorted := slices.Clone(positions)
	slices.Sort(sorted)
	return derive(p, func(_ context.Context, source Iterator[T]) Iterator[T] {
		return &dropIter[T]{source: source, positions: sorted}
	})
}

type dropIter[T any] struct {
	source    Iterator[T]
	positions []int
	current   int
}

func (it *dropIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return val, false, err
		}
		pos := it.current
		it.current++

		// Discard positions already behind the counter (negatives, duplicates).
		for len(it.positions) > 0 && it.positions[0] < pos {
			it.positions = it.positions[1:]
		}
		if len(it.positions) > 0 && it.positions[0] == pos {
			it.positions = it.positions[1:]
			continue
		}
		return val, true, nil
	}
}

func (it *dropIter[T]) Close() error { return it.source.Close() }
