package pipeline

import (
	"context"
	"iter"
)

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	// A non-nil error means the stream itself cannot continue.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Pipeline represents a lazy, pull-based data pipeline.
// No work happens until values are pulled via Collect, Drain, ForEach or All.
type Pipeline[T any] struct {
	create    func(ctx context.Context) Iterator[T]
	interrupt *Interrupt
}

// Runnable is a fully-configured pipeline ready to execute.
type Runnable struct {
	run func(ctx context.Context) error
}

// Run executes the pipeline until completion, interruption or context
// cancellation.
func (r *Runnable) Run(ctx context.Context) error {
	return r.run(ctx)
}

// Option configures a pipeline source.
type Option func(*options)

type options struct {
	interrupt *Interrupt
}

// WithInterrupt attaches a shared cancellation flag to the source. Every
// stage derived from the source checks it before producing an element.
func WithInterrupt(i *Interrupt) Option {
	return func(o *options) { o.interrupt = i }
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// --- Constructors ---

// From creates a pipeline from an existing Iterator.
func From[T any](it Iterator[T], opts ...Option) *Pipeline[T] {
	o := applyOptions(opts)
	return &Pipeline[T]{
		interrupt: o.interrupt,
		create: func(_ context.Context) Iterator[T] {
			return guard(it, o.interrupt)
		},
	}
}

// FromSlice creates a pipeline from a slice of values.
func FromSlice[T any](items []T, opts ...Option) *Pipeline[T] {
	o := applyOptions(opts)
	return &Pipeline[T]{
		interrupt: o.interrupt,
		create: func(_ context.Context) Iterator[T] {
			return guard[T](&sliceIter[T]{items: items}, o.interrupt)
		},
	}
}

// FromFunc creates a pipeline from a factory that produces an Iterator.
func FromFunc[T any](fn func(ctx context.Context) Iterator[T], opts ...Option) *Pipeline[T] {
	o := applyOptions(opts)
	return &Pipeline[T]{
		interrupt: o.interrupt,
		create: func(ctx context.Context) Iterator[T] {
			return guard(fn(ctx), o.interrupt)
		},
	}
}

// FromSeq creates a pipeline from an iter.Seq. The sequence is pulled one
// element at a time and stopped when the pipeline is closed.
func FromSeq[T any](seq iter.Seq[T], opts ...Option) *Pipeline[T] {
	o := applyOptions(opts)
	return &Pipeline[T]{
		interrupt: o.interrupt,
		create: func(_ context.Context) Iterator[T] {
			next, stop := iter.Pull(seq)
			return guard[T](&seqIter[T]{next: next, stop: stop}, o.interrupt)
		},
	}
}

// derive builds a stage on top of p that inherits its interrupt flag.
func derive[I, O any](p *Pipeline[I], build func(ctx context.Context, source Iterator[I]) Iterator[O]) *Pipeline[O] {
	return &Pipeline[O]{
		interrupt: p.interrupt,
		create: func(ctx context.Context) Iterator[O] {
			return guard(build(ctx, p.create(ctx)), p.interrupt)
		},
	}
}

// Interrupt returns the cancellation flag shared by the pipeline's stages,
// or nil if none was attached.
func (p *Pipeline[T]) Interrupt() *Interrupt {
	return p.interrupt
}

// --- Terminals ---

// Drain creates a Runnable that pulls all values and sends each to sink.
func Drain[T any](p *Pipeline[T], sink func(context.Context, T) error) *Runnable {
	return &Runnable{
		run: func(ctx context.Context) error {
			it := p.create(ctx)
			defer it.Close()
			for {
				val, ok, err := it.Next(ctx)
				if err != nil {
					return err
				}
				if !ok {
					return nil
				}
				if err := sink(ctx, val); err != nil {
					return err
				}
			}
		},
	}
}

// Collect runs the pipeline and returns all values as a slice.
func Collect[T any](ctx context.Context, p *Pipeline[T]) ([]T, error) {
	it := p.create(ctx)
	defer it.Close()
	var result []T
	for {
		val, ok, err := it.Next(ctx)
		if err != nil {
			return result, err
		}
		if !ok {
			return result, nil
		}
		result = append(result, val)
	}
}

// ForEach pulls all values and calls fn for each. Convenience wrapper around Drain.
func ForEach[T any](ctx context.Context, p *Pipeline[T], fn func(context.Context, T) error) error {
	return Drain(p, fn).Run(ctx)
}

// All returns the pipeline as a range-over-func sequence. A structural error
// is yielded once, with the zero value, as the final pair.
func All[T any](ctx context.Context, p *Pipeline[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		it := p.create(ctx)
		defer it.Close()
		for {
			val, ok, err := it.Next(ctx)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			if !ok || !yield(val, nil) {
				return
			}
		}
	}
}

// Iter returns the raw Iterator for this pipeline. The caller must Close() it.
func (p *Pipeline[T]) Iter(ctx context.Context) Iterator[T] {
	return p.create(ctx)
}

// --- Internal iterators ---

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next(_ context.Context) (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }

type seqIter[T any] struct {
	next func() (T, bool)
	stop func()
}

func (it *seqIter[T]) Next(_ context.Context) (T, bool, error) {
	val, ok := it.next()
	return val, ok, nil
}

func (it *seqIter[T]) Close() error {
	it.stop()
	return nil
}
