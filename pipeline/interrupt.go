package pipeline

import (
	"context"
	"sync/atomic"
)

// Interrupt is a cooperative cancellation flag shared by every stage of a
// pipeline. It may be triggered from any goroutine; stages only look at it
// between elements, never in the middle of producing one.
//
// A nil *Interrupt is valid and never triggers.
type Interrupt struct {
	flag atomic.Bool
}

// NewInterrupt returns an untriggered flag.
func NewInterrupt() *Interrupt {
	return &Interrupt{}
}

// Trigger sets the flag. Stages that observe it stop without emitting
// further elements.
func (i *Interrupt) Trigger() {
	if i != nil {
		i.flag.Store(true)
	}
}

// Triggered reports whether the flag is set.
func (i *Interrupt) Triggered() bool {
	return i != nil && i.flag.Load()
}

// Reset clears the flag for reuse by a new pipeline run. Stages that have
// already stopped stay stopped.
func (i *Interrupt) Reset() {
	if i != nil {
		i.flag.Store(false)
	}
}

// guardIter checks the interrupt flag and the context before every pull.
// Once the flag is seen, it latches and never pulls from inner again.
type guardIter[T any] struct {
	inner     Iterator[T]
	interrupt *Interrupt
	stopped   bool
}

func guard[T any](inner Iterator[T], interrupt *Interrupt) Iterator[T] {
	return &guardIter[T]{inner: inner, interrupt: interrupt}
}

func (it *guardIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	if it.stopped {
		return result, false, nil
	}
	if it.interrupt.Triggered() {
		it.stopped = true
		return result, false, nil
	}
	if err := ctx.Err(); err != nil {
		return result, false, err
	}
	return it.inner.Next(ctx)
}

func (it *guardIter[T]) Close() error { return it.inner.Close() }
