package pipeline

import (
	"context"
	"errors"
	"slices"
	"testing"
)

func TestInterrupt_NilSafe(t *testing.T) {
	var i *Interrupt
	i.Trigger()
	i.Reset()
	if i.Triggered() {
		t.Error("nil interrupt should never be triggered")
	}
}

func TestInterrupt_TriggerReset(t *testing.T) {
	i := NewInterrupt()
	if i.Triggered() {
		t.Fatal("new interrupt should not be triggered")
	}
	i.Trigger()
	if !i.Triggered() {
		t.Fatal("expected triggered after Trigger")
	}
	i.Reset()
	if i.Triggered() {
		t.Error("expected cleared after Reset")
	}
}

func TestInterrupt_BeforeStart(t *testing.T) {
	intr := NewInterrupt()
	intr.Trigger()
	var calls int
	p := Map(FromSlice([]int{1, 2, 3}, WithInterrupt(intr)), func(_ context.Context, n int) (int, error) {
		calls++
		return n, nil
	})
	got, err := Collect(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 || calls != 0 {
		t.Errorf("expected nothing produced, got %v with %d calls", got, calls)
	}
}

func TestInterrupt_Map(t *testing.T) {
	intr := NewInterrupt()
	p := Map(FromSlice([]int{1, 2, 3, 4, 5}, WithInterrupt(intr)), func(_ context.Context, n int) (int, error) {
		if n == 2 {
			intr.Trigger()
		}
		return n * 10, nil
	})
	got, err := Collect(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	// The element being produced when the flag is set still completes.
	if !slices.Equal(got, []int{10, 20}) {
		t.Errorf("got %v, want [10 20]", got)
	}
}

func TestInterrupt_FlatMapBuffered(t *testing.T) {
	intr := NewInterrupt()
	src := FromSlice([]int{1, 2}, WithInterrupt(intr))
	expanded := FlatMapSlice(src, func(_ context.Context, n int) ([]int, error) {
		return []int{n, n, n}, nil
	})

	ctx := context.Background()
	it := expanded.Iter(ctx)
	defer it.Close()

	v, ok, err := it.Next(ctx)
	if err != nil || !ok || v != 1 {
		t.Fatalf("first Next: val=%d ok=%v err=%v", v, ok, err)
	}
	intr.Trigger()
	_, ok, err = it.Next(ctx)
	if err != nil || ok {
		t.Errorf("buffered elements must not be emitted after interrupt: ok=%v err=%v", ok, err)
	}
}

func TestInterrupt_Drop(t *testing.T) {
	intr := NewInterrupt()
	src := FromSlice([]int{0, 1, 2, 3, 4, 5}, WithInterrupt(intr))
	p := DropPositions(src, []int{1})

	ctx := context.Background()
	it := p.Iter(ctx)
	defer it.Close()

	for _, want := range []int{0, 2} {
		v, ok, err := it.Next(ctx)
		if err != nil || !ok || v != want {
			t.Fatalf("Next: val=%d ok=%v err=%v, want %d", v, ok, err, want)
		}
	}
	intr.Trigger()
	if _, ok, _ := it.Next(ctx); ok {
		t.Error("expected stream to end after interrupt")
	}
}

func TestInterrupt_Latches(t *testing.T) {
	intr := NewInterrupt()
	ctx := context.Background()
	it := FromSlice([]int{1, 2, 3}, WithInterrupt(intr)).Iter(ctx)
	defer it.Close()

	intr.Trigger()
	if _, ok, _ := it.Next(ctx); ok {
		t.Fatal("expected end after interrupt")
	}
	intr.Reset()
	if _, ok, _ := it.Next(ctx); ok {
		t.Error("a stopped stage should stay stopped after Reset")
	}
}

func TestInterrupt_InheritedByStages(t *testing.T) {
	intr := NewInterrupt()
	src := FromSlice([]int{1}, WithInterrupt(intr))
	p := Take(Tap(Map(src, func(_ context.Context, n int) (int, error) { return n, nil }), func(context.Context, int) error { return nil }), 5)
	if p.Interrupt() != intr {
		t.Error("derived stages should share the source interrupt")
	}
	if FromSlice([]int{1}).Interrupt() != nil {
		t.Error("pipelines without WithInterrupt should have no flag")
	}
}

func TestInterrupt_ContextStillReported(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Collect(ctx, FromSlice([]int{1}, WithInterrupt(NewInterrupt())))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
