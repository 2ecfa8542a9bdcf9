package pipeline

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var errBoom = errors.New("boom")

func TestSources(t *testing.T) {
	words := []string{"a", "b", "c"}
	tests := []struct {
		name string
		p    *Pipeline[string]
		want []string
	}{
		{"slice", FromSlice(words), words},
		{"empty slice", FromSlice([]string{}), nil},
		{"iterator", From[string](&sliceIter[string]{items: words}), words},
		{"seq", FromSeq(slices.Values(words)), words},
		{"func", FromFunc(func(context.Context) Iterator[string] {
			return &sliceIter[string]{items: words[:1]}
		}), words[:1]},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Collect(context.Background(), tc.p)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

// A pipeline is a recipe: every terminal call builds fresh iterators.
func TestPipeline_Rerun(t *testing.T) {
	p := Map(FromSlice([]int{1, 2}), func(_ context.Context, n int) (int, error) { return n + 1, nil })
	for range 2 {
		got, err := Collect(context.Background(), p)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]int{2, 3}, got); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	}
}

func TestOperators(t *testing.T) {
	ctx := context.Background()
	src := func() *Pipeline[int] { return FromSlice([]int{1, 2, 3, 4}) }
	failAt := func(n int) func(context.Context, int) (int, error) {
		return func(_ context.Context, v int) (int, error) {
			if v == n {
				return 0, errBoom
			}
			return v * 10, nil
		}
	}

	tests := []struct {
		name    string
		p       *Pipeline[int]
		want    []int
		wantErr bool
	}{
		{"map", Map(src(), failAt(0)), []int{10, 20, 30, 40}, false},
		{"map error keeps earlier output", Map(src(), failAt(3)), []int{10, 20}, true},
		{"flat map", FlatMap(src(), func(_ context.Context, n int) (Iterator[int], error) {
			return &sliceIter[int]{items: slices.Repeat([]int{n}, n%3)}, nil
		}), []int{1, 2, 2, 4}, false},
		{"flat map slice", FlatMapSlice(src(), func(_ context.Context, n int) ([]int, error) {
			return []int{n, -n}, nil
		}), []int{1, -1, 2, -2, 3, -3, 4, -4}, false},
		{"flat map error", FlatMapSlice(src(), func(_ context.Context, n int) ([]int, error) {
			if n == 2 {
				return nil, errBoom
			}
			return []int{n}, nil
		}), []int{1}, true},
		{"tap error", Tap(src(), func(_ context.Context, n int) error {
			if n == 4 {
				return errBoom
			}
			return nil
		}), []int{1, 2, 3}, true},
		{"take", Take(src(), 2), []int{1, 2}, false},
		{"take more than available", Take(src(), 9), []int{1, 2, 3, 4}, false},
		{"take zero", Take(src(), 0), nil, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Collect(ctx, tc.p)
			if tc.wantErr != (err != nil) {
				t.Fatalf("err = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr && !errors.Is(err, errBoom) {
				t.Errorf("expected errBoom, got %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestTapAndTake_PullOnDemand(t *testing.T) {
	var seen []int
	counted := Tap(FromSlice([]int{1, 2, 3, 4, 5}), func(_ context.Context, n int) error {
		seen = append(seen, n)
		return nil
	})
	got, err := Collect(context.Background(), Take(counted, 2))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2}, seen); diff != "" {
		t.Errorf("take pulled too far (-want +got):\n%s", diff)
	}
}

func TestMap_ChangesType(t *testing.T) {
	labels := Map(FromSlice([]int{7, 8}), func(_ context.Context, n int) (string, error) {
		return "#" + strconv.Itoa(n), nil
	})
	got, err := Collect(context.Background(), labels)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"#7", "#8"}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestTerminals(t *testing.T) {
	ctx := context.Background()
	words := FromSlice(strings.Fields("split the row"))

	var drained []string
	err := Drain(words, func(_ context.Context, s string) error {
		drained = append(drained, s)
		return nil
	}).Run(ctx)
	if err != nil {
		t.Fatal(err)
	}

	var total int
	if err := ForEach(ctx, words, func(_ context.Context, s string) error {
		total += len(s)
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	var ranged []string
	for s, err := range All(ctx, words) {
		if err != nil {
			t.Fatal(err)
		}
		ranged = append(ranged, s)
	}

	want := []string{"split", "the", "row"}
	if diff := cmp.Diff(want, drained); diff != "" {
		t.Errorf("Drain (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, ranged); diff != "" {
		t.Errorf("All (-want +got):\n%s", diff)
	}
	if total != 11 {
		t.Errorf("ForEach total = %d, want 11", total)
	}
}

func TestForEach_StopsOnError(t *testing.T) {
	var calls int
	err := ForEach(context.Background(), FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) error {
		calls++
		if n == 2 {
			return errBoom
		}
		return nil
	})
	if !errors.Is(err, errBoom) || calls != 2 {
		t.Errorf("err=%v calls=%d, want errBoom after 2 calls", err, calls)
	}
}

func TestAll_YieldsStructuralErrorLast(t *testing.T) {
	var vals []int
	var errs []error
	for n, err := range All(context.Background(), Map(FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) (int, error) {
		if n == 2 {
			return 0, errBoom
		}
		return n, nil
	})) {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		vals = append(vals, n)
	}
	if diff := cmp.Diff([]int{1}, vals); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if len(errs) != 1 || !errors.Is(errs[0], errBoom) {
		t.Errorf("errs = %v", errs)
	}
}

func TestIter_Exhausts(t *testing.T) {
	ctx := context.Background()
	it := FromSlice([]int{4}).Iter(ctx)
	defer it.Close()

	if n, ok, err := it.Next(ctx); n != 4 || !ok || err != nil {
		t.Fatalf("Next = %d, %v, %v", n, ok, err)
	}
	for range 2 {
		if _, ok, err := it.Next(ctx); ok || err != nil {
			t.Errorf("exhausted iterator returned ok=%v err=%v", ok, err)
		}
	}
}

func TestCollect_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int
	p := Map(FromSlice([]int{1, 2, 3}), func(_ context.Context, n int) (int, error) {
		calls++
		return n, nil
	})
	got, err := Collect(ctx, p)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(got) != 0 || calls != 0 {
		t.Errorf("nothing should run after cancellation, got %v with %d calls", got, calls)
	}
}
