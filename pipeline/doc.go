// Package pipeline provides composable, pull-based data pipeline operators.
//
// Pipelines are lazy: no work happens until values are pulled via Collect,
// Drain, ForEach or All. Each stage pulls from the previous stage on demand,
// one element at a time, on the caller's goroutine.
//
// # Operators
//
//   - Map: transform each value
//   - FlatMap / FlatMapSlice: transform each value into zero or more values
//   - DropPositions: remove values by zero-based stream position
//   - Tap: side-effect without altering the value (logging, metrics)
//   - Take: stop after n values
//   - Chunk: group values into fixed-size slices
//
// # Interruption
//
// A source built with WithInterrupt shares its *Interrupt with every stage
// derived from it. Each stage checks the flag before producing an element;
// once set, the stage ends the stream without error and never pulls
// upstream again. Context cancellation is checked at the same point and is
// reported as ctx.Err().
//
// # Usage
//
//	intr := pipeline.NewInterrupt()
//	src := pipeline.FromSlice([]int{0, 1, 2, 3, 4, 5}, pipeline.WithInterrupt(intr))
//	kept := pipeline.DropPositions(src, []int{0, 2, 4})
//	doubled := pipeline.Map(kept, func(_ context.Context, n int) (int, error) {
//	    return n * 2, nil
//	})
//	results, _ := pipeline.Collect(ctx, doubled) // [2 6 10]
package pipeline
