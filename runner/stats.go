package runner

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/rowpipe/commands"
	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/observability"
	"github.com/kbukum/rowpipe/pipeline"
	"github.com/kbukum/rowpipe/value"
)

// StageStats counts the elements that passed one command.
type StageStats struct {
	Command string
	In      int64
	Out     int64
	Errors  int64
}

// Dropped is the number of input elements that produced no output.
func (s StageStats) Dropped() int64 {
	if s.In > s.Out {
		return s.In - s.Out
	}
	return 0
}

// build applies cmds to src, counting each element entering and leaving a
// command. The first structural error stops construction.
func (r *Runner) build(ctx context.Context, src *commands.Stream, cmds []commands.Command) (*commands.Stream, []*StageStats, error) {
	stream := src
	stages := make([]*StageStats, 0, len(cmds))
	for _, cmd := range cmds {
		st := &StageStats{Command: cmd.Name()}

		spanCtx, span := observability.StartSpan(ctx, observability.SpanCommand,
			trace.WithAttributes(attribute.String(observability.AttrCommand, st.Command)))
		next, err := cmd.Apply(pipeline.Tap(stream, r.countIn(st)))
		if err != nil {
			observability.SetSpanError(spanCtx, err)
			span.End()
			return nil, nil, err
		}
		span.End()

		stream = pipeline.Tap(next, r.countOut(st))
		stages = append(stages, st)
	}
	return stream, stages, nil
}

func (r *Runner) countIn(st *StageStats) func(context.Context, value.Value) error {
	return func(ctx context.Context, _ value.Value) error {
		st.In++
		if r.metrics != nil {
			r.metrics.RecordIn(ctx, st.Command)
		}
		return nil
	}
}

func (r *Runner) countOut(st *StageStats) func(context.Context, value.Value) error {
	return func(ctx context.Context, v value.Value) error {
		st.Out++
		if v.IsError() {
			st.Errors++
		}
		if r.metrics == nil {
			return nil
		}
		r.metrics.RecordOut(ctx, st.Command)
		if v.IsError() {
			r.metrics.RecordError(ctx, st.Command, errorCode(v))
		}
		return nil
	}
}

func errorCode(v value.Value) errors.ErrorCode {
	if appErr, ok := v.AsError(); ok && appErr != nil {
		return appErr.Code
	}
	return errors.ErrCodeInternal
}
