package runner

import (
	"context"
	stderrors "errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/rowpipe/codec"
	"github.com/kbukum/rowpipe/commands"
	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/logger"
	"github.com/kbukum/rowpipe/observability"
	"github.com/kbukum/rowpipe/pipeline"
	"github.com/kbukum/rowpipe/value"
)

// Run status values.
const (
	StatusOK          = "ok"
	StatusFailed      = "failed"
	StatusInterrupted = "interrupted"
	StatusCanceled    = "canceled"
)

// Runner executes command chains with fixed options.
type Runner struct {
	opts      Options
	log       *logger.Logger
	metrics   *observability.PipelineMetrics
	interrupt *pipeline.Interrupt
}

// Result summarizes a finished run.
type Result struct {
	RunID       string
	Status      string
	Elements    int
	Errors      int
	Interrupted bool
	Duration    time.Duration
	Stages      []StageStats
}

// Run decodes in, applies cmds and writes the results to out.
//
// A structural error (bad arguments, malformed input, a failed write) is
// returned and ends the run; whatever was written before it stays flushed.
// Error elements are written like any other element unless FailOnError is
// set, in which case the first one is written and then returned.
func (r *Runner) Run(ctx context.Context, in io.Reader, out io.Writer, cmds ...commands.Command) (*Result, error) {
	runID := r.opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name()
	}

	ctx = logger.ContextWithRunID(ctx, runID)
	rc := observability.NewRunContext(r.opts.ServiceName, runID, names, r.metrics)
	ctx, span := rc.StartRun(ctx)
	log := r.log.WithContext(ctx)

	log.Debug("run started", logger.Fields(
		logger.FieldCommand, strings.Join(names, " | "),
		"input", string(r.opts.InputFormat),
		"output", string(r.opts.OutputFormat),
	))

	res := &Result{RunID: runID}
	stages, err := r.run(ctx, in, out, cmds, res, log)
	for _, st := range stages {
		res.Stages = append(res.Stages, *st)
		if r.metrics != nil {
			r.metrics.RecordDropped(ctx, st.Command, st.Dropped())
		}
	}
	res.Interrupted = r.interrupt.Triggered()
	res.Duration = rc.Duration()
	res.Status = status(res, err)

	rc.EndRun(ctx, span, res.Status, int64(res.Elements), err)
	r.logFinish(log, res, err)
	return res, err
}

func (r *Runner) run(ctx context.Context, in io.Reader, out io.Writer, cmds []commands.Command, res *Result, log *logger.Logger) ([]*StageStats, error) {
	dec, err := codec.NewDecoder(in, r.opts.InputFormat, codec.WithUnwrap(r.opts.Unwrap))
	if err != nil {
		return nil, err
	}
	enc, err := codec.NewEncoder(out, r.opts.OutputFormat, codec.WithColor(r.opts.Color))
	if err != nil {
		dec.Close()
		return nil, err
	}

	source := pipeline.From[value.Value](dec, pipeline.WithInterrupt(r.interrupt))
	stream, stages, err := r.build(ctx, source, cmds)
	if err != nil {
		dec.Close()
		_ = enc.Close()
		return nil, err
	}
	if r.opts.Limit > 0 {
		stream = pipeline.Take(stream, r.opts.Limit)
	}

	sink := func(_ context.Context, chunk []value.Value) error {
		for _, v := range chunk {
			if err := enc.Encode(v); err != nil {
				return err
			}
			res.Elements++
			if !v.IsError() {
				continue
			}
			res.Errors++
			appErr := elementError(v)
			log.Debug("error element", logger.Fields(
				logger.FieldCode, string(appErr.Code),
				logger.FieldPosition, res.Elements-1,
				"span", appErr.Span.String(),
				"message", appErr.Message,
			))
			if r.opts.FailOnError {
				return appErr
			}
		}
		return enc.Flush()
	}

	runErr := pipeline.Drain(pipeline.Chunk(stream, r.opts.ChunkSize), sink).Run(ctx)
	if closeErr := enc.Close(); runErr == nil {
		runErr = closeErr
	}
	return stages, runErr
}

func elementError(v value.Value) *errors.AppError {
	if appErr, ok := v.AsError(); ok && appErr != nil {
		return appErr
	}
	return errors.Internal(nil).WithSpan(v.Span())
}

func status(res *Result, err error) string {
	switch {
	case err == nil && res.Interrupted:
		return StatusInterrupted
	case err == nil:
		return StatusOK
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		return StatusCanceled
	default:
		return StatusFailed
	}
}

func (r *Runner) logFinish(log *logger.Logger, res *Result, err error) {
	for _, st := range res.Stages {
		log.Debug("stage finished", logger.Fields(
			logger.FieldCommand, st.Command,
			"in", st.In,
			"out", st.Out,
			logger.FieldErrors, st.Errors,
			logger.FieldDropped, st.Dropped(),
		))
	}

	fields := logger.Fields(
		"status", res.Status,
		logger.FieldElements, res.Elements,
		logger.FieldErrors, res.Errors,
		logger.FieldDuration, res.Duration.Milliseconds(),
	)
	switch {
	case err != nil:
		if appErr, ok := errors.AsAppError(err); ok {
			fields[logger.FieldCode] = string(appErr.Code)
		}
		log.WithError(err).Warn("run failed", fields)
	case res.Interrupted:
		log.Warn("run interrupted", fields)
	default:
		log.Info("run finished", fields)
	}
}
