package runner

import (
	"github.com/kbukum/rowpipe/codec"
	"github.com/kbukum/rowpipe/config"
	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/logger"
	"github.com/kbukum/rowpipe/observability"
	"github.com/kbukum/rowpipe/pipeline"
	"github.com/kbukum/rowpipe/validation"
)

const defaultChunkSize = 64

// Options controls a run.
type Options struct {
	ServiceName  string       `json:"service_name"`
	InputFormat  codec.Format `json:"input_format" validate:"oneof=yaml json lines"`
	OutputFormat codec.Format `json:"output_format" validate:"oneof=yaml json text"`
	Unwrap       bool         `json:"unwrap"`
	Color        bool         `json:"color"`
	// FailOnError stops the run at the first Error element. The element is
	// still written.
	FailOnError bool `json:"fail_on_error"`
	ChunkSize   int  `json:"chunk_size" validate:"gte=1"`
	// Limit caps the number of elements written. Zero means no limit.
	Limit int `json:"limit" validate:"gte=0"`
	// RunID overrides the generated run ID. It must be a UUID.
	RunID string `json:"run_id"`
}

// ApplyDefaults fills unset fields.
func (o *Options) ApplyDefaults() {
	if o.ServiceName == "" {
		o.ServiceName = "rowpipe"
	}
	if o.InputFormat == "" {
		o.InputFormat = codec.FormatYAML
	}
	if o.OutputFormat == "" {
		o.OutputFormat = codec.FormatYAML
	}
	if o.ChunkSize == 0 {
		o.ChunkSize = defaultChunkSize
	}
}

// Validate checks the options.
func (o *Options) Validate() error {
	if err := validation.Validate(o); err != nil {
		return err
	}
	if err := validation.New().OptionalUUID("run_id", o.RunID).Validate(); err != nil {
		return err
	}
	return nil
}

// OptionsFromConfig maps the loaded configuration onto run options. color
// is the already resolved color decision for the output writer.
func OptionsFromConfig(cfg *config.Config, color bool) Options {
	return Options{
		ServiceName:  cfg.Name,
		InputFormat:  codec.Format(cfg.Input.Format),
		OutputFormat: codec.Format(cfg.Output.Format),
		Unwrap:       cfg.Input.Unwrap,
		Color:        color,
		FailOnError:  cfg.Output.FailOnError,
		ChunkSize:    cfg.Output.ChunkSize,
	}
}

// Option configures a Runner's collaborators.
type Option func(*Runner)

// WithLogger sets the run logger. The default discards everything.
func WithLogger(l *logger.Logger) Option {
	return func(r *Runner) { r.log = l }
}

// WithMetrics records element counts into m.
func WithMetrics(m *observability.PipelineMetrics) Option {
	return func(r *Runner) { r.metrics = m }
}

// WithInterrupt attaches the flag that stops a run between elements.
func WithInterrupt(i *pipeline.Interrupt) Option {
	return func(r *Runner) { r.interrupt = i }
}

// New validates opts and returns a Runner.
func New(opts Options, options ...Option) (*Runner, error) {
	opts.ApplyDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r := &Runner{opts: opts, log: logger.Nop()}
	for _, o := range options {
		o(r)
	}
	if r.log == nil {
		return nil, errors.MissingArgument("logger")
	}
	return r, nil
}
