package config

import (
	"github.com/kbukum/rowpipe/validation"
)

// Config is the full rowpipe configuration.
//
//	name: rowpipe
//	logging:
//	  level: warn
//	input:
//	  format: json
//	output:
//	  format: text
//	  color: auto
//	  fail_on_error: true
//	telemetry:
//	  enabled: true
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Input         InputConfig     `yaml:"input" mapstructure:"input"`
	Output        OutputConfig    `yaml:"output" mapstructure:"output"`
	Telemetry     TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// InputConfig selects how stdin is decoded.
type InputConfig struct {
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=yaml json lines"`
	// Unwrap streams the items of a top-level list as separate elements.
	Unwrap bool `yaml:"unwrap" mapstructure:"unwrap"`
}

// OutputConfig selects how results are written.
type OutputConfig struct {
	Format      string `yaml:"format" mapstructure:"format" validate:"oneof=yaml json text"`
	Color       string `yaml:"color" mapstructure:"color" validate:"oneof=auto always never"`
	FailOnError bool   `yaml:"fail_on_error" mapstructure:"fail_on_error"`
	// ChunkSize is the number of elements written between flushes.
	ChunkSize int `yaml:"chunk_size" mapstructure:"chunk_size" validate:"gte=1"`
}

// TelemetryConfig controls tracing and metrics of a run.
type TelemetryConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	if c.Input.Format == "" {
		c.Input.Format = "yaml"
	}
	if c.Output.Format == "" {
		c.Output.Format = "yaml"
	}
	if c.Output.Color == "" {
		c.Output.Color = "auto"
	}
	if c.Output.ChunkSize == 0 {
		c.Output.ChunkSize = 64
	}
	if c.Telemetry.Enabled && c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1
	}
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// Load reads configuration for serviceName, applies defaults and validates
// the result.
func Load(serviceName string, opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
