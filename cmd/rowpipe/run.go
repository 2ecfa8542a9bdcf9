package main

import (
	"context"

	"github.com/kbukum/rowpipe/bootstrap"
	"github.com/kbukum/rowpipe/codec"
	"github.com/kbukum/rowpipe/commands"
	"github.com/kbukum/rowpipe/config"
	"github.com/kbukum/rowpipe/logger"
	"github.com/kbukum/rowpipe/runner"
)

// loadConfig loads the configuration and applies the global flags on top.
func (c *Context) loadConfig() (*config.Config, error) {
	var opts []config.LoaderOption
	if c.Config != "" {
		opts = append(opts, config.WithConfigFile(c.Config))
	}
	cfg, err := config.Load("rowpipe", opts...)
	if err != nil {
		return nil, err
	}

	if c.InputFormat != "" {
		cfg.Input.Format = c.InputFormat
	}
	if c.OutputFormat != "" {
		cfg.Output.Format = c.OutputFormat
	}
	if c.Unwrap {
		cfg.Input.Unwrap = true
	}
	if c.Color != "" {
		cfg.Output.Color = c.Color
	}
	if c.ChunkSize > 0 {
		cfg.Output.ChunkSize = c.ChunkSize
	}
	if c.FailOnError {
		cfg.Output.FailOnError = true
	}
	if c.LogLevel != "" {
		cfg.Logging.Level = c.LogLevel
	}
	if c.Telemetry {
		cfg.Telemetry.Enabled = true
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runPipeline streams stdin through cmds to stdout.
func (c *Context) runPipeline(cmds ...commands.Command) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	log := logger.NewWithWriter(&cfg.Logging, cfg.Name, c.Stderr)
	logger.SetGlobalLogger(log)

	app, err := bootstrap.NewApp(cfg, bootstrap.WithLogger(log))
	if err != nil {
		return err
	}

	opts := runner.OptionsFromConfig(cfg, codec.ShouldColor(c.Stdout, codec.ColorMode(cfg.Output.Color)))
	opts.Limit = c.Limit
	opts.RunID = c.RunID

	r, err := runner.New(opts,
		runner.WithLogger(app.Logger.WithComponent("runner")),
		runner.WithMetrics(app.Metrics),
		runner.WithInterrupt(app.Interrupt),
	)
	if err != nil {
		return err
	}

	var res *runner.Result
	err = app.RunTask(c.Ctx, func(ctx context.Context) error {
		var runErr error
		res, runErr = r.Run(ctx, c.Stdin, c.Stdout, cmds...)
		return runErr
	})
	if err != nil {
		return err
	}
	if res != nil && res.Interrupted {
		return errInterrupted
	}
	return nil
}
