package bootstrap

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/rowpipe/config"
	"github.com/kbukum/rowpipe/logger"
	"github.com/kbukum/rowpipe/observability"
	"github.com/kbukum/rowpipe/pipeline"
)

// App holds what a rowpipe task needs around it.
type App struct {
	Name      string
	Version   string
	Cfg       *config.Config
	Logger    *logger.Logger
	Interrupt *pipeline.Interrupt
	// Metrics is nil unless telemetry is enabled.
	Metrics *observability.PipelineMetrics

	gracefulTimeout time.Duration
	signals         chan os.Signal

	onStart []Hook
	onStop  []Hook
}

// NewApp creates an application from cfg. It applies defaults, validates
// the config and initializes logging and telemetry.
func NewApp(cfg *config.Config, opts ...Option) (*App, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{
		Name:            cfg.Name,
		Version:         cfg.Version,
		Cfg:             cfg,
		Interrupt:       pipeline.NewInterrupt(),
		gracefulTimeout: 5 * time.Second,
	}

	o := resolveOptions(opts)
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	app.signals = o.signals

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		logger.Init(cfg.Logging)
		app.Logger = logger.GetGlobalLogger()
	}

	if cfg.Telemetry.Enabled {
		if err := app.initTelemetry(); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// initTelemetry installs tracing and metrics that report to the log when
// the app stops.
func (a *App) initTelemetry() error {
	log := a.Logger.WithComponent("telemetry")

	tcfg := observability.DefaultTracerConfig(a.Name)
	tcfg.ServiceVersion = a.Version
	tcfg.Environment = a.Cfg.Environment
	tcfg.SampleRate = a.Cfg.Telemetry.SampleRate
	tp, err := observability.InitTracer(tcfg, observability.NewLogSpanExporter(log))
	if err != nil {
		return err
	}

	mcfg := observability.DefaultMeterConfig(a.Name)
	mcfg.ServiceVersion = a.Version
	mcfg.Environment = a.Cfg.Environment
	reader := sdkmetric.NewManualReader()
	mp, err := observability.InitMeter(mcfg, reader)
	if err != nil {
		return err
	}

	a.Metrics, err = observability.NewPipelineMetrics(observability.Meter(a.Name))
	if err != nil {
		return err
	}

	a.OnStop(
		func(ctx context.Context) error { return observability.LogTotals(ctx, log, reader) },
		func(ctx context.Context) error { return mp.Shutdown(ctx) },
		func(ctx context.Context) error { return tp.Shutdown(ctx) },
	)
	return nil
}

// RunTask runs start hooks, then task, then stop hooks. The task's error
// wins over a stop hook error.
func (a *App) RunTask(ctx context.Context, task func(ctx context.Context) error) error {
	if err := runHooks(ctx, a.onStart); err != nil {
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := a.signals
	if sigCh == nil {
		sigCh = make(chan os.Signal, 2)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
	}
	go a.watchSignals(taskCtx, sigCh, cancel)

	taskErr := task(taskCtx)
	cancel()

	if stopErr := a.stop(); stopErr != nil && taskErr == nil {
		return stopErr
	}
	return taskErr
}

// watchSignals interrupts the pipeline on the first signal and cancels the
// task on the second.
func (a *App) watchSignals(ctx context.Context, sigCh <-chan os.Signal, cancel context.CancelFunc) {
	for {
		select {
		case sig := <-sigCh:
			if !a.Interrupt.Triggered() {
				a.Logger.Warn("received signal, stopping after the current element", logger.Fields("signal", sig.String()))
				a.Interrupt.Trigger()
				continue
			}
			a.Logger.Warn("received second signal, canceling", logger.Fields("signal", sig.String()))
			cancel()
			return
		case <-ctx.Done():
			return
		}
	}
}

// stop runs the stop hooks within the graceful timeout. Every hook runs;
// the first error is returned.
func (a *App) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var firstErr error
	for _, h := range a.onStop {
		if err := h(ctx); err != nil {
			a.Logger.Error("stop hook failed", logger.ErrorFields("stop", err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
