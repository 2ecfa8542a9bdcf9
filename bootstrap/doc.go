// Package bootstrap runs a rowpipe task with a uniform lifecycle.
//
// NewApp validates the configuration, initializes the logger and, when
// telemetry is enabled, installs a tracer and meter whose output goes to the
// log. RunTask then runs start hooks, the task and stop hooks.
//
// While the task runs, the first SIGINT or SIGTERM sets the app's Interrupt
// so the pipeline finishes the element in flight, flushes and stops. A
// second signal cancels the task context.
//
//	app, err := bootstrap.NewApp(cfg)
//	err = app.RunTask(ctx, func(ctx context.Context) error {
//	    _, err := r.Run(ctx, os.Stdin, os.Stdout, cmds...)
//	    return err
//	})
package bootstrap
