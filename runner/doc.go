// Package runner executes a chain of commands over a decoded input stream
// and writes the results.
//
// A run decodes the input lazily, applies each command in order, and writes
// results in chunks, flushing after each chunk. Every stage is counted, so a
// finished run reports how many elements entered and left each command.
//
//	r, err := runner.New(runner.Options{InputFormat: codec.FormatYAML, OutputFormat: codec.FormatJSON},
//	    runner.WithLogger(log), runner.WithInterrupt(interrupt))
//	res, err := r.Run(ctx, os.Stdin, os.Stdout, cmds...)
package runner
