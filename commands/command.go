package commands

import (
	"github.com/kbukum/rowpipe/pipeline"
	"github.com/kbukum/rowpipe/value"
)

// Stream is the element stream every command consumes and produces.
type Stream = pipeline.Pipeline[value.Value]

// Command turns an input stream into an output stream.
type Command interface {
	// Name is the command name as typed by users, e.g. "into bool".
	Name() string
	// Usage is a one-line description.
	Usage() string
	// Apply validates the command's arguments and returns the derived
	// stream. A non-nil error means the stream could not be built.
	Apply(in *Stream) (*Stream, error)
}

// Chain applies cmds to in from left to right. The first structural error
// stops construction and is returned as is.
func Chain(in *Stream, cmds ...Command) (*Stream, error) {
	out := in
	for _, cmd := range cmds {
		next, err := cmd.Apply(out)
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}
