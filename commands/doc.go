// Package commands adapts value transforms into pipeline stages.
//
// Each command validates its arguments when Apply is called. Argument
// problems are returned as a structural error and no element is pulled.
// Problems with individual elements never stop the stream: the element is
// replaced by an Error value and the next element is processed.
//
//	cmd := commands.DropNth{Row: value.Int(0, at), Rest: []value.Value{value.Int(2, at)}}
//	out, err := cmd.Apply(pipeline.FromSlice(rows))
//
// Commands are also reachable by name through a Registry, which builds them
// from a Call holding positional argument values. ParsePipeline builds a
// whole chain from one line of text:
//
//	cmds, err := commands.ParsePipeline(commands.Default(), "split row , | into bool", 1)
package commands
