package main

import (
	"github.com/kbukum/rowpipe/codec"
	"github.com/kbukum/rowpipe/commands"
	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/span"
	"github.com/kbukum/rowpipe/value"
	"github.com/kbukum/rowpipe/version"
)

// PipeCmd runs a whole pipeline given as one argument.
type PipeCmd struct {
	Pipeline string `arg:"" help:"Commands separated by '|'"`
}

// Run executes the pipe command
func (cmd *PipeCmd) Run(ctx *Context) error {
	cmds, err := commands.ParsePipeline(commands.Default(), cmd.Pipeline, 1)
	if err != nil {
		return err
	}
	return ctx.runPipeline(cmds...)
}

// IntoBoolCmd represents the into bool command
type IntoBoolCmd struct {
	Paths []string `arg:"" optional:"" help:"Cell paths to convert; the whole element when omitted"`
}

// Run executes the into bool command
func (cmd *IntoBoolCmd) Run(ctx *Context) error {
	return ctx.runSingle("into bool", cmd.Paths...)
}

// SplitRowCmd represents the split row command
type SplitRowCmd struct {
	Separator string `arg:"" help:"Separator; \\n, \\t and \\r are expanded"`
}

// Run executes the split row command
func (cmd *SplitRowCmd) Run(ctx *Context) error {
	return ctx.runSingle("split row", cmd.Separator)
}

// DropNthCmd represents the drop nth command
type DropNthCmd struct {
	Rows []string `arg:"" help:"Row numbers, or a single range like 1..3 or 1..<3"`
}

// Run executes the drop nth command
func (cmd *DropNthCmd) Run(ctx *Context) error {
	return ctx.runSingle("drop nth", cmd.Rows...)
}

func (c *Context) runSingle(name string, args ...string) error {
	cmd, err := commands.Default().Create(name, commands.NewCall(name, span.New(1, 1), args...))
	if err != nil {
		return err
	}
	return c.runPipeline(cmd)
}

// CommandsCmd describes registered commands with their examples.
type CommandsCmd struct {
	Name string `arg:"" optional:"" help:"Only describe this command, e.g. \"drop nth\""`
}

// Run executes the commands command
func (cmd *CommandsCmd) Run(ctx *Context) error {
	reg := commands.Default()
	names := reg.List()
	if cmd.Name != "" {
		if _, ok := reg.Lookup(cmd.Name); !ok {
			return errors.InvalidInput("name", "unknown command \""+cmd.Name+"\"").WithDetail("available", names)
		}
		names = []string{cmd.Name}
	}

	out := make([]value.Value, 0, len(names))
	for _, name := range names {
		e, _ := reg.Lookup(name)
		out = append(out, entryRecord(e))
	}
	return ctx.write(out...)
}

func entryRecord(e commands.Entry) value.Value {
	u := span.Unknown
	examples := make([]value.Value, len(e.Examples))
	for i, ex := range e.Examples {
		examples[i] = value.Record(u,
			value.Field{Name: "description", Value: value.String(ex.Description, u)},
			value.Field{Name: "example", Value: value.String(ex.Example, u)},
		)
	}
	return value.Record(u,
		value.Field{Name: "name", Value: value.String(e.Name, u)},
		value.Field{Name: "category", Value: value.String(e.Category, u)},
		value.Field{Name: "usage", Value: value.String(e.Usage, u)},
		value.Field{Name: "examples", Value: value.List(examples, u)},
	)
}

// VersionCmd represents the version command
type VersionCmd struct{}

// Run executes the version command
func (cmd *VersionCmd) Run(ctx *Context) error {
	return ctx.write(version.Get().Record(commands.Default().List()))
}

// write encodes vals to stdout in the selected output format.
func (c *Context) write(vals ...value.Value) error {
	format := codec.FormatYAML
	if c.OutputFormat != "" {
		format = codec.Format(c.OutputFormat)
	}
	mode := codec.ColorAuto
	if c.Color != "" {
		mode = codec.ColorMode(c.Color)
	}
	enc, err := codec.NewEncoder(c.Stdout, format, codec.WithColor(codec.ShouldColor(c.Stdout, mode)))
	if err != nil {
		return err
	}
	for _, v := range vals {
		if err := enc.Encode(v); err != nil {
			_ = enc.Close()
			return err
		}
	}
	return enc.Close()
}
