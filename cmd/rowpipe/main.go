package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
)

// errInterrupted is returned when a signal stopped the run early.
var errInterrupted = stderrors.New("interrupted")

// Globals are the flags shared by every command. Unset flags leave the
// loaded configuration alone.
type Globals struct {
	Config       string `help:"Config file to load instead of searching the default locations" short:"c"`
	InputFormat  string `help:"Input format: yaml, json or lines" short:"i" name:"input-format"`
	OutputFormat string `help:"Output format: yaml, json or text" short:"o" name:"output-format"`
	Unwrap       bool   `help:"Emit the items of a top-level list as separate elements"`
	Color        string `help:"Color text output: auto, always or never"`
	Limit        int    `help:"Stop after writing this many elements"`
	ChunkSize    int    `help:"Flush output after this many elements" name:"chunk-size"`
	FailOnError  bool   `help:"Stop at the first error element" name:"fail-on-error"`
	RunID        string `help:"Run ID to log instead of a generated one" name:"run-id"`
	LogLevel     string `help:"Log level: trace, debug, info, warn, error or disabled" name:"log-level"`
	Telemetry    bool   `help:"Record spans and element counts and log them on exit"`
}

// Context represents the global context for commands
type Context struct {
	*Globals
	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// CLI is the command line of rowpipe.
type CLI struct {
	Globals `embed:""`

	Pipe     PipeCmd     `cmd:"" help:"Run a pipeline such as \"split row , | into bool\""`
	IntoBool IntoBoolCmd `cmd:"" name:"into-bool" help:"Convert values to booleans"`
	SplitRow SplitRowCmd `cmd:"" name:"split-row" help:"Split strings over multiple rows"`
	DropNth  DropNthCmd  `cmd:"" name:"drop-nth" help:"Drop rows by position"`
	Commands CommandsCmd `cmd:"" help:"Describe the available pipeline commands"`
	Version  VersionCmd  `cmd:"" help:"Show version information"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("rowpipe"),
		kong.Description("Stream structured rows through into bool, split row and drop nth."),
		kong.UsageOnError(),
	)

	appCtx := &Context{
		Globals: &cli.Globals,
		Ctx:     context.Background(),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}

	err := kctx.Run(appCtx)
	if err != nil && !stderrors.Is(err, errInterrupted) {
		color.New(color.FgRed, color.Bold).Fprint(os.Stderr, "Error: ")
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case stderrors.Is(err, errInterrupted), stderrors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}
