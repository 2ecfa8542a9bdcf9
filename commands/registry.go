package commands

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/span"
	"github.com/kbukum/rowpipe/value"
)

// Call is a command invocation: the command head position and its
// positional arguments as typed. Each factory decides how to read them.
type Call struct {
	Head span.Span
	Args []Arg
}

// Arg is one positional argument.
type Arg struct {
	Text string
	Span span.Span
}

// Value reads the argument with ParseArgument.
func (a Arg) Value() value.Value {
	return ParseArgument(a.Text, a.Span)
}

// Factory builds a command from a call.
type Factory func(call Call) (Command, error)

// Example documents one use of a command and doubles as a test case.
type Example struct {
	Description string
	Example     string
	Args        []string
	Input       []value.Value
	Result      []value.Value
}

// Entry describes a registered command.
type Entry struct {
	Name     string
	Usage    string
	Category string
	Factory  Factory
	Examples []Example
}

// Registry maps command names to their entries.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register adds an entry. Registering a name twice is an error.
func (r *Registry) Register(e Entry) error {
	if e.Name == "" || e.Factory == nil {
		return errors.InvalidInput("entry", "name and factory are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[e.Name]; ok {
		return errors.InvalidInput("name", fmt.Sprintf("command %q already registered", e.Name))
	}
	r.entries[e.Name] = e
	return nil
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	return e, ok
}

// Create builds the named command from call.
func (r *Registry) Create(name string, call Call) (Command, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return nil, errors.InvalidInput("command", fmt.Sprintf("unknown command %q", name)).WithSpan(call.Head)
	}
	return e.Factory(call)
}

// List returns sorted names of all registered commands.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns a registry holding into bool, split row and drop nth.
func Default() *Registry {
	r := NewRegistry()
	for _, e := range []Entry{intoBoolEntry(), splitRowEntry(), dropNthEntry()} {
		if err := r.Register(e); err != nil {
			panic(err)
		}
	}
	return r
}

// ParseArgument turns command-line text into an argument value: an int, a
// float, a range like 1..3 or 1..<3, or otherwise a string.
func ParseArgument(text string, at span.Span) value.Value {
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return value.Int(n, at)
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return value.Float(f, at)
	}
	if strings.Contains(text, "..") {
		if r, err := value.ParseRange(text, at); err == nil {
			return value.RangeOf(r, at)
		}
	}
	return value.String(text, at)
}

// NewCall lays out args as if they followed the command name on a single
// line starting at head, so each argument's span points at its column.
func NewCall(name string, head span.Span, args ...string) Call {
	call := Call{Head: head, Args: make([]Arg, len(args))}
	col := head.Column + len(name) + 1
	for i, a := range args {
		at := span.Unknown
		if head.IsKnown() {
			at = span.New(head.Line, col)
		}
		call.Args[i] = Arg{Text: a, Span: at}
		col += len(a) + 1
	}
	return call
}

func intoBoolEntry() Entry {
	at := span.New(1, 1)
	rec := func(v value.Value) value.Value { return value.Record(at, value.Field{Name: "value", Value: v}) }
	return Entry{
		Name:     IntoBool{}.Name(),
		Usage:    IntoBool{}.Usage(),
		Category: "conversions",
		Factory: func(call Call) (Command, error) {
			cmd := IntoBool{Head: call.Head}
			for _, arg := range call.Args {
				path, err := value.ParseCellPath(arg.Text, arg.Span)
				if err != nil {
					return nil, err
				}
				cmd.Paths = append(cmd.Paths, path)
			}
			return cmd, nil
		},
		Examples: []Example{
			{
				Description: "Convert value to boolean in table",
				Example:     "[[value]; ['false'] ['1'] [0] [1.0] [true]] | into bool value",
				Args:        []string{"value"},
				Input: []value.Value{
					rec(value.String("false", at)), rec(value.String("1", at)), rec(value.Int(0, at)),
					rec(value.Float(1.0, at)), rec(value.Bool(true, at)),
				},
				Result: []value.Value{
					rec(value.Bool(false, at)), rec(value.Bool(true, at)), rec(value.Bool(false, at)),
					rec(value.Bool(true, at)), rec(value.Bool(true, at)),
				},
			},
			{
				Description: "Convert bool to boolean",
				Example:     "true | into bool",
				Input:       []value.Value{value.Bool(true, at)},
				Result:      []value.Value{value.Bool(true, at)},
			},
			{
				Description: "Convert integer to boolean",
				Example:     "1 | into bool",
				Input:       []value.Value{value.Int(1, at)},
				Result:      []value.Value{value.Bool(true, at)},
			},
			{
				Description: "Convert decimal string to boolean",
				Example:     "'0.0' | into bool",
				Input:       []value.Value{value.String("0.0", at)},
				Result:      []value.Value{value.Bool(false, at)},
			},
			{
				Description: "Convert string to boolean",
				Example:     "'true' | into bool",
				Input:       []value.Value{value.String("true", at)},
				Result:      []value.Value{value.Bool(true, at)},
			},
		},
	}
}

func splitRowEntry() Entry {
	at := span.New(1, 1)
	strs := func(ss ...string) []value.Value {
		out := make([]value.Value, len(ss))
		for i, s := range ss {
			out[i] = value.String(s, at)
		}
		return out
	}
	return Entry{
		Name:     SplitRow{}.Name(),
		Usage:    SplitRow{}.Usage(),
		Category: "strings",
		Factory: func(call Call) (Command, error) {
			if len(call.Args) == 0 {
				return nil, errors.MissingArgument("separator").WithSpan(call.Head)
			}
			if len(call.Args) > 1 {
				return nil, errors.InvalidInput("separator", "split row takes exactly one separator").
					WithSpan(call.Args[1].Span)
			}
			return SplitRow{Head: call.Head, Separator: call.Args[0].Text}, nil
		},
		Examples: []Example{
			{
				Description: "Split a string into rows of char",
				Example:     "'abc' | split row ''",
				Args:        []string{""},
				Input:       strs("abc"),
				Result:      strs("a", "b", "c"),
			},
			{
				Description: "Split a string into rows by the specified separator",
				Example:     "'a--b--c' | split row '--'",
				Args:        []string{"--"},
				Input:       strs("a--b--c"),
				Result:      strs("a", "b", "c"),
			},
			{
				Description: "Split lines, skipping blank ones",
				Example:     "\"one\\n\\ntwo\" | split row '\\n'",
				Args:        []string{`\n`},
				Input:       strs("one\n\ntwo"),
				Result:      strs("one", "two"),
			},
		},
	}
}

func dropNthEntry() Entry {
	at := span.New(1, 1)
	ints := func(ns ...int64) []value.Value {
		out := make([]value.Value, len(ns))
		for i, n := range ns {
			out[i] = value.Int(n, at)
		}
		return out
	}
	words := []value.Value{
		value.String("first", at), value.String("second", at), value.String("third", at),
		value.String("fourth", at), value.String("fifth", at),
	}
	return Entry{
		Name:     DropNth{}.Name(),
		Usage:    DropNth{}.Usage(),
		Category: "filters",
		Factory: func(call Call) (Command, error) {
			if len(call.Args) == 0 {
				return nil, errors.MissingArgument("row number or row range").WithSpan(call.Head)
			}
			cmd := DropNth{Head: call.Head, Row: call.Args[0].Value()}
			for _, arg := range call.Args[1:] {
				cmd.Rest = append(cmd.Rest, arg.Value())
			}
			return cmd, nil
		},
		Examples: []Example{
			{
				Description: "Drop the first, second, and third row",
				Example:     "[0,1,2,3,4,5] | drop nth 0 1 2",
				Args:        []string{"0", "1", "2"},
				Input:       ints(0, 1, 2, 3, 4, 5),
				Result:      ints(3, 4, 5),
			},
			{
				Description: "Drop rows 0 2 4",
				Example:     "[0,1,2,3,4,5] | drop nth 0 2 4",
				Args:        []string{"0", "2", "4"},
				Input:       ints(0, 1, 2, 3, 4, 5),
				Result:      ints(1, 3, 5),
			},
			{
				Description: "Drop rows 2 0 4",
				Example:     "[0,1,2,3,4,5] | drop nth 2 0 4",
				Args:        []string{"2", "0", "4"},
				Input:       ints(0, 1, 2, 3, 4, 5),
				Result:      ints(1, 3, 5),
			},
			{
				Description: "Drop range rows from second to fourth",
				Example:     "[first second third fourth fifth] | drop nth 1..3",
				Args:        []string{"1..3"},
				Input:       words,
				Result:      []value.Value{words[0], words[4]},
			},
			{
				Description: "Drop range rows from second up to but excluding fourth",
				Example:     "[first second third fourth fifth] | drop nth 1..<3",
				Args:        []string{"1..<3"},
				Input:       words,
				Result:      []value.Value{words[0], words[3], words[4]},
			},
		},
	}
}
