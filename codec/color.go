package codec

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/kbukum/rowpipe/value"
)

// ColorMode selects when the text format is colored.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ShouldColor resolves mode for w. In auto mode colors are used only when
// w is a terminal and NO_COLOR is unset.
func ShouldColor(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type palette struct {
	err     func(a ...any) string
	code    func(a ...any) string
	field   func(a ...any) string
	str     func(a ...any) string
	number  func(a ...any) string
	boolean func(a ...any) string
	null    func(a ...any) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		err:     mk(color.FgRed, color.Bold),
		code:    mk(color.FgRed),
		field:   mk(color.FgBlue),
		str:     mk(color.FgGreen),
		number:  mk(color.FgCyan),
		boolean: mk(color.FgYellow),
		null:    mk(color.FgMagenta),
	}
}

// render writes v on a single line.
func (p palette) render(v value.Value) string {
	var b strings.Builder
	p.write(&b, v)
	return b.String()
}

func (p palette) write(b *strings.Builder, v value.Value) {
	switch v.Kind() {
	case value.KindNothing:
		b.WriteString(p.null("null"))
	case value.KindBool:
		b.WriteString(p.boolean(v.String()))
	case value.KindInt, value.KindFloat, value.KindRange:
		b.WriteString(p.number(v.String()))
	case value.KindString:
		b.WriteString(p.str(v.String()))
	case value.KindList:
		b.WriteByte('[')
		for i, item := range v.Items() {
			if i > 0 {
				b.WriteString(", ")
			}
			p.write(b, item)
		}
		b.WriteByte(']')
	case value.KindRecord:
		b.WriteByte('{')
		for i, f := range v.Fields() {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.field(fieldName(f.Name)))
			b.WriteString(": ")
			p.write(b, f.Value)
		}
		b.WriteByte('}')
	case value.KindError:
		e, _ := v.AsError()
		b.WriteString(p.err("error"))
		b.WriteString(" ")
		b.WriteString(p.code(string(e.Code)))
		b.WriteString(": ")
		b.WriteString(e.Message)
		if e.Span.IsKnown() {
			b.WriteString(" (at " + e.Span.String() + ")")
		}
	}
}

// fieldName quotes record keys that would not read back as a bare word.
func fieldName(name string) string {
	if name == "" || strings.ContainsAny(name, " \t\n:,{}[]\"") {
		return strconv.Quote(name)
	}
	return name
}
