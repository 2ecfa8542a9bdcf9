package commands

import (
	"context"
	"strings"

	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/pipeline"
	"github.com/kbukum/rowpipe/span"
	"github.com/kbukum/rowpipe/value"
)

// SplitRow splits string elements into one element per fragment.
type SplitRow struct {
	Head      span.Span
	Separator string
}

func (SplitRow) Name() string  { return "split row" }
func (SplitRow) Usage() string { return "Split contents over multiple rows via the separator" }

// Apply flat-maps every element through Split.
func (c SplitRow) Apply(in *Stream) (*Stream, error) {
	sep := ExpandSeparator(c.Separator)
	return pipeline.FlatMapSlice(in, func(_ context.Context, v value.Value) ([]value.Value, error) {
		return Split(v, sep, c.Head), nil
	}), nil
}

// ExpandSeparator turns the two-character sequence `\n` into a newline.
func ExpandSeparator(sep string) string {
	return strings.ReplaceAll(sep, `\n`, "\n")
}

// Split breaks a string value on sep. Fragments that are blank after
// trimming are dropped; the rest are kept untrimmed with the input's span.
// An empty sep splits into characters. A non-string input becomes a single
// PIPELINE_MISMATCH error value; an error input is passed through.
func Split(v value.Value, sep string, head span.Span) []value.Value {
	s, ok := v.AsString()
	if !ok {
		if v.IsError() {
			return []value.Value{v}
		}
		return []value.Value{value.Error(errors.PipelineMismatch("string", head, v.Span()).
			WithDetail("kind", v.Kind().String()))}
	}
	var out []value.Value
	for _, frag := range strings.Split(s, sep) {
		if strings.TrimSpace(frag) == "" {
			continue
		}
		out = append(out, value.String(frag, v.Span()))
	}
	return out
}
