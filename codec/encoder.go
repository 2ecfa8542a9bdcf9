package codec

import (
	"bufio"
	"io"
	"math"
	"strconv"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v3"

	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/value"
)

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithColor turns on ANSI colors for the text format.
func WithColor(enabled bool) EncoderOption {
	return func(e *Encoder) { e.colors = newPalette(enabled) }
}

// Encoder writes values to w. Output is buffered until Flush or Close.
type Encoder struct {
	w      *bufio.Writer
	format Format
	colors palette
	yaml   *yaml.Encoder
	count  int
}

// NewEncoder returns an Encoder writing format to w.
func NewEncoder(w io.Writer, format Format, opts ...EncoderOption) (*Encoder, error) {
	e := &Encoder{w: bufio.NewWriter(w), format: format, colors: newPalette(false)}
	for _, opt := range opts {
		opt(e)
	}
	switch format {
	case FormatYAML:
		e.yaml = yaml.NewEncoder(e.w)
		e.yaml.SetIndent(2)
	case FormatJSON, FormatText:
	default:
		return nil, errors.InvalidInput("format", "unsupported output format "+strconv.Quote(string(format)))
	}
	return e, nil
}

// Encode writes one value. Error values are written in their
// {error: {code, message, span}} form.
func (e *Encoder) Encode(v value.Value) error {
	var err error
	switch e.format {
	case FormatYAML:
		err = e.yaml.Encode(ToNode(v))
	case FormatJSON:
		var b []byte
		if b, err = AppendJSON(nil, v); err == nil {
			b = append(b, '\n')
			_, err = e.w.Write(b)
		}
	case FormatText:
		_, err = e.w.WriteString(e.colors.render(v) + "\n")
	}
	if err != nil {
		return errors.Internal(err).WithDetail("format", string(e.format))
	}
	e.count++
	return nil
}

// Count returns how many values have been encoded.
func (e *Encoder) Count() int { return e.count }

// Flush writes buffered output to the underlying writer.
func (e *Encoder) Flush() error {
	if err := e.w.Flush(); err != nil {
		return errors.Internal(err)
	}
	return nil
}

// Close finishes the stream and flushes it. An encoder that wrote nothing
// produces no output.
func (e *Encoder) Close() error {
	if e.yaml != nil && e.count > 0 {
		if err := e.yaml.Close(); err != nil {
			return errors.Internal(err)
		}
	}
	return e.Flush()
}

// ToNode converts a value into a YAML node tree. Ranges are written as
// strings; error values as their response form.
func ToNode(v value.Value) *yaml.Node {
	switch v.Kind() {
	case value.KindBool:
		b, _ := v.AsBool()
		return scalar("!!bool", strconv.FormatBool(b))
	case value.KindInt:
		i, _ := v.AsInt()
		return scalar("!!int", strconv.FormatInt(i, 10))
	case value.KindFloat:
		f, _ := v.AsFloat()
		return scalar("!!float", yamlFloat(f))
	case value.KindString:
		s, _ := v.AsString()
		return scalar("!!str", s)
	case value.KindRange:
		r, _ := v.AsRange()
		return scalar("!!str", r.String())
	case value.KindList:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.Items() {
			n.Content = append(n.Content, ToNode(item))
		}
		return n
	case value.KindRecord:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range v.Fields() {
			n.Content = append(n.Content, scalar("!!str", f.Name), ToNode(f.Value))
		}
		return n
	case value.KindError:
		appErr, _ := v.AsError()
		var n yaml.Node
		if err := n.Encode(appErr.ToResponse()); err != nil {
			return scalar("!!str", appErr.Error())
		}
		return &n
	default:
		return scalar("!!null", "null")
	}
}

func scalar(tag, text string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}
}

func yamlFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	return value.FormatFloat(f)
}

// AppendJSON appends the JSON encoding of v to buf. Record field order is
// preserved. Floats JSON cannot represent (NaN, infinities) are written as
// strings.
func AppendJSON(buf []byte, v value.Value) ([]byte, error) {
	switch v.Kind() {
	case value.KindNothing:
		return append(buf, "null"...), nil
	case value.KindBool:
		b, _ := v.AsBool()
		return strconv.AppendBool(buf, b), nil
	case value.KindInt:
		i, _ := v.AsInt()
		return strconv.AppendInt(buf, i, 10), nil
	case value.KindFloat:
		f, _ := v.AsFloat()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return appendJSONString(buf, value.FormatFloat(f))
		}
		return append(buf, value.FormatFloat(f)...), nil
	case value.KindString:
		s, _ := v.AsString()
		return appendJSONString(buf, s)
	case value.KindRange:
		r, _ := v.AsRange()
		return appendJSONString(buf, r.String())
	case value.KindList:
		buf = append(buf, '[')
		for i, item := range v.Items() {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			if buf, err = AppendJSON(buf, item); err != nil {
				return buf, err
			}
		}
		return append(buf, ']'), nil
	case value.KindRecord:
		buf = append(buf, '{')
		for i, f := range v.Fields() {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			if buf, err = appendJSONString(buf, f.Name); err != nil {
				return buf, err
			}
			buf = append(buf, ':')
			if buf, err = AppendJSON(buf, f.Value); err != nil {
				return buf, err
			}
		}
		return append(buf, '}'), nil
	case value.KindError:
		appErr, _ := v.AsError()
		b, err := json.Marshal(appErr.ToResponse())
		if err != nil {
			return buf, err
		}
		return append(buf, b...), nil
	}
	return append(buf, "null"...), nil
}

func appendJSONString(buf []byte, s string) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return buf, err
	}
	return append(buf, b...), nil
}
