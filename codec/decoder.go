package codec

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"strconv"

	"github.com/goccy/go-json"
	"go.yaml.in/yaml/v3"

	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/span"
	"github.com/kbukum/rowpipe/value"
)

// maxDepth bounds nesting (including alias expansion) while converting a
// document.
const maxDepth = 1000

// maxAliasNodes bounds how many nodes alias expansion may produce in one
// document. Nested anchors otherwise grow the output exponentially.
const maxAliasNodes = 100_000

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithUnwrap streams the items of a top-level sequence one at a time
// instead of producing the sequence as a single list value.
func WithUnwrap(unwrap bool) DecoderOption {
	return func(d *Decoder) { d.unwrap = unwrap }
}

// Decoder reads values from r. It is a pipeline.Iterator[value.Value].
type Decoder struct {
	r      io.Reader
	format Format
	unwrap bool

	yaml    *yaml.Decoder
	lines   *bufio.Scanner
	line    int
	pending []*yaml.Node
	conv    *converter
	done    bool
}

// NewDecoder returns a Decoder reading format from r.
func NewDecoder(r io.Reader, format Format, opts ...DecoderOption) (*Decoder, error) {
	d := &Decoder{r: r, format: format}
	for _, opt := range opts {
		opt(d)
	}
	switch format {
	case FormatYAML:
		d.yaml = yaml.NewDecoder(r)
	case FormatJSON, FormatLines:
		d.lines = bufio.NewScanner(r)
		d.lines.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	default:
		return nil, errors.InvalidInput("format", "unsupported input format "+strconv.Quote(string(format)))
	}
	return d, nil
}

// Next returns the next decoded value. A document that cannot be parsed is
// reported as an INVALID_FORMAT error and ends the stream.
func (d *Decoder) Next(ctx context.Context) (value.Value, bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return value.Value{}, false, err
		}
		if len(d.pending) > 0 {
			n := d.pending[0]
			d.pending = d.pending[1:]
			return d.convert(n)
		}
		if d.done {
			return value.Value{}, false, nil
		}

		var root *yaml.Node
		var err error
		switch d.format {
		case FormatYAML:
			root, err = d.nextDocument()
		case FormatJSON:
			root, err = d.nextJSONLine()
		default:
			return d.nextLine()
		}
		if err != nil || root == nil {
			d.done = true
			return value.Value{}, false, err
		}
		d.conv = &converter{}
		if d.unwrap && root.Kind == yaml.SequenceNode {
			d.pending = root.Content
			continue
		}
		return d.convert(root)
	}
}

func (d *Decoder) convert(n *yaml.Node) (value.Value, bool, error) {
	v, err := d.conv.node(n, 0, false)
	if err != nil {
		d.done = true
		d.pending = nil
		return value.Value{}, false, err
	}
	return v, true, nil
}

// nextDocument returns the root node of the next YAML document, or nil at
// the end of the stream.
func (d *Decoder) nextDocument() (*yaml.Node, error) {
	var doc yaml.Node
	if err := d.yaml.Decode(&doc); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.InvalidFormat(string(FormatYAML), err)
	}
	return documentRoot(&doc), nil
}

// nextJSONLine returns the root node of the next non-blank line, with node
// lines shifted to the line's position in the input.
func (d *Decoder) nextJSONLine() (*yaml.Node, error) {
	for d.lines.Scan() {
		d.line++
		text := d.lines.Bytes()
		if len(bytes.TrimSpace(text)) == 0 {
			continue
		}
		at := span.New(d.line, 1)
		if !json.Valid(text) {
			return nil, errors.InvalidFormat(string(FormatJSON), nil).WithSpan(at)
		}
		var doc yaml.Node
		if err := yaml.Unmarshal(text, &doc); err != nil {
			return nil, errors.InvalidFormat(string(FormatJSON), err).WithSpan(at)
		}
		shiftLines(&doc, d.line-1, 0)
		return documentRoot(&doc), nil
	}
	return nil, d.scanErr(FormatJSON)
}

func (d *Decoder) nextLine() (value.Value, bool, error) {
	if d.lines.Scan() {
		d.line++
		return value.String(d.lines.Text(), span.New(d.line, 1)), true, nil
	}
	d.done = true
	return value.Value{}, false, d.scanErr(FormatLines)
}

func (d *Decoder) scanErr(format Format) error {
	if err := d.lines.Err(); err != nil {
		return errors.InvalidFormat(string(format), err).WithSpan(span.New(d.line+1, 1))
	}
	return nil
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

// Close closes the underlying reader when it is an io.Closer.
func (d *Decoder) Close() error {
	d.done = true
	d.pending = nil
	if c, ok := d.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// FromNode converts a parsed YAML node into a value. Mapping order is kept
// and each value takes its span from the node's line and column.
func FromNode(n *yaml.Node) (value.Value, error) {
	return (&converter{}).node(n, 0, false)
}

// converter holds the per-document alias expansion count.
type converter struct {
	aliased int
}

func (c *converter) node(n *yaml.Node, depth int, inAlias bool) (value.Value, error) {
	at := span.New(n.Line, n.Column)
	if depth > maxDepth {
		return value.Value{}, errors.InvalidFormat(string(FormatYAML), nil).
			WithSpan(at).WithDetail("reason", "document nested too deeply")
	}
	if inAlias {
		c.aliased++
		if c.aliased > maxAliasNodes {
			return value.Value{}, errors.InvalidFormat(string(FormatYAML), nil).
				WithSpan(at).WithDetail("reason", "alias expansion exceeds "+strconv.Itoa(maxAliasNodes)+" nodes")
		}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Nothing(at), nil
		}
		return c.node(n.Content[0], depth+1, inAlias)
	case yaml.AliasNode:
		if n.Alias == nil {
			return value.Nothing(at), nil
		}
		v, err := c.node(n.Alias, depth+1, true)
		if err != nil {
			return value.Value{}, err
		}
		return v.WithSpan(at), nil
	case yaml.SequenceNode:
		items := make([]value.Value, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := c.node(item, depth+1, inAlias)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, v)
		}
		return value.List(items, at), nil
	case yaml.MappingNode:
		fields := make([]value.Field, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := c.node(n.Content[i+1], depth+1, inAlias)
			if err != nil {
				return value.Value{}, err
			}
			fields = append(fields, value.Field{Name: n.Content[i].Value, Value: v})
		}
		return value.Record(at, fields...), nil
	case yaml.ScalarNode:
		return fromScalar(n, at), nil
	}
	return value.Nothing(at), nil
}

func fromScalar(n *yaml.Node, at span.Span) value.Value {
	switch n.ShortTag() {
	case "!!null":
		return value.Nothing(at)
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err == nil {
			return value.Bool(b, at)
		}
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return value.Int(i, at)
		}
		var f float64
		if err := n.Decode(&f); err == nil {
			return value.Float(f, at)
		}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err == nil {
			return value.Float(f, at)
		}
	}
	return value.String(n.Value, at)
}

func shiftLines(n *yaml.Node, lines, depth int) {
	if depth > maxDepth {
		return
	}
	n.Line += lines
	for _, c := range n.Content {
		shiftLines(c, lines, depth+1)
	}
}
