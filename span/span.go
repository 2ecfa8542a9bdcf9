// Package span provides the source position tag attached to values and
// errors for diagnostics.
//
// A Span is metadata: it never takes part in value equality.
package span

import "fmt"

// Span identifies where a value came from. Line and Column are 1-based;
// the zero Span means the position is unknown.
type Span struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

// Unknown is the span used for values without a source position.
var Unknown = Span{}

// New returns a span at the given line and column.
func New(line, column int) Span {
	return Span{Line: line, Column: column}
}

// IsKnown reports whether the span refers to an actual source position.
func (s Span) IsKnown() bool {
	return s.Line > 0
}

// String renders the span as "line:column", or "?" when unknown.
func (s Span) String() string {
	if !s.IsKnown() {
		return "?"
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}
