package value

import (
	"strconv"
	"strings"

	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/span"
)

// MemberKind distinguishes record field selectors from list index selectors.
type MemberKind int

const (
	FieldMember MemberKind = iota
	IndexMember
)

// PathMember is one step of a CellPath.
type PathMember struct {
	Kind  MemberKind
	Name  string
	Index int
	Span  span.Span
}

// FieldOf returns a member selecting the record field name.
func FieldOf(name string) PathMember {
	return PathMember{Kind: FieldMember, Name: name}
}

// IndexOf returns a member selecting list item i.
func IndexOf(i int) PathMember {
	return PathMember{Kind: IndexMember, Index: i}
}

// String renders the member as it appears in a path.
func (m PathMember) String() string {
	if m.Kind == IndexMember {
		return strconv.Itoa(m.Index)
	}
	return quoteMember(m.Name)
}

// CellPath addresses a nested location inside a Value.
type CellPath []PathMember

// PathOf builds a CellPath from field names (string) and indices (int).
// Other element types are ignored.
func PathOf(members ...any) CellPath {
	out := make(CellPath, 0, len(members))
	for _, m := range members {
		switch m := m.(type) {
		case string:
			out = append(out, FieldOf(m))
		case int:
			out = append(out, IndexOf(m))
		}
	}
	return out
}

// String renders the path in its dotted textual form.
func (p CellPath) String() string {
	parts := make([]string, len(p))
	for i, m := range p {
		parts[i] = m.String()
	}
	return strings.Join(parts, ".")
}

// ParseCellPath parses a dotted cell path such as `rows.0."first.name"`.
// at is the position of the text; member spans are offset from it.
func ParseCellPath(text string, at span.Span) (CellPath, error) {
	if text == "" {
		return nil, errors.InvalidInput("cell path", "empty cell path").WithSpan(at)
	}
	var path CellPath
	pos := 0
	for {
		memberAt := at
		if at.IsKnown() {
			memberAt.Column += pos
		}
		m, n, err := parseMember(text[pos:], memberAt)
		if err != nil {
			return nil, err
		}
		path = append(path, m)
		pos += n
		if pos == len(text) {
			return path, nil
		}
		if text[pos] != '.' {
			return nil, errors.InvalidInput("cell path", "expected '.' after "+m.String()).
				WithSpan(memberAt).WithDetail("text", text)
		}
		pos++
		if pos == len(text) {
			return nil, errors.InvalidInput("cell path", "trailing '.'").WithSpan(at).WithDetail("text", text)
		}
	}
}

// parseMember reads one member from the front of text and returns it with
// the number of bytes consumed.
func parseMember(text string, at span.Span) (PathMember, int, error) {
	if text[0] == '"' {
		end := closingQuote(text)
		if end < 0 {
			return PathMember{}, 0, errors.InvalidInput("cell path", "unterminated quote").
				WithSpan(at).WithDetail("text", text)
		}
		name, err := strconv.Unquote(text[:end+1])
		if err != nil {
			return PathMember{}, 0, errors.InvalidInput("cell path", "bad quoted member").
				WithSpan(at).WithCause(err)
		}
		return PathMember{Kind: FieldMember, Name: name, Span: at}, end + 1, nil
	}
	n := strings.IndexByte(text, '.')
	if n < 0 {
		n = len(text)
	}
	raw := text[:n]
	if raw == "" {
		return PathMember{}, 0, errors.InvalidInput("cell path", "empty member").WithSpan(at)
	}
	if isDigits(raw) {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			return PathMember{}, 0, errors.InvalidInput("cell path", "index out of range").
				WithSpan(at).WithCause(err)
		}
		return PathMember{Kind: IndexMember, Index: idx, Span: at}, n, nil
	}
	return PathMember{Kind: FieldMember, Name: raw, Span: at}, n, nil
}

func closingQuote(text string) int {
	for i := 1; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// quoteMember quotes a field name when the dotted form would misread it.
func quoteMember(name string) string {
	if name == "" || isDigits(name) || strings.ContainsAny(name, ".\" \t\n") {
		return strconv.Quote(name)
	}
	return name
}
