package commands

import (
	"strings"

	"github.com/kbukum/rowpipe/errors"
	"github.com/kbukum/rowpipe/span"
)

// token is one word of a pipeline line with the column it starts at.
type token struct {
	text string
	col  int
}

// ParsePipeline reads a single-line pipeline such as
//
//	split row , | drop nth 0 | into bool
//
// and builds its commands from r. Words are separated by whitespace and
// commands by '|'. Single or double quotes group a word and may contain
// either separator. Command names may be one or two words long. Every
// argument span points at the column where its word starts on line.
func ParsePipeline(r *Registry, text string, line int) ([]Command, error) {
	segments, err := tokenize(text, line)
	if err != nil {
		return nil, err
	}
	cmds := make([]Command, 0, len(segments))
	for _, seg := range segments {
		if len(seg.tokens) == 0 {
			return nil, errors.InvalidInput("pipeline", "empty command").WithSpan(span.New(line, seg.col))
		}
		name, args := matchName(r, seg.tokens)
		head := span.New(line, seg.tokens[0].col)
		if name == "" {
			return nil, errors.InvalidInput("command", "unknown command "+quoteName(seg.tokens)).WithSpan(head)
		}
		call := Call{Head: head, Args: make([]Arg, len(args))}
		for i, a := range args {
			call.Args[i] = Arg{Text: a.text, Span: span.New(line, a.col)}
		}
		cmd, err := r.Create(name, call)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, cmd)
	}
	return cmds, nil
}

// matchName prefers a two-word command name over a one-word one.
func matchName(r *Registry, toks []token) (string, []token) {
	if len(toks) >= 2 {
		if name := toks[0].text + " " + toks[1].text; hasEntry(r, name) {
			return name, toks[2:]
		}
	}
	if hasEntry(r, toks[0].text) {
		return toks[0].text, toks[1:]
	}
	return "", nil
}

func hasEntry(r *Registry, name string) bool {
	_, ok := r.Lookup(name)
	return ok
}

func quoteName(toks []token) string {
	name := toks[0].text
	if len(toks) > 1 {
		name += " " + toks[1].text
	}
	return `"` + name + `"`
}

type segment struct {
	col    int
	tokens []token
}

func tokenize(text string, line int) ([]segment, error) {
	var (
		segs  []segment
		cur   = segment{col: 1}
		word  strings.Builder
		start = -1
		quote byte
	)
	flush := func() {
		if start >= 0 {
			cur.tokens = append(cur.tokens, token{text: word.String(), col: start + 1})
			word.Reset()
			start = -1
		}
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
				continue
			}
			word.WriteByte(c)
		case c == '"' || c == '\'':
			if start < 0 {
				start = i
			}
			quote = c
		case c == '|':
			flush()
			segs = append(segs, cur)
			cur = segment{col: i + 2}
		case c == ' ' || c == '\t':
			flush()
		default:
			if start < 0 {
				start = i
			}
			word.WriteByte(c)
		}
	}
	if quote != 0 {
		return nil, errors.InvalidInput("pipeline", "unterminated quote").WithSpan(span.New(line, start+1))
	}
	flush()
	return append(segs, cur), nil
}
