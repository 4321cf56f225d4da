// Package doxygen finds and interprets the "!>" documentation block written
// right above a routine header.
package doxygen

import (
	"context"
	"regexp"
	"strings"

	"gopkg.microglot.org/fparse.go/internal/exc"
	"gopkg.microglot.org/fparse.go/internal/iter"
	"gopkg.microglot.org/fparse.go/internal/source"
)

const (
	commentPrefix = "!"
	blockPrefix   = "!>"
	placeholder   = "..."
)

var (
	tagPattern       = regexp.MustCompile(`^\\([a-z]+)(.*)$`)
	directionPattern = regexp.MustCompile(`^\[(int|in|out|in[.,]? ?out)\]`)
	optionalPattern  = regexp.MustCompile(`^\((optinal|optional)\)`)
)

// Entry is one tagged paragraph of a block, e.g. Tag "param" and Text
// "[in] n number of points".
type Entry struct {
	Tag  string
	Text string
}

// Block is the ordered list of entries of one documentation block.
type Block []Entry

// Doc is the interpretation of a Block. Params and Retvals are keyed by the
// upper-cased argument or return value name.
type Doc struct {
	Summary []string
	Authors []string
	Params  map[string]string
	Retvals map[string]string
}

// Find returns the documentation block of the statement that starts at
// offset header. after is a cursor placed on that statement, as returned by
// source.Cursor.NextStatement. An undocumented statement yields an empty
// block.
func Find(ctx context.Context, after source.Cursor, header int) (Block, error) {
	begin := after
	for {
		line, prev, err := begin.PrevLine()
		if err != nil {
			begin = source.Begin(after.Buffer())
			break
		}
		begin = prev
		if !strings.HasPrefix(line, commentPrefix) {
			break
		}
	}

	lines := source.Lines(begin)
	var texts []string
	for v := lines.Next(ctx); v.IsPresent(); v = lines.Next(ctx) {
		l := v.Value()
		if l.Start >= header {
			break
		}
		text := strings.TrimSpace(l.Text)
		if strings.HasPrefix(text, blockPrefix) {
			texts = append(texts, strings.TrimSpace(strings.TrimPrefix(text, blockPrefix)))
			continue
		}
		if len(texts) > 0 {
			break
		}
	}
	if err := lines.Close(ctx); err != nil {
		return nil, err
	}
	return parseBlock(ctx, texts)
}

// parseBlock groups block lines into entries. A line without a tag continues
// the text of the entry before it.
func parseBlock(ctx context.Context, texts []string) (Block, error) {
	var block Block
	look := iter.NewLookahead(iter.NewSlice(texts), 1)
	for v := look.Lookahead(ctx, 0); v.IsPresent(); v = look.Next(ctx) {
		entry, tagged, err := parseLine(v.Value())
		if err != nil {
			return nil, err
		}
		if !tagged {
			return nil, exc.Newf(exc.Location{}, exc.CodeMalformedDocumentation, "documentation block starts without a tag: %q", v.Value())
		}
		for next := look.Lookahead(ctx, 1); next.IsPresent(); next = look.Lookahead(ctx, 1) {
			_, tagged, err := parseLine(next.Value())
			if err != nil {
				return nil, err
			}
			if tagged {
				break
			}
			entry.Text = entry.Text + " " + next.Value()
			look.Next(ctx)
		}
		block = append(block, entry)
	}
	return block, look.Close(ctx)
}

func parseLine(text string) (Entry, bool, error) {
	if !strings.HasPrefix(text, `\`) {
		return Entry{Text: text}, false, nil
	}
	m := tagPattern.FindStringSubmatch(text)
	if m == nil {
		return Entry{}, false, exc.Newf(exc.Location{}, exc.CodeMalformedDocumentation, "malformed documentation tag: %q", text)
	}
	return Entry{Tag: m[1], Text: m[2]}, true, nil
}

// Interpret collects summaries, authors, parameter and return value
// descriptions. Other tags are ignored.
func (b Block) Interpret() Doc {
	doc := Doc{
		Params:  make(map[string]string),
		Retvals: make(map[string]string),
	}
	for _, e := range b {
		switch e.Tag {
		case "brief":
			if text := strings.TrimSpace(e.Text); text != placeholder {
				doc.Summary = append(doc.Summary, text)
			}
		case "author":
			if text := strings.TrimSpace(e.Text); text != placeholder {
				doc.Authors = append(doc.Authors, text)
			}
		case "param":
			if name, descr, ok := described(e.Text); ok {
				doc.Params[name] = descr
			}
		case "retval":
			if name, descr, ok := described(e.Text); ok {
				doc.Retvals[name] = descr
			}
		}
	}
	return doc
}

// described splits "[in] (optional) name text" into NAME and text.
func described(text string) (string, string, bool) {
	text = strings.TrimSpace(text)
	text = strings.TrimSpace(directionPattern.ReplaceAllString(text, ""))
	text = strings.TrimSpace(optionalPattern.ReplaceAllString(text, ""))
	name, descr, found := strings.Cut(text, " ")
	if !found || name == "" {
		return "", "", false
	}
	descr = strings.TrimSpace(descr)
	if descr == placeholder {
		return "", "", false
	}
	return strings.ToUpper(name), descr, true
}
