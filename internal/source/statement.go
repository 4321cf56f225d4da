package source

import (
	"strings"

	"gopkg.microglot.org/fparse.go/internal/exc"
)

const (
	commentMarker      = '!'
	docTrailerMarker   = "!<"
	continuationMarker = '&'
	statementSeparator = ';'
)

// Statement is one logical statement: raw lines merged across
// continuations, comments removed, letters outside string literals
// upper-cased and spaces kept only between two words.
type Statement struct {
	Text string
	// Comment is the text of a trailing "!<" documentation comment.
	Comment string
	// Start is the offset of the first raw line that contributed to the
	// statement, after any leading comment lines.
	Start int
	// End is the offset of the byte that terminated the statement.
	End   int
	Locus Locus
}

// Location returns the exception location of the statement.
func (s Statement) Location() exc.Location {
	return exc.Location{File: s.Locus.File, Line: s.Locus.Line, Statement: s.Text}
}

// NextStatement reads the next logical statement. The returned cursor spans
// from the first contributing raw line to the terminator of the statement,
// so PrevLine on it yields the line preceding the statement.
func (c Cursor) NextStatement() (Statement, Cursor, error) {
	for {
		stmt, next, err := c.nextStatement()
		if err != nil {
			return stmt, c, err
		}
		if stmt.Text != "" {
			return stmt, next, nil
		}
		// An empty statement between two separators.
		c = next
	}
}

// PeekStatement returns what NextStatement would return without moving.
func (c Cursor) PeekStatement() (Statement, error) {
	stmt, _, err := c.NextStatement()
	return stmt, err
}

func (c Cursor) nextStatement() (Statement, Cursor, error) {
	line, cur, err := c.NextLine()
	if err != nil {
		return Statement{}, c, err
	}
	first := cur
	var (
		out     normalizer
		quote   byte
		comment string
	)
	i := 0
scan:
	for i < len(line) {
		ch := line[i]
		if quote != 0 {
			out.raw(ch)
			if ch == quote {
				quote = 0
			}
			i = i + 1
			continue
		}
		switch ch {
		case '\'', '"':
			quote = ch
			out.raw(ch)
		case ' ', '\t':
			out.space()
		case commentMarker:
			if out.empty() {
				// Whole-line comment ahead of the statement.
				line, cur, err = cur.NextLine()
				if err != nil {
					return Statement{}, c, err
				}
				first = cur
				i = 0
				continue
			}
			if strings.HasPrefix(line[i:], docTrailerMarker) {
				comment = strings.TrimSpace(line[i+len(docTrailerMarker):])
			}
			break scan
		case continuationMarker:
			for {
				line, cur, err = cur.NextLine()
				if exc.CodeOf(err) == exc.CodeEndOfInput {
					return Statement{}, c, exc.New(first.location(), exc.CodeMalformedStatement, "input ends inside a continued statement")
				} else if err != nil {
					return Statement{}, c, err
				}
				if !strings.HasPrefix(strings.TrimSpace(line), string(commentMarker)) {
					break
				}
			}
			i = continuationStart(line)
			continue
		case statementSeparator:
			cur.end = cur.begin + i
			break scan
		default:
			out.char(ch)
		}
		i = i + 1
	}
	loc := first.mark.resolve(c.buf.text, first.begin)
	if quote != 0 {
		return Statement{}, c, exc.New(exc.Location{File: loc.File, Line: loc.Line, Statement: out.String()},
			exc.CodeMalformedStatement, "unterminated string literal")
	}
	stmt := Statement{
		Text:    out.String(),
		Comment: comment,
		Start:   first.begin,
		End:     cur.end,
		Locus:   loc,
	}
	next := cur
	next.begin = first.begin
	return stmt, next, nil
}

// continuationStart skips the optional leading ampersand of a continued
// line.
func continuationStart(line string) int {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, string(continuationMarker)) {
		return len(line) - len(trimmed) + 1
	}
	return 0
}

type normalizer struct {
	b []byte
}

func (n *normalizer) empty() bool {
	return len(n.b) == 0
}

func (n *normalizer) last() byte {
	if len(n.b) == 0 {
		return 0
	}
	return n.b[len(n.b)-1]
}

// space keeps a single space, and only right after a letter.
func (n *normalizer) space() {
	if isLetter(n.last()) {
		n.b = append(n.b, ' ')
	}
}

// char appends an upper-cased character, first dropping a pending space
// unless the character is a letter.
func (n *normalizer) char(ch byte) {
	if n.last() == ' ' && !isLetter(ch) {
		n.b = n.b[:len(n.b)-1]
	}
	if 'a' <= ch && ch <= 'z' {
		ch = ch - 'a' + 'A'
	}
	n.b = append(n.b, ch)
}

// raw appends string literal content verbatim.
func (n *normalizer) raw(ch byte) {
	n.b = append(n.b, ch)
}

func (n *normalizer) String() string {
	return strings.TrimSpace(string(n.b))
}

func isLetter(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
}
