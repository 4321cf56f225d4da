package source

import (
	"context"
	"strings"

	"gopkg.microglot.org/fparse.go/internal/exc"
	"gopkg.microglot.org/fparse.go/internal/iter"
)

// Line is a raw line and the buffer offset where it starts.
type Line struct {
	Text  string
	Start int
}

// rawLines iterates forward over every raw line after c.
func rawLines(c Cursor) iter.Iterator[Line] {
	return iter.NewFunc(func(ctx context.Context) (Line, bool, error) {
		text, next, err := c.NextRawLine()
		if err != nil {
			return Line{}, false, endOK(err)
		}
		c = next
		return Line{Text: text, Start: next.begin}, true, nil
	})
}

// Lines iterates forward over the raw lines after c that are neither blank
// nor preprocessor markers. Markers are skipped without locus bookkeeping.
func Lines(c Cursor) iter.Iterator[Line] {
	return iter.NewIteratorFilter(rawLines(c), iter.Filter[Line](iter.FilterFunc[Line](func(ctx context.Context, l Line) bool {
		trimmed := strings.TrimSpace(l.Text)
		return trimmed != "" && !strings.HasPrefix(trimmed, "#")
	})))
}

// Statements iterates over the logical statements after c. Close reports
// the error that stopped the iteration, if it was not the end of input.
func Statements(c Cursor) iter.Iterator[Statement] {
	return iter.NewFunc(func(ctx context.Context) (Statement, bool, error) {
		stmt, next, err := c.NextStatement()
		if err != nil {
			return Statement{}, false, endOK(err)
		}
		c = next
		return stmt, true, nil
	})
}

func endOK(err error) error {
	if exc.CodeOf(err) == exc.CodeEndOfInput {
		return nil
	}
	return err
}
