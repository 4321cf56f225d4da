package source

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.microglot.org/fparse.go/internal/exc"
)

// Locus is a file:line position in the original, pre-preprocessing source.
type Locus struct {
	File string
	Line int
}

func (l Locus) String() string {
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Location converts the locus into an exception location.
func (l Locus) Location() exc.Location {
	return exc.Location{File: l.File, Line: l.Line}
}

// marker is the most recent preprocessor line marker seen while reading
// forward. The line starting at offset is line number line of file.
type marker struct {
	file   string
	line   int
	offset int
}

func (m marker) resolve(text string, at int) Locus {
	from := m.offset
	if from > len(text) {
		from = len(text)
	}
	if at > len(text) {
		at = len(text)
	}
	line := m.line
	if at > from {
		line = line + strings.Count(text[from:at], "\n")
	}
	return Locus{File: filepath.Base(m.file), Line: line}
}

// parseMarker decodes a line such as `# 12 "src/mod.F" 2` or
// `#line 12 "src/mod.F"`. The returned marker has no offset set.
func parseMarker(line string) (marker, error) {
	rest := strings.TrimSpace(strings.TrimPrefix(line, "#"))
	rest = strings.TrimSpace(strings.TrimPrefix(rest, "line"))
	fields := strings.Fields(rest)
	if len(fields) < 2 {
		return marker{}, fmt.Errorf("malformed line marker %q", line)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return marker{}, fmt.Errorf("malformed line number in marker %q", line)
	}
	open := strings.IndexByte(rest, '"')
	closing := strings.LastIndexByte(rest, '"')
	if open < 0 || closing <= open {
		return marker{}, fmt.Errorf("malformed file name in marker %q", line)
	}
	return marker{file: rest[open+1 : closing], line: n}, nil
}
