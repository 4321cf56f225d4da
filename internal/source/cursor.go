// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"strings"

	"gopkg.microglot.org/fparse.go/internal/exc"
)

// Buffer holds the full output of the preprocessor for one input file.
type Buffer struct {
	name string
	text string
}

// NewBuffer wraps text. The name is used for loci until the first
// preprocessor line marker is read.
func NewBuffer(name string, text string) *Buffer {
	return &Buffer{name: name, text: text}
}

func (b *Buffer) Name() string {
	return b.name
}

func (b *Buffer) Text() string {
	return b.text
}

// Cursor is an immutable read position in a Buffer. Every stepping method
// returns a new Cursor and leaves the receiver untouched, so peeking is
// simply discarding the returned value.
//
// A cursor spans one raw line: begin is the offset of its first byte and end
// the offset of the byte that terminates it, either a newline or a statement
// separator. Before the first forward step end is -1.
type Cursor struct {
	buf   *Buffer
	begin int
	end   int
	mark  marker
}

// Begin returns a cursor placed before the first line of buf.
func Begin(buf *Buffer) Cursor {
	return Cursor{
		buf:   buf,
		begin: 0,
		end:   -1,
		mark:  marker{file: buf.name, line: 1, offset: 0},
	}
}

// Buffer returns the buffer the cursor reads.
func (c Cursor) Buffer() *Buffer {
	return c.buf
}

// Offset returns the buffer offset of the start of the current line.
func (c Cursor) Offset() int {
	return c.begin
}

// Locus returns the file:line of the start of the current line.
func (c Cursor) Locus() Locus {
	return c.mark.resolve(c.buf.text, c.begin)
}

func (c Cursor) location() exc.Location {
	return c.Locus().Location()
}

// NextRawLine returns the next raw line, markers and blank lines included.
func (c Cursor) NextRawLine() (string, Cursor, error) {
	text := c.buf.text
	begin := c.end + 1
	if begin >= len(text) {
		return "", c, exc.New(c.location(), exc.CodeEndOfInput, "unexpected end of input")
	}
	end := strings.IndexByte(text[begin:], '\n')
	if end < 0 {
		end = len(text)
	} else {
		end = end + begin
	}
	next := c
	next.begin = begin
	next.end = end
	return text[begin:end], next, nil
}

// PrevRawLine steps back to the raw line before the current one.
func (c Cursor) PrevRawLine() (string, Cursor, error) {
	if c.end < 0 {
		return "", c, exc.New(c.location(), exc.CodeInvalidState, "cannot step back before reading forward")
	}
	end := c.begin - 1
	if end < 0 {
		return "", c, exc.New(c.location(), exc.CodeInvalidState, "cannot step back past the start of input")
	}
	text := c.buf.text
	begin := strings.LastIndexByte(text[:end], '\n') + 1
	prev := c
	prev.begin = begin
	prev.end = end
	return text[begin:end], prev, nil
}

// NextLine returns the next raw line that is neither blank nor a
// preprocessor marker. Markers passed on the way update the locus
// bookkeeping of the returned cursor.
func (c Cursor) NextLine() (string, Cursor, error) {
	for {
		line, next, err := c.NextRawLine()
		if err != nil {
			return "", c, err
		}
		c = next
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			m, err := parseMarker(trimmed)
			if err != nil {
				return "", c, exc.Wrap(c.location(), exc.CodeMalformedMarker, err)
			}
			m.offset = c.end + 1
			c.mark = m
			continue
		}
		if trimmed != "" {
			return line, c, nil
		}
	}
}

// PrevLine steps back to the previous line that is neither blank nor a
// preprocessor marker. The line is returned with surrounding space removed.
func (c Cursor) PrevLine() (string, Cursor, error) {
	for {
		line, prev, err := c.PrevRawLine()
		if err != nil {
			return "", c, err
		}
		c = prev
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			return trimmed, c, nil
		}
	}
}

// PeekRawLine returns the next raw line and its offset without moving.
func (c Cursor) PeekRawLine() (string, int, error) {
	line, next, err := c.NextRawLine()
	return line, next.begin, err
}

// PeekPrevRawLine returns the previous raw line and its offset without
// moving.
func (c Cursor) PeekPrevRawLine() (string, int, error) {
	line, prev, err := c.PrevRawLine()
	return line, prev.begin, err
}

// PeekLine returns what NextLine would return along with the line offset.
func (c Cursor) PeekLine() (string, int, error) {
	line, next, err := c.NextLine()
	return line, next.begin, err
}

// PeekPrevLine returns what PrevLine would return along with the line
// offset.
func (c Cursor) PeekPrevLine() (string, int, error) {
	line, prev, err := c.PrevLine()
	return line, prev.begin, err
}
