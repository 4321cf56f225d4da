package decl

import (
	"fmt"

	"gopkg.microglot.org/fparse.go/internal/exc"
)

// scan walks s from start while tracking bracket depth and skipping over
// quoted string literals. It returns the offset of the first byte outside a
// string for which stop reports true, or len(s) when no byte does. stop sees
// the depth before the byte itself is counted. Reaching the end of s inside
// a string or an open bracket is an error, as is closing a bracket that was
// never opened.
func scan(s string, start int, stop func(at int, depth int) bool) (int, error) {
	depth := 0
	var quote byte
	for i := start; i < len(s); i = i + 1 {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		if stop(i, depth) {
			return i, nil
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(', '[':
			depth = depth + 1
		case ')', ']':
			depth = depth - 1
			if depth < 0 {
				return i, fmt.Errorf("unbalanced %q at offset %d", c, i)
			}
		}
	}
	if quote != 0 {
		return len(s), fmt.Errorf("unterminated string literal")
	}
	if depth != 0 {
		return len(s), fmt.Errorf("%d unclosed parentheses", depth)
	}
	return len(s), nil
}

// Region returns the offset just past the balanced parenthesized region that
// opens at s[start].
func Region(s string, start int) (int, error) {
	end, err := scan(s, start, func(at int, depth int) bool {
		return depth == 1 && (s[at] == ')' || s[at] == ']')
	})
	if err != nil {
		return end, err
	}
	if end >= len(s) {
		return end, fmt.Errorf("unclosed parenthesis at offset %d", start)
	}
	return end + 1, nil
}

// topLevel returns the offset of the first occurrence of sep in s that is
// neither quoted nor nested in brackets, or -1.
func topLevel(s string, sep string) (int, error) {
	end, err := scan(s, 0, func(at int, depth int) bool {
		return depth == 0 && len(s)-at >= len(sep) && s[at:at+len(sep)] == sep
	})
	if err != nil {
		return -1, err
	}
	if end == len(s) {
		return -1, nil
	}
	return end, nil
}

func fail(code string, format string, args ...interface{}) error {
	return exc.Newf(exc.Location{}, code, format, args...)
}

// Identifier returns the leading identifier of s, or "" when s does not start
// with a letter.
func Identifier(s string) string {
	if len(s) == 0 || !isLetter(s[0]) {
		return ""
	}
	i := 1
	for i < len(s) && isWord(s[i]) {
		i = i + 1
	}
	return s[:i]
}

func keyword(s string) string {
	i := 0
	for i < len(s) && isLetter(s[i]) {
		i = i + 1
	}
	return s[:i]
}

func isLetter(c byte) bool {
	return ('A' <= c && c <= 'Z') || ('a' <= c && c <= 'z')
}

func isWord(c byte) bool {
	return isLetter(c) || ('0' <= c && c <= '9') || c == '_'
}
