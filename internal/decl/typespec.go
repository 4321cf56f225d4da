package decl

import (
	"strings"

	"gopkg.microglot.org/fparse.go/internal/ast"
	"gopkg.microglot.org/fparse.go/internal/exc"
)

var declarationPrefixes = []string{"CHARACTER", "INTEGER", "REAL", "COMPLEX", "LOGICAL", "TYPE(", "PROCEDURE("}

// LooksLike reports whether a normalized statement starts the way a type
// declaration does. It is a cheap pre-check: Decode makes the final call.
func LooksLike(text string) bool {
	for _, p := range declarationPrefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

// ParseType reads the type keyword at the start of text together with its
// parenthesized kind or length parameter. It returns the offset just past the
// type specification. ok is false when text does not start with a type
// keyword that spans the whole leading identifier.
func ParseType(text string) (spec ast.TypeSpec, end int, ok bool, err error) {
	kw := keyword(text)
	if kw == "" || kw != Identifier(text) {
		return ast.TypeSpec{}, 0, false, nil
	}
	kind, found := ast.TypeKindFromKeyword(kw)
	if !found {
		return ast.TypeSpec{}, 0, false, nil
	}
	end = len(kw)
	if end < len(text) && text[end] == '(' {
		after, err := Region(text, end)
		if err != nil {
			return ast.TypeSpec{}, 0, true, exc.Wrap(exc.Location{}, exc.CodeMalformedDeclaration, err)
		}
		spec.Parameter = text[end:after]
		end = after
	}
	if kind.Parameterized() && spec.Parameter == "" {
		return ast.TypeSpec{}, 0, false, nil
	}
	spec.Kind = kind
	return spec, end, true, nil
}
