package decl

import (
	"strings"

	"gopkg.microglot.org/fparse.go/internal/ast"
	"gopkg.microglot.org/fparse.go/internal/exc"
	"gopkg.microglot.org/fparse.go/internal/optional"
)

// entity is one element of a variable list: NAME[(dim)][=init | =>init].
type entity struct {
	name        string
	dim         string
	init        string
	pointerInit bool
}

func (e entity) variable(spec ast.TypeSpec, attrs []ast.Attribute) *ast.Variable {
	v := &ast.Variable{
		Name:        e.name,
		Type:        spec,
		Attributes:  append([]ast.Attribute(nil), attrs...),
		PointerInit: e.pointerInit,
	}
	if e.dim != "" {
		v.Dimension = optional.Some(e.dim)
	}
	if e.init != "" {
		v.Initializer = optional.Some(e.init)
	}
	return v
}

// parseVariables decodes a comma separated variable list. Every entry gets
// its own copy of the shared type and attributes.
func parseVariables(list string, spec ast.TypeSpec, attrs []ast.Attribute) ([]*ast.Variable, error) {
	if list == "" {
		return nil, fail(exc.CodeMalformedVariable, "empty variable list")
	}
	var vars []*ast.Variable
	for {
		e, end, err := nextEntity(list)
		if err != nil {
			return nil, err
		}
		vars = append(vars, e.variable(spec, attrs))
		if end == len(list) {
			return vars, nil
		}
		list = list[end+1:]
	}
}

// nextEntity reads the first entry of list and returns the offset of the
// comma that terminates it, or len(list).
func nextEntity(list string) (entity, int, error) {
	e := entity{name: Identifier(list)}
	if e.name == "" {
		return e, 0, fail(exc.CodeMalformedVariable, "expected a variable name at %q", list)
	}
	i := len(e.name)
	for i < len(list) {
		switch list[i] {
		case ',':
			return e, i, nil
		case '(', '[':
			if e.dim != "" {
				return e, 0, fail(exc.CodeMalformedVariable, "variable %s has a second dimension", e.name)
			}
			after, err := Region(list, i)
			if err != nil {
				return e, 0, exc.Wrap(exc.Location{}, exc.CodeMalformedVariable, err)
			}
			e.dim = list[i:after]
			i = after
		case '=':
			i = i + 1
			if strings.HasPrefix(list[i:], ">") {
				e.pointerInit = true
				i = i + 1
			}
			end, err := initializer(list, i)
			if err != nil {
				return e, 0, err
			}
			if end == i {
				return e, 0, fail(exc.CodeMalformedVariable, "variable %s has an empty initializer", e.name)
			}
			e.init = list[i:end]
			return e, end, nil
		default:
			return e, 0, fail(exc.CodeMalformedVariable, "unexpected %q after variable %s", list[i], e.name)
		}
	}
	return e, i, nil
}

// initializer scans a free-form expression starting at offset start up to
// the next top-level comma. Outside strings and brackets only operand and
// operator characters are accepted.
func initializer(list string, start int) (int, error) {
	bad := -1
	end, err := scan(list, start, func(at int, depth int) bool {
		if depth > 0 {
			return false
		}
		if list[at] == ',' {
			return true
		}
		if list[at] == '=' && comparison(list, start, at) {
			return false
		}
		if !initChar(list[at]) {
			bad = at
			return true
		}
		return false
	})
	if err != nil {
		return end, exc.Wrap(exc.Location{}, exc.CodeMalformedVariable, err)
	}
	if bad >= 0 {
		return end, fail(exc.CodeMalformedVariable, "unexpected %q in initializer %q", list[bad], list[start:])
	}
	return end, nil
}

// comparison reports whether the '=' at offset at is part of one of the
// operators ==, /=, <= or >= within the initializer that begins at start.
func comparison(list string, start int, at int) bool {
	if at+1 < len(list) && list[at+1] == '=' {
		return true
	}
	return at > start && strings.IndexByte("=/<>", list[at-1]) >= 0
}

func initChar(c byte) bool {
	if isWord(c) {
		return true
	}
	switch c {
	case '+', '-', '*', '/', '.', '>', '<', '%', '\'', '"', '(', ')', '[', ']':
		return true
	}
	return false
}
