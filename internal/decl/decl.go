// Package decl decodes normalized type declaration statements such as
// "INTEGER,DIMENSION(3),INTENT(IN)::A,B(2)=0" into a type, an attribute list
// and the declared variables.
package decl

import (
	"strings"

	"gopkg.microglot.org/fparse.go/internal/ast"
	"gopkg.microglot.org/fparse.go/internal/exc"
)

// Declaration is a decoded type declaration statement.
type Declaration struct {
	Type       ast.TypeSpec
	Attributes []ast.Attribute
	Variables  []*ast.Variable
}

// Visibility returns the visibility given by an explicit PUBLIC or PRIVATE
// attribute, if any.
func (d *Declaration) Visibility() ast.Visibility {
	for _, a := range d.Attributes {
		if v, ok := ast.VisibilityFromKeyword(a.Keyword); ok && a.Kind == ast.AttributeKeyword {
			return v
		}
	}
	return ast.VisibilityUnset
}

// Decode decodes text. It returns a nil Declaration and no error when text is
// not a declaration, which happens for executable statements that merely
// start like one, e.g. "REAL_FILE_NAME=...". Errors carry no location.
func Decode(text string) (*Declaration, error) {
	spec, end, ok, err := ParseType(text)
	if err != nil || !ok {
		return nil, err
	}
	rest := text[end:]
	var attrList, varList string
	switch {
	case rest == "":
		return nil, fail(exc.CodeMalformedDeclaration, "declaration of type %s has no variables", spec)
	case rest[0] == '=' || rest[0] == '%':
		return nil, nil
	case rest[0] == ',' || rest[0] == ':':
		sep, err := topLevel(rest, "::")
		if err != nil {
			return nil, exc.Wrap(exc.Location{}, exc.CodeMalformedDeclaration, err)
		}
		if sep < 0 {
			return nil, fail(exc.CodeMalformedDeclaration, "attribute list without '::'")
		}
		attrList = rest[:sep]
		varList = rest[sep+len("::"):]
	case rest[0] == ' ':
		varList = rest[1:]
	case isLetter(rest[0]) && spec.Parameter != "":
		// The space after ")" is dropped during normalization.
		varList = rest
	default:
		return nil, fail(exc.CodeMalformedDeclaration, "unexpected %q after type %s", rest[0], spec)
	}

	decl := &Declaration{Type: spec}
	if attrList != "" {
		decl.Attributes, err = ParseAttributes(attrList, VariableAttributes)
		if err != nil {
			return nil, err
		}
	}
	if strings.HasPrefix(varList, ",") {
		return nil, fail(exc.CodeMalformedVariable, "variable list starts with ','")
	}
	decl.Variables, err = parseVariables(varList, spec, decl.Attributes)
	if err != nil {
		return nil, err
	}
	return decl, nil
}
