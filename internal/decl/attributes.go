package decl

import (
	"strings"

	"gopkg.microglot.org/fparse.go/internal/ast"
	"gopkg.microglot.org/fparse.go/internal/exc"
)

// AllowList maps each accepted attribute keyword to how it is checked.
// AttributeKeyword entries take no payload, AttributeIntent entries take one
// of IN, OUT or INOUT, and every other kind requires a non-empty payload that
// is kept raw.
type AllowList map[string]ast.AttributeKind

// VariableAttributes is accepted on type declaration statements.
var VariableAttributes = AllowList{
	"ALLOCATABLE": ast.AttributeKeyword,
	"EXTERNAL":    ast.AttributeKeyword,
	"OPTIONAL":    ast.AttributeKeyword,
	"PARAMETER":   ast.AttributeKeyword,
	"POINTER":     ast.AttributeKeyword,
	"PRIVATE":     ast.AttributeKeyword,
	"PUBLIC":      ast.AttributeKeyword,
	"SAVE":        ast.AttributeKeyword,
	"TARGET":      ast.AttributeKeyword,
	"VALUE":       ast.AttributeKeyword,
	"VOLATILE":    ast.AttributeKeyword,
	"INTENT":      ast.AttributeIntent,
	"DIMENSION":   ast.AttributeDimension,
	"BIND":        ast.AttributeBind,
}

// TypeAttributes is accepted on derived type definition statements.
var TypeAttributes = AllowList{
	"ABSTRACT": ast.AttributeKeyword,
	"PRIVATE":  ast.AttributeKeyword,
	"PUBLIC":   ast.AttributeKeyword,
	"BIND":     ast.AttributeBind,
	"EXTENDS":  ast.AttributeExtends,
}

var intents = map[string]string{
	"IN":     "IN",
	"OUT":    "OUT",
	"INOUT":  "INOUT",
	"IN OUT": "INOUT",
}

// ParseAttributes decodes a list of the form ",KW1[(payload)],KW2...".
func ParseAttributes(list string, allow AllowList) ([]ast.Attribute, error) {
	var attrs []ast.Attribute
	seen := make(map[string]bool)
	for list != "" {
		attr, raw, err := nextAttribute(list)
		if err != nil {
			return nil, err
		}
		kind, ok := allow[attr.Keyword]
		if !ok {
			return nil, fail(exc.CodeUnknownAttribute, "unknown attribute %s", attr.Keyword)
		}
		attr.Kind = kind
		switch kind {
		case ast.AttributeKeyword:
			if attr.Payload != "" {
				return nil, fail(exc.CodeMalformedAttributeList, "attribute %s takes no argument", attr.Keyword)
			}
		case ast.AttributeIntent:
			intent, ok := intents[strings.TrimSuffix(strings.TrimPrefix(attr.Payload, "("), ")")]
			if !ok {
				return nil, fail(exc.CodeMalformedAttributeList, "invalid intent %s", attr.Payload)
			}
			attr.Payload = "(" + intent + ")"
		default:
			if len(attr.Payload) <= len("()") {
				return nil, fail(exc.CodeMalformedAttributeList, "attribute %s requires an argument", attr.Keyword)
			}
		}
		if seen[attr.Keyword] {
			return nil, fail(exc.CodeDuplicateAttribute, "attribute %s given twice", attr.Keyword)
		}
		seen[attr.Keyword] = true
		attrs = append(attrs, attr)

		skip := "," + raw
		if !strings.HasPrefix(list, skip) {
			return nil, fail(exc.CodeMalformedAttributeList, "attribute %s does not match %q", raw, list)
		}
		list = list[len(skip):]
	}
	return attrs, nil
}

// nextAttribute reads the first ",KW[(payload)]" entry of list. raw is the
// scanned text without the leading comma.
func nextAttribute(list string) (ast.Attribute, string, error) {
	if !strings.HasPrefix(list, ",") {
		return ast.Attribute{}, "", fail(exc.CodeMalformedAttributeList, "expected ',' at %q", list)
	}
	kw := Identifier(list[1:])
	if kw == "" {
		return ast.Attribute{}, "", fail(exc.CodeMalformedAttributeList, "expected an attribute keyword at %q", list)
	}
	end := 1 + len(kw)
	payload := ""
	if end < len(list) && list[end] == '(' {
		after, err := Region(list, end)
		if err != nil {
			return ast.Attribute{}, "", exc.Wrap(exc.Location{}, exc.CodeMalformedAttributeList, err)
		}
		payload = list[end:after]
		end = after
	}
	if end < len(list) && list[end] != ',' {
		return ast.Attribute{}, "", fail(exc.CodeMalformedAttributeList, "unexpected %q after attribute %s", list[end], kw)
	}
	return ast.Attribute{Keyword: kw, Payload: payload}, list[1:end], nil
}
