package parser

import (
	"strings"

	"gopkg.microglot.org/fparse.go/internal/ast"
	"gopkg.microglot.org/fparse.go/internal/decl"
	"gopkg.microglot.org/fparse.go/internal/exc"
)

// TypeDef = "TYPE" [ Attributes "::" | "::" | " " ] name
//
//	{ "PRIVATE" | "SEQUENCE" | Declaration } "END TYPE" [ name ]
//
// Members are PRIVATE only when the body says PRIVATE.
func (p *parserStatements) parseType() *ast.TypeDef {
	stmt, ok := p.advance()
	if !ok {
		return nil
	}
	this := &ast.TypeDef{}
	rest := strings.TrimPrefix(stmt.Text, "TYPE")
	switch {
	case strings.HasPrefix(rest, ","):
		sep := strings.Index(rest, "::")
		if sep < 0 {
			p.fail(stmt, exc.CodeUnexpectedStatement, "type attributes without '::'")
			return nil
		}
		attrs, err := decl.ParseAttributes(rest[:sep], decl.TypeAttributes)
		if err != nil {
			p.relocate(stmt, err)
			return nil
		}
		this.Attributes = attrs
		rest = rest[sep+2:]
	case strings.HasPrefix(rest, "::"):
		rest = rest[2:]
	case strings.HasPrefix(rest, " "):
		rest = rest[1:]
	default:
		p.fail(stmt, exc.CodeUnexpectedStatement, "malformed TYPE statement")
		return nil
	}
	if rest == "" || decl.Identifier(rest) != rest {
		p.fail(stmt, exc.CodeUnexpectedStatement, "malformed type name %q", rest)
		return nil
	}
	this.Name = rest

	members := newScope()
	for !p.done() {
		stmt, ok := p.advance()
		if !ok {
			return nil
		}
		text := stmt.Text
		if closing, end := endOf(text, "TYPE"); end {
			if closing != "" && closing != this.Name {
				p.fail(stmt, exc.CodeUnexpectedStatement, "END TYPE %s closes %s", closing, this.Name)
				return nil
			}
			break
		}
		switch {
		case text == "PRIVATE":
			members.private = true
		case text == "SEQUENCE":
		case decl.LooksLike(text):
			d, err := decl.Decode(text)
			if err != nil {
				p.relocate(stmt, err)
				return nil
			}
			if d == nil {
				p.fail(stmt, exc.CodeMalformedDeclaration, "executable statement in type %s", this.Name)
				return nil
			}
			members.declare(stmt, d)
		default:
			p.fail(stmt, exc.CodeUnexpectedStatement, "unexpected statement in type %s", this.Name)
			return nil
		}
	}
	if p.failure != nil || !members.resolve(p) {
		return nil
	}
	this.Variables = members.variables()
	return this
}
