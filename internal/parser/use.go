package parser

import (
	"strings"

	"gopkg.microglot.org/fparse.go/internal/ast"
	"gopkg.microglot.org/fparse.go/internal/decl"
	"gopkg.microglot.org/fparse.go/internal/exc"
)

const apiMarker = "!API"

// Use = "USE" [ "," ( "INTRINSIC" | "NON_INTRINSIC" ) "::" ] name [ "," "ONLY:" Only { "," Only } ]
// Only = name [ "=>" name ]
func (p *parserStatements) parseUse() *ast.UseStatement {
	stmt, ok := p.advance()
	if !ok {
		return nil
	}
	this := &ast.UseStatement{}
	rest := strings.TrimPrefix(stmt.Text, "USE")
	switch {
	case strings.HasPrefix(rest, ","):
		nature := decl.Identifier(rest[1:])
		switch nature {
		case "INTRINSIC":
			this.Intrinsic = true
		case "NON_INTRINSIC":
		default:
			p.fail(stmt, exc.CodeUnexpectedStatement, "unknown module nature %q", nature)
			return nil
		}
		rest, ok = strings.CutPrefix(rest[1+len(nature):], "::")
		if !ok {
			p.fail(stmt, exc.CodeUnexpectedStatement, "expected '::' after the module nature")
			return nil
		}
	case strings.HasPrefix(rest, "::"):
		rest = rest[2:]
	default:
		rest = strings.TrimPrefix(rest, " ")
	}

	this.Module = decl.Identifier(rest)
	if this.Module == "" {
		p.fail(stmt, exc.CodeUnexpectedStatement, "expected a module name")
		return nil
	}
	rest = rest[len(this.Module):]
	if rest == "" {
		return this
	}
	list, ok := strings.CutPrefix(rest, ",ONLY:")
	if !ok {
		p.fail(stmt, exc.CodeUnexpectedStatement, "only USE with an ONLY list can rename")
		return nil
	}
	if list == "" {
		p.fail(stmt, exc.CodeUnexpectedStatement, "empty ONLY list")
		return nil
	}
	this.Only = make(map[string]string)
	for _, item := range strings.Split(list, ",") {
		local, imported, renamed := strings.Cut(item, "=>")
		if !renamed {
			imported = local
		}
		if decl.Identifier(local) != local || decl.Identifier(imported) != imported || local == "" || imported == "" {
			p.fail(stmt, exc.CodeUnexpectedStatement, "malformed ONLY item %q", item)
			return nil
		}
		this.Only[imported] = local
	}
	return this
}

// PublicPrivateList = ( "PUBLIC" | "PRIVATE" ) ( "::" | " " ) name { "," name }
//
// The list is marked as API when the line right above it is an "!API"
// comment.
func (p *parserStatements) parsePublicPrivate(vars *scope) []*ast.PublicPrivateSymbol {
	stmt, ok := p.advance()
	if !ok {
		return nil
	}
	keyword := decl.Identifier(stmt.Text)
	vis, ok := ast.VisibilityFromKeyword(keyword)
	if !ok {
		p.fail(stmt, exc.CodeUnexpectedStatement, "expected PUBLIC or PRIVATE")
		return nil
	}
	rest := stmt.Text[len(keyword):]
	list, ok := strings.CutPrefix(rest, "::")
	if !ok {
		list, ok = strings.CutPrefix(rest, " ")
	}
	if !ok || list == "" {
		p.fail(stmt, exc.CodeUnexpectedStatement, "malformed %s statement", keyword)
		return nil
	}

	isAPI := false
	if prev, _, err := p.cur.PeekPrevLine(); err == nil {
		isAPI = strings.HasPrefix(strings.ReplaceAll(prev, " ", ""), apiMarker)
	}

	var syms []*ast.PublicPrivateSymbol
	for _, name := range strings.Split(list, ",") {
		if name == "" {
			p.fail(stmt, exc.CodeUnexpectedStatement, "empty name in %s list", keyword)
			return nil
		}
		if err := vars.list(name, vis); err != nil {
			p.relocate(stmt, err)
			return nil
		}
		syms = append(syms, &ast.PublicPrivateSymbol{Name: name, Visibility: vis, IsAPI: isAPI})
	}
	return syms
}
