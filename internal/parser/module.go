package parser

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"gopkg.microglot.org/fparse.go/internal/ast"
	"gopkg.microglot.org/fparse.go/internal/decl"
	"gopkg.microglot.org/fparse.go/internal/exc"
)

var routineMarkers = map[string]bool{
	"ELEMENTAL": true,
	"PURE":      true,
	"RECURSIVE": true,
}

// Module = "MODULE" name { Specification } [ "CONTAINS" { Routine } ] EndModule
func (p *parserStatements) parse() *ast.Module {
	stmt, ok := p.advance()
	if !ok {
		return nil
	}
	keyword, name, _ := strings.Cut(stmt.Text, " ")
	if keyword != "MODULE" || name == "" || decl.Identifier(name) != name {
		p.fail(stmt, exc.CodeUnexpectedStatement, "expected a MODULE statement")
		return nil
	}
	this := &ast.Module{Name: name}

	contains, ok := p.parseSpecification(this)
	if !ok {
		return nil
	}
	if contains && !p.parseRoutines(this) {
		return nil
	}
	if !p.expectEnd("MODULE", name) {
		return nil
	}

	if trailing, err := p.cur.PeekStatement(); err == nil {
		p.fail(trailing, exc.CodeUnexpectedStatement, "statement after END MODULE")
		return nil
	} else if exc.CodeOf(err) != exc.CodeEndOfInput {
		p.relocate(trailing, err)
		return nil
	}

	log.WithFields(log.Fields{
		"module":    this.Name,
		"variables": len(this.Variables),
		"types":     len(this.Types),
		"routines":  len(this.Routines),
	}).Debug("parsed module")
	return this
}

// Specification = Use | "IMPLICIT NONE" | "PRIVATE" | "PUBLIC" | "SAVE" |
//
//	Declaration | TypeDef | PublicPrivateList | Interface
//
// The specification part ends at CONTAINS, which is consumed, or in front of
// END MODULE.
func (p *parserStatements) parseSpecification(this *ast.Module) (bool, bool) {
	vars := newScope()
	contains := false
loop:
	for !p.done() {
		stmt, ok := p.peek()
		if !ok {
			return false, false
		}
		text := stmt.Text
		switch {
		case strings.HasPrefix(text, "USE ") || strings.HasPrefix(text, "USE,") || strings.HasPrefix(text, "USE::"):
			use := p.parseUse()
			if use == nil {
				return false, false
			}
			this.Uses = append(this.Uses, use)
		case text == "IMPLICIT NONE" || text == "PUBLIC":
			p.advance()
		case text == "PRIVATE":
			vars.private = true
			p.advance()
		case text == "SAVE":
			vars.save = true
			vars.saveAt = stmt
			p.advance()
		case decl.LooksLike(text):
			p.advance()
			d, err := decl.Decode(text)
			if err != nil {
				p.relocate(stmt, err)
				return false, false
			}
			if d == nil {
				p.fail(stmt, exc.CodeMalformedDeclaration, "executable statement in the specification part")
				return false, false
			}
			vars.declare(stmt, d)
		case strings.HasPrefix(text, "TYPE"):
			t := p.parseType()
			if t == nil {
				return false, false
			}
			this.Types = append(this.Types, t)
		case strings.HasPrefix(text, "PUBLIC") || strings.HasPrefix(text, "PRIVATE"):
			syms := p.parsePublicPrivate(vars)
			if syms == nil {
				return false, false
			}
			this.Symbols = append(this.Symbols, syms...)
		case strings.HasPrefix(text, "INTERFACE"):
			i := p.parseInterface()
			if i == nil {
				return false, false
			}
			this.Interfaces = append(this.Interfaces, i)
		case text == "CONTAINS":
			p.advance()
			contains = true
			break loop
		default:
			if _, end := endOf(text, "MODULE"); end {
				break loop
			}
			p.fail(stmt, exc.CodeUnexpectedStatement, "unexpected statement in the specification part of module %s", this.Name)
			return false, false
		}
	}
	if p.failure != nil || !vars.resolve(p) {
		return false, false
	}
	this.Variables = vars.variables()
	return contains, true
}

// parseRoutines reads the routines after CONTAINS, up to END MODULE.
func (p *parserStatements) parseRoutines(this *ast.Module) bool {
	for !p.done() {
		stmt, ok := p.peek()
		if !ok {
			return false
		}
		text := stmt.Text
		if _, end := endOf(text, "MODULE"); end {
			return true
		}
		keyword := keywordOf(text)
		isHeader := keyword == "SUBROUTINE" || keyword == "FUNCTION" || routineMarkers[keyword]
		// A declaration-shaped statement here is a function whose result
		// type is written in front of FUNCTION.
		if !isHeader && !(decl.LooksLike(text) && strings.Contains(text, "FUNCTION")) {
			p.fail(stmt, exc.CodeUnexpectedStatement, "expected a subroutine or a function in module %s", this.Name)
			return false
		}
		r := p.parseRoutine()
		if r == nil {
			return false
		}
		this.Routines = append(this.Routines, r)
	}
	return false
}
