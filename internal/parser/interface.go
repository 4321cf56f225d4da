package parser

import (
	"strings"

	"gopkg.microglot.org/fparse.go/internal/ast"
	"gopkg.microglot.org/fparse.go/internal/exc"
)

// Interface = "INTERFACE" [ name ] { "MODULE PROCEDURE" name { "," name } | Routine } "END INTERFACE"
func (p *parserStatements) parseInterface() *ast.Interface {
	stmt, ok := p.advance()
	if !ok {
		return nil
	}
	rest, _ := strings.CutPrefix(stmt.Text, "INTERFACE")
	if rest != "" && rest[0] != ' ' {
		p.fail(stmt, exc.CodeUnexpectedStatement, "malformed INTERFACE statement")
		return nil
	}
	this := &ast.Interface{Name: strings.TrimPrefix(rest, " ")}

	for !p.done() {
		stmt, ok := p.peek()
		if !ok {
			return nil
		}
		text := stmt.Text
		if _, end := endOf(text, "INTERFACE"); end {
			p.advance()
			return this
		}
		if list, found := strings.CutPrefix(text, "MODULE PROCEDURE"); found {
			p.advance()
			if this.Name == "" {
				p.fail(stmt, exc.CodeInterfaceViolation, "MODULE PROCEDURE in an anonymous interface")
				return nil
			}
			list = strings.TrimPrefix(strings.TrimPrefix(list, "::"), " ")
			if list == "" {
				p.fail(stmt, exc.CodeUnexpectedStatement, "empty MODULE PROCEDURE list")
				return nil
			}
			this.Task = ast.InterfaceTaskOverloading
			this.Procedures = append(this.Procedures, strings.Split(list, ",")...)
			continue
		}
		r := p.parseRoutine()
		if r == nil {
			return nil
		}
		this.Procedures = append(this.Procedures, r.Name)
	}
	return nil
}
