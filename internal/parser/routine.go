package parser

import (
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"gopkg.microglot.org/fparse.go/internal/ast"
	"gopkg.microglot.org/fparse.go/internal/decl"
	"gopkg.microglot.org/fparse.go/internal/doxygen"
	"gopkg.microglot.org/fparse.go/internal/exc"
	"gopkg.microglot.org/fparse.go/internal/source"
)

// headerPattern splits a routine header into prefix, kind, name, argument
// list and postfix.
var headerPattern = regexp.MustCompile(`^(.*)(FUNCTION|SUBROUTINE) (\w+)(?:\((.*?)\))?(.*)$`)

type header struct {
	prefix  string
	kind    ast.RoutineKind
	name    string
	args    string
	postfix string
}

func matchHeader(text string) (header, bool) {
	m := headerPattern.FindStringSubmatch(text)
	if m == nil {
		return header{}, false
	}
	kind, _ := ast.RoutineKindFromKeyword(m[2])
	return header{prefix: m[1], kind: kind, name: m[3], args: m[4], postfix: m[5]}, true
}

// nested reports whether every prefix token is a routine marker or a type,
// which tells a nested routine header apart from a statement that merely
// contains the word FUNCTION or SUBROUTINE.
func (h header) nested() bool {
	for _, tok := range strings.Fields(h.prefix) {
		if !routineMarkers[tok] && !decl.LooksLike(tok) {
			return false
		}
	}
	return true
}

// Routine = [ Documentation ] Header { Declaration | Interface | Use | "IMPORT" | "IMPLICIT NONE" } Body
func (p *parserStatements) parseRoutine() *ast.Routine {
	stmt, ok := p.advance()
	if !ok {
		return nil
	}
	h, ok := matchHeader(stmt.Text)
	if !ok {
		p.fail(stmt, exc.CodeUnexpectedStatement, "expected a subroutine or a function header")
		return nil
	}
	block, err := doxygen.Find(p.ctx, p.cur, stmt.Start)
	if err != nil {
		p.relocate(stmt, err)
		return nil
	}
	doc := block.Interpret()

	this := &ast.Routine{Kind: h.kind, Name: h.name, Summary: doc.Summary, Authors: doc.Authors}
	if h.kind == ast.RoutineFunction {
		this.ReturnValue = &ast.ReturnValue{Name: h.name}
	}
	if !p.decodeArguments(stmt, this, h.args) || !p.decodePrefix(stmt, this, h.prefix) || !p.decodePostfix(stmt, this, h.postfix) {
		return nil
	}
	for _, a := range this.Arguments {
		a.Description = doc.Params[a.Name]
	}
	if rv := this.ReturnValue; rv != nil {
		rv.Description = doc.Retvals[rv.Name]
		if rv.Description == "" {
			rv.Description = doc.Retvals[this.Name]
		}
	}

	if !p.parseRoutineDeclarations(this) {
		return nil
	}
	for _, a := range this.Arguments {
		if !a.Type.IsResolved() {
			p.fail(stmt, exc.CodeMissingType, "argument %s of %s has no type declaration", a.Name, this.Name)
			return nil
		}
	}
	if rv := this.ReturnValue; rv != nil && !rv.Type.IsResolved() {
		p.fail(stmt, exc.CodeMissingType, "return value %s of %s has no type declaration", rv.Name, this.Name)
		return nil
	}
	if !p.skipBody(h.kind) {
		return nil
	}

	log.WithFields(log.Fields{
		"routine": this.Name,
		"kind":    this.Kind.String(),
		"locus":   stmt.Locus.String(),
	}).Debug("parsed routine")
	return this
}

func (p *parserStatements) decodeArguments(stmt source.Statement, this *ast.Routine, args string) bool {
	if args == "" {
		return true
	}
	for _, name := range strings.Split(args, ",") {
		if name == "" || decl.Identifier(name) != name {
			p.fail(stmt, exc.CodeUnexpectedStatement, "malformed argument name %q", name)
			return false
		}
		this.Arguments = append(this.Arguments, &ast.Argument{Name: name})
	}
	return true
}

// decodePrefix reads the routine markers and, for functions, the result type
// written in front of the routine keyword.
func (p *parserStatements) decodePrefix(stmt source.Statement, this *ast.Routine, prefix string) bool {
	for _, tok := range strings.Fields(prefix) {
		if routineMarkers[tok] {
			this.Attributes = append(this.Attributes, tok)
			continue
		}
		if !decl.LooksLike(tok) {
			p.fail(stmt, exc.CodeUnexpectedStatement, "unknown routine prefix %s", tok)
			return false
		}
		if this.ReturnValue == nil {
			p.fail(stmt, exc.CodeUnexpectedStatement, "result type %s given for subroutine %s", tok, this.Name)
			return false
		}
		spec, end, ok, err := decl.ParseType(tok)
		if err != nil {
			p.relocate(stmt, err)
			return false
		}
		if !ok || end != len(tok) {
			p.fail(stmt, exc.CodeMalformedDeclaration, "malformed result type %s", tok)
			return false
		}
		if this.ReturnValue.Type.IsResolved() {
			p.fail(stmt, exc.CodeMalformedDeclaration, "result type of %s given twice", this.Name)
			return false
		}
		this.ReturnValue.Type = spec
	}
	return true
}

// decodePostfix reads RESULT(name) and BIND(...) clauses after the argument
// list.
func (p *parserStatements) decodePostfix(stmt source.Statement, this *ast.Routine, postfix string) bool {
	rest := strings.TrimSpace(postfix)
	for rest != "" {
		keyword := decl.Identifier(rest)
		if (keyword != "RESULT" && keyword != "BIND") || !strings.HasPrefix(rest[len(keyword):], "(") {
			p.fail(stmt, exc.CodeUnexpectedStatement, "unexpected %q after the argument list", rest)
			return false
		}
		end, err := decl.Region(rest, len(keyword))
		if err != nil {
			p.relocate(stmt, exc.Wrap(exc.Location{}, exc.CodeUnexpectedStatement, err))
			return false
		}
		payload := rest[len(keyword):end]
		switch keyword {
		case "RESULT":
			name := payload[1 : len(payload)-1]
			if this.ReturnValue == nil || decl.Identifier(name) != name || name == "" {
				p.fail(stmt, exc.CodeUnexpectedStatement, "malformed RESULT clause %s", payload)
				return false
			}
			this.ReturnValue.Name = name
		case "BIND":
			this.Attributes = append(this.Attributes, keyword+payload)
		}
		rest = strings.TrimSpace(rest[end:])
	}
	return true
}

// parseRoutineDeclarations types the arguments and the return value from the
// declarations that follow the header. Declarations of other names are
// local variables and are dropped. The loop ends at the first statement that
// is not part of the specification part.
func (p *parserStatements) parseRoutineDeclarations(this *ast.Routine) bool {
	args := this.ArgumentIndex()
	for !p.done() {
		stmt, ok := p.peek()
		if !ok {
			return false
		}
		text := stmt.Text
		switch {
		case decl.LooksLike(text):
			d, err := decl.Decode(text)
			if err != nil {
				p.relocate(stmt, err)
				return false
			}
			if d == nil {
				return true
			}
			p.advance()
			for _, v := range d.Variables {
				if offset, ok := args[v.Name]; ok {
					a := this.Arguments[offset]
					if a.Type.IsResolved() {
						p.fail(stmt, exc.CodeMalformedDeclaration, "argument %s of %s declared twice", v.Name, this.Name)
						return false
					}
					a.Type = v.Type
					a.Attributes = v.Attributes
				} else if rv := this.ReturnValue; rv != nil && rv.Name == v.Name {
					if rv.Type.IsResolved() {
						p.fail(stmt, exc.CodeMalformedDeclaration, "return value %s of %s declared twice", v.Name, this.Name)
						return false
					}
					rv.Type = v.Type
					rv.Attributes = v.Attributes
				}
			}
		case strings.HasPrefix(text, "INTERFACE"):
			i := p.parseInterface()
			if i == nil {
				return false
			}
			if i.Name != "" || len(i.Procedures) != 1 {
				p.fail(stmt, exc.CodeInterfaceViolation, "an interface inside %s must be anonymous and declare one procedure", this.Name)
				return false
			}
			offset, ok := args[i.Procedures[0]]
			if !ok {
				p.fail(stmt, exc.CodeInterfaceViolation, "interface procedure %s is not an argument of %s", i.Procedures[0], this.Name)
				return false
			}
			this.Arguments[offset].Type = ast.TypeSpec{Kind: ast.TypeDummyProcedure}
		case strings.HasPrefix(text, "USE ") || strings.HasPrefix(text, "USE,") || strings.HasPrefix(text, "USE::"),
			strings.HasPrefix(text, "IMPORT"),
			text == "IMPLICIT NONE":
			p.advance()
		default:
			return true
		}
	}
	return false
}

// skipBody consumes statements up to the END statement of the routine.
// Nested routine headers open new frames that must be closed by END
// statements of the same kind.
func (p *parserStatements) skipBody(kind ast.RoutineKind) bool {
	stack := []ast.RoutineKind{kind}
	for len(stack) > 0 && !p.done() {
		stmt, ok := p.advance()
		if !ok {
			return false
		}
		closing := ast.RoutineUnknown
		if strings.HasPrefix(stmt.Text, "END SUBROUTINE") || strings.HasPrefix(stmt.Text, "ENDSUBROUTINE") {
			closing = ast.RoutineSubroutine
		} else if strings.HasPrefix(stmt.Text, "END FUNCTION") || strings.HasPrefix(stmt.Text, "ENDFUNCTION") {
			closing = ast.RoutineFunction
		}
		if closing != ast.RoutineUnknown {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top != closing {
				p.fail(stmt, exc.CodeRoutineNesting, "END %s closes a %s", closing, top)
				return false
			}
			continue
		}
		if h, ok := matchHeader(stmt.Text); ok && h.nested() {
			stack = append(stack, h.kind)
		}
	}
	return p.failure == nil
}
