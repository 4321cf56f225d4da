package parser

import (
	"gopkg.microglot.org/fparse.go/internal/ast"
	"gopkg.microglot.org/fparse.go/internal/decl"
	"gopkg.microglot.org/fparse.go/internal/exc"
	"gopkg.microglot.org/fparse.go/internal/source"
)

type declaration struct {
	stmt source.Statement
	decl *decl.Declaration
}

// scope collects the variables of a module or derived type specification
// part together with everything that decides their visibility.
type scope struct {
	// private is set by a bare PRIVATE statement.
	private bool
	save    bool
	saveAt  source.Statement
	// listed maps names from PUBLIC and PRIVATE list statements onto the
	// visibility they were listed with.
	listed       map[string]ast.Visibility
	declarations []declaration
}

func newScope() *scope {
	return &scope{listed: make(map[string]ast.Visibility)}
}

func (s *scope) declare(stmt source.Statement, d *decl.Declaration) {
	for _, v := range d.Variables {
		v.Description = stmt.Comment
	}
	s.declarations = append(s.declarations, declaration{stmt: stmt, decl: d})
}

func (s *scope) variables() []*ast.Variable {
	var vars []*ast.Variable
	for _, d := range s.declarations {
		vars = append(vars, d.decl.Variables...)
	}
	return vars
}

// list records a name from a PUBLIC or PRIVATE list statement. A name listed
// with both visibilities is a conflict.
func (s *scope) list(name string, vis ast.Visibility) error {
	if prior, ok := s.listed[name]; ok && prior != vis {
		return exc.Newf(exc.Location{}, exc.CodeVisibilityConflict, "%s is listed as both %s and %s", name, prior, vis)
	}
	s.listed[name] = vis
	return nil
}

// resolve gives every variable its final visibility: an explicit attribute
// first, then list membership, then the scope default. When SAVE was given
// for the whole scope every variable also gets the SAVE attribute.
func (s *scope) resolve(p *parserStatements) bool {
	def := ast.VisibilityPublic
	if s.private {
		def = ast.VisibilityPrivate
	}
	for _, d := range s.declarations {
		for _, v := range d.decl.Variables {
			_, public := v.Attribute("PUBLIC")
			_, private := v.Attribute("PRIVATE")
			listed, isListed := s.listed[v.Name]
			switch {
			case public && private:
				p.fail(d.stmt, exc.CodeVisibilityConflict, "%s is declared both PUBLIC and PRIVATE", v.Name)
				return false
			case (public || private) && isListed:
				p.fail(d.stmt, exc.CodeVisibilityConflict, "%s has a visibility attribute and is also listed as %s", v.Name, listed)
				return false
			case public:
				v.Visibility = ast.VisibilityPublic
			case private:
				v.Visibility = ast.VisibilityPrivate
			case isListed:
				v.Visibility = listed
			default:
				v.Visibility = def
			}
			if !s.save {
				continue
			}
			if _, ok := v.Attribute("SAVE"); ok {
				p.fail(s.saveAt, exc.CodeDuplicateAttribute, "%s already has the SAVE attribute", v.Name)
				return false
			}
			v.Attributes = append(v.Attributes, ast.NewKeywordAttribute("SAVE"))
		}
	}
	return true
}
