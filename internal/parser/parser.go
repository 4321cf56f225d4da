// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

// Package parser turns the logical statements of one preprocessed source file
// into an ast.Module. Parsing is a single forward pass with one statement of
// lookahead. The first malformed statement ends the run.
package parser

import (
	"context"
	"strings"

	"gopkg.microglot.org/fparse.go/internal/ast"
	"gopkg.microglot.org/fparse.go/internal/exc"
	"gopkg.microglot.org/fparse.go/internal/source"
)

type Parser struct {
	reporter exc.Reporter
}

// New returns a Parser that reports to reporter.
func New(reporter exc.Reporter) *Parser {
	return &Parser{reporter: reporter}
}

// Parse parses the module held by buf. On failure the exception is reported
// and returned, and no module is returned.
func (self *Parser) Parse(ctx context.Context, buf *source.Buffer) (*ast.Module, error) {
	p := &parserStatements{
		reporter: self.reporter,
		ctx:      ctx,
		cur:      source.Begin(buf),
	}
	module := p.parse()
	if p.failure != nil {
		return nil, p.failure
	}
	if module == nil {
		return nil, exc.New(exc.Location{File: buf.Name()}, exc.CodeUnknownFatal, "parse stopped without a reported error")
	}
	return module, nil
}

type parserStatements struct {
	reporter exc.Reporter
	ctx      context.Context
	cur      source.Cursor
	// failure is the first fatal exception reported.
	failure exc.Exception
}

func (p *parserStatements) report(e exc.Exception) {
	if fatal := p.reporter.Report(e); fatal != nil && p.failure == nil {
		p.failure = fatal
	}
}

// fail reports an exception located at stmt.
func (p *parserStatements) fail(stmt source.Statement, code string, format string, args ...interface{}) {
	p.report(exc.Newf(stmt.Location(), code, format, args...))
}

// relocate reports err, placing it at stmt unless it already has a location.
func (p *parserStatements) relocate(stmt source.Statement, err error) {
	p.report(exc.Relocate(stmt.Location(), err))
}

func (p *parserStatements) done() bool {
	if p.failure != nil {
		return true
	}
	if err := p.ctx.Err(); err != nil {
		p.report(exc.Wrap(p.cur.Locus().Location(), exc.CodeUnknownFatal, err))
		return true
	}
	return false
}

// peek returns the next statement without consuming it.
func (p *parserStatements) peek() (source.Statement, bool) {
	stmt, err := p.cur.PeekStatement()
	if err != nil {
		p.report(exc.Relocate(p.cur.Locus().Location(), err))
		return source.Statement{}, false
	}
	return stmt, true
}

// advance consumes the next statement.
func (p *parserStatements) advance() (source.Statement, bool) {
	stmt, next, err := p.cur.NextStatement()
	if err != nil {
		p.report(exc.Relocate(p.cur.Locus().Location(), err))
		return source.Statement{}, false
	}
	p.cur = next
	return stmt, true
}

// expectEnd consumes the statement that closes a block of the given kind,
// e.g. "END MODULE FOO" or "ENDMODULE".
func (p *parserStatements) expectEnd(kind string, name string) bool {
	stmt, ok := p.advance()
	if !ok {
		return false
	}
	closing, ok := endOf(stmt.Text, kind)
	if !ok {
		p.fail(stmt, exc.CodeUnexpectedStatement, "expected END %s", kind)
		return false
	}
	if closing != "" && closing != name {
		p.fail(stmt, exc.CodeUnexpectedStatement, "END %s %s closes %s", kind, closing, name)
		return false
	}
	return true
}

// endOf reports whether text closes a block of the given kind and returns the
// block name it repeats, if any.
func endOf(text string, kind string) (string, bool) {
	rest, found := strings.CutPrefix(text, "END")
	if !found {
		return "", false
	}
	rest = strings.TrimPrefix(rest, " ")
	rest, found = strings.CutPrefix(rest, kind)
	if !found {
		return "", false
	}
	if rest == "" {
		return "", true
	}
	if rest[0] != ' ' {
		return "", false
	}
	return rest[1:], true
}

func keywordOf(text string) string {
	first, _, _ := strings.Cut(text, " ")
	return first
}
