// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package compiler

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"gopkg.microglot.org/fparse.go/internal/ast"
	"gopkg.microglot.org/fparse.go/internal/cpp"
	"gopkg.microglot.org/fparse.go/internal/exc"
	"gopkg.microglot.org/fparse.go/internal/fs"
	"gopkg.microglot.org/fparse.go/internal/iter"
	"gopkg.microglot.org/fparse.go/internal/parser"
	"gopkg.microglot.org/fparse.go/internal/source"
)

// Preprocessor expands the macros of the file at path and returns the
// resulting text with its line markers.
type Preprocessor interface {
	Preprocess(ctx context.Context, path string) (string, error)
}

type CompileRequest struct {
	// Input is the path of the source file. It must end in fs.SourceExt.
	Input string
	// Output is the path the artifact is written to. It must end in
	// fs.ASTExt. An empty Output skips the write.
	Output string
	// SkipPreprocess reads Input verbatim instead of running the
	// preprocessor over it.
	SkipPreprocess bool
	// DumpStatements logs every logical statement at trace level before
	// parsing.
	DumpStatements bool
}

type CompileResponse struct {
	Module   *ast.Module
	Stats    ast.Stats
	Artifact string
}

type Compiler interface {
	Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error)
}

type Option func(c *compiler) error

func OptionWithFS(fs fs.FileSystem) Option {
	return func(c *compiler) error {
		c.FS = fs
		return nil
	}
}

func OptionWithPreprocessor(p Preprocessor) Option {
	return func(c *compiler) error {
		c.Preprocessor = p
		return nil
	}
}

func OptionWithExcReporter(reporter exc.Reporter) Option {
	return func(c *compiler) error {
		c.Reporter = reporter
		return nil
	}
}

func New(opts ...Option) (Compiler, error) {
	c := &compiler{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.FS == nil {
		dfs, err := fs.NewFileSystemLocal("/")
		if err != nil {
			return nil, err
		}
		c.FS = dfs
	}
	if c.Preprocessor == nil {
		c.Preprocessor = cpp.New()
	}
	if c.Reporter == nil {
		c.Reporter = exc.NewReporter(nil)
	}
	return c, nil
}

type compiler struct {
	FS           fs.FileSystem
	Preprocessor Preprocessor
	Reporter     exc.Reporter
}

func (self *compiler) Compile(ctx context.Context, req *CompileRequest) (*CompileResponse, error) {
	if fs.KindOf(req.Input) != fs.KindSource {
		return nil, self.report(exc.Newf(exc.Location{File: req.Input}, exc.CodeUnsupportedFileFormat, "input must end in %s", fs.SourceExt))
	}
	if req.Output != "" && fs.KindOf(req.Output) != fs.KindAST {
		return nil, self.report(exc.Newf(exc.Location{File: req.Output}, exc.CodeUnsupportedFileFormat, "output must end in %s", fs.ASTExt))
	}
	start := time.Now()
	logger := log.WithFields(log.Fields{
		"run":   "run_" + uuid.New().String(),
		"input": req.Input,
	})

	text, err := self.read(ctx, logger, req)
	if err != nil {
		return nil, err
	}
	buf := source.NewBuffer(req.Input, text)
	if req.DumpStatements {
		dumpStatements(ctx, logger, buf)
	}
	module, err := parser.New(self.Reporter).Parse(ctx, buf)
	if err != nil {
		if all := self.Reporter.Err(); all != nil {
			return nil, all
		}
		return nil, err
	}
	stats := ast.Count(module)
	logger.WithFields(log.Fields{
		"module":      module.Name,
		"uses":        stats.Uses,
		"variables":   stats.Variables,
		"types":       stats.Types,
		"interfaces":  stats.Interfaces,
		"subroutines": stats.Subroutines,
		"functions":   stats.Functions,
		"elapsed":     time.Since(start).String(),
	}).Debug("compiled module")

	var b strings.Builder
	if err := ast.Encode(&b, module); err != nil {
		return nil, self.report(exc.WrapUnknown(exc.Location{File: req.Output}, err))
	}
	if req.Output != "" {
		if err := self.FS.Write(ctx, req.Output, b.String()); err != nil {
			return nil, self.report(exc.Relocate(exc.Location{File: req.Output}, err))
		}
		logger.WithField("bytes", b.Len()).Debug("artifact written")
	}
	return &CompileResponse{
		Module:   module,
		Stats:    stats,
		Artifact: b.String(),
	}, nil
}

// read returns the text the parser runs over. The input is opened even when
// it is preprocessed so that a missing file is reported as such.
func (self *compiler) read(ctx context.Context, logger *log.Entry, req *CompileRequest) (string, error) {
	f, err := self.FS.Open(ctx, req.Input)
	if err != nil {
		return "", self.report(exc.Relocate(exc.Location{File: req.Input}, err))
	}
	if req.SkipPreprocess {
		logger.Debug("reading input without preprocessing")
		body, err := f.Body(ctx)
		if err != nil {
			return "", self.report(exc.Relocate(exc.Location{File: req.Input}, err))
		}
		return body, nil
	}
	logger.Debug("preprocessing input")
	text, err := self.Preprocessor.Preprocess(ctx, req.Input)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", self.report(exc.Relocate(exc.Location{File: req.Input}, err))
	}
	return text, nil
}

// dumpStatements logs the logical statement stream of buf at trace level. A
// malformed statement stops the dump; the parser reports it.
func dumpStatements(ctx context.Context, logger *log.Entry, buf *source.Buffer) {
	stmts, err := iter.Collect(ctx, source.Statements(source.Begin(buf)))
	for _, stmt := range stmts {
		logger.WithField("locus", stmt.Locus.String()).Trace(stmt.Text)
	}
	if err != nil {
		logger.WithError(err).Trace("statement dump stopped")
	}
}

// report records e and returns every exception reported so far as an
// exc.Multi. Nothing after a failed read or write can continue, so the run
// ends even when the code of e is configured as non-fatal.
func (self *compiler) report(e exc.Exception) error {
	if self.Reporter.Report(e) == nil {
		log.WithField("code", e.Code()).Debug("non-fatal exception ends the run")
	}
	return self.Reporter.Err()
}
