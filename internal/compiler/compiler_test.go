package compiler

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/fparse.go/internal/ast"
	"gopkg.microglot.org/fparse.go/internal/exc"
	"gopkg.microglot.org/fparse.go/internal/fs"
)

type fakePreprocessor struct {
	text  string
	err   error
	calls []string
}

func (f *fakePreprocessor) Preprocess(ctx context.Context, path string) (string, error) {
	f.calls = append(f.calls, path)
	return f.text, f.err
}

const counter = `# 1 "counter.F"
MODULE counter
  IMPLICIT NONE
  PRIVATE
  PUBLIC :: bump
  INTEGER :: total = 0 !< running total
CONTAINS
!> \brief Adds n to the total.
!> \param n amount
  SUBROUTINE bump(n)
    INTEGER, INTENT(IN) :: n
    total = total + n
  END SUBROUTINE bump
END MODULE counter
`

const counterAST = `tag: module
name: COUNTER
`

func newCompiler(t *testing.T, pre Preprocessor) (Compiler, string, exc.Reporter) {
	t.Helper()
	root := t.TempDir()
	local, err := fs.NewFileSystemLocal(root)
	require.NoError(t, err)
	reporter := exc.NewReporter(nil)
	c, err := New(
		OptionWithFS(local),
		OptionWithPreprocessor(pre),
		OptionWithExcReporter(reporter),
	)
	require.NoError(t, err)
	return c, root, reporter
}

func TestCompile(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pre := &fakePreprocessor{text: counter}
	c, root, reporter := newCompiler(t, pre)
	require.NoError(t, os.WriteFile(filepath.Join(root, "counter.F"), []byte("ignored"), 0o644))

	out, err := c.Compile(ctx, &CompileRequest{Input: "counter.F", Output: "build/counter.ast"})
	require.NoError(t, err)
	require.Equal(t, []string{"counter.F"}, pre.calls)
	require.Empty(t, reporter.Reported())

	require.Equal(t, "COUNTER", out.Module.Name)
	require.Equal(t, ast.Stats{Variables: 1, Subroutines: 1}, out.Stats)
	require.Len(t, out.Module.Routines, 1)
	require.Equal(t, []string{"Adds n to the total."}, out.Module.Routines[0].Summary)
	require.Equal(t, "amount", out.Module.Routines[0].Arguments[0].Description)

	written, err := os.ReadFile(filepath.Join(root, "build", "counter.ast"))
	require.NoError(t, err)
	require.Equal(t, out.Artifact, string(written))
	assert.Contains(t, out.Artifact, counterAST)
	assert.Contains(t, out.Artifact, "descr: running total")
	assert.Contains(t, out.Artifact, "tag: subroutine")
}

func TestCompileSkipPreprocess(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pre := &fakePreprocessor{err: errors.New("must not run")}
	c, root, _ := newCompiler(t, pre)
	require.NoError(t, os.WriteFile(filepath.Join(root, "counter.F"), []byte(counter), 0o644))

	out, err := c.Compile(ctx, &CompileRequest{Input: "counter.F", SkipPreprocess: true})
	require.NoError(t, err)
	require.Empty(t, pre.calls)
	require.Equal(t, "COUNTER", out.Module.Name)

	_, err = os.Stat(filepath.Join(root, "counter.ast"))
	require.True(t, os.IsNotExist(err))
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		input string
		req   CompileRequest
		pre   *fakePreprocessor
		code  string
	}{
		{
			name: "wrong input suffix",
			req:  CompileRequest{Input: "counter.f90", Output: "counter.ast"},
			pre:  &fakePreprocessor{text: counter},
			code: exc.CodeUnsupportedFileFormat,
		},
		{
			name:  "wrong output suffix",
			input: counter,
			req:   CompileRequest{Input: "counter.F", Output: "counter.json"},
			pre:   &fakePreprocessor{text: counter},
			code:  exc.CodeUnsupportedFileFormat,
		},
		{
			name: "missing input",
			req:  CompileRequest{Input: "counter.F", Output: "counter.ast"},
			pre:  &fakePreprocessor{text: counter},
			code: exc.CodeFileNotFound,
		},
		{
			name:  "preprocessor failure",
			input: counter,
			req:   CompileRequest{Input: "counter.F", Output: "counter.ast"},
			pre:   &fakePreprocessor{err: exc.New(exc.Location{}, exc.CodePreprocessor, "cpp exited with status 1")},
			code:  exc.CodePreprocessor,
		},
		{
			name:  "parse failure",
			input: counter,
			req:   CompileRequest{Input: "counter.F", Output: "counter.ast"},
			pre:   &fakePreprocessor{text: "MODULE m\nINTEGER, FOO :: x\nEND MODULE\n"},
			code:  exc.CodeUnknownAttribute,
		},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			c, root, reporter := newCompiler(t, testCase.pre)
			if testCase.input != "" {
				require.NoError(t, os.WriteFile(filepath.Join(root, "counter.F"), []byte(testCase.input), 0o644))
			}
			out, err := c.Compile(context.Background(), &testCase.req)
			require.Error(t, err)
			require.Nil(t, out)
			require.Equal(t, testCase.code, exc.CodeOf(err))
			require.Len(t, reporter.Reported(), 1)
			_, err = os.Stat(filepath.Join(root, "counter.ast"))
			require.True(t, os.IsNotExist(err))
		})
	}
}

func TestPreprocessorErrorIsLocated(t *testing.T) {
	t.Parallel()

	pre := &fakePreprocessor{err: exc.New(exc.Location{}, exc.CodePreprocessor, "boom")}
	c, root, _ := newCompiler(t, pre)
	require.NoError(t, os.WriteFile(filepath.Join(root, "counter.F"), []byte(counter), 0o644))

	_, err := c.Compile(context.Background(), &CompileRequest{Input: "counter.F"})
	var multi exc.Multi
	require.True(t, errors.As(err, &multi))
	require.Len(t, multi, 1)
	var e exc.Exception
	require.True(t, errors.As(err, &e))
	require.Equal(t, "counter.F", e.Location().File)
	require.Equal(t, "counter.F -- F0006: boom", e.Error())
}

func TestParseFailureReturnsReported(t *testing.T) {
	t.Parallel()

	pre := &fakePreprocessor{text: "MODULE m\nINTEGER, FOO :: x\nEND MODULE\n"}
	c, root, reporter := newCompiler(t, pre)
	require.NoError(t, os.WriteFile(filepath.Join(root, "counter.F"), []byte(counter), 0o644))

	_, err := c.Compile(context.Background(), &CompileRequest{Input: "counter.F"})
	var multi exc.Multi
	require.True(t, errors.As(err, &multi))
	require.Equal(t, exc.Multi(reporter.Reported()), multi)
	require.Equal(t, exc.CodeUnknownAttribute, multi[0].Code())
}

func TestNonFatalReadFailureEndsRun(t *testing.T) {
	t.Parallel()

	local, err := fs.NewFileSystemLocal(t.TempDir())
	require.NoError(t, err)
	reporter := exc.NewReporter([]string{exc.CodeFileNotFound})
	c, err := New(
		OptionWithFS(local),
		OptionWithPreprocessor(&fakePreprocessor{text: counter}),
		OptionWithExcReporter(reporter),
	)
	require.NoError(t, err)

	out, err := c.Compile(context.Background(), &CompileRequest{Input: "counter.F", Output: "counter.ast"})
	require.Nil(t, out)
	require.Equal(t, exc.CodeFileNotFound, exc.CodeOf(err))
	require.Len(t, reporter.Reported(), 1)
}

// TestDumpStatements changes the standard logger so it does not run in
// parallel.
func TestDumpStatements(t *testing.T) {
	hook := test.NewGlobal()
	logger := log.StandardLogger()
	level, out := logger.GetLevel(), logger.Out
	logger.SetLevel(log.TraceLevel)
	logger.SetOutput(io.Discard)
	t.Cleanup(func() {
		logger.SetLevel(level)
		logger.SetOutput(out)
		logger.ReplaceHooks(make(log.LevelHooks))
	})

	c, root, _ := newCompiler(t, &fakePreprocessor{text: counter})
	require.NoError(t, os.WriteFile(filepath.Join(root, "counter.F"), []byte(counter), 0o644))
	_, err := c.Compile(context.Background(), &CompileRequest{Input: "counter.F", DumpStatements: true})
	require.NoError(t, err)

	var dumped []string
	for _, entry := range hook.AllEntries() {
		if entry.Level == log.TraceLevel {
			dumped = append(dumped, entry.Message)
		}
	}
	require.NotEmpty(t, dumped)
	require.Equal(t, "MODULE COUNTER", dumped[0])
	require.Contains(t, dumped, "INTEGER::TOTAL=0")
	require.Contains(t, dumped, "SUBROUTINE BUMP(N)")
	require.Equal(t, "END MODULE COUNTER", dumped[len(dumped)-1])
}

func TestCompileCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pre := &fakePreprocessor{err: context.Canceled}
	c, root, reporter := newCompiler(t, pre)
	require.NoError(t, os.WriteFile(filepath.Join(root, "counter.F"), []byte(counter), 0o644))

	_, err := c.Compile(ctx, &CompileRequest{Input: "counter.F"})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, reporter.Reported())
}
