package fs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"gopkg.microglot.org/fparse.go/internal/exc"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		path     string
		expected Kind
	}{
		{path: "mod.F", expected: KindSource},
		{path: "/a/b/mod.ast", expected: KindAST},
		{path: "mod.f", expected: KindNone},
		{path: "mod.f90", expected: KindNone},
		{path: "mod", expected: KindNone},
		{path: "mod.ast.bak", expected: KindNone},
	}
	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.path, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, testCase.expected, KindOf(testCase.path))
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	wd, err := os.Getwd()
	require.NoError(t, err)

	got, err := Resolve("a/mod.F")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(wd, "a", "mod.F"), got)

	got, err = Resolve("file:///tmp/x/../mod.F")
	require.NoError(t, err)
	require.Equal(t, filepath.Clean("/tmp/mod.F"), got)
}

func newMapFS(t *testing.T, files fstest.MapFS) FileSystem {
	t.Helper()
	f, err := NewFileSystemLocal("/", WithOptionFSFactory(func(string) fs.FS {
		return files
	}))
	require.NoError(t, err)
	return f
}

func TestOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	f := newMapFS(t, fstest.MapFS{
		"src/mod.F":    {Data: []byte("MODULE M\nEND MODULE\n")},
		"src/notes.md": {Data: []byte("# notes")},
	})

	file, err := f.Open(ctx, "/src/mod.F")
	require.NoError(t, err)
	require.Equal(t, "/src/mod.F", file.Path(ctx))
	require.Equal(t, KindSource, file.Kind(ctx))
	body, err := file.Body(ctx)
	require.NoError(t, err)
	require.Equal(t, "MODULE M\nEND MODULE\n", body)

	// The body can be read more than once.
	body, err = file.Body(ctx)
	require.NoError(t, err)
	require.Equal(t, "MODULE M\nEND MODULE\n", body)

	file, err = f.Open(ctx, "src/notes.md")
	require.NoError(t, err)
	require.Equal(t, KindNone, file.Kind(ctx))

	_, err = f.Open(ctx, "/src/missing.F")
	require.Error(t, err)
	require.Equal(t, exc.CodeFileNotFound, exc.CodeOf(err))

	_, err = f.Open(ctx, "/src")
	require.Error(t, err)
	require.Equal(t, exc.CodeUnsupportedFileFormat, exc.CodeOf(err))
}

func TestWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	root := t.TempDir()
	f, err := NewFileSystemLocal(root)
	require.NoError(t, err)

	require.NoError(t, f.Write(ctx, "out/deep/mod.ast", "tag: module\n"))
	b, err := os.ReadFile(filepath.Join(root, "out", "deep", "mod.ast"))
	require.NoError(t, err)
	require.Equal(t, "tag: module\n", string(b))

	abs := filepath.Join(root, "abs.ast")
	require.NoError(t, f.Write(ctx, abs, "x"))
	file, err := f.Open(ctx, abs)
	require.NoError(t, err)
	require.Equal(t, KindAST, file.Kind(ctx))
	body, err := file.Body(ctx)
	require.NoError(t, err)
	require.Equal(t, "x", body)
}

func TestNewFileString(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	file := NewFileString("mem.F", "MODULE M", KindSource)
	require.Equal(t, "mem.F", file.Path(ctx))
	require.Equal(t, "source", file.Kind(ctx).String())
	body, err := file.Body(ctx)
	require.NoError(t, err)
	require.Equal(t, "MODULE M", body)
}
