// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"context"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.microglot.org/fparse.go/internal/exc"
)

// Kind identifies the role of a file from its suffix.
type Kind uint8

const (
	KindNone Kind = iota
	KindSource
	KindAST
)

func (k Kind) String() string {
	switch k {
	case KindSource:
		return "source"
	case KindAST:
		return "ast"
	default:
		return "none"
	}
}

const (
	SourceExt = ".F"   // Fortran source that still needs preprocessing
	ASTExt    = ".ast" // The serialized module tree
)

var knownExts = map[string]Kind{
	SourceExt: KindSource,
	ASTExt:    KindAST,
}

// KindOf returns the kind implied by the suffix of path. Suffixes are case
// sensitive.
func KindOf(path string) Kind {
	return knownExts[filepath.Ext(path)]
}

// File is a handle on one input or output file. Body reads the whole content
// each time it is called.
type File interface {
	Path(ctx context.Context) string
	Kind(ctx context.Context) Kind
	Body(ctx context.Context) (string, error)
}

type FileSystem interface {
	Open(ctx context.Context, path string) (File, error)
	Write(ctx context.Context, path string, content string) error
}

// Resolve converts a file path or file URI into an absolute, cleaned path.
func Resolve(target string) (string, error) {
	u, err := url.Parse(target)
	if err == nil && u.Scheme == "file" {
		target = u.Path
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", exc.WrapUnknown(exc.Location{File: target}, err)
	}
	return abs, nil
}

type FileSystemLocalOption func(*fileSystemLocal)

// WithOptionFSFactory installs a custom factory function used to generate the
// underlying file system handle for reads. The default value is os.DirFS. The
// string value provided to the factory function is the root directory of the
// file system. All paths given to open or write are considered relative to
// this root.
func WithOptionFSFactory(v func(root string) fs.FS) FileSystemLocalOption {
	return func(rfs *fileSystemLocal) {
		rfs.fsFactory = v
	}
}

type fileSystemLocal struct {
	root      string
	fsFactory func(string) fs.FS
}

// NewFileSystemLocal creates a new FileSystem that uses the local file system.
func NewFileSystemLocal(root string, options ...FileSystemLocalOption) (FileSystem, error) {
	absroot, err := filepath.Abs(root)
	if err != nil {
		return nil, exc.WrapUnknown(exc.Location{File: root}, err)
	}
	result := &fileSystemLocal{
		root:      absroot,
		fsFactory: os.DirFS,
	}
	for _, option := range options {
		option(result)
	}
	return result, nil
}

func (r *fileSystemLocal) Open(ctx context.Context, path string) (File, error) {
	dir := r.fsFactory(r.root)
	p := r.relative(path)
	d, err := dir.Open(p)
	if err != nil {
		return nil, fsErr(path, err)
	}
	defer d.Close()
	stat, err := d.Stat()
	if err != nil {
		return nil, fsErr(path, err)
	}
	if stat.IsDir() {
		return nil, exc.Newf(exc.Location{File: path}, exc.CodeUnsupportedFileFormat, "%s is a directory", path)
	}
	return NewFileFN(path, func() (io.ReadCloser, error) {
		return dir.Open(p)
	}, KindOf(p)), nil
}

func (r *fileSystemLocal) Write(ctx context.Context, path string, content string) error {
	p := filepath.Join(r.root, filepath.FromSlash(r.relative(path)))

	d := filepath.Dir(p)
	if err := os.MkdirAll(d, os.ModeDir|0o755); err != nil {
		return fsErr(d, err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		return fsErr(p, err)
	}
	return nil
}

// relative maps path onto the root in the un-rooted, slash separated form
// that fs.FS requires. Absolute paths under the root lose the root prefix.
func (r *fileSystemLocal) relative(path string) string {
	if filepath.IsAbs(path) {
		if rel, err := filepath.Rel(r.root, path); err == nil && !strings.HasPrefix(rel, "..") {
			path = rel
		}
	}
	p := filepath.ToSlash(filepath.Clean(filepath.Join("/", path)))
	p = strings.TrimPrefix(p, "/")
	if p == "" {
		// fs.ValidPath only allows, and requires, '.' for the root.
		p = "."
	}
	return p
}

func fsErr(path string, err error) error {
	if errT, ok := err.(*fs.PathError); ok {
		switch {
		case os.IsNotExist(errT):
			return exc.Wrap(exc.Location{File: path}, exc.CodeFileNotFound, errT)
		case os.IsPermission(errT):
			return exc.Wrap(exc.Location{File: path}, exc.CodePermissionDenied, errT)
		default:
			return exc.WrapUnknown(exc.Location{File: path}, errT)
		}
	}
	return exc.WrapUnknown(exc.Location{File: path}, err)
}
