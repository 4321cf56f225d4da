// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package fs

import (
	"bufio"
	"context"
	"io"
	"strings"

	"gopkg.microglot.org/fparse.go/internal/exc"
)

// NewFileString wraps static string content in File.
func NewFileString(path string, content string, kind Kind) File {
	return NewFileFN(path, func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}, kind)
}

type fileIOFunc struct {
	path string
	kind Kind
	body func() (io.ReadCloser, error)
}

// NewFileFN is intended to wrap actual file based content in the File
// interface. The given body function is used each time there is a call to the
// File.Body method so it must return a new handle.
func NewFileFN(path string, body func() (io.ReadCloser, error), kind Kind) File {
	return &fileIOFunc{
		path: path,
		kind: kind,
		body: body,
	}
}

func (f *fileIOFunc) Path(ctx context.Context) string {
	return f.path
}
func (f *fileIOFunc) Kind(ctx context.Context) Kind {
	return f.kind
}
func (f *fileIOFunc) Body(ctx context.Context) (string, error) {
	rc, err := f.body()
	if err != nil {
		return "", fsErr(f.path, err)
	}
	defer rc.Close()
	var b strings.Builder
	if _, err := io.Copy(&b, bufio.NewReader(rc)); err != nil {
		return "", exc.WrapUnknown(exc.Location{File: f.path}, err)
	}
	return b.String(), nil
}
