// Package cpp runs the external C preprocessor over a source file and
// returns its standard output, line markers included.
package cpp

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"

	"gopkg.microglot.org/fparse.go/internal/exc"
)

const (
	DefaultCommand = "cpp"
)

var (
	DefaultFlags   = []string{"-nostdinc", "-traditional-cpp"}
	DefaultDefines = []string{"__parallel"}
)

// Preprocessor describes one preprocessor invocation. Defines are passed as
// -D<name> after the flags.
type Preprocessor struct {
	Command string
	Flags   []string
	Defines []string
}

// New returns a Preprocessor with the default command line.
func New() *Preprocessor {
	return &Preprocessor{
		Command: DefaultCommand,
		Flags:   append([]string(nil), DefaultFlags...),
		Defines: append([]string(nil), DefaultDefines...),
	}
}

// Args returns the arguments given to the command for path.
func (p *Preprocessor) Args(path string) []string {
	args := make([]string, 0, len(p.Flags)+len(p.Defines)+1)
	args = append(args, p.Flags...)
	for _, d := range p.Defines {
		args = append(args, "-D"+d)
	}
	return append(args, path)
}

// Preprocess runs the command once and blocks until it exits. A non-zero exit
// is a CodePreprocessor exception carrying the command's stderr.
func (p *Preprocessor) Preprocess(ctx context.Context, path string) (string, error) {
	command := p.Command
	if command == "" {
		command = DefaultCommand
	}
	args := p.Args(path)
	log.WithFields(log.Fields{
		"command": command,
		"args":    strings.Join(args, " "),
	}).Debug("running preprocessor")

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		detail := strings.TrimSpace(stderr.String())
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if detail == "" {
				return "", exc.Newf(exc.Location{File: path}, exc.CodePreprocessor, "%s exited with status %d", command, exitErr.ExitCode())
			}
			return "", exc.Newf(exc.Location{File: path}, exc.CodePreprocessor, "%s exited with status %d: %s", command, exitErr.ExitCode(), detail)
		}
		return "", exc.Wrap(exc.Location{File: path}, exc.CodePreprocessor, err)
	}
	log.WithField("bytes", stdout.Len()).Debug("preprocessor finished")
	return stdout.String(), nil
}
