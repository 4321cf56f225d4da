package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"gopkg.microglot.org/fparse.go/internal/compiler"
	"gopkg.microglot.org/fparse.go/internal/config"
	"gopkg.microglot.org/fparse.go/internal/exc"
	"gopkg.microglot.org/fparse.go/internal/fs"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes one invocation and returns the process exit status.
func run(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) int {
	cmd := newRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var multi exc.Multi
	if errors.As(err, &multi) {
		for _, e := range multi {
			fmt.Fprintln(stderr, e.Error())
		}
		return 1
	}
	var e exc.Exception
	if !errors.As(err, &e) {
		fmt.Fprintln(stderr, err.Error())
		return 1
	}
	if e.Code() == exc.CodeUsage {
		fmt.Fprintf(stderr, "Error: %s\n", e.Message())
		fmt.Fprint(stderr, cmd.UsageString())
		return 1
	}
	fmt.Fprintln(stderr, e.Error())
	return 1
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fparse [flags] <input" + fs.SourceExt + "> <output" + fs.ASTExt + ">",
		Short: "Extract the declarations of a Fortran module",
		Long: `Run the preprocessor over a Fortran module and write its module-level
declarations, derived types, interfaces and routine signatures to a
YAML artifact.`,
		Args:          validateArgs,
		RunE:          runCompile,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return exc.Wrap(exc.Location{}, exc.CodeUsage, err)
	})
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func validateArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 2 {
		return exc.Newf(exc.Location{}, exc.CodeUsage, "expected 2 arguments, got %d", len(args))
	}
	if fs.KindOf(args[0]) != fs.KindSource {
		return exc.Newf(exc.Location{}, exc.CodeUsage, "input %s must end in %s", args[0], fs.SourceExt)
	}
	if fs.KindOf(args[1]) != fs.KindAST {
		return exc.Newf(exc.Location{}, exc.CodeUsage, "output %s must end in %s", args[1], fs.ASTExt)
	}
	return nil
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	if err := configureLogging(cfg, cmd.ErrOrStderr()); err != nil {
		return err
	}
	input, err := fs.Resolve(args[0])
	if err != nil {
		return err
	}
	output, err := fs.Resolve(args[1])
	if err != nil {
		return err
	}

	c, err := compiler.New(
		compiler.OptionWithPreprocessor(cfg.Cpp.Preprocessor()),
	)
	if err != nil {
		return err
	}
	_, err = c.Compile(cmd.Context(), &compiler.CompileRequest{
		Input:          input,
		Output:         output,
		SkipPreprocess: cfg.Cpp.Disabled,
		DumpStatements: cfg.DumpStatements,
	})
	if err != nil {
		var e exc.Exception
		if errors.As(err, &e) {
			log.WithFields(log.Fields{
				"code":      e.Code(),
				"class":     exc.ClassOf(e.Code()).String(),
				"locus":     e.Location().String(),
				"statement": e.Location().Statement,
			}).Debug(e.Message())
		}
		return err
	}
	log.Infof("wrote %s", output)
	return nil
}

func configureLogging(cfg *config.Config, w io.Writer) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return exc.Wrap(exc.Location{}, exc.CodeUsage, err)
	}
	log.SetOutput(w)
	log.SetLevel(level)
	format := cfg.LogFormat
	if format == config.FormatAuto {
		format = config.FormatJSON
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			format = config.FormatText
		}
	}
	switch format {
	case config.FormatJSON:
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{})
	}
	return nil
}
