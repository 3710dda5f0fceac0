package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/kevs-vm/kevs"
	"github.com/kevs-vm/kevs/bytecode"
	"github.com/kevs-vm/kevs/compiler"
	"github.com/kevs-vm/kevs/errz"
	"github.com/kevs-vm/kevs/parser"
)

// ImageExt is the extension of compiled program images.
const ImageExt = ".kevc"

// noColor is set by --no-color. It is kept apart from color.NoColor, which
// only describes stdout.
var noColor bool

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", red(errorMessage(err), colorEnabled(os.Stderr, noColor)))
	os.Exit(1)
}

func red(msg string, enabled bool) string {
	c := color.New(color.FgRed)
	if enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(msg)
}

// colorEnabled reports whether w is a terminal that should get color.
func colorEnabled(w io.Writer, disabled bool) bool {
	f, ok := w.(*os.File)
	return !disabled && ok && isTerminal(f)
}

// errorMessage renders err the friendliest way its type allows.
func errorMessage(err error) string {
	if errs := parser.Errors(err); len(errs) > 0 {
		return strings.TrimRight(parser.FriendlyErrorMessage(err), "\n")
	}
	var e *errz.Error
	if errors.As(err, &e) {
		return strings.TrimRight(e.FriendlyErrorMessage(), "\n")
	}
	return err.Error()
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// options returns the library options shared by every command.
func (a *app) options(path string) []kevs.Option {
	opts := []kevs.Option{
		kevs.WithFilename(path),
		kevs.WithLogger(a.log),
	}
	if paths := a.v.GetStringSlice("load-path"); len(paths) > 0 {
		dirs := append([]string{filepath.Dir(path)}, paths...)
		opts = append(opts, kevs.WithLoader(compiler.NewDirLoader(dirs...)))
	}
	return opts
}

// load reads path and returns its program: compiled images are decoded,
// anything else is compiled as source.
func (a *app) load(ctx context.Context, path string, opts ...kevs.Option) (*bytecode.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) == ImageExt {
		return bytecode.Unmarshal(data)
	}
	return kevs.CompileContext(ctx, string(data), append(a.options(path), opts...)...)
}
