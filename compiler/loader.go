package compiler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/kevs-vm/kevs/ast"
	"github.com/kevs-vm/kevs/errz"
	"github.com/kevs-vm/kevs/parser"
)

// SourceExt is the file extension of kevs source files.
const SourceExt = ".kev"

// ErrNotFound is returned by a Loader when no sub-program has the
// requested name.
var ErrNotFound = errors.New("sub-program not found")

// Source is the text of a loaded sub-program.
type Source struct {
	// Filename identifies the sub-program in error messages and is used to
	// detect cyclic loads.
	Filename string
	Text     string
}

// Loader resolves the name in a load statement to source text.
type Loader interface {
	Load(ctx context.Context, name string) (*Source, error)
}

// DirLoader loads name.kev from the first directory on its search path
// that contains it.
type DirLoader struct {
	paths []string
}

// NewDirLoader returns a DirLoader searching the given directories in order.
// A leading ~ in a directory is expanded to the user's home directory.
func NewDirLoader(paths ...string) *DirLoader {
	expanded := make([]string, 0, len(paths))
	for _, p := range paths {
		if dir, err := homedir.Expand(p); err == nil {
			p = dir
		}
		expanded = append(expanded, p)
	}
	return &DirLoader{paths: expanded}
}

// Paths returns the search path.
func (l *DirLoader) Paths() []string {
	return append([]string(nil), l.paths...)
}

func (l *DirLoader) Load(ctx context.Context, name string) (*Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, dir := range l.paths {
		path := filepath.Join(dir, name+SourceExt)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &Source{Filename: path, Text: string(data)}, nil
	}
	return nil, fmt.Errorf("%w: %s%s (searched %v)", ErrNotFound, name, SourceExt, l.paths)
}

// MapLoader serves sub-programs from memory, keyed by name.
type MapLoader map[string]string

func (m MapLoader) Load(ctx context.Context, name string) (*Source, error) {
	text, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return &Source{Filename: name + SourceExt, Text: text}, nil
}

// compileLoad parses a sub-program and compiles its statements in place,
// sharing bindings, functions and the constant pool with the loading
// program.
func (c *Compiler) compileLoad(node *ast.Node) (sequence, error) {
	name := node.Child(0)
	if name == nil || name.Rule != ast.Ident {
		return nil, c.malformed(node, "malformed load statement")
	}
	src, err := c.loader.Load(c.context(), name.Text)
	if err != nil {
		return nil, c.errorf(errz.ErrImport, errz.E2008, node,
			"cannot load %q: %v", name.Text, err).WithCause(err)
	}
	key := filepath.Clean(src.Filename)
	if c.data.loading[key] {
		return nil, c.errorf(errz.ErrImport, errz.E2011, node,
			"cyclic load of %q", src.Filename)
	}
	tree, err := parser.Parse(c.context(), src.Text, parser.WithFilename(src.Filename))
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("name", name.Text).Str("file", src.Filename).Msg("loading sub-program")

	c.data.loading[key] = true
	file, source := c.currentFile, c.currentSource
	c.currentFile, c.currentSource = src.Filename, src.Text
	seq, err := c.compileStatements(tree.Children)
	c.currentFile, c.currentSource = file, source
	delete(c.data.loading, key)
	return seq, err
}

func (c *Compiler) context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}
