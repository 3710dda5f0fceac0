// Package compiler is used to compile a kevs parse tree into a flat sequence
// of register-machine instructions.
//
// # Registers
//
// Variables live in registers. The first assignment to a name binds it to
// the lowest unused register, and that register stays the variable's home
// for the rest of the program. Every register above the bound ones is
// scratch space: expressions are evaluated there, starting at the first
// unused register, and call arguments are placed there in consecutive slots.
//
// # Two-Pass Expression Compilation
//
// Pass 1 climbs the terms and operators of an expression by precedence
// ({+,-} < {*,/} < {^}; ^ is right-associative) and produces a postfix
// sequence of placeholder instructions whose register operands are not yet
// known. Operands are emitted before their operator, so
//
//	2 + 3 * 4
//
// becomes LOAD_LITERAL 2, LOAD_LITERAL 3, LOAD_LITERAL 4, MULTIPLY, ADD.
//
// Pass 2 walks that sequence with a single register cursor, starting at the
// expression's base register, simulating a stack of intermediate values:
//
//   - LOAD_LITERAL and COPY_REGISTER write at the cursor and advance it.
//   - COPY_CONSTANT and ARRAY_GET rewrite the slot staged by the preceding
//     LOAD_LITERAL (cursor-1), reading the index from it and storing the
//     result back into it. The cursor does not move.
//   - Arithmetic and comparisons pop two slots and push one: the cursor
//     retreats by two, the result overwrites the left operand and the
//     cursor advances by one.
//
// The value of the whole expression ends up in the base register.
//
// # Control Flow
//
// Jumps are relative and the virtual machine increments the instruction
// pointer after every instruction, including a taken jump, so a jump's
// effective displacement is its offset plus one. An if statement emits
//
//	comparison, JUMP_IF_FALSE len(body), body
//
// and a while loop re-emits its comparison after the body:
//
//	comparison, JUMP_IF_FALSE len(body)+len(cmp)+1, body, comparison, JUMP_IF_TRUE -(len(body)+len(cmp)+1)
//
// # Functions and Sub-programs
//
// There are no calls at run time besides SYSCALL. A user function call is
// expanded inline: arguments are placed in a window of scratch registers, the
// body is compiled in a fresh scope holding only the parameters bound to that
// window, and arguments that were plain variables receive the parameters'
// final values afterwards. A load statement compiles another source file
// into the same program.
package compiler

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/kevs-vm/kevs/ast"
	"github.com/kevs-vm/kevs/builtins"
	"github.com/kevs-vm/kevs/bytecode"
	"github.com/kevs-vm/kevs/errz"
)

// Config holds compiler configuration options.
type Config struct {
	// Syscalls maps native function names to syscall ids. Defaults to the
	// table of builtins.Default().
	Syscalls map[string]int16

	// Filename is the source filename, used for error messages.
	Filename string

	// Source is the original source code, used for better error messages.
	Source string

	// Loader resolves load statements. Defaults to a DirLoader rooted at
	// the directory of Filename.
	Loader Loader

	// Logger receives debug output about bindings, expansions and loads.
	// The zero value discards everything.
	Logger zerolog.Logger
}

// Compiler is used to compile a kevs parse tree into a Program.
type Compiler struct {
	ctx      context.Context
	data     *CompileData
	loader   Loader
	log      zerolog.Logger
	filename string
	source   string

	// Filename of the file whose statements are being compiled. Differs
	// from filename while a sub-program is loaded.
	currentFile   string
	currentSource string
}

// Compile compiles the given parse tree and returns an immutable Program.
// Pass nil for cfg to use default settings.
func Compile(ctx context.Context, node *ast.Node, cfg *Config) (*bytecode.Program, error) {
	c := New(cfg)
	return c.CompileAST(ctx, node)
}

// New creates and returns a new Compiler. Pass nil for cfg to use defaults.
func New(cfg *Config) *Compiler {
	if cfg == nil {
		cfg = &Config{}
	}
	syscalls := cfg.Syscalls
	if syscalls == nil {
		syscalls = builtins.Default().Names()
	}
	loader := cfg.Loader
	if loader == nil {
		loader = NewDirLoader(dirOf(cfg.Filename))
	}
	return &Compiler{
		data:          NewCompileData(syscalls),
		loader:        loader,
		log:           cfg.Logger,
		filename:      cfg.Filename,
		source:        cfg.Source,
		currentFile:   cfg.Filename,
		currentSource: cfg.Source,
	}
}

// Data returns the compiler's CompileData.
func (c *Compiler) Data() *CompileData {
	return c.data
}

// CompileAST compiles a program node and returns the resulting Program.
func (c *Compiler) CompileAST(ctx context.Context, node *ast.Node) (*bytecode.Program, error) {
	if node == nil || node.Rule != ast.Program {
		return nil, c.malformed(node, "expected a program node")
	}
	c.ctx = ctx
	if c.filename != "" {
		c.data.loading[filepath.Clean(c.filename)] = true
		defer delete(c.data.loading, filepath.Clean(c.filename))
	}
	seq, err := c.compileStatements(node.Children)
	if err != nil {
		return nil, err
	}
	c.log.Debug().
		Str("file", c.filename).
		Int("instructions", len(seq)).
		Int("constants", len(c.data.constants)).
		Int("registers", c.data.firstUnused).
		Msg("compiled program")
	return seq.program(c), nil
}

// compileStatements compiles a statement list, such as a program or a block.
func (c *Compiler) compileStatements(statements []*ast.Node) (sequence, error) {
	var seq sequence
	for _, stmt := range statements {
		if c.ctx != nil {
			if err := c.ctx.Err(); err != nil {
				return nil, err
			}
		}
		code, err := c.compileStatement(stmt)
		if err != nil {
			return nil, err
		}
		seq = append(seq, code...)
	}
	return seq, nil
}

func (c *Compiler) compileStatement(node *ast.Node) (sequence, error) {
	switch node.Rule {
	case ast.Assignment:
		return c.compileAssignment(node)
	case ast.ArrayAssignment:
		return c.compileArrayAssignment(node)
	case ast.FunctionCall:
		return c.compileFunctionCall(node)
	case ast.IfStatement:
		return c.compileIf(node)
	case ast.WhileLoop:
		return c.compileWhile(node)
	case ast.FunctionDefinition, ast.FunctionDefinitionNoArgs:
		return nil, c.compileFunctionDefinition(node)
	case ast.Load:
		return c.compileLoad(node)
	case ast.Block:
		return c.compileStatements(node.Children)
	}
	return nil, c.malformed(node, "unexpected %s node in statement position", node.Rule)
}

// location returns the error location of a node in the file being compiled.
func (c *Compiler) location(node *ast.Node) errz.SourceLocation {
	if node == nil {
		return errz.SourceLocation{Filename: c.currentFile}
	}
	pos := node.Pos()
	return errz.SourceLocation{
		Filename: c.currentFile,
		Line:     pos.LineNumber(),
		Column:   pos.ColumnNumber(),
		Source:   sourceLine(c.currentSource, pos.LineNumber()),
	}
}

// sourceLocation returns the location recorded for an instruction emitted
// for node. Instructions from loaded sub-programs carry no location, since a
// Program records a single source file.
func (c *Compiler) sourceLocation(node *ast.Node) bytecode.SourceLocation {
	if node == nil || c.currentFile != c.filename {
		return bytecode.SourceLocation{}
	}
	pos := node.Pos()
	return bytecode.SourceLocation{Line: pos.LineNumber(), Column: pos.ColumnNumber()}
}

func (c *Compiler) errorf(kind errz.ErrorKind, code errz.Code, node *ast.Node, format string, args ...any) *errz.Error {
	return errz.New(kind, code, c.location(node), format, args...)
}

func (c *Compiler) malformed(node *ast.Node, format string, args ...any) *errz.Error {
	return c.errorf(errz.ErrSyntax, errz.E2009, node, format, args...)
}
