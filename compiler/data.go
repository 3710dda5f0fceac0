package compiler

import (
	"sort"

	"github.com/kevs-vm/kevs/ast"
	"github.com/kevs-vm/kevs/object"
)

// RegisterCount is the size of the virtual machine's register file.
const RegisterCount = 256

// function is a user function definition. Calls to it are expanded inline.
type function struct {
	name   string
	params []string
	body   *ast.Node

	// File the definition was compiled from
	file   string
	source string
}

// CompileData is the state shared by everything compiled into one program,
// including loaded sub-programs: variable bindings, the first unused
// register, the syscall table, the constant pool and user functions.
type CompileData struct {
	// Variable name to home register for the current scope
	bindings map[string]uint8

	// Lowest register not bound to a variable. Registers at and above it
	// are scratch space for expressions and call windows.
	firstUnused int

	// Native function name to syscall id
	syscalls map[string]int16

	// Constant pool, append-only
	constants []object.Object

	// User function definitions, visible in every scope
	functions map[string]*function

	// Functions currently being expanded, to reject recursion
	expanding map[string]bool

	// Sub-programs currently being loaded, to reject cycles
	loading map[string]bool

	// Nesting depth of function scopes; 0 is the top level
	scopeDepth int

	// Names of top-level variables, indexed by register
	registerNames []string
}

// NewCompileData returns an empty CompileData using the given syscall table.
func NewCompileData(syscalls map[string]int16) *CompileData {
	table := make(map[string]int16, len(syscalls))
	for name, id := range syscalls {
		table[name] = id
	}
	return &CompileData{
		bindings:  map[string]uint8{},
		syscalls:  table,
		functions: map[string]*function{},
		expanding: map[string]bool{},
		loading:   map[string]bool{},
	}
}

// FirstUnused returns the lowest register not bound to a variable.
func (d *CompileData) FirstUnused() int {
	return d.firstUnused
}

// Lookup returns the home register of a variable in the current scope.
func (d *CompileData) Lookup(name string) (uint8, bool) {
	reg, ok := d.bindings[name]
	return reg, ok
}

// bind assigns the first unused register to name and advances past it.
func (d *CompileData) bind(name string) uint8 {
	reg := uint8(d.firstUnused)
	d.bindings[name] = reg
	d.firstUnused++
	if d.scopeDepth == 0 {
		d.registerNames = append(d.registerNames, name)
	}
	return reg
}

// addConstant appends obj to the pool and returns its index.
func (d *CompileData) addConstant(obj object.Object) int {
	d.constants = append(d.constants, obj)
	return len(d.constants) - 1
}

// Constants returns the constant pool built so far.
func (d *CompileData) Constants() []object.Object {
	return d.constants
}

// scope is a saved binding scope, restored when an inline expansion ends.
type scope struct {
	bindings    map[string]uint8
	firstUnused int
}

// enterScope opens a fresh scope holding only params, bound to consecutive
// registers starting at window. Registers past the window become scratch.
func (d *CompileData) enterScope(params []string, window int) scope {
	saved := scope{bindings: d.bindings, firstUnused: d.firstUnused}
	d.bindings = make(map[string]uint8, len(params))
	for i, name := range params {
		d.bindings[name] = uint8(window + i)
	}
	d.firstUnused = window + len(params)
	d.scopeDepth++
	return saved
}

func (d *CompileData) leaveScope(saved scope) {
	d.bindings = saved.bindings
	d.firstUnused = saved.firstUnused
	d.scopeDepth--
}

// variableNames returns the variables visible in the current scope, sorted.
func (d *CompileData) variableNames() []string {
	names := make([]string, 0, len(d.bindings))
	for name := range d.bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// callableNames returns all syscall and user function names, sorted.
func (d *CompileData) callableNames() []string {
	names := make([]string, 0, len(d.syscalls)+len(d.functions))
	for name := range d.syscalls {
		names = append(names, name)
	}
	for name := range d.functions {
		if _, ok := d.syscalls[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
