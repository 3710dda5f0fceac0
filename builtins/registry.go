package builtins

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/kevs-vm/kevs/object"
)

// State is the view of a running virtual machine given to native functions.
// A native function reads its arguments from the register window starting at
// the window base and returns results by writing into that window.
type State interface {
	Register(i uint8) object.Object
	SetRegister(i uint8, value object.Object)
	Stdout() io.Writer
}

// Func is a native function callable with SysCall. args is the first register
// of the caller's argument window.
type Func func(ctx context.Context, args uint8, state State) error

// FuncSpec documents a native function.
type FuncSpec struct {
	Name    string
	Doc     string
	Args    []string
	Example string
}

// Registry maps native function names to ids at compile time and ids to
// implementations at run time. Ids are assigned in registration order.
type Registry struct {
	funcs []Func
	specs []FuncSpec
	ids   map[string]int16
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ids: map[string]int16{}}
}

// Register adds a native function and returns its id. Registering a name
// twice, or more functions than an id can address, is an error.
func (r *Registry) Register(spec FuncSpec, fn Func) (int16, error) {
	if _, exists := r.ids[spec.Name]; exists {
		return 0, fmt.Errorf("builtins: %q is already registered", spec.Name)
	}
	if len(r.funcs) > 32767 {
		return 0, fmt.Errorf("builtins: registry is full")
	}
	id := int16(len(r.funcs))
	r.funcs = append(r.funcs, fn)
	r.specs = append(r.specs, spec)
	r.ids[spec.Name] = id
	return id, nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(spec FuncSpec, fn Func) int16 {
	id, err := r.Register(spec, fn)
	if err != nil {
		panic(err)
	}
	return id
}

// ID returns the id registered for name.
func (r *Registry) ID(name string) (int16, bool) {
	id, ok := r.ids[name]
	return id, ok
}

// Names returns a copy of the name to id table used by the compiler.
func (r *Registry) Names() map[string]int16 {
	names := make(map[string]int16, len(r.ids))
	for name, id := range r.ids {
		names[name] = id
	}
	return names
}

// Lookup returns the implementation registered under id.
func (r *Registry) Lookup(id int16) (Func, bool) {
	if id < 0 || int(id) >= len(r.funcs) {
		return nil, false
	}
	return r.funcs[id], true
}

// Name returns the name registered under id, or an empty string.
func (r *Registry) Name(id int16) string {
	if id < 0 || int(id) >= len(r.specs) {
		return ""
	}
	return r.specs[id].Name
}

// Len returns the number of registered functions.
func (r *Registry) Len() int {
	return len(r.funcs)
}

// Docs returns the documentation of every registered function, sorted by name.
func (r *Registry) Docs() []FuncSpec {
	docs := make([]FuncSpec, len(r.specs))
	copy(docs, r.specs)
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Name < docs[j].Name
	})
	return docs
}
