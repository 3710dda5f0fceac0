package compiler

import (
	"github.com/kevs-vm/kevs/ast"
	"github.com/kevs-vm/kevs/errz"
)

// compileFunctionDefinition records a user function. It emits no code;
// calls are expanded where they appear. Defining a name again replaces the
// earlier definition for calls compiled afterwards.
func (c *Compiler) compileFunctionDefinition(node *ast.Node) error {
	name := node.Child(0)
	if name == nil || name.Rule != ast.Ident {
		return c.malformed(node, "malformed function definition")
	}
	var params []string
	var body *ast.Node
	switch node.Rule {
	case ast.FunctionDefinition:
		paramsNode := node.Child(1)
		if paramsNode == nil || paramsNode.Rule != ast.Params {
			return c.malformed(node, "function definition without parameter list")
		}
		for _, p := range paramsNode.Children {
			params = append(params, p.Text)
		}
		body = node.Child(2)
	default:
		body = node.Child(1)
	}
	if body == nil || body.Rule != ast.Block {
		return c.malformed(node, "function definition without body")
	}
	c.data.functions[name.Text] = &function{
		name:   name.Text,
		params: params,
		body:   body,
		file:   c.currentFile,
		source: c.currentSource,
	}
	c.log.Debug().Str("name", name.Text).Strs("params", params).Msg("defined function")
	return nil
}

// expandFunction compiles a call to a user function inline.
//
// The arguments are evaluated into a window at the first unused register.
// The body is compiled in a scope that holds only the parameters, each bound
// to its window register, with scratch space starting after the window.
// Afterwards arguments that were plain variables receive the final values of
// the corresponding parameters.
func (c *Compiler) expandFunction(node *ast.Node, fn *function, args []*ast.Node) (sequence, error) {
	if len(args) != len(fn.params) {
		return nil, c.errorf(errz.ErrBinding, errz.E2007, node,
			"function %q expects %d arguments, got %d", fn.name, len(fn.params), len(args))
	}
	if c.data.expanding[fn.name] {
		return nil, c.errorf(errz.ErrBinding, errz.E2006, node,
			"function %q calls itself; recursive functions cannot be expanded inline", fn.name)
	}
	base := c.data.firstUnused
	if _, err := c.register(node, base+len(args)); err != nil {
		return nil, err
	}
	seq, err := c.compileArguments(args, base)
	if err != nil {
		return nil, err
	}

	c.log.Debug().Str("name", fn.name).Int("window", base).Msg("expanding function")
	saved := c.data.enterScope(fn.params, base)
	file, source := c.currentFile, c.currentSource
	c.currentFile, c.currentSource = fn.file, fn.source
	c.data.expanding[fn.name] = true
	body, err := c.compileStatements(fn.body.Children)
	delete(c.data.expanding, fn.name)
	c.currentFile, c.currentSource = file, source
	c.data.leaveScope(saved)
	if err != nil {
		return nil, err
	}

	seq = append(seq, body...)
	return append(seq, c.copyOut(node, args, base)...), nil
}
