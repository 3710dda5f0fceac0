package compiler

import (
	"github.com/kevs-vm/kevs/ast"
	"github.com/kevs-vm/kevs/bytecode"
	"github.com/kevs-vm/kevs/errz"
)

// compileAssignment compiles name = expression. The value is computed at the
// first unused register, which becomes the variable's home if the name is
// new. A known name gets a copy into its existing home instead.
func (c *Compiler) compileAssignment(node *ast.Node) (sequence, error) {
	name, expr := node.Child(0), node.Child(1)
	if name == nil || name.Rule != ast.Ident || expr == nil {
		return nil, c.malformed(node, "malformed assignment")
	}
	base := c.data.firstUnused
	if _, err := c.register(node, base); err != nil {
		return nil, err
	}
	seq, err := c.compileExpression(expr, base)
	if err != nil {
		return nil, err
	}
	if home, ok := c.data.Lookup(name.Text); ok {
		return append(seq, c.emit(node, bytecode.CopyRegister(home, uint8(base)))), nil
	}
	reg := c.data.bind(name.Text)
	c.log.Debug().Str("name", name.Text).Uint8("register", reg).Msg("bound variable")
	return seq, nil
}

// compileArrayAssignment compiles name[index] = expression.
func (c *Compiler) compileArrayAssignment(node *ast.Node) (sequence, error) {
	element, expr := node.Child(0), node.Child(1)
	if element == nil || element.Rule != ast.ArrayElement || expr == nil {
		return nil, c.malformed(node, "malformed array assignment")
	}
	name := element.Child(0)
	if name == nil || name.Rule != ast.Ident {
		return nil, c.malformed(element, "expected an array name")
	}
	index, err := c.literal(element.Child(1))
	if err != nil {
		return nil, err
	}
	base := c.data.firstUnused
	value, err := c.register(node, base)
	if err != nil {
		return nil, err
	}
	slot, err := c.register(node, base+1)
	if err != nil {
		return nil, err
	}
	seq, err := c.compileExpression(expr, base)
	if err != nil {
		return nil, err
	}
	home, ok := c.data.Lookup(name.Text)
	if !ok {
		// An unknown array name takes the value itself and no store is
		// emitted: q[0] = v; behaves like q = v;.
		home = c.data.bind(name.Text)
		c.log.Debug().Str("name", name.Text).Uint8("register", home).Msg("bound array on element assignment")
		return seq, nil
	}
	return append(seq,
		c.emit(element, bytecode.LoadLiteral(slot, index)),
		c.emit(node, bytecode.ArrayAssignment(home, slot, value)),
	), nil
}

// compileFunctionCall compiles a call statement. User functions are expanded
// inline and shadow native functions of the same name.
func (c *Compiler) compileFunctionCall(node *ast.Node) (sequence, error) {
	name, args := node.Child(0), node.Child(1)
	if name == nil || name.Rule != ast.Ident || args == nil || args.Rule != ast.Args {
		return nil, c.malformed(node, "malformed function call")
	}
	if fn, ok := c.data.functions[name.Text]; ok {
		return c.expandFunction(node, fn, args.Children)
	}
	id, ok := c.data.syscalls[name.Text]
	if !ok {
		err := c.errorf(errz.ErrBinding, errz.E2002, name, "undefined function %q", name.Text)
		if hint := errz.FormatSuggestions(errz.SuggestSimilar(name.Text, c.data.callableNames())); hint != "" {
			err = err.WithHint(hint)
		}
		return nil, err
	}
	base := c.data.firstUnused
	window, err := c.register(node, base)
	if err != nil {
		return nil, err
	}
	seq, err := c.compileArguments(args.Children, base)
	if err != nil {
		return nil, err
	}
	seq = append(seq, c.emit(node, bytecode.SysCall(window, id)))
	return append(seq, c.copyOut(node, args.Children, base)...), nil
}

// compileArguments compiles each argument into consecutive registers
// starting at base.
func (c *Compiler) compileArguments(args []*ast.Node, base int) (sequence, error) {
	var seq sequence
	for i, arg := range args {
		if _, err := c.register(arg, base+i); err != nil {
			return nil, err
		}
		code, err := c.compileExpression(arg, base+i)
		if err != nil {
			return nil, err
		}
		seq = append(seq, code...)
	}
	return seq, nil
}

// copyOut copies the argument window back into every argument that was a
// plain variable, which is how callees return values.
func (c *Compiler) copyOut(node *ast.Node, args []*ast.Node, base int) sequence {
	var seq sequence
	for i, arg := range args {
		ident, ok := bareIdentifier(arg)
		if !ok {
			continue
		}
		home, ok := c.data.Lookup(ident.Text)
		if !ok || int(home) == base+i {
			continue
		}
		seq = append(seq, c.emit(node, bytecode.CopyRegister(home, uint8(base+i))))
	}
	return seq
}

// compileIf compiles
//
//	comparison, JUMP_IF_FALSE len(body), body
//
// The test register is allocated after the body is compiled, above every
// variable the body binds, so re-running the comparison in an enclosing
// loop never overwrites one of them.
func (c *Compiler) compileIf(node *ast.Node) (sequence, error) {
	cmpNode, block := node.Child(0), node.Child(1)
	if cmpNode == nil || block == nil || block.Rule != ast.Block {
		return nil, c.malformed(node, "malformed if statement")
	}
	if err := c.checkBound(cmpNode); err != nil {
		return nil, err
	}
	body, err := c.compileStatements(block.Children)
	if err != nil {
		return nil, err
	}
	test := c.data.firstUnused
	cmp, err := c.compileComparison(cmpNode, test)
	if err != nil {
		return nil, err
	}
	skip, err := c.offset(node, len(body))
	if err != nil {
		return nil, err
	}
	seq := append(cmp, c.emit(node, bytecode.JumpIfFalse(uint8(test), skip)))
	return append(seq, body...), nil
}

// compileWhile compiles
//
//	comparison, JUMP_IF_FALSE len(body)+len(cmp)+1,
//	body, comparison, JUMP_IF_TRUE -(len(body)+len(cmp)+1)
//
// The forward jump lands on the first instruction after the loop and the
// backward jump on the first instruction of the body.
func (c *Compiler) compileWhile(node *ast.Node) (sequence, error) {
	cmpNode, block := node.Child(0), node.Child(1)
	if cmpNode == nil || block == nil || block.Rule != ast.Block {
		return nil, c.malformed(node, "malformed while loop")
	}
	if err := c.checkBound(cmpNode); err != nil {
		return nil, err
	}
	body, err := c.compileStatements(block.Children)
	if err != nil {
		return nil, err
	}
	test := c.data.firstUnused
	enter, err := c.compileComparison(cmpNode, test)
	if err != nil {
		return nil, err
	}
	again, err := c.compileComparison(cmpNode, test)
	if err != nil {
		return nil, err
	}
	span := len(body) + len(again) + 1
	skip, err := c.offset(node, span)
	if err != nil {
		return nil, err
	}
	back, err := c.offset(node, -span)
	if err != nil {
		return nil, err
	}
	seq := append(enter, c.emit(node, bytecode.JumpIfFalse(uint8(test), skip)))
	seq = append(seq, body...)
	seq = append(seq, again...)
	return append(seq, c.emit(node, bytecode.JumpIfTrue(uint8(test), back))), nil
}
