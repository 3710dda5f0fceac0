package compiler

import (
	"math"
	"strconv"

	"github.com/kevs-vm/kevs/ast"
	"github.com/kevs-vm/kevs/bytecode"
	"github.com/kevs-vm/kevs/errz"
	"github.com/kevs-vm/kevs/object"
	"github.com/kevs-vm/kevs/op"
)

type operatorInfo struct {
	code       op.Code
	precedence int
	rightAssoc bool
}

var binaryOperators = map[string]operatorInfo{
	"+": {op.Add, 1, false},
	"-": {op.Subtract, 1, false},
	"*": {op.Multiply, 2, false},
	"/": {op.Divide, 2, false},
	"^": {op.Power, 3, true},
}

var compareOperators = map[string]op.Code{
	"==": op.Equal,
	"!=": op.NotEqual,
	">":  op.GreaterThan,
	">=": op.GreaterThanEqual,
	"<":  op.LessThan,
	"<=": op.LessThanEqual,
}

// compileExpression compiles an expression whose value ends up in register
// base. Registers above base are clobbered.
func (c *Compiler) compileExpression(node *ast.Node, base int) (sequence, error) {
	if node == nil || node.Rule != ast.Expression {
		return nil, c.malformed(node, "expected an expression")
	}
	pending, err := c.climbExpression(node)
	if err != nil {
		return nil, err
	}
	return c.fixup(node, pending, base)
}

// climbExpression is the first pass. It produces the expression in postfix
// order with every cursor-derived register operand left as zero.
func (c *Compiler) climbExpression(node *ast.Node) (sequence, error) {
	terms := node.Children
	if len(terms)%2 == 0 {
		return nil, c.malformed(node, "expression has %d children", len(terms))
	}
	pos := 0
	return c.climb(terms, &pos, 1)
}

func (c *Compiler) climb(terms []*ast.Node, pos *int, minPrecedence int) (sequence, error) {
	lhs, err := c.compileTerm(terms[*pos])
	if err != nil {
		return nil, err
	}
	*pos++
	for *pos < len(terms) {
		opNode := terms[*pos]
		info, ok := binaryOperators[opNode.Text]
		if opNode.Rule != ast.Operator || !ok {
			return nil, c.malformed(opNode, "expected an operator, got %s %q", opNode.Rule, opNode.Text)
		}
		if info.precedence < minPrecedence {
			break
		}
		*pos++
		if *pos >= len(terms) {
			return nil, c.malformed(opNode, "operator %s has no right operand", opNode.Text)
		}
		next := info.precedence + 1
		if info.rightAssoc {
			next = info.precedence
		}
		rhs, err := c.climb(terms, pos, next)
		if err != nil {
			return nil, err
		}
		lhs = append(lhs, rhs...)
		lhs = append(lhs, c.emit(opNode, bytecode.NewBinary(info.code, 0, 0, 0)))
	}
	return lhs, nil
}

func (c *Compiler) compileTerm(node *ast.Node) (sequence, error) {
	switch node.Rule {
	case ast.Expression:
		return c.climbExpression(node)
	case ast.Value:
		return c.compileValue(node)
	}
	return nil, c.malformed(node, "unexpected %s node in expression", node.Rule)
}

// compileValue returns the placeholder load sequence of a leaf.
func (c *Compiler) compileValue(node *ast.Node) (sequence, error) {
	inner := node.Child(0)
	if inner == nil {
		return nil, c.malformed(node, "empty value")
	}
	switch inner.Rule {
	case ast.Number:
		n, err := c.literal(inner)
		if err != nil {
			return nil, err
		}
		return sequence{c.emit(inner, bytecode.LoadLiteral(0, n))}, nil
	case ast.Ident:
		home, err := c.lookup(inner)
		if err != nil {
			return nil, err
		}
		return sequence{c.emit(inner, bytecode.CopyRegister(0, home))}, nil
	case ast.String:
		return c.compileConstant(inner, object.NewString(inner.Text))
	case ast.ArrayLiteral:
		items := make([]object.Object, 0, len(inner.Children))
		for _, item := range inner.Children {
			if item.Rule != ast.Number {
				return nil, c.malformed(item, "array literal item must be a number")
			}
			v, err := strconv.ParseFloat(item.Text, 64)
			if err != nil {
				return nil, c.errorf(errz.ErrEncoding, errz.E2003, item, "invalid number literal %s", item.Text)
			}
			items = append(items, object.NewNumber(v))
		}
		return c.compileConstant(inner, object.NewArray(items))
	case ast.ArrayElement:
		home, index, err := c.arrayElement(inner)
		if err != nil {
			return nil, err
		}
		return sequence{
			c.emit(inner, bytecode.LoadLiteral(0, index)),
			c.emit(inner, bytecode.ArrayGet(0, home, 0)),
		}, nil
	}
	return nil, c.malformed(inner, "unexpected %s node in value", inner.Rule)
}

// compileConstant adds obj to the constant pool and returns the sequence
// that stages its index and loads it.
func (c *Compiler) compileConstant(node *ast.Node, obj object.Object) (sequence, error) {
	if len(c.data.constants) > math.MaxInt16 {
		return nil, c.errorf(errz.ErrEncoding, errz.E2010, node,
			"too many constants (limit %d)", math.MaxInt16+1)
	}
	index := c.data.addConstant(obj)
	return sequence{
		c.emit(node, bytecode.LoadLiteral(0, int16(index))),
		c.emit(node, bytecode.CopyConstant(0, 0)),
	}, nil
}

// literal parses a number node as a 16-bit immediate.
func (c *Compiler) literal(node *ast.Node) (int16, error) {
	if node == nil || node.Rule != ast.Number {
		return 0, c.malformed(node, "expected a number")
	}
	n, err := strconv.ParseInt(node.Text, 10, 16)
	if err != nil {
		return 0, c.errorf(errz.ErrEncoding, errz.E2003, node,
			"number literal %s does not fit in 16 bits (%d..%d)", node.Text, math.MinInt16, math.MaxInt16)
	}
	return int16(n), nil
}

// lookup resolves an identifier to its home register.
func (c *Compiler) lookup(node *ast.Node) (uint8, error) {
	if node == nil || node.Rule != ast.Ident {
		return 0, c.malformed(node, "expected an identifier")
	}
	if home, ok := c.data.Lookup(node.Text); ok {
		return home, nil
	}
	err := c.errorf(errz.ErrBinding, errz.E2001, node, "undefined variable %q", node.Text)
	if hint := errz.FormatSuggestions(errz.SuggestSimilar(node.Text, c.data.variableNames())); hint != "" {
		err = err.WithHint(hint)
	}
	return 0, err
}

// arrayElement resolves the array and the index of an element reference.
func (c *Compiler) arrayElement(node *ast.Node) (uint8, int16, error) {
	home, err := c.lookup(node.Child(0))
	if err != nil {
		return 0, 0, err
	}
	index, err := c.literal(node.Child(1))
	if err != nil {
		return 0, 0, err
	}
	return home, index, nil
}

// fixup is the second pass. It assigns registers to the placeholder
// sequence by simulating an evaluation stack with a single cursor.
func (c *Compiler) fixup(node *ast.Node, pending sequence, base int) (sequence, error) {
	out := make(sequence, len(pending))
	cursor := base
	for i, e := range pending {
		ins := e.ins
		switch {
		case ins.Op == op.LoadLiteral, ins.Op == op.CopyRegister:
			dest, err := c.register(node, cursor)
			if err != nil {
				return nil, err
			}
			ins.A = dest
			cursor++
		case ins.Op == op.CopyConstant:
			slot, err := c.register(node, cursor-1)
			if err != nil {
				return nil, err
			}
			ins.A, ins.B = slot, slot
		case ins.Op == op.ArrayGet:
			slot, err := c.register(node, cursor-1)
			if err != nil {
				return nil, err
			}
			ins.A, ins.C = slot, slot
		case op.GetInfo(ins.Op).IsBinary():
			cursor -= 2
			dest, err := c.register(node, cursor)
			if err != nil {
				return nil, err
			}
			in2, err := c.register(node, cursor+1)
			if err != nil {
				return nil, err
			}
			ins.A, ins.B, ins.C = dest, dest, in2
			cursor++
		default:
			return nil, c.malformed(node, "unexpected %s in expression code", ins.Op)
		}
		out[i] = emitted{ins: ins, loc: e.loc}
	}
	return out, nil
}

// compileComparison compiles a comparison whose Bool result ends up in
// register base. The right-hand side is evaluated at base+1.
func (c *Compiler) compileComparison(node *ast.Node, base int) (sequence, error) {
	if node == nil || node.Rule != ast.Comparison || len(node.Children) != 3 {
		return nil, c.malformed(node, "expected a comparison")
	}
	opNode := node.Children[1]
	code, ok := compareOperators[opNode.Text]
	if opNode.Rule != ast.CompareOperator || !ok {
		return nil, c.malformed(opNode, "expected a comparison operator, got %q", opNode.Text)
	}
	dest, err := c.register(node, base)
	if err != nil {
		return nil, err
	}
	in2, err := c.register(node, base+1)
	if err != nil {
		return nil, err
	}
	lhs, err := c.compileExpression(node.Children[0], base)
	if err != nil {
		return nil, err
	}
	rhs, err := c.compileExpression(node.Children[2], base+1)
	if err != nil {
		return nil, err
	}
	seq := append(lhs, rhs...)
	return append(seq, c.emit(opNode, bytecode.NewBinary(code, dest, dest, in2))), nil
}

// checkBound reports the first identifier under node that is not bound.
func (c *Compiler) checkBound(node *ast.Node) error {
	for n := range ast.Preorder(node) {
		if n.Rule != ast.Ident {
			continue
		}
		if _, err := c.lookup(n); err != nil {
			return err
		}
	}
	return nil
}

// bareIdentifier returns the variable name if expr is a single identifier.
func bareIdentifier(expr *ast.Node) (*ast.Node, bool) {
	if expr == nil || expr.Rule != ast.Expression || len(expr.Children) != 1 {
		return nil, false
	}
	value := expr.Children[0]
	if value.Rule != ast.Value {
		return nil, false
	}
	ident := value.Child(0)
	if ident == nil || ident.Rule != ast.Ident {
		return nil, false
	}
	return ident, true
}
