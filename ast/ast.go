// Package ast defines the parse tree of kevs programs.
//
// The tree is generic: every node carries the grammar rule that produced it,
// the matched source text and its children in source order. The compiler
// dispatches on Rule, so any front end producing this shape can feed it.
package ast

import (
	"fmt"
	"strings"

	"github.com/kevs-vm/kevs/internal/token"
)

// Rule identifies the grammar rule a node was produced by.
type Rule string

// Grammar rules
const (
	Program                  Rule = "program"
	Assignment               Rule = "assignment"
	ArrayAssignment          Rule = "arrayAssignment"
	FunctionCall             Rule = "functionCall"
	IfStatement              Rule = "ifStatement"
	WhileLoop                Rule = "whileLoop"
	FunctionDefinition       Rule = "functionDefinition"
	FunctionDefinitionNoArgs Rule = "functionDefinitionNoArgs"
	Load                     Rule = "load"
	Block                    Rule = "block"
	Comparison               Rule = "comparison"
	Expression               Rule = "expression"
	Value                    Rule = "value"
	Number                   Rule = "number"
	Ident                    Rule = "ident"
	String                   Rule = "string"
	ArrayElement             Rule = "arrayElement"
	ArrayLiteral             Rule = "arrayLiteral"
	Operator                 Rule = "operator"
	CompareOperator          Rule = "compareOperator"
	Params                   Rule = "params"
	Args                     Rule = "args"
)

// Span is the source range covered by a node. End is the position of the
// last character belonging to the node.
type Span struct {
	Start token.Position
	End   token.Position
}

// Node is one node of the parse tree.
//
// Text holds the matched source for leaves: the digits of a Number, the name
// of an Ident, the decoded contents of a String and the symbol of an Operator
// or CompareOperator. Interior nodes leave it empty.
type Node struct {
	Rule     Rule
	Text     string
	Span     Span
	Children []*Node
}

// New returns a node with the given rule, span and children.
func New(rule Rule, span Span, children ...*Node) *Node {
	return &Node{Rule: rule, Span: span, Children: children}
}

// Leaf returns a childless node holding text.
func Leaf(rule Rule, text string, span Span) *Node {
	return &Node{Rule: rule, Text: text, Span: span}
}

// Pos returns the position of the first character belonging to the node.
func (n *Node) Pos() token.Position {
	return n.Span.Start
}

// End returns the position of the last character belonging to the node.
func (n *Node) End() token.Position {
	return n.Span.End
}

// Child returns the i-th child, or nil if there is none.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// String renders the node as an S-expression, for example
// (assignment (ident x) (expression (value (number 1)))).
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	sb.WriteByte('(')
	sb.WriteString(string(n.Rule))
	if n.Text != "" || n.Rule == String {
		if n.Rule == String {
			fmt.Fprintf(sb, " %q", n.Text)
		} else {
			sb.WriteByte(' ')
			sb.WriteString(n.Text)
		}
	}
	for _, child := range n.Children {
		sb.WriteByte(' ')
		child.write(sb)
	}
	sb.WriteByte(')')
}
