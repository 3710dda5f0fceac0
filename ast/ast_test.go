package ast

import (
	"testing"

	"github.com/kevs-vm/kevs/internal/token"
	"github.com/stretchr/testify/require"
)

func pos(line, column int) token.Position {
	return token.Position{Line: line, Column: column}
}

// x = 1 + y;
func sampleTree() *Node {
	one := New(Value, Span{pos(0, 4), pos(0, 4)}, Leaf(Number, "1", Span{pos(0, 4), pos(0, 4)}))
	y := New(Value, Span{pos(0, 8), pos(0, 8)}, Leaf(Ident, "y", Span{pos(0, 8), pos(0, 8)}))
	expr := New(Expression, Span{pos(0, 4), pos(0, 8)},
		one, Leaf(Operator, "+", Span{pos(0, 6), pos(0, 6)}), y)
	assign := New(Assignment, Span{pos(0, 0), pos(0, 9)},
		Leaf(Ident, "x", Span{pos(0, 0), pos(0, 0)}), expr)
	return New(Program, Span{pos(0, 0), pos(0, 9)}, assign)
}

func TestString(t *testing.T) {
	require.Equal(t,
		"(program (assignment (ident x) (expression (value (number 1)) (operator +) (value (ident y)))))",
		sampleTree().String())
	require.Equal(t, `(string "a b")`, Leaf(String, "a b", Span{}).String())
	require.Equal(t, `(string "")`, Leaf(String, "", Span{}).String())
}

func TestChild(t *testing.T) {
	tree := sampleTree()
	require.Equal(t, Assignment, tree.Child(0).Rule)
	require.Nil(t, tree.Child(1))
	require.Nil(t, tree.Child(-1))
	require.Equal(t, 9, tree.Child(0).End().Column)
	require.Equal(t, 0, tree.Child(0).Pos().Column)
}

func TestInspect(t *testing.T) {
	var rules []Rule
	Inspect(sampleTree(), func(n *Node) bool {
		rules = append(rules, n.Rule)
		return n.Rule != Expression
	})
	require.Equal(t, []Rule{Program, Assignment, Ident, Expression}, rules)
}

func TestPreorder(t *testing.T) {
	var idents []string
	for n := range Preorder(sampleTree()) {
		if n.Rule == Ident {
			idents = append(idents, n.Text)
		}
	}
	require.Equal(t, []string{"x", "y"}, idents)

	count := 0
	for range Preorder(sampleTree()) {
		count++
		if count == 2 {
			break
		}
	}
	require.Equal(t, 2, count)
}
