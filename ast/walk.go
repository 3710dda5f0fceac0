package ast

import "iter"

// Visitor defines the interface for parse tree traversal. If Visit returns
// nil, children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node *Node) (w Visitor)
}

// Walk traverses a tree in depth-first order. It starts by calling
// v.Visit(node); if the returned visitor w is not nil, Walk is invoked
// recursively with visitor w for each of the children of node.
func Walk(v Visitor, node *Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, child := range node.Children {
		Walk(v, child)
	}
}

type inspector func(*Node) bool

func (f inspector) Visit(node *Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect traverses a tree in depth-first order. It calls f(node) for each
// node; if f returns true, Inspect continues with the children of node.
func Inspect(node *Node, f func(*Node) bool) {
	Walk(inspector(f), node)
}

// Preorder returns an iterator over all nodes of the tree rooted at root,
// in depth-first preorder.
func Preorder(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		ok := true
		Inspect(root, func(n *Node) bool {
			if ok {
				ok = yield(n)
			}
			return ok
		})
	}
}
