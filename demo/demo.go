// Package demo shows the cow, cursor, and trail packages working
// together over two small example types: Node, a binary tree used to
// exercise structural sharing through a trail descent, and Shape, a
// small embedding hierarchy used to exercise Cast and Dynamic.
package demo

import "github.com/spinewalk/cow"

//go:generate cowgen Node

// Node is a binary tree node. Left and Right are cow.Shared handles, so
// copying a Node's containing tree is O(1) and writing through a trail
// only clones the spine the trail walked.
type Node struct {
	Value int
	Left  cow.Shared[Node]
	Right cow.Shared[Node]
}

// Leaf builds a childless Node holding v.
func Leaf(v int) cow.Shared[Node] {
	return cow.Make(Node{Value: v})
}

// NewTree builds the seven-node tree used throughout this package's
// tests and examples:
//
//	        1
//	      /   \
//	     2     5
//	    / \   / \
//	   3   4 6   7
func NewTree() cow.Shared[Node] {
	return cow.Make(Node{
		Value: 1,
		Left: cow.Make(Node{
			Value: 2,
			Left:  Leaf(3),
			Right: Leaf(4),
		}),
		Right: cow.Make(Node{
			Value: 5,
			Left:  Leaf(6),
			Right: Leaf(7),
		}),
	})
}

// Sum walks a Node tree read-only and totals every Value. It takes a
// plain *Node rather than a cow.Shared[Node] to show that the read-side
// API of the tree is ordinary Go: no cursor is needed unless a write is
// coming.
func Sum(n *Node) int {
	if n == nil {
		return 0
	}
	total := n.Value
	if left := n.Left.Read(); left != nil {
		total += Sum(left)
	}
	if right := n.Right.Read(); right != nil {
		total += Sum(right)
	}
	return total
}

// Shape is the base of a small embedding hierarchy: Circle and Rect both
// embed Shape as their first field, which is what lets cow.Cast and
// cow.Dynamic reinterpret a handle to either of them as a
// cow.Shared[Shape] and back.
type Shape struct {
	Label string
}

// Circle is a Shape with a radius.
type Circle struct {
	Shape
	Radius float64
}

// Rect is a Shape with width and height.
type Rect struct {
	Shape
	W, H float64
}

// Area reports the area of whichever concrete shape s holds, or 0 if s
// isn't a Circle or a Rect.
func Area(s cow.Shared[Shape]) float64 {
	if c := cow.ReadIf[Circle](s); c != nil {
		return 3.14159265 * c.Radius * c.Radius
	}
	if r := cow.ReadIf[Rect](s); r != nil {
		return r.W * r.H
	}
	return 0
}
