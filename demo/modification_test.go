package demo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spinewalk/cow"
	"github.com/spinewalk/cow/cursor"
	"github.com/spinewalk/cow/demo"
	"github.com/spinewalk/cow/trail"
)

// Mutating through a trail only clones the nodes on the path it walked;
// everything else stays structurally shared with the pre-mutation tree.
func TestTrailMutationSharesUntouchedSubtrees(t *testing.T) {
	a := assert.New(t)

	orig := demo.NewTree()
	copied := orig.Copy()

	tr := trail.New[demo.Node](&orig)
	tr.Push(demo.StepRight) // node 5
	tr.Push(demo.StepLeft)  // node 6
	tr.Write().Value = 16

	a.Equal(16, orig.Read().Right.Read().Left.Read().Value)
	a.Equal(6, copied.Read().Right.Read().Left.Read().Value)

	a.True(cow.Equal(orig.Read().Left, copied.Read().Left), "left subtree should stay shared")
	a.EqualValues(2, orig.Read().Left.UseCount())

	a.False(cow.Equal(orig.Read().Right, copied.Read().Right), "right subtree had to clone")
	a.True(cow.Equal(orig.Read().Right.Read().Right, copied.Read().Right.Read().Right),
		"node 7 was never on the trail's path and should still be shared")
}

func TestCursorWriteOnUniqueTreeDoesNotClone(t *testing.T) {
	a := assert.New(t)

	tree := demo.NewTree()
	before := tree.Read().Left.Read()

	left := cursor.Step[demo.Node, demo.Node](cursor.Root[demo.Node](&tree), demo.StepLeft)
	after := left.Write()

	a.Same(before, after, "a uniquely-owned tree should mutate in place")
}

func TestBadDowncastLeavesSourceIntact(t *testing.T) {
	a := assert.New(t)

	circle := cow.Make(demo.Circle{Shape: demo.Shape{Label: "c"}, Radius: 1})
	shape := cow.Cast[demo.Shape](circle)

	rect := cow.Dynamic[demo.Rect](shape)
	a.False(rect.IsSet())
	a.True(shape.IsSet())
	a.Equal("c", shape.Read().Label)
}

func TestAreaDispatchesOnConcreteType(t *testing.T) {
	a := assert.New(t)

	circle := cow.Cast[demo.Shape](cow.Make(demo.Circle{Radius: 1}))
	rect := cow.Cast[demo.Shape](cow.Make(demo.Rect{W: 3, H: 4}))

	a.InDelta(3.14159265, demo.Area(circle), 0.0001)
	a.Equal(12.0, demo.Area(rect))
}
