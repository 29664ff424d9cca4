package cursor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spinewalk/cow"
	"github.com/spinewalk/cow/cursor"
)

type node struct {
	Value int
	Left  cow.Shared[node]
	Right cow.Shared[node]
}

func leftField(n *node) *cow.Shared[node]  { return &n.Left }
func rightField(n *node) *cow.Shared[node] { return &n.Right }

func TestRootCursorForwardsToAnchor(t *testing.T) {
	root := cow.Make(node{Value: 1})
	c := cursor.Root[node](&root)

	require.Equal(t, 1, c.Get().Value)

	c.Write().Value = 2
	require.Equal(t, 2, root.Read().Value)
}

func TestFunctionCursorPropagatesWriteAndSharesSiblings(t *testing.T) {
	root := cow.Make(node{
		Value: 1,
		Left:  cow.Make(node{Value: 2}),
		Right: cow.Make(node{Value: 3}),
	})
	rootCopy := root.Copy()

	rc := cursor.Root[node](&root)
	leftCursor := cursor.Step[node, node](rc, leftField)

	leftCursor.Write().Value = 20

	require.Equal(t, 20, root.Read().Left.Read().Value)
	require.Equal(t, 2, rootCopy.Read().Left.Read().Value)
	// The right subtree was never touched and stays structurally shared.
	require.True(t, cow.Equal(root.Read().Right, rootCopy.Read().Right))
	require.EqualValues(t, 2, root.Read().Right.UseCount())
}

func TestOffsetCursorPropagatesWrite(t *testing.T) {
	root := cow.Make(node{Value: 1, Left: cow.Make(node{Value: 2})})

	rc := cursor.Root[node](&root)
	parent := root.Read()
	oc := cursor.StepOffset[node, node](rc, &parent.Left)

	oc.Write().Value = 99
	require.Equal(t, 99, root.Read().Left.Read().Value)
}

func TestCursorWriteIsOneShot(t *testing.T) {
	root := cow.Make(node{Value: 1, Left: cow.Make(node{Value: 2})})
	rootCopy := root.Copy()
	_ = rootCopy

	rc := cursor.Root[node](&root)
	lc := cursor.Step[node, node](rc, leftField)

	first := lc.Write()
	second := lc.Write()
	require.Same(t, first, second)
}

func TestCursorOverUnsetChildReturnsNil(t *testing.T) {
	root := cow.Make(node{Value: 1})
	rc := cursor.Root[node](&root)
	lc := cursor.Step[node, node](rc, leftField)

	require.Nil(t, lc.Get())
	require.Nil(t, lc.Write())
}
