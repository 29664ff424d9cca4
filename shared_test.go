package cow_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spinewalk/cow"
)

// A copy of a scalar handle shares the allocation until one side writes.
func TestScalarCoW(t *testing.T) {
	i := cow.Make(1)
	j := i.Copy()

	require.EqualValues(t, 2, i.UseCount())
	require.EqualValues(t, 2, j.UseCount())
	require.True(t, cow.Equal(i, j))
	require.Equal(t, 1, *i.Read())

	*j.Write() = 2

	require.EqualValues(t, 1, i.UseCount())
	require.EqualValues(t, 1, j.UseCount())
	require.False(t, cow.Equal(i, j))
	require.Equal(t, 1, *i.Read())
	require.Equal(t, 2, *j.Read())
}

type point struct {
	X, Y int
}

// Writing a single field on an aliased struct handle clones the whole
// struct, leaving the original alias's fields untouched.
func TestStructFieldEdit(t *testing.T) {
	p := cow.Make(point{X: 1, Y: 2})
	q := p.Copy()

	p.Write().X += 10

	require.False(t, cow.Equal(p, q))
	require.Equal(t, 11, p.Read().X)
	require.Equal(t, 2, p.Read().Y)
	require.Equal(t, 1, q.Read().X)
	require.Equal(t, 2, q.Read().Y)
}

func TestWriteOnUniqueHandleDoesNotClone(t *testing.T) {
	p := cow.Make(point{X: 1, Y: 1})
	before := p.Read()
	after := p.Write()
	require.Same(t, before, after)
	require.EqualValues(t, 1, p.UseCount())
}

func TestWriteOnAliasedHandleClones(t *testing.T) {
	p := cow.Make(point{X: 1, Y: 1})
	q := p.Copy()

	beforeP := p.Read()
	afterP := p.Write()

	require.NotSame(t, beforeP, afterP)
	require.NotSame(t, afterP, q.Read())
	require.EqualValues(t, 1, p.UseCount())
	require.EqualValues(t, 1, q.UseCount())
}

func TestMakeProducesDistinctAllocations(t *testing.T) {
	a := cow.Make(point{X: 1, Y: 1})
	b := cow.Make(point{X: 1, Y: 1})
	require.False(t, cow.Equal(a, b))
}

func TestNullHandle(t *testing.T) {
	var s cow.Shared[point]
	require.False(t, s.IsSet())
	require.Nil(t, s.Read())
	require.Nil(t, s.Write())
	require.EqualValues(t, 0, s.UseCount())
	require.Nil(t, s.TypeInfo())
}

func TestCopyAfterDropPanics(t *testing.T) {
	p := cow.Make(point{X: 1, Y: 1})
	// A raw struct copy (not through Copy) aliases the same control block
	// without bumping the refcount, since plain assignment in Go has no
	// copy-constructor hook. Dropping p alone then leaves stale aimed at
	// a refcount that already hit zero.
	stale := p
	p.Drop()

	require.Panics(t, func() { stale.Copy() })
}

func TestDropThenReadIsNull(t *testing.T) {
	p := cow.Make(point{X: 1, Y: 1})
	p.Drop()
	require.Nil(t, p.Read())
	require.False(t, p.IsSet())
}

func TestTypeInfoMatchesConcreteType(t *testing.T) {
	p := cow.Make(point{X: 1, Y: 1})
	require.Equal(t, "point", p.TypeInfo().Name())
}
