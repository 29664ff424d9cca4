package gen

import "go/types"

// sharedField describes one cow.Shared[X] field cowgen found on a struct.
type sharedField struct {
	// Name is the Go field name, e.g. "Left".
	Name string
	// Elem is X in cow.Shared[X].
	Elem types.Type
}

// cowStruct is a named struct carrying one or more cow.Shared[X] fields —
// the unit cowgen emits a generated file for.
type cowStruct struct {
	Named  *types.Named
	Struct *types.Struct
	Fields []sharedField
}

// String is codegen-safe.
func (s *cowStruct) String() string {
	return s.Named.Obj().Name()
}
