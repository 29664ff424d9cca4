// Package cursor implements a single navigation step from a parent handle
// position to a child handle position, with deferred, one-shot write
// propagation.
//
// A natural port of this from a class-hierarchy design would give a root
// anchor, a closure-based step, and an offset-based step three separate
// types behind a common interface, each step paying a virtual dispatch to
// find its child slot. Go closures already cost no more than a direct
// call once inlined, so instead Cursor is one concrete generic type with
// a step func value: no interface dispatch between kinds, and Root/Step/
// StepOffset are just three constructors for it.
package cursor

import (
	"unsafe"

	"github.com/spinewalk/cow"
)

// Spot is the read/write surface shared by a root handle and every
// cursor step, so a cursor composes with another cursor or a plain
// handle identically. *cow.Shared[T] satisfies this directly
// (Get/Write/IsSet/UseCount are all already methods on it); Root wraps one
// as the anchor of a path.
type Spot[T any] interface {
	Get() *T
	Write() *T
	IsSet() bool
	UseCount() int64
}

// Cursor is a single descent step from a From-typed parent position to a
// To-typed child slot. The zero Cursor is not usable; construct one with
// Root, Step, or StepOffset.
//
// Cursor is move-only in spirit: copying a Cursor by Go assignment
// compiles (Go has no non-copyable types short of sync.Mutex-shaped
// copy-lock detection), but two copies would each think they owned the
// one-shot write propagation through the same parent and could clone it
// twice. noCopy flags the mistake to `go vet -copylocks` the same way
// sync.WaitGroup does.
type Cursor[From, To any] struct {
	_ noCopy

	// anchor is non-nil only for a root cursor, in which case it IS the
	// observed slot and parent/step are unused.
	anchor Spot[To]

	parent Spot[From]
	step   func(*From) *Shared[To]

	here    *Shared[To]
	written bool
}

// Shared is a short alias for cow.Shared, spelled out here only so this
// file's signatures don't repeat the import qualifier on every line.
type Shared[T any] = cow.Shared[T]

// Root constructs a cursor wrapping an externally-owned root slot
// directly as its anchor, with no parent to propagate a write through.
func Root[T any](anchor Spot[T]) *Cursor[T, T] {
	return &Cursor[T, T]{anchor: anchor}
}

// Step constructs a function cursor: fn is a pure projection from the
// parent's current payload to a pointer to the child's slot (or nil).
func Step[From, To any](parent Spot[From], fn func(*From) *Shared[To]) *Cursor[From, To] {
	c := &Cursor[From, To]{parent: parent, step: fn}
	if parent.IsSet() {
		c.here = fn(parent.Get())
	}
	return c
}

// StepOffset constructs an offset cursor: fieldInParent must be a pointer
// to a Shared[To] field within parent's currently-observed payload (e.g.
// &node.Left). The byte offset from the parent's address is computed once
// here via unsafe.Pointer subtraction and captured in the cursor's step
// function, which adds it to the new parent address on every
// re-derivation, so the caller writes no accessor of their own.
// Re-derivation is still a call through that step function, as for Step.
func StepOffset[From, To any](parent Spot[From], fieldInParent *Shared[To]) *Cursor[From, To] {
	base := parent.Get()
	if base == nil {
		panic("cursor: StepOffset requires a currently-set parent")
	}
	offset := uintptr(unsafe.Pointer(fieldInParent)) - uintptr(unsafe.Pointer(base))

	fn := func(p *From) *Shared[To] {
		return (*Shared[To])(unsafe.Pointer(uintptr(unsafe.Pointer(p)) + offset))
	}
	return &Cursor[From, To]{parent: parent, step: fn, here: fieldInParent}
}

// Get returns the currently observed child slot's payload, or nil.
func (c *Cursor[From, To]) Get() *To {
	if c.anchor != nil {
		return c.anchor.Get()
	}
	if c.here == nil {
		return nil
	}
	return c.here.Get()
}

// IsSet reports whether the observed slot is non-nil and live.
func (c *Cursor[From, To]) IsSet() bool {
	return c.Get() != nil
}

// UseCount delegates to the observed slot, or 0 if there is none.
func (c *Cursor[From, To]) UseCount() int64 {
	if c.anchor != nil {
		return c.anchor.UseCount()
	}
	if c.here == nil {
		return 0
	}
	return c.here.UseCount()
}

// Write propagates a mutation up to down: a root cursor forwards
// directly to the anchor; any other cursor materializes at most once per
// lifetime (one-shot), forcing its parent unique first and re-deriving
// its own slot only if the parent's address actually changed.
func (c *Cursor[From, To]) Write() *To {
	if c.anchor != nil {
		return c.anchor.Write()
	}
	if c.written {
		if c.here == nil {
			return nil
		}
		return c.here.Write()
	}
	c.written = true

	if c.parent == nil || !c.parent.IsSet() {
		c.here = nil
		return nil
	}

	oldP := c.parent.Get()
	newP := c.parent.Write()
	switch {
	case newP == nil:
		c.here = nil
	case newP != oldP:
		c.here = c.step(newP)
	default:
		// Parent was already unique: the slot address doesn't move, so
		// c.here is still valid. Re-derive it anyway as a cross-check.
		if c.step(newP) != c.here {
			panic("cursor: re-derived child slot differs from the cached slot")
		}
	}

	if c.here == nil {
		return nil
	}
	return c.here.Write()
}

// noCopy marks Cursor as move-only to `go vet -copylocks`, the same
// convention sync.WaitGroup and friends use in the standard library.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
