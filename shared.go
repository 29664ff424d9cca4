// Package cow implements a copy-on-write shared handle: a thread-safe,
// refcounted reference to a T that clones on first write after aliasing
// and otherwise lets readers structurally share one allocation.
//
// Go has no destructors, so unlike a RAII smart pointer, Copy and Drop
// are explicit calls rather than something that happens automatically on
// assignment or scope exit. A plain Go assignment `b := a` copies the
// Shared[T] struct value
// (just the control-block pointer and a cached payload pointer) without
// touching the refcount — callers that want a second independent handle
// to the same payload must call a.Copy(). The garbage collector reclaims
// the control block once nothing references it regardless of what the
// refcount says; the refcount exists purely to decide when Write must
// clone, not to manage memory lifetime.
package cow

import (
	"reflect"
	"unsafe"

	"github.com/spinewalk/cow/internal/typetag"
)

// Shared is a copy-on-write handle to a T. The zero value is the null
// handle.
type Shared[T any] struct {
	core *core
	ptr  *T
}

// Make allocates a new control block holding a copy of value and returns a
// handle to it with refcount 1.
func Make[T any](value T) Shared[T] {
	p := new(T)
	*p = value
	tag := typetag.Register[T]()
	return Shared[T]{core: newCore(p, tag), ptr: p}
}

// IsSet reports whether s refers to a live payload.
func (s Shared[T]) IsSet() bool {
	return s.core != nil
}

// Get is an alias for Read, matching the cursor.Spot[T] surface so that
// *cow.Shared[T] can stand in directly as the root of a cursor or trail.
func (s Shared[T]) Get() *T {
	return s.Read()
}

// Read returns the immutable view of the payload, or nil if s is null.
//
// Go has no separate debug/release build, and a library that panics on
// every nil check in a hot read path is not idiomatic Go, so Read returns
// nil on a null handle instead of asserting.
func (s Shared[T]) Read() *T {
	return s.ptr
}

// UseCount is an advisory, relaxed-equivalent read of the refcount. It is
// 0 for a null handle. Racy against concurrent Copy on other handles by
// design — it exists for tests and diagnostics, not for making ownership
// decisions at runtime (Write already does that itself).
func (s Shared[T]) UseCount() int64 {
	if s.core == nil {
		return 0
	}
	return s.core.refs.Load()
}

// TypeInfo returns the dynamic type of the payload s was constructed with,
// or nil for a null handle.
func (s Shared[T]) TypeInfo() reflect.Type {
	if s.core == nil {
		return nil
	}
	return typetag.TypeOf(s.core.tag)
}

// Copy returns a new handle aliasing the same payload, incrementing the
// refcount. Copying a null handle returns another null handle.
//
// Observing a pre-increment refcount of 0 means this handle was copied
// after its control block was already logically dead — a caller bug, not
// a recoverable condition, so Copy panics rather than silently producing
// a handle to garbage.
func (s Shared[T]) Copy() Shared[T] {
	if s.core == nil {
		return s
	}
	post := s.core.refs.Add(1)
	if post == 1 {
		panic("cow: Copy observed a zero refcount (use-after-drop)")
	}
	return s
}

// Drop releases this handle's share of the control block, decrementing
// the refcount, and nulls s. It does not free anything itself — see the
// package doc comment — but every Copy must be matched by a Drop (or by
// simply letting the value fall out of scope, which the Go runtime will
// still garbage collect correctly; Drop exists so UseCount stays an
// accurate count of live handles rather than live allocations).
func (s *Shared[T]) Drop() {
	if s.core == nil {
		return
	}
	s.core.refs.Add(-1)
	s.core = nil
	s.ptr = nil
}

// Reset is an alias for Drop for callers that prefer the name at a call
// site that's clearing a field rather than releasing a handle.
func (s *Shared[T]) Reset() {
	s.Drop()
}

// Write returns the mutable view of the payload, cloning the control
// block first if it is currently aliased (refcount > 1). A null handle's
// Write returns nil. After Write returns, s aliases no other handle.
func (s *Shared[T]) Write() *T {
	if s.core == nil {
		return nil
	}
	if s.core.refs.Load() == 1 {
		return s.ptr
	}

	newRaw := s.core.clone()
	newPtr := (*T)(newRaw)
	newC := newCore(newPtr, s.core.tag)

	s.core.refs.Add(-1)
	s.core = newC
	s.ptr = newPtr
	return s.ptr
}

// Equal reports whether a and b refer to the same payload (pointer
// identity) rather than merely equal values. Two null handles are equal.
func Equal[T any](a, b Shared[T]) bool {
	return a.ptr == b.ptr
}

// EqualPtr reports whether s refers to the payload at p (handle-vs-raw-
// pointer equality).
func EqualPtr[T any](s Shared[T], p *T) bool {
	return s.ptr == p
}

// bumpRefForClone increments this handle's own refcount without producing
// a new value. It exists only so bumpNestedHandles (nested.go) can find and bump
// a Shared[X] field it just duplicated via a raw struct copy — see
// nested.go for why that bump is needed at all. Unlike Copy, this has a
// signature that doesn't mention T, which is what lets reflection locate
// it through the refBumper interface regardless of field type.
func (s *Shared[T]) bumpRefForClone() {
	if s.core != nil {
		s.core.refs.Add(1)
	}
}

// rawPtr exposes the untyped payload address for use by the cast helpers
// in cast.go, which need to reinterpret it under a different type
// parameter.
func (s Shared[T]) rawPtr() unsafe.Pointer {
	return unsafe.Pointer(s.ptr)
}
