package cow

import (
	"unsafe"

	"github.com/spinewalk/cow/internal/typetag"
)

// Cast upcasts s to a handle over Base, where Derived embeds Base as its
// (possibly transitive) first field. Refcount is shared (incremented).
//
// C++ single inheritance guarantees a Derived* and its Base* subobject
// share an address (absent virtual/multiple inheritance); Go's analogue
// is struct embedding, where an embedded field's address always coincides
// with its containing struct's because the embedded field is placed first
// and Go's struct layout never reorders the first field. Cast relies on
// that guarantee via an unsafe.Pointer reinterpretation rather than a
// field copy, which is what keeps it O(1) and keeps the upcast and the
// original handle pointing at literally the same bytes.
func Cast[Base, Derived any](s Shared[Derived]) Shared[Base] {
	if s.core == nil {
		return Shared[Base]{}
	}
	s.core.refs.Add(1)
	return Shared[Base]{
		core: s.core,
		ptr:  (*Base)(s.rawPtr()),
	}
}

// MoveCast is Cast without a refcount change: ownership transfers from s
// to the returned handle, and s is nulled.
func MoveCast[Base, Derived any](s *Shared[Derived]) Shared[Base] {
	if s.core == nil {
		return Shared[Base]{}
	}
	out := Shared[Base]{core: s.core, ptr: (*Base)(s.rawPtr())}
	s.core = nil
	s.ptr = nil
	return out
}

// Dynamic performs a runtime-checked downcast: it returns a null Shared[U]
// unless s's payload was constructed as a U, or as some type that embeds U
// as its (transitive) first field. On success the refcount is incremented.
func Dynamic[U, T any](s Shared[T]) Shared[U] {
	if s.core == nil {
		return Shared[U]{}
	}
	if !typetag.IsSubtype[U](s.core.tag) {
		return Shared[U]{}
	}
	s.core.refs.Add(1)
	return Shared[U]{core: s.core, ptr: (*U)(s.rawPtr())}
}

// MoveDynamic is the transferring form of Dynamic. s is always nulled by
// this call, whether the cast succeeds or not — a failed dynamic move
// still consumes the source handle, since the caller has already
// expressed intent to give up ownership and a failed cast shouldn't leave
// them holding two live handles to the same payload. On a failed cast the
// refcount is decremented (the source's share of ownership is discarded);
// on success ownership transfers without a refcount change.
func MoveDynamic[U, T any](s *Shared[T]) Shared[U] {
	if s.core == nil {
		return Shared[U]{}
	}
	ok := typetag.IsSubtype[U](s.core.tag)
	var out Shared[U]
	if ok {
		out = Shared[U]{core: s.core, ptr: (*U)(s.rawPtr())}
	} else {
		s.core.refs.Add(-1)
	}
	s.core = nil
	s.ptr = nil
	return out
}

// StaticCastShared is a free-function alias for Cast, kept for readers
// more familiar with the static_cast_shared naming.
func StaticCastShared[Base, Derived any](s Shared[Derived]) Shared[Base] {
	return Cast[Base](s)
}

// DynamicCastShared is a free-function alias for Dynamic, kept for readers
// more familiar with the dynamic_cast_shared naming.
func DynamicCastShared[U, T any](s Shared[T]) Shared[U] {
	return Dynamic[U](s)
}

// ReadAs reinterprets s's payload as a *U without any type check — the
// caller asserts the layout compatibility themselves. Returns nil for a
// null handle.
func ReadAs[U, T any](s Shared[T]) *U {
	if s.core == nil {
		return nil
	}
	return (*U)(s.rawPtr())
}

// ReadIf is the runtime-checked counterpart of ReadAs. Returns nil if s is
// null or its payload is not (transitively, by embedding) a U.
func ReadIf[U, T any](s Shared[T]) *U {
	if s.core == nil {
		return nil
	}
	if !typetag.IsSubtype[U](s.core.tag) {
		return nil
	}
	return (*U)(s.rawPtr())
}

// WriteAs performs Write and reinterprets the result as a *U in one call.
// No type check is performed — use Dynamic first if the relationship
// isn't already statically known to the caller.
func WriteAs[U, T any](s *Shared[T]) *U {
	p := s.Write()
	if p == nil {
		return nil
	}
	return (*U)(unsafe.Pointer(p))
}
