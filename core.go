package cow

import (
	"reflect"
	"sync/atomic"
	"unsafe"

	"github.com/spinewalk/cow/internal/typetag"
)

// core is the type-erased control block. It is never exposed directly;
// Shared[T] is the only thing that ever sees one, and only through its
// own type parameter.
//
// refs and tag are plain metadata about the allocation; clone is the one
// piece of type-specific behavior the control block needs and can't get
// generically (it has to know T to allocate and copy a *T), so it is
// captured as a closure at construction time instead of being a method
// with a type parameter of its own.
type core struct {
	refs atomic.Int64
	tag  typetag.Tag
	// clone produces a fresh heap allocation holding a value-copy of the
	// current payload, returned as an untyped pointer. The caller (always
	// a Shared[T] method, which knows T) is responsible for converting it
	// back to *T.
	clone func() unsafe.Pointer
}

// newCore builds a core bound to the live payload at p (concrete type T),
// with refcount 1.
func newCore[T any](p *T, tag typetag.Tag) *core {
	c := &core{tag: tag}
	c.refs.Store(1)
	c.clone = func() unsafe.Pointer {
		v := *p
		np := new(T)
		*np = v
		bumpNestedHandles(reflect.ValueOf(np).Elem())
		return unsafe.Pointer(np)
	}
	return c
}
