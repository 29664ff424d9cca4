package cow

import (
	"reflect"
	"unsafe"
)

// refBumper is implemented by every Shared[T] instantiation via a method
// whose signature doesn't mention T, so bumpNestedHandles can find and call it
// through reflection regardless of the field's concrete type parameter.
type refBumper interface {
	bumpRefForClone()
}

// bumpNestedHandles walks a freshly value-copied payload looking for
// embedded Shared[X] fields and bumps each one's refcount in place.
//
// Go has no copy constructors, so newCore's clone does a raw `v := *p`
// struct copy, which duplicates a nested Shared[X]'s (core, ptr) pair
// byte-for-byte without telling its control block there are now two
// owners of that slot. Left alone, that undercounts every nested handle
// by exactly one the first time an ancestor is cloned.
//
// Fixing it means reflecting over the fresh copy's Kind (struct,
// slice/array) and recursing. This only needs those two cases — a
// Shared[X] field is a value type, never a pointer, so there's no
// pointer indirection to chase, and recursing into plain
// pointer/interface/map fields would touch memory this payload doesn't
// own.
func bumpNestedHandles(v reflect.Value) {
	switch v.Kind() {
	case reflect.Struct:
		if v.CanAddr() {
			// NewAt rebuilds the pointer without the read-only flag reflect
			// puts on values reached through unexported fields, so handles
			// stored in unexported fields are bumped as well.
			p := reflect.NewAt(v.Type(), unsafe.Pointer(v.UnsafeAddr()))
			if rb, ok := p.Interface().(refBumper); ok {
				rb.bumpRefForClone()
				return
			}
		}
		for i := 0; i < v.NumField(); i++ {
			f := v.Field(i)
			if !f.CanAddr() {
				continue
			}
			switch f.Kind() {
			case reflect.Struct, reflect.Array, reflect.Slice:
				bumpNestedHandles(f)
			}
		}
	case reflect.Array, reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			bumpNestedHandles(v.Index(i))
		}
	}
}
