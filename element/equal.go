package element

import (
	"math"
	"reflect"
	"unsafe"
)

// eface mirrors the runtime layout of an empty interface.
type eface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// funcIdentity returns the closure pointer held by a func value boxed in an
// interface. Func values are pointer shaped so the data word is the
// closure itself: copies of one closure share it, separately created
// closures do not.
func funcIdentity(v any) unsafe.Pointer {
	return (*eface)(unsafe.Pointer(&v)).data
}

// Is reports identity in the sense used for state and dependency
// comparison: comparable values by ==, maps, slices and funcs by reference,
// and NaN equal to itself.
func Is(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Func:
		return funcIdentity(a) == funcIdentity(b)
	case reflect.Map:
		return va.UnsafePointer() == vb.UnsafePointer()
	case reflect.Slice:
		return va.UnsafePointer() == vb.UnsafePointer() && va.Len() == vb.Len()
	case reflect.Float32, reflect.Float64:
		x, y := va.Float(), vb.Float()
		if math.IsNaN(x) && math.IsNaN(y) {
			return true
		}
		if x == 0 && y == 0 {
			return math.Signbit(x) == math.Signbit(y)
		}
		return x == y
	}
	if !va.Comparable() {
		return false
	}
	return a == b
}

// SameType compares element types. Component functions compare by closure
// identity.
func SameType(a, b any) bool {
	return Is(a, b)
}

// SameRef compares two refs by identity.
func SameRef(a, b Ref) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Is(a, b)
}

// SameProps reports whether two prop maps are the same map.
func SameProps(a, b Props) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}

// ShallowEqual compares two prop maps key by key with Is.
func ShallowEqual(a, b Props) bool {
	if SameProps(a, b) {
		return true
	}
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !Is(av, bv) {
			return false
		}
	}
	return true
}
