package replica

import (
	"reflect"
	"unsafe"
)

// ifaceWords is the in-memory shape of an interface value: the type word
// (itab for non-empty interfaces, type descriptor for any) followed by the
// data word. CheckLayout verifies this shape before it is relied on.
type ifaceWords struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// wordsOf reinterprets an interface variable as its two words.
// I must be an interface type.
func wordsOf[I any](v *I) *ifaceWords {
	return (*ifaceWords)(unsafe.Pointer(v))
}

// valuePointer returns a pointer to the dynamic value held by *v.
// Pointer-shaped values live in the data word itself; everything else
// lives in storage the data word points to.
func valuePointer[I any](v *I, direct bool) unsafe.Pointer {
	w := wordsOf(v)
	if direct {
		return unsafe.Pointer(&w.data)
	}
	return w.data
}

// reattach returns an interface value with source's type word and a data word
// referring to the value stored at data. Only the data word is rewritten.
func reattach[I any](source I, data unsafe.Pointer, direct bool) I {
	out := source
	w := wordsOf(&out)
	if direct {
		w.data = *(*unsafe.Pointer)(data)
	} else {
		w.data = data
	}
	return out
}

// isDirectIface reports whether values of t are stored directly in the
// interface data word rather than behind it.
func isDirectIface(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan, reflect.Func:
		return true
	case reflect.Struct:
		return t.NumField() == 1 && isDirectIface(t.Field(0).Type)
	case reflect.Array:
		return t.Len() == 1 && isDirectIface(t.Elem())
	default:
		return false
	}
}
