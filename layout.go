package replica

import (
	"fmt"
	"reflect"
	"unsafe"
)

// Layout describes the storage a dynamic value occupies.
// A block must be deallocated with the same Layout it was allocated with.
type Layout struct {
	Type  reflect.Type // Dynamic type the storage is for
	Size  uintptr      // Size in bytes
	Align uintptr      // Required alignment in bytes
}

// LayoutOf returns the exact layout of values of type t.
func LayoutOf(t reflect.Type) Layout {
	return Layout{
		Type:  t,
		Size:  t.Size(),
		Align: uintptr(t.Align()),
	}
}

// ZeroSized reports whether the layout occupies no bytes.
func (l Layout) ZeroSized() bool {
	return l.Size == 0
}

// Fits reports whether p satisfies the layout's alignment.
func (l Layout) Fits(p unsafe.Pointer) bool {
	if p == nil {
		return false
	}
	if l.Align <= 1 {
		return true
	}
	return uintptr(p)%l.Align == 0
}

// Equal reports whether two layouts describe the same storage.
func (l Layout) Equal(o Layout) bool {
	return l.Type == o.Type && l.Size == o.Size && l.Align == o.Align
}

func (l Layout) String() string {
	name := "<nil>"
	if l.Type != nil {
		name = l.Type.String()
	}
	return fmt.Sprintf("%s{size=%d, align=%d}", name, l.Size, l.Align)
}
