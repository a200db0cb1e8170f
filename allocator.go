package replica

import (
	"reflect"
	"unsafe"

	"github.com/modern-go/reflect2"
)

// Allocator provides raw storage for cloned values.
//
// Allocate returns storage for exactly one value of l.Type, aligned to
// l.Align, or nil when the request cannot be satisfied. A nil return is
// treated as fatal exhaustion. For zero-sized layouts the allocator may return
// any non-nil pointer; nothing is read or written through it.
//
// Deallocate releases a block with the layout it was allocated with.
// Implementations must be safe for concurrent use.
type Allocator interface {
	Allocate(l Layout) unsafe.Pointer
	Deallocate(p unsafe.Pointer, l Layout)
}

// HeapAllocator allocates from the Go heap.
//
// Blocks are typed so the collector scans any pointers they contain, and the
// collector reclaims them once unreachable. Deallocate therefore only drops
// the block's contents so released values stop retaining their referents.
type HeapAllocator struct{}

// Allocate returns zeroed storage typed as l.Type.
// Zero-sized types share the runtime's zero-size base address.
func (HeapAllocator) Allocate(l Layout) unsafe.Pointer {
	if l.Type == nil {
		return nil
	}
	return reflect2.Type2(l.Type).UnsafeNew()
}

// Deallocate zeroes the block.
func (HeapAllocator) Deallocate(p unsafe.Pointer, l Layout) {
	if p == nil || l.ZeroSized() || l.Type == nil {
		return
	}
	reflect.NewAt(l.Type, p).Elem().SetZero()
}
