package replica

import (
	"context"
	"unsafe"
)

// allocGuard owns a freshly allocated block until the copy into it succeeds.
// Deferring release frees the block on every exit path, including panics;
// disarm hands the block out and turns release into a no-op.
type allocGuard struct {
	ctx    context.Context
	alloc  Allocator
	ptr    unsafe.Pointer
	layout Layout
	armed  bool
}

// acquireGuard arms a guard over ptr, which must come from alloc.Allocate(layout).
func acquireGuard(ctx context.Context, alloc Allocator, ptr unsafe.Pointer, layout Layout) *allocGuard {
	return &allocGuard{
		ctx:    ctx,
		alloc:  alloc,
		ptr:    ptr,
		layout: layout,
		armed:  true,
	}
}

// release deallocates the block if the guard is still armed.
// It reports whether it freed anything.
func (g *allocGuard) release() bool {
	if !g.armed {
		return false
	}
	g.armed = false
	ptr := g.ptr
	g.ptr = nil
	g.alloc.Deallocate(ptr, g.layout)
	emitGuardReleased(g.ctx, g.layout)
	return true
}

// disarm transfers ownership of the block to the caller.
func (g *allocGuard) disarm() unsafe.Pointer {
	g.armed = false
	ptr := g.ptr
	g.ptr = nil
	return ptr
}
