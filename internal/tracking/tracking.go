// Package tracking provides an Allocator that accounts for every block it
// hands out, for tests and the probe command.
package tracking

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/zoobzio/replica"
)

// Allocator counts allocations and checks every block is returned with the
// layout it was handed out with. Storage comes from the heap.
//
// Zero-sized blocks all share the runtime's zero base address, so they are
// counted per layout instead of by pointer.
type Allocator struct {
	heap replica.HeapAllocator

	mu         sync.Mutex
	live       map[unsafe.Pointer]replica.Layout
	zeroSized  map[replica.Layout]int
	allocs     int
	deallocs   int
	liveBytes  uintptr
	mismatches []string
	FailAllocs bool // Allocate returns nil while set
	Misalign   bool // Allocate returns a pointer offset by one byte while set
}

// New returns an empty Allocator.
func New() *Allocator {
	return &Allocator{
		live:      make(map[unsafe.Pointer]replica.Layout),
		zeroSized: make(map[replica.Layout]int),
	}
}

// Allocate implements replica.Allocator.
func (a *Allocator) Allocate(l replica.Layout) unsafe.Pointer {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.FailAllocs {
		return nil
	}
	p := a.heap.Allocate(l)
	if a.Misalign {
		p = unsafe.Add(p, 1)
	}
	a.allocs++
	if l.ZeroSized() {
		a.zeroSized[l]++
		return p
	}
	a.liveBytes += l.Size
	a.live[p] = l
	return p
}

// Deallocate implements replica.Allocator.
func (a *Allocator) Deallocate(p unsafe.Pointer, l replica.Layout) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.deallocs++
	if l.ZeroSized() {
		a.releaseZeroSized(p, l)
		return
	}
	got, ok := a.live[p]
	switch {
	case !ok:
		a.mismatches = append(a.mismatches, fmt.Sprintf("deallocate of unknown block %p (%s)", p, l))
		return
	case !got.Equal(l):
		a.mismatches = append(a.mismatches, fmt.Sprintf("block %p allocated as %s, deallocated as %s", p, got, l))
	}
	delete(a.live, p)
	a.liveBytes -= got.Size
	if !a.Misalign {
		a.heap.Deallocate(p, l)
	}
}

func (a *Allocator) releaseZeroSized(p unsafe.Pointer, l replica.Layout) {
	if a.zeroSized[l] == 0 {
		a.mismatches = append(a.mismatches, fmt.Sprintf("deallocate of unknown zero-sized block %p (%s)", p, l))
		return
	}
	a.zeroSized[l]--
	if a.zeroSized[l] == 0 {
		delete(a.zeroSized, l)
	}
}

// Allocs returns the number of successful allocations.
func (a *Allocator) Allocs() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.allocs
}

// Deallocs returns the number of deallocations.
func (a *Allocator) Deallocs() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.deallocs
}

// Live returns the number of outstanding blocks, zero-sized ones included.
func (a *Allocator) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := len(a.live)
	for _, count := range a.zeroSized {
		n += count
	}
	return n
}

// LiveBytes returns the bytes held by outstanding blocks.
func (a *Allocator) LiveBytes() uintptr {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.liveBytes
}

// Err reports layout mismatches seen by Deallocate.
func (a *Allocator) Err() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.mismatches) == 0 {
		return nil
	}
	errs := make([]error, len(a.mismatches))
	for i, m := range a.mismatches {
		errs[i] = errors.New(m)
	}
	return errors.Join(errs...)
}
