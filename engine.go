package replica

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// errCloneAborted marks a clone that unwound through a panic.
var errCloneAborted = errors.New("clone aborted by panic")

// Engine clones interface values into storage from its Allocator.
//
// Engines are safe for concurrent use. The zero value is not usable; create
// engines with New.
type Engine struct {
	alloc     Allocator
	isolation bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithAllocator sets the allocator blocks are drawn from.
// The default is HeapAllocator.
func WithAllocator(a Allocator) Option {
	return func(e *Engine) {
		if a != nil {
			e.alloc = a
		}
	}
}

// WithIsolation refuses clones that would share referents with their
// original, i.e. shallow copies of types holding pointers, slices, maps,
// channels, functions or interfaces.
func WithIsolation(on bool) Option {
	return func(e *Engine) {
		e.isolation = on
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{alloc: HeapAllocator{}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = New()

// Allocator returns the engine's allocator.
func (e *Engine) Allocator() Allocator {
	return e.alloc
}

// CloneAny duplicates the dynamic value held by v.
func (e *Engine) CloneAny(v any) (*Owned[any], error) {
	return CloneWith(e, v)
}

// CloneWith duplicates the dynamic value held by v into storage from e.
// I must be an interface type.
//
// A failing duplication routine returns a *DuplicationError after the block
// has been released; a panicking one releases the block and keeps panicking.
// Allocator exhaustion panics with *AllocationError, layout violations with
// *LayoutError.
func CloneWith[I any](e *Engine, v I) (*Owned[I], error) {
	mustCheckLayout()
	if e == nil {
		e = defaultEngine
	}
	if reflect.TypeFor[I]().Kind() != reflect.Interface {
		return nil, fmt.Errorf("clone %s: %w", reflect.TypeFor[I](), ErrNotInterface)
	}
	dyn := reflect.TypeOf(any(v))
	if dyn == nil {
		return nil, ErrNilValue
	}
	ctx := context.Background()
	d, err := describe(ctx, dyn)
	if err != nil {
		return nil, err
	}
	return cloneDescribed(ctx, e, v, d)
}

// cloneDescribed runs allocate, copy, reattach for a resolved descriptor.
func cloneDescribed[I any](ctx context.Context, e *Engine, v I, d *Descriptor) (*Owned[I], error) {
	start := time.Now()
	emitCloneStart(ctx, d)

	retErr := errCloneAborted
	defer func() {
		emitCloneComplete(ctx, d, time.Since(start), retErr)
	}()

	if e.isolation && d.SharesReferences() {
		retErr = newDuplicationError(ErrSharedReferences, d, nil)
		return nil, retErr
	}

	layout := d.Layout
	ptr := e.alloc.Allocate(layout)
	if ptr == nil {
		panic(&AllocationError{Layout: layout})
	}
	if !layout.Fits(ptr) {
		e.alloc.Deallocate(ptr, layout)
		panic(newLayoutError(ErrLayoutMismatch, d.Name,
			fmt.Sprintf("allocator returned %p, not aligned to %d", ptr, layout.Align)))
	}

	guard := acquireGuard(ctx, e.alloc, ptr, layout)
	defer guard.release()

	src := valuePointer(&v, d.Direct)
	if err := d.clone(src, ptr); err != nil {
		retErr = newDuplicationError(ErrDuplicate, d, err)
		return nil, retErr
	}

	block := guard.disarm()
	owned := newOwned(e, reattach(v, block, d.Direct), d, block)
	retErr = nil
	return owned, nil
}
