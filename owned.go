package replica

import (
	"context"
	"io"
	"sync"
	"unsafe"

	"github.com/google/uuid"
)

// Owned is an interface value together with exclusive ownership of the
// storage its dynamic value lives in.
//
// Release returns the storage to the engine's allocator after running the
// value's Close method, if it has one. The value must not be used after
// Release.
type Owned[I any] struct {
	id     uuid.UUID
	engine *Engine
	desc   *Descriptor

	mu       sync.Mutex
	value    I
	block    unsafe.Pointer
	released bool
}

func newOwned[I any](e *Engine, value I, d *Descriptor, block unsafe.Pointer) *Owned[I] {
	return &Owned[I]{
		id:     uuid.New(),
		engine: e,
		desc:   d,
		value:  value,
		block:  block,
	}
}

// Value returns the cloned interface value, or the zero value after Release.
func (o *Owned[I]) Value() I {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.value
}

// ID identifies the handle in signals.
func (o *Owned[I]) ID() uuid.UUID {
	return o.id
}

// Descriptor returns the descriptor of the cloned value's dynamic type.
func (o *Owned[I]) Descriptor() *Descriptor {
	return o.desc
}

// Layout returns the layout the backing block was allocated with.
func (o *Owned[I]) Layout() Layout {
	return o.desc.Layout
}

// Released reports whether Release has been called.
func (o *Owned[I]) Released() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.released
}

// Clone duplicates the owned value into a new handle from the same engine.
func (o *Owned[I]) Clone() (*Owned[I], error) {
	o.mu.Lock()
	if o.released {
		o.mu.Unlock()
		return nil, ErrReleased
	}
	v := o.value
	o.mu.Unlock()
	return cloneDescribed(context.Background(), o.engine, v, o.desc)
}

// Release runs the value's Close method, if any, and deallocates the block.
// It runs at most once; later calls return ErrReleased.
func (o *Owned[I]) Release() (err error) {
	o.mu.Lock()
	if o.released {
		o.mu.Unlock()
		return ErrReleased
	}
	o.released = true
	value, block := o.value, o.block
	var zero I
	o.value = zero
	o.block = nil
	o.mu.Unlock()

	defer func() {
		o.engine.alloc.Deallocate(block, o.desc.Layout)
		emitHandleReleased(context.Background(), o.id, o.desc, err)
	}()

	if c, ok := any(value).(io.Closer); ok {
		return c.Close()
	}
	return nil
}
