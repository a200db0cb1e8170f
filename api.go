// Package replica duplicates values that are only known through an interface.
//
// A Go interface value is a pair of machine words: a type word (the itab or
// type descriptor of the dynamic value) and a data word. Replica clones the
// dynamic value into freshly allocated storage and reattaches the original
// type word to that storage, producing a new interface value of the same
// dynamic type that owns its own copy.
//
// # Basic Usage
//
//	type Greeter interface {
//	    Greet() string
//	}
//
//	type english struct{ name string }
//
//	func (e english) Greet() string { return "Hello, " + e.name + "!" }
//
//	var g Greeter = english{name: "John"}
//
//	owned, err := replica.CloneToOwned(g)
//	if err != nil {
//	    return err
//	}
//	defer owned.Release()
//
//	owned.Value().Greet() // "Hello, John!"
//
// # Duplication Strategies
//
// Each dynamic type resolves to a Descriptor holding its layout and the
// routine that writes a copy into uninitialized storage:
//
//   - shallow: Go assignment, a flat copy of the value's own representation
//   - clone: the type's Clone() T or Clone() (T, error) method
//   - deep: reflective deep copy (huandu/go-clone)
//   - deep-slowly: reflective deep copy that tolerates cycles
//   - structure: reflective deep copy that reports unsupported shapes as errors
//   - codec: marshal then unmarshal through a Codec
//
// Types are described lazily on first use. Register, RegisterFunc and
// RegisterCloner select a strategy ahead of time.
//
// # Failure Model
//
// A failing duplication routine never leaks the half-written block: the
// allocation guard releases it with the layout it was allocated with, and the
// failure reaches the caller as a *DuplicationError (or as the original panic).
// Allocator exhaustion and layout violations are fatal and panic.
//
// # Platform Gate
//
// Reattachment writes the interface data word directly. CheckLayout verifies
// that assumption once per process; the engine refuses to run when it fails.
// The replica command's check subcommand runs the same test for CI.
package replica

import (
	"context"
	"reflect"
)

// CloneToOwned duplicates the dynamic value held by v using the default engine.
// I must be an interface type.
func CloneToOwned[I any](v I) (*Owned[I], error) {
	return CloneWith(defaultEngine, v)
}

// Clone returns an independent copy of v with the same dynamic type.
// The backing storage is owned by the garbage collector; use CloneToOwned
// when the copy must be released explicitly.
func Clone[I any](v I) (I, error) {
	owned, err := CloneToOwned(v)
	if err != nil {
		var zero I
		return zero, err
	}
	return owned.Value(), nil
}

// MustClone is like Clone but panics on error.
func MustClone[I any](v I) I {
	out, err := Clone(v)
	if err != nil {
		panic(err)
	}
	return out
}

// Describe returns the descriptor the default engine would use for v's dynamic type.
func Describe(v any) (*Descriptor, error) {
	if v == nil {
		return nil, ErrNilValue
	}
	return describe(context.Background(), reflect.TypeOf(v))
}
