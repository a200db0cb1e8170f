// Package testing provides test utilities for replica.
package testing

import (
	"errors"
	"fmt"
	"slices"

	"github.com/zoobzio/replica/internal/tracking"
)

// TrackingAllocator counts allocations and checks every block is returned
// with the layout it was handed out with.
type TrackingAllocator = tracking.Allocator

// NewTrackingAllocator returns an empty TrackingAllocator.
func NewTrackingAllocator() *TrackingAllocator {
	return tracking.New()
}

// Greeter is the capability used by the fixtures below.
type Greeter interface {
	Greet() string
}

// CapturedGreeter formats a captured salutation, like a closure over a string.
type CapturedGreeter struct {
	Salutation string
}

// Greet implements Greeter.
func (g CapturedGreeter) Greet() string { return g.Salutation + " world!" }

// GreeterFunc adapts a function to Greeter.
type GreeterFunc func() string

// Greet implements Greeter.
func (f GreeterFunc) Greet() string { return f() }

// Counter is a mutable fixture with a Clone method that copies its history.
type Counter struct {
	Count   int
	History []int
}

// Greet implements Greeter.
func (c *Counter) Greet() string { return fmt.Sprintf("count=%d", c.Count) }

// Incr bumps the counter and records the previous value.
func (c *Counter) Incr() {
	c.History = append(c.History, c.Count)
	c.Count++
}

// Clone implements replica.Cloner[*Counter].
func (c *Counter) Clone() *Counter {
	return &Counter{Count: c.Count, History: slices.Clone(c.History)}
}

// Empty is a zero-sized Greeter.
type Empty struct{}

// Greet implements Greeter.
func (Empty) Greet() string { return "nothing" }

// ErrCloneRefused is returned by Refusing.Clone.
var ErrCloneRefused = errors.New("clone refused")

// Refusing is a Greeter whose duplication always fails.
type Refusing struct {
	Name string
}

// Greet implements Greeter.
func (r Refusing) Greet() string { return "Hello, " + r.Name + "!" }

// Clone implements replica.FallibleCloner[Refusing].
func (r Refusing) Clone() (Refusing, error) {
	return Refusing{}, ErrCloneRefused
}

// Panicking is a Greeter whose Clone method panics.
type Panicking struct {
	Salutation string
}

// PanicMessage is the value Panicking.Clone panics with.
const PanicMessage = "Panicking.Clone() is called"

// Greet implements Greeter.
func (p Panicking) Greet() string { return p.Salutation + " world!" }

// Clone implements replica.Cloner[Panicking].
func (p Panicking) Clone() Panicking {
	panic(PanicMessage)
}

// Closing records how many times it was closed.
type Closing struct {
	Closed *int
}

// Greet implements Greeter.
func (c Closing) Greet() string { return "closing" }

// Close counts the call.
func (c Closing) Close() error {
	*c.Closed++
	return nil
}
