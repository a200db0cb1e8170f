package replica

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrNilValue indicates a nil interface value was passed for cloning.
	ErrNilValue = errors.New("nil value")

	// ErrNotInterface indicates the type parameter of a clone call is not an interface type.
	ErrNotInterface = errors.New("not an interface type")

	// ErrNotConcrete indicates an interface type was given where a concrete type is required.
	ErrNotConcrete = errors.New("not a concrete type")

	// ErrDuplicate indicates a type's duplication routine failed.
	ErrDuplicate = errors.New("duplicate failed")

	// ErrUnsupportedPlatform indicates the interface layout self-test failed.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrLayoutMismatch indicates storage that does not match a type's size or alignment.
	ErrLayoutMismatch = errors.New("layout mismatch")

	// ErrReleased indicates an owning handle was already released.
	ErrReleased = errors.New("handle already released")

	// ErrInvalidStrategy indicates an unknown or inapplicable duplication strategy.
	ErrInvalidStrategy = errors.New("invalid strategy")

	// ErrMissingCodec indicates the codec strategy was selected without a codec.
	ErrMissingCodec = errors.New("missing codec")

	// ErrSharedReferences indicates a clone would share referents with its original
	// while the engine requires isolation.
	ErrSharedReferences = errors.New("clone would share references")
)

// ConfigError represents a registration error.
// It wraps a sentinel error with the type and strategy involved.
type ConfigError struct {
	Err      error  // Underlying sentinel error (ErrInvalidStrategy, ErrMissingCodec, ErrNotConcrete)
	Type     string // Type being registered
	Strategy string // Strategy that was requested
}

func (e *ConfigError) Error() string {
	if e.Type != "" && e.Strategy != "" {
		return fmt.Sprintf("%s %q (type %s)", e.Err.Error(), e.Strategy, e.Type)
	}
	if e.Strategy != "" {
		return fmt.Sprintf("%s %q", e.Err.Error(), e.Strategy)
	}
	if e.Type != "" {
		return fmt.Sprintf("%s (type %s)", e.Err.Error(), e.Type)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// DuplicationError represents a failed duplication routine.
// The half-written storage has already been released when this is returned.
type DuplicationError struct {
	Err      error    // Underlying sentinel error (ErrDuplicate, ErrSharedReferences)
	Type     string   // Dynamic type that failed to duplicate
	Strategy Strategy // Strategy in use
	Cause    error    // Original error from the duplication routine
}

func (e *DuplicationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s %s (%s): %v", e.Err.Error(), e.Type, e.Strategy, e.Cause)
	}
	return fmt.Sprintf("%s %s (%s)", e.Err.Error(), e.Type, e.Strategy)
}

// Unwrap exposes both the sentinel and the cause to errors.Is and errors.As.
func (e *DuplicationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// AllocationError is the panic value raised when an Allocator cannot satisfy a layout.
// Allocation exhaustion is not recoverable by the engine and is never returned.
type AllocationError struct {
	Layout Layout
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("memory allocation of %d bytes (align %d) failed", e.Layout.Size, e.Layout.Align)
}

// LayoutError is the panic value raised when a layout precondition is violated:
// the interface layout self-test failed, or an allocator returned misaligned storage.
type LayoutError struct {
	Err    error  // Underlying sentinel error (ErrUnsupportedPlatform, ErrLayoutMismatch)
	Type   string // Type involved, if any
	Detail string // What was observed
}

func (e *LayoutError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s: %s (type %s)", e.Err.Error(), e.Detail, e.Type)
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Detail)
}

func (e *LayoutError) Unwrap() error {
	return e.Err
}

// newConfigError creates a ConfigError for registration failures.
func newConfigError(sentinel error, typ string, strategy Strategy) error {
	return &ConfigError{
		Err:      sentinel,
		Type:     typ,
		Strategy: string(strategy),
	}
}

// newDuplicationError creates a DuplicationError for a failed duplication routine.
func newDuplicationError(sentinel error, d *Descriptor, cause error) error {
	return &DuplicationError{
		Err:      sentinel,
		Type:     d.Name,
		Strategy: d.Strategy,
		Cause:    cause,
	}
}

// newLayoutError creates a LayoutError describing a violated precondition.
func newLayoutError(sentinel error, typ, detail string) error {
	return &LayoutError{
		Err:    sentinel,
		Type:   typ,
		Detail: detail,
	}
}
