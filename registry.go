package replica

import (
	"context"
	"reflect"
	"sync"

	"github.com/zoobzio/sentinel"
)

var (
	registry   = make(map[reflect.Type]*Descriptor)
	registryMu sync.RWMutex
)

// registerConfig collects RegisterOption values.
type registerConfig struct {
	strategy Strategy
	codec    Codec
}

// RegisterOption configures how a type is duplicated.
type RegisterOption func(*registerConfig)

// WithStrategy selects the duplication strategy for a type.
func WithStrategy(s Strategy) RegisterOption {
	return func(c *registerConfig) {
		c.strategy = s
	}
}

// WithCodec sets the codec used by StrategyCodec.
// It selects StrategyCodec unless another strategy is given.
func WithCodec(codec Codec) RegisterOption {
	return func(c *registerConfig) {
		c.codec = codec
	}
}

// Register sets the duplication strategy for T.
// Without options T keeps its default: its Clone method if it has one,
// Go assignment otherwise. Registering a type again replaces its descriptor.
func Register[T any](opts ...RegisterOption) error {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Interface {
		return newConfigError(ErrNotConcrete, t.String(), "")
	}
	scanMetadata[T]()

	cfg := &registerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.strategy == "" {
		switch {
		case cfg.codec != nil:
			cfg.strategy = StrategyCodec
		default:
			store(context.Background(), defaultDescriptor(t))
			return nil
		}
	}
	if !IsValidStrategy(cfg.strategy) {
		return newConfigError(ErrInvalidStrategy, t.String(), cfg.strategy)
	}

	fn, err := strategyClone(t, cfg.strategy, cfg.codec)
	if err != nil {
		return err
	}
	store(context.Background(), newDescriptor(t, cfg.strategy, fn))
	return nil
}

// RegisterFunc duplicates T with fn. fn receives the original value and
// returns the copy to store; a non-nil error aborts the clone.
func RegisterFunc[T any](fn func(src *T) (T, error)) error {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Interface {
		return newConfigError(ErrNotConcrete, t.String(), StrategyFunc)
	}
	if fn == nil {
		return newConfigError(ErrInvalidStrategy, t.String(), StrategyFunc)
	}
	scanMetadata[T]()
	store(context.Background(), newDescriptor(t, StrategyFunc, funcClone(fn)))
	return nil
}

// RegisterCloner binds T's Clone method at compile time, avoiding the
// reflective call used for types discovered at clone time.
func RegisterCloner[T Cloner[T]]() error {
	t := reflect.TypeFor[T]()
	if t.Kind() == reflect.Interface {
		return newConfigError(ErrNotConcrete, t.String(), StrategyClone)
	}
	scanMetadata[T]()
	store(context.Background(), newDescriptor(t, StrategyClone, clonerClone[T]()))
	return nil
}

// Lookup returns the descriptor registered or cached for t.
func Lookup(t reflect.Type) (*Descriptor, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	d, ok := registry[t]
	return d, ok
}

// Reset clears the descriptor registry.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[reflect.Type]*Descriptor)
}

// describe returns the cached descriptor for t or builds the default one.
func describe(ctx context.Context, t reflect.Type) (*Descriptor, error) {
	if t.Kind() == reflect.Interface {
		return nil, newConfigError(ErrNotConcrete, t.String(), "")
	}

	// Fast path: read-lock cache check
	registryMu.RLock()
	if d, ok := registry[t]; ok {
		registryMu.RUnlock()
		return d, nil
	}
	registryMu.RUnlock()

	// Slow path: build and cache with write-lock
	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check pattern
	if d, ok := registry[t]; ok {
		return d, nil
	}

	d := defaultDescriptor(t)
	registry[t] = d
	emitTypeDescribed(ctx, d)
	return d, nil
}

// store replaces the descriptor for d.Type.
func store(ctx context.Context, d *Descriptor) {
	registryMu.Lock()
	registry[d.Type] = d
	registryMu.Unlock()
	emitTypeRegistered(ctx, d)
}

// scanMetadata caches T's field metadata in sentinel. Descriptors built for
// T afterwards, and for struct types nested in it, read exported fields from
// that cache.
func scanMetadata[T any]() {
	t := reflect.TypeFor[T]()
	if t.Kind() != reflect.Struct || t.Name() == "" {
		return
	}
	sentinel.Scan[T]()
}
