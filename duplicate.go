package replica

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/huandu/go-clone"
	"github.com/mitchellh/copystructure"
	"github.com/modern-go/reflect2"
)

var errorType = reflect.TypeFor[error]()

// shallowClone copies the value's representation by assignment.
// Zero-sized types are never dereferenced.
func shallowClone(t reflect.Type) cloneFunc {
	if t.Size() == 0 {
		return func(_, _ unsafe.Pointer) error { return nil }
	}
	rt := reflect2.Type2(t)
	return func(src, dst unsafe.Pointer) error {
		rt.UnsafeSet(dst, src)
		return nil
	}
}

// methodClone binds t's Clone() T or Clone() (T, error) method, looking at the
// pointer method set when the value method set has none.
func methodClone(t reflect.Type) (cloneFunc, bool) {
	byPtr := false
	m, ok := t.MethodByName("Clone")
	if !ok && t.Kind() != reflect.Pointer {
		m, ok = reflect.PointerTo(t).MethodByName("Clone")
		byPtr = true
	}
	if !ok {
		return nil, false
	}

	mt := m.Type
	if mt.NumIn() != 1 || mt.NumOut() < 1 || mt.NumOut() > 2 || mt.Out(0) != t {
		return nil, false
	}
	fallible := mt.NumOut() == 2
	if fallible && mt.Out(1) != errorType {
		return nil, false
	}

	return func(src, dst unsafe.Pointer) error {
		recv := reflect.NewAt(t, src)
		if !byPtr {
			recv = recv.Elem()
		}
		out := m.Func.Call([]reflect.Value{recv})
		if fallible && !out[1].IsNil() {
			return out[1].Interface().(error)
		}
		reflect.NewAt(t, dst).Elem().Set(out[0])
		return nil
	}, true
}

// clonerClone binds a compile-time Cloner without reflection.
func clonerClone[T Cloner[T]]() cloneFunc {
	return func(src, dst unsafe.Pointer) error {
		*(*T)(dst) = (*(*T)(src)).Clone()
		return nil
	}
}

// funcClone adapts a typed duplication function.
func funcClone[T any](fn func(src *T) (T, error)) cloneFunc {
	return func(src, dst unsafe.Pointer) error {
		out, err := fn((*T)(src))
		if err != nil {
			return err
		}
		*(*T)(dst) = out
		return nil
	}
}

// reflectiveClone adapts a copier working on boxed values.
func reflectiveClone(t reflect.Type, copier func(v any) (any, error)) cloneFunc {
	return func(src, dst unsafe.Pointer) error {
		out, err := copier(reflect.NewAt(t, src).Elem().Interface())
		if err != nil {
			return err
		}
		target := reflect.NewAt(t, dst).Elem()
		if out == nil {
			target.SetZero()
			return nil
		}
		ov := reflect.ValueOf(out)
		if ov.Type() != t {
			return fmt.Errorf("copy produced %s, expected %s", ov.Type(), t)
		}
		target.Set(ov)
		return nil
	}
}

// deepClone copies through huandu/go-clone.
func deepClone(t reflect.Type) cloneFunc {
	return reflectiveClone(t, func(v any) (any, error) {
		return clone.Clone(v), nil
	})
}

// deepCloneSlowly copies through huandu/go-clone, preserving cycles.
func deepCloneSlowly(t reflect.Type) cloneFunc {
	return reflectiveClone(t, func(v any) (any, error) {
		return clone.Slowly(v), nil
	})
}

// structureClone copies through mitchellh/copystructure.
func structureClone(t reflect.Type) cloneFunc {
	return reflectiveClone(t, copystructure.Copy)
}

// codecClone round-trips the value through c.
func codecClone(t reflect.Type, c Codec) cloneFunc {
	return func(src, dst unsafe.Pointer) error {
		data, err := c.Marshal(reflect.NewAt(t, src).Elem().Interface())
		if err != nil {
			return fmt.Errorf("marshal %s: %w", c.ContentType(), err)
		}
		out := reflect.New(t)
		if err := c.Unmarshal(data, out.Interface()); err != nil {
			return fmt.Errorf("unmarshal %s: %w", c.ContentType(), err)
		}
		reflect.NewAt(t, dst).Elem().Set(out.Elem())
		return nil
	}
}

// strategyClone builds the routine for a reflective or codec strategy.
func strategyClone(t reflect.Type, s Strategy, c Codec) (cloneFunc, error) {
	switch s {
	case StrategyShallow:
		return shallowClone(t), nil
	case StrategyClone:
		if fn, ok := methodClone(t); ok {
			return fn, nil
		}
		return nil, newConfigError(ErrInvalidStrategy, t.String(), s)
	case StrategyDeep:
		return deepClone(t), nil
	case StrategyDeepSlowly:
		return deepCloneSlowly(t), nil
	case StrategyStructure:
		return structureClone(t), nil
	case StrategyCodec:
		if c == nil {
			return nil, newConfigError(ErrMissingCodec, t.String(), s)
		}
		return codecClone(t, c), nil
	default:
		return nil, newConfigError(ErrInvalidStrategy, t.String(), s)
	}
}
