package replica

import (
	"reflect"
	"unsafe"

	"github.com/zoobzio/sentinel"
)

// cloneFunc writes a copy of the value at src into the uninitialized block at dst.
// Both point to storage laid out for the same dynamic type.
type cloneFunc func(src, dst unsafe.Pointer) error

// Descriptor is the runtime metadata for one dynamic type: its layout, how it
// sits in an interface value, and the routine that duplicates it.
// Descriptors are immutable once built and shared by every clone of the type.
type Descriptor struct {
	Type     reflect.Type // Dynamic type
	Name     string       // Type name for errors and signals
	Package  string       // Package path of the type, empty for unnamed types
	Layout   Layout       // Exact size and alignment
	Direct   bool         // Value is stored in the interface data word itself
	Strategy Strategy     // Duplication strategy
	Shared   []string     // Fields whose referents a flat copy shares with its original

	clone cloneFunc
}

// newDescriptor builds a descriptor for t using the given duplication routine.
func newDescriptor(t reflect.Type, strategy Strategy, clone cloneFunc) *Descriptor {
	return &Descriptor{
		Type:     t,
		Name:     t.String(),
		Package:  t.PkgPath(),
		Layout:   LayoutOf(t),
		Direct:   isDirectIface(t),
		Strategy: strategy,
		Shared:   sharedFields(t),
		clone:    clone,
	}
}

// defaultDescriptor picks the Clone method when t has one and Go assignment otherwise.
func defaultDescriptor(t reflect.Type) *Descriptor {
	if fn, ok := methodClone(t); ok {
		return newDescriptor(t, StrategyClone, fn)
	}
	return newDescriptor(t, StrategyShallow, shallowClone(t))
}

// SharesReferences reports whether a clone made with this descriptor shares
// mutable state with its original.
func (d *Descriptor) SharesReferences() bool {
	return !d.Strategy.Isolating() && len(d.Shared) > 0
}

// sharedFields lists the parts of t that a flat copy would share.
// Non-struct reference types report their own type name.
func sharedFields(t reflect.Type) []string {
	switch t.Kind() {
	case reflect.Struct:
		var shared []string
		collectShared(scanType(t), "", &shared)
		return shared
	case reflect.Array:
		if t.Len() > 0 && len(sharedFields(t.Elem())) > 0 {
			return []string{t.String()}
		}
		return nil
	default:
		if isReferenceKind(t.Kind()) {
			return []string{t.String()}
		}
		return nil
	}
}

// collectShared walks struct metadata and appends reference-bearing field paths.
func collectShared(meta sentinel.Metadata, prefix string, out *[]string) {
	for _, field := range meta.Fields {
		name := field.Name
		if prefix != "" {
			name = prefix + "." + field.Name
		}

		switch field.Kind {
		case sentinel.KindStruct:
			collectShared(scanType(field.ReflectType), name, out)
		case sentinel.KindPointer, sentinel.KindMap, sentinel.KindInterface:
			*out = append(*out, name)
		case sentinel.KindSlice:
			if field.ReflectType.Kind() == reflect.Slice || len(sharedFields(field.ReflectType)) > 0 {
				*out = append(*out, name)
			}
		default:
			if field.ReflectType != nil && isReferenceKind(field.ReflectType.Kind()) {
				*out = append(*out, name)
			}
		}
	}
}

// scanType returns field metadata for every field of a struct type, in
// declaration order. Exported fields come from sentinel's cache when the type
// has been scanned; unexported fields, which sentinel skips, are built here
// since a flat copy duplicates them too.
func scanType(rt reflect.Type) sentinel.Metadata {
	cached, ok := sentinel.Lookup(rt.String())
	byName := make(map[string]sentinel.FieldMetadata, len(cached.Fields))
	if ok {
		for _, f := range cached.Fields {
			byName[f.Name] = f
		}
	}

	meta := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if fm, ok := byName[sf.Name]; ok && sf.IsExported() {
			meta.Fields = append(meta.Fields, fm)
			continue
		}
		meta.Fields = append(meta.Fields, fieldMetadata(sf))
	}

	return meta
}

// fieldMetadata classifies one struct field the way sentinel does.
// Channels, functions and unsafe pointers count as pointers.
func fieldMetadata(sf reflect.StructField) sentinel.FieldMetadata {
	fm := sentinel.FieldMetadata{
		Name:        sf.Name,
		Type:        sf.Type.String(),
		ReflectType: sf.Type,
		Index:       sf.Index,
	}

	switch sf.Type.Kind() {
	case reflect.Struct:
		fm.Kind = sentinel.KindStruct
	case reflect.Ptr, reflect.UnsafePointer, reflect.Chan, reflect.Func:
		fm.Kind = sentinel.KindPointer
	case reflect.Slice, reflect.Array:
		fm.Kind = sentinel.KindSlice
	case reflect.Map:
		fm.Kind = sentinel.KindMap
	case reflect.Interface:
		fm.Kind = sentinel.KindInterface
	default:
		fm.Kind = sentinel.KindScalar
	}
	return fm
}

func isReferenceKind(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Slice,
		reflect.Chan, reflect.Func, reflect.Interface:
		return true
	default:
		return false
	}
}
