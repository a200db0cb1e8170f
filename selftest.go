package replica

import (
	"fmt"
	"reflect"
	"strconv"
	"sync"
	"unsafe"

	"github.com/modern-go/reflect2"
)

var (
	layoutOnce sync.Once
	layoutErr  error
)

// CheckLayout verifies that interface values decompose into a type word
// followed by a single data word, and that rewriting the data word redirects
// the interface to a different value of the same dynamic type.
//
// The check runs once per process; later calls return the cached result.
// Cloning refuses to run when it fails.
func CheckLayout() error {
	layoutOnce.Do(func() {
		layoutErr = verifyLayout()
		emitLayoutChecked(layoutErr)
	})
	return layoutErr
}

// mustCheckLayout panics with the self-test failure.
func mustCheckLayout() {
	if err := CheckLayout(); err != nil {
		panic(err)
	}
}

// layoutProbe is the known value the self-test redirects between.
type layoutProbe struct {
	n int
}

func (p *layoutProbe) String() string { return strconv.Itoa(p.n) }

// layoutProbeValue is stored behind the data word.
type layoutProbeValue struct {
	n, m int
}

func (p layoutProbeValue) String() string { return strconv.Itoa(p.n + p.m) }

// layoutProbeWrapped is a single-pointer struct, stored in the data word.
type layoutProbeWrapped struct {
	p *layoutProbe
}

func (w layoutProbeWrapped) String() string { return w.p.String() }

func verifyLayout() error {
	if unsafe.Sizeof(ifaceWords{}) != unsafe.Sizeof(any(nil)) {
		return layoutFailure("any is %d bytes, expected %d", unsafe.Sizeof(any(nil)), unsafe.Sizeof(ifaceWords{}))
	}
	if unsafe.Sizeof(ifaceWords{}) != unsafe.Sizeof(fmt.Stringer(nil)) {
		return layoutFailure("non-empty interface is %d bytes, expected %d", unsafe.Sizeof(fmt.Stringer(nil)), unsafe.Sizeof(ifaceWords{}))
	}

	// A pointer is the data word.
	first := &layoutProbe{n: 42}
	var s fmt.Stringer = first
	w := wordsOf(&s)
	if w.data != unsafe.Pointer(first) {
		return layoutFailure("data word %p does not match pointer %p", w.data, first)
	}
	var e any = first
	if reflect2.PtrOf(e) != unsafe.Pointer(first) {
		return layoutFailure("empty interface data word does not match pointer %p", first)
	}

	// Overwriting only the data word redirects the interface.
	second := &layoutProbe{n: 84}
	w.data = unsafe.Pointer(second)
	if got := s.String(); got != "84" {
		return layoutFailure("redirected interface observed %q, expected \"84\"", got)
	}

	// Values behind the data word redirect through reattach.
	var v fmt.Stringer = layoutProbeValue{n: 40, m: 2}
	if isDirectIface(reflect.TypeOf(layoutProbeValue{})) {
		return layoutFailure("two-word struct classified as pointer-shaped")
	}
	if held := (*layoutProbeValue)(valuePointer(&v, false)); held.n != 40 || held.m != 2 {
		return layoutFailure("data word does not point at the boxed value")
	}
	replacement := layoutProbeValue{n: 80, m: 4}
	if got := reattach(v, unsafe.Pointer(&replacement), false).String(); got != "84" {
		return layoutFailure("reattached value observed %q, expected \"84\"", got)
	}
	if got := v.String(); got != "42" {
		return layoutFailure("reattach mutated its source, observed %q", got)
	}

	// Single-pointer structs and arrays live in the data word.
	var sp fmt.Stringer = layoutProbeWrapped{p: first}
	if !isDirectIface(reflect.TypeOf(layoutProbeWrapped{})) {
		return layoutFailure("single-pointer struct classified as boxed")
	}
	if wordsOf(&sp).data != unsafe.Pointer(first) {
		return layoutFailure("single-pointer struct is not stored in the data word")
	}
	var arr any = [1]*layoutProbe{first}
	if !isDirectIface(reflect.TypeOf([1]*layoutProbe{})) || wordsOf(&arr).data != unsafe.Pointer(first) {
		return layoutFailure("single-pointer array is not stored in the data word")
	}
	moved := layoutProbeWrapped{p: second}
	if got := reattach(sp, unsafe.Pointer(&moved), true).String(); got != "84" {
		return layoutFailure("reattached pointer-shaped value observed %q, expected \"84\"", got)
	}

	return nil
}

func layoutFailure(format string, args ...any) error {
	return newLayoutError(ErrUnsupportedPlatform, "", fmt.Sprintf(format, args...))
}
