package replica

import (
	"fmt"
	"reflect"
	"strconv"
	"testing"
	"unsafe"
)

type celsius float64

func (c celsius) String() string { return strconv.FormatFloat(float64(c), 'f', 1, 64) + "C" }

type pair struct{ a, b string }

func (p pair) String() string { return p.a + p.b }

func TestReattach_Indirect(t *testing.T) {
	var s fmt.Stringer = pair{a: "left", b: "right"}
	replacement := pair{a: "up", b: "down"}

	out := reattach(s, unsafe.Pointer(&replacement), false)

	if got := out.String(); got != "updown" {
		t.Errorf("String() = %q, want %q", got, "updown")
	}
	if got := s.String(); got != "leftright" {
		t.Errorf("source String() = %q, reattach must not modify it", got)
	}
	if reflect.TypeOf(out) != reflect.TypeOf(s) {
		t.Errorf("dynamic type = %T, want %T", out, s)
	}
}

func TestReattach_Direct(t *testing.T) {
	first, second := celsius(10), celsius(20)
	var s fmt.Stringer = &first
	block := &second

	out := reattach(s, unsafe.Pointer(&block), true)

	if got := out.String(); got != "20.0C" {
		t.Errorf("String() = %q, want %q", got, "20.0C")
	}
	if out.(*celsius) != &second {
		t.Error("data word should hold the pointer stored in the block")
	}
}

func TestValuePointer(t *testing.T) {
	var s fmt.Stringer = pair{a: "x", b: "y"}
	p := (*pair)(valuePointer(&s, false))
	if p.a != "x" || p.b != "y" {
		t.Errorf("valuePointer() = %+v", *p)
	}

	c := celsius(5)
	var d fmt.Stringer = &c
	pp := (**celsius)(valuePointer(&d, true))
	if *pp != &c {
		t.Error("valuePointer() of a direct value should address the data word")
	}
}

func TestIsDirectIface(t *testing.T) {
	tests := []struct {
		typ  reflect.Type
		want bool
	}{
		{reflect.TypeFor[*int](), true},
		{reflect.TypeFor[map[string]int](), true},
		{reflect.TypeFor[chan int](), true},
		{reflect.TypeFor[func()](), true},
		{reflect.TypeFor[unsafe.Pointer](), true},
		{reflect.TypeFor[struct{ p *int }](), true},
		{reflect.TypeFor[[1]*int](), true},
		{reflect.TypeFor[struct{ s struct{ p *int } }](), true},
		{reflect.TypeFor[int](), false},
		{reflect.TypeFor[string](), false},
		{reflect.TypeFor[[]int](), false},
		{reflect.TypeFor[struct{ p, q *int }](), false},
		{reflect.TypeFor[[2]*int](), false},
		{reflect.TypeFor[struct{}](), false},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			if got := isDirectIface(tt.typ); got != tt.want {
				t.Errorf("isDirectIface(%v) = %v, want %v", tt.typ, got, tt.want)
			}
		})
	}
}
