package replica

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
	"unsafe"
)

type tree struct {
	Value    int
	Children []*tree
	Labels   map[string]string
}

type loop struct {
	Name string
	Next *loop
}

type ptrCloner struct {
	n      int
	called *int
}

func (p *ptrCloner) Clone() ptrCloner {
	*p.called++
	return ptrCloner{n: p.n * 2, called: p.called}
}

type fallibleCloner struct{ fail bool }

var errFallible = errors.New("fallible clone failed")

func (f fallibleCloner) Clone() (fallibleCloner, error) {
	if f.fail {
		return fallibleCloner{}, errFallible
	}
	return f, nil
}

type wrongCloner struct{}

func (wrongCloner) Clone() int { return 0 }

// jsonTestCodec avoids importing the json subpackage, which imports this one.
type jsonTestCodec struct{}

func (jsonTestCodec) ContentType() string { return "application/json" }

func (jsonTestCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonTestCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// runClone applies fn to src and returns the value written into a fresh block.
func runClone[T any](t *testing.T, fn cloneFunc, src T) (T, error) {
	t.Helper()
	var dst T
	err := fn(unsafe.Pointer(&src), unsafe.Pointer(&dst))
	return dst, err
}

func sampleTree() tree {
	return tree{
		Value:    1,
		Children: []*tree{{Value: 2}, {Value: 3}},
		Labels:   map[string]string{"k": "v"},
	}
}

func TestShallowClone_SharesReferents(t *testing.T) {
	src := sampleTree()
	dst, err := runClone(t, shallowClone(reflect.TypeFor[tree]()), src)
	if err != nil {
		t.Fatalf("shallowClone error: %v", err)
	}
	if dst.Value != 1 || dst.Children[0] != src.Children[0] {
		t.Error("shallow clone should copy the representation and share referents")
	}
}

func TestShallowClone_ZeroSized(t *testing.T) {
	fn := shallowClone(reflect.TypeFor[struct{}]())
	if err := fn(nil, nil); err != nil {
		t.Errorf("zero-sized clone should never touch its pointers: %v", err)
	}
}

func TestDeepStrategies_Isolate(t *testing.T) {
	typ := reflect.TypeFor[tree]()
	strategies := map[Strategy]cloneFunc{
		StrategyDeep:       deepClone(typ),
		StrategyDeepSlowly: deepCloneSlowly(typ),
		StrategyStructure:  structureClone(typ),
		StrategyCodec:      codecClone(typ, jsonTestCodec{}),
	}

	for name, fn := range strategies {
		t.Run(string(name), func(t *testing.T) {
			src := sampleTree()
			dst, err := runClone(t, fn, src)
			if err != nil {
				t.Fatalf("clone error: %v", err)
			}
			if !reflect.DeepEqual(dst, src) {
				t.Errorf("clone = %+v, want %+v", dst, src)
			}

			dst.Children[0].Value = 99
			dst.Labels["k"] = "changed"
			if src.Children[0].Value != 2 || src.Labels["k"] != "v" {
				t.Error("deep clone shares referents with its source")
			}
		})
	}
}

func TestDeepCloneSlowly_Cycle(t *testing.T) {
	a := &loop{Name: "a"}
	b := &loop{Name: "b", Next: a}
	a.Next = b

	dst, err := runClone(t, deepCloneSlowly(reflect.TypeFor[loop]()), *a)
	if err != nil {
		t.Fatalf("clone error: %v", err)
	}
	if dst.Next == b || dst.Next.Name != "b" || dst.Next.Next.Next != dst.Next {
		t.Error("cyclic structure should be copied with its cycle intact")
	}
}

func TestCodecClone_Failure(t *testing.T) {
	type withChan struct {
		Name string
		Done chan int
	}
	fn := codecClone(reflect.TypeFor[withChan](), jsonTestCodec{})
	_, err := runClone(t, fn, withChan{Name: "x", Done: make(chan int)})
	if err == nil {
		t.Error("codec clone of an unencodable value should fail")
	}
}

func TestMethodClone(t *testing.T) {
	t.Run("pointer receiver", func(t *testing.T) {
		called := 0
		fn, ok := methodClone(reflect.TypeFor[ptrCloner]())
		if !ok {
			t.Fatal("methodClone should find the pointer-receiver Clone")
		}
		dst, err := runClone(t, fn, ptrCloner{n: 4, called: &called})
		if err != nil {
			t.Fatalf("clone error: %v", err)
		}
		if dst.n != 8 || called != 1 {
			t.Errorf("dst.n = %d, called = %d", dst.n, called)
		}
	})

	t.Run("fallible", func(t *testing.T) {
		fn, ok := methodClone(reflect.TypeFor[fallibleCloner]())
		if !ok {
			t.Fatal("methodClone should find Clone() (T, error)")
		}
		if _, err := runClone(t, fn, fallibleCloner{fail: true}); !errors.Is(err, errFallible) {
			t.Errorf("error = %v, want errFallible", err)
		}
		if _, err := runClone(t, fn, fallibleCloner{}); err != nil {
			t.Errorf("error = %v, want nil", err)
		}
	})

	t.Run("wrong signature", func(t *testing.T) {
		if _, ok := methodClone(reflect.TypeFor[wrongCloner]()); ok {
			t.Error("Clone() int should not bind for wrongCloner")
		}
	})

	t.Run("no method", func(t *testing.T) {
		if _, ok := methodClone(reflect.TypeFor[tree]()); ok {
			t.Error("tree has no Clone method")
		}
	})
}

func TestClonerClone(t *testing.T) {
	dst, err := runClone(t, clonerClone[selfCloning](), selfCloning{n: 1})
	if err != nil || dst.n != 2 {
		t.Errorf("clonerClone = %+v, %v", dst, err)
	}
}

func TestFuncClone(t *testing.T) {
	boom := errors.New("boom")
	fn := funcClone(func(src *string) (string, error) {
		if *src == "" {
			return "", boom
		}
		return *src + "!", nil
	})

	if dst, err := runClone(t, fn, "hi"); err != nil || dst != "hi!" {
		t.Errorf("funcClone = %q, %v", dst, err)
	}
	if _, err := runClone(t, fn, ""); !errors.Is(err, boom) {
		t.Errorf("error = %v, want boom", err)
	}
}

func TestStrategyClone_Errors(t *testing.T) {
	typ := reflect.TypeFor[tree]()

	if _, err := strategyClone(typ, StrategyCodec, nil); !errors.Is(err, ErrMissingCodec) {
		t.Errorf("codec without codec: %v", err)
	}
	if _, err := strategyClone(typ, StrategyClone, nil); !errors.Is(err, ErrInvalidStrategy) {
		t.Errorf("clone without method: %v", err)
	}
	if _, err := strategyClone(typ, "bogus", nil); !errors.Is(err, ErrInvalidStrategy) {
		t.Errorf("unknown strategy: %v", err)
	}
	if _, err := strategyClone(typ, StrategyFunc, nil); !errors.Is(err, ErrInvalidStrategy) {
		t.Errorf("func strategy without function: %v", err)
	}
}
