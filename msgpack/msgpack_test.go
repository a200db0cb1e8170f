package msgpack

import (
	"testing"

	"github.com/zoobzio/replica"
)

type shape interface {
	Area() float64
}

type rect struct {
	Name   string   `msgpack:"name"`
	Width  float64  `msgpack:"width"`
	Height float64  `msgpack:"height"`
	Labels []string `msgpack:"labels"`
}

func (r rect) Area() float64 { return r.Width * r.Height }

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/msgpack" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/msgpack")
	}
}

func TestCloneThroughCodec(t *testing.T) {
	defer replica.Reset()
	if err := replica.Register[rect](replica.WithCodec(New())); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	var original shape = rect{Name: "door", Width: 2, Height: 3, Labels: []string{"wood", "oak"}}

	owned, err := replica.CloneToOwned(original)
	if err != nil {
		t.Fatalf("CloneToOwned() error: %v", err)
	}
	defer owned.Release()

	if owned.Descriptor().Strategy != replica.StrategyCodec {
		t.Errorf("Strategy = %q, want %q", owned.Descriptor().Strategy, replica.StrategyCodec)
	}
	if got := owned.Value().Area(); got != 6 {
		t.Errorf("Area() = %v, want 6", got)
	}

	cloned, ok := owned.Value().(rect)
	if !ok {
		t.Fatalf("dynamic type = %T, want rect", owned.Value())
	}
	if cloned.Name != "door" || len(cloned.Labels) != 2 || cloned.Labels[1] != "oak" {
		t.Errorf("round-trip failed: got %+v", cloned)
	}

	cloned.Labels[0] = "pine"
	if original.(rect).Labels[0] != "wood" {
		t.Error("codec clone should not share slice storage with the original")
	}
}
