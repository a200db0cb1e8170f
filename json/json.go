// Package json provides a JSON codec for the replica codec strategy.
//
// A value cloned through JSON keeps only what encoding/json round-trips:
// exported fields, honoring `json` tags. Channels and functions make the
// clone fail; unexported fields come back zero.
package json

import (
	"encoding/json"

	"github.com/zoobzio/replica"
)

// jsonCodec round-trips values through encoding/json.
type jsonCodec struct{}

// New returns a codec for replica.WithCodec.
func New() replica.Codec {
	return &jsonCodec{}
}

// ContentType reports application/json.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes the original value.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal decodes into the fresh value that becomes the clone.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
