// Package msgpack provides a MessagePack codec for the replica codec
// strategy. Field names are kept as declared unless a `msgpack` tag renames
// them.
package msgpack

import (
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/replica"
)

// msgpackCodec round-trips values through vmihailenco/msgpack.
type msgpackCodec struct{}

// New returns a codec for replica.WithCodec.
func New() replica.Codec {
	return &msgpackCodec{}
}

// ContentType reports application/msgpack.
func (c *msgpackCodec) ContentType() string {
	return "application/msgpack"
}

// Marshal encodes the original value.
func (c *msgpackCodec) Marshal(v any) ([]byte, error) {
	return msgpack.Marshal(v)
}

// Unmarshal decodes into the fresh value that becomes the clone.
func (c *msgpackCodec) Unmarshal(data []byte, v any) error {
	return msgpack.Unmarshal(data, v)
}
