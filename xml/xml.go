// Package xml provides an XML codec for the replica codec strategy.
//
// encoding/xml cannot encode maps, so types cloned through it should hold
// slices and scalars. Repeated elements decode back into slices in order.
package xml

import (
	"encoding/xml"

	"github.com/zoobzio/replica"
)

// xmlCodec round-trips values through encoding/xml.
type xmlCodec struct{}

// New returns a codec for replica.WithCodec.
func New() replica.Codec {
	return &xmlCodec{}
}

// ContentType reports application/xml.
func (c *xmlCodec) ContentType() string {
	return "application/xml"
}

// Marshal encodes the original value as one XML element.
func (c *xmlCodec) Marshal(v any) ([]byte, error) {
	return xml.Marshal(v)
}

// Unmarshal decodes into the fresh value that becomes the clone.
func (c *xmlCodec) Unmarshal(data []byte, v any) error {
	return xml.Unmarshal(data, v)
}
