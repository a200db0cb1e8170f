// Package yaml provides a YAML codec for the replica codec strategy,
// backed by gopkg.in/yaml.v3. Field names are lowercased unless a `yaml`
// tag says otherwise.
package yaml

import (
	"github.com/zoobzio/replica"
	"gopkg.in/yaml.v3"
)

// yamlCodec round-trips values through yaml.v3.
type yamlCodec struct{}

// New returns a codec for replica.WithCodec.
func New() replica.Codec {
	return &yamlCodec{}
}

// ContentType reports application/yaml.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes the original value.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// Unmarshal decodes into the fresh value that becomes the clone.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
