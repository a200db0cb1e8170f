package replica

// Codec provides content-type aware marshaling.
// The codec strategy clones a value by marshaling it and unmarshaling the
// result into the new storage.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}
