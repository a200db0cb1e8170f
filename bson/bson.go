// Package bson provides a BSON codec for the replica codec strategy.
//
// BSON documents are structs or maps at the top level, so only those types
// can be registered with this codec. Field names are lowercased unless a
// `bson` tag says otherwise.
package bson

import (
	"github.com/zoobzio/replica"
	"go.mongodb.org/mongo-driver/bson"
)

// bsonCodec round-trips values through the mongo-driver bson package.
type bsonCodec struct{}

// New returns a codec for replica.WithCodec.
func New() replica.Codec {
	return &bsonCodec{}
}

// ContentType reports application/bson.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes the original value as a document.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

// Unmarshal decodes into the fresh value that becomes the clone.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	return bson.Unmarshal(data, v)
}
