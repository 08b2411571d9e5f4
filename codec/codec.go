// Package codec provides the pluggable serialization capability for
// anycache. The engine stores exactly the codec's byte output (inside its
// entry framing) and depends on nothing beyond Encode/Decode round-tripping.
package codec

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}
