package anycache

import "fmt"

// UnhashableArgsError reports that key derivation could not deterministically
// encode a call signature (e.g. an argument holds a channel or function
// value). The call fails immediately and nothing is cached, unless the
// wrapper was configured with BestEffort.
type UnhashableArgsError struct {
	FuncID string
	Err    error
}

func (e *UnhashableArgsError) Error() string {
	return fmt.Sprintf("anycache: unhashable arguments for %q: %v", e.FuncID, e.Err)
}

func (e *UnhashableArgsError) Unwrap() error { return e.Err }

// SerializationError reports a codec failure while encoding a computed
// result. Nothing is persisted and the slot for the key is released, so the
// next call recomputes. Decode failures on the hit path are not surfaced:
// the engine treats them as corruption, deletes the entry and recomputes.
type SerializationError struct {
	Op        string // "encode"
	Namespace string
	Key       string
	Err       error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("anycache: %s %s/%s: %v", e.Op, e.Namespace, e.Key, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }
