package anycache

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The cache calls them on hot paths.
type Hooks interface {
	// An entry was served from the store.
	Hit(namespace, key string)

	// No entry existed; the wrapped function is about to run.
	Miss(namespace, key string)

	// An unreadable entry was deleted on read.
	// reason ∈ {"frame", "decode"}
	SelfHeal(namespace, key, reason string)

	// A caller piggybacked on an in-flight computation for the same key
	// instead of starting its own.
	FlightShared(namespace, key string)

	// Persisting a computed result failed (the error also propagates to
	// the caller that triggered the computation).
	WriteFailed(namespace, key string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) Hit(string, string)                {}
func (NopHooks) Miss(string, string)               {}
func (NopHooks) SelfHeal(string, string, string)   {}
func (NopHooks) FlightShared(string, string)       {}
func (NopHooks) WriteFailed(string, string, error) {}
