package anycache

import (
	"context"

	"github.com/unkn0wn-root/anycache/internal/wire"
)

// Call returns the cached result for this argument list, computing and
// persisting it first when absent. Errors from the wrapped function
// propagate unmodified and are never cached.
func (c *Cached[V]) Call(ctx context.Context, args ...any) (V, error) {
	var out V

	key, err := c.eng.key(args)
	if err != nil {
		if c.eng.bestEffort {
			c.eng.log.Warn("key derivation failed; executing uncached", Fields{"func": c.eng.funcID, "err": err})
			return c.fn(ctx, args)
		}
		return out, err
	}

	decode := func(b []byte) error {
		payload, derr := wire.DecodeValue(b)
		if derr != nil {
			return derr
		}
		v, derr := c.codec.Decode(payload)
		if derr != nil {
			return derr
		}
		out = v
		return nil
	}

	compute := func(ctx context.Context) ([]byte, error) {
		v, cerr := c.fn(ctx, args)
		if cerr != nil {
			return nil, cerr
		}
		payload, eerr := c.codec.Encode(v)
		if eerr != nil {
			return nil, &SerializationError{Op: "encode", Namespace: c.eng.ns, Key: key, Err: eerr}
		}
		out = v
		return wire.EncodeValue(payload), nil
	}

	if err := c.eng.run(ctx, key, decode, compute); err != nil {
		var zero V
		return zero, err
	}
	return out, nil
}

// Key returns the cache key this argument list derives to. Handy for
// debugging storage layout; the key is also the entry's file name under
// the namespace directory in the disk store.
func (c *Cached[V]) Key(args ...any) (string, error) {
	return c.eng.key(args)
}

// Exists reports whether an entry is already persisted for this argument
// list, without computing anything.
func (c *Cached[V]) Exists(ctx context.Context, args ...any) (bool, error) {
	return c.eng.exists(ctx, args)
}

// Invalidate deletes the entry for this argument list. The engine never
// deletes valid entries on its own; this is the caller-invoked path.
func (c *Cached[V]) Invalidate(ctx context.Context, args ...any) error {
	return c.eng.invalidate(ctx, args)
}

// Close releases the store if the wrapper created it (Options.Dir). A
// caller-supplied store is left untouched.
func (c *Cached[V]) Close(ctx context.Context) error {
	return c.eng.close(ctx)
}
