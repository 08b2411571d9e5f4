package anycache

import (
	"context"
	"iter"

	"github.com/unkn0wn-root/anycache/internal/wire"
)

// Iter returns a sequence of the cached elements for this argument list.
// On a miss the source is drained completely before the first element is
// yielded; partial persistence could leave an inconsistent entry if the
// source failed midway. Every call returns a fresh replay, never a shared
// cursor. A derivation, store, or source error is yielded once as the
// second value, then the sequence stops.
func (c *CachedSeq[V]) Iter(ctx context.Context, args ...any) iter.Seq2[V, error] {
	return func(yield func(V, error) bool) {
		items, err := c.collect(ctx, args)
		if err != nil {
			var zero V
			yield(zero, err)
			return
		}
		for _, v := range items {
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Slice is Iter materialized: the full element list, in original order.
func (c *CachedSeq[V]) Slice(ctx context.Context, args ...any) ([]V, error) {
	return c.collect(ctx, args)
}

// Key returns the cache key this argument list derives to.
func (c *CachedSeq[V]) Key(args ...any) (string, error) {
	return c.eng.key(args)
}

// Exists reports whether an entry is already persisted for this argument
// list, without draining anything.
func (c *CachedSeq[V]) Exists(ctx context.Context, args ...any) (bool, error) {
	return c.eng.exists(ctx, args)
}

// Invalidate deletes the entry for this argument list.
func (c *CachedSeq[V]) Invalidate(ctx context.Context, args ...any) error {
	return c.eng.invalidate(ctx, args)
}

// Close releases the store if the wrapper created it (Options.Dir).
func (c *CachedSeq[V]) Close(ctx context.Context) error {
	return c.eng.close(ctx)
}

func (c *CachedSeq[V]) collect(ctx context.Context, args []any) ([]V, error) {
	key, err := c.eng.key(args)
	if err != nil {
		if c.eng.bestEffort {
			c.eng.log.Warn("key derivation failed; draining uncached", Fields{"func": c.eng.funcID, "err": err})
			return c.drain(ctx, args)
		}
		return nil, err
	}

	var out []V

	decode := func(b []byte) error {
		payloads, derr := wire.DecodeSeq(b)
		if derr != nil {
			return derr
		}
		items := make([]V, 0, len(payloads))
		for _, p := range payloads {
			v, derr := c.codec.Decode(p)
			if derr != nil {
				return derr
			}
			items = append(items, v)
		}
		out = items
		return nil
	}

	compute := func(ctx context.Context) ([]byte, error) {
		items, cerr := c.drain(ctx, args)
		if cerr != nil {
			return nil, cerr
		}
		payloads := make([][]byte, 0, len(items))
		for _, v := range items {
			p, eerr := c.codec.Encode(v)
			if eerr != nil {
				return nil, &SerializationError{Op: "encode", Namespace: c.eng.ns, Key: key, Err: eerr}
			}
			payloads = append(payloads, p)
		}
		out = items
		return wire.EncodeSeq(payloads), nil
	}

	if err := c.eng.run(ctx, key, decode, compute); err != nil {
		return nil, err
	}
	return out, nil
}

// drain materializes the source sequence, advancing it sequentially so
// source side effects keep their order. The first source error aborts the
// drain and propagates; the engine persists nothing in that case.
func (c *CachedSeq[V]) drain(ctx context.Context, args []any) ([]V, error) {
	var items []V
	for v, err := range c.fn(ctx, args) {
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}
