package anycache

import (
	"context"
	"errors"
	"fmt"

	"github.com/unkn0wn-root/anycache/internal/sig"
	"github.com/unkn0wn-root/anycache/internal/wire"
	"github.com/unkn0wn-root/anycache/store"
)

// engine is the shape-independent half of a cached wrapper: key derivation,
// the per-key miss protocol, and store access. The typed wrappers supply
// decode/compute closures that move values in and out of the entry framing.
type engine struct {
	ns         string
	funcID     string
	store      store.Store
	ownStore   bool // store was built from Options.Dir; Close tears it down
	log        Logger
	hooks      Hooks
	deriver    *sig.Deriver
	flight     flightGroup
	bestEffort bool
}

// key derives the cache key for one call. A final Named argument is split
// off as the keyword set; the rest are positional.
func (e *engine) key(args []any) (string, error) {
	pos, named := splitNamed(args)
	k, err := e.deriver.Derive(pos, named)
	if err != nil {
		return "", &UnhashableArgsError{FuncID: e.funcID, Err: err}
	}
	return k, nil
}

// run executes the per-key protocol:
//
//	check store -> hit: decode, done
//	            -> miss: acquire slot or wait for the holder and re-check
//
// decode is called with a stored payload; if it fails the entry is deleted
// and treated as a miss (self-heal). compute runs the wrapped function and
// returns the framed payload to persist; its error propagates unmodified
// and nothing is written. Waiters whose holder failed loop back and retry
// acquisition, so a failed computation is never cached and always retried.
func (e *engine) run(ctx context.Context, key string, decode func([]byte) error, compute func(context.Context) ([]byte, error)) error {
	for {
		hit, err := e.lookup(ctx, key, decode)
		if err != nil {
			return err
		}
		if hit {
			e.hooks.Hit(e.ns, key)
			e.log.Debug("entry loaded from cache", Fields{"namespace": e.ns, "key": key})
			return nil
		}

		holder, wait := e.flight.acquire(key)
		if holder {
			return e.fill(ctx, key, decode, compute)
		}

		e.hooks.FlightShared(e.ns, key)
		select {
		case <-wait:
			// Holder released: either the entry is there now or the holder
			// failed. Loop and re-check.
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// fill is the holder side of the miss path. The slot is released on every
// exit so waiters can re-check the store.
func (e *engine) fill(ctx context.Context, key string, decode func([]byte) error, compute func(context.Context) ([]byte, error)) error {
	defer e.flight.release(key)

	// The entry may have appeared between the miss check and slot
	// acquisition; recomputing here would break single-flight.
	hit, err := e.lookup(ctx, key, decode)
	if err != nil {
		return err
	}
	if hit {
		e.hooks.Hit(e.ns, key)
		return nil
	}

	e.hooks.Miss(e.ns, key)
	payload, err := compute(ctx)
	if err != nil {
		return err
	}

	if err := e.store.Write(ctx, e.ns, key, payload); err != nil {
		e.hooks.WriteFailed(e.ns, key, err)
		e.log.Error("failed to save entry", Fields{"namespace": e.ns, "key": key, "err": err})
		return fmt.Errorf("anycache: write %s/%s: %w", e.ns, key, err)
	}
	e.log.Debug("entry saved to cache", Fields{"namespace": e.ns, "key": key})
	return nil
}

// lookup reads and decodes an entry. An unreadable entry (bad framing or a
// codec decode failure) is deleted and reported as a miss rather than an
// error, so corruption heals itself on the next computation.
func (e *engine) lookup(ctx context.Context, key string, decode func([]byte) error) (bool, error) {
	payload, err := e.store.Read(ctx, e.ns, key)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("anycache: read %s/%s: %w", e.ns, key, err)
	}

	if derr := decode(payload); derr != nil {
		_ = e.store.Delete(ctx, e.ns, key)
		reason := "decode"
		if errors.Is(derr, wire.ErrCorrupt) {
			reason = "frame"
		}
		e.hooks.SelfHeal(e.ns, key, reason)
		e.log.Warn("dropped unreadable cache entry", Fields{"namespace": e.ns, "key": key, "reason": reason, "err": derr})
		return false, nil
	}
	return true, nil
}

func (e *engine) exists(ctx context.Context, args []any) (bool, error) {
	key, err := e.key(args)
	if err != nil {
		return false, err
	}
	return e.store.Exists(ctx, e.ns, key)
}

func (e *engine) invalidate(ctx context.Context, args []any) error {
	key, err := e.key(args)
	if err != nil {
		return err
	}
	if err := e.store.Delete(ctx, e.ns, key); err != nil {
		return err
	}
	e.log.Debug("entry invalidated", Fields{"namespace": e.ns, "key": key})
	return nil
}

func (e *engine) close(ctx context.Context) error {
	if e.ownStore {
		return e.store.Close(ctx)
	}
	return nil
}
