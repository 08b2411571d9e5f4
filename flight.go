package anycache

import "sync"

// flightGroup hands out at most one execution slot per key within the
// process. Slots are created lazily on first contention and destroyed when
// the holder releases, so the map never accumulates idle keys. Waiters get
// a channel that closes on release; selecting on it together with
// ctx.Done() gives correct behavior under both blocking and cooperative
// callers, and lets a cancelled waiter abandon its wait without disturbing
// the holder or other waiters.
//
// Slots only deduplicate within one process. Cross-process overlap is
// resolved by the store's atomic-write contract, not here.
type flightGroup struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// acquire returns (true, nil) when the caller now holds the slot for key,
// or (false, ch) where ch closes when the current holder releases.
func (g *flightGroup) acquire(key string) (bool, <-chan struct{}) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ch, ok := g.slots[key]; ok {
		return false, ch
	}
	if g.slots == nil {
		g.slots = make(map[string]chan struct{})
	}
	g.slots[key] = make(chan struct{})
	return true, nil
}

// release frees the slot and wakes every waiter. Only the holder may call it.
func (g *flightGroup) release(key string) {
	g.mu.Lock()
	ch := g.slots[key]
	delete(g.slots, key)
	g.mu.Unlock()
	if ch != nil {
		close(ch)
	}
}
