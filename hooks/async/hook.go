// Package asynchook decouples hook work from the cache's hot paths: events
// are queued and dispatched by background workers, and dropped when the
// queue is full rather than blocking a caller.
//
// usage:
//
//	raw := myMetricsHooks{}
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	cached, _ := anycache.WrapCtx(fn, anycache.Options[User]{
//	    Dir:    dir,
//	    FuncID: "app.loadUser",
//	    Hooks:  hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/anycache"
)

type Hooks struct {
	inner anycache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ anycache.Hooks = (*Hooks)(nil)

func New(inner anycache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) Hit(ns, k string)          { h.try(func() { h.inner.Hit(ns, k) }) }
func (h *Hooks) Miss(ns, k string)         { h.try(func() { h.inner.Miss(ns, k) }) }
func (h *Hooks) FlightShared(ns, k string) { h.try(func() { h.inner.FlightShared(ns, k) }) }
func (h *Hooks) SelfHeal(ns, k, reason string) {
	h.try(func() { h.inner.SelfHeal(ns, k, reason) })
}
func (h *Hooks) WriteFailed(ns, k string, err error) {
	h.try(func() { h.inner.WriteFailed(ns, k, err) })
}
