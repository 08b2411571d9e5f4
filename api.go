package anycache

import (
	"context"
	"fmt"
	"iter"

	"github.com/unkn0wn-root/anycache/codec"
	"github.com/unkn0wn-root/anycache/internal/sig"
	"github.com/unkn0wn-root/anycache/store"
	"github.com/unkn0wn-root/anycache/store/fs"
)

// Options configure a cached wrapper. Only FuncID plus one of Dir/Store are
// required; everything else has defaults. Options are resolved once at wrap
// time, never per call.
type Options[V any] struct {
	// Dir is the root storage directory for the default disk store,
	// created if absent. Ignored when Store is set.
	Dir string

	// FuncID is the stable qualified name of the wrapped function
	// (e.g. "mypkg.FetchUser"). Required. Keys derive from this name, not
	// from the function value, so they are reproducible across restarts.
	FuncID string

	// Namespace scopes this wrapper's entries; dots express hierarchy in
	// the disk store ("app.users" -> app/users/). Default: FuncID.
	Namespace string

	// IsMethod excludes the first positional argument (the receiver) from
	// key material. Use when wrapping a method expression like T.Method.
	IsMethod bool

	// ParamNames declares the wrapped function's parameter names so
	// positional arguments can be bound to them and merged with Named ones
	// for key derivation. Optional.
	ParamNames []string

	// BestEffort makes calls with underivable keys execute uncached
	// instead of failing with UnhashableArgsError.
	BestEffort bool

	Codec  codec.Codec[V] // value serializer; nil => CBOR
	Store  store.Store    // entry storage; nil => disk store rooted at Dir
	Logger Logger         // nil => NopLogger
	Hooks  Hooks          // nil => NopHooks
}

// Cached wraps a value-producing function. All methods are safe for
// concurrent use.
type Cached[V any] struct {
	eng   *engine
	codec codec.Codec[V]
	fn    func(context.Context, []any) (V, error)
}

// CachedSeq wraps a sequence-producing function. All methods are safe for
// concurrent use.
type CachedSeq[V any] struct {
	eng   *engine
	codec codec.Codec[V]
	fn    func(context.Context, []any) iter.Seq2[V, error]
}

// Wrap caches a plain function.
func Wrap[V any](fn func(args ...any) (V, error), opts Options[V]) (*Cached[V], error) {
	if fn == nil {
		return nil, fmt.Errorf("anycache: fn is required")
	}
	return WrapCtx(func(_ context.Context, args ...any) (V, error) {
		return fn(args...)
	}, opts)
}

// WrapCtx caches a context-aware function. The context passed to Call flows
// into the wrapped function, so a cancelled computation behaves like any
// other failure: nothing is written and the next call retries.
func WrapCtx[V any](fn func(ctx context.Context, args ...any) (V, error), opts Options[V]) (*Cached[V], error) {
	if fn == nil {
		return nil, fmt.Errorf("anycache: fn is required")
	}
	eng, cod, err := build(opts)
	if err != nil {
		return nil, err
	}
	return &Cached[V]{
		eng:   eng,
		codec: cod,
		fn: func(ctx context.Context, args []any) (V, error) {
			return fn(ctx, args...)
		},
	}, nil
}

// WrapSeq caches a lazy-sequence producer. On a miss the source sequence is
// fully drained before anything is persisted or returned; hits replay the
// stored elements in original order.
func WrapSeq[V any](fn func(args ...any) iter.Seq2[V, error], opts Options[V]) (*CachedSeq[V], error) {
	if fn == nil {
		return nil, fmt.Errorf("anycache: fn is required")
	}
	return WrapSeqCtx(func(_ context.Context, args ...any) iter.Seq2[V, error] {
		return fn(args...)
	}, opts)
}

// WrapSeqCtx caches a context-aware lazy-sequence producer. Draining
// advances the source sequentially (element production is never
// parallelized), so source side effects keep their order.
func WrapSeqCtx[V any](fn func(ctx context.Context, args ...any) iter.Seq2[V, error], opts Options[V]) (*CachedSeq[V], error) {
	if fn == nil {
		return nil, fmt.Errorf("anycache: fn is required")
	}
	eng, cod, err := build(opts)
	if err != nil {
		return nil, err
	}
	return &CachedSeq[V]{
		eng:   eng,
		codec: cod,
		fn: func(ctx context.Context, args []any) iter.Seq2[V, error] {
			return fn(ctx, args...)
		},
	}, nil
}

func build[V any](opts Options[V]) (*engine, codec.Codec[V], error) {
	if opts.FuncID == "" {
		return nil, nil, fmt.Errorf("anycache: FuncID is required")
	}

	st := opts.Store
	ownStore := false
	if st == nil {
		if opts.Dir == "" {
			return nil, nil, fmt.Errorf("anycache: Dir or Store is required")
		}
		var err error
		st, err = fs.New(opts.Dir)
		if err != nil {
			return nil, nil, err
		}
		ownStore = true
	}

	cod := opts.Codec
	if cod == nil {
		c, err := codec.NewCBOR[V](false)
		if err != nil {
			return nil, nil, err
		}
		cod = c
	}

	deriver, err := sig.New(opts.FuncID, opts.ParamNames, opts.IsMethod)
	if err != nil {
		return nil, nil, err
	}

	eng := &engine{
		ns:         coalesce(opts.Namespace, opts.FuncID),
		funcID:     opts.FuncID,
		store:      st,
		ownStore:   ownStore,
		log:        coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:      coalesce[Hooks](opts.Hooks, NopHooks{}),
		deriver:    deriver,
		bestEffort: opts.BestEffort,
	}
	return eng, cod, nil
}
