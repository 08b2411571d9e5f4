package anycache

import (
	"context"
	"errors"
	"iter"
	"reflect"
	"sync/atomic"
	"testing"
)

func countingSeq(calls *atomic.Int32, vals ...int) func(args ...any) iter.Seq2[int, error] {
	return func(_ ...any) iter.Seq2[int, error] {
		calls.Add(1)
		return func(yield func(int, error) bool) {
			for _, v := range vals {
				if !yield(v, nil) {
					return
				}
			}
		}
	}
}

func newSeqCached(t *testing.T, fn func(args ...any) iter.Seq2[int, error], optsOpt func(*Options[int])) *CachedSeq[int] {
	t.Helper()
	opts := Options[int]{
		FuncID: "testpkg.gen",
		Store:  newMemStore(),
	}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	cc, err := WrapSeq(fn, opts)
	if err != nil {
		t.Fatalf("WrapSeq: %v", err)
	}
	return cc
}

func TestSeqDrainAndReplay(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	cc := newSeqCached(t, countingSeq(&calls, 3, 4, 5), nil)

	want := []int{3, 4, 5}
	for i := 0; i < 2; i++ {
		got, err := cc.Slice(ctx, 3)
		if err != nil {
			t.Fatalf("Slice #%d: %v", i+1, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("Slice #%d: got %v want %v", i+1, got, want)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("source should run once, got %d", n)
	}
}

func TestSeqIterFreshReplay(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	cc := newSeqCached(t, countingSeq(&calls, 1, 2, 3), nil)

	// First iterator abandoned after one element must not disturb a second,
	// independent replay.
	var first []int
	for v, err := range cc.Iter(ctx, "k") {
		if err != nil {
			t.Fatalf("iter 1: %v", err)
		}
		first = append(first, v)
		break
	}
	if !reflect.DeepEqual(first, []int{1}) {
		t.Fatalf("iter 1 prefix: got %v", first)
	}

	var second []int
	for v, err := range cc.Iter(ctx, "k") {
		if err != nil {
			t.Fatalf("iter 2: %v", err)
		}
		second = append(second, v)
	}
	if !reflect.DeepEqual(second, []int{1, 2, 3}) {
		t.Fatalf("iter 2 full replay: got %v", second)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("source should run once, got %d", n)
	}
}

func TestSeqEmptySequenceCached(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	cc := newSeqCached(t, countingSeq(&calls), nil)

	for i := 0; i < 2; i++ {
		got, err := cc.Slice(ctx, 1)
		if err != nil {
			t.Fatalf("Slice #%d: %v", i+1, err)
		}
		if len(got) != 0 {
			t.Fatalf("Slice #%d: got %v want empty", i+1, got)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("empty sequence should still cache, got %d executions", n)
	}
}

func TestSeqSourceFailureNothingWritten(t *testing.T) {
	ctx := context.Background()
	ms := newMemStore()
	boom := errors.New("source failed")
	var calls atomic.Int32

	fn := func(_ ...any) iter.Seq2[int, error] {
		n := calls.Add(1)
		return func(yield func(int, error) bool) {
			if !yield(1, nil) {
				return
			}
			if n == 1 {
				yield(0, boom)
				return
			}
			yield(2, nil)
		}
	}
	cc := newSeqCached(t, fn, func(o *Options[int]) { o.Store = ms })

	if _, err := cc.Slice(ctx, "k"); !errors.Is(err, boom) {
		t.Fatalf("expected source error, got %v", err)
	}
	if ms.len() != 0 {
		t.Fatalf("partial drain must not be persisted")
	}

	got, err := cc.Slice(ctx, "k")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("retry: got %v", got)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("expected retry to re-invoke the source, got %d", n)
	}
}

func TestSeqReplayAcrossWrappers(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	var calls atomic.Int32

	build := func() *CachedSeq[int] {
		t.Helper()
		cc, err := WrapSeq(countingSeq(&calls, 10, 20, 30), Options[int]{
			Dir:    dir,
			FuncID: "testpkg.gen",
		})
		if err != nil {
			t.Fatalf("WrapSeq: %v", err)
		}
		return cc
	}

	first := build()
	if _, err := first.Slice(ctx, 1); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := first.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second := build()
	defer second.Close(ctx)
	got, err := second.Slice(ctx, 1)
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if !reflect.DeepEqual(got, []int{10, 20, 30}) {
		t.Fatalf("replay across restart: got %v", got)
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("restart replay must not re-invoke the source, got %d", n)
	}
}

func TestSeqCtxCancellationDuringDrain(t *testing.T) {
	ms := newMemStore()
	var calls atomic.Int32

	fn := func(ctx context.Context, _ ...any) iter.Seq2[int, error] {
		calls.Add(1)
		return func(yield func(int, error) bool) {
			for i := 0; ; i++ {
				select {
				case <-ctx.Done():
					yield(0, ctx.Err())
					return
				default:
				}
				if !yield(i, nil) {
					return
				}
				if i == 1 {
					return // source done after two elements when not cancelled
				}
			}
		}
	}

	cc, err := WrapSeqCtx(fn, Options[int]{FuncID: "testpkg.gen", Store: ms})
	if err != nil {
		t.Fatalf("WrapSeqCtx: %v", err)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := cc.Slice(cancelled, "k"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected ctx error from source, got %v", err)
	}
	if ms.len() != 0 {
		t.Fatalf("cancelled drain must not persist")
	}

	got, err := cc.Slice(context.Background(), "k")
	if err != nil {
		t.Fatalf("fresh drain: %v", err)
	}
	if !reflect.DeepEqual(got, []int{0, 1}) {
		t.Fatalf("fresh drain: got %v", got)
	}
}

func TestSeqOrderSensitiveKeys(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	cc := newSeqCached(t, func(args ...any) iter.Seq2[int, error] {
		calls.Add(1)
		vals := args[0].([]any)
		return func(yield func(int, error) bool) {
			for _, v := range vals {
				if !yield(v.(int), nil) {
					return
				}
			}
		}
	}, nil)

	// Literal structure is hashed: order inside a list matters.
	if _, err := cc.Slice(ctx, []any{1, 2}); err != nil {
		t.Fatalf("Slice [1 2]: %v", err)
	}
	if _, err := cc.Slice(ctx, []any{2, 1}); err != nil {
		t.Fatalf("Slice [2 1]: %v", err)
	}
	if n := calls.Load(); n != 2 {
		t.Fatalf("different list orders are different signatures; got %d executions", n)
	}
}
