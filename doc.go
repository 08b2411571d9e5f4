// Package anycache is a transparent, disk-persistent memoization layer for
// functions. A wrapped function's results are keyed by its stable qualified
// name and arguments and persisted through a pluggable byte store, so cached
// results survive process restarts.
//
// Components:
//   - Codec[V]: (de)serializes result values V <-> []byte (CBOR by default;
//     msgpack, JSON, protobuf and raw codecs in the codec package).
//   - Store: durable byte store per (namespace, key). The disk store
//     (store/fs) writes one file per call signature with atomic
//     temp-then-rename; store/redis is an alternative persistent backend.
//   - flight slots: at most one computation per key per process; concurrent
//     callers for the same key wait and reuse the result.
//
// Keys:
//
//	sha256(det-CBOR(funcID, args, named)) -> 64 hex chars,
//	stored at <dir>/<namespace>/<key> (namespace dots become directories)
//
// Wrapping:
//
//	fetch, _ := anycache.WrapCtx(func(ctx context.Context, args ...any) (User, error) {
//	    return loadUser(ctx, args[0].(string))
//	}, anycache.Options[User]{
//	    Dir:    "/var/cache/app",
//	    FuncID: "app.loadUser",
//	})
//
//	u, err := fetch.Call(ctx, "u-123") // first call computes and persists
//	u, err  = fetch.Call(ctx, "u-123") // hit, even after a restart
//
// Failed computations are never cached; unreadable entries are deleted and
// recomputed on the next call. Entries never expire and are only removed by
// Invalidate.
package anycache
