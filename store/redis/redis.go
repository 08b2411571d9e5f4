// Package redis implements a Redis-backed entry store. Entries are written
// without expiry; with AOF or RDB persistence enabled on the server they
// survive process restarts like the disk store. SET is atomic server-side,
// which satisfies the store's no-partial-reads contract.
package redis

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/anycache/store"
)

var ErrNilClient = errors.New("redis store: nil client")

type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

var _ store.Store = (*Redis)(nil)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this store exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

func (r *Redis) Exists(ctx context.Context, namespace, key string) (bool, error) {
	n, err := r.rdb.Exists(ctx, storageKey(namespace, key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Redis) Read(ctx context.Context, namespace, key string) ([]byte, error) {
	b, err := r.rdb.Get(ctx, storageKey(namespace, key)).Bytes()
	if err == goredis.Nil {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Redis) Write(ctx context.Context, namespace, key string, payload []byte) error {
	// 0 expiry: entries never expire (no TTL semantics in anycache).
	return r.rdb.Set(ctx, storageKey(namespace, key), payload, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, namespace, key string) error {
	return r.rdb.Del(ctx, storageKey(namespace, key)).Err()
}

// Close releases the underlying redis client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (r *Redis) Close(context.Context) error {
	if r.closeClient {
		if err := r.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

func storageKey(namespace, key string) string {
	return "anycache:" + namespace + ":" + key
}
