// Package cache memoizes suggestion lists and catalog matches for a bounded time.
package cache

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL     = 300 * time.Second
	DefaultMaxSize = 100
)

// Store holds cached values. Implementations must be safe for concurrent use.
type Store[T any] interface {
	Get(ctx context.Context, key string) (T, bool, error)
	Set(ctx context.Context, key string, value T) error
}

// Stats counts lookups since the cache was created.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

// DefaultComputeTimeout bounds a shared compute call once it no longer
// follows any single caller's context.
const DefaultComputeTimeout = 30 * time.Second

// Cache puts get-or-compute semantics in front of a Store. Concurrent misses
// on the same key share one compute call. The shared call is detached from
// the caller that started it, so one caller giving up never fails the others.
type Cache[T any] struct {
	name           string
	store          Store[T]
	group          singleflight.Group
	log            *zap.Logger
	computeTimeout time.Duration
	hits           atomic.Int64
	misses         atomic.Int64
}

type Option func(*options)

type options struct {
	computeTimeout time.Duration
}

// WithComputeTimeout bounds each shared compute call.
func WithComputeTimeout(d time.Duration) Option {
	return func(o *options) {
		o.computeTimeout = d
	}
}

func New[T any](name string, store Store[T], log *zap.Logger, opts ...Option) *Cache[T] {
	if log == nil {
		log = zap.NewNop()
	}
	o := options{computeTimeout: DefaultComputeTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.computeTimeout <= 0 {
		o.computeTimeout = DefaultComputeTimeout
	}
	return &Cache[T]{
		name:           name,
		store:          store,
		log:            log.With(zap.String("cache", name)),
		computeTimeout: o.computeTimeout,
	}
}

// NormalizeKey trims surrounding whitespace. Case is preserved.
func NormalizeKey(key string) string {
	return strings.TrimSpace(key)
}

// GetOrCompute returns the cached value for key, or calls compute and stores
// its result. Errors from compute are returned and never cached. Store errors
// are logged and treated as a miss so the cache never fails a request.
//
// A caller whose ctx ends while waiting returns ctx.Err(); the shared compute
// keeps running for the remaining callers.
func (c *Cache[T]) GetOrCompute(ctx context.Context, key string, compute func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	key = NormalizeKey(key)

	if v, ok := c.lookup(ctx, key); ok {
		c.hits.Add(1)
		return v, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.computeTimeout)
		defer cancel()

		if v, ok := c.lookup(sctx, key); ok {
			c.hits.Add(1)
			return v, nil
		}
		c.misses.Add(1)

		v, err := compute(sctx)
		if err != nil {
			return v, err
		}
		if err := c.store.Set(sctx, key, v); err != nil {
			c.log.Warn("cache store write failed", zap.String("key", key), zap.Error(err))
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		if res.Shared {
			c.log.Debug("shared in-flight computation", zap.String("key", key))
		}
		if res.Err != nil {
			if isContextErr(res.Err) {
				// The shared call ran out of its own budget; this caller still
				// has time, so it tries once more on its own context.
				c.log.Debug("recomputing after shared call expired", zap.String("key", key))
				return c.computeOwn(ctx, key, compute)
			}
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func (c *Cache[T]) computeOwn(ctx context.Context, key string, compute func(ctx context.Context) (T, error)) (T, error) {
	c.misses.Add(1)
	v, err := compute(ctx)
	if err != nil {
		return v, err
	}
	if err := c.store.Set(ctx, key, v); err != nil {
		c.log.Warn("cache store write failed", zap.String("key", key), zap.Error(err))
	}
	return v, nil
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (c *Cache[T]) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

func (c *Cache[T]) lookup(ctx context.Context, key string) (T, bool) {
	v, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn("cache store read failed", zap.String("key", key), zap.Error(err))
		var zero T
		return zero, false
	}
	return v, ok
}
