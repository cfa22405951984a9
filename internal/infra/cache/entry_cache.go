package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"daybook/internal/domain/entity"
	"daybook/internal/observability/metrics"
	"daybook/internal/repository"
	"daybook/internal/resilience/circuitbreaker"
)

// DefaultTTL is how long a cached entry lives without being invalidated.
const DefaultTTL = 30 * time.Minute

const keyPrefix = "daybook:entry:"

// Client is the subset of *redis.Client the cache uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	MGet(ctx context.Context, keys ...string) *redis.SliceCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

var _ repository.EntryRepository = (*CachedEntryRepository)(nil)

// CachedEntryRepository serves Get and GetByIDs from Redis and falls back to
// the wrapped store on a miss or any cache error. Writes go to the store first
// and then drop the cached copy.
type CachedEntryRepository struct {
	next    repository.EntryRepository
	cache   Client
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

// NewCachedEntryRepository wraps next with a cache backed by client.
func NewCachedEntryRepository(next repository.EntryRepository, client Client, ttl time.Duration) *CachedEntryRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedEntryRepository{
		next:    next,
		cache:   client,
		ttl:     ttl,
		breaker: circuitbreaker.New(circuitbreaker.CacheConfig()),
	}
}

type cachedEntry struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func cacheKey(id int64) string {
	return keyPrefix + strconv.FormatInt(id, 10)
}

func encode(e *entity.Entry) ([]byte, error) {
	return json.Marshal(cachedEntry{ID: e.ID, Title: e.Title, Body: e.Body, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt})
}

func decode(raw string) (*entity.Entry, error) {
	var c cachedEntry
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, err
	}
	return &entity.Entry{ID: c.ID, Title: c.Title, Body: c.Body, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}, nil
}

func (r *CachedEntryRepository) Get(ctx context.Context, id int64) (*entity.Entry, error) {
	key := cacheKey(id)

	val, err := r.cacheCall(func() (interface{}, error) {
		return r.cache.Get(ctx, key).Result()
	})
	switch {
	case err == nil:
		if e, decodeErr := decode(val.(string)); decodeErr == nil {
			metrics.RecordCacheResult("hit")
			return e, nil
		}
		slog.Warn("corrupted cache entry, cleaning up key", slog.String("key", key))
		r.invalidate(ctx, id)
		metrics.RecordCacheResult("miss")
	case errors.Is(err, redis.Nil):
		metrics.RecordCacheResult("miss")
	default:
		r.logCacheError("get", err)
	}

	e, err := r.next.Get(ctx, id)
	if err != nil || e == nil {
		return e, err
	}
	r.store(ctx, e)
	return e, nil
}

func (r *CachedEntryRepository) GetByIDs(ctx context.Context, ids []int64) ([]*entity.Entry, error) {
	if len(ids) == 0 {
		return []*entity.Entry{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cacheKey(id)
	}

	found := make([]*entity.Entry, 0, len(ids))
	missing := ids
	vals, err := r.cacheCall(func() (interface{}, error) {
		return r.cache.MGet(ctx, keys...).Result()
	})
	if err != nil {
		r.logCacheError("mget", err)
	} else {
		missing = nil
		for i, v := range vals.([]interface{}) {
			raw, ok := v.(string)
			if !ok {
				missing = append(missing, ids[i])
				continue
			}
			e, decodeErr := decode(raw)
			if decodeErr != nil {
				missing = append(missing, ids[i])
				continue
			}
			found = append(found, e)
		}
		for range found {
			metrics.RecordCacheResult("hit")
		}
		for range missing {
			metrics.RecordCacheResult("miss")
		}
	}

	if len(missing) == 0 {
		return found, nil
	}
	loaded, err := r.next.GetByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for _, e := range loaded {
		r.store(ctx, e)
	}
	return append(found, loaded...), nil
}

func (r *CachedEntryRepository) ListAfter(ctx context.Context, afterID int64, limit int) ([]*entity.Entry, error) {
	return r.next.ListAfter(ctx, afterID, limit)
}

func (r *CachedEntryRepository) Create(ctx context.Context, e *entity.Entry) error {
	return r.next.Create(ctx, e)
}

func (r *CachedEntryRepository) Update(ctx context.Context, e *entity.Entry) error {
	if err := r.next.Update(ctx, e); err != nil {
		return err
	}
	r.invalidate(ctx, e.ID)
	return nil
}

func (r *CachedEntryRepository) Delete(ctx context.Context, id int64) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedEntryRepository) store(ctx context.Context, e *entity.Entry) {
	data, err := encode(e)
	if err != nil {
		return
	}
	if _, err := r.cacheCall(func() (interface{}, error) {
		return nil, r.cache.Set(ctx, cacheKey(e.ID), data, r.ttl).Err()
	}); err != nil {
		r.logCacheError("set", err)
	}
}

func (r *CachedEntryRepository) invalidate(ctx context.Context, id int64) {
	if err := r.cache.Del(ctx, cacheKey(id)).Err(); err != nil {
		slog.Warn("failed to invalidate cached entry",
			slog.Int64("entry_id", id),
			slog.Any("error", err))
	}
}

// cacheCall runs fn through the cache breaker. redis.Nil is a miss, not a
// failure, so it is passed through without counting against the breaker.
func (r *CachedEntryRepository) cacheCall(fn func() (interface{}, error)) (interface{}, error) {
	var miss bool
	val, err := r.breaker.Execute(func() (interface{}, error) {
		v, err := fn()
		if errors.Is(err, redis.Nil) {
			miss = true
			return nil, nil
		}
		return v, err
	})
	if miss {
		return nil, redis.Nil
	}
	return val, err
}

func (r *CachedEntryRepository) logCacheError(op string, err error) {
	metrics.RecordCacheResult("error")
	if circuitbreaker.IsOpen(err) {
		return
	}
	slog.Warn("redis cache error",
		slog.String("operation", op),
		slog.Any("error", err))
}
