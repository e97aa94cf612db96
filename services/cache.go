// services/cache.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/lumina-edu/lumina_api/shared"
	log "github.com/sirupsen/logrus"
)

// CacheTier groups entities by how fast they go stale.
type CacheTier time.Duration

const (
	// Notifications and other fast-moving reads.
	TierShort = CacheTier(2 * time.Minute)
	// Dashboard aggregates and grade content.
	TierMedium = CacheTier(30 * time.Minute)
	// Assigned grade, school package and other near-static lookups.
	TierLong = CacheTier(6 * time.Hour)
)

// ErrNoScope is returned when a required scoping parameter (usually the
// authenticated user id) is empty. The fetch is not issued at all, so a
// query can never leak across an auth transition.
var ErrNoScope = errors.New("cache: missing scope parameter")

// CacheStore is the physical backend. Redis in production; tests swap in
// an in-memory store.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error) // nil payload when missing
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// cacheEntry wraps payloads with their fetch time so logical staleness is
// computed per tier while the physical TTL stays longer, leaving a stale
// window to serve from while revalidating.
type cacheEntry struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Payload   json.RawMessage `json:"payload"`
}

type inflight struct {
	done chan struct{}
	data []byte
	err  error
}

type CacheService struct {
	appContext.DefaultService

	store      CacheStore
	monitoring *MonitoringService

	mu       sync.Mutex
	inflight map[string]*inflight
}

const CACHE_SVC = "cache_svc"

func (svc CacheService) Id() string {
	return CACHE_SVC
}

func (svc *CacheService) Configure(ctx *appContext.Context) error {
	svc.inflight = make(map[string]*inflight)
	return svc.DefaultService.Configure(ctx)
}

func (svc *CacheService) Start() error {
	redisSvc := svc.Service(REDIS_SVC).(*RedisService)
	svc.store = &redisStore{redis: redisSvc}
	svc.monitoring = svc.Service(MONITORING_SVC).(*MonitoringService)
	return nil
}

// NewCacheWithStore builds a cache around an explicit store. Used by tests
// to substitute the backend deterministically.
func NewCacheWithStore(store CacheStore) *CacheService {
	return &CacheService{
		store:    store,
		inflight: make(map[string]*inflight),
	}
}

// Key builds a cache key from an entity family and its scoping
// parameters. Scope is the isolation boundary: entries for different
// scopes never collide and are invalidated independently.
func Key(family, scope string, parts ...string) string {
	key := family + ":" + scope
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// GetOrFetch resolves dest from cache, falling back to fetch. Behavior:
//   - empty scope disables the fetch entirely (ErrNoScope)
//   - a fresh entry is returned as-is
//   - a stale entry is served immediately while a background refresh runs
//   - a missing entry triggers a synchronous fetch with bounded retry;
//     client-class errors (4xx) are never retried
//   - concurrent fetches for the same key are deduplicated
func (svc *CacheService) GetOrFetch(ctx context.Context, family, scope string, tier CacheTier, dest interface{}, fetch func(ctx context.Context) (interface{}, error)) error {
	if scope == "" {
		return ErrNoScope
	}
	key := Key(family, scope)

	raw, err := svc.store.Get(ctx, key)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("Cache read failed, fetching directly")
	}

	if raw != nil {
		var entry cacheEntry
		if err := json.Unmarshal(raw, &entry); err == nil {
			age := time.Since(entry.FetchedAt)
			if age <= time.Duration(tier) {
				svc.recordHit(family)
				return json.Unmarshal(entry.Payload, dest)
			}

			// Stale-while-revalidate: serve what we have, refresh out of
			// band unless a refresh for this key is already running.
			svc.recordRevalidation(family)
			svc.refreshAsync(key, tier, fetch)
			return json.Unmarshal(entry.Payload, dest)
		}
	}

	svc.recordMiss(family)
	data, err := svc.fetchShared(ctx, key, tier, fetch)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (svc *CacheService) recordHit(family string) {
	if svc.monitoring != nil {
		svc.monitoring.RecordCacheHit(family)
	}
}

func (svc *CacheService) recordMiss(family string) {
	if svc.monitoring != nil {
		svc.monitoring.RecordCacheMiss(family)
	}
}

func (svc *CacheService) recordRevalidation(family string) {
	if svc.monitoring != nil {
		svc.monitoring.RecordCacheRevalidation(family)
	}
}

// fetchShared makes sure only one fetch per key is in flight; latecomers
// wait on the winner's result.
func (svc *CacheService) fetchShared(ctx context.Context, key string, tier CacheTier, fetch func(ctx context.Context) (interface{}, error)) ([]byte, error) {
	svc.mu.Lock()
	if fl, ok := svc.inflight[key]; ok {
		svc.mu.Unlock()
		select {
		case <-fl.done:
			return fl.data, fl.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	fl := &inflight{done: make(chan struct{})}
	svc.inflight[key] = fl
	svc.mu.Unlock()

	fl.data, fl.err = svc.fetchAndStore(ctx, key, tier, fetch)

	svc.mu.Lock()
	delete(svc.inflight, key)
	svc.mu.Unlock()
	close(fl.done)

	return fl.data, fl.err
}

func (svc *CacheService) fetchAndStore(ctx context.Context, key string, tier CacheTier, fetch func(ctx context.Context) (interface{}, error)) ([]byte, error) {
	const maxRetries = 2

	var value interface{}
	var err error
	for attempt := 0; ; attempt++ {
		value, err = fetch(ctx)
		if err == nil {
			break
		}
		if shared.IsClientError(err) || attempt >= maxRetries {
			return nil, err
		}
		select {
		case <-time.After(time.Duration(attempt+1) * 200 * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("cache: marshal payload: %w", err)
	}

	entry := cacheEntry{FetchedAt: time.Now(), Payload: payload}
	raw, _ := json.Marshal(entry)

	// Physical TTL doubles the logical one so stale entries survive long
	// enough to be served while revalidating.
	if err := svc.store.Set(ctx, key, raw, 2*time.Duration(tier)); err != nil {
		log.WithError(err).WithField("key", key).Warn("Cache write failed")
	}

	return payload, nil
}

func (svc *CacheService) refreshAsync(key string, tier CacheTier, fetch func(ctx context.Context) (interface{}, error)) {
	svc.mu.Lock()
	if _, ok := svc.inflight[key]; ok {
		svc.mu.Unlock()
		return
	}
	fl := &inflight{done: make(chan struct{})}
	svc.inflight[key] = fl
	svc.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		fl.data, fl.err = svc.fetchAndStore(ctx, key, tier, fetch)
		if fl.err != nil {
			log.WithError(fl.err).WithField("key", key).Warn("Background revalidation failed")
		}

		svc.mu.Lock()
		delete(svc.inflight, key)
		svc.mu.Unlock()
		close(fl.done)
	}()
}

// Invalidate drops every entry in a family for one scope. The next read
// re-fetches. Used after create/update/delete mutations.
func (svc *CacheService) Invalidate(ctx context.Context, family, scope string) error {
	if scope == "" {
		return nil
	}
	if err := svc.store.Delete(ctx, Key(family, scope)); err != nil {
		return err
	}
	return svc.store.DeleteByPattern(ctx, Key(family, scope)+":*")
}

// InvalidateFamilies is the post-mutation fan-out: progress writes touch
// progress, stats and content families at once.
func (svc *CacheService) InvalidateFamilies(ctx context.Context, scope string, families ...string) {
	for _, family := range families {
		if err := svc.Invalidate(ctx, family, scope); err != nil {
			log.WithError(err).WithField("family", family).Warn("Cache invalidation failed")
		}
	}
}

// Patch rewrites a cached entry in place with a locally computed value.
// Used for notification read-marks, where the new state is known without
// a round trip.
func (svc *CacheService) Patch(ctx context.Context, family, scope string, value interface{}, tier CacheTier) error {
	if scope == "" {
		return ErrNoScope
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal payload: %w", err)
	}
	entry := cacheEntry{FetchedAt: time.Now(), Payload: payload}
	raw, _ := json.Marshal(entry)

	return svc.store.Set(ctx, Key(family, scope), raw, 2*time.Duration(tier))
}

// redisStore adapts RedisService to the CacheStore interface.
type redisStore struct {
	redis *RedisService
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.redis.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if val == "" {
		return nil, nil
	}
	return []byte(val), nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.redis.Set(ctx, key, value, ttl)
}

func (s *redisStore) Delete(ctx context.Context, keys ...string) error {
	return s.redis.Delete(ctx, keys...)
}

func (s *redisStore) DeleteByPattern(ctx context.Context, pattern string) error {
	return s.redis.DeleteByPattern(ctx, pattern)
}
