package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lumina-edu/lumina_api/shared"
)

// memoryStore is a deterministic CacheStore backend for tests.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string][]byte)}
}

func (s *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[key], nil
}

func (s *memoryStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

func (s *memoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	return nil
}

func (s *memoryStore) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
		}
	}
	return nil
}

func (s *memoryStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}

// seedEntry writes a cache entry with a controlled fetch time, bypassing
// the service, to simulate aged entries.
func (s *memoryStore) seedEntry(t *testing.T, key string, value interface{}, fetchedAt time.Time) {
	t.Helper()
	payload, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("marshal seed payload: %v", err)
	}
	raw, err := json.Marshal(cacheEntry{FetchedAt: fetchedAt, Payload: payload})
	if err != nil {
		t.Fatalf("marshal seed entry: %v", err)
	}
	s.mu.Lock()
	s.entries[key] = raw
	s.mu.Unlock()
}

func TestKey(t *testing.T) {
	if got := Key("content", "5:user-1"); got != "content:5:user-1" {
		t.Fatalf("unexpected key: %q", got)
	}
	if got := Key("progress", "user-1", "lesson-2"); got != "progress:user-1:lesson-2" {
		t.Fatalf("unexpected key: %q", got)
	}
}

func TestGetOrFetchMissingScope(t *testing.T) {
	svc := NewCacheWithStore(newMemoryStore())

	var calls int32
	var out string
	err := svc.GetOrFetch(context.Background(), "content", "", TierShort, &out, func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return "value", nil
	})

	if !errors.Is(err, ErrNoScope) {
		t.Fatalf("expected ErrNoScope, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("fetch must not run without a scope, ran %d times", calls)
	}
}

func TestGetOrFetchCachesFreshValue(t *testing.T) {
	svc := NewCacheWithStore(newMemoryStore())

	var calls int32
	fetch := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return map[string]int{"points": 120}, nil
	}

	var first, second map[string]int
	if err := svc.GetOrFetch(context.Background(), "stats", "user-1", TierMedium, &first, fetch); err != nil {
		t.Fatalf("first read: %v", err)
	}
	if err := svc.GetOrFetch(context.Background(), "stats", "user-1", TierMedium, &second, fetch); err != nil {
		t.Fatalf("second read: %v", err)
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected a single fetch, got %d", got)
	}
	if second["points"] != 120 {
		t.Fatalf("expected cached payload, got %v", second)
	}
}

func TestGetOrFetchServesStaleAndRevalidates(t *testing.T) {
	store := newMemoryStore()
	svc := NewCacheWithStore(store)

	key := Key("stats", "user-1")
	store.seedEntry(t, key, "stale-value", time.Now().Add(-5*time.Minute))

	var calls int32
	var out string
	err := svc.GetOrFetch(context.Background(), "stats", "user-1", TierShort, &out, func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return "fresh-value", nil
	})
	if err != nil {
		t.Fatalf("stale read: %v", err)
	}
	if out != "stale-value" {
		t.Fatalf("expected the stale payload to be served immediately, got %q", out)
	}

	// The refresh runs out of band; wait for it to land.
	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&calls) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("background revalidation never ran")
		}
		time.Sleep(10 * time.Millisecond)
	}

	for time.Now().Before(deadline) {
		var refreshed string
		if err := svc.GetOrFetch(context.Background(), "stats", "user-1", TierShort, &refreshed, func(context.Context) (interface{}, error) {
			return nil, errors.New("must not fetch again")
		}); err == nil && refreshed == "fresh-value" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("revalidated payload never became visible")
}

func TestGetOrFetchDoesNotRetryClientErrors(t *testing.T) {
	svc := NewCacheWithStore(newMemoryStore())

	var calls int32
	var out string
	err := svc.GetOrFetch(context.Background(), "content", "user-1", TierShort, &out, func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return nil, shared.NewNotFoundError("Lesson not found")
	})

	if err == nil {
		t.Fatal("expected the fetch error to propagate")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("client errors must not be retried, fetch ran %d times", got)
	}
}

func TestGetOrFetchRetriesServerErrors(t *testing.T) {
	svc := NewCacheWithStore(newMemoryStore())

	var calls int32
	var out string
	err := svc.GetOrFetch(context.Background(), "content", "user-1", TierShort, &out, func(context.Context) (interface{}, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return nil, errors.New("connection reset")
		}
		return "recovered", nil
	})

	if err != nil {
		t.Fatalf("expected retries to recover, got %v", err)
	}
	if out != "recovered" {
		t.Fatalf("unexpected payload %q", out)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestGetOrFetchDeduplicatesConcurrentFetches(t *testing.T) {
	svc := NewCacheWithStore(newMemoryStore())

	var calls int32
	fetch := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(50 * time.Millisecond)
		return "shared", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var out string
			if err := svc.GetOrFetch(context.Background(), "leaderboard", "grade-5", TierShort, &out, fetch); err != nil {
				t.Errorf("concurrent read: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected concurrent reads to share one fetch, got %d", got)
	}
}

func TestInvalidateIsScopedToFamilyAndScope(t *testing.T) {
	store := newMemoryStore()
	svc := NewCacheWithStore(store)

	now := time.Now()
	store.seedEntry(t, Key("content", "5:user-1"), "a", now)
	store.seedEntry(t, Key("content", "5:user-2"), "b", now)
	store.seedEntry(t, Key("content", "6:user-3"), "c", now)
	store.seedEntry(t, Key("progress", "5:user-1"), "d", now)

	// Grade-wide invalidation: scope prefix "5" wipes every user of the
	// grade but leaves other grades and families alone.
	if err := svc.Invalidate(context.Background(), "content", "5"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	if store.has(Key("content", "5:user-1")) || store.has(Key("content", "5:user-2")) {
		t.Fatal("grade 5 content entries should be gone")
	}
	if !store.has(Key("content", "6:user-3")) {
		t.Fatal("grade 6 content entry should survive")
	}
	if !store.has(Key("progress", "5:user-1")) {
		t.Fatal("other families should survive")
	}
}

func TestInvalidateFamiliesFansOut(t *testing.T) {
	store := newMemoryStore()
	svc := NewCacheWithStore(store)

	now := time.Now()
	store.seedEntry(t, Key("progress", "user-1"), "a", now)
	store.seedEntry(t, Key("stats", "user-1"), "b", now)
	store.seedEntry(t, Key("achievements", "user-1"), "c", now)

	svc.InvalidateFamilies(context.Background(), "user-1", "progress", "stats")

	if store.has(Key("progress", "user-1")) || store.has(Key("stats", "user-1")) {
		t.Fatal("named families should be invalidated")
	}
	if !store.has(Key("achievements", "user-1")) {
		t.Fatal("unnamed families should survive")
	}
}

func TestPatchServesWithoutRefetch(t *testing.T) {
	svc := NewCacheWithStore(newMemoryStore())

	patched := map[string]int{"unread": 0}
	if err := svc.Patch(context.Background(), "notifications", "user-1", patched, TierShort); err != nil {
		t.Fatalf("patch: %v", err)
	}

	var out map[string]int
	err := svc.GetOrFetch(context.Background(), "notifications", "user-1", TierShort, &out, func(context.Context) (interface{}, error) {
		return nil, errors.New("must not fetch after patch")
	})
	if err != nil {
		t.Fatalf("read after patch: %v", err)
	}
	if out["unread"] != 0 {
		t.Fatalf("expected patched payload, got %v", out)
	}
}
