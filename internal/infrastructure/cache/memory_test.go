package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/CarlyGallagher/christmas-planner/internal/domain"
)

// fakeClock lets tests move time forward without sleeping
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(clock *fakeClock) *MemoryCache[int, []domain.Holiday] {
	c := NewMemoryCache[int, []domain.Holiday]()
	c.now = clock.Now
	return c
}

func TestMemoryCache_SetAndGet(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)}
	cache := newTestCache(clock)
	ctx := context.Background()

	christmas := []domain.Holiday{{
		Name:  "Christmas Day",
		Date:  time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC),
		Color: "#ef4444",
	}}

	tests := []struct {
		name     string
		key      int
		ttl      time.Duration
		advance  time.Duration
		wantMiss bool
	}{
		{
			name:    "never expires with zero ttl",
			key:     2025,
			ttl:     0,
			advance: 24 * 365 * time.Hour,
		},
		{
			name:    "fresh within ttl",
			key:     2026,
			ttl:     time.Hour,
			advance: 30 * time.Minute,
		},
		{
			name:     "expired after ttl",
			key:      2027,
			ttl:      time.Minute,
			advance:  2 * time.Minute,
			wantMiss: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cache.Set(ctx, tt.key, christmas, tt.ttl); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			clock.Advance(tt.advance)

			got, err := cache.Get(ctx, tt.key)
			if tt.wantMiss {
				if err != domain.ErrCacheMiss {
					t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if len(got) != 1 || got[0].Name != "Christmas Day" {
				t.Errorf("Get() = %v, want the stored holidays", got)
			}
		})
	}
}

func TestMemoryCache_Get_CacheMiss(t *testing.T) {
	cache := NewMemoryCache[int, []domain.Holiday]()
	ctx := context.Background()

	got, err := cache.Get(ctx, 1999)
	if err != domain.ErrCacheMiss {
		t.Errorf("Get() error = %v, want %v", err, domain.ErrCacheMiss)
	}
	if got != nil {
		t.Errorf("Get() = %v, want nil on miss", got)
	}
}

func TestMemoryCache_Delete(t *testing.T) {
	cache := NewMemoryCache[string, string]()
	ctx := context.Background()

	key := "delete-test"
	if err := cache.Set(ctx, key, "value", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if _, err := cache.Get(ctx, key); err != nil {
		t.Fatalf("Get() before delete error = %v", err)
	}

	if err := cache.Delete(ctx, key); err != nil {
		t.Errorf("Delete() error = %v", err)
	}

	if _, err := cache.Get(ctx, key); err != domain.ErrCacheMiss {
		t.Errorf("Get() after delete error = %v, want %v", err, domain.ErrCacheMiss)
	}
}

func TestMemoryCache_Exists(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cache := NewMemoryCache[string, string]()
	cache.now = clock.Now
	ctx := context.Background()

	exists, err := cache.Exists(ctx, "exists-test")
	if err != nil {
		t.Errorf("Exists() error = %v", err)
	}
	if exists {
		t.Errorf("Exists() = true, want false for non-existent key")
	}

	if err := cache.Set(ctx, "exists-test", "value", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	exists, _ = cache.Exists(ctx, "exists-test")
	if !exists {
		t.Errorf("Exists() = false, want true after setting value")
	}

	clock.Advance(2 * time.Minute)
	exists, _ = cache.Exists(ctx, "exists-test")
	if exists {
		t.Errorf("Exists() = true, want false after expiration")
	}
}

func TestMemoryCache_Prune(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	cache := NewMemoryCache[string, int]()
	cache.now = clock.Now
	ctx := context.Background()

	_ = cache.Set(ctx, "short", 1, time.Second)
	_ = cache.Set(ctx, "long", 2, time.Hour)
	_ = cache.Set(ctx, "forever", 3, 0)

	clock.Advance(time.Minute)

	if removed := cache.Prune(); removed != 1 {
		t.Errorf("Prune() = %d, want 1", removed)
	}
	if size := cache.Size(); size != 2 {
		t.Errorf("Size() = %d, want 2 after prune", size)
	}
}

func TestMemoryCache_Clear(t *testing.T) {
	cache := NewMemoryCache[string, int]()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		key := string(rune('a' + i))
		if err := cache.Set(ctx, key, i, time.Minute); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	if size := cache.Size(); size != 5 {
		t.Fatalf("Size() = %d, want 5 before clear", size)
	}

	cache.Clear()

	if size := cache.Size(); size != 0 {
		t.Errorf("Size() = %d, want 0 after clear", size)
	}
	for i := 0; i < 5; i++ {
		key := string(rune('a' + i))
		if _, err := cache.Get(ctx, key); err != domain.ErrCacheMiss {
			t.Errorf("Get(%s) after clear error = %v, want %v", key, err, domain.ErrCacheMiss)
		}
	}
}

func TestMemoryCache_Concurrent(t *testing.T) {
	cache := NewMemoryCache[int, int]()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if err := cache.Set(ctx, id, id, time.Minute); err != nil {
				t.Errorf("Concurrent Set() error = %v", err)
			}
			if _, err := cache.Get(ctx, id); err != nil {
				t.Errorf("Concurrent Get() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if size := cache.Size(); size != 10 {
		t.Errorf("Size() = %d, want 10", size)
	}
}
