package cache

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestMemory(t *testing.T, size int) (*Memory, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	m, err := NewMemory(size, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	return m, clock
}

func TestMemory_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory(t, 10)

	if _, ok, _ := m.Get(ctx, "a"); ok {
		t.Fatal("expected miss on empty cache")
	}

	if err := m.Set(ctx, "a", []byte("1"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	got, ok, err := m.Get(ctx, "a")
	if err != nil || !ok || string(got) != "1" {
		t.Fatalf("Get() = %q, %v, %v; want 1, true, nil", got, ok, err)
	}

	if err := m.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok, _ := m.Get(ctx, "a"); ok {
		t.Error("expected miss after Delete")
	}
	if err := m.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete(missing) error = %v", err)
	}
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestMemory(t, 10)

	_ = m.Set(ctx, "short", []byte("x"), time.Hour)
	_ = m.Set(ctx, "forever", []byte("y"), 0)

	clock.Advance(59 * time.Minute)
	if _, ok, _ := m.Get(ctx, "short"); !ok {
		t.Error("entry expired early")
	}

	clock.Advance(time.Minute)
	if _, ok, _ := m.Get(ctx, "short"); ok {
		t.Error("entry should have expired at its TTL")
	}
	if _, ok, _ := m.Get(ctx, "forever"); !ok {
		t.Error("entry without TTL expired")
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after expired read", m.Len())
	}
}

func TestMemory_Eviction(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory(t, 2)

	_ = m.Set(ctx, "a", []byte("1"), 0)
	_ = m.Set(ctx, "b", []byte("2"), 0)
	_, _, _ = m.Get(ctx, "a")
	_ = m.Set(ctx, "c", []byte("3"), 0)

	if _, ok, _ := m.Get(ctx, "b"); ok {
		t.Error("least recently used entry was not evicted")
	}
	if _, ok, _ := m.Get(ctx, "a"); !ok {
		t.Error("recently used entry was evicted")
	}
}

func TestMemory_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory(t, 10)

	value := []byte("abc")
	_ = m.Set(ctx, "k", value, 0)
	value[0] = 'z'

	got, _, _ := m.Get(ctx, "k")
	got[1] = 'z'

	again, _, _ := m.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored value mutated: %q", again)
	}
}

func TestMemory_PrefixOperations(t *testing.T) {
	ctx := context.Background()
	m, clock := newTestMemory(t, 10)

	_ = m.Set(ctx, "chunks_1_semantic_512_128", []byte("x"), 0)
	_ = m.Set(ctx, "chunks_1_fixed_512_128", []byte("x"), 0)
	_ = m.Set(ctx, "chunks_2_fixed_512_128", []byte("x"), 0)
	_ = m.Set(ctx, "markdown_1_111", []byte("x"), time.Second)

	keys, err := m.Keys(ctx, "chunks_1_")
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	sort.Strings(keys)
	if len(keys) != 2 || keys[0] != "chunks_1_fixed_512_128" {
		t.Errorf("Keys() = %v", keys)
	}

	clock.Advance(2 * time.Second)
	all, _ := m.Keys(ctx, "")
	if len(all) != 3 {
		t.Errorf("Keys(\"\") = %v, want 3 live keys", all)
	}

	n, err := m.DeletePrefix(ctx, "chunks_1_")
	if err != nil || n != 2 {
		t.Errorf("DeletePrefix() = %d, %v; want 2, nil", n, err)
	}
	if _, ok, _ := m.Get(ctx, "chunks_2_fixed_512_128"); !ok {
		t.Error("DeletePrefix removed a key outside the prefix")
	}

	n, _ = m.DeletePrefix(ctx, "")
	if n != 2 || m.Len() != 0 {
		t.Errorf("DeletePrefix(\"\") = %d, Len() = %d; want 2, 0", n, m.Len())
	}
}

func TestMemory_Concurrent(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory(t, 100)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = m.Set(ctx, "shared", []byte{byte(i)}, time.Minute)
				_, _, _ = m.Get(ctx, "shared")
			}
		}(i)
	}
	wg.Wait()

	if _, ok, _ := m.Get(ctx, "shared"); !ok {
		t.Error("expected shared key to be present")
	}
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	var c Cache = NewNoop()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok, err := c.Get(ctx, "k"); ok || err != nil {
		t.Errorf("Get() = %v, %v; want miss", ok, err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}
