package cache

import (
	"context"
	"testing"
	"time"
)

func TestKey(t *testing.T) {
	got := Key("v2", "prominence", "art-vh")
	want := "v2:prominence:art-vh"
	if got != want {
		t.Errorf("Key = %q, want %q", got, want)
	}
}

func TestMemoryGetSet(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, ok := m.Get(ctx, "missing"); ok {
		t.Error("expected miss for unknown key")
	}

	m.Set(ctx, "k", "v", time.Minute)
	v, ok := m.Get(ctx, "k")
	if !ok || v != "v" {
		t.Errorf("Get = %q, %v; want v, true", v, ok)
	}
}

func TestMemoryExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	current := time.Unix(1000, 0)
	m.now = func() time.Time { return current }

	m.Set(ctx, "k", "v", 30*time.Second)

	current = current.Add(10 * time.Second)
	if _, ok := m.Get(ctx, "k"); !ok {
		t.Error("entry should still be live")
	}

	current = current.Add(60 * time.Second)
	if _, ok := m.Get(ctx, "k"); ok {
		t.Error("entry should have expired")
	}
}

func TestMemoryZeroTTLIgnored(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.Set(ctx, "k", "v", 0)
	if _, ok := m.Get(ctx, "k"); ok {
		t.Error("zero-TTL set should not store")
	}
}

func TestNop(t *testing.T) {
	ctx := context.Background()
	var c Cache = Nop{}
	c.Set(ctx, "k", "v", time.Minute)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("Nop should never hit")
	}
}
