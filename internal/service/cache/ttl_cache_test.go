package cache

import (
	"testing"
	"time"
)

func TestTTLCacheRoundTrip(t *testing.T) {
	c := NewTTLCache()
	if err := c.SetBytes("k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("SetBytes: %v", err)
	}

	b, ok, err := c.GetBytes("k")
	if err != nil || !ok {
		t.Fatalf("GetBytes: ok=%v err=%v", ok, err)
	}
	if string(b) != "v" {
		t.Fatalf("got %q, want %q", b, "v")
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache()
	c.Set("k", []byte("v"), time.Nanosecond)
	time.Sleep(time.Millisecond)

	if _, ok, _ := c.GetBytes("k"); ok {
		t.Fatal("expected expired entry")
	}
}

func TestTTLCacheMiss(t *testing.T) {
	c := NewTTLCache()
	if _, ok, _ := c.GetBytes("absent"); ok {
		t.Fatal("expected miss")
	}
}
