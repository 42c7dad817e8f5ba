package cache

import "testing"

func TestPutThenGetRoundTrips(t *testing.T) {
	c := New(0)
	key := Key("hello", 0)
	c.Put(key, "hello", "world")

	got, ok := c.Get(key)
	if !ok || got != "world" {
		t.Fatalf("expected cache hit with value %q, got %q ok=%v", "world", got, ok)
	}
}

func TestPutSkipsOversizedCombinedEntry(t *testing.T) {
	c := New(0)
	big := make([]byte, MaxStorableBytes+1)
	key := Key("big", 0)
	c.Put(key, string(big), "x")

	if _, ok := c.Get(key); ok {
		t.Fatalf("expected oversized entry not stored")
	}
}

func TestDifferentGenerationsProduceDifferentKeys(t *testing.T) {
	if Key("same input", 0) == Key("same input", 1) {
		t.Fatalf("expected settings generation to change the cache key")
	}
}

func TestClearEmptiesCache(t *testing.T) {
	c := New(0)
	key := Key("hello", 0)
	c.Put(key, "hello", "world")
	c.Clear()

	if _, ok := c.Get(key); ok {
		t.Fatalf("expected cache empty after Clear")
	}
	if c.Len() != 0 || c.Bytes() != 0 {
		t.Fatalf("expected zeroed counters after Clear, got len=%d bytes=%d", c.Len(), c.Bytes())
	}
}

func TestEvictsOldestWhenOverByteCeiling(t *testing.T) {
	c := New(10)
	c.Put(Key("a", 0), "aa", "aa")
	c.Put(Key("b", 0), "bb", "bb")
	c.Put(Key("c", 0), "ccccc", "ccccc")

	if c.Bytes() > 10 {
		t.Fatalf("expected byte ceiling enforced, got %d bytes", c.Bytes())
	}
}
