// Copyright 2026 Gustavo C. Viegas. All rights reserved.

package lru

import "testing"

func TestPutGet(t *testing.T) {
	c := New[string, int](4)
	if _, ok := c.Get("a"); ok {
		t.Fatal("Get on empty cache: unexpected success")
	}
	c.Put("a", 1)
	c.Put("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("Get(a)\nhave %d, %t\nwant 1, true", v, ok)
	}
	c.Put("a", 10)
	if v, _ := c.Get("a"); v != 10 {
		t.Fatalf("Get(a) after overwrite\nhave %d\nwant 10", v)
	}
	if c.Len() != 2 {
		t.Fatalf("Len\nhave %d\nwant 2", c.Len())
	}
}

func TestEviction(t *testing.T) {
	c := New[int, int](2)
	c.Put(1, 1)
	c.Put(2, 2)
	// Touch 1 so that 2 is the eviction candidate.
	c.Get(1)
	c.Put(3, 3)
	if _, ok := c.Get(2); ok {
		t.Fatal("Get(2): expected eviction")
	}
	if _, ok := c.Get(1); !ok {
		t.Fatal("Get(1): unexpected eviction")
	}
	if _, ok := c.Get(3); !ok {
		t.Fatal("Get(3): missing")
	}
}

func TestRemove(t *testing.T) {
	c := New[int, string](2)
	c.Put(1, "x")
	c.Remove(1)
	if _, ok := c.Get(1); ok {
		t.Fatal("Get after Remove: unexpected success")
	}
	// Removing a missing key is a no-op.
	c.Remove(42)
	if c.Len() != 0 {
		t.Fatalf("Len\nhave %d\nwant 0", c.Len())
	}
}
