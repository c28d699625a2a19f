// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package cache

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
)

func TestKeyOf(t *testing.T) {
	if KeyOf("ab", "c") == KeyOf("a", "bc") {
		t.Error("KeyOf must length-prefix parts")
	}
	if KeyOf("src", "msl") != KeyOf("src", "msl") {
		t.Error("KeyOf is not deterministic")
	}
	if KeyOf("src") == KeyOf("src", "") {
		t.Error("an extra empty part must change the key")
	}
}

func TestCacheGetMiss(t *testing.T) {
	c := New[int](10)

	if _, ok := c.Get(KeyOf("missing")); ok {
		t.Error("Get on empty cache returned ok")
	}
	if s := c.Stats(); s.Misses != 1 || s.Hits != 0 {
		t.Errorf("Stats = %+v, want 1 miss", s)
	}
}

func TestCacheGetOrCompile(t *testing.T) {
	c := New[string](10)
	key := KeyOf("shader")

	calls := 0
	compile := func() (string, error) {
		calls++
		return "compiled", nil
	}

	for range 3 {
		v, err := c.GetOrCompile(key, compile)
		if err != nil {
			t.Fatalf("GetOrCompile: %v", err)
		}
		if v != "compiled" {
			t.Errorf("value = %q, want compiled", v)
		}
	}
	if calls != 1 {
		t.Errorf("compile called %d times, want 1", calls)
	}
	if s := c.Stats(); s.Hits != 2 || s.Misses != 1 || s.Len != 1 {
		t.Errorf("Stats = %+v", s)
	}
}

func TestCacheGetOrCompileErrorNotCached(t *testing.T) {
	c := New[string](10)
	key := KeyOf("bad")
	errBoom := errors.New("boom")

	if _, err := c.GetOrCompile(key, func() (string, error) { return "", errBoom }); !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len = %d after failed compile, want 0", c.Len())
	}

	v, err := c.GetOrCompile(key, func() (string, error) { return "ok", nil })
	if err != nil || v != "ok" {
		t.Errorf("retry = (%q, %v), want (ok, nil)", v, err)
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New[int](10)
	k := KeyOf("a")
	_, _ = c.GetOrCompile(k, func() (int, error) { return 1, nil })

	if !c.Delete(k) {
		t.Error("Delete existing = false")
	}
	if c.Delete(k) {
		t.Error("Delete missing = true")
	}

	_, _ = c.GetOrCompile(k, func() (int, error) { return 1, nil })
	c.Clear()
	if s := c.Stats(); s.Len != 0 || s.Hits != 0 || s.Misses != 0 {
		t.Errorf("Stats after Clear = %+v", s)
	}
}

func TestCacheEviction(t *testing.T) {
	c := New[int](8)

	for i := range 8 {
		_, _ = c.GetOrCompile(KeyOf(fmt.Sprint(i)), func() (int, error) { return i, nil })
	}
	// Touch key 0 so it survives eviction.
	if _, ok := c.Get(KeyOf("0")); !ok {
		t.Fatal("key 0 missing before eviction")
	}
	_, _ = c.GetOrCompile(KeyOf("8"), func() (int, error) { return 8, nil })

	if c.Len() > 8 {
		t.Errorf("Len = %d, want <= 8", c.Len())
	}
	if _, ok := c.Get(KeyOf("0")); !ok {
		t.Error("recently used key 0 was evicted")
	}
	if _, ok := c.Get(KeyOf("1")); ok {
		t.Error("least recently used key 1 survived eviction")
	}
}

func TestCacheConcurrentCompileOnce(t *testing.T) {
	c := New[int](0)
	key := KeyOf("shared")
	var calls atomic.Int32

	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := c.GetOrCompile(key, func() (int, error) {
				calls.Add(1)
				return 42, nil
			})
			if err != nil || v != 42 {
				t.Errorf("GetOrCompile = (%d, %v)", v, err)
			}
		}()
	}
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("compile ran %d times, want 1", calls.Load())
	}
}
