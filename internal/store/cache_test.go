package store

import (
	"sync"
	"testing"
)

func TestPutGet(t *testing.T) {
	c := NewCache[string]()

	if _, ok := c.Get(1); ok {
		t.Fatal("Get on empty cache reported a value")
	}

	c.Put(1, "first")
	if v, ok := c.Get(1); !ok || v != "first" {
		t.Fatalf("Get(1) = %q, %v", v, ok)
	}

	c.Put(1, "second")
	if v, _ := c.Get(1); v != "second" {
		t.Fatalf("Get(1) after overwrite = %q, want %q", v, "second")
	}
}

func TestUpdateMergesExistingValue(t *testing.T) {
	type series struct{ a, b string }

	c := NewCache[series]()
	c.Update(1, func(cur series, ok bool) series {
		if ok {
			t.Error("first Update saw an existing value")
		}
		cur.a = "a1"
		return cur
	})
	c.Update(1, func(cur series, ok bool) series {
		if !ok {
			t.Error("second Update did not see the existing value")
		}
		cur.b = "b1"
		return cur
	})

	v, _ := c.Get(1)
	if v.a != "a1" || v.b != "b1" {
		t.Errorf("merged value = %+v", v)
	}
}

func TestCount(t *testing.T) {
	c := NewCache[int]()
	c.Put(1, 10)
	c.Put(2, 0)
	c.Put(3, 7)

	if got := c.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if got := c.Count(func(v int) bool { return v > 0 }); got != 2 {
		t.Errorf("Count(>0) = %d, want 2", got)
	}
}

func TestConcurrentWriters(t *testing.T) {
	c := NewCache[int]()

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Put(i%8, i)
			c.Get(i % 8)
		}()
	}
	wg.Wait()

	if got := c.Len(); got != 8 {
		t.Errorf("Len() = %d, want 8", got)
	}
}
