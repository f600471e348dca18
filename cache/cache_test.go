package cache

import (
	"errors"
	"testing"

	"github.com/matryer/is"
)

func TestGetPut(t *testing.T) {
	is := is.New(t)
	c := New[string](2)
	_, ok := c.Get(1)
	is.True(!ok)
	c.Put(1, "one")
	c.Put(2, "two")
	v, ok := c.Get(1)
	is.True(ok)
	is.Equal(v, "one")

	c.Put(3, "three")
	is.Equal(c.Len(), 2)
	v, ok = c.Get(3)
	is.True(ok)
	is.Equal(v, "three")

	lookups, hits := c.Stats()
	is.Equal(lookups, uint64(3))
	is.Equal(hits, uint64(2))

	c.Reset()
	is.Equal(c.Len(), 0)
}

func TestGetOrLoad(t *testing.T) {
	is := is.New(t)
	c := New[int](10)
	calls := 0
	load := func(key uint64) (int, error) {
		calls++
		return int(key) * 2, nil
	}
	v, err := c.GetOrLoad(21, load)
	is.NoErr(err)
	is.Equal(v, 42)
	v, err = c.GetOrLoad(21, load)
	is.NoErr(err)
	is.Equal(v, 42)
	is.Equal(calls, 1)

	boom := errors.New("boom")
	_, err = c.GetOrLoad(5, func(uint64) (int, error) { return 0, boom })
	is.True(errors.Is(err, boom))
	is.Equal(c.Len(), 1)
}

func TestNewFromMemory(t *testing.T) {
	is := is.New(t)
	c := NewFromMemory[int](0, 64)
	is.Equal(c.MaxEntries(), minEntries)
}
