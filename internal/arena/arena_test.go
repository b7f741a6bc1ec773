package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	id   Index
	name string
}

func TestInsertAndGet(t *testing.T) {
	a := New[item]()
	i := a.Insert(&item{name: "a"})
	j := a.Insert(&item{name: "b"})

	assert.NotEqual(t, i, j)
	assert.Equal(t, 2, a.Len())

	v, ok := a.Get(i)
	require.True(t, ok)
	assert.Equal(t, "a", v.name)

	v, ok = a.Get(j)
	require.True(t, ok)
	assert.Equal(t, "b", v.name)
}

func TestInsertWithRecordsOwnHandle(t *testing.T) {
	a := New[item]()
	idx := a.InsertWith(func(i Index) *item {
		return &item{id: i, name: "self"}
	})

	v, ok := a.Get(idx)
	require.True(t, ok)
	assert.Equal(t, idx, v.id)
}

func TestZeroAndDummyNeverResolve(t *testing.T) {
	a := New[item]()
	a.Insert(&item{})

	_, ok := a.Get(Index{})
	assert.False(t, ok)
	_, ok = a.Get(Dummy())
	assert.False(t, ok)

	assert.True(t, Index{}.IsNone())
	assert.True(t, Dummy().IsDummy())
	assert.False(t, Dummy().IsNone())
}

func TestRemovedHandleIsNeverReused(t *testing.T) {
	a := New[item]()
	old := a.Insert(&item{name: "old"})

	removed, ok := a.Remove(old)
	require.True(t, ok)
	assert.Equal(t, "old", removed.name)
	assert.Equal(t, 0, a.Len())

	_, ok = a.Remove(old)
	assert.False(t, ok, "double remove must miss")

	fresh := a.Insert(&item{name: "fresh"})
	assert.Equal(t, old.Slot(), fresh.Slot(), "slot should be recycled")
	assert.NotEqual(t, old, fresh, "generation must differ")

	_, ok = a.Get(old)
	assert.False(t, ok, "stale handle must not resolve to the new value")

	v, ok := a.Get(fresh)
	require.True(t, ok)
	assert.Equal(t, "fresh", v.name)
}

func TestAllSkipsRemoved(t *testing.T) {
	a := New[item]()
	x := a.Insert(&item{name: "x"})
	y := a.Insert(&item{name: "y"})
	z := a.Insert(&item{name: "z"})
	a.Remove(y)

	var seen []Index
	var names []string
	for idx, v := range a.All() {
		seen = append(seen, idx)
		names = append(names, v.name)
	}
	assert.Equal(t, []Index{x, z}, seen)
	assert.Equal(t, []string{"x", "z"}, names)
}

func TestAllStopsEarly(t *testing.T) {
	a := New[item]()
	for range 5 {
		a.Insert(&item{})
	}

	count := 0
	for range a.All() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestInt64RoundTrip(t *testing.T) {
	a := New[item]()
	i := a.Insert(&item{})
	a.Remove(i)
	j := a.Insert(&item{})

	for _, idx := range []Index{i, j, Dummy()} {
		assert.Equal(t, idx, FromInt64(idx.Int64()))
	}
}

func TestString(t *testing.T) {
	a := New[item]()
	i := a.Insert(&item{})
	assert.Equal(t, "0", i.String())

	a.Remove(i)
	j := a.Insert(&item{})
	assert.Equal(t, "0.2", j.String())

	assert.Equal(t, "none", Index{}.String())
	assert.Equal(t, "dummy", Dummy().String())
}
