// Package arena provides a generational arena: the single owner of a set of
// values, addressed through copyable Index handles.
package arena

import (
	"fmt"
	"iter"
	"math"
)

// Index is a handle into an Arena. The zero Index never resolves and is used
// to mean "absent".
type Index struct {
	slot       uint32
	generation uint32
}

// Dummy returns a sentinel handle that never resolves in any arena. It is
// used as a placeholder before a real handle has been assigned.
func Dummy() Index {
	return Index{slot: math.MaxUint32, generation: math.MaxUint32}
}

// IsNone reports whether i is the zero (absent) handle.
func (i Index) IsNone() bool {
	return i == Index{}
}

// IsDummy reports whether i is the Dummy sentinel.
func (i Index) IsDummy() bool {
	return i == Dummy()
}

// Slot returns the storage slot the handle points at.
func (i Index) Slot() uint32 {
	return i.slot
}

// Int64 packs the handle into a single integer, suitable for graph node ids.
func (i Index) Int64() int64 {
	return int64(uint64(i.slot)<<32 | uint64(i.generation))
}

// FromInt64 is the inverse of Index.Int64.
func FromInt64(v int64) Index {
	u := uint64(v)
	return Index{slot: uint32(u >> 32), generation: uint32(u)}
}

func (i Index) String() string {
	switch {
	case i.IsNone():
		return "none"
	case i.IsDummy():
		return "dummy"
	case i.generation == 1:
		return fmt.Sprintf("%d", i.slot)
	default:
		return fmt.Sprintf("%d.%d", i.slot, i.generation)
	}
}

type entry[T any] struct {
	value      *T
	generation uint32
}

// Arena owns values of type T. Removed slots are recycled, but every reuse
// bumps the slot's generation so stale handles keep failing to resolve.
type Arena[T any] struct {
	entries []entry[T]
	free    []uint32
	len     int
}

// New creates an empty arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Insert stores v and returns its handle.
func (a *Arena[T]) Insert(v *T) Index {
	return a.InsertWith(func(Index) *T { return v })
}

// InsertWith reserves a slot, passes the resulting handle to fn and stores
// whatever fn returns. It lets a value record its own handle.
func (a *Arena[T]) InsertWith(fn func(Index) *T) Index {
	var idx Index
	if n := len(a.free); n > 0 {
		slot := a.free[n-1]
		a.free = a.free[:n-1]
		e := &a.entries[slot]
		e.generation++
		idx = Index{slot: slot, generation: e.generation}
		e.value = fn(idx)
	} else {
		slot := uint32(len(a.entries))
		idx = Index{slot: slot, generation: 1}
		a.entries = append(a.entries, entry[T]{generation: 1})
		a.entries[slot].value = fn(idx)
	}
	a.len++
	return idx
}

// Get returns the value for i. The boolean is false when the handle is
// absent, stale or out of range.
func (a *Arena[T]) Get(i Index) (*T, bool) {
	if i.IsNone() || int(i.slot) >= len(a.entries) {
		return nil, false
	}
	e := a.entries[i.slot]
	if e.value == nil || e.generation != i.generation {
		return nil, false
	}
	return e.value, true
}

// Contains reports whether i resolves.
func (a *Arena[T]) Contains(i Index) bool {
	_, ok := a.Get(i)
	return ok
}

// Remove deletes the value for i and returns it.
func (a *Arena[T]) Remove(i Index) (*T, bool) {
	v, ok := a.Get(i)
	if !ok {
		return nil, false
	}
	a.entries[i.slot].value = nil
	a.free = append(a.free, i.slot)
	a.len--
	return v, true
}

// Len returns the number of live values.
func (a *Arena[T]) Len() int {
	return a.len
}

// All yields every live value in slot order.
func (a *Arena[T]) All() iter.Seq2[Index, *T] {
	return func(yield func(Index, *T) bool) {
		for slot, e := range a.entries {
			if e.value == nil {
				continue
			}
			if !yield(Index{slot: uint32(slot), generation: e.generation}, e.value) {
				return
			}
		}
	}
}
