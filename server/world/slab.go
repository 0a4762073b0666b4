package world

import "log/slog"

// Key identifies one row in a Slab by its slot index and the generation
// that slot held when the row was inserted. A Key whose
// generation no longer matches the slot's current generation is stale: the
// slot has since been removed and possibly reused.
type Key struct {
	index      uint32
	generation uint32
}

// Zero reports whether k is the unset Key value.
func (k Key) Zero() bool { return k.generation == 0 }

// Index returns the slot index k addresses, used by collaborators (such as
// network entity-id assignment) that need a stable small integer derived
// from a Key.
func (k Key) Index() uint32 { return k.index }

type slot[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// Slab is a versioned arena of T, the backing store for every ECS-style row
// type in the world (Client, Entity, Chunk, ChunkLayer, Inventory,
// PlayerList, BossBar). Slab is not itself safe for concurrent mutation;
// the tick engine's phase/access-set discipline is what makes concurrent
// iteration safe.
type Slab[T any] struct {
	log *slog.Logger

	slots []slot[T]
	free  []uint32
}

// NewSlab returns an empty Slab. log may be nil; a nil logger silently
// drops the generation-wraparound warning.
func NewSlab[T any](log *slog.Logger) *Slab[T] {
	return &Slab[T]{log: log}
}

// Insert stores value in a free slot (or grows the slab) and returns its Key.
func (s *Slab[T]) Insert(value T) (Key, *T) {
	return s.InsertWith(func(Key) T { return value })
}

// InsertWith calls f with the Key the row is about to receive, so the value
// itself can record its own Key.
func (s *Slab[T]) InsertWith(f func(Key) T) (Key, *T) {
	var index uint32
	if n := len(s.free); n > 0 {
		index = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		index = uint32(len(s.slots))
		s.slots = append(s.slots, slot[T]{generation: 1})
	}
	sl := &s.slots[index]
	if sl.generation == 0 {
		sl.generation = 1
	}
	key := Key{index: index, generation: sl.generation}
	sl.value = f(key)
	sl.occupied = true
	return key, &sl.value
}

// Get returns a pointer to the row at key, or nil if key is stale or its
// slot was removed.
func (s *Slab[T]) Get(key Key) (*T, bool) {
	if int(key.index) >= len(s.slots) {
		return nil, false
	}
	sl := &s.slots[key.index]
	if !sl.occupied || sl.generation != key.generation {
		return nil, false
	}
	return &sl.value, true
}

// Remove deletes the row at key and returns its value, bumping the slot's
// generation so stale keys miss on future lookups. Generation counters wrap
// to 1 on overflow, logging a warning since a wrapped generation
// can in principle alias a very long-lived stale Key.
func (s *Slab[T]) Remove(key Key) (T, bool) {
	var zero T
	if int(key.index) >= len(s.slots) {
		return zero, false
	}
	sl := &s.slots[key.index]
	if !sl.occupied || sl.generation != key.generation {
		return zero, false
	}
	value := sl.value
	sl.value = zero
	sl.occupied = false
	sl.generation++
	if sl.generation == 0 {
		sl.generation = 1
		if s.log != nil {
			s.log.Warn("slab generation counter wrapped", "index", key.index)
		}
	}
	s.free = append(s.free, key.index)
	return value, true
}

// Retain keeps only the rows for which keep returns true, removing the
// rest. Iteration order is stable with respect to non-removed keys.
func (s *Slab[T]) Retain(keep func(Key, *T) bool) {
	for i := range s.slots {
		sl := &s.slots[i]
		if !sl.occupied {
			continue
		}
		key := Key{index: uint32(i), generation: sl.generation}
		if !keep(key, &sl.value) {
			s.Remove(key)
		}
	}
}

// Len returns the number of occupied rows.
func (s *Slab[T]) Len() int {
	n := 0
	for i := range s.slots {
		if s.slots[i].occupied {
			n++
		}
	}
	return n
}

// Each calls f for every occupied row, in slot order (an unspecified but
// deterministic order).
func (s *Slab[T]) Each(f func(Key, *T)) {
	for i := range s.slots {
		sl := &s.slots[i]
		if sl.occupied {
			f(Key{index: uint32(i), generation: sl.generation}, &sl.value)
		}
	}
}

// Keys returns every occupied row's key, in slot order, as a fresh slice
// that later inserts and removals do not change.
func (s *Slab[T]) Keys() []Key {
	keys := make([]Key, 0, len(s.slots))
	for i := range s.slots {
		if s.slots[i].occupied {
			keys = append(keys, Key{index: uint32(i), generation: s.slots[i].generation})
		}
	}
	return keys
}
