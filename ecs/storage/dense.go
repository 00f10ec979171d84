package storage

import (
	"fmt"

	"github.com/jaxmatrix/game-experiments/ecs"
)

type denseStrategy struct{}

// NewDenseStrategy constructs a dense storage strategy: one slot per entity
// index, iterated in index order. Suited to mutable pointer components.
func NewDenseStrategy() ecs.StorageStrategy {
	return denseStrategy{}
}

func (denseStrategy) Name() string {
	return "dense"
}

func (denseStrategy) NewStore(t ecs.ComponentType) ecs.ComponentStore {
	return &denseStore{typ: t}
}

type denseStore struct {
	typ   ecs.ComponentType
	slots []denseSlot
	count int
}

type denseSlot struct {
	generation uint32
	value      ecs.Component
	occupied   bool
}

func (s *denseStore) ComponentType() ecs.ComponentType {
	return s.typ
}

func (s *denseStore) Len() int {
	return s.count
}

func (s *denseStore) Has(id ecs.EntityID) bool {
	idx := int(id.Index())
	if idx >= len(s.slots) {
		return false
	}
	slot := s.slots[idx]
	return slot.occupied && slot.generation == id.Generation()
}

func (s *denseStore) Get(id ecs.EntityID) (ecs.Component, bool) {
	if !s.Has(id) {
		return nil, false
	}
	return s.slots[int(id.Index())].value, true
}

func (s *denseStore) Iterate(fn func(ecs.EntityID, ecs.Component) bool) {
	for idx, slot := range s.slots {
		if !slot.occupied {
			continue
		}
		if !fn(ecs.EntityIDFromParts(uint32(idx), slot.generation), slot.value) {
			return
		}
	}
}

// Set stores value for id. A slot still held by an older generation of the
// same index is overwritten.
func (s *denseStore) Set(id ecs.EntityID, value ecs.Component) error {
	if id.IsZero() {
		return fmt.Errorf("dense: cannot set zero entity")
	}
	if value == nil {
		return fmt.Errorf("dense: cannot set nil component on %v", id)
	}
	if value.Kind() != s.typ {
		return fmt.Errorf("dense: %s component stored in %s store", value.Kind(), s.typ)
	}
	s.ensureCapacity(int(id.Index()) + 1)
	slot := &s.slots[int(id.Index())]
	if !slot.occupied {
		s.count++
	}
	slot.occupied = true
	slot.generation = id.Generation()
	slot.value = value
	return nil
}

func (s *denseStore) Remove(id ecs.EntityID) bool {
	if !s.Has(id) {
		return false
	}
	s.slots[int(id.Index())] = denseSlot{}
	s.count--
	return true
}

func (s *denseStore) Clear() {
	clear(s.slots)
	s.count = 0
}

func (s *denseStore) ensureCapacity(size int) {
	if size <= len(s.slots) {
		return
	}
	s.slots = append(s.slots, make([]denseSlot, size-len(s.slots))...)
}

var _ ecs.ComponentStore = (*denseStore)(nil)
