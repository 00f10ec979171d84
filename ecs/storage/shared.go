package storage

import (
	"fmt"
	"reflect"

	"github.com/jaxmatrix/game-experiments/ecs"
)

// sharedStrategy creates stores where entities holding equal component values
// reference a single stored instance. Tiles are the main user: a generated
// world holds thousands of identical terrain classifications.
//
// Values must be comparable and are treated as immutable. To change an
// entity's value, attach a new one.
type sharedStrategy struct{}

// NewSharedStrategy constructs a shared storage strategy.
func NewSharedStrategy() ecs.StorageStrategy {
	return sharedStrategy{}
}

func (sharedStrategy) Name() string {
	return "shared"
}

func (sharedStrategy) NewStore(t ecs.ComponentType) ecs.ComponentStore {
	return &sharedStore{
		typ:           t,
		entityToValue: make(map[ecs.EntityID]uint32),
		valueIDs:      make(map[ecs.Component]uint32),
		values:        make(map[uint32]*sharedValue),
		nextValueID:   1,
	}
}

type sharedValue struct {
	data     ecs.Component
	refCount int
}

type sharedStore struct {
	typ           ecs.ComponentType
	entityToValue map[ecs.EntityID]uint32
	valueIDs      map[ecs.Component]uint32
	values        map[uint32]*sharedValue
	nextValueID   uint32
}

func (s *sharedStore) ComponentType() ecs.ComponentType {
	return s.typ
}

func (s *sharedStore) Len() int {
	return len(s.entityToValue)
}

func (s *sharedStore) Has(id ecs.EntityID) bool {
	_, exists := s.entityToValue[id]
	return exists
}

func (s *sharedStore) Get(id ecs.EntityID) (ecs.Component, bool) {
	valueID, exists := s.entityToValue[id]
	if !exists {
		return nil, false
	}
	return s.values[valueID].data, true
}

func (s *sharedStore) Iterate(fn func(ecs.EntityID, ecs.Component) bool) {
	for entityID, valueID := range s.entityToValue {
		if !fn(entityID, s.values[valueID].data) {
			return
		}
	}
}

func (s *sharedStore) Set(id ecs.EntityID, value ecs.Component) error {
	if id.IsZero() {
		return fmt.Errorf("shared: cannot set zero entity")
	}
	if value == nil {
		return fmt.Errorf("shared: cannot set nil component on %v", id)
	}
	if value.Kind() != s.typ {
		return fmt.Errorf("shared: %s component stored in %s store", value.Kind(), s.typ)
	}
	if !reflect.TypeOf(value).Comparable() {
		return fmt.Errorf("shared: %T is not comparable", value)
	}

	if oldValueID, exists := s.entityToValue[id]; exists {
		s.release(oldValueID)
	}
	s.entityToValue[id] = s.acquire(value)
	return nil
}

func (s *sharedStore) Remove(id ecs.EntityID) bool {
	valueID, exists := s.entityToValue[id]
	if !exists {
		return false
	}
	delete(s.entityToValue, id)
	s.release(valueID)
	return true
}

func (s *sharedStore) Clear() {
	clear(s.entityToValue)
	clear(s.valueIDs)
	clear(s.values)
}

func (s *sharedStore) acquire(value ecs.Component) uint32 {
	if valueID, ok := s.valueIDs[value]; ok {
		s.values[valueID].refCount++
		return valueID
	}
	valueID := s.nextValueID
	s.nextValueID++
	s.valueIDs[value] = valueID
	s.values[valueID] = &sharedValue{data: value, refCount: 1}
	return valueID
}

func (s *sharedStore) release(valueID uint32) {
	shared, ok := s.values[valueID]
	if !ok {
		return
	}
	shared.refCount--
	if shared.refCount <= 0 {
		delete(s.values, valueID)
		delete(s.valueIDs, shared.data)
	}
}

// Stats returns statistics about the shared store.
func (s *sharedStore) Stats() SharedStorageStats {
	return SharedStorageStats{
		EntityCount:      len(s.entityToValue),
		UniqueValueCount: len(s.values),
		SharingRatio:     float64(len(s.entityToValue)) / float64(max(len(s.values), 1)),
	}
}

// SharedStorageStats describes how much sharing a store achieves.
type SharedStorageStats struct {
	EntityCount      int     // entities holding the component
	UniqueValueCount int     // distinct stored values
	SharingRatio     float64 // entities per distinct value
}

// SharedStats reports sharing statistics when view is backed by the shared strategy.
func SharedStats(view ecs.ComponentView) (SharedStorageStats, bool) {
	s, ok := view.(*sharedStore)
	if !ok {
		return SharedStorageStats{}, false
	}
	return s.Stats(), true
}

var _ ecs.ComponentStore = (*sharedStore)(nil)
