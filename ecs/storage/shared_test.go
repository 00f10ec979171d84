package storage

import (
	"testing"

	"github.com/jaxmatrix/game-experiments/ecs"
)

type terrain struct {
	Name  string
	Solid bool
}

func (terrain) Kind() ecs.ComponentType { return "terrain" }

type mutableTerrain struct {
	Tags []string
}

func (mutableTerrain) Kind() ecs.ComponentType { return "terrain" }

func TestSharedStorageBasicOperations(t *testing.T) {
	store := NewSharedStrategy().NewStore("terrain")
	if store.ComponentType() != "terrain" {
		t.Fatalf("unexpected component type %s", store.ComponentType())
	}

	a := ecs.EntityIDFromParts(1, 1)
	b := ecs.EntityIDFromParts(2, 1)
	grass := terrain{Name: "grass", Solid: true}

	if err := store.Set(a, grass); err != nil {
		t.Fatalf("set a: %v", err)
	}
	if err := store.Set(b, grass); err != nil {
		t.Fatalf("set b: %v", err)
	}
	if !store.Has(a) || !store.Has(b) {
		t.Fatalf("expected both entities to hold the component")
	}

	got, ok := store.Get(b)
	if !ok || got.(terrain) != grass {
		t.Fatalf("unexpected value %#v ok=%v", got, ok)
	}
	if store.Len() != 2 {
		t.Fatalf("expected len 2, got %d", store.Len())
	}
}

func TestSharedStorageDeduplicatesValues(t *testing.T) {
	store := NewSharedStrategy().NewStore("terrain").(*sharedStore)

	water := terrain{Name: "water"}
	grass := terrain{Name: "grass", Solid: true}
	for i := uint32(1); i <= 10; i++ {
		v := water
		if i%2 == 0 {
			v = grass
		}
		if err := store.Set(ecs.EntityIDFromParts(i, 1), v); err != nil {
			t.Fatalf("set %d: %v", i, err)
		}
	}

	stats := store.Stats()
	if stats.EntityCount != 10 {
		t.Fatalf("expected 10 entities, got %d", stats.EntityCount)
	}
	if stats.UniqueValueCount != 2 {
		t.Fatalf("expected 2 unique values, got %d", stats.UniqueValueCount)
	}
	if stats.SharingRatio != 5 {
		t.Fatalf("expected sharing ratio 5, got %f", stats.SharingRatio)
	}

	viewStats, ok := SharedStats(store)
	if !ok || viewStats != stats {
		t.Fatalf("SharedStats mismatch: %+v ok=%v", viewStats, ok)
	}
}

func TestSharedStorageReleasesUnusedValues(t *testing.T) {
	store := NewSharedStrategy().NewStore("terrain").(*sharedStore)
	id := ecs.EntityIDFromParts(1, 1)

	if err := store.Set(id, terrain{Name: "grass"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	// Replacing drops the only reference to the old value.
	if err := store.Set(id, terrain{Name: "home", Solid: true}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if got := store.Stats().UniqueValueCount; got != 1 {
		t.Fatalf("expected 1 unique value after replace, got %d", got)
	}
	if store.Len() != 1 {
		t.Fatalf("replace must not change entity count, got %d", store.Len())
	}

	if !store.Remove(id) {
		t.Fatalf("remove failed")
	}
	if store.Remove(id) {
		t.Fatalf("second remove must fail")
	}
	if got := store.Stats().UniqueValueCount; got != 0 {
		t.Fatalf("expected no values after remove, got %d", got)
	}
}

func TestSharedStorageRejectsNonComparable(t *testing.T) {
	store := NewSharedStrategy().NewStore("terrain")
	if err := store.Set(ecs.EntityIDFromParts(1, 1), mutableTerrain{Tags: []string{"x"}}); err == nil {
		t.Fatalf("expected non-comparable value to be rejected")
	}
	if _, ok := SharedStats(NewDenseStrategy().NewStore("terrain")); ok {
		t.Fatalf("dense store must not report shared stats")
	}
}
