package ecs

import "fmt"

// EntityID identifies an entity and encodes a generation for stale-handle detection.
type EntityID struct {
	index      uint32
	generation uint32
}

// Index returns the backing slot of the entity.
func (id EntityID) Index() uint32 {
	return id.index
}

// Generation returns the generation counter associated with the entity.
func (id EntityID) Generation() uint32 {
	return id.generation
}

// IsZero reports whether the identifier is the zero value. The registry never issues it.
func (id EntityID) IsZero() bool {
	return id.index == 0 && id.generation == 0
}

func (id EntityID) String() string {
	return fmt.Sprintf("EntityID(%d:%d)", id.index, id.generation)
}

// EntityIDFromParts constructs an identifier from raw parts.
func EntityIDFromParts(index, generation uint32) EntityID {
	return EntityID{index: index, generation: generation}
}

// NewEntityRegistry constructs an empty registry.
func NewEntityRegistry() *EntityRegistry {
	return &EntityRegistry{}
}

// EntityRegistry allocates entity identities and recycles destroyed slots.
// Recycling bumps the slot generation, so identities handed out earlier
// never alias a newer entity.
type EntityRegistry struct {
	generations []uint32
	alive       []bool
	free        []uint32
	count       int
}

// Create issues a new entity identifier, reusing the most recently freed slot.
func (r *EntityRegistry) Create() EntityID {
	var index uint32
	if n := len(r.free); n > 0 {
		index = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		index = uint32(len(r.generations))
		r.generations = append(r.generations, 0)
		r.alive = append(r.alive, false)
	}

	r.generations[index]++
	r.alive[index] = true
	r.count++
	return EntityID{index: index, generation: r.generations[index]}
}

// Destroy releases the identifier. It returns false for zero or stale identifiers.
func (r *EntityRegistry) Destroy(id EntityID) bool {
	if !r.IsAlive(id) {
		return false
	}
	r.alive[id.index] = false
	r.free = append(r.free, id.index)
	r.count--
	return true
}

// IsAlive reports whether the identifier refers to a currently allocated entity.
func (r *EntityRegistry) IsAlive(id EntityID) bool {
	if id.IsZero() || id.index >= uint32(len(r.generations)) {
		return false
	}
	return r.alive[id.index] && r.generations[id.index] == id.generation
}

// Count returns the number of live entities.
func (r *EntityRegistry) Count() int {
	return r.count
}
