package ecs

import (
	"fmt"
	"sort"
)

type WorldOption func(*World)

// NewWorld constructs a world with default registries and providers.
func NewWorld(opts ...WorldOption) *World {
	w := &World{
		registry:  NewEntityRegistry(),
		storage:   newStorageProvider(),
		resources: newResourceContainer(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WithEntityRegistry overrides the default registry.
func WithEntityRegistry(registry *EntityRegistry) WorldOption {
	return func(w *World) {
		if registry != nil {
			w.registry = registry
		}
	}
}

// WithStorageProvider overrides the default storage provider.
func WithStorageProvider(provider StorageProvider) WorldOption {
	return func(w *World) {
		if provider != nil {
			w.storage = provider
		}
	}
}

// WithResourceContainer overrides the default resource container.
func WithResourceContainer(container ResourceContainer) WorldOption {
	return func(w *World) {
		if container != nil {
			w.resources = container
		}
	}
}

// Registry exposes the backing entity registry.
func (w *World) Registry() *EntityRegistry {
	return w.registry
}

// Storage returns the storage provider used by the world.
func (w *World) Storage() StorageProvider {
	return w.storage
}

// Resources exposes the resource container.
func (w *World) Resources() ResourceContainer {
	return w.resources
}

// RegisterComponent binds a component kind to a storage strategy.
func (w *World) RegisterComponent(t ComponentType, strategy StorageStrategy) error {
	return w.storage.RegisterComponent(t, strategy)
}

// ViewComponent retrieves a component view by kind.
func (w *World) ViewComponent(t ComponentType) (ComponentView, error) {
	return w.storage.View(t)
}

// ApplyCommands executes deferred commands against the world.
func (w *World) ApplyCommands(commands []Command) error {
	return w.storage.Apply(w, commands)
}

// CreateEntity allocates a new entity with no components.
func (w *World) CreateEntity() EntityID {
	return w.registry.Create()
}

// DestroyEntity detaches every component from the entity and releases its identity.
func (w *World) DestroyEntity(id EntityID) bool {
	if !w.registry.IsAlive(id) {
		return false
	}
	for _, store := range w.storage.Stores() {
		store.Remove(id)
	}
	return w.registry.Destroy(id)
}

// Attach stores c on the entity, replacing any component of the same kind.
func (w *World) Attach(id EntityID, c Component) error {
	if c == nil {
		return ErrNilComponent
	}
	if !w.registry.IsAlive(id) {
		return fmt.Errorf("%w: %v", ErrStaleEntity, id)
	}
	store, err := w.writableStore(c.Kind())
	if err != nil {
		return err
	}
	return store.Set(id, c)
}

// Detach removes the component of the given kind, reporting whether one was present.
func (w *World) Detach(id EntityID, kind ComponentType) bool {
	store, err := w.writableStore(kind)
	if err != nil {
		return false
	}
	return store.Remove(id)
}

// Has reports whether the entity holds a component of the given kind.
func (w *World) Has(id EntityID, kind ComponentType) bool {
	view, err := w.storage.View(kind)
	if err != nil {
		return false
	}
	return view.Has(id)
}

// Get returns the component of the given kind. An absent component is a
// caller contract violation and fails with ErrMissingComponent.
func (w *World) Get(id EntityID, kind ComponentType) (Component, error) {
	view, err := w.storage.View(kind)
	if err != nil {
		return nil, fmt.Errorf("%w on %v: %w", ErrMissingComponent, id, err)
	}
	c, ok := view.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %v", ErrMissingComponent, kind, id)
	}
	return c, nil
}

// Query returns every live entity holding all requested kinds, ordered by
// entity index. No match yields an empty result, never an error.
func (w *World) Query(kinds ...ComponentType) []EntityID {
	if len(kinds) == 0 {
		return nil
	}

	views := make([]ComponentView, 0, len(kinds))
	for _, kind := range kinds {
		view, err := w.storage.View(kind)
		if err != nil {
			return nil
		}
		views = append(views, view)
	}

	// Drive iteration from the smallest store.
	sort.SliceStable(views, func(i, j int) bool { return views[i].Len() < views[j].Len() })

	var out []EntityID
	views[0].Iterate(func(id EntityID, _ Component) bool {
		if !w.registry.IsAlive(id) {
			return true
		}
		for _, view := range views[1:] {
			if !view.Has(id) {
				return true
			}
		}
		out = append(out, id)
		return true
	})

	sort.Slice(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}

// Fetch returns the component of the given kind asserted to T.
func Fetch[T Component](w *World, id EntityID, kind ComponentType) (T, error) {
	var zero T
	c, err := w.Get(id, kind)
	if err != nil {
		return zero, err
	}
	typed, ok := c.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s on %v holds %T", ErrComponentTypeMismatch, kind, id, c)
	}
	return typed, nil
}

func (w *World) writableStore(kind ComponentType) (ComponentStore, error) {
	view, err := w.storage.View(kind)
	if err != nil {
		return nil, err
	}
	store, ok := view.(ComponentStore)
	if !ok {
		return nil, fmt.Errorf("ecs: component %s is not writable", kind)
	}
	return store, nil
}
