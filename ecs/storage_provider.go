package ecs

import (
	"fmt"
	"sort"
)

type storageProvider struct {
	stores map[ComponentType]ComponentStore
}

func newStorageProvider() *storageProvider {
	return &storageProvider{stores: make(map[ComponentType]ComponentStore)}
}

func (p *storageProvider) RegisterComponent(t ComponentType, strategy StorageStrategy) error {
	if strategy == nil {
		return fmt.Errorf("%w: %s", ErrNilStorageStrategy, t)
	}
	if _, exists := p.stores[t]; exists {
		return fmt.Errorf("%w: %s", ErrComponentAlreadyRegistered, t)
	}

	store := strategy.NewStore(t)
	if store == nil {
		return fmt.Errorf("%w: %s strategy returned no store for %s", ErrNilComponentStore, strategy.Name(), t)
	}
	p.stores[t] = store
	return nil
}

func (p *storageProvider) View(t ComponentType) (ComponentView, error) {
	store, ok := p.stores[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrComponentNotRegistered, t)
	}
	return store, nil
}

// Stores lists registered stores ordered by kind.
func (p *storageProvider) Stores() []ComponentStore {
	out := make([]ComponentStore, 0, len(p.stores))
	for _, store := range p.stores {
		out = append(out, store)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ComponentType() < out[j].ComponentType() })
	return out
}

// Apply runs commands in order and stops at the first failure.
func (p *storageProvider) Apply(world *World, commands []Command) error {
	for i, cmd := range commands {
		if cmd == nil {
			continue
		}
		if err := cmd.Apply(world); err != nil {
			return fmt.Errorf("ecs: apply command %d of %d: %w", i+1, len(commands), err)
		}
	}
	return nil
}

var _ StorageProvider = (*storageProvider)(nil)
