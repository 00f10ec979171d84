package ecs

import "errors"

var (
	// ErrComponentAlreadyRegistered indicates an attempt to register the same component kind twice.
	ErrComponentAlreadyRegistered = errors.New("ecs: component already registered")
	// ErrComponentNotRegistered signals access to a kind that has no store.
	ErrComponentNotRegistered = errors.New("ecs: component not registered")
	// ErrNilStorageStrategy is returned when storage registration receives a nil strategy.
	ErrNilStorageStrategy = errors.New("ecs: nil storage strategy")
	// ErrNilComponentStore is returned when a strategy produces a nil store.
	ErrNilComponentStore = errors.New("ecs: strategy returned nil store")
	// ErrNilComponent is returned when attaching a nil component.
	ErrNilComponent = errors.New("ecs: nil component")
	// ErrStaleEntity indicates the entity was never issued or has been destroyed.
	ErrStaleEntity = errors.New("ecs: stale entity")
	// ErrMissingComponent indicates a required component is absent on an entity.
	// It is a contract violation by the caller and is never swallowed.
	ErrMissingComponent = errors.New("ecs: missing component")
	// ErrComponentTypeMismatch indicates a stored component is not of the requested Go type.
	ErrComponentTypeMismatch = errors.New("ecs: component type mismatch")
	// ErrDuplicateWriteAccess indicates conflicting write access to a component.
	ErrDuplicateWriteAccess = errors.New("ecs: duplicate write access to component")
	// ErrDuplicateResourceWriteAccess indicates conflicting resource write claims.
	ErrDuplicateResourceWriteAccess = errors.New("ecs: duplicate write access to resource")
)
