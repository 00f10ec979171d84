package ecs

import (
	"errors"
	"fmt"
)

// CommandFunc adapts a function to Command.
type CommandFunc func(world *World) error

func (f CommandFunc) Apply(world *World) error { return f(world) }

// NewCreateEntityCommand allocates an entity when applied. A non-nil target
// receives the ID, so later commands of the same batch can address it.
func NewCreateEntityCommand(target *EntityID) Command {
	return CommandFunc(func(world *World) error {
		id := world.CreateEntity()
		if target != nil {
			*target = id
		}
		return nil
	})
}

// NewAttachCommand attaches c to the entity *target holds at apply time.
func NewAttachCommand(target *EntityID, c Component) Command {
	return CommandFunc(func(world *World) error {
		if target == nil {
			return fmt.Errorf("%w: attach without a target", ErrStaleEntity)
		}
		return world.Attach(*target, c)
	})
}

// NewSetResourceCommand stores *src under name at apply time.
func NewSetResourceCommand[T any](name string, src *T) Command {
	return CommandFunc(func(world *World) error {
		if src == nil {
			return errors.New("ecs: set resource " + name + " from nil source")
		}
		world.Resources().Set(name, *src)
		return nil
	})
}
