package systems

import (
	"context"

	"github.com/jaxmatrix/game-experiments/component"
	"github.com/jaxmatrix/game-experiments/ecs"
)

// ResourcePlayer names the world resource holding the controllable entity.
const ResourcePlayer = "player"

// PlayerSpawner queues the controllable entity the first time it runs and
// skips once ResourcePlayer exists. The entity and the resource appear when
// the tick's deferred commands apply.
type PlayerSpawner struct {
	// Loop is the wrap size of the spawned position.
	Loop float64
	// Visual is copied onto the spawned entity.
	Visual component.Visual

	id ecs.EntityID
}

func (*PlayerSpawner) Descriptor() ecs.SystemDescriptor {
	return ecs.SystemDescriptor{
		Name: "spawn",
		Writes: []ecs.ComponentType{
			component.KindControllable,
			component.KindPosition,
			component.KindVelocity,
			component.KindVisual,
		},
		Resources: []ecs.ResourceAccess{{Name: ResourcePlayer, Mode: ecs.AccessModeWrite}},
	}
}

func (s *PlayerSpawner) Run(_ context.Context, exec ecs.ExecutionContext) ecs.SystemResult {
	if _, ok := exec.World().Resources().Get(ResourcePlayer); ok {
		return ecs.SystemResult{Skipped: true}
	}

	pos := component.NewPosition(0, 0)
	pos.LoopSize = s.Loop
	visual := s.Visual

	exec.Defer(ecs.NewCreateEntityCommand(&s.id))
	for _, c := range []ecs.Component{&component.Controllable{}, pos, &component.Velocity{}, &visual} {
		exec.Defer(ecs.NewAttachCommand(&s.id, c))
	}
	exec.Defer(ecs.NewSetResourceCommand(ResourcePlayer, &s.id))
	exec.Logger().Info("player spawn queued", "loop", s.Loop, "tag", visual.Tag)
	return ecs.SystemResult{}
}
