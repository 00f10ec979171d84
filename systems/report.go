package systems

import (
	"context"

	"github.com/jaxmatrix/game-experiments/component"
	"github.com/jaxmatrix/game-experiments/ecs"
)

// PlayerReport logs where the player is every Every ticks.
type PlayerReport struct {
	Every uint32
}

func (r PlayerReport) Descriptor() ecs.SystemDescriptor {
	return ecs.SystemDescriptor{
		Name:      "report",
		Reads:     []ecs.ComponentType{component.KindPosition},
		Resources: []ecs.ResourceAccess{{Name: ResourcePlayer, Mode: ecs.AccessModeRead}},
		RunEvery:  r.Every,
	}
}

func (PlayerReport) Run(_ context.Context, exec ecs.ExecutionContext) ecs.SystemResult {
	world := exec.World()
	player, ok := ecs.Resource[ecs.EntityID](world.Resources(), ResourcePlayer)
	if !ok {
		return ecs.SystemResult{Skipped: true}
	}
	pos, err := ecs.Fetch[*component.Position](world, player, component.KindPosition)
	if err != nil {
		return ecs.SystemResult{Err: err}
	}
	exec.Logger().Info("player position", "tick", exec.TickIndex(), "x", pos.X, "y", pos.Y)
	return ecs.SystemResult{}
}
