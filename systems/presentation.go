package systems

import (
	"context"

	"github.com/jaxmatrix/game-experiments/component"
	"github.com/jaxmatrix/game-experiments/ecs"
)

// PresentationSync copies each resolved position onto its presentation
// handle. It is the only system that touches handles.
type PresentationSync struct{}

func (PresentationSync) Descriptor() ecs.SystemDescriptor {
	return ecs.SystemDescriptor{
		Name:  "presentation",
		Reads: []ecs.ComponentType{component.KindPosition, component.KindVisual},
	}
}

func (PresentationSync) Run(_ context.Context, exec ecs.ExecutionContext) ecs.SystemResult {
	world := exec.World()
	for _, id := range world.Query(component.KindPosition, component.KindVisual) {
		visual, err := ecs.Fetch[*component.Visual](world, id, component.KindVisual)
		if err != nil {
			return ecs.SystemResult{Err: err}
		}
		if visual.Handle == nil {
			continue
		}
		pos, err := ecs.Fetch[*component.Position](world, id, component.KindPosition)
		if err != nil {
			return ecs.SystemResult{Err: err}
		}
		visual.Handle.SetPosition(pos.X, pos.Y)
	}
	return ecs.SystemResult{}
}
