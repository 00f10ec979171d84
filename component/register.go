package component

import (
	"fmt"

	"github.com/jaxmatrix/game-experiments/ecs"
	"github.com/jaxmatrix/game-experiments/ecs/storage"
)

// Register installs storage for every kind: tiles are shared, the rest dense.
func Register(world *ecs.World) error {
	for _, kind := range Kinds() {
		strategy := storage.NewDenseStrategy()
		if kind == KindTile {
			strategy = storage.NewSharedStrategy()
		}
		if err := world.RegisterComponent(kind, strategy); err != nil {
			return fmt.Errorf("register %s: %w", kind, err)
		}
	}
	return nil
}
