// Package systems holds the simulation systems. The per-step group runs
// input, movement and presentation in that order. PlayerSpawner runs once
// during setup and PlayerReport runs in its own periodic group.
package systems

import (
	"context"

	"github.com/jaxmatrix/game-experiments/component"
	"github.com/jaxmatrix/game-experiments/ecs"
	"github.com/jaxmatrix/game-experiments/input"
)

// InputSampler refreshes every Controllable from the host's key state.
type InputSampler struct {
	Keys input.KeyState
	Map  input.KeyMap
}

// NewInputSampler samples keys through the default key map.
func NewInputSampler(keys input.KeyState) *InputSampler {
	return &InputSampler{Keys: keys, Map: input.DefaultKeyMap()}
}

func (*InputSampler) Descriptor() ecs.SystemDescriptor {
	return ecs.SystemDescriptor{
		Name:   "input",
		Writes: []ecs.ComponentType{component.KindControllable},
	}
}

func (s *InputSampler) Run(_ context.Context, exec ecs.ExecutionContext) ecs.SystemResult {
	keyMap := s.Map
	if keyMap == nil {
		keyMap = input.DefaultKeyMap()
	}

	world := exec.World()
	for _, id := range world.Query(component.KindControllable) {
		ctrl, err := ecs.Fetch[*component.Controllable](world, id, component.KindControllable)
		if err != nil {
			return ecs.SystemResult{Err: err}
		}
		ctrl.Up = keyMap.Active(s.Keys, input.IntentUp)
		ctrl.Down = keyMap.Active(s.Keys, input.IntentDown)
		ctrl.Left = keyMap.Active(s.Keys, input.IntentLeft)
		ctrl.Right = keyMap.Active(s.Keys, input.IntentRight)
	}
	return ecs.SystemResult{}
}
