package systems

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jaxmatrix/game-experiments/component"
	"github.com/jaxmatrix/game-experiments/ecs"
)

// DefaultSpeed is the per-step displacement of a moving entity.
const DefaultSpeed = 12.0

// ErrInvalidSpeed is returned for a speed that is not a positive finite number.
var ErrInvalidSpeed = errors.New("systems: speed must be positive and finite")

// MovementResolver turns intents into displacement and wraps positions.
//
// Coordinates are screen space: x grows right, y grows down. Left and up move
// negative, right and down positive. Opposing intents on one axis cancel.
type MovementResolver struct {
	speed float64
}

// NewMovementResolver returns a resolver moving speed units per step.
func NewMovementResolver(speed float64) (*MovementResolver, error) {
	if !(speed > 0) || math.IsInf(speed, 1) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSpeed, speed)
	}
	return &MovementResolver{speed: speed}, nil
}

// Speed returns the per-step displacement.
func (m *MovementResolver) Speed() float64 { return m.speed }

func (*MovementResolver) Descriptor() ecs.SystemDescriptor {
	return ecs.SystemDescriptor{
		Name:   "movement",
		Reads:  []ecs.ComponentType{component.KindControllable},
		Writes: []ecs.ComponentType{component.KindPosition, component.KindVelocity},
	}
}

func (m *MovementResolver) Run(_ context.Context, exec ecs.ExecutionContext) ecs.SystemResult {
	world := exec.World()
	for _, id := range world.Query(component.KindPosition, component.KindVelocity, component.KindControllable) {
		pos, err := ecs.Fetch[*component.Position](world, id, component.KindPosition)
		if err != nil {
			return ecs.SystemResult{Err: err}
		}
		vel, err := ecs.Fetch[*component.Velocity](world, id, component.KindVelocity)
		if err != nil {
			return ecs.SystemResult{Err: err}
		}
		ctrl, err := ecs.Fetch[*component.Controllable](world, id, component.KindControllable)
		if err != nil {
			return ecs.SystemResult{Err: err}
		}
		m.step(pos, vel, ctrl)
	}
	return ecs.SystemResult{}
}

func (m *MovementResolver) step(pos *component.Position, vel *component.Velocity, ctrl *component.Controllable) {
	vel.X = axis(ctrl.Left, ctrl.Right) * m.speed
	vel.Y = axis(ctrl.Up, ctrl.Down) * m.speed

	pos.X = Wrap(pos.X+vel.X, pos.LoopSize, m.speed)
	pos.Y = Wrap(pos.Y+vel.Y, pos.LoopSize, m.speed)
}

func axis(negative, positive bool) float64 {
	var v float64
	if negative {
		v--
	}
	if positive {
		v++
	}
	return v
}

// Wrap folds next into [0, loop) on a torus traversed margin units per step.
// Past loop-margin it restarts at 0; below 0 it reappears at loop-margin. A
// loop that is not positive and finite leaves next unchanged, matching
// Position.Bounded. A positive loop no larger than margin collapses to 0.
func Wrap(next, loop, margin float64) float64 {
	if !(loop > 0) || math.IsInf(loop, 1) {
		return next
	}
	edge := loop - margin
	if edge <= 0 {
		return 0
	}
	switch {
	case next > edge:
		return 0
	case next < 0:
		return edge
	default:
		return next
	}
}
