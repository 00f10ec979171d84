// Package component defines the component kinds attached to simulation
// entities.
package component

import (
	"math"

	"github.com/jaxmatrix/game-experiments/ecs"
)

// Component kinds. The set is closed; storage is registered per kind.
const (
	KindControllable ecs.ComponentType = "controllable"
	KindPosition     ecs.ComponentType = "position"
	KindVelocity     ecs.ComponentType = "velocity"
	KindVisual       ecs.ComponentType = "visual"
	KindTile         ecs.ComponentType = "tile"
)

// Kinds lists every component kind in registration order.
func Kinds() []ecs.ComponentType {
	return []ecs.ComponentType{KindControllable, KindPosition, KindVelocity, KindVisual, KindTile}
}

// Handle is a presentation object owned by the host. The core only moves it.
type Handle interface {
	SetPosition(x, y float64)
}

// Controllable holds the movement intents refreshed every input step.
type Controllable struct {
	Up, Down, Left, Right bool
}

func (*Controllable) Kind() ecs.ComponentType { return KindControllable }

// Reset clears all intents.
func (c *Controllable) Reset() {
	*c = Controllable{}
}

// Position is a point in pixel space. A positive finite LoopSize bounds both
// axes toroidally. Zero, negative, NaN and +Inf leave the position
// unbounded, so the zero value never wraps.
type Position struct {
	X, Y     float64
	LoopSize float64
}

// NewPosition returns an unbounded position at (x, y).
func NewPosition(x, y float64) *Position {
	return &Position{X: x, Y: y}
}

func (*Position) Kind() ecs.ComponentType { return KindPosition }

// Bounded reports whether the position wraps.
func (p *Position) Bounded() bool {
	return p.LoopSize > 0 && !math.IsInf(p.LoopSize, 1)
}

// Velocity is the signed displacement applied during the last movement step.
type Velocity struct {
	X, Y float64
}

func (*Velocity) Kind() ecs.ComponentType { return KindVelocity }

// Visual references a presentation handle together with its layout metadata.
type Visual struct {
	Handle Handle
	Tag    string
	Size   float64
	Gap    float64
}

func (*Visual) Kind() ecs.ComponentType { return KindVisual }

// Tile classifies a world cell. Tiles are immutable and stored shared, so
// they are attached by value.
type Tile struct {
	Type  TileType
	Solid bool
}

func (Tile) Kind() ecs.ComponentType { return KindTile }

// TileType is the terrain classification of a tile.
type TileType uint8

const (
	TileGrass TileType = iota
	TileWater
	TileHome
	TileTree
)

func (t TileType) String() string {
	switch t {
	case TileGrass:
		return "grass"
	case TileWater:
		return "water"
	case TileHome:
		return "home"
	case TileTree:
		return "tree"
	default:
		return "unknown"
	}
}
