package component_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaxmatrix/game-experiments/component"
	"github.com/jaxmatrix/game-experiments/ecs"
	"github.com/jaxmatrix/game-experiments/ecs/storage"
)

func TestNewPositionIsUnbounded(t *testing.T) {
	pos := component.NewPosition(3, 4)
	assert.Equal(t, 3.0, pos.X)
	assert.Equal(t, 4.0, pos.Y)
	assert.False(t, pos.Bounded())

	pos.LoopSize = 100
	assert.True(t, pos.Bounded())
}

func TestZeroPositionIsUnbounded(t *testing.T) {
	for _, loop := range []float64{0, -36, math.NaN(), math.Inf(1)} {
		pos := &component.Position{X: 5, LoopSize: loop}
		assert.False(t, pos.Bounded(), "loop %v", loop)
	}
	assert.False(t, (&component.Position{}).Bounded())
}

func TestTileTypeString(t *testing.T) {
	cases := map[component.TileType]string{
		component.TileGrass:    "grass",
		component.TileWater:    "water",
		component.TileHome:     "home",
		component.TileTree:     "tree",
		component.TileType(42): "unknown",
	}
	for tile, want := range cases {
		assert.Equal(t, want, tile.String())
	}
}

func TestControllableReset(t *testing.T) {
	c := &component.Controllable{Up: true, Left: true}
	c.Reset()
	assert.Equal(t, component.Controllable{}, *c)
}

func TestKindsAreDistinct(t *testing.T) {
	seen := make(map[ecs.ComponentType]struct{})
	for _, kind := range component.Kinds() {
		_, dup := seen[kind]
		require.False(t, dup, "duplicate kind %s", kind)
		seen[kind] = struct{}{}
	}
	assert.Len(t, seen, 5)
}

func TestComponentsRoundTripThroughWorld(t *testing.T) {
	world := ecs.NewWorld()
	require.NoError(t, world.RegisterComponent(component.KindPosition, storage.NewDenseStrategy()))
	require.NoError(t, world.RegisterComponent(component.KindTile, storage.NewSharedStrategy()))

	id := world.CreateEntity()
	require.NoError(t, world.Attach(id, component.NewPosition(1, 2)))
	require.NoError(t, world.Attach(id, component.Tile{Type: component.TileWater}))

	pos, err := ecs.Fetch[*component.Position](world, id, component.KindPosition)
	require.NoError(t, err)
	pos.X = 10

	again, err := ecs.Fetch[*component.Position](world, id, component.KindPosition)
	require.NoError(t, err)
	assert.Equal(t, 10.0, again.X, "pointer components mutate in place")

	tile, err := ecs.Fetch[component.Tile](world, id, component.KindTile)
	require.NoError(t, err)
	assert.Equal(t, component.TileWater, tile.Type)
}

func TestRegisterInstallsEveryKind(t *testing.T) {
	world := ecs.NewWorld()
	require.NoError(t, component.Register(world))

	for _, kind := range component.Kinds() {
		_, err := world.ViewComponent(kind)
		require.NoError(t, err, kind)
	}
	view, err := world.ViewComponent(component.KindTile)
	require.NoError(t, err)
	_, shared := storage.SharedStats(view)
	assert.True(t, shared, "tiles use shared storage")

	err = component.Register(world)
	assert.ErrorIs(t, err, ecs.ErrComponentAlreadyRegistered)
}
