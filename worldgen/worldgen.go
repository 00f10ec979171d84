// Package worldgen populates a world with a noise-driven tile grid.
package worldgen

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/jaxmatrix/game-experiments/component"
	"github.com/jaxmatrix/game-experiments/ecs"
	"github.com/jaxmatrix/game-experiments/noise"
	"github.com/jaxmatrix/game-experiments/present"
)

// Generation constants. Changing any of them changes every generated world.
const (
	TerrainScale   = 0.1
	TreeScale      = 0.4
	TreeZ          = 0.3
	WaterThreshold = 0.4
	TreeThreshold  = 0.65
	HomeCount      = 57
)

// Seed layer names fed to noise.DeriveSeed.
const (
	LayerTerrain    = "terrain"
	LayerVegetation = "vegetation"
	LayerHomes      = "homes"
)

var errIncomplete = errors.New("worldgen: generator needs terrain and vegetation noise and a random source")

// Stats counts the entities created per tile type.
type Stats struct {
	Water int
	Grass int
	Trees int
	Homes int
}

// Total is the number of tile entities created.
func (s Stats) Total() int {
	return s.Water + s.Grass + s.Trees + s.Homes
}

// Generator lays out terrain, vegetation and homes. The noise fields and the
// random source are exported so callers can force a layout.
type Generator struct {
	Terrain    noise.Field
	Vegetation noise.Field
	Rand       *rand.Rand
	Factory    present.Factory
}

// New derives independent terrain, vegetation and placement sources from seed.
func New(seed int64, factory present.Factory) *Generator {
	homes := uint64(noise.DeriveSeed(seed, LayerHomes))
	return &Generator{
		Terrain:    noise.New(noise.DeriveSeed(seed, LayerTerrain)),
		Vegetation: noise.New(noise.DeriveSeed(seed, LayerVegetation)),
		Rand:       rand.New(rand.NewPCG(homes, homes>>1|1)),
		Factory:    factory,
	}
}

type cell struct {
	i, j int
}

// Generate fills a worldSize x worldSize grid. Cells are visited row by row
// with i outer. Water cells get a water tile; every other cell gets grass and
// may get a tree on top. Homes are then drawn without replacement from the
// grass cells. A non-positive worldSize creates nothing.
func (g *Generator) Generate(world *ecs.World, worldSize int, cellSize, gap float64) (Stats, error) {
	var stats Stats
	if worldSize <= 0 {
		return stats, nil
	}
	if g.Terrain == nil || g.Vegetation == nil || g.Rand == nil {
		return stats, errIncomplete
	}

	candidates := make([]cell, 0, worldSize*worldSize)
	for i := 0; i < worldSize; i++ {
		for j := 0; j < worldSize; j++ {
			fi, fj := float64(i), float64(j)
			if g.Terrain.Noise(fi*TerrainScale, fj*TerrainScale, 0) < WaterThreshold {
				if err := g.place(world, i, j, component.TileWater, false, cellSize, gap); err != nil {
					return stats, err
				}
				stats.Water++
				continue
			}

			if err := g.place(world, i, j, component.TileGrass, true, cellSize, gap); err != nil {
				return stats, err
			}
			stats.Grass++
			candidates = append(candidates, cell{i, j})

			if g.Vegetation.Noise(fi*TreeScale, fj*TreeScale, TreeZ) > TreeThreshold {
				if err := g.place(world, i, j, component.TileTree, true, cellSize, gap); err != nil {
					return stats, err
				}
				stats.Trees++
			}
		}
	}

	for n := 0; n < HomeCount && len(candidates) > 0; n++ {
		idx := g.Rand.IntN(len(candidates))
		c := candidates[idx]
		candidates = slices.Delete(candidates, idx, idx+1)
		if err := g.place(world, c.i, c.j, component.TileHome, true, cellSize, gap); err != nil {
			return stats, err
		}
		stats.Homes++
	}

	return stats, nil
}

func (g *Generator) place(world *ecs.World, i, j int, typ component.TileType, solid bool, size, gap float64) error {
	var handle component.Handle
	if g.Factory != nil {
		handle = g.Factory.NewHandle(typ.String(), size, gap)
	}

	id := world.CreateEntity()
	pitch := size + gap
	parts := []ecs.Component{
		component.NewPosition(float64(i)*pitch, float64(j)*pitch),
		component.Tile{Type: typ, Solid: solid},
		&component.Visual{Handle: handle, Tag: typ.String(), Size: size, Gap: gap},
	}
	for _, c := range parts {
		if err := world.Attach(id, c); err != nil {
			world.DestroyEntity(id)
			return fmt.Errorf("worldgen: %s tile at (%d, %d): %w", typ, i, j, err)
		}
	}
	return nil
}
