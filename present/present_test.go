package present_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaxmatrix/game-experiments/present"
)

func TestRecorderTracksHandles(t *testing.T) {
	rec := present.NewRecorder()
	grass := rec.NewHandle("grass", 32, 4)
	rec.NewHandle("water", 32, 4)
	rec.NewHandle("grass", 32, 4)

	grass.SetPosition(36, 72)

	handles := rec.Handles()
	require.Len(t, handles, 3)
	x, y := handles[0].Position()
	assert.Equal(t, 36.0, x)
	assert.Equal(t, 72.0, y)
	assert.Equal(t, 1, handles[0].Moves())
	assert.Equal(t, 0, handles[1].Moves())

	size, gap := handles[0].Size()
	assert.Equal(t, 32.0, size)
	assert.Equal(t, 4.0, gap)

	assert.Len(t, rec.Tagged("grass"), 2)
	assert.Equal(t, map[string]int{"grass": 2, "water": 1}, rec.Counts())
	assert.Equal(t, []string{"grass", "water"}, rec.Tags())
}

func TestNopFactory(t *testing.T) {
	h := present.Nop().NewHandle("player", 32, 4)
	require.NotNil(t, h)
	assert.NotPanics(t, func() { h.SetPosition(1, 2) })
}

func TestFactoryFunc(t *testing.T) {
	var gotTag string
	f := present.FactoryFunc(func(tag string, _, _ float64) present.Handle {
		gotTag = tag
		return nil
	})
	assert.Nil(t, f.NewHandle("tree", 1, 1))
	assert.Equal(t, "tree", gotTag)
}
