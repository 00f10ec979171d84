package main

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaxmatrix/game-experiments/input"
	"github.com/jaxmatrix/game-experiments/sim"
)

func TestKeyName(t *testing.T) {
	cases := []struct {
		ev   *tcell.EventKey
		want string
	}{
		{tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), "ArrowUp"},
		{tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone), "ArrowDown"},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), "ArrowLeft"},
		{tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone), "ArrowRight"},
		{tcell.NewEventKey(tcell.KeyRune, 'W', tcell.ModNone), "w"},
	}
	for _, tc := range cases {
		got, ok := keyName(tc.ev)
		require.True(t, ok)
		assert.Equal(t, tc.want, got)
	}
	_, ok := keyName(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	assert.False(t, ok)
}

func TestKeyTrackerEmulatesRelease(t *testing.T) {
	kb := input.NewKeyboard()
	tracker := newKeyTracker(kb)
	start := time.Unix(0, 0)

	tracker.Press("d", start)
	tracker.Expire(start.Add(firstHold / 2))
	assert.True(t, kb.Pressed("d"), "held through the auto-repeat delay")

	tracker.Press("d", start.Add(firstHold/2))
	tracker.Expire(start.Add(firstHold/2 + repeatHold/2))
	assert.True(t, kb.Pressed("d"))

	tracker.Expire(start.Add(firstHold/2 + 2*repeatHold))
	assert.False(t, kb.Pressed("d"), "released once repeats stop")
}

func TestCellFactoryDrawsLayers(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(20, 5)

	f := newCellFactory()
	grass := f.NewHandle("grass", 32, 4)
	tree := f.NewHandle("tree", 32, 4)
	player := f.NewHandle(sim.PlayerTag, 32, 4)
	grass.SetPosition(36, 0)
	tree.SetPosition(36, 0)
	player.SetPosition(72, 36)

	f.Draw(screen)

	r, _, _, _ := screen.GetContent(2, 0)
	assert.Equal(t, '♣', r, "trees draw over grass")
	r, _, _, _ = screen.GetContent(3, 0)
	assert.Equal(t, '♣', r)
	r, _, _, _ = screen.GetContent(4, 1)
	assert.Equal(t, '@', r)
}

func TestHandleEventControls(t *testing.T) {
	kb := input.NewKeyboard()
	h := &host{keys: newKeyTracker(kb), rates: make(chan float64, 2)}
	ctx := context.Background()
	now := time.Now()

	assert.ErrorIs(t, h.handleEvent(ctx, tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), now), errQuit)
	assert.ErrorIs(t, h.handleEvent(ctx, tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), now), errQuit)

	require.NoError(t, h.handleEvent(ctx, tcell.NewEventKey(tcell.KeyRune, '+', tcell.ModNone), now))
	require.NoError(t, h.handleEvent(ctx, tcell.NewEventKey(tcell.KeyRune, '-', tcell.ModNone), now))
	assert.Equal(t, rateStep, <-h.rates)
	assert.Equal(t, -rateStep, <-h.rates)

	require.NoError(t, h.handleEvent(ctx, tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModNone), now))
	assert.True(t, kb.Pressed("ArrowLeft"))
}
