package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/jaxmatrix/game-experiments/present"
	"github.com/jaxmatrix/game-experiments/sim"
)

// Each world cell is drawn two columns wide so it looks roughly square.
const columnsPerCell = 2

type glyph struct {
	r     rune
	style tcell.Style
	layer int
}

var glyphs = map[string]glyph{
	"water":       {'~', tcell.StyleDefault.Foreground(tcell.ColorBlue), 0},
	"grass":       {'.', tcell.StyleDefault.Foreground(tcell.ColorGreen), 0},
	"tree":        {'♣', tcell.StyleDefault.Foreground(tcell.ColorDarkGreen), 1},
	"home":        {'⌂', tcell.StyleDefault.Foreground(tcell.ColorMaroon), 2},
	sim.PlayerTag: {'@', tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true), 3},
}

const layers = 4

// cellHandle places a glyph at the terminal cell covering its pixel position.
type cellHandle struct {
	glyph glyph
	pitch float64
	x, y  float64
}

func (h *cellHandle) SetPosition(x, y float64) {
	h.x, h.y = x, y
}

func (h *cellHandle) cell() (col, row int) {
	return int(h.x/h.pitch) * columnsPerCell, int(h.y / h.pitch)
}

// cellFactory keeps handles grouped by layer so features draw over terrain.
type cellFactory struct {
	layers [layers][]*cellHandle
}

func newCellFactory() *cellFactory {
	return &cellFactory{}
}

func (f *cellFactory) NewHandle(tag string, size, gap float64) present.Handle {
	g, ok := glyphs[tag]
	if !ok {
		g = glyph{'?', tcell.StyleDefault, 0}
	}
	pitch := size + gap
	if pitch <= 0 {
		pitch = 1
	}
	h := &cellHandle{glyph: g, pitch: pitch}
	f.layers[g.layer] = append(f.layers[g.layer], h)
	return h
}

func (f *cellFactory) Draw(screen tcell.Screen) {
	for _, layer := range f.layers {
		for _, h := range layer {
			col, row := h.cell()
			for dx := 0; dx < columnsPerCell; dx++ {
				screen.SetContent(col+dx, row, h.glyph.r, nil, h.glyph.style)
			}
		}
	}
}

func drawStatus(screen tcell.Screen, e *sim.Engine) {
	_, height := screen.Size()
	stats := e.Stats()
	line := fmt.Sprintf(" %.0f ups  steps %d  water %d grass %d trees %d homes %d  [wasd/arrows move, +/- rate, q quit]",
		e.Rate(), e.Steps(), stats.Water, stats.Grass, stats.Trees, stats.Homes)
	style := tcell.StyleDefault.Reverse(true)
	for i, r := range []rune(line) {
		screen.SetContent(i, height-1, r, nil, style)
	}
}
