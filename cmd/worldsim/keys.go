package main

import (
	"sync"
	"time"
	"unicode"

	"github.com/gdamore/tcell/v2"

	"github.com/jaxmatrix/game-experiments/input"
)

// Terminals report key presses and auto-repeats but never releases. A key
// counts as held until no event for it arrives within the hold window. The
// first window is longer to bridge the auto-repeat delay.
const (
	firstHold  = 550 * time.Millisecond
	repeatHold = 120 * time.Millisecond
)

type heldKey struct {
	last    time.Time
	repeats int
}

type keyTracker struct {
	mu   sync.Mutex
	kb   *input.Keyboard
	held map[string]heldKey
}

func newKeyTracker(kb *input.Keyboard) *keyTracker {
	return &keyTracker{kb: kb, held: make(map[string]heldKey)}
}

func (t *keyTracker) Press(key string, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	h, ok := t.held[key]
	if ok {
		h.repeats++
	}
	h.last = now
	t.held[key] = h
	t.kb.Press(key)
}

// Expire releases keys whose hold window has passed.
func (t *keyTracker) Expire(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, h := range t.held {
		window := repeatHold
		if h.repeats == 0 {
			window = firstHold
		}
		if now.Sub(h.last) > window {
			delete(t.held, key)
			t.kb.Release(key)
		}
	}
}

// keyName maps a terminal key event to the names the key map uses.
func keyName(ev *tcell.EventKey) (string, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return "ArrowUp", true
	case tcell.KeyDown:
		return "ArrowDown", true
	case tcell.KeyLeft:
		return "ArrowLeft", true
	case tcell.KeyRight:
		return "ArrowRight", true
	case tcell.KeyRune:
		return string(unicode.ToLower(ev.Rune())), true
	}
	return "", false
}
