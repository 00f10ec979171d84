// Package input carries key state from the host into the simulation.
package input

import (
	"sort"
	"sync"
)

// KeyState is a read-only view of which keys are held. Key names follow the
// browser convention: lower-case letters and "ArrowUp"-style arrow names.
type KeyState interface {
	Pressed(key string) bool
}

// Intent is a logical movement direction.
type Intent uint8

const (
	IntentUp Intent = iota
	IntentDown
	IntentLeft
	IntentRight
)

func (i Intent) String() string {
	switch i {
	case IntentUp:
		return "up"
	case IntentDown:
		return "down"
	case IntentLeft:
		return "left"
	case IntentRight:
		return "right"
	default:
		return "unknown"
	}
}

// KeyMap binds each intent to the keys that trigger it.
type KeyMap map[Intent][]string

// DefaultKeyMap binds WASD and the arrow keys.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		IntentUp:    {"w", "ArrowUp"},
		IntentDown:  {"s", "ArrowDown"},
		IntentLeft:  {"a", "ArrowLeft"},
		IntentRight: {"d", "ArrowRight"},
	}
}

// Active reports whether any key bound to intent is pressed.
func (m KeyMap) Active(state KeyState, intent Intent) bool {
	if state == nil {
		return false
	}
	for _, key := range m[intent] {
		if state.Pressed(key) {
			return true
		}
	}
	return false
}

// Keyboard is a KeyState the host updates from its event goroutine while the
// simulation reads it from another.
type Keyboard struct {
	mu   sync.RWMutex
	keys map[string]bool
}

// NewKeyboard returns a keyboard with nothing pressed.
func NewKeyboard() *Keyboard {
	return &Keyboard{keys: make(map[string]bool)}
}

func (k *Keyboard) Press(key string) {
	k.mu.Lock()
	k.keys[key] = true
	k.mu.Unlock()
}

func (k *Keyboard) Release(key string) {
	k.mu.Lock()
	delete(k.keys, key)
	k.mu.Unlock()
}

// Reset releases every key.
func (k *Keyboard) Reset() {
	k.mu.Lock()
	clear(k.keys)
	k.mu.Unlock()
}

func (k *Keyboard) Pressed(key string) bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.keys[key]
}

// Held returns the pressed keys in sorted order.
func (k *Keyboard) Held() []string {
	k.mu.RLock()
	out := make([]string, 0, len(k.keys))
	for key := range k.keys {
		out = append(out, key)
	}
	k.mu.RUnlock()
	sort.Strings(out)
	return out
}

// Static is a fixed KeyState, mostly for tests and headless runs.
type Static map[string]bool

func (s Static) Pressed(key string) bool { return s[key] }

var (
	_ KeyState = (*Keyboard)(nil)
	_ KeyState = Static(nil)
)
