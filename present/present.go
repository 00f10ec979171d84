// Package present defines how the simulation obtains presentation handles
// from the host.
package present

import (
	"sort"
	"sync"

	"github.com/jaxmatrix/game-experiments/component"
)

// Handle is a host-owned presentation object.
type Handle = component.Handle

// Factory creates a handle for a drawable entity. Tag names its
// classification ("grass", "water", "home", "tree" or "player") so the host
// can pick an appearance.
type Factory interface {
	NewHandle(tag string, size, gap float64) Handle
}

// FactoryFunc adapts a function to Factory.
type FactoryFunc func(tag string, size, gap float64) Handle

func (f FactoryFunc) NewHandle(tag string, size, gap float64) Handle {
	return f(tag, size, gap)
}

type nopHandle struct{}

func (nopHandle) SetPosition(float64, float64) {}

// Nop returns a factory whose handles ignore updates.
func Nop() Factory {
	return FactoryFunc(func(string, float64, float64) Handle { return nopHandle{} })
}

// Recorded is a handle that remembers where it was last placed.
type Recorded struct {
	mu    sync.Mutex
	tag   string
	size  float64
	gap   float64
	x, y  float64
	moves int
}

func (h *Recorded) SetPosition(x, y float64) {
	h.mu.Lock()
	h.x, h.y = x, y
	h.moves++
	h.mu.Unlock()
}

func (h *Recorded) Tag() string { return h.tag }

func (h *Recorded) Size() (size, gap float64) { return h.size, h.gap }

// Position returns the last coordinates set.
func (h *Recorded) Position() (x, y float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.x, h.y
}

// Moves counts SetPosition calls.
func (h *Recorded) Moves() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.moves
}

// Recorder is a Factory keeping every handle it creates, for headless hosts
// and tests. It is safe for concurrent use so a host may read handles while
// the simulation moves them.
type Recorder struct {
	mu      sync.Mutex
	handles []*Recorded
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) NewHandle(tag string, size, gap float64) Handle {
	h := &Recorded{tag: tag, size: size, gap: gap}
	r.mu.Lock()
	r.handles = append(r.handles, h)
	r.mu.Unlock()
	return h
}

// Handles returns the handles in creation order.
func (r *Recorder) Handles() []*Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Recorded(nil), r.handles...)
}

// Tagged returns the handles created with tag.
func (r *Recorder) Tagged(tag string) []*Recorded {
	var out []*Recorded
	for _, h := range r.Handles() {
		if h.tag == tag {
			out = append(out, h)
		}
	}
	return out
}

// Counts returns the number of handles per tag.
func (r *Recorder) Counts() map[string]int {
	out := make(map[string]int)
	for _, h := range r.Handles() {
		out[h.tag]++
	}
	return out
}

// Tags returns the distinct tags in sorted order.
func (r *Recorder) Tags() []string {
	counts := r.Counts()
	out := make([]string, 0, len(counts))
	for tag := range counts {
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

var (
	_ Factory = (*Recorder)(nil)
	_ Handle  = (*Recorded)(nil)
)
