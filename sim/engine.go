// Package sim drives the tile world at a fixed logical rate, independent of
// how often the host delivers frames.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/jaxmatrix/game-experiments/component"
	"github.com/jaxmatrix/game-experiments/ecs"
	"github.com/jaxmatrix/game-experiments/ecs/storage"
	"github.com/jaxmatrix/game-experiments/input"
	"github.com/jaxmatrix/game-experiments/logging"
	"github.com/jaxmatrix/game-experiments/present"
	"github.com/jaxmatrix/game-experiments/systems"
	"github.com/jaxmatrix/game-experiments/worldgen"
)

var (
	// ErrIllegalState is returned for an operation the current state forbids.
	ErrIllegalState = errors.New("sim: illegal state")
	// ErrInvalidRate is returned for a non-finite logical rate.
	ErrInvalidRate = errors.New("sim: invalid rate")
	// ErrInvalidLayout is returned when Start cannot fit a grid.
	ErrInvalidLayout = errors.New("sim: invalid layout")
)

// Names used inside the world.
const (
	WorkGroupID    ecs.WorkGroupID = "simulation"
	ReportGroupID  ecs.WorkGroupID = "report"
	SetupGroupID   ecs.WorkGroupID = "setup"
	ResourcePlayer                 = systems.ResourcePlayer
	ResourceStats                  = "worldgen.stats"
	PlayerTag                      = "player"
)

// State is the engine lifecycle state.
type State uint8

const (
	StateIdle State = iota
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// GeneratorFunc builds the world generator for one run.
type GeneratorFunc func(seed int64, factory present.Factory) *worldgen.Generator

// Option customizes an Engine.
type Option func(*Engine)

// WithLogger routes engine and scheduler logs to l.
func WithLogger(l ecs.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithGenerator replaces worldgen.New.
func WithGenerator(fn GeneratorFunc) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newGenerator = fn
		}
	}
}

// WithClock sets the time source used to derive seeds.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithObserver receives every work group summary.
func WithObserver(o ecs.SchedulerObserver) Option {
	return func(e *Engine) { e.observer = o }
}

// Engine owns one simulated world and steps it in fixed increments. It is
// confined to the goroutine that calls Frame.
type Engine struct {
	cfg          Config
	keys         input.KeyState
	factory      present.Factory
	movement     *systems.MovementResolver
	logger       ecs.Logger
	observer     ecs.SchedulerObserver
	newGenerator GeneratorFunc
	now          func() time.Time
	runID        string

	state       State
	rate        float64
	step        time.Duration
	accumulator time.Duration
	steps       uint64

	world     *ecs.World
	scheduler ecs.Scheduler
	player    ecs.EntityID
	stats     worldgen.Stats
	seed      int64
}

// New returns an idle engine. A nil factory yields handles that ignore
// updates.
func New(cfg Config, keys input.KeyState, factory present.Factory, opts ...Option) (*Engine, error) {
	movement, err := systems.NewMovementResolver(cfg.Speed)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}
	if cfg.MaxStepsPerFrame < 0 {
		return nil, fmt.Errorf("sim: max steps per frame must not be negative, got %d", cfg.MaxStepsPerFrame)
	}
	if cfg.ErrorPolicy > ecs.ErrorPolicyRetry {
		return nil, fmt.Errorf("sim: unknown error policy %v", cfg.ErrorPolicy)
	}
	if factory == nil {
		factory = present.Nop()
	}

	e := &Engine{
		cfg:          cfg,
		keys:         keys,
		factory:      factory,
		movement:     movement,
		logger:       logging.Nop(),
		newGenerator: worldgen.New,
		now:          time.Now,
		runID:        uuid.NewString(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("run_id", e.runID)

	if err := e.SetLogicalRate(cfg.UpdatesPerSecond); err != nil {
		return nil, err
	}
	return e, nil
}

// Start builds a fresh world for a worldWidth x worldHeight area and starts
// accepting frames. The square grid has floor(min(w, h) / (cellSize + gap))
// cells per side and the player wraps around its edges.
func (e *Engine) Start(worldWidth, worldHeight, cellSize, gap float64) error {
	if e.state == StateRunning {
		return fmt.Errorf("%w: start while %s", ErrIllegalState, e.state)
	}
	side, err := gridSide(worldWidth, worldHeight, cellSize, gap)
	if err != nil {
		return err
	}

	world := ecs.NewWorld()
	if err := component.Register(world); err != nil {
		return fmt.Errorf("sim: %w", err)
	}

	seed := e.cfg.Seed
	if seed == 0 {
		seed = e.now().UnixNano()
	}
	stats, err := e.newGenerator(seed, e.factory).Generate(world, side, cellSize, gap)
	if err != nil {
		return fmt.Errorf("sim: generate world: %w", err)
	}

	loop := float64(side) * (cellSize + gap)
	player, err := e.spawnPlayer(world, loop, cellSize, gap)
	if err != nil {
		return err
	}
	world.Resources().Set(ResourceStats, stats)

	scheduler, err := e.buildScheduler(world)
	if err != nil {
		return err
	}

	e.world = world
	e.scheduler = scheduler
	e.player = player
	e.stats = stats
	e.seed = seed
	e.accumulator = 0
	e.steps = 0
	e.state = StateRunning

	e.logGeneration(side, loop)
	return nil
}

func gridSide(w, h, cell, gap float64) (int, error) {
	finite := func(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
	if !finite(w) || !finite(h) || !finite(cell) || !finite(gap) || w <= 0 || h <= 0 || cell <= 0 || gap < 0 {
		return 0, fmt.Errorf("%w: world %vx%v, cell %v, gap %v", ErrInvalidLayout, w, h, cell, gap)
	}
	side := int(math.Floor(min(w, h) / (cell + gap)))
	if side < 1 {
		return 0, fmt.Errorf("%w: no %v+%v cell fits in %vx%v", ErrInvalidLayout, cell, gap, w, h)
	}
	return side, nil
}

// spawnPlayer ticks a one-shot setup scheduler whose spawner queues the
// player's creation. The entity exists once that tick's commands apply.
func (e *Engine) spawnPlayer(world *ecs.World, loop, cellSize, gap float64) (ecs.EntityID, error) {
	setup, err := ecs.NewScheduler(world, ecs.WithSchedulerLogger(e.logger))
	if err != nil {
		return ecs.EntityID{}, fmt.Errorf("sim: %w", err)
	}
	spawner := &systems.PlayerSpawner{
		Loop: loop,
		Visual: component.Visual{
			Handle: e.factory.NewHandle(PlayerTag, cellSize, gap),
			Tag:    PlayerTag,
			Size:   cellSize,
			Gap:    gap,
		},
	}
	if err := setup.RegisterWorkGroup(ecs.WorkGroupConfig{ID: SetupGroupID, Systems: []ecs.System{spawner}}); err != nil {
		return ecs.EntityID{}, fmt.Errorf("sim: %w", err)
	}
	if err := setup.Tick(context.Background(), 0); err != nil {
		return ecs.EntityID{}, fmt.Errorf("sim: spawn player: %w", err)
	}

	player, ok := ecs.Resource[ecs.EntityID](world.Resources(), ResourcePlayer)
	if !ok {
		return ecs.EntityID{}, fmt.Errorf("sim: spawn player: no %s resource after setup", ResourcePlayer)
	}
	return player, nil
}

func (e *Engine) buildScheduler(world *ecs.World) (ecs.Scheduler, error) {
	scheduler, err := ecs.NewScheduler(world,
		ecs.WithSchedulerLogger(e.logger),
		ecs.WithInstrumentation(ecs.InstrumentationConfig{
			Observer:     e.observer,
			LogSummaries: e.cfg.LogSummaries,
			Format:       e.cfg.SummaryFormat,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("sim: %w", err)
	}

	groups := []ecs.WorkGroupConfig{{
		ID: WorkGroupID,
		Systems: []ecs.System{
			systems.NewInputSampler(e.keys),
			e.movement,
			systems.PresentationSync{},
		},
		ErrorPolicy: e.cfg.ErrorPolicy,
	}}
	if e.cfg.ReportEvery > 0 {
		groups = append(groups, ecs.WorkGroupConfig{
			ID:          ReportGroupID,
			Systems:     []ecs.System{systems.PlayerReport{Every: e.cfg.ReportEvery}},
			ErrorPolicy: ecs.ErrorPolicyContinue,
		})
	}
	for _, group := range groups {
		if err := scheduler.RegisterWorkGroup(group); err != nil {
			return nil, fmt.Errorf("sim: %w", err)
		}
	}
	return scheduler, nil
}

func (e *Engine) logGeneration(side int, loop float64) {
	args := []any{
		"seed", e.seed,
		"side", side,
		"loop", loop,
		"water", e.stats.Water,
		"grass", e.stats.Grass,
		"trees", e.stats.Trees,
		"homes", e.stats.Homes,
	}
	if view, err := e.world.ViewComponent(component.KindTile); err == nil {
		if shared, ok := storage.SharedStats(view); ok {
			args = append(args, "tile_values", shared.UniqueValueCount, "tile_sharing", shared.SharingRatio)
		}
	}
	e.logger.Info("world generated", args...)
}

// Frame adds elapsed to the accumulator and runs every whole step it holds,
// returning how many ran. Non-positive elapsed advances nothing. A failing
// step aborts the frame; steps already run stay applied. Cancelling ctx stops
// the frame between steps, never inside one. The accumulator saturates at the
// largest Duration rather than overflowing.
func (e *Engine) Frame(ctx context.Context, elapsed time.Duration) (int, error) {
	if e.state != StateRunning {
		return 0, fmt.Errorf("%w: frame while %s", ErrIllegalState, e.state)
	}
	if elapsed <= 0 {
		return 0, nil
	}

	e.accumulator = saturatingAdd(e.accumulator, elapsed)
	ran := 0
	for e.accumulator >= e.step {
		if e.cfg.MaxStepsPerFrame > 0 && ran >= e.cfg.MaxStepsPerFrame {
			break
		}
		if err := ctx.Err(); err != nil {
			return ran, err
		}
		e.accumulator -= e.step
		if err := e.scheduler.Tick(context.WithoutCancel(ctx), e.step); err != nil {
			return ran, fmt.Errorf("sim: step %d: %w", e.steps, err)
		}
		e.steps++
		ran++
	}
	return ran, nil
}

// FrameMillis is Frame for hosts that measure time in milliseconds. NaN and
// infinite deltas advance nothing and deltas past the Duration range saturate.
func (e *Engine) FrameMillis(ctx context.Context, ms float64) (int, error) {
	if e.state != StateRunning {
		return 0, fmt.Errorf("%w: frame while %s", ErrIllegalState, e.state)
	}
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms <= 0 {
		return 0, nil
	}
	// float64(maxDuration) rounds up to 2^63, so anything below it converts.
	ns := ms * float64(time.Millisecond)
	if ns >= float64(maxDuration) {
		return e.Frame(ctx, maxDuration)
	}
	return e.Frame(ctx, time.Duration(ns))
}

const maxDuration = time.Duration(math.MaxInt64)

// saturatingAdd returns acc+d for non-negative operands, pinned at the largest
// Duration instead of wrapping negative.
func saturatingAdd(acc, d time.Duration) time.Duration {
	if d > maxDuration-acc {
		return maxDuration
	}
	return acc + d
}

// SetLogicalRate sets the updates per second, clamped to [MinRate, MaxRate].
// A non-finite rate fails with ErrInvalidRate and keeps the current one. Any
// accepted call discards accumulated time so no burst of steps follows.
func (e *Engine) SetLogicalRate(ups float64) error {
	if math.IsNaN(ups) || math.IsInf(ups, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidRate, ups)
	}
	rate := min(max(ups, MinRate), MaxRate)
	e.rate = rate
	e.step = time.Duration(float64(time.Second) / rate)
	e.accumulator = 0
	if e.state == StateRunning {
		e.logger.Info("logical rate changed", "requested", ups, "rate", rate, "step", e.step)
	}
	return nil
}

// Stop stops accepting frames. The last world stays readable until the next
// Start replaces it.
func (e *Engine) Stop() error {
	if e.state != StateRunning {
		return fmt.Errorf("%w: stop while %s", ErrIllegalState, e.state)
	}
	e.state = StateIdle
	e.accumulator = 0
	e.scheduler = nil
	e.logger.Info("simulation stopped", "steps", e.steps)
	return nil
}

// State returns the lifecycle state.
func (e *Engine) State() State { return e.state }

// Rate returns the logical updates per second.
func (e *Engine) Rate() float64 { return e.rate }

// StepDuration returns the simulated time per logical step.
func (e *Engine) StepDuration() time.Duration { return e.step }

// Residual returns accumulated time not yet consumed by a step.
func (e *Engine) Residual() time.Duration { return e.accumulator }

// Steps returns the logical steps run since Start.
func (e *Engine) Steps() uint64 { return e.steps }

// World returns the world built by the last Start, or nil before the first.
func (e *Engine) World() *ecs.World { return e.world }

// Player returns the controllable entity of the current world.
func (e *Engine) Player() ecs.EntityID { return e.player }

// Stats returns the tile counts of the current world.
func (e *Engine) Stats() worldgen.Stats { return e.stats }

// Seed returns the seed the current world was generated from.
func (e *Engine) Seed() int64 { return e.seed }

// RunID identifies this engine in logs.
func (e *Engine) RunID() string { return e.runID }
