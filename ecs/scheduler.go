package ecs

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"
)

// SchedulerOption configures a scheduler at construction.
type SchedulerOption func(*basicScheduler)

// WithSchedulerLogger sets the logger handed to systems and used for
// scheduler diagnostics.
func WithSchedulerLogger(l Logger) SchedulerOption {
	return func(s *basicScheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithInstrumentation installs work group observers.
func WithInstrumentation(cfg InstrumentationConfig) SchedulerOption {
	return func(s *basicScheduler) { s.instrumentation = cfg }
}

// NewScheduler returns a synchronous scheduler bound to world.
func NewScheduler(world *World, opts ...SchedulerOption) (Scheduler, error) {
	if world == nil {
		return nil, errors.New("ecs: scheduler needs a world")
	}
	s := &basicScheduler{
		world:  world,
		byID:   make(map[WorkGroupID]*workGroup),
		claims: newAccessClaims(),
		buffer: NewCommandBuffer(),
		logger: noopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.observer = newObserver(s.logger, s.instrumentation)
	return s, nil
}

// basicScheduler runs every group on the calling goroutine in registration
// order. Commands deferred during a tick apply after its last group.
type basicScheduler struct {
	world           *World
	groups          []*workGroup
	byID            map[WorkGroupID]*workGroup
	claims          accessClaims
	buffer          *CommandBuffer
	logger          Logger
	instrumentation InstrumentationConfig
	observer        SchedulerObserver
	tick            uint64
}

type workGroup struct {
	id      WorkGroupID
	systems []System
	policy  ErrorPolicy
	access  groupAccess
}

// groupAccess is the union of the claims of a group's systems.
type groupAccess struct {
	reads          []ComponentType
	writes         []ComponentType
	resourceReads  []string
	resourceWrites []string
}

func (s *basicScheduler) RegisterWorkGroup(cfg WorkGroupConfig) error {
	if cfg.ID == "" {
		return errors.New("ecs: work group needs an ID")
	}
	if _, dup := s.byID[cfg.ID]; dup {
		return fmt.Errorf("ecs: work group %s already registered", cfg.ID)
	}

	systems := slices.DeleteFunc(slices.Clone(cfg.Systems), func(sys System) bool { return sys == nil })
	access, err := collectAccess(systems)
	if err != nil {
		return fmt.Errorf("ecs: work group %s: %w", cfg.ID, err)
	}
	if err := s.claims.claim(cfg.ID, access); err != nil {
		return fmt.Errorf("ecs: work group %s: %w", cfg.ID, err)
	}

	group := &workGroup{id: cfg.ID, systems: systems, policy: cfg.ErrorPolicy, access: access}
	s.groups = append(s.groups, group)
	s.byID[cfg.ID] = group
	return nil
}

// collectAccess unions the claims of systems, rejecting two systems that
// write the same component or resource. A system may read what an earlier
// one in the group wrote.
func collectAccess(systems []System) (groupAccess, error) {
	reads := make(map[ComponentType]struct{})
	writers := make(map[ComponentType]string)
	resourceReads := make(map[string]struct{})
	resourceWriters := make(map[string]string)

	for _, sys := range systems {
		desc := sys.Descriptor()
		name := cmp.Or(desc.Name, "<unnamed>")
		for _, kind := range desc.Reads {
			reads[kind] = struct{}{}
		}
		for _, kind := range desc.Writes {
			if prev, ok := writers[kind]; ok {
				return groupAccess{}, fmt.Errorf("%w: %s written by %s and %s", ErrDuplicateWriteAccess, kind, prev, name)
			}
			writers[kind] = name
		}
		for _, res := range desc.Resources {
			switch {
			case res.Name == "":
			case res.Mode != AccessModeWrite:
				resourceReads[res.Name] = struct{}{}
			default:
				if prev, ok := resourceWriters[res.Name]; ok {
					return groupAccess{}, fmt.Errorf("%w: %s written by %s and %s", ErrDuplicateResourceWriteAccess, res.Name, prev, name)
				}
				resourceWriters[res.Name] = name
			}
		}
	}

	return groupAccess{
		reads:          slices.Sorted(maps.Keys(reads)),
		writes:         slices.Sorted(maps.Keys(writers)),
		resourceReads:  slices.Sorted(maps.Keys(resourceReads)),
		resourceWrites: slices.Sorted(maps.Keys(resourceWriters)),
	}, nil
}

// accessClaims tracks claims across groups. A component has at most one
// writing group. A written resource belongs to its writer alone, so no other
// group may read or write it.
type accessClaims struct {
	componentWriters map[ComponentType]WorkGroupID
	resourceWriters  map[string]WorkGroupID
	resourceReaders  map[string][]WorkGroupID
}

func newAccessClaims() accessClaims {
	return accessClaims{
		componentWriters: make(map[ComponentType]WorkGroupID),
		resourceWriters:  make(map[string]WorkGroupID),
		resourceReaders:  make(map[string][]WorkGroupID),
	}
}

func (c accessClaims) claim(id WorkGroupID, access groupAccess) error {
	for _, kind := range access.writes {
		if owner, ok := c.componentWriters[kind]; ok {
			return fmt.Errorf("%w: %s already written by %s", ErrDuplicateWriteAccess, kind, owner)
		}
	}
	for _, res := range access.resourceWrites {
		if owner, ok := c.resourceWriters[res]; ok {
			return fmt.Errorf("%w: %s already written by %s", ErrDuplicateResourceWriteAccess, res, owner)
		}
		if readers := c.resourceReaders[res]; len(readers) > 0 {
			return fmt.Errorf("%w: %s already read by %s", ErrDuplicateResourceWriteAccess, res, readers[0])
		}
	}
	for _, res := range access.resourceReads {
		if owner, ok := c.resourceWriters[res]; ok {
			return fmt.Errorf("%w: %s already written by %s", ErrDuplicateResourceWriteAccess, res, owner)
		}
	}

	for _, kind := range access.writes {
		c.componentWriters[kind] = id
	}
	for _, res := range access.resourceWrites {
		c.resourceWriters[res] = id
	}
	for _, res := range access.resourceReads {
		c.resourceReaders[res] = append(c.resourceReaders[res], id)
	}
	return nil
}

// Tick runs one logical step: every group in order, then the commands the
// step deferred. A failed step applies no commands and does not advance the
// tick index.
func (s *basicScheduler) Tick(ctx context.Context, dt time.Duration) error {
	defer s.buffer.Drain()

	for _, group := range s.groups {
		if err := ctx.Err(); err != nil {
			return err
		}
		summary := s.runGroup(ctx, group, dt)
		s.observer.WorkGroupCompleted(summary)
		if summary.Error == nil {
			continue
		}
		if group.policy != ErrorPolicyContinue {
			return summary.Error
		}
		s.logger.Error("work group failed, continuing", "work_group", string(group.id), "tick", s.tick, "err", summary.Error)
	}

	if err := s.world.ApplyCommands(s.buffer.Drain()); err != nil {
		return err
	}
	s.tick++
	return nil
}

func (s *basicScheduler) runGroup(ctx context.Context, group *workGroup, dt time.Duration) WorkGroupSummary {
	summary := WorkGroupSummary{
		WorkGroupID:     group.id,
		Tick:            s.tick,
		SystemsTotal:    len(group.systems),
		ComponentReads:  group.access.reads,
		ComponentWrites: group.access.writes,
	}
	start := time.Now()
	summary.Error = s.runSystems(ctx, group, dt, &summary)
	summary.Duration = time.Since(start)
	return summary
}

func (s *basicScheduler) runSystems(ctx context.Context, group *workGroup, dt time.Duration, summary *WorkGroupSummary) error {
	groupLogger := s.logger.With("work_group", string(group.id))
	exec := &systemExecutionContext{world: s.world, dt: dt, tick: s.tick, commands: s.buffer}

	for _, sys := range group.systems {
		if err := ctx.Err(); err != nil {
			return err
		}
		desc := sys.Descriptor()
		if !dueOn(s.tick, desc.RunEvery) {
			summary.SystemsSkipped++
			continue
		}
		exec.logger = groupLogger.With("system", desc.Name)

		result := s.runSystem(ctx, sys, exec, group.policy)
		switch {
		case result.Err != nil:
			return fmt.Errorf("ecs: system %s failed: %w", desc.Name, result.Err)
		case result.Skipped:
			summary.SystemsSkipped++
		default:
			summary.SystemsExecuted++
		}
	}
	return nil
}

// runSystem runs sys once, or twice under ErrorPolicyRetry. Commands deferred
// by a failed attempt are discarded.
func (s *basicScheduler) runSystem(ctx context.Context, sys System, exec *systemExecutionContext, policy ErrorPolicy) SystemResult {
	attempts := 1
	if policy == ErrorPolicyRetry {
		attempts = 2
	}
	var result SystemResult
	for n := 1; n <= attempts; n++ {
		mark := s.buffer.Snapshot()
		result = sys.Run(ctx, exec)
		if result.Err == nil {
			return result
		}
		s.buffer.Restore(mark)
		if n < attempts {
			exec.logger.Error("system failed, retrying", "err", result.Err)
		}
	}
	return result
}

func dueOn(tick uint64, every uint32) bool {
	return every <= 1 || tick%uint64(every) == 0
}

// Run executes steps consecutive ticks, stopping at the first error.
func (s *basicScheduler) Run(ctx context.Context, steps int, dt time.Duration) error {
	for range steps {
		if err := s.Tick(ctx, dt); err != nil {
			return err
		}
	}
	return nil
}

// TickIndex returns the number of completed ticks.
func (s *basicScheduler) TickIndex() uint64 {
	return s.tick
}

type systemExecutionContext struct {
	world    *World
	dt       time.Duration
	tick     uint64
	logger   Logger
	commands *CommandBuffer
}

func (c *systemExecutionContext) World() *World { return c.world }

func (c *systemExecutionContext) TimeDelta() time.Duration { return c.dt }

func (c *systemExecutionContext) TickIndex() uint64 { return c.tick }

func (c *systemExecutionContext) Logger() Logger { return c.logger }

func (c *systemExecutionContext) Defer(cmd Command) { c.commands.Push(cmd) }

type noopLogger struct{}

func (noopLogger) With(string, any) Logger { return noopLogger{} }
func (noopLogger) Info(string, ...any)     {}
func (noopLogger) Error(string, ...any)    {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger { return noopLogger{} }
