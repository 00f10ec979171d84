package ecs

import (
	"context"
	"fmt"
	"time"
)

// Scheduler runs registered work groups once per logical step.
type Scheduler interface {
	Tick(ctx context.Context, dt time.Duration) error
	Run(ctx context.Context, steps int, dt time.Duration) error
	RegisterWorkGroup(cfg WorkGroupConfig) error
	TickIndex() uint64
}

// WorkGroupConfig declares an ordered set of systems run together.
// Groups run in registration order.
type WorkGroupConfig struct {
	ID          WorkGroupID
	Systems     []System
	ErrorPolicy ErrorPolicy
}

// WorkGroupID uniquely identifies a work group within the scheduler.
type WorkGroupID string

// ErrorPolicy decides what a failing system does to the rest of the step.
type ErrorPolicy uint8

const (
	// ErrorPolicyAbort fails the step at the first failing system.
	ErrorPolicyAbort ErrorPolicy = iota
	// ErrorPolicyContinue logs the failure, stops the group and runs the
	// remaining groups.
	ErrorPolicyContinue
	// ErrorPolicyRetry runs a failing system once more before aborting.
	ErrorPolicyRetry
)

func (p ErrorPolicy) String() string {
	switch p {
	case ErrorPolicyAbort:
		return "abort"
	case ErrorPolicyContinue:
		return "continue"
	case ErrorPolicyRetry:
		return "retry"
	default:
		return fmt.Sprintf("ErrorPolicy(%d)", uint8(p))
	}
}

// ParseErrorPolicy maps "abort", "continue" or "retry" to a policy. The
// empty string is abort.
func ParseErrorPolicy(name string) (ErrorPolicy, error) {
	switch name {
	case "", "abort":
		return ErrorPolicyAbort, nil
	case "continue":
		return ErrorPolicyContinue, nil
	case "retry":
		return ErrorPolicyRetry, nil
	default:
		return ErrorPolicyAbort, fmt.Errorf("ecs: unknown error policy %q", name)
	}
}

// SchedulerObserver receives summaries after work groups complete.
type SchedulerObserver interface {
	WorkGroupCompleted(summary WorkGroupSummary)
}

// WorkGroupSummary captures execution metadata for a work group.
type WorkGroupSummary struct {
	WorkGroupID     WorkGroupID
	Tick            uint64
	Duration        time.Duration
	SystemsTotal    int
	SystemsExecuted int
	SystemsSkipped  int
	Error           error
	ComponentReads  []ComponentType
	ComponentWrites []ComponentType
}

// System is one unit of per-step logic.
type System interface {
	Descriptor() SystemDescriptor
	Run(ctx context.Context, exec ExecutionContext) SystemResult
}

// SystemDescriptor declares what a system touches. Claims are checked when
// its group is registered.
type SystemDescriptor struct {
	Name      string
	Reads     []ComponentType
	Writes    []ComponentType
	Resources []ResourceAccess
	// RunEvery runs the system only on ticks divisible by it. Zero and one
	// run it every tick.
	RunEvery uint32
}

// SystemResult indicates how a system behaved during execution.
type SystemResult struct {
	Skipped bool
	Err     error
}

// ExecutionContext supplies a system with scoped access to the world.
type ExecutionContext interface {
	World() *World
	TimeDelta() time.Duration
	TickIndex() uint64
	Logger() Logger
	// Defer queues cmd until every group of the tick has run.
	Defer(cmd Command)
}

// World owns entity identities, their components and shared resources.
// A World is confined to the goroutine driving the simulation.
type World struct {
	registry  *EntityRegistry
	storage   StorageProvider
	resources ResourceContainer
}

// Component is a data record attached to an entity. Kind selects the
// storage bucket, so an entity holds at most one component per kind.
type Component interface {
	Kind() ComponentType
}

// StorageProvider manages component storage backends.
type StorageProvider interface {
	RegisterComponent(ComponentType, StorageStrategy) error
	View(ComponentType) (ComponentView, error)
	Stores() []ComponentStore
	Apply(*World, []Command) error
}

// StorageStrategy describes how a component kind is stored internally.
type StorageStrategy interface {
	Name() string
	NewStore(ComponentType) ComponentStore
}

// ComponentType identifies a component kind.
type ComponentType string

// ResourceAccess claims a named world resource for reading or writing.
type ResourceAccess struct {
	Name string
	Mode AccessMode
}

// AccessMode indicates read or write intent when using a resource.
type AccessMode uint8

const (
	AccessModeRead AccessMode = iota
	AccessModeWrite
)

// ComponentStore permits read/write access to component instances.
type ComponentStore interface {
	ComponentView
	Set(EntityID, Component) error
	Remove(EntityID) bool
	Clear()
}

// ComponentView exposes read-only iteration over stored components.
type ComponentView interface {
	ComponentType() ComponentType
	Len() int
	Has(EntityID) bool
	Get(EntityID) (Component, bool)
	Iterate(func(EntityID, Component) bool)
}

// Command represents a deferred mutation applied after a step's systems ran.
type Command interface {
	Apply(world *World) error
}

// Logger captures structured log output from systems.
type Logger interface {
	With(key string, value any) Logger
	Info(msg string, args ...any)
	Error(msg string, args ...any)
}

// ResourceContainer holds shared resources accessible to systems.
type ResourceContainer interface {
	Get(name string) (any, bool)
	Set(name string, value any)
	Delete(name string)
	Range(func(string, any) bool)
}
