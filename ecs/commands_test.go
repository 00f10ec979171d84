package ecs_test

import (
	"errors"
	"testing"

	"github.com/jaxmatrix/game-experiments/ecs"
)

func TestCreateEntityCommand(t *testing.T) {
	world := ecs.NewWorld()
	var id ecs.EntityID
	if err := ecs.NewCreateEntityCommand(&id).Apply(world); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if id.IsZero() {
		t.Fatalf("expected id to be populated")
	}
	if !world.Registry().IsAlive(id) {
		t.Fatalf("expected entity to exist")
	}
	if err := ecs.NewCreateEntityCommand(nil).Apply(world); err != nil {
		t.Fatalf("apply without target: %v", err)
	}
	if world.Registry().Count() != 2 {
		t.Fatalf("expected 2 entities, got %d", world.Registry().Count())
	}
}

func TestAttachCommandResolvesTargetAtApply(t *testing.T) {
	world := newTestWorld(t)
	var id ecs.EntityID
	batch := []ecs.Command{
		ecs.NewCreateEntityCommand(&id),
		ecs.NewAttachCommand(&id, &pos{X: 9}),
	}
	if err := world.ApplyCommands(batch); err != nil {
		t.Fatalf("apply: %v", err)
	}
	got, err := ecs.Fetch[*pos](world, id, "pos")
	if err != nil || got.X != 9 {
		t.Fatalf("unexpected component state: %v %v", got, err)
	}
}

func TestAttachCommandFailures(t *testing.T) {
	world := newTestWorld(t)
	if err := ecs.NewAttachCommand(nil, &pos{}).Apply(world); !errors.Is(err, ecs.ErrStaleEntity) {
		t.Fatalf("expected ErrStaleEntity without a target, got %v", err)
	}
	var never ecs.EntityID
	if err := ecs.NewAttachCommand(&never, &pos{}).Apply(world); !errors.Is(err, ecs.ErrStaleEntity) {
		t.Fatalf("expected ErrStaleEntity for an unset target, got %v", err)
	}
}

func TestSetResourceCommandReadsAtApply(t *testing.T) {
	world := ecs.NewWorld()
	var id ecs.EntityID
	batch := []ecs.Command{
		ecs.NewCreateEntityCommand(&id),
		ecs.NewSetResourceCommand("player", &id),
	}
	if err := world.ApplyCommands(batch); err != nil {
		t.Fatalf("apply: %v", err)
	}
	got, ok := ecs.Resource[ecs.EntityID](world.Resources(), "player")
	if !ok || got != id || got.IsZero() {
		t.Fatalf("expected resource %v, got %v (%v)", id, got, ok)
	}

	if err := ecs.NewSetResourceCommand[int]("missing", nil).Apply(world); err == nil {
		t.Fatalf("expected nil source to fail")
	}
}

func TestApplyCommandsStopsAtFirstFailure(t *testing.T) {
	world := newTestWorld(t)
	var id ecs.EntityID
	applied := false
	batch := []ecs.Command{
		ecs.NewAttachCommand(&id, &pos{}),
		ecs.CommandFunc(func(*ecs.World) error { applied = true; return nil }),
	}
	if err := world.ApplyCommands(batch); !errors.Is(err, ecs.ErrStaleEntity) {
		t.Fatalf("expected ErrStaleEntity, got %v", err)
	}
	if applied {
		t.Fatalf("commands after a failure must not run")
	}
}
