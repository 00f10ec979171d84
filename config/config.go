// Package config loads the simulation settings from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jaxmatrix/game-experiments/ecs"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Simulation Simulation `yaml:"simulation"`
	World      World      `yaml:"world"`
	Log        Log        `yaml:"log"`
}

type Simulation struct {
	UpdatesPerSecond float64 `yaml:"updates_per_second"`
	Speed            float64 `yaml:"speed"`
	// MaxStepsPerFrame caps catch-up per frame. Zero means unlimited.
	MaxStepsPerFrame int `yaml:"max_steps_per_frame"`
	// ErrorPolicy is abort, continue or retry.
	ErrorPolicy string `yaml:"error_policy"`
}

type World struct {
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	CellSize float64 `yaml:"cell_size"`
	Gap      float64 `yaml:"gap"`
	// Seed 0 derives a seed from the clock at start.
	Seed int64 `yaml:"seed"`
}

type Log struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	Summaries bool   `yaml:"summaries"`
	// ReportEvery logs the player position every ReportEvery steps; 0 is off.
	ReportEvery int `yaml:"report_every"`
}

// Default returns the built-in settings: a 576x576 world of 32px cells with
// 4px gaps, stepped 60 times per second.
func Default() Config {
	return Config{
		Simulation: Simulation{UpdatesPerSecond: 60, Speed: 12, ErrorPolicy: "abort"},
		World:      World{Width: 576, Height: 576, CellSize: 32, Gap: 4},
		Log:        Log{Level: "info", Format: "console"},
	}
}

// Load reads YAML from r on top of Default. Unknown keys are rejected and an
// empty document yields the defaults.
func Load(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile reads the YAML file at path.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Load(bytes.NewReader(data))
}

// Validate reports the first setting the simulation cannot run with.
func (c Config) Validate() error {
	s, w := c.Simulation, c.World
	switch {
	case !positive(s.UpdatesPerSecond):
		return fmt.Errorf("%w: simulation.updates_per_second must be positive, got %v", ErrInvalid, s.UpdatesPerSecond)
	case !positive(s.Speed):
		return fmt.Errorf("%w: simulation.speed must be positive, got %v", ErrInvalid, s.Speed)
	case s.MaxStepsPerFrame < 0:
		return fmt.Errorf("%w: simulation.max_steps_per_frame must not be negative, got %d", ErrInvalid, s.MaxStepsPerFrame)
	case !positive(w.Width) || !positive(w.Height):
		return fmt.Errorf("%w: world size must be positive, got %vx%v", ErrInvalid, w.Width, w.Height)
	case !positive(w.CellSize):
		return fmt.Errorf("%w: world.cell_size must be positive, got %v", ErrInvalid, w.CellSize)
	case w.Gap < 0 || math.IsInf(w.Gap, 0) || math.IsNaN(w.Gap):
		return fmt.Errorf("%w: world.gap must not be negative, got %v", ErrInvalid, w.Gap)
	case c.Log.Format != "json" && c.Log.Format != "console":
		return fmt.Errorf("%w: log.format must be json or console, got %q", ErrInvalid, c.Log.Format)
	case c.Log.ReportEvery < 0 || int64(c.Log.ReportEvery) > math.MaxUint32:
		return fmt.Errorf("%w: log.report_every must be in [0, %d], got %d", ErrInvalid, uint32(math.MaxUint32), c.Log.ReportEvery)
	}
	if _, err := ecs.ParseErrorPolicy(s.ErrorPolicy); err != nil {
		return fmt.Errorf("%w: simulation.error_policy: %w", ErrInvalid, err)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
