package sim

import (
	"fmt"

	"github.com/jaxmatrix/game-experiments/config"
	"github.com/jaxmatrix/game-experiments/ecs"
	"github.com/jaxmatrix/game-experiments/systems"
)

// Rate bounds in logical updates per second.
const (
	MinRate     = 1.0
	MaxRate     = 120.0
	DefaultRate = 60.0
)

// Config holds the engine settings that outlive a single run.
type Config struct {
	UpdatesPerSecond float64
	Speed            float64
	// MaxStepsPerFrame caps catch-up per frame without dropping time. Zero
	// means unlimited.
	MaxStepsPerFrame int
	// Seed 0 derives a seed from the clock at every Start.
	Seed int64
	// ErrorPolicy governs a failing system of the per-step group.
	ErrorPolicy ecs.ErrorPolicy
	// ReportEvery logs the player position every ReportEvery steps. Zero
	// disables the report.
	ReportEvery uint32
	// LogSummaries logs a summary of every work group run in SummaryFormat.
	LogSummaries  bool
	SummaryFormat ecs.SummaryFormat
}

// DefaultConfig returns 60 updates per second at the default speed.
func DefaultConfig() Config {
	return Config{UpdatesPerSecond: DefaultRate, Speed: systems.DefaultSpeed}
}

// ConfigFrom extracts the engine settings from a loaded file.
func ConfigFrom(c config.Config) (Config, error) {
	policy, err := ecs.ParseErrorPolicy(c.Simulation.ErrorPolicy)
	if err != nil {
		return Config{}, fmt.Errorf("sim: %w", err)
	}
	if c.Log.ReportEvery < 0 {
		return Config{}, fmt.Errorf("sim: report interval must not be negative, got %d", c.Log.ReportEvery)
	}
	format := ecs.SummaryFormatFields
	if c.Log.Format == "json" {
		format = ecs.SummaryFormatObject
	}
	return Config{
		UpdatesPerSecond: c.Simulation.UpdatesPerSecond,
		Speed:            c.Simulation.Speed,
		MaxStepsPerFrame: c.Simulation.MaxStepsPerFrame,
		Seed:             c.World.Seed,
		ErrorPolicy:      policy,
		ReportEvery:      uint32(c.Log.ReportEvery),
		LogSummaries:     c.Log.Summaries,
		SummaryFormat:    format,
	}, nil
}
