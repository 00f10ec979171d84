package ecs

import (
	"strings"
	"time"
)

// SummaryFormat selects how the logging observer lays out a summary.
type SummaryFormat uint8

const (
	// SummaryFormatFields logs every summary value as a top-level field.
	SummaryFormatFields SummaryFormat = iota
	// SummaryFormatObject nests the values under one "summary" field, which
	// JSON encoders render as an object.
	SummaryFormatObject
)

// InstrumentationConfig selects who hears about completed work groups.
type InstrumentationConfig struct {
	// Observer receives every summary when set.
	Observer SchedulerObserver
	// LogSummaries logs every summary through Logger, falling back to the
	// scheduler logger.
	LogSummaries bool
	Format       SummaryFormat
	Logger       Logger
}

type observerChain []SchedulerObserver

func (c observerChain) WorkGroupCompleted(summary WorkGroupSummary) {
	for _, o := range c {
		o.WorkGroupCompleted(summary)
	}
}

// summaryLogger logs summaries at info level, or at error level for a group
// that failed.
type summaryLogger struct {
	logger Logger
	format SummaryFormat
}

func (l summaryLogger) WorkGroupCompleted(summary WorkGroupSummary) {
	logf := l.logger.Info
	if summary.Error != nil {
		logf = l.logger.Error
	}
	fields := summaryFields(summary)
	if l.format == SummaryFormatObject {
		object := make(map[string]any, len(fields)/2)
		for i := 0; i+1 < len(fields); i += 2 {
			object[fields[i].(string)] = fields[i+1]
		}
		logf("work group completed", "work_group", string(summary.WorkGroupID), "summary", object)
		return
	}
	logf("work group completed", append([]any{"work_group", string(summary.WorkGroupID)}, fields...)...)
}

// summaryFields flattens a summary into alternating keys and values.
func summaryFields(summary WorkGroupSummary) []any {
	fields := []any{
		"tick", summary.Tick,
		"duration_ms", float64(summary.Duration) / float64(time.Millisecond),
		"systems_total", summary.SystemsTotal,
		"systems_executed", summary.SystemsExecuted,
		"systems_skipped", summary.SystemsSkipped,
		"component_reads", joinKinds(summary.ComponentReads),
		"component_writes", joinKinds(summary.ComponentWrites),
	}
	if summary.Error != nil {
		fields = append(fields, "error", summary.Error.Error())
	}
	return fields
}

func joinKinds(kinds []ComponentType) string {
	var b strings.Builder
	for i, kind := range kinds {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(string(kind))
	}
	return b.String()
}

func newObserver(fallback Logger, cfg InstrumentationConfig) SchedulerObserver {
	var chain observerChain
	if cfg.Observer != nil {
		chain = append(chain, cfg.Observer)
	}
	if cfg.LogSummaries {
		logger := cfg.Logger
		if logger == nil {
			logger = fallback
		}
		if logger != nil {
			chain = append(chain, summaryLogger{logger: logger, format: cfg.Format})
		}
	}

	switch len(chain) {
	case 0:
		return noopObserver{}
	case 1:
		return chain[0]
	default:
		return chain
	}
}

type noopObserver struct{}

func (noopObserver) WorkGroupCompleted(WorkGroupSummary) {}
