package ecs

import (
	"errors"
	"testing"
	"time"
)

type logEntry struct {
	level  string
	msg    string
	fields map[string]any
}

type recordingLogger struct {
	bound   map[string]any
	entries *[]logEntry
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{bound: map[string]any{}, entries: &[]logEntry{}}
}

func (l *recordingLogger) With(key string, value any) Logger {
	bound := make(map[string]any, len(l.bound)+1)
	for k, v := range l.bound {
		bound[k] = v
	}
	bound[key] = value
	return &recordingLogger{bound: bound, entries: l.entries}
}

func (l *recordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *recordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }

func (l *recordingLogger) record(level, msg string, args []any) {
	fields := make(map[string]any, len(l.bound)+len(args)/2)
	for k, v := range l.bound {
		fields[k] = v
	}
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			fields[key] = args[i+1]
		}
	}
	*l.entries = append(*l.entries, logEntry{level: level, msg: msg, fields: fields})
}

func sampleSummary() WorkGroupSummary {
	return WorkGroupSummary{
		WorkGroupID:     "movement",
		Tick:            42,
		Duration:        5 * time.Millisecond,
		SystemsTotal:    2,
		SystemsExecuted: 1,
		SystemsSkipped:  1,
		ComponentReads:  []ComponentType{"controllable", "velocity"},
		ComponentWrites: []ComponentType{"position"},
	}
}

func TestSummaryLoggerFields(t *testing.T) {
	logger := newRecordingLogger()
	summaryLogger{logger: logger, format: SummaryFormatFields}.WorkGroupCompleted(sampleSummary())

	if len(*logger.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(*logger.entries))
	}
	entry := (*logger.entries)[0]
	if entry.msg != "work group completed" || entry.level != "info" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.fields["work_group"] != "movement" {
		t.Fatalf("expected work_group field, got %v", entry.fields["work_group"])
	}
	if entry.fields["component_reads"] != "controllable,velocity" {
		t.Fatalf("unexpected reads field: %v", entry.fields["component_reads"])
	}
	if entry.fields["systems_skipped"] != 1 {
		t.Fatalf("unexpected skipped field: %v", entry.fields["systems_skipped"])
	}
	if entry.fields["duration_ms"] != float64(5) {
		t.Fatalf("unexpected duration: %v", entry.fields["duration_ms"])
	}
	if _, ok := entry.fields["error"]; ok {
		t.Fatalf("error field must be absent on success")
	}
}

func TestSummaryLoggerObject(t *testing.T) {
	logger := newRecordingLogger()
	summary := sampleSummary()
	summary.Error = errors.New("boom")
	summaryLogger{logger: logger, format: SummaryFormatObject}.WorkGroupCompleted(summary)

	if len(*logger.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(*logger.entries))
	}
	entry := (*logger.entries)[0]
	if entry.level != "error" {
		t.Fatalf("failed groups log at error level, got %s", entry.level)
	}
	object, ok := entry.fields["summary"].(map[string]any)
	if !ok {
		t.Fatalf("expected nested summary, got %T", entry.fields["summary"])
	}
	if object["tick"] != uint64(42) {
		t.Fatalf("unexpected tick: %v", object["tick"])
	}
	if object["error"] != "boom" {
		t.Fatalf("unexpected error field: %v", object["error"])
	}
	if _, flat := entry.fields["tick"]; flat {
		t.Fatalf("object format must not repeat fields at the top level")
	}
}

type countingObserver struct{ calls int }

func (c *countingObserver) WorkGroupCompleted(WorkGroupSummary) { c.calls++ }

func TestNewObserver(t *testing.T) {
	if _, ok := newObserver(noopLogger{}, InstrumentationConfig{}).(noopObserver); !ok {
		t.Fatalf("expected noop observer without configuration")
	}

	custom := &countingObserver{}
	if got := newObserver(noopLogger{}, InstrumentationConfig{Observer: custom}); got != SchedulerObserver(custom) {
		t.Fatalf("expected single observer to be returned as-is")
	}

	logger := newRecordingLogger()
	chain := newObserver(logger, InstrumentationConfig{Observer: custom, LogSummaries: true})
	if _, ok := chain.(observerChain); !ok {
		t.Fatalf("expected observer chain, got %T", chain)
	}
	chain.WorkGroupCompleted(sampleSummary())
	if custom.calls != 1 {
		t.Fatalf("expected custom observer to be called once, got %d", custom.calls)
	}
	if len(*logger.entries) != 1 {
		t.Fatalf("expected structured log entry, got %d", len(*logger.entries))
	}
}

func TestSummaryLoggerOverridesSchedulerLogger(t *testing.T) {
	schedulerLogger := newRecordingLogger()
	summaries := newRecordingLogger()
	newObserver(schedulerLogger, InstrumentationConfig{LogSummaries: true, Logger: summaries}).WorkGroupCompleted(sampleSummary())

	if len(*schedulerLogger.entries) != 0 {
		t.Fatalf("scheduler logger must not receive summaries")
	}
	if len(*summaries.entries) != 1 {
		t.Fatalf("summary logger should receive the summary")
	}
}

func TestJoinKinds(t *testing.T) {
	if got := joinKinds(nil); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
	if got := joinKinds([]ComponentType{"a", "b"}); got != "a,b" {
		t.Fatalf("unexpected join: %q", got)
	}
}
