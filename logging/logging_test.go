package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jaxmatrix/game-experiments/logging"
)

func TestWrapForwardsFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := logging.Wrap(zap.New(core))

	logger.With("work_group", "simulation").Info("step", "tick", 3)
	logger.Error("failed", "err", "boom")

	entries := logs.All()
	require.Len(t, entries, 2)

	assert.Equal(t, "step", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	assert.Equal(t, "simulation", fields["work_group"])
	assert.EqualValues(t, 3, fields["tick"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["err"])
}

func TestWithDoesNotLeak(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := logging.Wrap(zap.New(core))

	base.With("system", "movement")
	base.Info("plain")

	require.Equal(t, 1, logs.Len())
	assert.NotContains(t, logs.All()[0].ContextMap(), "system")
}

func TestNewValidatesInput(t *testing.T) {
	for _, format := range []string{logging.FormatJSON, logging.FormatConsole, ""} {
		l, err := logging.New("info", format)
		require.NoError(t, err, format)
		require.NotNil(t, l)
	}

	_, err := logging.New("loud", logging.FormatJSON)
	assert.Error(t, err)

	_, err = logging.New("info", "xml")
	assert.Error(t, err)
}

func TestNilAndNop(t *testing.T) {
	assert.NotPanics(t, func() {
		logging.Wrap(nil).Info("dropped", "k", 1)
		logging.Nop().With("k", "v").Error("dropped")
	})
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.log")
	l, err := logging.New("info", logging.FormatJSON, path)
	require.NoError(t, err)

	logging.Wrap(l).Info("world generated", "water", 100)
	_ = l.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"world generated"`)
	assert.Contains(t, string(data), `"water":100`)
}
