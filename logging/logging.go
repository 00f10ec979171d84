// Package logging adapts zap to the ecs.Logger interface.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jaxmatrix/game-experiments/ecs"
)

// Formats accepted by New.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds a zap logger writing to outputs, stderr when none are given.
// Level is a zap level name ("debug", "info", "warn", "error") and format is
// FormatJSON or FormatConsole.
func New(level, format string, outputs ...string) (*zap.Logger, error) {
	zapLevel, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	switch format {
	case FormatJSON:
	case FormatConsole, "":
		format = FormatConsole
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}

	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	config := zap.Config{
		Level:       zap.NewAtomicLevelAt(zapLevel),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         format,
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}
	return config.Build()
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// Wrap exposes l as an ecs.Logger. Arguments after the message are
// alternating keys and values.
func Wrap(l *zap.Logger) ecs.Logger {
	if l == nil {
		return Nop()
	}
	return zapLogger{sugar: l.Sugar()}
}

// Nop returns a logger that drops everything.
func Nop() ecs.Logger {
	return zapLogger{sugar: zap.NewNop().Sugar()}
}

func (l zapLogger) With(key string, value any) ecs.Logger {
	return zapLogger{sugar: l.sugar.With(key, value)}
}

func (l zapLogger) Info(msg string, args ...any) {
	l.sugar.Infow(msg, args...)
}

func (l zapLogger) Error(msg string, args ...any) {
	l.sugar.Errorw(msg, args...)
}
