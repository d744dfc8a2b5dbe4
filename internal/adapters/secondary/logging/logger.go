package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fredcamaral/deckforge/internal/domain/entities"
	"github.com/fredcamaral/deckforge/internal/domain/ports"
)

// Logger provides component-scoped logging backed by zap
type Logger struct {
	component string
	sugar     *zap.SugaredLogger
	level     zap.AtomicLevel
}

// New builds the root logger from logging configuration.
// JSON output uses zap's production encoder; otherwise the console encoder is used.
func New(cfg entities.LoggingConfig) (*Logger, error) {
	var zcfg zap.Config
	if cfg.JSONFormat {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.DisableStacktrace = true
	}

	level := zap.NewAtomicLevelAt(toZapLevel(cfg.GetLevel()))
	if cfg.Verbose {
		level.SetLevel(zapcore.DebugLevel)
	}
	zcfg.Level = level

	base, err := zcfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return &Logger{
		component: "deckforge",
		sugar:     base.Sugar(),
		level:     level,
	}, nil
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{
		component: "nop",
		sugar:     zap.NewNop().Sugar(),
		level:     zap.NewAtomicLevelAt(zapcore.ErrorLevel),
	}
}

// Wrap adapts an existing zap logger, mostly for tests using zaptest/observer
func Wrap(base *zap.Logger, component string) *Logger {
	return &Logger{
		component: component,
		sugar:     base.Sugar().With("component", component),
		level:     zap.NewAtomicLevelAt(zapcore.DebugLevel),
	}
}

// Named returns a child logger tagged with the given component
func (l *Logger) Named(component string) *Logger {
	return &Logger{
		component: component,
		sugar:     l.sugar.With("component", component),
		level:     l.level,
	}
}

// Component returns the component tag
func (l *Logger) Component() string {
	return l.component
}

// Debug logs debug messages
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.sugar.Debugf(msg, args...)
}

// Info logs informational messages
func (l *Logger) Info(msg string, args ...interface{}) {
	l.sugar.Infof(msg, args...)
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.sugar.Warnf(msg, args...)
}

// Error logs error messages
func (l *Logger) Error(msg string, args ...interface{}) {
	l.sugar.Errorf(msg, args...)
}

// Success logs a completed operation at info level
func (l *Logger) Success(msg string, args ...interface{}) {
	l.sugar.With("outcome", "success").Infof(msg, args...)
}

// SetLevel updates the logging level
func (l *Logger) SetLevel(level entities.LogLevel) {
	l.level.SetLevel(toZapLevel(level))
}

// Sync flushes buffered entries
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

func toZapLevel(level entities.LogLevel) zapcore.Level {
	switch level {
	case entities.LogLevelDebug:
		return zapcore.DebugLevel
	case entities.LogLevelWarn:
		return zapcore.WarnLevel
	case entities.LogLevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

var _ ports.Logger = (*Logger)(nil)
