// Package logging adapts zap to the runtime.Logger interface the game core
// logs through, for hosts other than the Nakama server.
package logging

import (
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
	"go.uber.org/zap"
)

type zapLogger struct {
	base   *zap.Logger
	fields map[string]interface{}
}

var _ runtime.Logger = (*zapLogger)(nil)

// New wraps a zap logger.
func New(base *zap.Logger) runtime.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return &zapLogger{base: base, fields: map[string]interface{}{}}
}

// NewDevelopment returns a console logger, at debug level when verbose.
func NewDevelopment(verbose bool) (runtime.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	base, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return New(base), nil
}

// Nop discards everything.
func Nop() runtime.Logger {
	return New(nil)
}

func (l *zapLogger) Debug(format string, v ...interface{}) {
	l.base.Debug(fmt.Sprintf(format, v...))
}

func (l *zapLogger) Info(format string, v ...interface{}) {
	l.base.Info(fmt.Sprintf(format, v...))
}

func (l *zapLogger) Warn(format string, v ...interface{}) {
	l.base.Warn(fmt.Sprintf(format, v...))
}

func (l *zapLogger) Error(format string, v ...interface{}) {
	l.base.Error(fmt.Sprintf(format, v...))
}

func (l *zapLogger) WithField(key string, v interface{}) runtime.Logger {
	return l.WithFields(map[string]interface{}{key: v})
}

func (l *zapLogger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	zf := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		merged[k] = v
		zf = append(zf, zap.Any(k, v))
	}
	return &zapLogger{base: l.base.With(zf...), fields: merged}
}

func (l *zapLogger) Fields() map[string]interface{} {
	out := make(map[string]interface{}, len(l.fields))
	for k, v := range l.fields {
		out[k] = v
	}
	return out
}
