// Package logging provides the structured logger used when the notifier runs
// unattended (Lambda), where spinners and colors make no sense.
package logging

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/diillson/aws-cost-notifier-go/internal/shared/types"
)

// NewZap builds a JSON production logger. debug lowers the level to Debug.
func NewZap(debug bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// ZapLogger adapts a zap logger to types.Logger.
type ZapLogger struct {
	log *zap.Logger
	now func() time.Time
}

// NewZapLogger wraps logger. A nil logger discards everything.
func NewZapLogger(logger *zap.Logger) *ZapLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLogger{log: logger, now: time.Now}
}

// With returns a logger carrying the extra fields on every entry.
func (l *ZapLogger) With(fields ...zap.Field) *ZapLogger {
	return &ZapLogger{log: l.log.With(fields...), now: l.now}
}

func (l *ZapLogger) LogInfo(format string, a ...interface{}) {
	l.log.Info(fmt.Sprintf(format, a...))
}

func (l *ZapLogger) LogWarning(format string, a ...interface{}) {
	l.log.Warn(fmt.Sprintf(format, a...))
}

func (l *ZapLogger) LogError(format string, a ...interface{}) {
	l.log.Error(fmt.Sprintf(format, a...))
}

func (l *ZapLogger) LogSuccess(format string, a ...interface{}) {
	l.log.Info(fmt.Sprintf(format, a...), zap.Bool("success", true))
}

// Status logs the start of a step and, on Stop, how long it took.
func (l *ZapLogger) Status(message string) types.StatusHandle {
	l.log.Debug(message)
	return &stepHandle{log: l.log, message: message, started: l.now(), now: l.now}
}

// Sync flushes buffered entries.
func (l *ZapLogger) Sync() {
	_ = l.log.Sync()
}

type stepHandle struct {
	log     *zap.Logger
	message string
	started time.Time
	now     func() time.Time
}

func (h *stepHandle) Update(message string) {
	h.message = message
	h.log.Debug(message)
}

func (h *stepHandle) Stop() {
	h.log.Debug("step finished", zap.String("step", h.message), zap.Duration("elapsed", h.now().Sub(h.started)))
}
