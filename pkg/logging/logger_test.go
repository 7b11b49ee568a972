package logging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed(level zapcore.Level) (*ZapLogger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewZapLogger(zap.New(core)), logs
}

func TestZapLogger_Levels(t *testing.T) {
	logger, logs := observed(zap.InfoLevel)

	logger.LogInfo("fetched %d records", 3)
	logger.LogWarning("no budgets")
	logger.LogError("publish failed: %s", "denied")
	logger.LogSuccess("sent")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)
	assert.Equal(t, "fetched 3 records", entries[0].Message)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
	assert.Equal(t, "publish failed: denied", entries[2].Message)
	assert.Equal(t, true, entries[3].ContextMap()["success"])
}

func TestZapLogger_StatusReportsElapsed(t *testing.T) {
	logger, logs := observed(zap.DebugLevel)
	clock := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	logger.now = func() time.Time { return clock }

	status := logger.Status("Fetching costs")
	clock = clock.Add(1500 * time.Millisecond)
	status.Stop()

	finished := logs.FilterMessage("step finished").All()
	require.Len(t, finished, 1)
	fields := finished[0].ContextMap()
	assert.Equal(t, "Fetching costs", fields["step"])
	assert.Equal(t, 1500*time.Millisecond, fields["elapsed"])
}

func TestZapLogger_With(t *testing.T) {
	logger, logs := observed(zap.InfoLevel)

	logger.With(zap.String("mode", "chart")).LogInfo("start")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "chart", logs.All()[0].ContextMap()["mode"])
}

func TestNewZapLoggerNil(t *testing.T) {
	assert.NotPanics(t, func() { NewZapLogger(nil).LogError("ignored") })
}
