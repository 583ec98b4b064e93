package logging

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level Level) (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return FromZap(zap.New(core)), logs
}

func TestLogger_KeyValueFields(t *testing.T) {
	logger, logs := newObservedLogger(LevelDebug)

	logger.With("component", "apisports").Warn("upstream failed",
		"status", 502,
		"error", errors.New("bad gateway"),
		"dangling",
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	require.Equal(t, "apisports", ctx["component"])
	require.EqualValues(t, 502, ctx["status"])
	require.Equal(t, "bad gateway", ctx["error"])
	require.Contains(t, ctx, "dangling")
	require.Equal(t, zapcore.WarnLevel, entries[0].Level)
}

func TestLogger_LevelFilter(t *testing.T) {
	logger, logs := newObservedLogger(LevelWarn)

	logger.Info("dropped")
	logger.Error("kept")

	require.Equal(t, 1, logs.Len())
	require.Equal(t, "kept", logs.All()[0].Message)
}

func TestLogger_ContextAddsTraceFields(t *testing.T) {
	logger, logs := newObservedLogger(LevelInfo)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

	logger.InfoContext(ctx, "with trace")
	logger.InfoContext(context.Background(), "without trace")

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", entries[0].ContextMap()["trace_id"])
	require.NotContains(t, entries[1].ContextMap(), "trace_id")
}

func TestLogger_NilUsesDefault(t *testing.T) {
	logger, logs := newObservedLogger(LevelInfo)
	SetDefault(logger)
	t.Cleanup(func() { SetDefault(nil) })

	var nilLogger *Logger
	nilLogger.Info("through default")

	require.Equal(t, 1, logs.Len())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"":        LevelInfo,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
	}
	for raw, want := range tests {
		got, err := ParseLevel(raw)
		require.NoError(t, err)
		require.Equal(t, want, got, raw)
	}

	_, err := ParseLevel("verbose")
	require.Error(t, err)
}
