package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithCorrelationID_UsesIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	ctx := context.WithValue(context.Background(), CorrelatedIDKey, "abc-123")
	logger.WithCorrelationID(ctx).Info("hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "abc-123", record["correlation_id"])
	assert.Equal(t, "hello", record["msg"])
}

func TestGetLoggerInstanceFromContext_PrefersInjectedLogger(t *testing.T) {
	injected := NewLogger(&bytes.Buffer{})
	ctx := context.WithValue(context.Background(), LoggerKeyForContext, injected)

	assert.Same(t, injected, GetLoggerInstanceFromContext(ctx, NewLoggerWithJSONOutput()))
}

func TestGetLoggerInstanceFromContext_FallsBackWithCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	fallback := NewLogger(&buf)
	ctx := context.WithValue(context.Background(), CorrelatedIDKey, "xyz")

	GetLoggerInstanceFromContext(ctx, fallback).Info("fallback")

	assert.Contains(t, buf.String(), `"correlation_id":"xyz"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" WARN "))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewLoggerWithLevel_DropsBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithLevel(&buf, slog.LevelWarn)

	logger.Info("quiet")
	assert.Empty(t, buf.String())

	logger.Warn("loud")
	assert.Contains(t, buf.String(), `"msg":"loud"`)
}
