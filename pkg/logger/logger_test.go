package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJSONLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	gin.SetMode(gin.ReleaseMode)
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })

	buf := &bytes.Buffer{}
	return NewWithWriter(buf, level), buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestGetLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, getLogLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, getLogLevel("warning"))
	assert.Equal(t, slog.LevelError, getLogLevel("error"))
	assert.Equal(t, slog.LevelInfo, getLogLevel("nonsense"))
}

func TestLogBookingCreated(t *testing.T) {
	l, buf := newJSONLogger(t, "info")

	l.LogBookingCreated(context.Background(), "b-1", "TK-ABC123", "u-1")

	record := decodeLine(t, buf)
	assert.Equal(t, "Booking Created", record["msg"])
	assert.Equal(t, "TK-ABC123", record["booking_code"])
	assert.Equal(t, "u-1", record["user_id"])
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newJSONLogger(t, "warn")

	l.Info("dropped")
	assert.Zero(t, buf.Len())

	l.WithComponent("scheduler").Warn("kept")
	record := decodeLine(t, buf)
	assert.Equal(t, "scheduler", record["component"])
}

func TestWatermillAdapter(t *testing.T) {
	l, buf := newJSONLogger(t, "info")

	l.Watermill().With(watermill.LogFields{"topic": "payments"}).Error("publish failed", errors.New("boom"), nil)

	record := decodeLine(t, buf)
	assert.Equal(t, "publish failed", record["msg"])
	assert.Equal(t, "payments", record["topic"])
	assert.Equal(t, "boom", record["error"])
	assert.Equal(t, "watermill", record["component"])
}
