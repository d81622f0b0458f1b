package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNew_ContextIDs(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "debug", "json")

	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), "u-9")
	l.With("component", "test").InfoContext(ctx, "hello", "k", "v")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "req-1", rec["request_id"])
	assert.Equal(t, "u-9", rec["user_id"])
	assert.Equal(t, "test", rec["component"])
	assert.Equal(t, "req-1", RequestID(ctx))
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", "text")
	l.Info("dropped")
	assert.Zero(t, buf.Len())
	l.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestHelpersUseDefault(t *testing.T) {
	prev := Get()
	t.Cleanup(func() { SetDefault(prev) })

	var buf bytes.Buffer
	SetDefault(New(&buf, "debug", "text"))

	EnterMethod("svc.Do", "id", "1")
	ExitMethodWithError("svc.Do", assert.AnError)
	ExternalServiceCall("sendgrid", "Send")

	out := buf.String()
	assert.Contains(t, out, "method=svc.Do")
	assert.Contains(t, out, "event=enter")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "service=sendgrid")
}
