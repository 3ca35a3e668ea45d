package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		out = append(out, entry)
	}
	return out
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := New(WarnLevel, &buf)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown", map[string]interface{}{"steps": 20})
	logger.Error("also shown")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "shown", entries[0]["message"])
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, float64(20), entries[0]["steps"])
	assert.Contains(t, entries[0]["caller"], "logging/logger_test.go")
	assert.Equal(t, "ERROR", entries[1]["level"])
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	base := New(DebugLevel, &buf).WithField("service", "optiviz")
	derived := base.WithError(errors.New("boom")).WithFields(map[string]interface{}{"optimizer": "Adam"})

	derived.Info("computed")
	base.Info("plain")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "optiviz", entries[0]["service"])
	assert.Equal(t, "boom", entries[0]["error"])
	assert.Equal(t, "Adam", entries[0]["optimizer"])
	assert.NotContains(t, entries[1], "error", "derived fields must not leak into the parent")
}

func TestFatalExits(t *testing.T) {
	var buf bytes.Buffer
	logger := New(InfoLevel, &buf)
	code := -1
	logger.exit = func(c int) { code = c }

	logger.Fatal("bye")
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "bye")
}

func TestNewLoggerConfig(t *testing.T) {
	l, err := NewLogger(nil)
	require.NoError(t, err)
	assert.Equal(t, InfoLevel, l.Level())

	l, err = NewLogger(&Config{Level: "warning", Format: "text", Output: "stdout"})
	require.NoError(t, err)
	assert.Equal(t, WarnLevel, l.Level())
	assert.Equal(t, TextFormat, l.format)

	_, err = NewLogger(&Config{Format: "xml"})
	assert.Error(t, err)

	assert.Equal(t, InfoLevel, parseLevel("nonsense"))
	assert.Equal(t, DebugLevel, parseLevel("debug"))
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(InfoLevel, &buf)
	l.format = TextFormat

	l.Info("trajectory computed", map[string]interface{}{"steps": 3, "dimension": 2})
	line := buf.String()
	assert.Contains(t, line, "INFO  trajectory computed")
	assert.Contains(t, line, "dimension=2 steps=3")
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	ctxLogger := &CtxLogger{New(InfoLevel, &buf).WithField("request_id", "abc")}
	ctx := ctxLogger.WithContext(context.Background())

	FromContext(ctx).Info("hello")
	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0]["request_id"])

	assert.NotNil(t, FromContext(context.Background()))
}

func TestMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := New(InfoLevel, &buf)

	handler := Middleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/optimizers", nil))
	assert.Equal(t, http.StatusTeapot, rr.Code)

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "/api/v1/optimizers", entries[0]["path"])
	assert.Equal(t, "Request completed", entries[1]["message"])
	assert.Equal(t, float64(http.StatusTeapot), entries[1]["status"])
	assert.Equal(t, "I'm a teapot", entries[1]["error"])
}

func TestZapLogger(t *testing.T) {
	var buf bytes.Buffer
	zl := NewZapLogger(New(InfoLevel, &buf)).With(zap.String("component", "cli"))

	zl.Debug("hidden")
	zl.Info("trajectory", zap.Int("steps", 20), zap.Float64("final", 0.25), zap.Bool("stalled", false), zap.Error(errors.New("none")))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "trajectory", e["message"])
	assert.Equal(t, "cli", e["component"])
	assert.Equal(t, float64(20), e["steps"])
	assert.Equal(t, 0.25, e["final"])
	assert.Equal(t, false, e["stalled"])
	assert.Equal(t, "none", e["error"])
	assert.Contains(t, e["caller"], "logging/logger_test.go")
}
