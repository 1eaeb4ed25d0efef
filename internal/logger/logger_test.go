package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{" warn ", WarnLevel},
		{"error", ErrorLevel},
		{"info", InfoLevel},
		{"verbose", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: WarnLevel, Output: &buf})

	l.Info("hidden")
	assert.Empty(t, buf.String())

	l.Warn("shown", "component", "ner")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "component=ner")
}

func TestNew_JSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: DebugLevel, Output: &buf, JSON: true}).With("request", "r1")

	l.Debug("stage finished", "names", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "stage finished", entry["msg"])
	assert.Equal(t, "r1", entry["request"])
	assert.EqualValues(t, 3, entry["names"])
}

func TestNop(t *testing.T) {
	l := NewNop()
	assert.NotPanics(t, func() {
		l.With("k", "v").Error("ignored", "err", "boom")
	})
}

func TestStandardLog(t *testing.T) {
	var buf bytes.Buffer
	l := New(&Config{Level: InfoLevel, Output: &buf, JSON: true}).With("transport", "stdio")

	StandardLog(l, ErrorLevel).Print("failed to read request")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Contains(t, entry["msg"], "failed to read request")
	assert.Equal(t, "stdio", entry["transport"])
}

type recordingLogger struct {
	nopLogger
	errors []string
}

func (r *recordingLogger) Error(msg string, _ ...any) { r.errors = append(r.errors, msg) }

func TestStandardLog_OtherLoggers(t *testing.T) {
	rec := &recordingLogger{}
	StandardLog(rec, ErrorLevel).Println("connection reset")
	assert.Equal(t, []string{"connection reset"}, rec.errors)

	assert.NotPanics(t, func() { StandardLog(NewNop(), WarnLevel).Print("dropped") })
}
