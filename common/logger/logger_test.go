package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level Level) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := New(&Config{
		Level:       level,
		Output:      buf,
		JSONFormat:  true,
		ShowCaller:  false,
		TimeFormat:  "2006-01-02T15:04:05Z07:00",
		ServiceName: "credential-service",
	})
	return l, buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(WARN)

	l.Info("dropped")
	l.Warn("kept", "username", "jdoe")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["message"])
	assert.Equal(t, "jdoe", entries[0]["username"])
	assert.Equal(t, "credential-service", entries[0]["service"])
}

func TestWithContextAddsRequestFields(t *testing.T) {
	l, buf := newBufferLogger(DEBUG)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserKey, "admin")
	l.WithContext(ctx).Info("hello")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0]["request_id"])
	assert.Equal(t, "admin", entries[0]["user"])
}

func TestLogEventFailureIsError(t *testing.T) {
	l, buf := newBufferLogger(DEBUG)

	l.LogEvent(EventLog{
		Event:    "CREDENTIAL_EXPORT",
		Action:   "download",
		Entity:   "credential_session",
		EntityID: "abc",
		Success:  false,
		Error:    "no credentials",
	})

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0]["level"])
	assert.Equal(t, "no credentials", entries[0]["error"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, WARN, ParseLevel("warning"))
	assert.Equal(t, INFO, ParseLevel("nonsense"))
}

func TestSetDefaultReachesPackageHelpers(t *testing.T) {
	previous := Default()
	t.Cleanup(func() { SetDefault(previous) })

	l, buf := newBufferLogger(INFO)
	SetDefault(l)
	SetDefault(nil)

	Info("configured", "k", "v")
	WithContext(context.WithValue(context.Background(), RequestIDKey, "req-9")).Warn("scoped")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "configured", lines[0]["message"])
	assert.Equal(t, "credential-service", lines[0]["service"])
	assert.Equal(t, "req-9", lines[1]["request_id"])
}

func TestColorEnabled(t *testing.T) {
	tests := []struct {
		setting  string
		terminal bool
		want     bool
	}{
		{"", true, true},
		{"", false, false},
		{"true", false, true},
		{"FALSE", true, false},
		{"0", true, false},
		{"bogus", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.setting, func(t *testing.T) {
			assert.Equal(t, tt.want, colorEnabled(tt.setting, tt.terminal))
		})
	}
}

func TestConfigureInstallsDefault(t *testing.T) {
	previous := Default()
	t.Cleanup(func() { SetDefault(previous) })

	l := Configure("debug", "json", "hms-test")
	assert.Same(t, l, Default())
}
