package xlog

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xrbset/lib/infra"
)

func TestLogLevelString(t *testing.T) {
	require.Equal(t, "DEBUG", LogLevelDebug.String())
	require.Equal(t, "INFO", LogLevelInfo.String())
	require.Equal(t, "WARN", LogLevelWarn.String())
	require.Equal(t, "ERROR", LogLevelError.String())
	require.Equal(t, zapcore.DebugLevel, LogLevelDebug.zapLevel())
	require.Equal(t, zapcore.InfoLevel, LogLevelInfo.zapLevel())
	require.Equal(t, zapcore.WarnLevel, LogLevelWarn.zapLevel())
	require.Equal(t, zapcore.ErrorLevel, LogLevelError.zapLevel())
}

func TestParseLogLevelAndEncoder(t *testing.T) {
	testcases := []struct {
		in  string
		lvl logLevel
		ok  bool
	}{
		{"debug", LogLevelDebug, true},
		{" Info ", LogLevelInfo, true},
		{"WARN", LogLevelWarn, true},
		{"error", LogLevelError, true},
		{"trace", LogLevelDebug, false},
		{"", LogLevelDebug, false},
	}
	for _, tc := range testcases {
		lvl, ok := ParseLogLevel(tc.in)
		require.Equal(t, tc.ok, ok, tc.in)
		require.Equal(t, tc.lvl, lvl, tc.in)
	}

	enc, ok := ParseLogEncoder("JSON")
	require.True(t, ok)
	require.Equal(t, JSON, enc)
	enc, ok = ParseLogEncoder("text")
	require.True(t, ok)
	require.Equal(t, PlainText, enc)
	_, ok = ParseLogEncoder("yaml")
	require.False(t, ok)
}

func TestGetLogLevelOrDefault(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, getLogLevelOrDefault(""))
	require.Equal(t, zapcore.DebugLevel, getLogLevelOrDefault("  "))
	require.Equal(t, zapcore.InfoLevel, getLogLevelOrDefault("info"))
	require.Equal(t, zapcore.WarnLevel, getLogLevelOrDefault("WARN"))
	require.Equal(t, zapcore.ErrorLevel, getLogLevelOrDefault("Error"))
	require.Equal(t, zapcore.DebugLevel, getLogLevelOrDefault("unknown"))
}

func TestXLoggerLevelFromEnv(t *testing.T) {
	t.Setenv("XLOG_LVL", "warn")
	logger := NewXLogger(WithXLoggerWriter(&bytes.Buffer{}))
	require.Equal(t, "warn", logger.Level())

	// The option wins over the env.
	logger = NewXLogger(WithXLoggerWriter(&bytes.Buffer{}), WithXLoggerLevel(LogLevelError))
	require.Equal(t, "error", logger.Level())
}

func decodeEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	entries := make([]map[string]any, 0, 8)
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]any{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		entries = append(entries, entry)
	}
	return entries
}

func TestXLogger_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(
		WithXLoggerWriter(buf),
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerEncoder(JSON),
	)
	require.NotNil(t, logger.zap())

	logger.Debug("debug message", zap.Int("key", 1))
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error(errors.New("plain"), "error message")
	logger.Logf(zapcore.InfoLevel, "formatted %d", 42)
	require.NoError(t, logger.Sync())

	entries := decodeEntries(t, buf)
	require.Len(t, entries, 5)
	require.Equal(t, "DEBUG", entries[0]["lvl"])
	require.Equal(t, "debug message", entries[0]["msg"])
	require.Equal(t, float64(1), entries[0]["key"])
	require.Contains(t, entries[0]["callAt"], "zap_test.go")
	require.NotEmpty(t, entries[0]["ts"])
	require.Equal(t, "INFO", entries[1]["lvl"])
	require.Equal(t, "WARN", entries[2]["lvl"])
	require.Equal(t, "ERROR", entries[3]["lvl"])
	require.Equal(t, "plain", entries[3]["error"])
	require.Equal(t, "formatted 42", entries[4]["msg"])
}

func TestXLogger_ErrorStack(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(WithXLoggerWriter(buf), WithXLoggerLevel(LogLevelInfo))

	err := infra.WrapErrorStackWithMessage(errors.New("root cause"), "wrapped")
	logger.ErrorStack(err, "with stack", zap.String("cmd", "set_insert"))
	logger.ErrorStack(errors.New("no stack"), "without stack")
	logger.ErrorStackf(err, "stack %s", "formatted")
	logger.ErrorStack(nil, "nil error")

	entries := decodeEntries(t, buf)
	require.Len(t, entries, 4)

	require.Equal(t, "wrapped: root cause", entries[0]["error"])
	require.Equal(t, "set_insert", entries[0]["cmd"])
	frames, ok := entries[0]["errorStack"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, frames)
	require.Contains(t, frames[0], "TestXLogger_ErrorStack")

	require.Equal(t, "no stack", entries[1]["error"])
	require.NotContains(t, entries[1], "errorStack")

	require.Equal(t, "stack formatted", entries[2]["msg"])
	require.Contains(t, entries[2], "errorStack")

	require.NotContains(t, entries[3], "error")
}

func TestXLogger_IncreaseLogLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(WithXLoggerWriter(buf), WithXLoggerLevel(LogLevelDebug))
	child := logger.Named("rbscript")

	logger.IncreaseLogLevel(zapcore.WarnLevel)
	require.Equal(t, "warn", logger.Level())
	require.Equal(t, "warn", child.Level())

	logger.Info("dropped")
	child.Debug("dropped")
	child.Warn("kept")

	entries := decodeEntries(t, buf)
	require.Len(t, entries, 1)
	require.Equal(t, "kept", entries[0]["msg"])
	require.Equal(t, "rbscript", entries[0]["component"])
}

func TestXLogger_PlainText(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(
		WithXLoggerWriter(buf),
		WithXLoggerEncoder(PlainText),
		WithXLoggerLevel(LogLevelInfo),
		WithXLoggerLevelEncoder(nil),
		WithXLoggerTimeEncoder(nil),
	)
	logger.Debug("hidden")
	logger.Info("plain message", zap.String("set", "0"))

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "plain message")
	require.Contains(t, out, `{"set": "0"}`)
	require.False(t, strings.HasPrefix(out, "{"))
}

type testBanner struct{}

func (testBanner) JSON() string {
	return "{\"app\":\"rbscript\"}"
}

func (testBanner) PlainText() string {
	return "rbscript\n"
}

func TestXLogger_Banner(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewXLogger(WithXLoggerWriter(buf), WithXLoggerLevel(LogLevelError))
	logger.Banner(testBanner{})
	logger.Banner(testBanner{})
	logger.Named("child").Banner(testBanner{})
	logger.Banner(nil)
	require.Equal(t, "{\"banner\":\"{\\\"app\\\":\\\"rbscript\\\"}\"}\n", buf.String())

	buf.Reset()
	logger = NewXLogger(WithXLoggerWriter(buf), WithXLoggerEncoder(PlainText))
	logger.Banner(testBanner{})
	require.Equal(t, "rbscript\n\n", buf.String())
}

func TestXLogger_Options(t *testing.T) {
	require.Panics(t, func() {
		NewXLogger(WithXLoggerEncoder(_encMax))
	})
	require.Panics(t, func() {
		NewXLogger(WithXLoggerWriter(nil))
	})
	require.NotPanics(t, func() {
		NewXLogger(nil, WithXLoggerWriter(&bytes.Buffer{}))
	})

	nop := NewNopXLogger()
	require.NotPanics(t, func() {
		nop.Info("dropped")
		nop.ErrorStack(infra.NewErrorStack("dropped"), "dropped")
		nop.Named("child").Warn("dropped")
		nop.Banner(testBanner{})
	})
	require.Equal(t, "fatal", nop.Level())
}
