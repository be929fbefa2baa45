package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    zapcore.Level
		wantErr bool
	}{
		{input: "", want: zapcore.InfoLevel},
		{input: "info", want: zapcore.InfoLevel},
		{input: "debug", want: zapcore.DebugLevel},
		{input: "warn", want: zapcore.WarnLevel},
		{input: "bogus", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lvl, err := ParseLogLevel(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, lvl.Level())
		})
	}
}

func TestLoggerReportsCallSite(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewLogger(zap.New(core, zap.AddCaller()))

	l.Warnw("refresh time over interval")
	l.Debugw("skipping counter line")

	require.Equal(t, 2, logs.Len())
	for _, e := range logs.All() {
		require.True(t, e.Caller.Defined)
		assert.Equal(t, "log_test.go", filepath.Base(e.Caller.File))
	}
}

func TestNewLoggerLevels(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	l := NewLogger(zap.New(core))

	l.Debugw("hidden")
	l.Infow("hidden")
	l.Warnw("shown", "interface", "enp1s0np0")

	require.Equal(t, 1, logs.Len())
	e := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, e.Level)
	assert.Equal(t, "enp1s0np0", e.ContextMap()["interface"])
}

func TestNilLoggerIsNop(t *testing.T) {
	var l *toolLogger
	assert.NotPanics(t, func() {
		l.Debugw("nothing")
		l.Warnw("nothing")
	})
}

func TestCreateLoggerWithFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "nfptool.log")

	lvl, err := ParseLogLevel("debug")
	require.NoError(t, err)

	l := CreateLogger(lvl, logFile)
	l.Infow("hello", "ifc", "enp1s0np0")
	require.NoError(t, l.Desugar().Sync())

	b, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"ifc":"enp1s0np0"`)
}

func TestConsoleLoggerConfig(t *testing.T) {
	lvl, err := ParseLogLevel("warn")
	require.NoError(t, err)

	c := ConsoleLoggerConfig(lvl)
	assert.Equal(t, "console", c.Encoding)
	assert.Equal(t, zapcore.WarnLevel, c.Level.Level())
	assert.True(t, c.DisableStacktrace)

	l := CreateLoggerWithConfig(c)
	assert.NotNil(t, l.Desugar())
}
