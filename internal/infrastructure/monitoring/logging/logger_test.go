package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(t *testing.T) (Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return NewLoggerFromCore(core), logs
}

func TestNewLogger_JSONFormat(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "info", Format: "json", OutputPaths: []string{"stdout"}})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormatDefaultsPaths(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	require.Implements(t, (*Leveler)(nil), l)
	assert.Equal(t, "debug", l.(Leveler).Level())
}

func TestNewLogger_InvalidOutputPath(t *testing.T) {
	l, err := NewLogger(LogConfig{OutputPaths: []string{"/nonexistent-dir/sub/fra.log"}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestZapLogger_SetLevel_AppliesToChildren(t *testing.T) {
	l, err := NewLogger(LogConfig{Level: "info"})
	require.NoError(t, err)
	child := l.Named("http").With(String("component", "router"))

	l.(Leveler).SetLevel("error")
	assert.Equal(t, "error", child.(Leveler).Level())
}

func TestZapLogger_WritesFields(t *testing.T) {
	l, logs := newObservedLogger(t)

	l.Info("records ingested",
		String("file", "fra-june.pdf"),
		Int("records", 5),
		Int64("bytes", 2048),
		Float64("rate", 72.66),
		Bool("stale", false),
		Duration("elapsed", 3*time.Second),
		Strings("states", []string{"Odisha", "Chhattisgarh"}),
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, "records ingested", entry.Message)
	ctx := entry.ContextMap()
	assert.Equal(t, "fra-june.pdf", ctx["file"])
	assert.EqualValues(t, 5, ctx["records"])
	assert.EqualValues(t, 2048, ctx["bytes"])
	assert.Equal(t, 72.66, ctx["rate"])
	assert.Equal(t, false, ctx["stale"])
}

func TestZapLogger_Levels(t *testing.T) {
	l, logs := newObservedLogger(t)

	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	levels := make([]zapcore.Level, 0, 4)
	for _, e := range logs.All() {
		levels = append(levels, e.Level)
	}
	assert.Equal(t, []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel}, levels)
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	l, logs := newObservedLogger(t)

	l.Named("extraction").With(String("file", "a.pdf")).Warn("state save failed", Err(errors.New("boom")))

	entry := logs.All()[0]
	assert.Equal(t, "extraction", entry.LoggerName)
	assert.Equal(t, "a.pdf", entry.ContextMap()["file"])
	assert.Equal(t, "boom", entry.ContextMap()["error"])
}

func TestErr_Nil(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestNopLogger_AllMethodsNoOp(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Debug("x")
		l.Info("x")
		l.Warn("x")
		l.Error("x")
		_ = l.With(String("k", "v")).Named("n")
	})
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		" error ": zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestSetDefault(t *testing.T) {
	prev := Default()
	t.Cleanup(func() { SetDefault(prev) })

	l, _ := newObservedLogger(t)
	SetDefault(l)
	assert.Same(t, l, Default())

	SetDefault(nil)
	assert.Same(t, l, Default(), "nil must be ignored")
}

//Personal.AI order the ending
