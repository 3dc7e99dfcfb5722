package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level Level
		ok    bool
	}{
		{"trace", LevelTrace, true},
		{"DEBUG", LevelDebug, true},
		{" Info ", LevelInfo, true},
		{"warning", LevelWarn, true},
		{"ERROR", LevelError, true},
		{"off", LevelNone, true},
		{"verbose", LevelAll, false},
	}
	for _, tt := range tests {
		lvl, ok := ParseLogLevelP(tt.name)
		require.Equal(t, tt.ok, ok, tt.name)
		require.Equal(t, tt.level, lvl, tt.name)
	}
	require.Equal(t, "WARN", LevelWarn.String())
	require.Equal(t, "UNKNOWN", Level(42).String())

	var lvl Level
	require.NoError(t, lvl.UnmarshalText([]byte("debug")))
	require.Equal(t, LevelDebug, lvl)
	require.Error(t, lvl.UnmarshalText([]byte("loud")))
}

func TestGetLevelPattern(t *testing.T) {
	defer ResetLevels()
	defer SetDefaultLevel(DefaultLevel())

	SetDefaultLevel(LevelWarn)
	SetLevel("tracker*", LevelDebug)
	SetLevel("tracker-loop", LevelError)

	require.Equal(t, LevelDebug, GetLevel("tracker"))
	require.Equal(t, LevelError, GetLevel("tracker-loop"))
	require.Equal(t, LevelWarn, GetLevel("render"))
}

func TestLevelLoggerWrite(t *testing.T) {
	defer ResetLevels()
	SetLevel("test-write", LevelInfo)

	buf := &bytes.Buffer{}
	log := NewLog("test-write", buf)
	log.Debug("hidden")
	log.Info("session", 1, "started")
	log.Warnf("%d points", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.Contains(t, lines[0], "INFO ")
	require.True(t, strings.HasSuffix(lines[0], "session 1 started"), lines[0])
	require.Contains(t, lines[1], "WARN ")
	require.True(t, strings.HasSuffix(lines[1], "3 points"), lines[1])
	require.NotContains(t, buf.String(), "\033[")
}

func TestLevelLoggerNone(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLog("test-none", buf)
	log.SetLevel(LevelNone)
	log.Error("nothing")
	require.Equal(t, 0, buf.Len())
	require.False(t, log.ErrorEnabled())
}

func TestConfigureDiscard(t *testing.T) {
	defer ResetLevels()
	defer Close()

	conf := PresetConfigDiscard
	conf.Levels = []LevelConfig{{Pattern: "conf-*", Level: "TRACE"}}
	require.NoError(t, Configure(&conf))
	require.Equal(t, LevelTrace, GetLevel("conf-test"))

	l := GetLog("conf-test")
	require.True(t, l.TraceEnabled())
	// no destination, nothing to fail
	l.Info("dropped")
}

func TestConfigureBadSchedule(t *testing.T) {
	defer Close()
	conf := Config{
		Filename:       t.TempDir() + "/farmsquare.log",
		RotateSchedule: "every tuesday",
	}
	require.Error(t, Configure(&conf))
}

func TestSlogWrap(t *testing.T) {
	defer ResetLevels()
	SetLevel("test-slog", LevelInfo)

	buf := &bytes.Buffer{}
	sl := Wrap(NewLog("test-slog", buf), func(name string, ctx context.Context, r slog.Record) bool {
		return r.Message != "skip"
	})
	sl.Debug("quiet")
	sl.Info("skip")
	sl.Info("recorded", "points", 4)
	sl.With("session", "abc").Error("failed")

	out := buf.String()
	require.NotContains(t, out, "quiet")
	require.NotContains(t, out, "skip")
	require.Contains(t, out, "recorded points=4")
	require.Contains(t, out, "failed session=abc")
}
