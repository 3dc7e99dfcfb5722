package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Alphacentaura/FarmSquare/mods/util/glob"
	gometrics "github.com/rcrowley/go-metrics"
)

type Level int

const (
	LevelAll Level = iota
	LevelTrace
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

var logLevelNames = []string{"ALL", "TRACE", "DEBUG", "INFO", "WARN", "ERROR", "NONE"}

// ParseLogLevel is case insensitive, unknown names are LevelAll.
func ParseLogLevel(name string) Level {
	lvl, _ := ParseLogLevelP(name)
	return lvl
}

func ParseLogLevelP(name string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "TRACE":
		return LevelTrace, true
	case "DEBUG":
		return LevelDebug, true
	case "INFO":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	case "NONE", "OFF":
		return LevelNone, true
	default:
		return LevelAll, false
	}
}

func LogLevelName(level Level) string {
	if level >= 0 && int(level) < len(logLevelNames) {
		return logLevelNames[level]
	}
	return "UNKNOWN"
}

func (lvl Level) String() string {
	return LogLevelName(lvl)
}

func (lvl *Level) UnmarshalText(b []byte) error {
	v, ok := ParseLogLevelP(string(b))
	if !ok {
		return fmt.Errorf("invalid log level: %q", string(b))
	}
	*lvl = v
	return nil
}

type Log interface {
	io.Writer

	TraceEnabled() bool
	Trace(...any)
	Tracef(format string, args ...any)
	DebugEnabled() bool
	Debug(...any)
	Debugf(format string, args ...any)
	InfoEnabled() bool
	Info(...any)
	Infof(format string, args ...any)
	WarnEnabled() bool
	Warn(...any)
	Warnf(format string, args ...any)
	ErrorEnabled() bool
	Error(...any)
	Errorf(format string, args ...any)

	LogEnabled(level Level) bool
	Log(level Level, m ...any)
	Logf(level Level, format string, args ...any)

	SetLevel(level Level)
	Level() Level
}

type levelLogger struct {
	name         string
	level        Level
	underlying   []*logWriter
	prefixWidth  int
	enableSrcLoc bool
	// slog compat
	attrs  []slog.Attr
	filter func(string, context.Context, slog.Record) bool
}

var _ Log = (*levelLogger)(nil)

func (l *levelLogger) SetLevel(level Level) { l.level = level }
func (l *levelLogger) Level() Level         { return l.level }

func (l *levelLogger) TraceEnabled() bool { return l.level <= LevelTrace }
func (l *levelLogger) DebugEnabled() bool { return l.level <= LevelDebug }
func (l *levelLogger) InfoEnabled() bool  { return l.level <= LevelInfo }
func (l *levelLogger) WarnEnabled() bool  { return l.level <= LevelWarn }
func (l *levelLogger) ErrorEnabled() bool { return l.level <= LevelError }

func (l *levelLogger) LogEnabled(lvl Level) bool { return l.level <= lvl }

func (l *levelLogger) Trace(m ...any) { l._log(LevelTrace, m) }
func (l *levelLogger) Debug(m ...any) { l._log(LevelDebug, m) }
func (l *levelLogger) Info(m ...any)  { l._log(LevelInfo, m) }
func (l *levelLogger) Warn(m ...any)  { l._log(LevelWarn, m) }
func (l *levelLogger) Error(m ...any) { l._log(LevelError, m) }
func (l *levelLogger) Log(lvl Level, m ...any) {
	l._log(lvl, m)
}

func (l *levelLogger) Tracef(format string, args ...any) { l._logf(LevelTrace, 0, format, args) }
func (l *levelLogger) Debugf(format string, args ...any) { l._logf(LevelDebug, 0, format, args) }
func (l *levelLogger) Infof(format string, args ...any)  { l._logf(LevelInfo, 0, format, args) }
func (l *levelLogger) Warnf(format string, args ...any)  { l._logf(LevelWarn, 0, format, args) }
func (l *levelLogger) Errorf(format string, args ...any) { l._logf(LevelError, 0, format, args) }
func (l *levelLogger) Logf(lvl Level, format string, args ...any) {
	l._logf(lvl, 0, format, args)
}

// Write lets the logger serve as the output of a standard log.Logger.
func (l *levelLogger) Write(buff []byte) (n int, err error) {
	ts := time.Now().Format("2006/01/02 15:04:05.000") + " -     "
	for _, w := range l.writers() {
		w.Write([]byte(ts))
		n, err = w.Write(buff)
	}
	return len(buff), err
}

var (
	warnCounter  = gometrics.NewRegisteredCounter("log.warns", gometrics.DefaultRegistry)
	errorCounter = gometrics.NewRegisteredCounter("log.errors", gometrics.DefaultRegistry)
	totalCounter = gometrics.NewRegisteredCounter("log.total", gometrics.DefaultRegistry)
)

var (
	levelLock                   sync.RWMutex
	levelConfig                 = make(map[string]Level)
	levelDefault                = LevelInfo
	prefixWidthDefault          = 18
	enableSourceLocationDefault = false
)

func SetDefaultLevel(lvl Level) {
	levelLock.Lock()
	levelDefault = lvl
	levelLock.Unlock()
}

func DefaultLevel() Level {
	levelLock.RLock()
	defer levelLock.RUnlock()
	return levelDefault
}

func SetDefaultEnableSourceLocation(flag bool) {
	levelLock.Lock()
	enableSourceLocationDefault = flag
	levelLock.Unlock()
}

func DefaultEnableSourceLocation() bool {
	levelLock.RLock()
	defer levelLock.RUnlock()
	return enableSourceLocationDefault
}

func SetDefaultPrefixWidth(width int) {
	levelLock.Lock()
	defer levelLock.Unlock()
	if width > 0 {
		prefixWidthDefault = width
	} else {
		prefixWidthDefault = 18
	}
}

func DefaultPrefixWidth() int {
	levelLock.RLock()
	defer levelLock.RUnlock()
	return prefixWidthDefault
}

// SetLevel sets the level of the loggers whose name matches the glob pattern.
func SetLevel(pattern string, lvl Level) {
	levelLock.Lock()
	levelConfig[pattern] = lvl
	levelLock.Unlock()
}

func ResetLevels() {
	levelLock.Lock()
	levelConfig = make(map[string]Level)
	levelLock.Unlock()
}

// GetLevel returns the level of the longest pattern matching name,
// or the default level.
func GetLevel(name string) Level {
	levelLock.RLock()
	defer levelLock.RUnlock()
	var matchedPattern string
	var matchedLevel Level
	for pattern, level := range levelConfig {
		if match, err := glob.Match(pattern, name); match && err == nil {
			if len(matchedPattern) < len(pattern) {
				matchedPattern = pattern
				matchedLevel = level
			}
		}
	}
	if matchedPattern != "" {
		return matchedLevel
	}
	return levelDefault
}
