package logging

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-colorable"
	"github.com/robfig/cron/v3"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

/*
	Log rotation schedule

	"0 30 * * * *"             Every hour on the half hour
	"@hourly"                  Every hour
	"@every 1h30m"             Every hour thirty

	@yearly
	@monthly
	@daily
	@hourly
	@midnight
*/

type Config struct {
	// Console also writes to stdout when Filename is a file.
	Console bool
	// Filename "-" is stdout, "." or "" discards logs.
	Filename       string
	Append         bool
	RotateSchedule string
	// MaxSize in MB, MaxAge in days
	MaxSize                     int
	MaxBackups                  int
	MaxAge                      int
	Compress                    bool
	UTC                         bool
	Levels                      []LevelConfig
	DefaultPrefixWidth          int
	DefaultEnableSourceLocation bool
	DefaultLevel                string
}

type LevelConfig struct {
	Pattern string
	Level   string
}

var PresetConfigDiscard = Config{
	Filename:     ".",
	DefaultLevel: "INFO",
}

var (
	writerLock    sync.RWMutex
	defaultWriter []*logWriter
	rotateCron    *cron.Cron
	rotateLogger  *lumberjack.Logger
)

// Configure replaces the log destinations and levels.
// Loggers obtained before keep their own level, but write to the new destinations.
func Configure(cfg *Config) error {
	for _, c := range cfg.Levels {
		SetLevel(c.Pattern, ParseLogLevel(c.Level))
	}
	SetDefaultPrefixWidth(cfg.DefaultPrefixWidth)
	if cfg.DefaultLevel != "" {
		SetDefaultLevel(ParseLogLevel(cfg.DefaultLevel))
	}
	SetDefaultEnableSourceLocation(cfg.DefaultEnableSourceLocation)

	writers := []*logWriter{}
	switch cfg.Filename {
	case "", ".":
	case "-":
		writers = append(writers, stdoutWriter())
	default:
		lj := &lumberjack.Logger{
			Filename:   cfg.Filename,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
			LocalTime:  !cfg.UTC,
		}
		if !cfg.Append {
			if err := lj.Rotate(); err != nil {
				return fmt.Errorf("log file %s, %w", cfg.Filename, err)
			}
		}
		writers = append(writers, &logWriter{Writer: lj})
		if cfg.Console {
			writers = append(writers, stdoutWriter())
		}
		if err := scheduleRotate(lj, cfg.RotateSchedule); err != nil {
			return err
		}
	}

	writerLock.Lock()
	defaultWriter = writers
	writerLock.Unlock()
	return nil
}

func scheduleRotate(lj *lumberjack.Logger, schedule string) error {
	writerLock.Lock()
	defer writerLock.Unlock()
	if rotateCron != nil {
		rotateCron.Stop()
		rotateCron = nil
	}
	rotateLogger = lj
	if schedule == "" {
		return nil
	}
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { lj.Rotate() }); err != nil {
		return fmt.Errorf("log rotate schedule %q, %w", schedule, err)
	}
	c.Start()
	rotateCron = c
	return nil
}

// Close stops the rotation schedule and closes the log file.
func Close() {
	writerLock.Lock()
	defer writerLock.Unlock()
	if rotateCron != nil {
		rotateCron.Stop()
		rotateCron = nil
	}
	if rotateLogger != nil {
		rotateLogger.Close()
		rotateLogger = nil
	}
	defaultWriter = nil
}

func stdoutWriter() *logWriter {
	return &logWriter{
		Writer: colorable.NewColorableStdout(),
		isTerm: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// GetLog returns a logger writing to the configured destinations,
// its level is the most specific pattern matching name.
func GetLog(name string) Log {
	return &levelLogger{
		name:         name,
		level:        GetLevel(name),
		prefixWidth:  DefaultPrefixWidth(),
		enableSrcLoc: DefaultEnableSourceLocation(),
	}
}

// NewLog returns a logger writing to w only.
func NewLog(name string, w io.Writer) Log {
	return &levelLogger{
		name:         name,
		level:        GetLevel(name),
		underlying:   []*logWriter{{Writer: w}},
		prefixWidth:  DefaultPrefixWidth(),
		enableSrcLoc: DefaultEnableSourceLocation(),
	}
}

type logWriter struct {
	io.Writer
	// colored level labels
	isTerm bool
}

func (l *levelLogger) writers() []*logWriter {
	if l.underlying != nil {
		return l.underlying
	}
	writerLock.RLock()
	defer writerLock.RUnlock()
	return defaultWriter
}
