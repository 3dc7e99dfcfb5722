package logging

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const (
	yellow = "\033[90;43m"
	red    = "\033[97;41m"
	reset  = "\033[0m"
)

func (l *levelLogger) _log(lvl Level, args []any) {
	toks := make([]string, len(args))
	for i, a := range args {
		if s, ok := a.(string); ok {
			toks[i] = s
		} else {
			toks[i] = fmt.Sprint(a)
		}
	}
	l.write(lvl, 1, strings.Join(toks, " "))
}

func (l *levelLogger) _logf(lvl Level, callstackOffset int, format string, args []any) {
	if lvl < l.level {
		return
	}
	l.write(lvl, 1+callstackOffset, fmt.Sprintf(format, args...))
}

// write formats one line per destination:
//
//	2024/05/01 10:00:00.000 INFO  tracker            session ... started
func (l *levelLogger) write(lvl Level, callstackOffset int, msg string) {
	if lvl < l.level || lvl >= LevelNone {
		return
	}
	totalCounter.Inc(1)
	switch lvl {
	case LevelWarn:
		warnCounter.Inc(1)
	case LevelError:
		errorCounter.Inc(1)
	}

	var name string
	if l.enableSrcLoc {
		_, srcFileName, srcFileLine, _ := runtime.Caller(2 + callstackOffset)
		srcFileName = filepath.Base(srcFileName)
		width := l.prefixWidth - len(srcFileName) - 5
		if width <= 0 {
			width = 1
		}
		name = fmt.Sprintf("%-*s %s %3d", width, l.name, srcFileName, srcFileLine)
	} else {
		name = fmt.Sprintf("%-*s", l.prefixWidth, l.name)
	}
	for _, a := range l.attrs {
		msg = msg + " " + a.String()
	}

	timestamp := time.Now().Format("2006/01/02 15:04:05.000")
	levelName := fmt.Sprintf("%-5s", LogLevelName(lvl))
	for _, w := range l.writers() {
		var line string
		if w.isTerm {
			colorBegin, colorEnd := "", ""
			switch lvl {
			case LevelWarn:
				colorBegin, colorEnd = yellow, reset
			case LevelError:
				colorBegin, colorEnd = red, reset
			}
			line = fmt.Sprintf("%s %s%s%s %s %s\n", timestamp, colorBegin, levelName, colorEnd, name, msg)
		} else {
			line = fmt.Sprintf("%s %s %s %s\n", timestamp, levelName, name, msg)
		}
		w.Write([]byte(line))
	}
}
