package logging

import (
	"context"
	"log/slog"
)

// Wrap returns a slog.Logger backed by l.
// Records for which filter returns false are dropped.
func Wrap(l Log, filter func(string, context.Context, slog.Record) bool) *slog.Logger {
	h, ok := l.(*levelLogger)
	if !ok || h == nil {
		return slog.Default()
	}
	ret := h.clone()
	ret.filter = filter
	return slog.New(ret)
}

func (ll *levelLogger) clone() *levelLogger {
	return &levelLogger{
		name:         ll.name,
		level:        ll.level,
		underlying:   ll.underlying,
		prefixWidth:  ll.prefixWidth,
		enableSrcLoc: ll.enableSrcLoc,
		attrs:        append([]slog.Attr(nil), ll.attrs...),
		filter:       ll.filter,
	}
}

func fromSlogLevel(level slog.Level) Level {
	switch {
	case level < slog.LevelDebug:
		return LevelTrace
	case level < slog.LevelInfo:
		return LevelDebug
	case level < slog.LevelWarn:
		return LevelInfo
	case level < slog.LevelError:
		return LevelWarn
	default:
		return LevelError
	}
}

func (ll *levelLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return ll.LogEnabled(fromSlogLevel(level))
}

func (ll *levelLogger) Handle(ctx context.Context, r slog.Record) error {
	if ll.filter != nil && !ll.filter(ll.name, ctx, r) {
		return nil
	}
	msg := r.Message
	r.Attrs(func(a slog.Attr) bool {
		if !a.Equal(slog.Attr{}) {
			msg = msg + " " + a.String()
		}
		return true
	})
	ll.write(fromSlogLevel(r.Level), 2, msg)
	return nil
}

func (ll *levelLogger) WithAttrs(attrs []slog.Attr) slog.Handler {
	ret := ll.clone()
	ret.attrs = append(ret.attrs, attrs...)
	return ret
}

// WithGroup switches to the logger named after the group.
func (ll *levelLogger) WithGroup(name string) slog.Handler {
	if name == "" {
		return ll
	}
	ret := ll.clone()
	ret.name = name
	ret.level = GetLevel(name)
	return ret
}
