package source

import (
	"context"

	"github.com/Alphacentaura/FarmSquare/mods/eventbus"
)

// Sink receives the events produced by a Source, tracker.Loop is one.
type Sink interface {
	Post(ctx context.Context, ev *eventbus.Event) error
}

// Source pushes location events into a Sink until its input is exhausted.
// Reaching the end of the input returns nil.
type Source interface {
	Run(ctx context.Context, sink Sink) error
}

type SinkFunc func(ctx context.Context, ev *eventbus.Event) error

func (f SinkFunc) Post(ctx context.Context, ev *eventbus.Event) error {
	return f(ctx, ev)
}
