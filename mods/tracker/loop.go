package tracker

import (
	"context"
	"errors"
	"sync"

	"github.com/Alphacentaura/FarmSquare/mods/eventbus"
	"github.com/Alphacentaura/FarmSquare/mods/logging"
)

var ErrClosed = errors.New("tracker loop closed")

const DefaultQueueSize = 64

type request struct {
	ev    *eventbus.Event
	reply chan Measurement
}

// Loop serializes events and commands onto a single goroutine that owns
// the Tracker. Samples and stop commands share one queue, so a stop is
// applied after every sample posted before it.
type Loop struct {
	log     logging.Log
	tracker *Tracker
	queue   chan request

	closeOnce sync.Once
	closed    chan struct{}
	done      chan struct{}
	runOnce   sync.Once
}

func NewLoop(t *Tracker, queueSize int) *Loop {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Loop{
		log:     logging.GetLog("tracker-loop"),
		tracker: t,
		queue:   make(chan request, queueSize),
		closed:  make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Run consumes the queue until ctx is canceled or Close is called.
// It must be called once.
func (l *Loop) Run(ctx context.Context) error {
	defer l.runOnce.Do(func() { close(l.done) })
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.closed:
			return nil
		case req := <-l.queue:
			l.dispatch(req)
		}
	}
}

func (l *Loop) dispatch(req request) {
	if req.ev == nil {
		// barrier
		req.reply <- Measurement{}
		return
	}
	if req.reply != nil && req.ev.Type == eventbus.EVT_COMMAND && req.ev.Command != nil && req.ev.Command.Name == eventbus.CMD_STOP {
		req.reply <- l.tracker.Stop()
		return
	}
	if err := l.tracker.Handle(req.ev); err != nil {
		l.log.Warnf("event dropped, %s", err.Error())
	}
}

func (l *Loop) enqueue(ctx context.Context, req request) error {
	select {
	case <-l.closed:
		return ErrClosed
	default:
	}
	select {
	case l.queue <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.closed:
		return ErrClosed
	}
}

func (l *Loop) wait(ctx context.Context, reply chan Measurement) (Measurement, error) {
	select {
	case m := <-reply:
		return m, nil
	case <-ctx.Done():
		return Measurement{}, ctx.Err()
	case <-l.closed:
		return Measurement{}, ErrClosed
	case <-l.done:
		return Measurement{}, ErrClosed
	}
}

// Post enqueues an event, it blocks only while the queue is full.
func (l *Loop) Post(ctx context.Context, ev *eventbus.Event) error {
	if ev == nil {
		return ErrIncompleteEventBody
	}
	return l.enqueue(ctx, request{ev: ev})
}

func (l *Loop) Start(ctx context.Context) error {
	return l.Post(ctx, eventbus.NewCommand(eventbus.CMD_START))
}

// Stop enqueues the stop command and waits for the measurement.
func (l *Loop) Stop(ctx context.Context) (Measurement, error) {
	reply := make(chan Measurement, 1)
	if err := l.enqueue(ctx, request{ev: eventbus.NewCommand(eventbus.CMD_STOP), reply: reply}); err != nil {
		return Measurement{}, err
	}
	return l.wait(ctx, reply)
}

// Sync waits until every event posted before it has been applied.
func (l *Loop) Sync(ctx context.Context) error {
	reply := make(chan Measurement, 1)
	if err := l.enqueue(ctx, request{reply: reply}); err != nil {
		return err
	}
	_, err := l.wait(ctx, reply)
	return err
}

func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.closed) })
}
