package tracker

import (
	"errors"
	"fmt"
	"time"

	"github.com/Alphacentaura/FarmSquare/mods/eventbus"
	"github.com/Alphacentaura/FarmSquare/mods/logging"
	"github.com/Alphacentaura/FarmSquare/mods/nums"
	"github.com/gofrs/uuid/v5"
	gometrics "github.com/rcrowley/go-metrics"
)

var (
	ErrInvalidPosition     = errors.New("invalid position")
	ErrLocationRestricted  = errors.New("location services are restricted")
	ErrUnknownEvent        = errors.New("unknown event")
	ErrIncompleteEventBody = errors.New("event has no payload")
)

const (
	MetricSamplesAccepted  = "tracker.samples.accepted"
	MetricSamplesDiscarded = "tracker.samples.discarded"
	MetricSamplesRejected  = "tracker.samples.rejected"
	MetricFailures         = "tracker.failures"
	MetricAuthDenied       = "tracker.auth.denied"
)

var idGen = uuid.NewGen()

// Tracker is the location tracking state machine.
// It is either idle or recording; positions are only kept while recording.
//
// A Tracker is not safe for concurrent use, drive it from a single
// goroutine, see Loop.
type Tracker struct {
	log       logging.Log
	presenter Presenter
	session   Session
	last      *Measurement
	now       func() time.Time

	registry  gometrics.Registry
	accepted  gometrics.Counter
	discarded gometrics.Counter
	rejected  gometrics.Counter
	failures  gometrics.Counter
	denied    gometrics.Counter
}

type Option func(*Tracker)

func WithLogger(log logging.Log) Option {
	return func(t *Tracker) {
		t.log = log
	}
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

func WithRegistry(r gometrics.Registry) Option {
	return func(t *Tracker) {
		t.registry = r
	}
}

func New(presenter Presenter, opts ...Option) *Tracker {
	t := &Tracker{
		presenter: presenter,
		now:       time.Now,
	}
	for _, o := range opts {
		o(t)
	}
	if t.presenter == nil {
		t.presenter = nopPresenter{}
	}
	if t.log == nil {
		t.log = logging.GetLog("tracker")
	}
	if t.registry == nil {
		t.registry = gometrics.NewRegistry()
	}
	t.accepted = gometrics.GetOrRegisterCounter(MetricSamplesAccepted, t.registry)
	t.discarded = gometrics.GetOrRegisterCounter(MetricSamplesDiscarded, t.registry)
	t.rejected = gometrics.GetOrRegisterCounter(MetricSamplesRejected, t.registry)
	t.failures = gometrics.GetOrRegisterCounter(MetricFailures, t.registry)
	t.denied = gometrics.GetOrRegisterCounter(MetricAuthDenied, t.registry)
	return t
}

func (t *Tracker) Recording() bool {
	return t.session.Active()
}

func (t *Tracker) Session() *Session {
	return &t.session
}

func (t *Tracker) Metrics() gometrics.Registry {
	return t.registry
}

// Start begins a new session. Starting while recording discards the
// current session and starts over.
func (t *Tracker) Start() {
	if t.session.Active() {
		t.log.Warnf("session %s restarted, %d points discarded", t.session.ID, t.session.Len())
	}
	id, err := idGen.NewV4()
	if err != nil {
		t.log.Errorf("session id, %s", err.Error())
	}
	t.last = nil
	t.session.reset(id.String(), t.now())
	t.log.Infof("session %s started", t.session.ID)
	t.presenter.ShowPath(nil)
}

// Stop ends the session, closes the walked loop and reports its area.
// Stopping while idle re-reports the previous result, or an empty
// measurement if nothing was recorded.
func (t *Tracker) Stop() Measurement {
	if !t.session.Active() {
		if t.last != nil {
			t.log.Debugf("session %s already stopped", t.last.SessionID)
			t.report(*t.last)
			return *t.last
		}
		m := Measure(nil)
		t.report(m)
		return m
	}
	t.session.active = false
	t.session.StoppedAt = t.now()

	m := Measure(t.session.Points)
	m.SessionID = t.session.ID
	m.StartedAt = t.session.StartedAt
	m.StoppedAt = t.session.StoppedAt
	t.log.Infof("session %s stopped, %d points, area %v sq.m.", m.SessionID, m.PointCount, m.Area)
	if t.log.DebugEnabled() && m.PointCount >= 3 {
		if projected, err := nums.ProjectedArea(t.session.Points); err != nil {
			t.log.Debugf("session %s projected area, %s", m.SessionID, err.Error())
		} else {
			t.log.Debugf("session %s spherical %.4f projected %.4f sq.m.", m.SessionID, m.RawArea, projected)
		}
	}
	t.last = &m
	t.report(m)
	return m
}

func (t *Tracker) report(m Measurement) {
	t.presenter.ShowPath(m.Points)
	t.presenter.ShowArea(m)
}

// Handle applies an event to the tracker.
// The returned error describes a malformed event; the tracker state is
// unchanged in that case.
func (t *Tracker) Handle(ev *eventbus.Event) error {
	if ev == nil {
		return ErrIncompleteEventBody
	}
	switch ev.Type {
	case eventbus.EVT_POSITION:
		if ev.Position == nil {
			return fmt.Errorf("%s %w", ev.Type, ErrIncompleteEventBody)
		}
		t.onPosition(ev.Position)
	case eventbus.EVT_AUTHORIZATION:
		if ev.Authorization == nil {
			return fmt.Errorf("%s %w", ev.Type, ErrIncompleteEventBody)
		}
		t.onAuthorization(ev.Authorization.Status)
	case eventbus.EVT_FAILURE:
		if ev.Failure == nil {
			return fmt.Errorf("%s %w", ev.Type, ErrIncompleteEventBody)
		}
		t.onFailure(ev.Failure)
	case eventbus.EVT_COMMAND:
		if ev.Command == nil {
			return fmt.Errorf("%s %w", ev.Type, ErrIncompleteEventBody)
		}
		switch ev.Command.Name {
		case eventbus.CMD_START:
			t.Start()
		case eventbus.CMD_STOP:
			t.Stop()
		default:
			return fmt.Errorf("%w command %q", ErrUnknownEvent, ev.Command.Name)
		}
	default:
		return fmt.Errorf("%w type %q", ErrUnknownEvent, ev.Type)
	}
	return nil
}

func (t *Tracker) onPosition(pos *eventbus.Position) {
	if !t.session.Active() {
		t.discarded.Inc(1)
		t.log.Tracef("position %v,%v discarded, not recording", pos.Lat, pos.Lng)
		return
	}
	pt := pos.LatLng()
	if !pt.Valid() {
		t.rejected.Inc(1)
		err := fmt.Errorf("%w %s", ErrInvalidPosition, pt)
		t.log.Warnf("session %s %s", t.session.ID, err.Error())
		t.presenter.ShowLocationUnavailable(err)
		return
	}
	ts := pos.Timestamp
	if ts.IsZero() {
		ts = t.now()
	}
	t.session.append(pt, ts)
	t.accepted.Inc(1)
	t.presenter.ShowPath(t.session.Path())
}

func (t *Tracker) onAuthorization(status eventbus.AuthStatus) {
	switch status {
	case eventbus.AuthDenied:
		t.denied.Inc(1)
		t.log.Info("location authorization denied")
		t.presenter.ShowPermissionPrompt()
	case eventbus.AuthRestricted:
		t.log.Warn("location authorization restricted")
		t.presenter.ShowLocationUnavailable(ErrLocationRestricted)
	default:
		t.log.Infof("location authorization %s", status)
	}
}

func (t *Tracker) onFailure(f *eventbus.Failure) {
	t.failures.Inc(1)
	t.log.Warnf("location failure, %s", f.Error())
	t.presenter.ShowLocationUnavailable(f)
}
