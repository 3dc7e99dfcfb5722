package tracker_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Alphacentaura/FarmSquare/mods/eventbus"
	"github.com/Alphacentaura/FarmSquare/mods/nums"
	"github.com/Alphacentaura/FarmSquare/mods/tracker"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	paths       [][]nums.LatLng
	areas       []tracker.Measurement
	prompts     int
	unavailable []error
}

func (r *recorder) ShowPath(points []nums.LatLng)     { r.paths = append(r.paths, points) }
func (r *recorder) ShowArea(m tracker.Measurement)    { r.areas = append(r.areas, m) }
func (r *recorder) ShowPermissionPrompt()             { r.prompts++ }
func (r *recorder) ShowLocationUnavailable(err error) { r.unavailable = append(r.unavailable, err) }

var square = []nums.LatLng{
	{Lat: 0, Lng: 0},
	{Lat: 0, Lng: 0.0001},
	{Lat: 0.0001, Lng: 0.0001},
	{Lat: 0.0001, Lng: 0},
}

func newTracker() (*tracker.Tracker, *recorder) {
	r := &recorder{}
	clock := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tr := tracker.New(r, tracker.WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	return tr, r
}

func post(t *testing.T, tr *tracker.Tracker, ev *eventbus.Event) {
	t.Helper()
	require.NoError(t, tr.Handle(ev))
}

func counter(tr *tracker.Tracker, name string) int64 {
	return tr.Metrics().Get(name).(interface{ Count() int64 }).Count()
}

func TestTrackerSession(t *testing.T) {
	tr, r := newTracker()
	require.False(t, tr.Recording())

	tr.Start()
	require.True(t, tr.Recording())
	require.NotEmpty(t, tr.Session().ID)
	require.Len(t, r.paths, 1)
	require.Nil(t, r.paths[0])

	for _, p := range square {
		post(t, tr, eventbus.NewPosition(p.Lat, p.Lng, time.Time{}))
	}
	require.Equal(t, 4, tr.Session().Len())
	require.Len(t, tr.Session().Times, 4)
	require.Len(t, r.paths, 5)
	require.Len(t, r.paths[4], 4)

	m := tr.Stop()
	require.False(t, tr.Recording())
	require.Equal(t, 123.9203, m.Area)
	require.InDelta(t, m.RawArea, m.Area, 0.0001)
	require.Equal(t, 4, m.PointCount)
	require.Len(t, m.Points, 5)
	require.Equal(t, m.Points[0], m.Points[4])
	require.InDelta(t, 44.478, m.Perimeter, 0.001)
	require.Equal(t, tr.Session().ID, m.SessionID)
	require.True(t, m.StoppedAt.After(m.StartedAt))
	require.Equal(t, "Parcel area: 123.9203 sq.m.", m.Text())

	require.Len(t, r.areas, 1)
	require.Equal(t, m.Points, r.paths[len(r.paths)-1])

	// retained until the next start
	require.Equal(t, 4, tr.Session().Len())
	require.Equal(t, int64(4), counter(tr, tracker.MetricSamplesAccepted))
}

func TestTrackerStopWithoutStart(t *testing.T) {
	tr, r := newTracker()
	m := tr.Stop()
	require.Equal(t, 0.0, m.Area)
	require.Equal(t, 0, m.PointCount)
	require.Empty(t, m.Points)
	require.False(t, tr.Recording())
	require.Len(t, r.areas, 1)
	require.Equal(t, "Parcel area: 0 sq.m.", m.Text())
}

func TestTrackerStopTwice(t *testing.T) {
	tr, r := newTracker()
	tr.Start()
	for _, p := range square {
		post(t, tr, eventbus.NewPosition(p.Lat, p.Lng, time.Time{}))
	}
	first := tr.Stop()
	second := tr.Stop()
	require.Equal(t, first, second)
	require.Len(t, second.Points, 5, "the loop is closed only once")
	require.Len(t, r.areas, 2)
}

func TestTrackerDiscardWhileIdle(t *testing.T) {
	tr, r := newTracker()
	post(t, tr, eventbus.NewPosition(1, 1, time.Time{}))
	require.Equal(t, 0, tr.Session().Len())
	require.Empty(t, r.paths)
	require.Equal(t, int64(1), counter(tr, tracker.MetricSamplesDiscarded))

	tr.Start()
	post(t, tr, eventbus.NewPosition(1, 1, time.Time{}))
	tr.Stop()
	post(t, tr, eventbus.NewPosition(2, 2, time.Time{}))
	require.Equal(t, 1, tr.Session().Len())
	require.Equal(t, int64(2), counter(tr, tracker.MetricSamplesDiscarded))
}

func TestTrackerRestart(t *testing.T) {
	tr, _ := newTracker()
	tr.Start()
	first := tr.Session().ID
	post(t, tr, eventbus.NewPosition(1, 1, time.Time{}))
	tr.Start()
	require.True(t, tr.Recording())
	require.NotEqual(t, first, tr.Session().ID)
	require.Equal(t, 0, tr.Session().Len())
}

func TestTrackerStartClearsResult(t *testing.T) {
	tr, r := newTracker()
	tr.Start()
	for _, p := range square {
		post(t, tr, eventbus.NewPosition(p.Lat, p.Lng, time.Time{}))
	}
	tr.Stop()
	tr.Start()
	tr.Stop()
	m := tr.Stop()
	require.Equal(t, 0.0, m.Area)
	require.Len(t, r.areas, 3)
}

func TestTrackerDenied(t *testing.T) {
	tr, r := newTracker()
	post(t, tr, eventbus.NewAuthorization(eventbus.AuthDenied))
	require.Equal(t, 1, r.prompts)
	require.False(t, tr.Recording())

	tr.Start()
	post(t, tr, eventbus.NewPosition(1, 1, time.Time{}))
	post(t, tr, eventbus.NewAuthorization(eventbus.AuthDenied))
	require.Equal(t, 2, r.prompts)
	require.True(t, tr.Recording())
	require.Equal(t, 1, tr.Session().Len())
	require.Equal(t, int64(2), counter(tr, tracker.MetricAuthDenied))
}

func TestTrackerRestricted(t *testing.T) {
	tr, r := newTracker()
	post(t, tr, eventbus.NewAuthorization(eventbus.AuthRestricted))
	require.Equal(t, 0, r.prompts)
	require.Len(t, r.unavailable, 1)
	require.ErrorIs(t, r.unavailable[0], tracker.ErrLocationRestricted)

	post(t, tr, eventbus.NewAuthorization(eventbus.AuthGranted))
	post(t, tr, eventbus.NewAuthorization(eventbus.AuthNotDetermined))
	require.Equal(t, 0, r.prompts)
	require.Len(t, r.unavailable, 1)
}

func TestTrackerFailure(t *testing.T) {
	tr, r := newTracker()
	tr.Start()
	post(t, tr, eventbus.NewFailure(eventbus.FailureSignal, "no fix"))
	require.True(t, tr.Recording())
	require.Len(t, r.unavailable, 1)
	var f *eventbus.Failure
	require.True(t, errors.As(r.unavailable[0], &f))
	require.Equal(t, eventbus.FailureSignal, f.Kind)
	require.Equal(t, int64(1), counter(tr, tracker.MetricFailures))
}

func TestTrackerInvalidPosition(t *testing.T) {
	tr, r := newTracker()
	tr.Start()
	post(t, tr, eventbus.NewPosition(91, 0, time.Time{}))
	require.True(t, tr.Recording())
	require.Equal(t, 0, tr.Session().Len())
	require.Len(t, r.unavailable, 1)
	require.ErrorIs(t, r.unavailable[0], tracker.ErrInvalidPosition)
	require.Equal(t, int64(1), counter(tr, tracker.MetricSamplesRejected))
}

func TestTrackerMalformedEvents(t *testing.T) {
	tr, _ := newTracker()
	require.ErrorIs(t, tr.Handle(nil), tracker.ErrIncompleteEventBody)
	require.ErrorIs(t, tr.Handle(&eventbus.Event{Type: eventbus.EVT_POSITION}), tracker.ErrIncompleteEventBody)
	require.ErrorIs(t, tr.Handle(&eventbus.Event{Type: "bogus"}), tracker.ErrUnknownEvent)
	require.ErrorIs(t, tr.Handle(eventbus.NewCommand("pause")), tracker.ErrUnknownEvent)
	require.False(t, tr.Recording())
}

func TestTrackerCommands(t *testing.T) {
	tr, r := newTracker()
	post(t, tr, eventbus.NewCommand(eventbus.CMD_START))
	require.True(t, tr.Recording())
	post(t, tr, eventbus.NewCommand(eventbus.CMD_STOP))
	require.False(t, tr.Recording())
	require.Len(t, r.areas, 1)
}

func TestMeasure(t *testing.T) {
	m := tracker.Measure(square)
	require.Equal(t, 123.9203, m.Area)
	require.Len(t, square, 4)

	m = tracker.Measure(square[:2])
	require.Equal(t, 0.0, m.Area)
	require.Equal(t, 2, m.PointCount)
	require.Len(t, m.Points, 3)
}
