package source

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Alphacentaura/FarmSquare/mods/eventbus"
	"github.com/Alphacentaura/FarmSquare/mods/logging"
	"github.com/tkrajina/gpxgo/gpx"
)

// GPXSource replays the track points of a GPX document as position events,
// wrapped in start and stop commands.
type GPXSource struct {
	// Path of the gpx file, used when Reader is nil.
	Path   string
	Reader io.Reader
	// Speed replays the track paced by its timestamps, 2 is twice as fast.
	// 0 replays without delay.
	Speed float64
	// NoStart, NoStop suppress the surrounding commands.
	NoStart bool
	NoStop  bool

	log logging.Log
}

var _ Source = (*GPXSource)(nil)

func (s *GPXSource) load() (*gpx.GPX, error) {
	if s.Reader != nil {
		b, err := io.ReadAll(s.Reader)
		if err != nil {
			return nil, fmt.Errorf("read gpx: %w", err)
		}
		doc, err := gpx.ParseBytes(b)
		if err != nil {
			return nil, fmt.Errorf("parse gpx: %w", err)
		}
		return doc, nil
	}
	doc, err := gpx.ParseFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("parse gpx %s: %w", s.Path, err)
	}
	return doc, nil
}

// Points returns every track point of the document, followed by
// route points if the document has no track.
func Points(doc *gpx.GPX) []gpx.GPXPoint {
	var ret []gpx.GPXPoint
	for _, trk := range doc.Tracks {
		for _, seg := range trk.Segments {
			ret = append(ret, seg.Points...)
		}
	}
	if len(ret) == 0 {
		for _, rte := range doc.Routes {
			ret = append(ret, rte.Points...)
		}
	}
	return ret
}

// positionFromGPX leaves Accuracy unset, hdop is a unitless dilution
// and not a distance in meters.
func positionFromGPX(p gpx.GPXPoint) *eventbus.Event {
	ev := eventbus.NewPosition(p.Latitude, p.Longitude, p.Timestamp)
	if p.Elevation.NotNull() {
		ev.Position.Altitude = p.Elevation.Value()
	}
	return ev
}

func (s *GPXSource) Run(ctx context.Context, sink Sink) error {
	if s.log == nil {
		s.log = logging.GetLog("source-gpx")
	}
	doc, err := s.load()
	if err != nil {
		return err
	}
	points := Points(doc)
	s.log.Debugf("gpx %q %d points", doc.Name, len(points))

	if !s.NoStart {
		if err := sink.Post(ctx, eventbus.NewCommand(eventbus.CMD_START)); err != nil {
			return err
		}
	}
	var prev time.Time
	for _, p := range points {
		if s.Speed > 0 && !prev.IsZero() && p.Timestamp.After(prev) {
			delay := time.Duration(float64(p.Timestamp.Sub(prev)) / s.Speed)
			if err := sleep(ctx, delay); err != nil {
				return err
			}
		}
		if !p.Timestamp.IsZero() {
			prev = p.Timestamp
		}
		if err := sink.Post(ctx, positionFromGPX(p)); err != nil {
			return err
		}
	}
	if !s.NoStop {
		if err := sink.Post(ctx, eventbus.NewCommand(eventbus.CMD_STOP)); err != nil {
			return err
		}
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
