package tracker

import (
	"time"

	"github.com/Alphacentaura/FarmSquare/mods/nums"
)

// Session holds the positions of one walk around a parcel.
// It is owned by a Tracker and only touched from the tracker's goroutine.
type Session struct {
	ID        string
	Points    []nums.LatLng
	Times     []time.Time
	StartedAt time.Time
	StoppedAt time.Time
	active    bool
}

func (s *Session) Active() bool {
	return s.active
}

func (s *Session) Len() int {
	return len(s.Points)
}

func (s *Session) reset(id string, now time.Time) {
	s.ID = id
	s.Points = nil
	s.Times = nil
	s.StartedAt = now
	s.StoppedAt = time.Time{}
	s.active = true
}

func (s *Session) append(pt nums.LatLng, ts time.Time) {
	s.Points = append(s.Points, pt)
	s.Times = append(s.Times, ts)
}

// Path returns the recorded points. Recorded points are never modified,
// the capacity is capped so appends by the caller can not clobber them.
func (s *Session) Path() []nums.LatLng {
	return s.Points[:len(s.Points):len(s.Points)]
}
