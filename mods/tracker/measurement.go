package tracker

import (
	"strconv"
	"time"

	"github.com/Alphacentaura/FarmSquare/mods/nums"
)

// AreaPrecision is the number of decimal places of the reported area.
const AreaPrecision = 4

// Measurement is the result of a stopped session.
type Measurement struct {
	SessionID  string        `json:"session" yaml:"session"`
	Points     []nums.LatLng `json:"points" yaml:"points"`
	PointCount int           `json:"pointCount" yaml:"pointCount"`
	Area       float64       `json:"area" yaml:"area"`
	RawArea    float64       `json:"rawArea" yaml:"rawArea"`
	Perimeter  float64       `json:"perimeter" yaml:"perimeter"`
	StartedAt  time.Time     `json:"startedAt" yaml:"startedAt"`
	StoppedAt  time.Time     `json:"stoppedAt" yaml:"stoppedAt"`
}

func (m Measurement) Text() string {
	return "Parcel area: " + strconv.FormatFloat(m.Area, 'f', -1, 64) + " sq.m."
}

// Measure closes the path by repeating its first point
// and estimates the enclosed area.
func Measure(path []nums.LatLng) Measurement {
	closed := nums.Closed(path)
	raw := nums.RegionArea(closed)
	return Measurement{
		Points:     closed,
		PointCount: len(path),
		Area:       nums.RoundTo(raw, AreaPrecision),
		RawArea:    raw,
		Perimeter:  nums.PathLength(closed),
	}
}
