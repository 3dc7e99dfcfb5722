package render

import (
	"github.com/Alphacentaura/FarmSquare/mods/nums"
	"github.com/Alphacentaura/FarmSquare/mods/tracker"
)

// Multi fans every call out to its presenters, in order.
type Multi []tracker.Presenter

var _ tracker.Presenter = Multi(nil)

func (mp Multi) ShowPath(points []nums.LatLng) {
	for _, p := range mp {
		p.ShowPath(points)
	}
}

func (mp Multi) ShowArea(m tracker.Measurement) {
	for _, p := range mp {
		p.ShowArea(m)
	}
}

func (mp Multi) ShowPermissionPrompt() {
	for _, p := range mp {
		p.ShowPermissionPrompt()
	}
}

func (mp Multi) ShowLocationUnavailable(err error) {
	for _, p := range mp {
		p.ShowLocationUnavailable(err)
	}
}
