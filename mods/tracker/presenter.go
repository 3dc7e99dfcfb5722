package tracker

import "github.com/Alphacentaura/FarmSquare/mods/nums"

type Presenter interface {
	// ShowPath draws the walked path, nil clears it.
	ShowPath(points []nums.LatLng)
	ShowArea(m Measurement)
	ShowPermissionPrompt()
	ShowLocationUnavailable(err error)
}

type nopPresenter struct{}

var _ Presenter = nopPresenter{}

func (nopPresenter) ShowPath([]nums.LatLng)        {}
func (nopPresenter) ShowArea(Measurement)          {}
func (nopPresenter) ShowPermissionPrompt()         {}
func (nopPresenter) ShowLocationUnavailable(error) {}
