package render

import (
	"io"
	"os"

	"github.com/Alphacentaura/FarmSquare/booter"
	"github.com/Alphacentaura/FarmSquare/mods/nums"
	"github.com/Alphacentaura/FarmSquare/mods/tracker"
)

const ModuleId = "farmsquare/render"

type Config struct {
	Console ConsoleConfig
	// GeoJSON and KML are export file paths, empty disables the export.
	GeoJSON string
	KML     string
	// Tolerance simplifies exported paths, in meters.
	Tolerance float64
}

// Module is the boot module presenting the tracker output.
// It is injected into the tracker module as its Presenter.
type Module struct {
	presenters Multi
}

var _ tracker.Presenter = (*Module)(nil)

func init() {
	RegisterBootFactory()
}

func RegisterBootFactory() {
	booter.Register(ModuleId,
		func() *Config {
			return &Config{Console: *DefaultConsoleConfig()}
		},
		func(conf *Config) (booter.Boot, error) {
			return NewModule(os.Stdout, conf)
		},
	)
}

func NewModule(out io.Writer, conf *Config) (*Module, error) {
	console, err := NewConsole(out, &conf.Console)
	if err != nil {
		return nil, err
	}
	m := &Module{presenters: Multi{console}}
	if conf.GeoJSON != "" {
		m.presenters = append(m.presenters, NewGeoJSON(conf.GeoJSON, conf.Tolerance))
	}
	if conf.KML != "" {
		m.presenters = append(m.presenters, NewKML(conf.KML, conf.Tolerance))
	}
	return m, nil
}

func (m *Module) Start() error {
	return nil
}

func (m *Module) Stop() {
}

func (m *Module) ShowPath(points []nums.LatLng)     { m.presenters.ShowPath(points) }
func (m *Module) ShowArea(ms tracker.Measurement)   { m.presenters.ShowArea(ms) }
func (m *Module) ShowPermissionPrompt()             { m.presenters.ShowPermissionPrompt() }
func (m *Module) ShowLocationUnavailable(err error) { m.presenters.ShowLocationUnavailable(err) }
