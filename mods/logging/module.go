package logging

import (
	"github.com/Alphacentaura/FarmSquare/booter"
)

const ModuleId = "farmsquare/logging"

type Module struct {
}

func (m *Module) Start() error {
	return nil
}

func (m *Module) Stop() {
	Close()
}

func init() {
	RegisterBootFactory()
}

func RegisterBootFactory() {
	defaultConf := Config{
		Console:            false,
		Filename:           "-",
		Append:             true,
		RotateSchedule:     "@midnight",
		MaxSize:            10,
		MaxBackups:         1,
		MaxAge:             7,
		DefaultPrefixWidth: 10,
		DefaultLevel:       "INFO",
	}

	booter.Register(ModuleId,
		func() *Config {
			clone := defaultConf
			return &clone
		},
		func(conf *Config) (booter.Boot, error) {
			if err := Configure(conf); err != nil {
				return nil, err
			}
			return &Module{}, nil
		},
	)
}
