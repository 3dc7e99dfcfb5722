package tracker

import (
	"context"
	"errors"

	"github.com/Alphacentaura/FarmSquare/booter"
)

const ModuleId = "farmsquare/tracker"

type Config struct {
	QueueSize int
}

// Module runs a Tracker on its own Loop between Start and Stop.
type Module struct {
	// Presenter is injected by the presenting module, nil discards the output.
	Presenter Presenter

	conf    Config
	loop    *Loop
	tracker *Tracker
	cancel  context.CancelFunc
	done    chan struct{}
}

func init() {
	RegisterBootFactory()
}

func RegisterBootFactory() {
	booter.Register(ModuleId,
		func() *Config {
			return &Config{QueueSize: DefaultQueueSize}
		},
		func(conf *Config) (booter.Boot, error) {
			if conf.QueueSize < 0 {
				return nil, errors.New("negative QueueSize")
			}
			return &Module{conf: *conf}, nil
		},
	)
}

func (m *Module) Start() error {
	m.tracker = New(m.Presenter)
	m.loop = NewLoop(m.tracker, m.conf.QueueSize)
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	go func() {
		defer close(m.done)
		if err := m.loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			m.tracker.log.Warnf("loop, %s", err.Error())
		}
	}()
	return nil
}

func (m *Module) Stop() {
	if m.loop == nil {
		return
	}
	m.loop.Close()
	m.cancel()
	<-m.done
}

// Loop is available once the module has started.
func (m *Module) Loop() *Loop {
	return m.loop
}

func (m *Module) Tracker() *Tracker {
	return m.tracker
}
