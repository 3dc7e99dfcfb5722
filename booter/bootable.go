package booter

import (
	"fmt"
	"sync"
)

// Boot is a module instance managed by a Booter.
type Boot interface {
	Start() error
	Stop()
}

type BootFactory struct {
	Id          string
	NewConfig   func() any
	NewInstance func(config any) (Boot, error)
}

var factoryRegistry = make(map[string]*BootFactory)
var factoryRegistryLock sync.RWMutex

// RegisterBootFactory registers a factory, the first registration of an id wins.
func RegisterBootFactory(def *BootFactory) {
	factoryRegistryLock.Lock()
	defer factoryRegistryLock.Unlock()
	if _, exists := factoryRegistry[def.Id]; !exists {
		factoryRegistry[def.Id] = def
	}
}

func UnregisterBootFactory(moduleId string) {
	factoryRegistryLock.Lock()
	defer factoryRegistryLock.Unlock()
	delete(factoryRegistry, moduleId)
}

func getFactory(moduleId string) *BootFactory {
	factoryRegistryLock.RLock()
	defer factoryRegistryLock.RUnlock()
	return factoryRegistry[moduleId]
}

// Register binds a module id to its config constructor and instance factory.
// The config returned by configFactory carries the defaults, the module's
// config block overrides them.
func Register[T any](moduleId string, configFactory func() T, factory func(conf T) (Boot, error)) {
	RegisterBootFactory(&BootFactory{
		Id: moduleId,
		NewConfig: func() any {
			return configFactory()
		},
		NewInstance: func(conf any) (Boot, error) {
			if c, ok := conf.(T); ok {
				return factory(c)
			} else {
				return nil, fmt.Errorf("invalid config type: %T", conf)
			}
		},
	})
}
