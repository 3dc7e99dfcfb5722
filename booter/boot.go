package booter

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"
)

type Booter interface {
	Startup() error
	Shutdown()

	GetDefinition(id string) *Definition
	GetInstance(id string) Boot
	GetConfig(id string) any
}

// bootlog traces the boot sequence at debug level, discarded until
// SetBootLogger hands over a logger.
var bootlog = slog.New(slog.NewTextHandler(io.Discard, nil))

func SetBootLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	bootlog = l
}

type boot struct {
	moduleDefs []*Definition
	wrappers   []*wrapper

	startupHooks  []func()
	shutdownHooks []func()
}

func NewWithDefinitions(definitions []*Definition) (Booter, error) {
	return &boot{moduleDefs: definitions}, nil
}

// Startup instantiates the enabled modules in priority order,
// resolves injections and starts them.
func (bt *boot) Startup() error {
	bootlog.Debug("modules defined", "count", len(bt.moduleDefs))
	for _, def := range bt.moduleDefs {
		if def.Disabled {
			bootlog.Debug("module disabled", "id", def.Id, "name", def.Name)
			continue
		}
		fact := getFactory(def.Id)
		if fact == nil {
			return fmt.Errorf("module %s is not found", def.Id)
		}
		config := fact.NewConfig()
		objName := strings.TrimPrefix(fmt.Sprintf("%T", config), "*")
		if !def.Config.IsNull() {
			if err := EvalObject(objName, config, def.Config); err != nil {
				return fmt.Errorf("config %s, %w", objName, err)
			}
		}
		mod, err := fact.NewInstance(config)
		if err != nil {
			return fmt.Errorf("instance %s, %w", def.Id, err)
		}
		bt.wrappers = append(bt.wrappers, &wrapper{
			id:         def.Id,
			definition: def,
			real:       mod,
			conf:       config,
			state:      None,
		})
	}

	for _, wrap := range bt.wrappers {
		for _, inj := range wrap.definition.Injects {
			if err := wrap.inject(inj, bt.wrappers); err != nil {
				return err
			}
		}
	}
	bootlog.Debug("modules enabled", "count", len(bt.wrappers))

	for _, hook := range bt.startupHooks {
		hook()
	}
	for _, wrap := range bt.wrappers {
		wrap.state = Starting
		bootlog.Debug("module start", "id", wrap.id, "name", wrap.definition.Name)
		if err := wrap.real.Start(); err != nil {
			return fmt.Errorf("mod start %s, %w", wrap.id, err)
		}
		wrap.state = Run
	}
	return nil
}

// Shutdown stops the started modules in reverse order.
func (bt *boot) Shutdown() {
	for _, hook := range bt.shutdownHooks {
		hook()
	}
	for i := len(bt.wrappers) - 1; i >= 0; i-- {
		wrap := bt.wrappers[i]
		if wrap.state != Run {
			continue
		}
		wrap.state = Stopping
		bootlog.Debug("module stop", "id", wrap.id, "name", wrap.definition.Name)
		wrap.real.Stop()
		wrap.state = Stop
	}
}

func (bt *boot) GetDefinition(id string) *Definition {
	for _, def := range bt.moduleDefs {
		if def.Id == id {
			return def
		}
	}
	return nil
}

func (bt *boot) GetInstance(id string) Boot {
	for _, mod := range bt.wrappers {
		if mod.id == id {
			return mod.real
		}
	}
	return nil
}

func (bt *boot) GetConfig(id string) any {
	for _, mod := range bt.wrappers {
		if mod.id == id {
			return mod.conf
		}
	}
	return nil
}

type wrapper struct {
	id         string
	definition *Definition
	real       Boot
	conf       any
	state      State
}

type State int

const (
	None State = iota
	Starting
	Run
	Stopping
	Stop
)

// inject sets this module into a field, or passes it to a setter method,
// of the target module.
func (wrap *wrapper) inject(inj InjectionDef, wrappers []*wrapper) error {
	var targetMod Boot
	for _, w := range wrappers {
		if w.definition.Name == inj.Target || w.id == inj.Target {
			targetMod = w.real
			break
		}
	}
	if targetMod == nil {
		return fmt.Errorf("%s inject into %s, not found", wrap.id, inj.Target)
	}
	value := reflect.ValueOf(wrap.real)
	mod := reflect.ValueOf(targetMod)
	if mod.Kind() == reflect.Pointer {
		if field := mod.Elem().FieldByName(inj.FieldName); field.IsValid() && field.CanSet() {
			if !value.Type().AssignableTo(field.Type()) {
				return fmt.Errorf("%s can not be assigned to %s.%s", wrap.id, inj.Target, inj.FieldName)
			}
			bootlog.Debug("inject", "name", wrap.definition.Name, "target", inj.Target, "field", inj.FieldName)
			field.Set(value)
			return nil
		}
	}
	setter := mod.MethodByName(inj.FieldName)
	if !setter.IsValid() || setter.Type().NumIn() != 1 || !value.Type().AssignableTo(setter.Type().In(0)) {
		return fmt.Errorf("%s %s is not accessible", inj.Target, inj.FieldName)
	}
	bootlog.Debug("inject", "name", wrap.definition.Name, "target", inj.Target, "method", inj.FieldName)
	setter.Call([]reflect.Value{value})
	return nil
}
