package autowire

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/km-arc/go-discovery/framework/container"
)

// Resolution says where a parameter's value comes from. Exactly one of
// Config and Service is set.
type Resolution struct {
	Config     string
	ConfigType ConfigType
	Service    string
	Container  string // sub-container holding Service, empty for the root
}

// Plan works out where parameter p of class comes from without touching a
// container. A config directive wins; otherwise the service is the one the
// directive names or the one derived from p's type.
func Plan(class string, p Parameter) (Resolution, error) {
	d := p.Directive
	if d != nil && d.Config() != "" {
		return Resolution{Config: d.Config(), ConfigType: d.ConfigType()}, nil
	}

	var r Resolution
	if d != nil {
		r.Service, r.Container = d.Service(), d.Container()
	}
	if r.Service == "" {
		switch {
		case p.Type == nil:
			return Resolution{}, &UnresolvableParameterError{Class: class, Param: p.Name, Reason: ReasonNoType}
		case p.Builtin:
			return Resolution{}, &UnresolvableParameterError{Class: class, Param: p.Name, Reason: ReasonBuiltinType, Type: p.Type.String()}
		}
		r.Service = container.KeyOf(p.Type)
	}
	return r, nil
}

// resolveParameter produces the argument for p.
func (f *Factory) resolveParameter(l container.Locator, class string, p Parameter) (any, error) {
	r, err := Plan(class, p)
	if err != nil {
		return nil, err
	}
	if r.Config != "" {
		return f.getConfig(l, r)
	}
	return f.getService(l, class, p, r)
}

func (f *Factory) getConfig(l container.Locator, r Resolution) (any, error) {
	switch t := r.ConfigType; t {
	case ConfigArray, ConfigObject:
		cm, err := f.getConfigManager(l)
		if err != nil {
			return nil, err
		}
		f.logger.Debug("autowire: injecting config", zap.String("config", r.Config), zap.String("type", string(t)))
		if t == ConfigObject {
			return cm.GetConfigObject(r.Config)
		}
		return cm.GetConfigArray(r.Config)
	case ConfigYAML:
		yr, err := f.getYamlReader(l)
		if err != nil {
			return nil, err
		}
		f.logger.Debug("autowire: injecting yaml", zap.String("config", r.Config))
		return yr.Get(r.Config + ".yaml")
	default:
		return nil, &InvalidConfigTypeError{Type: string(t), Config: r.Config}
	}
}

func (f *Factory) getService(l container.Locator, class string, p Parameter, r Resolution) (any, error) {
	target := l
	if r.Container != "" {
		sub, err := l.GetSubContainer(r.Container)
		if err != nil {
			return nil, err
		}
		target = sub
	}
	f.logger.Debug("autowire: injecting service",
		zap.String("class", class), zap.String("param", p.Name),
		zap.String("service", r.Service), zap.String("container", r.Container))
	return target.Get(r.Service)
}

func typeString(v any) string {
	if v == nil {
		return "<nil>"
	}
	return reflect.TypeOf(v).String()
}
