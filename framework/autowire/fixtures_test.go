package autowire_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-discovery/framework/autowire"
	"github.com/km-arc/go-discovery/framework/config"
	"github.com/km-arc/go-discovery/framework/container"
)

// ── collaborators ─────────────────────────────────────────────────────────────

type URLHelper struct{ Base string }
type AuthManager struct{}
type Connection struct{ Driver string }

type stubConfigManager struct {
	configs map[string]map[string]any
}

func (m *stubConfigManager) GetConfigArray(name string) (map[string]any, error) {
	c, ok := m.configs[name]
	if !ok {
		return nil, errors.New("no config " + name)
	}
	return c, nil
}

func (m *stubConfigManager) GetConfigObject(name string) (*config.Object, error) {
	c, err := m.GetConfigArray(name)
	if err != nil {
		return nil, err
	}
	return config.NewObject(c), nil
}

type stubYamlReader struct {
	files map[string]map[string]any
	asked []string
}

func (r *stubYamlReader) Get(name string) (map[string]any, error) {
	r.asked = append(r.asked, name)
	f, ok := r.files[name]
	if !ok {
		return nil, errors.New("no yaml " + name)
	}
	return f, nil
}

// countingLocator records every lookup made through it.
type countingLocator struct {
	inner *container.Container
	gets  []string
	subs  []string
}

func (l *countingLocator) Get(name string) (any, error) {
	l.gets = append(l.gets, name)
	return l.inner.Get(name)
}

func (l *countingLocator) GetSubContainer(name string) (container.Locator, error) {
	l.subs = append(l.subs, name)
	return l.inner.GetSubContainer(name)
}

func (l *countingLocator) calls() int { return len(l.gets) + len(l.subs) }

// countingIntrospector wraps a registry and counts lookups.
type countingIntrospector struct {
	inner autowire.Introspector
	calls map[string]int
}

func newCountingIntrospector(inner autowire.Introspector) *countingIntrospector {
	return &countingIntrospector{inner: inner, calls: map[string]int{}}
}

func (i *countingIntrospector) Introspect(class string) (*autowire.Class, error) {
	i.calls[class]++
	return i.inner.Introspect(class)
}

// ── classes ───────────────────────────────────────────────────────────────────

// wiredClass takes one parameter per resolution strategy.
type wiredClass struct {
	Config       map[string]any
	ConfigArray  map[string]any
	ConfigObject *config.Object
	YamlConfig   map[string]any
	URL          *URLHelper
	Auth         *AuthManager
	ILS          any
}

func newWiredClass(
	cfg map[string]any,
	cfgArray map[string]any,
	cfgObject *config.Object,
	yamlConfig map[string]any,
	url *URLHelper,
	auth *AuthManager,
	ils any,
) (*wiredClass, error) {
	if _, ok := ils.(*Connection); !ok {
		return nil, errors.New("invalid ILS connection")
	}
	if _, ok := cfg["Foo"]; !ok {
		return nil, errors.New("invalid configuration")
	}
	return &wiredClass{cfg, cfgArray, cfgObject, yamlConfig, url, auth, ils}, nil
}

type noConstructor struct{ Hits int }

type emptyConstructor struct{ ready bool }

func newEmptyConstructor() *emptyConstructor { return &emptyConstructor{ready: true} }

type builtinParam struct{}

func newBuiltinParam(cfg map[string]any) *builtinParam { return &builtinParam{} }

type untypedParam struct{}

func newUntypedParam(ils any) *untypedParam { return &untypedParam{} }

type typedService struct{ Auth *AuthManager }

func newTypedService(auth *AuthManager) *typedService { return &typedService{Auth: auth} }

const (
	classWired     = "test.Wired"
	classNoCtor    = "test.NoConstructor"
	classEmptyCtor = "test.EmptyConstructor"
	classBuiltin   = "test.BuiltinParam"
	classUntyped   = "test.UntypedParam"
	classBadConfig = "test.InvalidConfigType"
	classTyped     = "test.TypedService"
)

// newTestRegistry declares every fixture class.
func newTestRegistry(t *testing.T) *autowire.Registry {
	t.Helper()
	reg := autowire.NewRegistry()
	require.NoError(t, reg.Define(classWired, newWiredClass,
		autowire.Autowired(),
		autowire.Params("config", "configArray", "configObject", "yamlConfig", "url", "authManager", "ilsConnection"),
		autowire.Tag(0, "config=config"),
		autowire.Tag(1, "config=config, configType=array"),
		autowire.Tag(2, "config=config, configType=object"),
		autowire.Tag(3, "config=config2, configType=yaml"),
		autowire.Param(4, autowire.FromContainer("view.helpers")),
		autowire.Param(6, autowire.Service(autowire.Name[*Connection](), "")),
	))
	require.NoError(t, reg.Define(classNoCtor, (*noConstructor)(nil)))
	require.NoError(t, reg.Define(classEmptyCtor, newEmptyConstructor))
	require.NoError(t, reg.Define(classBuiltin, newBuiltinParam, autowire.Params("config")))
	require.NoError(t, reg.Define(classUntyped, newUntypedParam, autowire.Params("ilsConnection")))
	require.NoError(t, reg.Define(classBadConfig, newBuiltinParam,
		autowire.Params("config"),
		autowire.Tag(0, "config=config,configType=yummy"),
	))
	require.NoError(t, reg.Define(classTyped, newTypedService, autowire.Params("auth")))
	return reg
}

// newTestContainer holds every collaborator the fixture classes need.
func newTestContainer() (*container.Container, *stubYamlReader) {
	c := container.New()
	c.Instance(autowire.ConfigManagerService, &stubConfigManager{configs: map[string]map[string]any{
		"config": {"Foo": "bar"},
	}})
	yr := &stubYamlReader{files: map[string]map[string]any{
		"config2.yaml": {"YAML": map[string]any{"foo": "bar"}},
	}}
	c.Instance(autowire.YamlReaderService, yr)

	helpers := container.New()
	helpers.Instance(autowire.Name[*URLHelper](), &URLHelper{Base: "/catalog"})
	c.Instance("view.helpers", helpers)

	c.Instance(autowire.Name[*AuthManager](), &AuthManager{})
	c.Instance(autowire.Name[*Connection](), &Connection{Driver: "demo"})
	return c, yr
}
