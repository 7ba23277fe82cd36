package container_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-discovery/framework/container"
)

type record struct{ ID string }

type searcher interface{ Search(q string) []string }

// prefixFactory creates "<prefix>:<name>" for any name with the prefix.
type prefixFactory struct {
	prefix string
	calls  int
}

func (f *prefixFactory) CanCreate(_ *container.Container, name string) bool {
	return strings.HasPrefix(name, f.prefix)
}

func (f *prefixFactory) Create(_ *container.Container, name string) (any, error) {
	f.calls++
	return &record{ID: name}, nil
}

// ── Registration & resolution ─────────────────────────────────────────────────

func TestBind_IsTransient(t *testing.T) {
	c := container.New()
	c.Bind("record", func(c *container.Container) (any, error) { return &record{ID: "r1"}, nil })

	a := c.Make("record").(*record)
	b := c.Make("record").(*record)
	assert.Equal(t, "r1", a.ID)
	assert.NotSame(t, a, b)
	assert.False(t, c.Resolved("record"))
}

func TestSingleton_IsShared(t *testing.T) {
	c := container.New()
	calls := 0
	c.Singleton("record", func(c *container.Container) (any, error) {
		calls++
		return &record{ID: "r1"}, nil
	})

	a := c.Make("record")
	b := c.Make("record")
	assert.Same(t, a, b)
	assert.Equal(t, 1, calls)
	assert.True(t, c.Resolved("record"))
}

func TestSingleton_RebindDropsInstance(t *testing.T) {
	c := container.New()
	c.Singleton("record", func(c *container.Container) (any, error) { return &record{ID: "old"}, nil })
	_ = c.Make("record")
	c.Singleton("record", func(c *container.Container) (any, error) { return &record{ID: "new"}, nil })

	assert.Equal(t, "new", c.Make("record").(*record).ID)
}

func TestInstance_AndAlias(t *testing.T) {
	c := container.New()
	r := &record{ID: "x"}
	c.Instance("record", r)
	c.Alias("record", "item")

	got, err := c.Get("item")
	require.NoError(t, err)
	assert.Same(t, r, got)
	assert.True(t, c.Bound("item"))
}

func TestAlias_ToItselfPanics(t *testing.T) {
	c := container.New()
	assert.Panics(t, func() { c.Alias("a", "a") })
}

func TestContainer_BindsItself(t *testing.T) {
	c := container.New()
	assert.Same(t, c, c.Make("container"))
}

func TestGet_FactoryErrorReturnedUnchanged(t *testing.T) {
	c := container.New()
	boom := errors.New("solr down")
	c.Singleton("index", func(c *container.Container) (any, error) { return nil, boom })

	_, err := c.Get("index")
	assert.Same(t, boom, err)
	assert.False(t, c.Resolved("index"))
}

func TestGet_MissingReturnsNotFound(t *testing.T) {
	c := container.New()
	_, err := c.Get("nope")

	var nf *container.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "nope", nf.Name)
	assert.Panics(t, func() { c.Make("nope") })
}

func TestForgetAndFlush(t *testing.T) {
	c := container.New()
	c.Instance("a", 1)
	c.Instance("b", 2)

	c.Forget("a")
	assert.False(t, c.Bound("a"))
	assert.True(t, c.Bound("b"))

	c.Flush()
	assert.Empty(t, c.Bindings())
}

func TestAfterResolving_Fires(t *testing.T) {
	c := container.New()
	var seen []string
	c.AfterResolving(func(abstract string, _ any) { seen = append(seen, abstract) })
	c.Bind("a", func(c *container.Container) (any, error) { return 1, nil })

	_ = c.Make("a")
	assert.Equal(t, []string{"a"}, seen)
}

// ── Abstract factories ────────────────────────────────────────────────────────

func TestAbstractFactory_UsedForUnboundNamesAndShared(t *testing.T) {
	c := container.New()
	f := &prefixFactory{prefix: "catalog."}
	c.AddAbstractFactory(f)

	assert.True(t, c.Has("catalog.Record"))
	assert.False(t, c.Has("other"))

	a, err := c.Get("catalog.Record")
	require.NoError(t, err)
	b, err := c.Get("catalog.Record")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Equal(t, 1, f.calls)
	assert.Equal(t, "catalog.Record", a.(*record).ID)
}

func TestAbstractFactory_ExplicitBindingWins(t *testing.T) {
	c := container.New()
	f := &prefixFactory{prefix: "catalog."}
	c.AddAbstractFactory(f)
	c.Instance("catalog.Record", &record{ID: "bound"})

	assert.Equal(t, "bound", c.Make("catalog.Record").(*record).ID)
	assert.Equal(t, 0, f.calls)
}

// ── Sub-containers ────────────────────────────────────────────────────────────

func TestGetSubContainer(t *testing.T) {
	c := container.New()
	helpers := container.New()
	helpers.Instance("url", "url-helper")
	c.Instance("view.helpers", helpers)
	c.Instance("not-a-container", 42)

	sub, err := c.GetSubContainer("view.helpers")
	require.NoError(t, err)
	got, err := sub.Get("url")
	require.NoError(t, err)
	assert.Equal(t, "url-helper", got)

	_, err = c.GetSubContainer("not-a-container")
	var nl *container.NotLocatorError
	require.ErrorAs(t, err, &nl)
	assert.Equal(t, "int", nl.Got)

	_, err = c.GetSubContainer("missing")
	var nf *container.NotFoundError
	require.ErrorAs(t, err, &nf)
}

// ── Keys & generics ───────────────────────────────────────────────────────────

func TestKeyOf(t *testing.T) {
	const pkg = "github.com/km-arc/go-discovery/framework/container_test"
	tests := []struct {
		name string
		typ  reflect.Type
		want string
	}{
		{"struct", reflect.TypeOf(record{}), pkg + ".record"},
		{"pointer", reflect.TypeOf(&record{}), pkg + ".record"},
		{"interface", reflect.TypeOf((*searcher)(nil)).Elem(), pkg + ".searcher"},
		{"builtin", reflect.TypeOf(""), "string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, container.KeyOf(tt.typ))
		})
	}
	assert.Equal(t, pkg+".searcher", container.TypeKey((*searcher)(nil)))
	assert.Equal(t, pkg+".record", container.TypeKey(&record{}))
}

func TestResolveAndTryResolve(t *testing.T) {
	c := container.New()
	c.Instance("record", &record{ID: "r"})

	assert.Equal(t, "r", container.Resolve[*record](c, "record").ID)
	assert.Panics(t, func() { container.Resolve[string](c, "record") })

	_, err := container.TryResolve[string](c, "record")
	var tm *container.TypeMismatchError
	require.ErrorAs(t, err, &tm)
	assert.Equal(t, "*container_test.record", tm.Got)
}
