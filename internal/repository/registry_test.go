package repository

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/roach88/methodql/internal/definition"
	"github.com/roach88/methodql/internal/derive"
	"github.com/roach88/methodql/internal/testutil"
)

func simpleDefinition(methods ...string) definition.Repository {
	def := definition.Repository{
		Name: "SimpleRepository",
		Entity: definition.Entity{
			Name: "Simple",
		},
		Methods: methods,
	}
	for _, p := range testutil.SimpleProperties {
		def.Entity.Properties = append(def.Entity.Properties, definition.Property{Path: p.Path, Type: string(p.Type)})
	}
	return def
}

func TestRegistry_Bootstrap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	reg := New(WithLogger(zap.New(core)))
	require.NoError(t, reg.Register(simpleDefinition("findByName", "countByEnabledTrue")))

	require.NoError(t, reg.Bootstrap(FailFast))

	methods := reg.Methods("SimpleRepository")
	require.Len(t, methods, 2)
	assert.Equal(t, "findByName", methods[0].Name)
	assert.True(t, methods[0].Declared)
	assert.Equal(t, "select e from Simple e where e.name = ?1", methods[0].Query())
	assert.Equal(t, derive.KindCount, methods[1].Kind())

	compiled := logs.FilterMessage("method compiled").All()
	require.Len(t, compiled, 2)
	assert.Equal(t, "findByName", compiled[0].ContextMap()["method"])
}

func TestRegistry_BootstrapModes(t *testing.T) {
	newRegistry := func() *Registry {
		reg := New()
		require.NoError(t, reg.Register(simpleDefinition("findByMissing", "findByName", "findByAndName")))
		return reg
	}

	err := newRegistry().Bootstrap(FailFast)
	require.Error(t, err)
	assert.Len(t, Errors(err), 1)
	assert.True(t, derive.IsUnknownPropertyError(err))

	reg := newRegistry()
	err = reg.Bootstrap(CollectAll)
	errs := Errors(err)
	require.Len(t, errs, 2)
	assert.True(t, derive.IsUnknownPropertyError(errs[0]))
	assert.Contains(t, errs[1].Error(), string(derive.ErrCodeEmptyFragment))

	methods := reg.Methods("SimpleRepository")
	require.Len(t, methods, 1)
	assert.Equal(t, "findByName", methods[0].Name)
}

func TestRegistry_Lookup(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(simpleDefinition("findByName")))
	require.NoError(t, reg.Bootstrap(FailFast))

	declared, err := reg.Lookup("SimpleRepository", "findByName")
	require.NoError(t, err)
	assert.True(t, declared.Declared)

	onDemand, err := reg.Lookup("SimpleRepository", "findByCounterGreaterThan")
	require.NoError(t, err)
	assert.False(t, onDemand.Declared)
	assert.Equal(t, "select e from Simple e where e.counter > ?1", onDemand.Query())

	again, err := reg.Lookup("SimpleRepository", "findByCounterGreaterThan")
	require.NoError(t, err)
	assert.Same(t, onDemand, again)

	_, err = reg.Lookup("OtherRepository", "findByName")
	assert.True(t, IsInvocationError(err, ErrCodeUnknownMethod))
	assert.Contains(t, err.Error(), "unknown repository")

	_, err = reg.Lookup("SimpleRepository", "findByColour")
	assert.True(t, IsInvocationError(err, ErrCodeUnknownMethod))
	assert.True(t, derive.IsUnknownPropertyError(err))
}

func TestRegistry_LookupCacheBounded(t *testing.T) {
	reg := New(WithCacheSize(1))
	require.NoError(t, reg.Register(simpleDefinition("findByName")))

	first, err := reg.Lookup("SimpleRepository", "findById")
	require.NoError(t, err)
	_, err = reg.Lookup("SimpleRepository", "findByCounter")
	require.NoError(t, err)

	recompiled, err := reg.Lookup("SimpleRepository", "findById")
	require.NoError(t, err)
	assert.NotSame(t, first, recompiled)
	assert.Equal(t, first.Query(), recompiled.Query())
}

func TestRegistry_CustomPrefixAndDeriveOptions(t *testing.T) {
	reg := New(WithDeriveOptions(derive.WithSplitMode(derive.SplitSubstring)))
	require.NoError(t, reg.RegisterModel("SimpleRepository", "findSimpleBy", testutil.SimpleModel(t), "findSimpleByName"))
	require.NoError(t, reg.Bootstrap(FailFast))

	m, err := reg.Lookup("SimpleRepository", "findSimpleByName")
	require.NoError(t, err)
	assert.True(t, m.Root.Prefix().Custom())
	assert.Equal(t, "select e from Simple e where e.name = ?1", m.Query())
}

func TestRegistry_RegisterErrors(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(simpleDefinition("findByName")))

	assert.ErrorContains(t, reg.Register(simpleDefinition("findById")), "already registered")
	assert.ErrorContains(t, reg.RegisterModel("", "", testutil.SimpleModel(t)), "name is required")
	assert.ErrorContains(t, reg.RegisterModel("R", "", nil), "model is required")

	bad := simpleDefinition("findById")
	bad.Name = "BadRepository"
	bad.Entity.Properties = nil
	assert.ErrorContains(t, reg.Register(bad), "repository BadRepository")
}

func TestRegistry_Accessors(t *testing.T) {
	reg := New()
	model := testutil.SimpleModel(t)
	require.NoError(t, reg.RegisterModel("B", "", model, "findById"))
	require.NoError(t, reg.RegisterModel("A", "", model, "findByName"))

	assert.Equal(t, []string{"B", "A"}, reg.Repositories())
	assert.Len(t, reg.Models(), 1)

	got, ok := reg.Model("A")
	require.True(t, ok)
	assert.Same(t, model, got)

	_, ok = reg.Model("C")
	assert.False(t, ok)
	assert.Nil(t, reg.Methods("C"))
}

func TestRegistry_ConcurrentLookup(t *testing.T) {
	reg := New()
	require.NoError(t, reg.Register(simpleDefinition("findByName")))
	require.NoError(t, reg.Bootstrap(FailFast))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m, err := reg.Lookup("SimpleRepository", "findByEnabledTrueOrderByIdDesc")
			assert.NoError(t, err)
			assert.Equal(t, "select e from Simple e where e.enabled IS TRUE order by e.id desc", m.Query())
		}()
	}
	wg.Wait()
}

func TestErrors(t *testing.T) {
	assert.Nil(t, Errors(nil))

	single := &InvocationError{Code: ErrCodeNoResult}
	assert.Equal(t, []error{single}, Errors(single))
}

func TestInvocationError_Format(t *testing.T) {
	err := &InvocationError{
		Code:       ErrCodeArityMismatch,
		Repository: "SimpleRepository",
		Method:     "findByName",
		Message:    "arguments do not match parameters",
	}
	assert.Equal(t, "ARITY_MISMATCH: arguments do not match parameters (repository=SimpleRepository, method=findByName)", err.Error())
}
