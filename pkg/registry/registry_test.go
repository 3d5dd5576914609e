package registry_test

import (
	"io"
	"sync"
	"testing"

	"github.com/aretw0/corpus/pkg/ports"
	"github.com/aretw0/corpus/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFactory struct{ name string }

func (stubFactory) CreateInputStream(ports.Params) (ports.SampleStream, error) { return nil, nil }
func (stubFactory) CreateOutputWriter(io.Writer) ports.SampleWriter           { return nil }
func (f stubFactory) Describe() string                                         { return "stub " + f.name }

func TestRegistry_Resolve(t *testing.T) {
	factoryA := stubFactory{name: "a"}
	factoryB := stubFactory{name: "b"}
	reg := registry.New(map[string]ports.StreamFactory{
		"conll02": factoryA,
		"ad":      factoryB,
	})

	got, ok := reg.Resolve("ad")
	require.True(t, ok)
	assert.Equal(t, factoryB, got)

	got, ok = reg.Resolve("conll02")
	require.True(t, ok)
	assert.Equal(t, factoryA, got)

	for _, id := range []string{"xyz", "", "AD", "conll02 ", "Conll02"} {
		f, ok := reg.Resolve(id)
		assert.False(t, ok, "identifier %q must not resolve", id)
		assert.Nil(t, f)
	}
}

func TestRegistry_IsFrozen(t *testing.T) {
	table := map[string]ports.StreamFactory{"native": stubFactory{name: "n"}}
	reg := registry.New(table)

	table["late"] = stubFactory{name: "late"}
	delete(table, "native")

	_, ok := reg.Resolve("late")
	assert.False(t, ok)
	_, ok = reg.Resolve("native")
	assert.True(t, ok)
}

func TestRegistry_FormatsAndDescription(t *testing.T) {
	reg := registry.New(map[string]ports.StreamFactory{
		"yaml":   stubFactory{name: "y"},
		"jsonl":  stubFactory{name: "j"},
		"broken": nil,
	})

	assert.Equal(t, []string{"jsonl", "yaml"}, reg.Formats())
	assert.Equal(t, "stub y", reg.Description("yaml"))
	assert.Equal(t, "", reg.Description("missing"))
}

func TestRegistry_NilIsEmpty(t *testing.T) {
	var reg *registry.Registry
	_, ok := reg.Resolve("native")
	assert.False(t, ok)
	assert.Empty(t, reg.Formats())
}

func TestRegistry_ConcurrentResolve(t *testing.T) {
	reg := registry.New(map[string]ports.StreamFactory{"native": stubFactory{name: "n"}})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := reg.Resolve("native")
			assert.True(t, ok)
		}()
	}
	wg.Wait()
}
