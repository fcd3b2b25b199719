package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHandler struct {
	name    string
	applies bool
}

func (h fakeHandler) HandlerName() string { return h.name }

func resolveFakes(handlers ...fakeHandler) Resolution[fakeHandler] {
	return New(handlers).Resolve(func(h fakeHandler) bool { return h.applies })
}

func TestResolveFirstMatch(t *testing.T) {
	res := resolveFakes(
		fakeHandler{name: "a", applies: false},
		fakeHandler{name: "b", applies: true},
		fakeHandler{name: "c", applies: false},
	)
	require.True(t, res.Ok())
	assert.Equal(t, "b", res.Name())
	assert.False(t, res.Ambiguous())

	h, err := res.Handler()
	require.NoError(t, err)
	assert.Equal(t, "b", h.name)
}

func TestResolveNoMatch(t *testing.T) {
	res := resolveFakes(
		fakeHandler{name: "a"},
		fakeHandler{name: "b"},
	)
	assert.False(t, res.Ok())
	assert.Empty(t, res.Name())

	_, err := res.Handler()
	assert.True(t, errors.Is(err, ErrNoResolution))
}

func TestResolveOverlappingGuardsKeepConfigurationOrder(t *testing.T) {
	res := resolveFakes(
		fakeHandler{name: "first", applies: true},
		fakeHandler{name: "second", applies: false},
		fakeHandler{name: "third", applies: true},
	)
	require.True(t, res.Ok())
	assert.Equal(t, "first", res.Name())
	assert.True(t, res.Ambiguous())
	assert.Equal(t, []string{"first", "third"}, res.Matches())
}

func TestCustomHandlersResolveAfterBuiltins(t *testing.T) {
	builtin := []fakeHandler{{name: "builtin", applies: true}}
	res := New(builtin, fakeHandler{name: "custom", applies: true}).
		Resolve(func(h fakeHandler) bool { return h.applies })
	assert.Equal(t, "builtin", res.Name())
	assert.Equal(t, []string{"builtin", "custom"}, res.Matches())
}

func TestEmptyResolutionHandlerFails(t *testing.T) {
	var res Resolution[fakeHandler]
	_, err := res.Handler()
	assert.True(t, errors.Is(err, ErrNoResolution))
}
