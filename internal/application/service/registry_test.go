package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct {
	name string
	desc string
}

func (s stubTool) Name() string                       { return s.name }
func (s stubTool) Description() string                { return s.desc }
func (s stubTool) Parameters() map[string]interface{} { return map[string]interface{}{"type": "object"} }
func (s stubTool) Execute(ctx context.Context, arguments string) (string, error) {
	return s.name, nil
}

func TestToolRegistry_DefinitionsFollowRegistrationOrder(t *testing.T) {
	r := NewToolRegistry(stubTool{name: "b"}, stubTool{name: "a"}, stubTool{name: "c"})

	defs := r.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "b", defs[0].Name)
	assert.Equal(t, "a", defs[1].Name)
	assert.Equal(t, "c", defs[2].Name)
}

func TestToolRegistry_ReRegisterReplacesInPlace(t *testing.T) {
	r := NewToolRegistry(stubTool{name: "a", desc: "old"}, stubTool{name: "b"})
	r.Register(stubTool{name: "a", desc: "new"})

	all := r.All()
	require.Len(t, all, 2)
	assert.Equal(t, "new", all[0].Description())

	_, ok := r.Get("missing")
	assert.False(t, ok)
}
