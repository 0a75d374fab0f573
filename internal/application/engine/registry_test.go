package engine

import (
	"context"
	"testing"

	"github.com/datanaut/naqo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedHandler struct{ name string }

func (h *namedHandler) Execute(ctx context.Context, input map[string]any) (domain.TaskResult, error) {
	return domain.TaskResult{"handler": h.name}, nil
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry()

	_, ok := registry.Get(domain.TaskSchemaDiscovery)
	assert.False(t, ok)

	registry.Register(domain.TaskSchemaDiscovery, &namedHandler{name: "discovery"})

	handler, ok := registry.Get(domain.TaskSchemaDiscovery)
	require.True(t, ok)
	result, err := handler.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "discovery", result["handler"])
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	registry := NewRegistry()
	registry.Register(domain.TaskValidation, &namedHandler{name: "first"})
	registry.Register(domain.TaskValidation, &namedHandler{name: "second"})

	handler, ok := registry.Get(domain.TaskValidation)
	require.True(t, ok)
	result, _ := handler.Execute(context.Background(), nil)
	assert.Equal(t, "second", result["handler"])

	assert.Len(t, registry.Types(), 1)
}
