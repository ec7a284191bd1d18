package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownIDResolvesToDefault(t *testing.T) {
	r := NewRegistry(Config{})

	client, meta := r.Get("no-such-provider")
	assert.NotNil(t, client)
	assert.Equal(t, DefaultProvider, meta.ID)

	assert.Equal(t, DefaultProvider, r.Resolve("no-such-provider"))
	assert.Equal(t, DefaultProvider, r.Resolve(""))
}

func TestKnownIDResolvesToItself(t *testing.T) {
	r := NewRegistry(Config{})

	_, meta := r.Get(ProviderOpenAI)
	assert.Equal(t, ProviderOpenAI, meta.ID)
	assert.Equal(t, ProviderAnthropic, r.Resolve(ProviderAnthropic))
}

func TestListReturnsAllProvidersInStableOrder(t *testing.T) {
	r := NewRegistry(Config{})

	list := r.List()
	require.Len(t, list, 3)
	assert.Equal(t, ProviderGemini, list[0].ID)
	assert.Equal(t, ProviderOpenAI, list[1].ID)
	assert.Equal(t, ProviderAnthropic, list[2].ID)
}

type stubClient struct{}

func (stubClient) Complete(context.Context, string, string) (string, error) { return "ok", nil }

func TestRegisterReplacesEntry(t *testing.T) {
	r := NewRegistry(Config{})
	r.Register(Metadata{ID: ProviderGemini, Name: "Stub"}, stubClient{})

	client, meta := r.Get(ProviderGemini)
	assert.Equal(t, "Stub", meta.Name)

	out, err := client.Complete(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}
