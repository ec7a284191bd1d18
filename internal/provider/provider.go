// Package provider maps provider identifiers to concrete LLM clients. The
// registry fails closed: an unknown identifier resolves to the default
// provider instead of an error, so provider selection is never a hard failure
// for the rest of the engine.
package provider

import "context"

// Client is the single completion capability the oracle needs from a
// provider. Prompt construction and response parsing live in the oracle
// layer, not here.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Metadata describes a registered provider for display purposes.
type Metadata struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Model string `json:"model"`
	Label string `json:"label"`
}

const (
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	DefaultProvider = ProviderGemini
)

type entry struct {
	client Client
	meta   Metadata
}

type Registry struct {
	entries   map[string]entry
	defaultID string
}

// Config carries API keys and model overrides for the registered providers.
// Empty keys still register a client; its calls fail and the oracle falls
// back deterministically.
type Config struct {
	GeminiAPIKey    string
	GeminiModel     string
	OpenAIAPIKey    string
	OpenAIModel     string
	AnthropicAPIKey string
	AnthropicModel  string
}

func NewRegistry(cfg Config) *Registry {
	r := &Registry{entries: make(map[string]entry), defaultID: DefaultProvider}

	r.Register(Metadata{
		ID:    ProviderGemini,
		Name:  "Google Gemini",
		Model: cfg.GeminiModel,
		Label: "✨ Gemini",
	}, NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel))

	r.Register(Metadata{
		ID:    ProviderOpenAI,
		Name:  "OpenAI GPT",
		Model: cfg.OpenAIModel,
		Label: "🧠 GPT",
	}, NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel))

	r.Register(Metadata{
		ID:    ProviderAnthropic,
		Name:  "Anthropic Claude",
		Model: cfg.AnthropicModel,
		Label: "🎭 Claude",
	}, NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel))

	return r
}

// Register adds or replaces a provider entry.
func (r *Registry) Register(meta Metadata, client Client) {
	r.entries[meta.ID] = entry{client: client, meta: meta}
}

// Get resolves a provider id to its client and metadata. Unknown ids resolve
// to the default provider.
func (r *Registry) Get(id string) (Client, Metadata) {
	if e, ok := r.entries[id]; ok {
		return e.client, e.meta
	}
	e := r.entries[r.defaultID]
	return e.client, e.meta
}

// Resolve normalizes a provider id to one the registry knows.
func (r *Registry) Resolve(id string) string {
	if _, ok := r.entries[id]; ok {
		return id
	}
	return r.defaultID
}

func (r *Registry) List() []Metadata {
	out := make([]Metadata, 0, len(r.entries))
	for _, id := range []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic} {
		if e, ok := r.entries[id]; ok {
			out = append(out, e.meta)
		}
	}
	return out
}
