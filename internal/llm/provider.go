package llm

import (
	"context"
	"net/http"
	"time"

	"github.com/nulzo/scribe/pkg/api"
)

type ProviderName string

const (
	OpenRouter  ProviderName = "openrouter"
	HuggingFace ProviderName = "huggingface"
	Local       ProviderName = "local"
	Mock        ProviderName = "mock"
)

// Provider is a single generation backend.
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, req *api.GenerationRequest) (*api.GenerationResult, error)
}

// NewHTTPClient returns the client adapters use for outbound calls. A zero
// timeout leaves the platform default in place.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
