// Package ollama implements the "local" provider against an Ollama server.
package ollama

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/nulzo/scribe/internal/config"
	"github.com/nulzo/scribe/internal/httpclient"
	"github.com/nulzo/scribe/internal/llm"
	"github.com/nulzo/scribe/pkg/api"
	ollama "github.com/ollama/ollama/api"
)

func init() {
	llm.Register(string(llm.Local), NewAdapter)
}

type Adapter struct {
	config config.LocalConfig
	base   *url.URL
	client *ollama.Client
}

func NewAdapter(cfg config.AIConfig) (llm.Provider, error) {
	return New(cfg.Local, cfg.RequestTimeout)
}

func New(cfg config.LocalConfig, timeout time.Duration) (*Adapter, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultLocalURL
	}
	if cfg.Model == "" {
		cfg.Model = config.DefaultLocalModel
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid ollama base url %q: %w", cfg.BaseURL, err)
	}

	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: &statusTransport{next: http.DefaultTransport},
	}
	return &Adapter{
		config: cfg,
		base:   base,
		client: ollama.NewClient(base, httpClient),
	}, nil
}

func (a *Adapter) Name() string {
	return string(llm.Local)
}

func (a *Adapter) Model() string {
	return a.config.Model
}

func (a *Adapter) Generate(ctx context.Context, req *api.GenerationRequest) (*api.GenerationResult, error) {
	status := &responseStatus{}
	ctx = context.WithValue(ctx, statusKey{}, status)

	stream := false
	body := &ollama.GenerateRequest{
		Model:  a.config.Model,
		Prompt: req.Prompt,
		Stream: &stream,
	}

	var final ollama.GenerateResponse
	var content strings.Builder
	err := a.client.Generate(ctx, body, func(resp ollama.GenerateResponse) error {
		content.WriteString(resp.Response)
		final = resp
		return nil
	})
	if err != nil {
		return nil, a.wrapError(err, status.get())
	}

	text := content.String()
	if text == "" {
		text = api.PlaceholderContent
	}

	res := &api.GenerationResult{
		Content:  text,
		Provider: a.Name(),
		Model:    a.config.Model,
	}
	if final.PromptEvalCount > 0 || final.EvalCount > 0 {
		res.Usage = &api.Usage{
			PromptTokens:     final.PromptEvalCount,
			CompletionTokens: final.EvalCount,
			TotalTokens:      final.PromptEvalCount + final.EvalCount,
		}
	}

	return res, nil
}

// wrapError normalises client errors into the shared httpclient taxonomy
// using the status code observed on the wire.
func (a *Adapter) wrapError(err error, status int) error {
	endpoint := a.base.String() + "/api/generate"
	switch {
	case status >= 300:
		return &httpclient.UpstreamError{
			StatusCode: status,
			Message:    err.Error(),
			URL:        endpoint,
		}
	case status >= 200:
		return fmt.Errorf("%w: %v", httpclient.ErrDecode, err)
	default:
		return fmt.Errorf("request failed: %w", err)
	}
}

type statusKey struct{}

// responseStatus holds the status code of the last response seen for one
// Generate call.
type responseStatus struct {
	code atomic.Int64
}

func (r *responseStatus) get() int {
	return int(r.code.Load())
}

// statusTransport stores each response status in the responseStatus
// carried by the request context, if any.
type statusTransport struct {
	next http.RoundTripper
}

func (s *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := s.next.RoundTrip(req)
	if slot, ok := req.Context().Value(statusKey{}).(*responseStatus); ok && resp != nil {
		slot.code.Store(int64(resp.StatusCode))
	}
	return resp, err
}
