package openrouter

import (
	"context"
	"net/http"

	"github.com/nulzo/scribe/internal/config"
	"github.com/nulzo/scribe/internal/httpclient"
	"github.com/nulzo/scribe/internal/llm"
	"github.com/nulzo/scribe/pkg/api"
)

func init() {
	llm.Register(string(llm.OpenRouter), NewAdapter)
}

const (
	DefaultMaxTokens = 1000
	SystemPrompt     = "You are an expert academic writing assistant. Write clear, well-structured, original prose suitable for university assignments."
)

type Adapter struct {
	config config.OpenRouterConfig
	client httpclient.HTTPClient
}

func NewAdapter(cfg config.AIConfig) (llm.Provider, error) {
	return New(cfg.OpenRouter, llm.NewHTTPClient(cfg.RequestTimeout)), nil
}

// New builds an adapter with an explicit client.
func New(cfg config.OpenRouterConfig, client httpclient.HTTPClient) *Adapter {
	if cfg.APIURL == "" {
		cfg.APIURL = config.DefaultOpenRouterURL
	}
	if cfg.Model == "" {
		cfg.Model = config.DefaultOpenRouterModel
	}
	return &Adapter{config: cfg, client: client}
}

func (a *Adapter) Name() string {
	return string(llm.OpenRouter)
}

func (a *Adapter) Model() string {
	return a.config.Model
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	TopP        float64   `json:"top_p"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *api.Usage `json:"usage"`
}

func (a *Adapter) Generate(ctx context.Context, req *api.GenerationRequest) (*api.GenerationResult, error) {
	body := chatRequest{
		Model: a.config.Model,
		Messages: []message{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: req.Prompt},
		},
		MaxTokens:   req.Options.TokenLimit(DefaultMaxTokens),
		Temperature: req.Options.TemperatureOrDefault(),
		TopP:        req.Options.TopPOrDefault(),
	}

	headers := map[string]string{
		"Authorization": "Bearer " + a.config.APIKey,
		"HTTP-Referer":  a.config.SiteURL,
		"X-Title":       a.config.AppTitle,
	}

	var resp chatResponse
	if err := httpclient.SendRequest(ctx, a.client, http.MethodPost, a.config.APIURL, headers, body, &resp); err != nil {
		return nil, err
	}

	content := api.PlaceholderContent
	if len(resp.Choices) > 0 && resp.Choices[0].Message.Content != "" {
		content = resp.Choices[0].Message.Content
	}

	return &api.GenerationResult{
		Content:  content,
		Provider: a.Name(),
		Model:    a.config.Model,
		Usage:    resp.Usage,
	}, nil
}
