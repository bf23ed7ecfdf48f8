package huggingface

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/nulzo/scribe/internal/config"
	"github.com/nulzo/scribe/internal/httpclient"
	"github.com/nulzo/scribe/internal/llm"
	"github.com/nulzo/scribe/pkg/api"
)

func init() {
	llm.Register(string(llm.HuggingFace), NewAdapter)
}

const DefaultMaxLength = 500

type Adapter struct {
	config config.HuggingFaceConfig
	model  string
	client httpclient.HTTPClient
}

func NewAdapter(cfg config.AIConfig) (llm.Provider, error) {
	return New(cfg.HuggingFace, llm.NewHTTPClient(cfg.RequestTimeout)), nil
}

// New builds an adapter with an explicit client.
func New(cfg config.HuggingFaceConfig, client httpclient.HTTPClient) *Adapter {
	if cfg.APIURL == "" {
		cfg.APIURL = config.DefaultHuggingFaceURL
	}
	return &Adapter{
		config: cfg,
		model:  modelFromURL(cfg.APIURL),
		client: client,
	}
}

// modelFromURL returns the repository id following /models/ in an
// inference endpoint, or the whole URL if it has no such segment.
func modelFromURL(url string) string {
	const marker = "/models/"
	if i := strings.Index(url, marker); i != -1 {
		return strings.Trim(url[i+len(marker):], "/")
	}
	return url
}

func (a *Adapter) Name() string {
	return string(llm.HuggingFace)
}

func (a *Adapter) Model() string {
	return a.model
}

type parameters struct {
	MaxLength   int     `json:"max_length"`
	Temperature float64 `json:"temperature"`
	DoSample    bool    `json:"do_sample"`
}

type inferenceRequest struct {
	Inputs     string     `json:"inputs"`
	Parameters parameters `json:"parameters"`
}

type generation struct {
	GeneratedText string `json:"generated_text"`
}

func (a *Adapter) Generate(ctx context.Context, req *api.GenerationRequest) (*api.GenerationResult, error) {
	body := inferenceRequest{
		Inputs: req.Prompt,
		Parameters: parameters{
			MaxLength:   req.Options.TokenLimit(DefaultMaxLength),
			Temperature: req.Options.TemperatureOrDefault(),
			DoSample:    true,
		},
	}

	headers := map[string]string{
		"Authorization": "Bearer " + a.config.APIKey,
	}

	var raw json.RawMessage
	if err := httpclient.SendRequest(ctx, a.client, http.MethodPost, a.config.APIURL, headers, body, &raw); err != nil {
		return nil, err
	}

	content := api.PlaceholderContent
	// anything other than a list of generations is treated as an empty answer
	var generations []generation
	if err := json.Unmarshal(raw, &generations); err == nil && len(generations) > 0 && generations[0].GeneratedText != "" {
		content = generations[0].GeneratedText
	}

	return &api.GenerationResult{
		Content:  content,
		Provider: a.Name(),
		Model:    a.model,
	}, nil
}
