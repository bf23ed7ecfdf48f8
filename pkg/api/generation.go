package api

// GenerationOptions are the tuning knobs a caller may pass along with a prompt.
// Values are forwarded to the backend untouched; nil means "use the default".
type GenerationOptions struct {
	MaxTokens   *int     `json:"maxTokens,omitempty"`
	MaxLength   *int     `json:"maxLength,omitempty"` // hugging face naming
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"topP,omitempty"`
}

const (
	DefaultTemperature = 0.7
	DefaultTopP        = 0.9
)

// TokenLimit resolves maxTokens, then maxLength, then fallback.
func (o GenerationOptions) TokenLimit(fallback int) int {
	if o.MaxTokens != nil {
		return *o.MaxTokens
	}
	if o.MaxLength != nil {
		return *o.MaxLength
	}
	return fallback
}

func (o GenerationOptions) TemperatureOrDefault() float64 {
	if o.Temperature != nil {
		return *o.Temperature
	}
	return DefaultTemperature
}

func (o GenerationOptions) TopPOrDefault() float64 {
	if o.TopP != nil {
		return *o.TopP
	}
	return DefaultTopP
}

// GenerationRequest is a single prompt routed to a provider.
type GenerationRequest struct {
	Prompt  string            `json:"prompt"`
	Options GenerationOptions `json:"options"`
}

// GenerationResult is what a provider produced for a request.
type GenerationResult struct {
	Content  string `json:"content"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Usage    *Usage `json:"usage,omitempty"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// PlaceholderContent is returned when a backend answers successfully but
// the expected field is missing from its payload.
const PlaceholderContent = "Generated content would appear here."

// Int and Float are small helpers for building GenerationOptions.
func Int(v int) *int { return &v }

func Float(v float64) *float64 { return &v }
