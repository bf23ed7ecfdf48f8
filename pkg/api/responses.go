package api

// GenerateContentResponse wraps a result with the reason the router fell
// back to mock content, if it did.
type GenerateContentResponse struct {
	GenerationResult
	FallbackReason string `json:"fallback_reason,omitempty"`
}

// ConfigResponse describes the effective routing configuration. Keys are
// never included.
type ConfigResponse struct {
	Provider           string `json:"provider"`
	ConfiguredProvider string `json:"configured_provider"`
	Model              string `json:"model"`
	MockMode           bool   `json:"mock_mode"`
}
