package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrDecode marks a 2xx response whose body could not be decoded.
var ErrDecode = errors.New("failed to decode response")

// UpstreamError represents a non-success status returned by an upstream service
type UpstreamError struct {
	StatusCode int
	Message    string
	Body       []byte
	URL        string
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream error: status %d from %s: %s", e.StatusCode, e.URL, e.Message)
	}
	return fmt.Sprintf("upstream error: status %d from %s", e.StatusCode, e.URL)
}

// providerMessage pulls a human readable message out of the common error
// envelopes: {"error":{"message":"..."}}, {"error":"..."} and {"message":"..."}.
func providerMessage(body []byte) string {
	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return strings.TrimSpace(string(body))
	}

	if len(envelope.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(envelope.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
		var flat string
		if err := json.Unmarshal(envelope.Error, &flat); err == nil && flat != "" {
			return flat
		}
	}

	return envelope.Message
}
