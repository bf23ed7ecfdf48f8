package writer

import (
	"encoding/json"
	"errors"

	"github.com/nulzo/scribe/internal/httpclient"
	"github.com/nulzo/scribe/pkg/api"
)

type FallbackReason string

const (
	ReasonTransport      FallbackReason = "transport"
	ReasonUpstreamStatus FallbackReason = "upstream_status"
	ReasonDecode         FallbackReason = "decode"
)

// Fallback explains why mock content replaced a real backend answer.
type Fallback struct {
	Reason     FallbackReason
	Provider   string
	StatusCode int
	Err        error
}

func (f *Fallback) Error() string {
	if f.Err == nil {
		return string(f.Reason)
	}
	return string(f.Reason) + ": " + f.Err.Error()
}

func (f *Fallback) Unwrap() error {
	return f.Err
}

// Outcome is the result of a routed generation. Fallback is nil when the
// content came from the configured strategy.
type Outcome struct {
	api.GenerationResult
	Fallback *Fallback
}

func (o Outcome) FellBack() bool {
	return o.Fallback != nil
}

// FallbackReason returns the reason as a string, empty when no fallback happened.
func (o Outcome) FallbackReason() string {
	if o.Fallback == nil {
		return ""
	}
	return string(o.Fallback.Reason)
}

// Classify maps a backend error to a fallback reason and, for protocol
// errors, the upstream status code.
func Classify(err error) (FallbackReason, int) {
	var upstreamErr *httpclient.UpstreamError
	if errors.As(err, &upstreamErr) {
		return ReasonUpstreamStatus, upstreamErr.StatusCode
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.Is(err, httpclient.ErrDecode) || errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return ReasonDecode, 0
	}

	return ReasonTransport, 0
}
