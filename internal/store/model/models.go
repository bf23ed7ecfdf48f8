package model

import "time"

// GenerationLog captures one routed generation call.
type GenerationLog struct {
	ID                 string    `db:"id" json:"id"`
	Operation          string    `db:"operation" json:"operation"`
	ConfiguredProvider string    `db:"configured_provider" json:"configured_provider"`
	Provider           string    `db:"provider" json:"provider"`
	Model              string    `db:"model" json:"model"`
	FallbackReason     string    `db:"fallback_reason" json:"fallback_reason,omitempty"`
	PromptChars        int       `db:"prompt_chars" json:"prompt_chars"`
	ContentChars       int       `db:"content_chars" json:"content_chars"`
	PromptTokens       int       `db:"prompt_tokens" json:"prompt_tokens"`
	CompletionTokens   int       `db:"completion_tokens" json:"completion_tokens"`
	LatencyMS          int64     `db:"latency_ms" json:"latency_ms"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// DailyUsage aggregates generation logs per day and provider.
type DailyUsage struct {
	Date       string  `db:"date" json:"date"`
	Provider   string  `db:"provider" json:"provider"`
	Requests   int     `db:"requests" json:"requests"`
	Fallbacks  int     `db:"fallbacks" json:"fallbacks"`
	AvgLatency float64 `db:"avg_latency_ms" json:"avg_latency_ms"`
}
