package api

// GrammarIssue is a single flagged span in a grammar report.
type GrammarIssue struct {
	Type        string `json:"type"`
	Original    string `json:"original"`
	Suggestion  string `json:"suggestion"`
	Explanation string `json:"explanation"`
}

// GrammarReport is returned by the grammar check. Issues and Score are
// fixed demo values; Suggestions holds the generated text.
type GrammarReport struct {
	Issues      []GrammarIssue `json:"issues"`
	Score       int            `json:"score"`
	Suggestions string         `json:"suggestions"`
	Provider    string         `json:"provider"`
	Model       string         `json:"model"`

	FallbackReason string `json:"fallback_reason,omitempty"`
}

// Claim is a single statement assessed by the fact check.
type Claim struct {
	Claim      string  `json:"claim"`
	Status     string  `json:"status"`
	Confidence float64 `json:"confidence"`
	Source     string  `json:"source"`
}

// FactCheckReport is returned by the fact check. Claims and OverallScore
// are fixed demo values; Analysis holds the generated text.
type FactCheckReport struct {
	Claims       []Claim `json:"claims"`
	OverallScore int     `json:"overallScore"`
	Analysis     string  `json:"analysis"`
	Provider     string  `json:"provider"`
	Model        string  `json:"model"`

	FallbackReason string `json:"fallback_reason,omitempty"`
}
