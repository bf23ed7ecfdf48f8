package api

// GenerateContentRequest is the body of POST /v1/generate.
type GenerateContentRequest struct {
	Prompt  string            `json:"prompt" binding:"required"`
	Options GenerationOptions `json:"options"`
}

// ImproveTextRequest is the body of POST /v1/improve.
type ImproveTextRequest struct {
	Text    string            `json:"text" binding:"required"`
	Goal    string            `json:"goal,omitempty"`
	Options GenerationOptions `json:"options"`
}

// TextRequest is shared by the grammar, humanize and fact-check endpoints.
type TextRequest struct {
	Text    string            `json:"text" binding:"required"`
	Options GenerationOptions `json:"options"`
}

// GenerateSectionRequest is the body of POST /v1/sections.
type GenerateSectionRequest struct {
	SectionType string            `json:"sectionType" binding:"required"`
	Topic       string            `json:"topic" binding:"required"`
	Context     string            `json:"context,omitempty"`
	Options     GenerationOptions `json:"options"`
}
