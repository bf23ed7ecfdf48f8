package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/scribe/internal/server/validator"
	"github.com/nulzo/scribe/internal/writer"
	"github.com/nulzo/scribe/pkg/api"
)

// Writer is the slice of writer.Service the HTTP layer depends on.
type Writer interface {
	GenerateContent(ctx context.Context, prompt string, opts api.GenerationOptions) writer.Outcome
	ImproveText(ctx context.Context, text, goal string, opts api.GenerationOptions) writer.Outcome
	HumanizeText(ctx context.Context, text string, opts api.GenerationOptions) writer.Outcome
	CheckGrammar(ctx context.Context, text string, opts api.GenerationOptions) api.GrammarReport
	FactCheck(ctx context.Context, text string, opts api.GenerationOptions) api.FactCheckReport
	GenerateSection(ctx context.Context, sectionType, topic, extra string, opts api.GenerationOptions) writer.Outcome

	Provider() string
	Model() string
	ConfiguredProvider() string
	MockMode() bool
}

type WritingHandler struct {
	writer Writer
}

func NewWritingHandler(w Writer) *WritingHandler {
	return &WritingHandler{writer: w}
}

func toResponse(out writer.Outcome) api.GenerateContentResponse {
	return api.GenerateContentResponse{
		GenerationResult: out.GenerationResult,
		FallbackReason:   out.FallbackReason(),
	}
}

// bind decodes the body into req, attaching a validation problem on failure.
func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(api.ValidationError(validator.ParseValidationError(err)))
		return false
	}
	return true
}

// Generate never fails once the body is valid; backend trouble is reported
// through fallback_reason.
//
// POST /v1/generate
func (h *WritingHandler) Generate(c *gin.Context) {
	var req api.GenerateContentRequest
	if !bind(c, &req) {
		return
	}

	out := h.writer.GenerateContent(c.Request.Context(), req.Prompt, req.Options)
	c.JSON(http.StatusOK, toResponse(out))
}

// POST /v1/improve
func (h *WritingHandler) Improve(c *gin.Context) {
	var req api.ImproveTextRequest
	if !bind(c, &req) {
		return
	}

	out := h.writer.ImproveText(c.Request.Context(), req.Text, req.Goal, req.Options)
	c.JSON(http.StatusOK, toResponse(out))
}

// POST /v1/humanize
func (h *WritingHandler) Humanize(c *gin.Context) {
	var req api.TextRequest
	if !bind(c, &req) {
		return
	}

	out := h.writer.HumanizeText(c.Request.Context(), req.Text, req.Options)
	c.JSON(http.StatusOK, toResponse(out))
}

// POST /v1/grammar
func (h *WritingHandler) Grammar(c *gin.Context) {
	var req api.TextRequest
	if !bind(c, &req) {
		return
	}

	c.JSON(http.StatusOK, h.writer.CheckGrammar(c.Request.Context(), req.Text, req.Options))
}

// POST /v1/fact-check
func (h *WritingHandler) FactCheck(c *gin.Context) {
	var req api.TextRequest
	if !bind(c, &req) {
		return
	}

	c.JSON(http.StatusOK, h.writer.FactCheck(c.Request.Context(), req.Text, req.Options))
}

// POST /v1/sections
func (h *WritingHandler) Section(c *gin.Context) {
	var req api.GenerateSectionRequest
	if !bind(c, &req) {
		return
	}

	out := h.writer.GenerateSection(c.Request.Context(), req.SectionType, req.Topic, req.Context, req.Options)
	c.JSON(http.StatusOK, toResponse(out))
}
