// Package mock serves canned writing samples without any network access.
// The router also uses it as the fallback when a real backend fails.
package mock

import (
	"context"
	"strings"

	"github.com/nulzo/scribe/internal/config"
	"github.com/nulzo/scribe/internal/llm"
	"github.com/nulzo/scribe/pkg/api"
)

const ModelName = "mock-writer"

func init() {
	llm.Register(string(llm.Mock), func(config.AIConfig) (llm.Provider, error) {
		return New(), nil
	})
}

const (
	Introduction = "Artificial Intelligence (AI) has emerged as one of the most transformative technologies of the twenty-first century, reshaping industries, public services, and everyday life. " +
		"From language models that draft text to systems that diagnose disease, AI now sits at the centre of debates about productivity, ethics, and the future of work. " +
		"This paper examines how these systems operate, the opportunities they create, and the risks that accompany their rapid adoption, setting out the questions that the following sections address."

	Methodology = "This study adopts a mixed-methods research design combining a systematic literature review with qualitative analysis of published case studies. " +
		"Sources were identified through academic databases using predefined search terms and screened against inclusion criteria covering relevance, recency, and methodological rigour. " +
		"Thematic coding was then applied to the selected material, allowing recurring patterns to be compared across contexts while limiting the influence of individual bias."

	Conclusion = "In conclusion, the evidence reviewed demonstrates that the benefits of the technology are substantial but unevenly distributed. " +
		"Realising its potential responsibly requires coordinated action from researchers, policymakers, and practitioners, including clear standards for transparency and accountability. " +
		"Future research should focus on long-term social effects and on practical frameworks that translate ethical principles into everyday decision-making."

	Default = "This section develops the central argument by drawing on current scholarship and relevant examples. " +
		"Each point is supported with evidence and linked back to the research question, ensuring a clear and logical progression of ideas. " +
		"The discussion highlights both the strengths and the limitations of existing approaches before moving towards a reasoned evaluation."
)

type rule struct {
	keyword string
	content string
}

// rules are evaluated in order; the first keyword found wins.
var rules = []rule{
	{keyword: "introduction", content: Introduction},
	{keyword: "methodology", content: Methodology},
	{keyword: "conclusion", content: Conclusion},
}

// Content selects the canned text for prompt by case-insensitive keyword match.
func Content(prompt string) string {
	lower := strings.ToLower(prompt)
	for _, r := range rules {
		if strings.Contains(lower, r.keyword) {
			return r.content
		}
	}
	return Default
}

// Result builds the full mock result for prompt.
func Result(prompt string) *api.GenerationResult {
	return &api.GenerationResult{
		Content:  Content(prompt),
		Provider: string(llm.Mock),
		Model:    ModelName,
	}
}

type Provider struct{}

func New() *Provider {
	return &Provider{}
}

func (p *Provider) Name() string {
	return string(llm.Mock)
}

func (p *Provider) Model() string {
	return ModelName
}

func (p *Provider) Generate(_ context.Context, req *api.GenerationRequest) (*api.GenerationResult, error) {
	return Result(req.Prompt), nil
}
