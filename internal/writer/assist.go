package writer

import (
	"context"
	"fmt"
	"strings"

	"github.com/nulzo/scribe/pkg/api"
)

const defaultImproveGoal = "clarity and academic tone"

// Grammar and fact-check reports carry fixed demo metrics; only the free
// text fields reflect the model output.
const (
	PlaceholderGrammarScore   = 85
	PlaceholderFactCheckScore = 88
)

func PlaceholderGrammarIssues() []api.GrammarIssue {
	return []api.GrammarIssue{
		{
			Type:        "grammar",
			Original:    "their are",
			Suggestion:  "there are",
			Explanation: "\"There\" indicates existence; \"their\" is possessive.",
		},
	}
}

func PlaceholderClaims() []api.Claim {
	return []api.Claim{
		{
			Claim:      "AI adoption has increased significantly over the past decade.",
			Status:     "verified",
			Confidence: 0.92,
			Source:     "Stanford AI Index Report",
		},
	}
}

func (s *Service) ImproveText(ctx context.Context, text, goal string, opts api.GenerationOptions) Outcome {
	if strings.TrimSpace(goal) == "" {
		goal = defaultImproveGoal
	}
	prompt := fmt.Sprintf(
		"Improve the following text for %s. Keep the original meaning and return only the revised text.\n\nText:\n%s",
		goal, text,
	)
	return s.generate(ctx, "improve", prompt, opts)
}

func (s *Service) HumanizeText(ctx context.Context, text string, opts api.GenerationOptions) Outcome {
	prompt := fmt.Sprintf(
		"Rewrite the following text so it reads naturally, as if written by a thoughtful student. Vary sentence length, avoid formulaic phrasing and keep the meaning intact.\n\nText:\n%s",
		text,
	)
	return s.generate(ctx, "humanize", prompt, opts)
}

func (s *Service) CheckGrammar(ctx context.Context, text string, opts api.GenerationOptions) api.GrammarReport {
	prompt := fmt.Sprintf(
		"Check the following text for grammar, spelling and punctuation errors. List each problem with a suggested correction.\n\nText:\n%s",
		text,
	)
	out := s.generate(ctx, "grammar", prompt, opts)

	return api.GrammarReport{
		Issues:         PlaceholderGrammarIssues(),
		Score:          PlaceholderGrammarScore,
		Suggestions:    out.Content,
		Provider:       out.Provider,
		Model:          out.Model,
		FallbackReason: out.FallbackReason(),
	}
}

func (s *Service) FactCheck(ctx context.Context, text string, opts api.GenerationOptions) api.FactCheckReport {
	prompt := fmt.Sprintf(
		"Review the factual claims in the following text. For each claim, say whether it appears accurate and name sources that could verify it.\n\nText:\n%s",
		text,
	)
	out := s.generate(ctx, "fact_check", prompt, opts)

	return api.FactCheckReport{
		Claims:         PlaceholderClaims(),
		OverallScore:   PlaceholderFactCheckScore,
		Analysis:       out.Content,
		Provider:       out.Provider,
		Model:          out.Model,
		FallbackReason: out.FallbackReason(),
	}
}

// GenerateSection names the section type in the prompt so the matching
// canned text is chosen when mock content is served.
func (s *Service) GenerateSection(ctx context.Context, sectionType, topic, extra string, opts api.GenerationOptions) Outcome {
	var b strings.Builder
	fmt.Fprintf(&b, "Write the %s section of an academic assignment on the topic %q.", strings.ToLower(sectionType), topic)
	if strings.TrimSpace(extra) != "" {
		fmt.Fprintf(&b, " Additional context: %s", extra)
	}
	b.WriteString(" Use a formal academic tone and well-structured paragraphs.")

	return s.generate(ctx, "section", b.String(), opts)
}
