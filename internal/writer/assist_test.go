package writer_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/nulzo/scribe/internal/config"
	llmmock "github.com/nulzo/scribe/internal/llm/mock"
	"github.com/nulzo/scribe/internal/writer"
	"github.com/nulzo/scribe/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func capturePrompt(t *testing.T, reply string) (*writer.Service, *string) {
	t.Helper()
	var prompt string
	provider := new(MockProvider)
	provider.On("Generate", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			prompt = args.Get(1).(*api.GenerationRequest).Prompt
		}).
		Return(&api.GenerationResult{Content: reply, Provider: "openrouter", Model: "test-model"}, nil)

	svc := writer.NewService(config.AIConfig{Provider: "openrouter"}, zap.NewNop(), writer.WithProvider(provider))
	return svc, &prompt
}

func TestCheckGrammar_PlaceholderShapeOnSuccess(t *testing.T) {
	svc, prompt := capturePrompt(t, "Arbitrary model output about commas")

	report := svc.CheckGrammar(context.Background(), "Their is a problem.", api.GenerationOptions{})

	assert.Contains(t, *prompt, "Their is a problem.")
	assert.Equal(t, writer.PlaceholderGrammarIssues(), report.Issues)
	assert.Equal(t, writer.PlaceholderGrammarScore, report.Score)
	assert.Equal(t, "Arbitrary model output about commas", report.Suggestions)
	assert.Equal(t, "openrouter", report.Provider)
	assert.Empty(t, report.FallbackReason)
}

func TestCheckGrammar_PlaceholderShapeOnFailure(t *testing.T) {
	server, _ := countingServer(t, http.StatusBadGateway, `{}`)
	svc := writer.NewService(config.AIConfig{
		Provider:   "openrouter",
		OpenRouter: config.OpenRouterConfig{APIURL: server.URL},
	}, zap.NewNop())

	report := svc.CheckGrammar(context.Background(), "text", api.GenerationOptions{})

	assert.Equal(t, writer.PlaceholderGrammarIssues(), report.Issues)
	assert.Equal(t, writer.PlaceholderGrammarScore, report.Score)
	assert.Equal(t, llmmock.Default, report.Suggestions)
	assert.Equal(t, "mock", report.Provider)
	assert.Equal(t, "upstream_status", report.FallbackReason)
}

func TestFactCheck_PlaceholderShape(t *testing.T) {
	svc, prompt := capturePrompt(t, "Claim one looks fine.")

	report := svc.FactCheck(context.Background(), "AI was invented in 1956.", api.GenerationOptions{})

	assert.Contains(t, *prompt, "AI was invented in 1956.")
	assert.Equal(t, writer.PlaceholderClaims(), report.Claims)
	assert.Equal(t, writer.PlaceholderFactCheckScore, report.OverallScore)
	assert.Equal(t, "Claim one looks fine.", report.Analysis)

	mocked := writer.NewService(config.AIConfig{Provider: "mock"}, zap.NewNop())
	mockReport := mocked.FactCheck(context.Background(), "x", api.GenerationOptions{})
	assert.Equal(t, report.Claims, mockReport.Claims)
	assert.Equal(t, report.OverallScore, mockReport.OverallScore)
}

func TestPlaceholdersAreFreshCopies(t *testing.T) {
	issues := writer.PlaceholderGrammarIssues()
	issues[0].Type = "changed"
	assert.Equal(t, "grammar", writer.PlaceholderGrammarIssues()[0].Type)
}

func TestImproveText_Prompt(t *testing.T) {
	svc, prompt := capturePrompt(t, "better")

	out := svc.ImproveText(context.Background(), "draft text", "", api.GenerationOptions{})
	assert.Equal(t, "better", out.Content)
	assert.Contains(t, *prompt, "clarity and academic tone")
	assert.Contains(t, *prompt, "draft text")

	svc.ImproveText(context.Background(), "draft text", "conciseness", api.GenerationOptions{})
	assert.Contains(t, *prompt, "for conciseness")
}

func TestHumanizeText_Prompt(t *testing.T) {
	svc, prompt := capturePrompt(t, "natural")

	out := svc.HumanizeText(context.Background(), "robotic text", api.GenerationOptions{})
	assert.Equal(t, "natural", out.Content)
	assert.Contains(t, *prompt, "robotic text")
	assert.True(t, strings.HasPrefix(*prompt, "Rewrite the following text"))
}

func TestGenerateSection_SelectsMatchingMockText(t *testing.T) {
	svc := writer.NewService(config.AIConfig{Provider: "mock"}, zap.NewNop())
	ctx := context.Background()

	cases := map[string]string{
		"Introduction": llmmock.Introduction,
		"methodology":  llmmock.Methodology,
		"Conclusion":   llmmock.Conclusion,
		"Discussion":   llmmock.Default,
	}
	for section, want := range cases {
		out := svc.GenerateSection(ctx, section, "renewable energy", "", api.GenerationOptions{})
		assert.Equal(t, want, out.Content, section)
	}
}

func TestGenerateSection_Prompt(t *testing.T) {
	svc, prompt := capturePrompt(t, "section body")

	svc.GenerateSection(context.Background(), "Literature Review", "urban heat islands", "focus on Europe", api.GenerationOptions{})

	assert.Contains(t, *prompt, "literature review section")
	assert.Contains(t, *prompt, `"urban heat islands"`)
	assert.Contains(t, *prompt, "Additional context: focus on Europe")
}
