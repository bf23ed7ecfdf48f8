package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/scribe/internal/analytics"
	"github.com/nulzo/scribe/internal/config"
	llmmock "github.com/nulzo/scribe/internal/llm/mock"
	_ "github.com/nulzo/scribe/internal/llm/openrouter"
	"github.com/nulzo/scribe/internal/platform/metrics"
	"github.com/nulzo/scribe/internal/server"
	"github.com/nulzo/scribe/internal/server/middleware"
	"github.com/nulzo/scribe/internal/store/sqlite"
	"github.com/nulzo/scribe/internal/writer"
	"github.com/nulzo/scribe/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server:    config.ServerConfig{Port: "0", Env: "test"},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 1000, Burst: 1000},
		AI:        config.AIConfig{Provider: "mock"},
	}
}

func newServer(t *testing.T, cfg *config.Config, opts ...server.Option) http.Handler {
	t.Helper()
	svc := writer.NewService(cfg.AI, zap.NewNop())
	return server.New(cfg, zap.NewNop(), svc, opts...).Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newServer(t, testConfig(), server.WithVersion("v1.2.3"))

	rec := do(t, h, http.MethodGet, "/health", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	assert.JSONEq(t, `{"status":"ok","version":"v1.2.3"}`, rec.Body.String())
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := newServer(t, testConfig())

	rec := do(t, h, http.MethodGet, "/health", nil, map[string]string{middleware.RequestIDHeader: "abc-123"})

	assert.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))
}

func TestGenerate_MockContent(t *testing.T) {
	h := newServer(t, testConfig())

	rec := do(t, h, http.MethodPost, "/v1/generate", api.GenerateContentRequest{Prompt: "Write an introduction"}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.GenerateContentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, llmmock.Introduction, resp.Content)
	assert.Equal(t, "mock", resp.Provider)
	assert.Empty(t, resp.FallbackReason)
}

func TestGenerate_FallbackIsReported(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom"}}`))
	}))
	defer upstream.Close()

	cfg := testConfig()
	cfg.AI = config.AIConfig{
		Provider:   "openrouter",
		OpenRouter: config.OpenRouterConfig{APIKey: "k", APIURL: upstream.URL},
	}
	h := newServer(t, cfg)

	rec := do(t, h, http.MethodPost, "/v1/generate", api.GenerateContentRequest{Prompt: "methodology please"}, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.GenerateContentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, llmmock.Methodology, resp.Content)
	assert.Equal(t, "mock", resp.Provider)
	assert.Equal(t, "upstream_status", resp.FallbackReason)
}

func TestGenerate_Validation(t *testing.T) {
	h := newServer(t, testConfig())

	rec := do(t, h, http.MethodPost, "/v1/generate", map[string]string{}, nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var problem map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "Validation Error", problem["title"])
	errs, ok := problem["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "prompt")

	rec = do(t, h, http.MethodPost, "/v1/generate", "{not json", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	errs, ok = problem["errors"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, errs, "body")
}

func TestWritingEndpoints(t *testing.T) {
	h := newServer(t, testConfig())

	rec := do(t, h, http.MethodPost, "/v1/improve", api.ImproveTextRequest{Text: "draft"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/humanize", api.TextRequest{Text: "draft"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/grammar", api.TextRequest{Text: "their are issues"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var grammar api.GrammarReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &grammar))
	assert.Equal(t, writer.PlaceholderGrammarScore, grammar.Score)
	assert.Len(t, grammar.Issues, 1)

	rec = do(t, h, http.MethodPost, "/v1/fact-check", api.TextRequest{Text: "claims"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var facts api.FactCheckReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &facts))
	assert.Equal(t, writer.PlaceholderFactCheckScore, facts.OverallScore)

	rec = do(t, h, http.MethodPost, "/v1/sections", api.GenerateSectionRequest{SectionType: "Conclusion", Topic: "oceans"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var section api.GenerateContentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &section))
	assert.Equal(t, llmmock.Conclusion, section.Content)

	rec = do(t, h, http.MethodPost, "/v1/sections", map[string]string{"topic": "oceans"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfigEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.AI = config.AIConfig{Provider: "openrouter", MockMode: true}
	h := newServer(t, cfg)

	rec := do(t, h, http.MethodGet, "/v1/config", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp api.ConfigResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "mock", resp.Provider)
	assert.Equal(t, "openrouter", resp.ConfiguredProvider)
	assert.True(t, resp.MockMode)
}

func TestAuth(t *testing.T) {
	cfg := testConfig()
	cfg.Server.APIKeys = []string{"sk-test"}
	h := newServer(t, cfg)

	rec := do(t, h, http.MethodGet, "/v1/config", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/config", nil, map[string]string{"Authorization": "Token sk-test"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/config", nil, map[string]string{"Authorization": "Bearer wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/config", nil, map[string]string{"Authorization": "Bearer sk-test"})
	assert.Equal(t, http.StatusOK, rec.Code)

	// health stays public
	rec = do(t, h, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1}
	h := newServer(t, cfg)

	rec := do(t, h, http.MethodGet, "/v1/config", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/v1/config", nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too Many Requests")
}

func TestAnalyticsEndpoints(t *testing.T) {
	repo, err := sqlite.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer repo.Close()

	ingestor := analytics.NewIngestor(zap.NewNop(), repo)
	ingestor.Start(context.Background())

	cfg := testConfig()
	svc := writer.NewService(cfg.AI, zap.NewNop(), writer.WithRecorder(ingestor))
	h := server.New(cfg, zap.NewNop(), svc, server.WithAnalytics(analytics.NewService(repo))).Handler()

	for i := 0; i < 3; i++ {
		rec := do(t, h, http.MethodPost, "/v1/generate", api.GenerateContentRequest{Prompt: "conclusion"}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	ingestor.Stop()

	rec := do(t, h, http.MethodGet, "/v1/analytics/recent?limit=2", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var recent struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recent))
	assert.Len(t, recent.Data, 2)
	assert.Equal(t, "generate", recent.Data[0]["operation"])

	rec = do(t, h, http.MethodGet, "/v1/analytics/usage?days=7", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var usage struct {
		Data []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &usage))
	require.Len(t, usage.Data, 1)
	assert.Equal(t, "mock", usage.Data[0]["provider"])
	assert.EqualValues(t, 3, usage.Data[0]["requests"])

	rec = do(t, h, http.MethodGet, "/v1/analytics/usage?days=abc", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyticsDisabledWithoutService(t *testing.T) {
	h := newServer(t, testConfig())

	rec := do(t, h, http.MethodGet, "/v1/analytics/usage", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	cfg := testConfig()
	cfg.Server.CORSOrigins = []string{"http://localhost:5173"}
	cfg.Server.APIKeys = []string{"sk-test"}
	h := newServer(t, cfg)

	rec := do(t, h, http.MethodOptions, "/v1/generate", nil, map[string]string{
		"Origin":                        "http://localhost:5173",
		"Access-Control-Request-Method": "POST",
	})

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Path = "/metrics"
	m := metrics.New()
	svc := writer.NewService(cfg.AI, zap.NewNop(), writer.WithRecorder(m))
	h := server.New(cfg, zap.NewNop(), svc, server.WithMetrics(m)).Handler()

	rec := do(t, h, http.MethodPost, "/v1/generate", api.GenerateContentRequest{Prompt: "hello"}, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `scribe_generation_total{operation="generate",provider="mock"} 1`)
	assert.Contains(t, body, `scribe_http_requests_total{method="POST",path="/v1/generate",status="200"} 1`)
}
