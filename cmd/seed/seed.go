package main

import (
	"context"
	"flag"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/nulzo/scribe/internal/platform/logger"
	"github.com/nulzo/scribe/internal/store/model"
	"github.com/nulzo/scribe/internal/store/sqlite"
	"go.uber.org/zap"
)

// seed fills the generation log with synthetic traffic so the analytics
// endpoints have something to show in development.
func main() {
	path := flag.String("db", "scribe.db", "SQLite database path")
	days := flag.Int("days", 7, "Spread entries across this many past days")
	count := flag.Int("count", 200, "Number of generation logs to insert")
	flag.Parse()

	log := logger.Get()
	defer logger.Sync()

	repo, err := sqlite.NewSQLiteStorage(*path)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer repo.Close()

	operations := []string{"generate", "improve", "humanize", "grammar", "fact_check", "section"}
	reasons := []string{"transport", "upstream_status", "decode"}

	now := time.Now().UTC()
	logs := make([]*model.GenerationLog, 0, *count)
	for i := 0; i < *count; i++ {
		entry := &model.GenerationLog{
			ID:                 uuid.NewString(),
			Operation:          operations[rand.Intn(len(operations))],
			ConfiguredProvider: "openrouter",
			Provider:           "openrouter",
			Model:              "anthropic/claude-3-haiku",
			PromptChars:        50 + rand.Intn(400),
			ContentChars:       200 + rand.Intn(2000),
			PromptTokens:       20 + rand.Intn(100),
			CompletionTokens:   100 + rand.Intn(500),
			LatencyMS:          int64(300 + rand.Intn(2500)),
			CreatedAt:          now.Add(-time.Duration(rand.Int63n(int64(*days) * int64(24*time.Hour)))),
		}
		// roughly one in ten calls falls back
		if rand.Intn(10) == 0 {
			entry.Provider = "mock"
			entry.Model = "mock-writer"
			entry.FallbackReason = reasons[rand.Intn(len(reasons))]
			entry.PromptTokens, entry.CompletionTokens = 0, 0
			entry.LatencyMS = int64(rand.Intn(50))
		}
		logs = append(logs, entry)
	}

	if err := repo.Generations().LogBatch(context.Background(), logs); err != nil {
		log.Fatal("Failed to seed generation logs", zap.Error(err))
	}
	log.Info("Seeded generation logs", zap.Int("count", len(logs)), zap.String("db", *path))
}
