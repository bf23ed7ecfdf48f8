package store

import (
	"context"

	"github.com/nulzo/scribe/internal/store/model"
)

// Repository is the main contract for the data layer.
type Repository interface {
	Generations() GenerationRepository

	Close() error
}

type GenerationRepository interface {
	// Log stores a completed generation.
	Log(ctx context.Context, log *model.GenerationLog) error
	// LogBatch stores several generations in one transaction.
	LogBatch(ctx context.Context, logs []*model.GenerationLog) error
	// Recent returns the last N generations, newest first.
	Recent(ctx context.Context, limit int) ([]model.GenerationLog, error)
	// DailyUsage returns per-day, per-provider aggregates for the last N days.
	DailyUsage(ctx context.Context, days int) ([]model.DailyUsage, error)
}
