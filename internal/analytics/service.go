package analytics

import (
	"context"

	"github.com/nulzo/scribe/internal/store"
	"github.com/nulzo/scribe/internal/store/model"
)

const (
	DefaultUsageDays   = 7
	MaxUsageDays       = 365
	DefaultRecentLimit = 20
	MaxRecentLimit     = 500
)

type Service interface {
	GetUsageOverview(ctx context.Context, days int) ([]model.DailyUsage, error)
	GetRecent(ctx context.Context, limit int) ([]model.GenerationLog, error)
}

type service struct {
	repo store.Repository
}

func NewService(repo store.Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) GetUsageOverview(ctx context.Context, days int) ([]model.DailyUsage, error) {
	if days <= 0 {
		days = DefaultUsageDays
	}
	if days > MaxUsageDays {
		days = MaxUsageDays
	}
	return s.repo.Generations().DailyUsage(ctx, days)
}

func (s *service) GetRecent(ctx context.Context, limit int) ([]model.GenerationLog, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}
	return s.repo.Generations().Recent(ctx, limit)
}
