package analytics

import (
	"context"

	"github.com/taleniq/ai-gateway/internal/store"
	"github.com/taleniq/ai-gateway/internal/store/model"
)

type Service interface {
	GetUsageOverview(ctx context.Context, days int) ([]model.DailyStats, error)
}

type service struct {
	repo store.Repository
}

func NewService(repo store.Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetUsageOverview(ctx context.Context, days int) ([]model.DailyStats, error) {
	if days <= 0 {
		days = 7 // default to last week
	}
	return s.repo.Generations().GetDailyStats(ctx, days)
}
