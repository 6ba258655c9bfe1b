package store

import (
	"context"

	"github.com/taleniq/ai-gateway/internal/store/model"
)

// Repository is the contract for the accounting data layer.
type Repository interface {
	Generations() GenerationRepository

	Close() error
}

type GenerationRepository interface {
	// Log stores a completed generation.
	Log(ctx context.Context, log *model.GenerationLog) error
	// LogBatch stores a batch in one transaction.
	LogBatch(ctx context.Context, logs []*model.GenerationLog) error
	// GetRecent returns the last N generations.
	GetRecent(ctx context.Context, limit int) ([]model.GenerationLog, error)
	// GetDailyStats returns aggregated usage grouped by day.
	GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error)
}
