package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/taleniq/ai-gateway/internal/store"
	"github.com/taleniq/ai-gateway/internal/store/model"
)

// DB is satisfied by *sqlx.DB and *sqlx.Tx.
type DB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository.
type SqliteRepository struct {
	db       *sqlx.DB
	executor DB
}

func NewSqliteRepository(db *sqlx.DB) *SqliteRepository {
	return &SqliteRepository{
		db:       db,
		executor: db,
	}
}

func (r *SqliteRepository) Close() error {
	return r.db.Close()
}

func (r *SqliteRepository) Generations() store.GenerationRepository {
	return &generationRepo{db: r.executor, sqlxDB: r.db}
}

type generationRepo struct {
	db     DB
	sqlxDB *sqlx.DB
}

const insertGeneration = `
INSERT INTO generation_logs (
	id, provider, capability, model_key, streamed,
	status_code, latency_ms, error_text, created_at
) VALUES (
	:id, :provider, :capability, :model_key, :streamed,
	:status_code, :latency_ms, :error_text, :created_at
)`

func (r *generationRepo) Log(ctx context.Context, log *model.GenerationLog) error {
	_, err := r.db.NamedExecContext(ctx, insertGeneration, log)
	return err
}

func (r *generationRepo) LogBatch(ctx context.Context, logs []*model.GenerationLog) error {
	if len(logs) == 0 {
		return nil
	}

	tx, err := r.sqlxDB.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	for _, log := range logs {
		if _, err := tx.NamedExecContext(ctx, insertGeneration, log); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

func (r *generationRepo) GetRecent(ctx context.Context, limit int) ([]model.GenerationLog, error) {
	var logs []model.GenerationLog
	query := `SELECT * FROM generation_logs ORDER BY created_at DESC LIMIT ?`
	err := r.db.SelectContext(ctx, &logs, query, limit)
	return logs, err
}

func (r *generationRepo) GetDailyStats(ctx context.Context, days int) ([]model.DailyStats, error) {
	var stats []model.DailyStats
	query := `
	SELECT
		strftime('%Y-%m-%d', created_at) AS day,
		provider,
		capability,
		COUNT(*) AS requests,
		SUM(CASE WHEN status_code >= 400 THEN 1 ELSE 0 END) AS errors,
		AVG(latency_ms) AS avg_latency_ms
	FROM generation_logs
	WHERE created_at >= datetime('now', ?)
	GROUP BY day, provider, capability
	ORDER BY day DESC`
	if days <= 0 {
		days = 7
	}
	err := r.db.SelectContext(ctx, &stats, query, fmt.Sprintf("-%d days", days))
	return stats, err
}
