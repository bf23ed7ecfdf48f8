package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/nulzo/scribe/internal/store"
	"github.com/nulzo/scribe/internal/store/model"
)

// DB defines the interface for database operations (satisfied by *sqlx.DB and *sqlx.Tx)
type DB interface {
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// SqliteRepository implements store.Repository
type SqliteRepository struct {
	db       *sqlx.DB // Required for starting new transactions
	executor DB       // Used for actual queries (can be *sqlx.DB or *sqlx.Tx)
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

func (r *SqliteRepository) WithTx(ctx context.Context, fn func(repo store.Repository) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	txRepo := &SqliteRepository{
		db:       r.db,
		executor: tx,
	}

	if err := fn(txRepo); err != nil {
		// attempt rollback, but prioritize original error
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *SqliteRepository) Generations() store.GenerationRepository {
	return &generationRepo{db: r.executor, root: r}
}

type generationRepo struct {
	db   DB
	root *SqliteRepository
}

const insertGeneration = `
	INSERT INTO generation_logs (
		id, operation, configured_provider, provider, model, fallback_reason,
		prompt_chars, content_chars, prompt_tokens, completion_tokens,
		latency_ms, created_at
	) VALUES (
		:id, :operation, :configured_provider, :provider, :model, :fallback_reason,
		:prompt_chars, :content_chars, :prompt_tokens, :completion_tokens,
		:latency_ms, :created_at
	)`

func (r *generationRepo) Log(ctx context.Context, log *model.GenerationLog) error {
	_, err := r.db.NamedExecContext(ctx, insertGeneration, log)
	return err
}

func (r *generationRepo) LogBatch(ctx context.Context, logs []*model.GenerationLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.root.WithTx(ctx, func(repo store.Repository) error {
		gens := repo.Generations()
		for _, l := range logs {
			if err := gens.Log(ctx, l); err != nil {
				return fmt.Errorf("insert generation %s: %w", l.ID, err)
			}
		}
		return nil
	})
}

func (r *generationRepo) Recent(ctx context.Context, limit int) ([]model.GenerationLog, error) {
	logs := []model.GenerationLog{}
	query := `SELECT * FROM generation_logs ORDER BY created_at DESC LIMIT ?`
	err := r.db.SelectContext(ctx, &logs, query, limit)
	return logs, err
}

func (r *generationRepo) DailyUsage(ctx context.Context, days int) ([]model.DailyUsage, error) {
	usage := []model.DailyUsage{}
	query := `
		SELECT
			DATE(created_at) as date,
			provider,
			COUNT(*) as requests,
			SUM(CASE WHEN fallback_reason != '' THEN 1 ELSE 0 END) as fallbacks,
			AVG(latency_ms) as avg_latency_ms
		FROM generation_logs
		WHERE created_at >= DATE('now', ?)
		GROUP BY date, provider
		ORDER BY date DESC, provider ASC
	`
	// SQLite date offset format is '-7 days'
	err := r.db.SelectContext(ctx, &usage, query, fmt.Sprintf("-%d days", days))
	return usage, err
}
