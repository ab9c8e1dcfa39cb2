package history

import (
	"context"
	"database/sql"

	"github.com/kapu/cinefact-client-go/internal/domain"
	"github.com/kapu/cinefact-client-go/pkg/errors"
	"go.uber.org/zap"
)

// FactJournal mirrors the server's append-only fact history locally so the
// session can show previously fetched facts without re-generating them.
type FactJournal struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewFactJournal(postgres *PostgresService, logger *zap.Logger) *FactJournal {
	return &FactJournal{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

// EnsureSchema creates the journal table on first use.
func (j *FactJournal) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS fact_history (
			fact_id    TEXT PRIMARY KEY,
			movie      TEXT NOT NULL,
			fact       TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			fetched_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := j.db.ExecContext(ctx, query); err != nil {
		return errors.NewStorageError("failed to create fact_history table", "ensure_schema", err)
	}
	return nil
}

// Append records a fetched fact. Re-fetching the same row is a no-op; the
// journal is append-only like the server-side history it mirrors.
func (j *FactJournal) Append(ctx context.Context, fact *domain.MovieFact) error {
	query := `
		INSERT INTO fact_history (fact_id, movie, fact, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (fact_id) DO NOTHING
	`
	if _, err := j.db.ExecContext(ctx, query, fact.ID, fact.Movie, fact.Fact, fact.CreatedAt); err != nil {
		j.logger.Error("Failed to append fact to journal",
			zap.String("fact_id", fact.ID),
			zap.Error(err),
		)
		return errors.NewStorageError("failed to append fact", "append", err)
	}

	j.logger.Debug("Fact journaled",
		zap.String("fact_id", fact.ID),
		zap.String("movie", fact.Movie),
	)
	return nil
}

// Recent returns the latest journaled facts, newest first.
func (j *FactJournal) Recent(ctx context.Context, limit int) ([]*domain.MovieFact, error) {
	query := `
		SELECT fact_id, movie, fact, created_at
		FROM fact_history
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := j.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, errors.NewStorageError("failed to query fact history", "recent", err)
	}
	defer rows.Close()

	facts := make([]*domain.MovieFact, 0, limit)
	for rows.Next() {
		var fact domain.MovieFact
		if err := rows.Scan(&fact.ID, &fact.Movie, &fact.Fact, &fact.CreatedAt); err != nil {
			return nil, errors.NewStorageError("failed to scan fact row", "recent", err)
		}
		facts = append(facts, &fact)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("failed to iterate fact rows", "recent", err)
	}

	return facts, nil
}
