package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"user-activity-analyzer/internal/domain"
	"user-activity-analyzer/internal/domain/model"
	"user-activity-analyzer/internal/domain/ports/repository"
)

var _ repository.InactiveLogRepository = (*PostgresInactiveLogRepo)(nil)

// PostgresInactiveLogRepo appends audit rows for users classified
// INACTIVE. Rows are never updated or deleted.
type PostgresInactiveLogRepo struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgresInactiveLogRepo(pool *pgxpool.Pool) *PostgresInactiveLogRepo {
	return &PostgresInactiveLogRepo{pool: pool, now: time.Now}
}

func (r *PostgresInactiveLogRepo) EnsureSchema(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS inactive_log (
  id              UUID PRIMARY KEY,
  user_id         BIGINT NOT NULL,
  last_seen       TIMESTAMPTZ,
  days_since_seen INT,
  logged_at       TIMESTAMPTZ NOT NULL
);`
	if _, err := r.pool.Exec(ctx, q); err != nil {
		return fmt.Errorf("%w: ensure inactive_log table: %v", domain.ErrWriteFailed, err)
	}
	return nil
}

// LogInactive writes one audit row per record and returns the number
// written. Callers get all-or-nothing semantics by passing a tx handle;
// with a nil handle each row is written independently.
func (r *PostgresInactiveLogRepo) LogInactive(ctx context.Context, tx repository.Tx, inactive []model.ClassifiedUser) (int, error) {
	const q = `
INSERT INTO inactive_log (id, user_id, last_seen, days_since_seen, logged_at)
VALUES ($1,$2,$3,$4,$5);`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return 0, err
	}

	loggedAt := r.now().UTC()
	for _, cu := range inactive {
		if cu.Category != model.CategoryInactive {
			return 0, fmt.Errorf("%w: user %d is %s, not INACTIVE", domain.ErrInvalidArgument, cu.ID, cu.Category)
		}
		if _, err := ex.Exec(ctx, q, uuid.NewString(), cu.ID, cu.LastSeen, cu.DaysSinceSeen, loggedAt); err != nil {
			return 0, fmt.Errorf("%w: user %d: %v", domain.ErrWriteFailed, cu.ID, err)
		}
	}
	return len(inactive), nil
}
