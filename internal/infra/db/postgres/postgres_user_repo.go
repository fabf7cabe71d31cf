package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"user-activity-analyzer/internal/domain"
	"user-activity-analyzer/internal/domain/model"
	"user-activity-analyzer/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

// LoadAll returns the whole population ordered by id. last_seen is NULL
// for users who were never seen.
func (r *PostgresUserRepo) LoadAll(ctx context.Context, tx repository.Tx) ([]model.UserRecord, error) {
	const q = `SELECT user_id, username, last_seen FROM users ORDER BY user_id;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLoadFailed, err)
	}
	defer rows.Close()

	var records []model.UserRecord
	for rows.Next() {
		var (
			rec      model.UserRecord
			lastSeen sql.NullTime
		)
		if err := rows.Scan(&rec.ID, &rec.Username, &lastSeen); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrLoadFailed, err)
		}
		if lastSeen.Valid {
			ts := lastSeen.Time
			rec.LastSeen = &ts
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLoadFailed, err)
	}
	return records, nil
}

func (r *PostgresUserRepo) FindLastSeen(ctx context.Context, tx repository.Tx, userID int64) (*model.UserRecord, error) {
	const q = `SELECT user_id, username, last_seen FROM users WHERE user_id=$1;`

	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return nil, err
	}
	var (
		rec      model.UserRecord
		lastSeen sql.NullTime
	)
	if err := ex.QueryRow(ctx, q, userID).Scan(&rec.ID, &rec.Username, &lastSeen); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrLoadFailed, err)
	}
	if lastSeen.Valid {
		ts := lastSeen.Time
		rec.LastSeen = &ts
	}
	return &rec, nil
}

func (r *PostgresUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	ex, err := getExecutor(r.pool, tx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := ex.QueryRow(ctx, `SELECT COUNT(*) FROM users;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
