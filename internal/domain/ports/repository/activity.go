package repository

import (
	"context"

	"user-activity-analyzer/internal/domain/model"
)

// -----------------------------
// Users (loader side)
// -----------------------------

// UserRepository supplies the user population to be classified. Records
// come back ordered by id; retrieval failures are wrapped in
// domain.ErrLoadFailed and are not retried by callers.
type UserRepository interface {
	LoadAll(ctx context.Context, tx Tx) ([]model.UserRecord, error)
	FindLastSeen(ctx context.Context, tx Tx, userID int64) (*model.UserRecord, error)
	CountUsers(ctx context.Context, tx Tx) (int, error)
}

// -----------------------------
// Inactive audit log (writer side)
// -----------------------------

// InactiveLogRepository persists the INACTIVE subset of a classified
// batch as append-only audit rows. LogInactive returns the number of rows
// written; when called with a tx handle the write is all-or-nothing.
// Failures are wrapped in domain.ErrWriteFailed.
type InactiveLogRepository interface {
	EnsureSchema(ctx context.Context) error
	LogInactive(ctx context.Context, tx Tx, inactive []model.ClassifiedUser) (int, error)
}
