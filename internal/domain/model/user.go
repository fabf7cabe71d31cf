package model

import (
	"fmt"
	"time"

	"user-activity-analyzer/internal/domain"
)

// UserRecord is the raw input to classification: a user id and the moment
// the user was last seen. A nil LastSeen means the user was never seen.
// Records are produced by the loader and treated as read-only here.
type UserRecord struct {
	ID       int64
	Username string
	LastSeen *time.Time
}

// Validate checks the record is classifiable. Only the id is validated;
// a missing LastSeen is a legal state, not an error.
func (r UserRecord) Validate() error {
	if r.ID <= 0 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidUserID, r.ID)
	}
	return nil
}
