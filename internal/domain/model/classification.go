package model

import (
	"math"
	"time"

	"user-activity-analyzer/internal/domain"
)

// Category is the activity tier assigned to a user.
type Category string

const (
	CategoryActive   Category = "ACTIVE"
	CategoryDormant  Category = "DORMANT"
	CategoryInactive Category = "INACTIVE"
)

// Thresholds are the inclusive upper bounds (in whole days) of the ACTIVE
// and DORMANT tiers. A user seen exactly ActiveDays ago is still ACTIVE,
// one seen exactly DormantDays ago is still DORMANT.
type Thresholds struct {
	ActiveDays  int
	DormantDays int
}

// DefaultThresholds returns the stock 7/30-day cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{ActiveDays: 7, DormantDays: 30}
}

func (t Thresholds) Validate() error {
	if t.ActiveDays < 0 || t.DormantDays < t.ActiveDays {
		return domain.ErrInvalidThresholds
	}
	return nil
}

// Categorize maps a whole-day delta to a tier. Negative deltas mean the
// timestamp is in the future relative to the reference instant (clock skew
// or test data) and are not penalized.
func (t Thresholds) Categorize(daysSinceSeen int) Category {
	if daysSinceSeen < 0 {
		return CategoryActive
	}
	if daysSinceSeen <= t.ActiveDays {
		return CategoryActive
	}
	if daysSinceSeen <= t.DormantDays {
		return CategoryDormant
	}
	return CategoryInactive
}

// ClassifiedUser is the output of classifying one UserRecord.
// DaysSinceSeen is nil exactly when LastSeen is nil.
type ClassifiedUser struct {
	ID            int64
	LastSeen      *time.Time
	DaysSinceSeen *int
	Category      Category
}

// DaysBetween returns the floored whole-day delta between now and then.
// Fractional days truncate toward the earlier day boundary, so a
// timestamp 12 hours in the future yields -1, not 0. Both instants must
// be in the same reference frame; no timezone conversion happens here.
func DaysBetween(then, now time.Time) int {
	return int(math.Floor(now.Sub(then).Hours() / 24))
}

// Classify assigns a tier to one record against the reference instant.
// A user who was never seen is always INACTIVE with no day count; that is
// a distinct state from having crossed the dormant threshold.
func Classify(rec UserRecord, now time.Time, thresholds Thresholds) (ClassifiedUser, error) {
	if err := rec.Validate(); err != nil {
		return ClassifiedUser{}, err
	}

	if rec.LastSeen == nil {
		return ClassifiedUser{
			ID:       rec.ID,
			Category: CategoryInactive,
		}, nil
	}

	lastSeen := *rec.LastSeen
	days := DaysBetween(lastSeen, now)
	return ClassifiedUser{
		ID:            rec.ID,
		LastSeen:      &lastSeen,
		DaysSinceSeen: &days,
		Category:      thresholds.Categorize(days),
	}, nil
}

// ClassifyAll classifies records in input order and returns a freshly
// built slice of the same length. It fails on the first invalid record
// and returns no partial result.
func ClassifyAll(records []UserRecord, now time.Time, thresholds Thresholds) ([]ClassifiedUser, error) {
	classified := make([]ClassifiedUser, 0, len(records))
	for _, rec := range records {
		cu, err := Classify(rec, now, thresholds)
		if err != nil {
			return nil, err
		}
		classified = append(classified, cu)
	}
	return classified, nil
}

// FilterInactive returns the INACTIVE subset in input order.
func FilterInactive(classified []ClassifiedUser) []ClassifiedUser {
	var inactive []ClassifiedUser
	for _, cu := range classified {
		if cu.Category == CategoryInactive {
			inactive = append(inactive, cu)
		}
	}
	return inactive
}
