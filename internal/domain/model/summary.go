package model

import "time"

// Summary is the aggregate result of one batch: per-tier counts and the
// earliest LastSeen across all classified records (nil when no record has
// one). Counts always sum to Total.
type Summary struct {
	Total          int
	ActiveCount    int
	DormantCount   int
	InactiveCount  int
	OldestLastSeen *time.Time
}

// BuildSummary reduces a classified batch in a single pass. The result is
// independent of input order: counting and taking a minimum are both
// commutative and associative.
func BuildSummary(classified []ClassifiedUser) Summary {
	var s Summary
	for _, cu := range classified {
		s.Total++
		switch cu.Category {
		case CategoryActive:
			s.ActiveCount++
		case CategoryDormant:
			s.DormantCount++
		case CategoryInactive:
			s.InactiveCount++
		}
		if cu.LastSeen != nil {
			if s.OldestLastSeen == nil || cu.LastSeen.Before(*s.OldestLastSeen) {
				ts := *cu.LastSeen
				s.OldestLastSeen = &ts
			}
		}
	}
	return s
}

// Merge combines two partial summaries. Large batches can be partitioned,
// summarized per partition, and merged: the operation is associative and
// commutative, so partitioning never affects the outcome.
func (s Summary) Merge(other Summary) Summary {
	merged := Summary{
		Total:         s.Total + other.Total,
		ActiveCount:   s.ActiveCount + other.ActiveCount,
		DormantCount:  s.DormantCount + other.DormantCount,
		InactiveCount: s.InactiveCount + other.InactiveCount,
	}
	switch {
	case s.OldestLastSeen == nil:
		merged.OldestLastSeen = copyTime(other.OldestLastSeen)
	case other.OldestLastSeen == nil:
		merged.OldestLastSeen = copyTime(s.OldestLastSeen)
	case other.OldestLastSeen.Before(*s.OldestLastSeen):
		merged.OldestLastSeen = copyTime(other.OldestLastSeen)
	default:
		merged.OldestLastSeen = copyTime(s.OldestLastSeen)
	}
	return merged
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}
