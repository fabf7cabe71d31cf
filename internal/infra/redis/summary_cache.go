package redis

import (
	"context"
	"encoding/json"
	"time"

	"user-activity-analyzer/internal/domain/model"
)

const summaryKey = "activity:last_summary"

// SummaryCache keeps the most recent analysis Summary so the admin API
// can serve reads without touching the database.
type SummaryCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewSummaryCache(client RedisClient, ttl time.Duration) *SummaryCache {
	return &SummaryCache{client: client, ttl: ttl}
}

type cachedSummary struct {
	Total          int        `json:"total"`
	ActiveCount    int        `json:"active_count"`
	DormantCount   int        `json:"dormant_count"`
	InactiveCount  int        `json:"inactive_count"`
	OldestLastSeen *time.Time `json:"oldest_last_seen,omitempty"`
}

func (c *SummaryCache) Store(ctx context.Context, s model.Summary) error {
	data, err := json.Marshal(cachedSummary{
		Total:          s.Total,
		ActiveCount:    s.ActiveCount,
		DormantCount:   s.DormantCount,
		InactiveCount:  s.InactiveCount,
		OldestLastSeen: s.OldestLastSeen,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, summaryKey, data, c.ttl)
}

func (c *SummaryCache) Load(ctx context.Context) (model.Summary, bool, error) {
	data, err := c.client.Get(ctx, summaryKey)
	if err != nil {
		if IsNil(err) {
			return model.Summary{}, false, nil
		}
		return model.Summary{}, false, err
	}
	var cs cachedSummary
	if err := json.Unmarshal([]byte(data), &cs); err != nil {
		return model.Summary{}, false, err
	}
	return model.Summary{
		Total:          cs.Total,
		ActiveCount:    cs.ActiveCount,
		DormantCount:   cs.DormantCount,
		InactiveCount:  cs.InactiveCount,
		OldestLastSeen: cs.OldestLastSeen,
	}, true, nil
}

func (c *SummaryCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, summaryKey)
}
