package usecase

import (
	"context"
	"sync"

	"user-activity-analyzer/internal/domain"
	"user-activity-analyzer/internal/domain/model"
	"user-activity-analyzer/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// memUserRepo is a small in-memory implementation used by unit tests.
type memUserRepo struct {
	mu      sync.RWMutex
	records []model.UserRecord
	loadErr error // used by tests to simulate load failures
}

func newMemUserRepo(records ...model.UserRecord) *memUserRepo {
	return &memUserRepo{records: records}
}

func (m *memUserRepo) LoadAll(ctx context.Context, tx repository.Tx) ([]model.UserRecord, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]model.UserRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *memUserRepo) FindLastSeen(ctx context.Context, tx repository.Tx, userID int64) (*model.UserRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, rec := range m.records {
		if rec.ID == userID {
			cp := rec
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

// memInactiveLogRepo records what was written and whether a tx handle was
// passed in.
type memInactiveLogRepo struct {
	mu       sync.Mutex
	written  []model.ClassifiedUser
	sawTx    bool
	writeErr error
}

func newMemInactiveLogRepo() *memInactiveLogRepo {
	return &memInactiveLogRepo{}
}

func (m *memInactiveLogRepo) EnsureSchema(ctx context.Context) error { return nil }

func (m *memInactiveLogRepo) LogInactive(ctx context.Context, tx repository.Tx, inactive []model.ClassifiedUser) (int, error) {
	if m.writeErr != nil {
		return 0, m.writeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if tx != nil {
		m.sawTx = true
	}
	m.written = append(m.written, inactive...)
	return len(inactive), nil
}

// memTxManager invokes the callback with a marker handle so repositories
// can tell the transactional path apart from the plain one.
type memTxManager struct {
	beginErr error
	calls    int
}

type fakeTxHandle struct{}

func (m *memTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	if m.beginErr != nil {
		return m.beginErr
	}
	m.calls++
	return fn(ctx, fakeTxHandle{})
}

// memSummaryCache is an in-memory SummaryCache.
type memSummaryCache struct {
	mu       sync.Mutex
	stored   *model.Summary
	storeErr error
	loadErr  error
}

func (m *memSummaryCache) Store(ctx context.Context, s model.Summary) error {
	if m.storeErr != nil {
		return m.storeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := s
	m.stored = &cp
	return nil
}

func (m *memSummaryCache) Load(ctx context.Context) (model.Summary, bool, error) {
	if m.loadErr != nil {
		return model.Summary{}, false, m.loadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stored == nil {
		return model.Summary{}, false, nil
	}
	return *m.stored, true, nil
}
