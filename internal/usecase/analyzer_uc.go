package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"user-activity-analyzer/internal/domain"
	"user-activity-analyzer/internal/domain/model"
	"user-activity-analyzer/internal/domain/ports/repository"
	"user-activity-analyzer/internal/infra/logging"
	"user-activity-analyzer/internal/infra/metrics"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ AnalyzerUseCase = (*analyzerUC)(nil)

// AnalyzerUseCase runs the classification pipeline: load the population,
// classify every record against the reference instant, persist the
// inactive subset to the audit log, and reduce to a Summary.
type AnalyzerUseCase interface {
	Run(ctx context.Context) (model.Summary, error)
	ClassifyOne(ctx context.Context, userID int64) (model.ClassifiedUser, error)
	LastSummary(ctx context.Context) (model.Summary, bool)
	Classified() []model.ClassifiedUser
}

// SummaryCache stores the most recent Summary for cheap reads by the
// admin API. Cache failures are never fatal to a run.
type SummaryCache interface {
	Store(ctx context.Context, s model.Summary) error
	Load(ctx context.Context) (model.Summary, bool, error)
}

type analyzerUC struct {
	users       repository.UserRepository
	inactiveLog repository.InactiveLogRepository
	tm          repository.TransactionManager
	cache       SummaryCache

	thresholds    model.Thresholds
	transactional bool
	now           func() time.Time

	mu         sync.RWMutex
	classified []model.ClassifiedUser

	log *zerolog.Logger
}

// NewAnalyzerUseCase wires the pipeline. cache and tm may be nil (no
// summary caching, plain writes); now may be nil to use the wall clock.
func NewAnalyzerUseCase(
	users repository.UserRepository,
	inactiveLog repository.InactiveLogRepository,
	tm repository.TransactionManager,
	cache SummaryCache,
	thresholds model.Thresholds,
	transactional bool,
	now func() time.Time,
	logger *zerolog.Logger,
) *analyzerUC {
	if now == nil {
		now = time.Now
	}
	ucLog := logger.With().Str("component", "AnalyzerUC").Logger()
	return &analyzerUC{
		users:         users,
		inactiveLog:   inactiveLog,
		tm:            tm,
		cache:         cache,
		thresholds:    thresholds,
		transactional: transactional,
		now:           now,
		log:           &ucLog,
	}
}

func (a *analyzerUC) Run(ctx context.Context) (model.Summary, error) {
	defer logging.TraceDuration(a.log, "AnalyzerUC.Run")()
	start := time.Now()

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	log := logging.With(ctx, a.log)

	records, err := a.users.LoadAll(ctx, repository.NoTX)
	if err != nil {
		log.Error().Err(err).Msg("loading user records failed")
		return model.Summary{}, err
	}

	reference := a.now()
	classified, err := model.ClassifyAll(records, reference, a.thresholds)
	if err != nil {
		// Validation aborts the whole batch; no partial results survive.
		log.Error().Err(err).Msg("classification failed")
		return model.Summary{}, err
	}

	inactive := model.FilterInactive(classified)
	logged, err := a.logInactive(ctx, inactive)
	if err != nil {
		log.Error().Err(err).Int("inactive", len(inactive)).Msg("inactive log write failed")
		return model.Summary{}, err
	}

	summary := model.BuildSummary(classified)

	a.mu.Lock()
	a.classified = classified
	a.mu.Unlock()

	metrics.ObserveAnalysisRun(summary, time.Since(start))
	metrics.AddInactiveLogged(logged)

	if a.cache != nil {
		if err := a.cache.Store(ctx, summary); err != nil {
			log.Warn().Err(err).Msg("summary cache store failed")
		}
	}

	log.Info().
		Int("total", summary.Total).
		Int("active", summary.ActiveCount).
		Int("dormant", summary.DormantCount).
		Int("inactive", summary.InactiveCount).
		Int("logged", logged).
		Msg("analysis run complete")

	return summary, nil
}

// logInactive writes the inactive subset, all-or-nothing when the use
// case is configured transactional and a transaction manager is present.
func (a *analyzerUC) logInactive(ctx context.Context, inactive []model.ClassifiedUser) (int, error) {
	if len(inactive) == 0 {
		return 0, nil
	}
	if !a.transactional || a.tm == nil {
		return a.inactiveLog.LogInactive(ctx, repository.NoTX, inactive)
	}

	var logged int
	err := a.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		n, err := a.inactiveLog.LogInactive(ctx, tx, inactive)
		if err != nil {
			return err
		}
		logged = n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return logged, nil
}

// ClassifyOne classifies a single user on demand against the current
// clock and thresholds. The audit log is not touched.
func (a *analyzerUC) ClassifyOne(ctx context.Context, userID int64) (model.ClassifiedUser, error) {
	ctx = logging.WithUserID(ctx, userID)
	log := logging.With(ctx, a.log)

	rec, err := a.users.FindLastSeen(ctx, repository.NoTX, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			log.Error().Err(err).Msg("looking up user failed")
		}
		return model.ClassifiedUser{}, err
	}
	return model.Classify(*rec, a.now(), a.thresholds)
}

func (a *analyzerUC) LastSummary(ctx context.Context) (model.Summary, bool) {
	if a.cache == nil {
		return model.Summary{}, false
	}
	s, ok, err := a.cache.Load(ctx)
	if err != nil {
		a.log.Warn().Err(err).Msg("summary cache load failed")
		return model.Summary{}, false
	}
	return s, ok
}

// Classified returns the batch from the most recent successful run.
func (a *analyzerUC) Classified() []model.ClassifiedUser {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]model.ClassifiedUser, len(a.classified))
	copy(out, a.classified)
	return out
}
