package sched

import (
	"context"
	"time"

	"user-activity-analyzer/internal/usecase"

	"github.com/rs/zerolog"
)

// AnalysisWorker periodically reruns the classification pipeline so the
// cached summary and the inactive audit log track the current table.
type AnalysisWorker struct {
	interval time.Duration
	analyzer usecase.AnalyzerUseCase
	log      *zerolog.Logger
}

func NewAnalysisWorker(interval time.Duration, analyzer usecase.AnalyzerUseCase, logger *zerolog.Logger) *AnalysisWorker {
	wLog := logger.With().Str("component", "AnalysisWorker").Logger()
	return &AnalysisWorker{
		interval: interval,
		analyzer: analyzer,
		log:      &wLog,
	}
}

func (w *AnalysisWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting analysis worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping analysis worker")
			return ctx.Err()
		case <-ticker.C:
			summary, err := w.analyzer.Run(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("analysis worker error")
				continue
			}
			w.log.Info().
				Int("total", summary.Total).
				Int("inactive", summary.InactiveCount).
				Msg("scheduled analysis complete")
		}
	}
}
