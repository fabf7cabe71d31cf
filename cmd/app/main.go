package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"

	"user-activity-analyzer/internal/config"
	"user-activity-analyzer/internal/domain/model"
	pg "user-activity-analyzer/internal/infra/db/postgres"
	"user-activity-analyzer/internal/infra/logging"
	"user-activity-analyzer/internal/infra/metrics"
	red "user-activity-analyzer/internal/infra/redis"
	"user-activity-analyzer/internal/infra/report"
	"user-activity-analyzer/internal/infra/sched"
	"user-activity-analyzer/internal/infra/web"
	"user-activity-analyzer/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	mode := flag.String("mode", "once", "run mode: once | serve")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Runtime.Dev {
		log.Printf("[DEV MODE] Enabled")
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// ---- Repositories ----
	userRepo := pg.NewPostgresUserRepo(pool)
	inactiveRepo := pg.NewPostgresInactiveLogRepo(pool)
	tm := pg.NewTxManager(pool)

	if err := inactiveRepo.EnsureSchema(ctx); err != nil {
		log.Fatalf("inactive_log schema: %v", err)
	}

	// ---- Redis (optional summary cache) ----
	var cache usecase.SummaryCache
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		cache = red.NewSummaryCache(redisClient, cfg.Redis.TTL.Std())
	}

	// ---- Use case ----
	thresholds := model.Thresholds{
		ActiveDays:  cfg.Analysis.ActiveDays,
		DormantDays: cfg.Analysis.DormantDays,
	}
	if err := thresholds.Validate(); err != nil {
		log.Fatalf("thresholds: %v", err)
	}
	analyzer := usecase.NewAnalyzerUseCase(userRepo, inactiveRepo, tm, cache, thresholds, cfg.Analysis.Transactional, nil, logger)

	switch *mode {
	case "once":
		runOnce(ctx, analyzer)
	case "serve":
		serve(ctx, cfg, analyzer, pool, logger)
	default:
		log.Fatalf("unknown mode %q (want once or serve)", *mode)
	}
}

func runOnce(ctx context.Context, analyzer usecase.AnalyzerUseCase) {
	summary, err := analyzer.Run(ctx)
	if err != nil {
		log.Fatalf("analysis: %v", err)
	}
	reporter := report.NewConsoleReporter(os.Stdout)
	if err := reporter.Report(summary); err != nil {
		log.Fatalf("report: %v", err)
	}
}

func serve(ctx context.Context, cfg *config.Config, analyzer usecase.AnalyzerUseCase, pool *pgxpool.Pool, logger *zerolog.Logger) {
	// Periodic re-analysis.
	worker := sched.NewAnalysisWorker(cfg.Analysis.Interval.Std(), analyzer, logger)
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("analysis worker stopped")
		}
	}()

	// Pool gauge refresh for /metrics.
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st := pool.Stat()
				metrics.SetDBPoolStats(st.TotalConns(), st.IdleConns(), st.AcquiredConns())
			}
		}
	}()

	// Admin API.
	adminSrv := web.NewServer(analyzer, cfg.Admin.APIKey, logger)
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Admin.Port),
		Handler: adminSrv.Router(),
	}
	go func() {
		logger.Info().Int("port", cfg.Admin.Port).Msg("admin API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("admin API server error")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("admin API shutdown error")
	}
	logger.Info().Msg("shutdown complete")
}
