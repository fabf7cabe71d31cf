package metrics

import (
	"time"

	"user-activity-analyzer/internal/domain/model"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		usersClassifiedTotal,
		usersByCategory,
		analysisRunSeconds,
		inactiveLoggedTotal,
	)
}

var (
	usersClassifiedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "users_classified_total",
			Help: "Total number of user records classified, per category.",
		},
		[]string{"category"}, // 'active', 'dormant', 'inactive'
	)

	usersByCategory = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "users_by_category",
			Help: "Size of each activity tier after the most recent run.",
		},
		[]string{"category"},
	)

	analysisRunSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_run_seconds",
			Help:    "Duration of full analysis runs in seconds.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	inactiveLoggedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "inactive_logged_total",
			Help: "Total number of rows appended to the inactive audit log.",
		},
	)
)

// ObserveAnalysisRun records counters, gauges and duration for one run.
func ObserveAnalysisRun(s model.Summary, elapsed time.Duration) {
	usersClassifiedTotal.WithLabelValues("active").Add(float64(s.ActiveCount))
	usersClassifiedTotal.WithLabelValues("dormant").Add(float64(s.DormantCount))
	usersClassifiedTotal.WithLabelValues("inactive").Add(float64(s.InactiveCount))

	usersByCategory.WithLabelValues("active").Set(float64(s.ActiveCount))
	usersByCategory.WithLabelValues("dormant").Set(float64(s.DormantCount))
	usersByCategory.WithLabelValues("inactive").Set(float64(s.InactiveCount))

	analysisRunSeconds.Observe(elapsed.Seconds())
}

func AddInactiveLogged(count int) {
	inactiveLoggedTotal.Add(float64(count))
}
