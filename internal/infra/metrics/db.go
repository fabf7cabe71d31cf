package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(poolConnections) }

var poolConnections = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "analyzer_db_pool_connections",
		Help: "Connections in the postgres pool backing the analyzer, by state.",
	},
	[]string{"state"}, // 'total', 'idle', 'in_use'
)

// SetDBPoolStats refreshes the pool gauges from a pgxpool stat snapshot.
func SetDBPoolStats(total, idle, inUse int32) {
	poolConnections.WithLabelValues("total").Set(float64(total))
	poolConnections.WithLabelValues("idle").Set(float64(idle))
	poolConnections.WithLabelValues("in_use").Set(float64(inUse))
}
