// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	CoinMovementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_coin_movements_total",
			Help: "Total number of committed coin movements",
		},
		[]string{"type", "direction"},
	)

	DuplicateReplaysTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ledger_duplicate_replays_total",
			Help: "Total number of idempotent replays answered from the transaction log",
		},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_payments_total",
			Help: "Total number of payment lifecycle transitions",
		},
		[]string{"status"},
	)
)

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordCoinMovement records one committed balance movement.
func RecordCoinMovement(txType string, amount int64) {
	direction := "credit"
	if amount < 0 {
		direction = "debit"
	}
	CoinMovementsTotal.WithLabelValues(txType, direction).Inc()
}

// RecordPayment records one payment transition into the given status.
func RecordPayment(status string) {
	PaymentsTotal.WithLabelValues(status).Inc()
}
