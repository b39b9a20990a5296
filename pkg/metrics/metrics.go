package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Transfer outcomes recorded by RecordTransfer.
const (
	OutcomeSettled  = "settled"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

var (
	// Registry holds the ledger's Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "ledger",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	transfers = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "transfers_total",
			Help:      "Transfers by outcome.",
		},
		[]string{"outcome"},
	)

	commission = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "commission_satoshi_total",
			Help:      "Commission charged on settled transfers, in satoshi.",
		},
	)

	rateLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ledger",
			Subsystem: "rates",
			Name:      "lookups_total",
			Help:      "Exchange rate lookups by provider and result.",
		},
		[]string{"provider", "result"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		transfers,
		commission,
		rateLookups,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, path, status string, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, path, status).Inc()
	httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// RecordTransfer counts a transfer attempt and, when settled, its commission.
func RecordTransfer(outcome string, fee int64) {
	transfers.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSettled && fee > 0 {
		commission.Add(float64(fee))
	}
}

// RecordRateLookup counts a provider lookup.
func RecordRateLookup(provider string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	rateLookups.WithLabelValues(provider, result).Inc()
}
