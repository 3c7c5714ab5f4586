// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	paymentsRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "payments_registered_total",
		Help:      "Payments committed to the ledger.",
	})

	paymentFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "payment_failures_total",
		Help:      "Payment registrations that left no ledger effect, by error class.",
	}, []string{"reason"})

	paymentAmount = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ledger",
		Name:      "payment_amount",
		Help:      "Total of each registered payment.",
		Buckets:   []float64{25, 50, 100, 200, 400, 800, 1600},
	})

	lineItemsRegistered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ledger",
		Name:      "line_items_registered_total",
		Help:      "Line items committed to the ledger, by kind.",
	}, []string{"kind"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ledger",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// ObservePayment records a committed payment.
func ObservePayment(total decimal.Decimal, monthlyDues, concepts int) {
	paymentsRegistered.Inc()
	paymentAmount.Observe(total.InexactFloat64())
	lineItemsRegistered.WithLabelValues("monthly_due").Add(float64(monthlyDues))
	lineItemsRegistered.WithLabelValues("concept").Add(float64(concepts))
}

// ObservePaymentFailure records a rejected or rolled back registration.
func ObservePaymentFailure(reason string) {
	paymentFailures.WithLabelValues(reason).Inc()
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, route, status string, seconds float64) {
	httpRequestDuration.WithLabelValues(method, route, status).Observe(seconds)
}
