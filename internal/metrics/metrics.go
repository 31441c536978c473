// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

const namespace = "cosmeticpos"

var (
	// Request metrics
	RequestDurationHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	APIRequestCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of API requests",
		},
		[]string{"method", "path"},
	)

	APIErrorCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_errors_total",
			Help:      "Total number of API errors",
		},
		[]string{"method", "path", "status"},
	)

	// Business metrics
	SalesCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sales_total",
			Help:      "Completed sales by payment method",
		},
		[]string{"payment_method"},
	)

	SalesAmountCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_amount_total",
		Help:      "Sum of completed sale totals",
	})

	SalesVoidedCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_voided_total",
		Help:      "Voided sales",
	})

	InvoicesCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_total",
			Help:      "Invoice lifecycle events",
		},
		[]string{"event"},
	)

	StockMovementsCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_movements_total",
			Help:      "Inventory movements by kind",
		},
		[]string{"kind"},
	)

	LoginCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome",
		},
		[]string{"outcome"},
	)
)

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, path string, status int, started time.Time) {
	code := strconv.Itoa(status)
	APIRequestCounter.With(prometheus.Labels{"method": method, "path": path}).Inc()
	RequestDurationHistogram.With(prometheus.Labels{
		"method": method,
		"path":   path,
		"status": code,
	}).Observe(time.Since(started).Seconds())
	if status >= 400 {
		APIErrorCounter.With(prometheus.Labels{"method": method, "path": path, "status": code}).Inc()
	}
}

func RecordSale(method string, total decimal.Decimal) {
	SalesCounter.With(prometheus.Labels{"payment_method": method}).Inc()
	SalesAmountCounter.Add(total.InexactFloat64())
}

func RecordInvoice(event string) {
	InvoicesCounter.With(prometheus.Labels{"event": event}).Inc()
}

func RecordMovement(kind string) {
	StockMovementsCounter.With(prometheus.Labels{"kind": kind}).Inc()
}

func RecordLogin(outcome string) {
	LoginCounter.With(prometheus.Labels{"outcome": outcome}).Inc()
}
