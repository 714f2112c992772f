package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signal_evaluations_total", Help: "Instrument evaluations by decision"},
		[]string{"symbol", "decision"},
	)
	SkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signal_skipped_total", Help: "Instrument evaluations skipped by reason"},
		[]string{"symbol", "reason"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "orders_total", Help: "Orders submitted to the venue"},
		[]string{"symbol", "side", "outcome"},
	)
	ExchangeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "exchange_requests_total", Help: "Signed venue requests by outcome"},
		[]string{"op", "outcome"},
	)
	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "notifications_total", Help: "Notifier deliveries"},
		[]string{"outcome"},
	)
	BalanceUSDT = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "balance_usdt", Help: "Last reported free USDT balance"},
	)
	TaskDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "task_duration_seconds", Help: "Scheduled task run time", Buckets: prometheus.DefBuckets},
		[]string{"task"},
	)
)

func init() {
	prometheus.MustRegister(
		EvaluationsTotal,
		SkippedTotal,
		OrdersTotal,
		ExchangeRequestsTotal,
		NotificationsTotal,
		BalanceUSDT,
		TaskDuration,
	)
}

// Outcome: метка ok/error.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func Handler() http.Handler { return promhttp.Handler() }
