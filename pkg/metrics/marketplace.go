package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	TasksCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tasknest_tasks_created_total",
		Help: "Total number of tasks created with escrow reserved",
	})

	SubmissionsCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tasknest_submissions_created_total",
		Help: "Total number of worker submissions",
	})

	SubmissionsDecided = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tasknest_submissions_decided_total",
		Help: "Submissions finalized by buyers, labeled by outcome",
	}, []string{"outcome"})

	CoinsCredited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tasknest_coins_credited_total",
		Help: "Coins credited to user balances, labeled by source",
	}, []string{"source"})

	WithdrawalsRequested = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tasknest_withdrawals_requested_total",
		Help: "Total number of withdrawal requests accepted",
	})

	CheckoutFinalizeLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tasknest_checkout_finalize_latency_seconds",
		Help:    "Latency of checkout finalization including gateway verification",
		Buckets: prometheus.DefBuckets,
	})
)

func Init() {
	prometheus.MustRegister(
		TasksCreated,
		SubmissionsCreated,
		SubmissionsDecided,
		CoinsCredited,
		WithdrawalsRequested,
		CheckoutFinalizeLatency,
	)
}
