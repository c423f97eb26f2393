package observability

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	betsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookie_bets_placed_total",
		Help: "Number of bets accepted into the pending state",
	})

	stakeVolume = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookie_stake_volume_total",
		Help: "Total stake accepted, in minor currency units",
	})

	betsSettled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookie_bets_settled_total",
		Help: "Number of bets settled, by terminal outcome",
	}, []string{"outcome"})

	payoutVolume = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookie_payout_volume_total",
		Help: "Total winning payouts credited, in minor currency units",
	})

	ledgerTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookie_ledger_transactions_total",
		Help: "Number of committed ledger transactions, by type",
	}, []string{"type"})

	conflictRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookie_storage_conflict_retries_total",
		Help: "Number of operations retried after losing an atomic-write race",
	})

	operationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookie_operation_duration_seconds",
		Help:    "Duration of core operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
)

// RecordBetPlaced counts an accepted bet and its stake
func RecordBetPlaced(amount int64) {
	betsPlaced.Inc()
	stakeVolume.Add(float64(amount))
}

// RecordBetSettled counts a settlement by outcome
func RecordBetSettled(outcome string, payout int64) {
	betsSettled.WithLabelValues(outcome).Inc()
	if payout > 0 {
		payoutVolume.Add(float64(payout))
	}
}

// RecordTransaction counts a committed ledger transaction
func RecordTransaction(txType string) {
	ledgerTransactions.WithLabelValues(txType).Inc()
}

// RecordConflictRetry counts an operation retried after a storage conflict
func RecordConflictRetry() {
	conflictRetries.Inc()
}

// OperationTimer observes the duration of one core operation
type OperationTimer struct {
	operation string
	start     time.Time
}

// StartOperation begins timing a named operation
func StartOperation(operation string) *OperationTimer {
	return &OperationTimer{operation: operation, start: time.Now()}
}

// Done records the elapsed time
func (t *OperationTimer) Done() {
	operationDuration.WithLabelValues(t.operation).Observe(time.Since(t.start).Seconds())
}

// HealthFunc reports whether a dependency is reachable
type HealthFunc func(ctx context.Context) error

// StartMetricsServer serves /metrics and /healthz on the given port in a
// background goroutine and returns the server for shutdown.
func StartMetricsServer(port string, healthFn HealthFunc) *http.Server {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()

		if err := healthFn(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(fmt.Sprintf("unhealthy: %v", err)))
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: mux,
	}

	go func() {
		_ = srv.ListenAndServe()
	}()

	return srv
}
