package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Reconciliation cycle metrics. Labels: result is one of ok, rejected,
// failed; reason follows entities.RejectReason; status/outcome follow the
// deposit and disbursement enums.
var (
	CyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_cycles_total",
		Help: "Reconciliation cycles by result",
	}, []string{"result"})

	CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bridge_cycle_duration_seconds",
		Help:    "Wall-clock duration of one reconciliation cycle",
		Buckets: prometheus.DefBuckets,
	})

	HealthRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_health_rejections_total",
		Help: "Cycles rejected by the health gate, by reason",
	}, []string{"reason"})

	EventsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_deposit_events_total",
		Help: "Deposit events inserted, by process status",
	}, []string{"status"})

	DuplicatesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bridge_duplicate_events_total",
		Help: "History entries skipped because the sequence was already ingested",
	})

	CursorNextSeq = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_cursor_next_seq",
		Help: "Persisted next sequence number of the monitored account",
	})

	Disbursements = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bridge_disbursements_total",
		Help: "Disbursement passes by outcome",
	}, []string{"outcome"})

	WithdrawQueued = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bridge_withdraw_queued",
		Help: "Withdraw requests currently queued",
	})
)
