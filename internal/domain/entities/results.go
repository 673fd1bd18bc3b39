package entities

import "time"

// IngestResult summarizes one ingestion pass for a monitored account.
type IngestResult struct {
	Account    string        `json:"account"`
	StartSeq   uint32        `json:"start_seq"`
	NextSeq    uint32        `json:"next_seq"`
	Pages      int           `json:"pages"`
	Scanned    int           `json:"scanned"`
	Inserted   int           `json:"inserted"`
	Duplicates int           `json:"duplicates"`
	Skipped    int           `json:"skipped"`
	Confirmed  int           `json:"confirmed"`
	CutoffHit  bool          `json:"cutoff_hit"`
	Duration   time.Duration `json:"duration"`
}

// Disbursement outcomes for one cycle.
const (
	DisburseOutcomeIdle       = "idle"        // nothing queued
	DisburseOutcomeSent       = "sent"
	DisburseOutcomeFailed     = "failed"
	DisburseOutcomeUnknown    = "unknown"
	DisburseOutcomeReserveLow = "reserve_low" // csaf below floor, pass aborted
	DisburseOutcomeBalanceLow = "balance_low" // head of queue exceeds spendable
)

// DisburseResult summarizes one disbursement pass. At most one request
// leaves queued per cycle.
type DisburseResult struct {
	Queued    int           `json:"queued"`
	RequestID int64         `json:"request_id,omitempty"`
	Outcome   string        `json:"outcome"`
	TrxID     string        `json:"trx_id,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// CycleResult is the record of one reconciliation cycle.
type CycleResult struct {
	StartedAt    time.Time       `json:"started_at"`
	Admitted     bool            `json:"admitted"`
	RejectReason RejectReason    `json:"reject_reason,omitempty"`
	Ingest       *IngestResult   `json:"ingest,omitempty"`
	Disburse     *DisburseResult `json:"disburse,omitempty"`
	Duration     time.Duration   `json:"duration"`
}
