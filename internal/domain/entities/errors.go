package entities

import (
	"errors"
	"fmt"
)

// RejectReason identifies why the health gate refused a cycle.
type RejectReason string

const (
	RejectNodeLocked       RejectReason = "node_locked"
	RejectStaleHead        RejectReason = "stale_head"
	RejectLowParticipation RejectReason = "low_participation"
)

// NodeUnhealthyError is an expected operational condition, not a bug; it
// aborts the cycle and is surfaced as a warning.
type NodeUnhealthyError struct {
	Reason RejectReason
	Detail string
}

func (e *NodeUnhealthyError) Error() string {
	return fmt.Sprintf("node unhealthy: %s (%s)", e.Reason, e.Detail)
}

// TransportError wraps an RPC timeout or connection failure.
type TransportError struct {
	Command string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("node rpc %q failed: %v", e.Command, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DataInconsistencyError marks a remote response missing or malforming a
// field the bridge depends on.
type DataInconsistencyError struct {
	Command string
	Field   string
	Detail  string
}

func (e *DataInconsistencyError) Error() string {
	return fmt.Sprintf("inconsistent node response to %q: field %s: %s", e.Command, e.Field, e.Detail)
}

// Expected steady-state disbursement conditions.
var (
	ErrInsufficientReserve = errors.New("csaf reserve below floor")
	ErrInsufficientBalance = errors.New("spendable balance below head-of-queue amount")
)

// ErrAmbiguousTransferOutcome means the broadcast response carried neither a
// result nor an error; money may have moved, so the request is parked in
// unknown(202) for manual review.
var ErrAmbiguousTransferOutcome = errors.New("transfer outcome ambiguous")
