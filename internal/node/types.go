package node

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/walletops/yoyow_bridge/internal/domain/entities"
)

// Operation codes of the chain's operation static-variant. Only transfers
// are ingested; every other code advances the cursor and is skipped.
const OpCodeTransfer = 0

// chainTimeLayout is the node's timestamp format: second precision, no zone,
// always UTC.
const chainTimeLayout = "2006-01-02T15:04:05"

// ChainTime decodes the node's zone-less UTC timestamps.
type ChainTime struct {
	time.Time
}

func (t *ChainTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.ParseInLocation(chainTimeLayout, s, time.UTC)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// FlexUint64 decodes an unsigned integer the node may serialize either as a
// JSON number or, past 32 bits, as a quoted string.
type FlexUint64 uint64

func (v *FlexUint64) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return err
	}
	*v = FlexUint64(n)
	return nil
}

func (v FlexUint64) String() string {
	return strconv.FormatUint(uint64(v), 10)
}

// FlexInt64 is the signed counterpart of FlexUint64 (share_type amounts).
type FlexInt64 int64

func (v *FlexInt64) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*v = FlexInt64(n)
	return nil
}

// FlexFloat64 decodes a float the node may serialize as number or string
// (e.g. the participation percentage).
type FlexFloat64 float64

func (v *FlexFloat64) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*v = FlexFloat64(f)
	return nil
}

// ChainInfo is the typed subset of the wallet's `info` result the gate needs.
type ChainInfo struct {
	HeadBlockNum             uint64      `json:"head_block_num"`
	HeadBlockTime            ChainTime   `json:"head_block_time"`
	LastIrreversibleBlockNum uint64      `json:"last_irreversible_block_num"`
	Participation            FlexFloat64 `json:"participation"`
}

// AssetAmount is the chain's {amount, asset_id} pair in minor units.
type AssetAmount struct {
	Amount  FlexInt64 `json:"amount"`
	AssetID uint32    `json:"asset_id"`
}

// TransferOperation is the body of an op-code-0 history entry.
type TransferOperation struct {
	From   FlexUint64  `json:"from"`
	To     FlexUint64  `json:"to"`
	Amount AssetAmount `json:"amount"`
}

// RawOperation is the chain's [op_code, body] variant encoding.
type RawOperation struct {
	Code int
	Body json.RawMessage
}

func (o *RawOperation) UnmarshalJSON(b []byte) error {
	var parts []json.RawMessage
	if err := json.Unmarshal(b, &parts); err != nil {
		return err
	}
	if len(parts) != 2 {
		return &entities.DataInconsistencyError{
			Command: "get_relative_account_history",
			Field:   "op",
			Detail:  "operation variant is not a two-element array",
		}
	}
	var code int
	if err := json.Unmarshal(parts[0], &code); err != nil {
		return &entities.DataInconsistencyError{
			Command: "get_relative_account_history",
			Field:   "op[0]",
			Detail:  "operation code is not an integer",
		}
	}
	o.Code = code
	o.Body = parts[1]
	return nil
}

// Transfer decodes the operation body as a transfer. Call only when
// Code == OpCodeTransfer.
func (o *RawOperation) Transfer() (*TransferOperation, error) {
	var xfer TransferOperation
	if err := json.Unmarshal(o.Body, &xfer); err != nil {
		return nil, &entities.DataInconsistencyError{
			Command: "get_relative_account_history",
			Field:   "op[1]",
			Detail:  "transfer body malformed: " + err.Error(),
		}
	}
	return &xfer, nil
}

// OperationHistory mirrors operation_history_object.
type OperationHistory struct {
	Op         RawOperation    `json:"op"`
	Result     json.RawMessage `json:"result"`
	BlockNum   uint64          `json:"block_num"`
	TrxInBlock int             `json:"trx_in_block"`
	OpInTrx    int             `json:"op_in_trx"`
	VirtualOp  int             `json:"virtual_op"`
}

// OperationDetail is one element of get_relative_account_history. Memo is
// already decrypted by the wallet; Description is the printer's summary.
type OperationDetail struct {
	Memo        string           `json:"memo"`
	Description string           `json:"description"`
	Sequence    uint32           `json:"sequence"`
	Op          OperationHistory `json:"op"`
}

// BlockInfo is the typed subset of get_block (signed_block_with_info).
type BlockInfo struct {
	Timestamp      ChainTime `json:"timestamp"`
	TransactionIDs []string  `json:"transaction_ids"`
}

// TrxID returns the transaction id at the given index, or empty when the
// index does not resolve (virtual operations carry no real transaction).
func (b *BlockInfo) TrxID(trxInBlock int) string {
	if trxInBlock < 0 || trxInBlock >= len(b.TransactionIDs) {
		return ""
	}
	return b.TransactionIDs[trxInBlock]
}

// AccountStatistics carries the balances the disbursement engine reasons
// about, all in minor units.
type AccountStatistics struct {
	CoreBalance          FlexInt64 `json:"core_balance"`
	CSAF                 FlexInt64 `json:"csaf"`
	TotalWitnessPledge   FlexInt64 `json:"total_witness_pledge"`
	TotalCommitteePledge FlexInt64 `json:"total_committee_member_pledge"`
}

// SpendableBalance is core balance net of witness and committee pledges.
func (s *AccountStatistics) SpendableBalance() int64 {
	return int64(s.CoreBalance) - int64(s.TotalWitnessPledge) - int64(s.TotalCommitteePledge)
}

// FullAccount is the typed subset of get_full_account.
type FullAccount struct {
	Statistics AccountStatistics `json:"statistics"`
}
