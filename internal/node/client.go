package node

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	pkgerrors "github.com/pkg/errors"
	"github.com/walletops/yoyow_bridge/internal/domain/entities"
)

// Client is the wallet-RPC command surface the bridge depends on. The node
// process holds the keys and signs; the bridge only invokes commands.
type Client interface {
	// IsLocked reports whether the wallet is locked.
	IsLocked(ctx context.Context) (bool, error)

	// Info returns head block, irreversibility boundary and participation.
	Info(ctx context.Context) (*ChainInfo, error)

	// RelativeAccountHistory fetches one history page. The node returns
	// entries newest-first; sequence numbers are 1-based per account.
	RelativeAccountHistory(ctx context.Context, account string, stop uint32, limit int, start uint32) ([]OperationDetail, error)

	// Block fetches a block to resolve its transaction id list.
	Block(ctx context.Context, num uint64) (*BlockInfo, error)

	// FullAccount fetches account statistics (csaf, core balance, pledges).
	FullAccount(ctx context.Context, account string) (*FullAccount, error)

	// Transfer signs and broadcasts an outbound payment, returning the raw
	// signed transaction.
	Transfer(ctx context.Context, from, to, amount, assetSymbol, memo string) (json.RawMessage, error)

	// TransactionID resolves the id of a signed transaction payload.
	TransactionID(ctx context.Context, signedTx json.RawMessage) (string, error)

	// CollectCSAF issues a fee-reserve replenishment.
	CollectCSAF(ctx context.Context, from, to, amount, assetSymbol string) (json.RawMessage, error)
}

// walletClient talks JSON-RPC to the wallet node with positional params.
type walletClient struct {
	rpc     *rpc.Client
	timeout time.Duration
}

// Dial connects to the wallet node endpoint (http:// or ws://).
func Dial(ctx context.Context, endpoint string, timeout time.Duration) (Client, error) {
	c, err := rpc.DialContext(ctx, endpoint)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "dial wallet node %s", endpoint)
	}
	return &walletClient{rpc: c, timeout: timeout}, nil
}

// call invokes one wallet command under the client's timeout. An error the
// node itself returned passes through unchanged; a timeout or connection
// failure comes back as TransportError. Disbursement depends on this split:
// a node-returned error proves the transfer was rejected, a transport
// failure proves nothing.
func (c *walletClient) call(ctx context.Context, result interface{}, command string, args ...interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.rpc.CallContext(ctx, result, command, args...)
	if err == nil {
		return nil
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return err
	}
	return &entities.TransportError{Command: command, Err: err}
}

func (c *walletClient) IsLocked(ctx context.Context) (bool, error) {
	var locked bool
	if err := c.call(ctx, &locked, "is_locked"); err != nil {
		return false, err
	}
	return locked, nil
}

func (c *walletClient) Info(ctx context.Context) (*ChainInfo, error) {
	var info ChainInfo
	if err := c.call(ctx, &info, "info"); err != nil {
		return nil, err
	}
	if info.HeadBlockNum == 0 {
		return nil, &entities.DataInconsistencyError{
			Command: "info", Field: "head_block_num", Detail: "missing or zero",
		}
	}
	if info.HeadBlockTime.IsZero() {
		return nil, &entities.DataInconsistencyError{
			Command: "info", Field: "head_block_time", Detail: "missing",
		}
	}
	return &info, nil
}

func (c *walletClient) RelativeAccountHistory(ctx context.Context, account string, stop uint32, limit int, start uint32) ([]OperationDetail, error) {
	var details []OperationDetail
	if err := c.call(ctx, &details, "get_relative_account_history", account, nil, stop, limit, start); err != nil {
		return nil, err
	}
	return details, nil
}

func (c *walletClient) Block(ctx context.Context, num uint64) (*BlockInfo, error) {
	var block *BlockInfo
	if err := c.call(ctx, &block, "get_block", num); err != nil {
		return nil, err
	}
	if block == nil {
		return nil, &entities.DataInconsistencyError{
			Command: "get_block", Field: "result", Detail: "block not found",
		}
	}
	return block, nil
}

func (c *walletClient) FullAccount(ctx context.Context, account string) (*FullAccount, error) {
	var full FullAccount
	if err := c.call(ctx, &full, "get_full_account", account); err != nil {
		return nil, err
	}
	return &full, nil
}

func (c *walletClient) Transfer(ctx context.Context, from, to, amount, assetSymbol, memo string) (json.RawMessage, error) {
	var signedTx json.RawMessage
	// csaf_fee=true, broadcast=true
	if err := c.call(ctx, &signedTx, "transfer", from, to, amount, assetSymbol, memo, true, true); err != nil {
		return nil, err
	}
	return signedTx, nil
}

func (c *walletClient) TransactionID(ctx context.Context, signedTx json.RawMessage) (string, error) {
	var trxID string
	if err := c.call(ctx, &trxID, "get_transaction_id", signedTx); err != nil {
		return "", err
	}
	if trxID == "" {
		return "", &entities.DataInconsistencyError{
			Command: "get_transaction_id", Field: "result", Detail: "empty transaction id",
		}
	}
	return trxID, nil
}

func (c *walletClient) CollectCSAF(ctx context.Context, from, to, amount, assetSymbol string) (json.RawMessage, error) {
	var signedTx json.RawMessage
	if err := c.call(ctx, &signedTx, "collect_csaf", from, to, amount, assetSymbol, true, true); err != nil {
		return nil, err
	}
	return signedTx, nil
}
