package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/walletops/yoyow_bridge/internal/config"
	"github.com/walletops/yoyow_bridge/internal/node"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testAccount = "287103"

func testConfig() *config.Config {
	return &config.Config{
		Bridge: config.BridgeConfig{
			Account:                testAccount,
			AssetID:                0,
			AssetSymbol:            "YOYO",
			PageSize:               10,
			CycleInterval:          10 * time.Second,
			HeadAgeThreshold:       15 * time.Second,
			ParticipationThreshold: 79.999,
			ReserveFloor:           20_00000,
			ReserveTopUp:           100_00000,
		},
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return db
}

type transferCall struct {
	from, to, amount, symbol, memo string
}

// fakeNode serves canned wallet-RPC responses. History paging mirrors the
// node: newest-first within (stop, start], at most limit entries, start==0
// meaning "from the newest".
type fakeNode struct {
	locked    bool
	lockedErr error

	info    *node.ChainInfo
	infoErr error

	history    map[uint32]node.OperationDetail
	maxSeq     uint32
	historyErr error

	blocks     map[uint64]*node.BlockInfo
	blockCalls int

	full    *node.FullAccount
	fullErr error

	transferResult json.RawMessage
	transferErr    error
	transferCalls  []transferCall

	trxID    string
	trxIDErr error

	collectCalls []string
}

func (f *fakeNode) IsLocked(ctx context.Context) (bool, error) {
	return f.locked, f.lockedErr
}

func (f *fakeNode) Info(ctx context.Context) (*node.ChainInfo, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

func (f *fakeNode) RelativeAccountHistory(ctx context.Context, account string, stop uint32, limit int, start uint32) ([]node.OperationDetail, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	if start == 0 {
		start = f.maxSeq
	}
	var out []node.OperationDetail
	for seq := start; seq > stop && len(out) < limit; seq-- {
		if d, ok := f.history[seq]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeNode) Block(ctx context.Context, num uint64) (*node.BlockInfo, error) {
	f.blockCalls++
	block, ok := f.blocks[num]
	if !ok {
		return nil, fmt.Errorf("no block %d", num)
	}
	return block, nil
}

func (f *fakeNode) FullAccount(ctx context.Context, account string) (*node.FullAccount, error) {
	if f.fullErr != nil {
		return nil, f.fullErr
	}
	return f.full, nil
}

func (f *fakeNode) Transfer(ctx context.Context, from, to, amount, assetSymbol, memo string) (json.RawMessage, error) {
	f.transferCalls = append(f.transferCalls, transferCall{from, to, amount, assetSymbol, memo})
	if f.transferErr != nil {
		return nil, f.transferErr
	}
	return f.transferResult, nil
}

func (f *fakeNode) TransactionID(ctx context.Context, signedTx json.RawMessage) (string, error) {
	if f.trxIDErr != nil {
		return "", f.trxIDErr
	}
	return f.trxID, nil
}

func (f *fakeNode) CollectCSAF(ctx context.Context, from, to, amount, assetSymbol string) (json.RawMessage, error) {
	f.collectCalls = append(f.collectCalls, amount)
	return json.RawMessage(`{}`), nil
}

func transferDetail(seq uint32, blockNum uint64, from, to string, amount int64, assetID uint32, memo string) node.OperationDetail {
	body := fmt.Sprintf(`{"from":"%s","to":"%s","amount":{"amount":"%d","asset_id":%d}}`, from, to, amount, assetID)
	return node.OperationDetail{
		Memo:     memo,
		Sequence: seq,
		Op: node.OperationHistory{
			Op:       node.RawOperation{Code: node.OpCodeTransfer, Body: json.RawMessage(body)},
			BlockNum: blockNum,
		},
	}
}

func otherOpDetail(seq uint32, blockNum uint64, code int) node.OperationDetail {
	return node.OperationDetail{
		Sequence: seq,
		Op: node.OperationHistory{
			Op:       node.RawOperation{Code: code, Body: json.RawMessage(`{}`)},
			BlockNum: blockNum,
		},
	}
}

func blockWithTrx(at time.Time, trxIDs ...string) *node.BlockInfo {
	return &node.BlockInfo{
		Timestamp:      node.ChainTime{Time: at},
		TransactionIDs: trxIDs,
	}
}
