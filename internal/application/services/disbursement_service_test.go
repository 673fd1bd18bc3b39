package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walletops/yoyow_bridge/internal/config"
	"github.com/walletops/yoyow_bridge/internal/domain/entities"
	dbrepos "github.com/walletops/yoyow_bridge/internal/infrastructure/database/repositories"
	"github.com/walletops/yoyow_bridge/internal/node"
	"github.com/walletops/yoyow_bridge/internal/notification"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type disbursementFixture struct {
	svc *DisbursementService
	fn  *fakeNode
	db  *gorm.DB
}

func newDisbursementFixture(t *testing.T) *disbursementFixture {
	t.Helper()
	db := openTestDB(t)
	fn := &fakeNode{
		full: fullAccount(1000_00000, 50_00000, 0, 0),
	}
	repo := dbrepos.NewWithdrawRequestRepository(db)
	notifier := notification.NewNotifier(config.TelegramConfig{}, zap.NewNop())
	svc := NewDisbursementService(fn, repo, notifier, testConfig(), zap.NewNop())
	return &disbursementFixture{svc: svc, fn: fn, db: db}
}

func fullAccount(core, csaf, witnessPledge, committeePledge int64) *node.FullAccount {
	return &node.FullAccount{
		Statistics: node.AccountStatistics{
			CoreBalance:          node.FlexInt64(core),
			CSAF:                 node.FlexInt64(csaf),
			TotalWitnessPledge:   node.FlexInt64(witnessPledge),
			TotalCommitteePledge: node.FlexInt64(committeePledge),
		},
	}
}

func (f *disbursementFixture) queue(t *testing.T, amount int64) *entities.WithdrawRequest {
	t.Helper()
	req := &entities.WithdrawRequest{
		OutAddress:    "25638",
		OutAmount:     amount,
		OutMemo:       "payout",
		ProcessStatus: entities.WithdrawStatusQueued,
	}
	require.NoError(t, f.db.Create(req).Error)
	return req
}

func (f *disbursementFixture) status(t *testing.T, id int64) *entities.WithdrawRequest {
	t.Helper()
	var got entities.WithdrawRequest
	require.NoError(t, f.db.First(&got, id).Error)
	return &got
}

func healthySnapshot() *entities.HealthSnapshot {
	return &entities.HealthSnapshot{LastIrreversibleBlockNum: 33127000}
}

func TestDisburseIdleOnEmptyQueue(t *testing.T) {
	f := newDisbursementFixture(t)

	result, err := f.svc.Disburse(context.Background(), healthySnapshot())
	require.NoError(t, err)
	assert.Equal(t, entities.DisburseOutcomeIdle, result.Outcome)
	assert.Zero(t, result.Queued)
	assert.Empty(t, f.fn.transferCalls)
}

func TestDisburseReserveBelowFloorPausesAndTopsUp(t *testing.T) {
	f := newDisbursementFixture(t)
	f.fn.full = fullAccount(1000_00000, 10_00000, 0, 0)
	req := f.queue(t, 20_00000)

	result, err := f.svc.Disburse(context.Background(), healthySnapshot())
	require.NoError(t, err)
	assert.Equal(t, entities.DisburseOutcomeReserveLow, result.Outcome)

	require.Len(t, f.fn.collectCalls, 1)
	assert.Equal(t, "100.00000", f.fn.collectCalls[0])
	assert.Empty(t, f.fn.transferCalls)

	// The request is untouched and will be retried once the reserve recovers.
	assert.Equal(t, entities.WithdrawStatusQueued, f.status(t, req.ID).ProcessStatus)
}

func TestDisburseBalanceBelowHeadWaits(t *testing.T) {
	f := newDisbursementFixture(t)
	// 600 spendable after pledges, head of queue wants 700.
	f.fn.full = fullAccount(1000_00000, 50_00000, 300_00000, 100_00000)
	big := f.queue(t, 700_00000)
	small := f.queue(t, 1_00000)

	result, err := f.svc.Disburse(context.Background(), healthySnapshot())
	require.NoError(t, err)
	assert.Equal(t, entities.DisburseOutcomeBalanceLow, result.Outcome)
	assert.Equal(t, big.ID, result.RequestID)
	assert.Empty(t, f.fn.transferCalls)

	// Strict FIFO: the affordable request behind the head is not skipped to.
	assert.Equal(t, entities.WithdrawStatusQueued, f.status(t, small.ID).ProcessStatus)
}

func TestDisburseSendsHeadOfQueue(t *testing.T) {
	f := newDisbursementFixture(t)
	f.fn.transferResult = json.RawMessage(`{"signatures":["sig"]}`)
	f.fn.trxID = "cafebabe"
	head := f.queue(t, 20_00000)
	second := f.queue(t, 5_00000)

	result, err := f.svc.Disburse(context.Background(), healthySnapshot())
	require.NoError(t, err)
	assert.Equal(t, entities.DisburseOutcomeSent, result.Outcome)
	assert.Equal(t, "cafebabe", result.TrxID)

	require.Len(t, f.fn.transferCalls, 1)
	call := f.fn.transferCalls[0]
	assert.Equal(t, testAccount, call.from)
	assert.Equal(t, "25638", call.to)
	assert.Equal(t, "20.00000", call.amount)
	assert.Equal(t, "YOYO", call.symbol)
	assert.Equal(t, "payout", call.memo)

	got := f.status(t, head.ID)
	assert.Equal(t, entities.WithdrawStatusSent, got.ProcessStatus)
	assert.Equal(t, "cafebabe", got.OutTrxID)
	require.NotNil(t, got.OutTime)

	// At most one disbursement per cycle.
	assert.Equal(t, entities.WithdrawStatusQueued, f.status(t, second.ID).ProcessStatus)
}

func TestDisburseNodeRejectionIsTerminal(t *testing.T) {
	f := newDisbursementFixture(t)
	f.fn.transferErr = errors.New("insufficient balance to pay the fee")
	req := f.queue(t, 20_00000)

	result, err := f.svc.Disburse(context.Background(), healthySnapshot())
	require.NoError(t, err)
	assert.Equal(t, entities.DisburseOutcomeFailed, result.Outcome)

	got := f.status(t, req.ID)
	assert.Equal(t, entities.WithdrawStatusFailed, got.ProcessStatus)
	assert.Contains(t, got.OutDetail, "insufficient balance")
}

func TestDisburseTransportFailureParksUnknown(t *testing.T) {
	f := newDisbursementFixture(t)
	f.fn.transferErr = &entities.TransportError{Command: "transfer", Err: errors.New("i/o timeout")}
	req := f.queue(t, 20_00000)

	result, err := f.svc.Disburse(context.Background(), healthySnapshot())
	require.NoError(t, err)
	assert.Equal(t, entities.DisburseOutcomeUnknown, result.Outcome)

	got := f.status(t, req.ID)
	assert.Equal(t, entities.WithdrawStatusUnknown, got.ProcessStatus)
	assert.Contains(t, got.OutDetail, "transport failure")
}

func TestDisburseEmptyBroadcastResultParksUnknown(t *testing.T) {
	f := newDisbursementFixture(t)
	f.fn.transferResult = json.RawMessage(`null`)
	req := f.queue(t, 20_00000)

	result, err := f.svc.Disburse(context.Background(), healthySnapshot())
	require.NoError(t, err)
	assert.Equal(t, entities.DisburseOutcomeUnknown, result.Outcome)
	assert.Equal(t, entities.WithdrawStatusUnknown, f.status(t, req.ID).ProcessStatus)
}

func TestDisburseTrxIDResolutionFailureParksUnknown(t *testing.T) {
	f := newDisbursementFixture(t)
	f.fn.transferResult = json.RawMessage(`{"signatures":["sig"]}`)
	f.fn.trxIDErr = errors.New("parse failure")
	req := f.queue(t, 20_00000)

	result, err := f.svc.Disburse(context.Background(), healthySnapshot())
	require.NoError(t, err)
	assert.Equal(t, entities.DisburseOutcomeUnknown, result.Outcome)

	got := f.status(t, req.ID)
	assert.Equal(t, entities.WithdrawStatusUnknown, got.ProcessStatus)
	assert.Contains(t, got.OutDetail, "trx id resolution failed")
}
