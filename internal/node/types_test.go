package node

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walletops/yoyow_bridge/internal/domain/entities"
)

func TestChainInfoDecode(t *testing.T) {
	raw := `{
		"head_block_num": 33127465,
		"head_block_time": "2026-08-29T07:31:12",
		"last_irreversible_block_num": 33127444,
		"participation": "99.2187500000000000"
	}`

	var info ChainInfo
	require.NoError(t, json.Unmarshal([]byte(raw), &info))

	assert.Equal(t, uint64(33127465), info.HeadBlockNum)
	assert.Equal(t, uint64(33127444), info.LastIrreversibleBlockNum)
	assert.InDelta(t, 99.21875, float64(info.Participation), 1e-9)
	assert.Equal(t,
		time.Date(2026, 8, 29, 7, 31, 12, 0, time.UTC),
		info.HeadBlockTime.Time,
	)
}

func TestFlexValuesDecodeNumberAndString(t *testing.T) {
	var u FlexUint64
	require.NoError(t, json.Unmarshal([]byte(`"287103"`), &u))
	assert.Equal(t, FlexUint64(287103), u)
	require.NoError(t, json.Unmarshal([]byte(`287103`), &u))
	assert.Equal(t, "287103", u.String())

	var i FlexInt64
	require.NoError(t, json.Unmarshal([]byte(`"-42"`), &i))
	assert.Equal(t, FlexInt64(-42), i)

	var f FlexFloat64
	require.NoError(t, json.Unmarshal([]byte(`78.125`), &f))
	assert.InDelta(t, 78.125, float64(f), 1e-9)
}

func TestOperationDetailDecode(t *testing.T) {
	raw := `{
		"memo": "9527",
		"description": "transfer 12.34567 YOYO from 287103 to 25638",
		"sequence": 17,
		"op": {
			"op": [0, {"from": "287103", "to": "25638", "amount": {"amount": 1234567, "asset_id": 0}}],
			"result": [0, {}],
			"block_num": 33127001,
			"trx_in_block": 2,
			"op_in_trx": 0,
			"virtual_op": 0
		}
	}`

	var detail OperationDetail
	require.NoError(t, json.Unmarshal([]byte(raw), &detail))

	assert.Equal(t, uint32(17), detail.Sequence)
	assert.Equal(t, "9527", detail.Memo)
	assert.Equal(t, OpCodeTransfer, detail.Op.Op.Code)
	assert.Equal(t, uint64(33127001), detail.Op.BlockNum)
	assert.Equal(t, 2, detail.Op.TrxInBlock)

	xfer, err := detail.Op.Op.Transfer()
	require.NoError(t, err)
	assert.Equal(t, "287103", xfer.From.String())
	assert.Equal(t, "25638", xfer.To.String())
	assert.Equal(t, int64(1234567), int64(xfer.Amount.Amount))
	assert.Equal(t, uint32(0), xfer.Amount.AssetID)
}

func TestRawOperationRejectsMalformedVariant(t *testing.T) {
	var op RawOperation
	err := json.Unmarshal([]byte(`[0]`), &op)
	require.Error(t, err)

	var inconsistent *entities.DataInconsistencyError
	assert.ErrorAs(t, err, &inconsistent)
}

func TestBlockInfoTrxID(t *testing.T) {
	block := &BlockInfo{TransactionIDs: []string{"aaa", "bbb"}}

	assert.Equal(t, "aaa", block.TrxID(0))
	assert.Equal(t, "bbb", block.TrxID(1))
	// Virtual operations point past the real transaction list.
	assert.Equal(t, "", block.TrxID(2))
	assert.Equal(t, "", block.TrxID(-1))
}

func TestSpendableBalanceNetsOutPledges(t *testing.T) {
	stats := &AccountStatistics{
		CoreBalance:          1000_00000,
		CSAF:                 50_00000,
		TotalWitnessPledge:   300_00000,
		TotalCommitteePledge: 100_00000,
	}
	assert.Equal(t, int64(600_00000), stats.SpendableBalance())
}
