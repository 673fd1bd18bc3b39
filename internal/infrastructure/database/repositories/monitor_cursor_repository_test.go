package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walletops/yoyow_bridge/internal/domain/entities"
)

func TestMonitorCursorGetReturnsNilWhenAbsent(t *testing.T) {
	repo := NewMonitorCursorRepository(openTestDB(t))

	cursor, err := repo.Get(context.Background(), "287103")
	require.NoError(t, err)
	assert.Nil(t, cursor)
}

func TestMonitorCursorUpsertInsertsThenUpdates(t *testing.T) {
	repo := NewMonitorCursorRepository(openTestDB(t))
	ctx := context.Background()

	first := &entities.MonitorCursor{AccountUID: "287103", NextSeq: 1, UpdatedAt: time.Now().UTC()}
	require.NoError(t, repo.Upsert(ctx, first))

	got, err := repo.Get(ctx, "287103")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint32(1), got.NextSeq)

	first.NextSeq = 42
	first.UpdatedAt = time.Now().UTC()
	require.NoError(t, repo.Upsert(ctx, first))

	got, err = repo.Get(ctx, "287103")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint32(42), got.NextSeq)
}
