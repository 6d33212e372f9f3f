package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/cadencehq/cadence/internal/domain/ledger"
	"github.com/cadencehq/cadence/internal/repository"
	"github.com/stretchr/testify/require"
)

func newRecord(clientID, periodKey string) *ledger.CompletionRecord {
	return &ledger.CompletionRecord{
		TaskID:      "t1",
		TenantID:    "tenant1",
		ClientID:    clientID,
		PeriodKey:   periodKey,
		CompletedBy: "emp1",
		CompletedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func setupLedger(t *testing.T) (*LedgerRepository, context.Context) {
	t.Helper()
	db := NewTestDB(t)
	repo := NewLedgerRepository(db)
	ctx := context.Background()

	taskRepo := NewTaskRepository(db)
	require.NoError(t, taskRepo.Create(ctx, "tenant1", newTask("t1")))
	return repo, ctx
}

func TestLedgerRepository_UpsertAndList(t *testing.T) {
	repo, ctx := setupLedger(t)

	rec := newRecord("a", "2026-01")
	rec.ReferenceNumber = "123456789012345"
	rec.ReferenceName = "filing ack"
	require.NoError(t, repo.Upsert(ctx, "tenant1", rec))

	records, err := repo.ListByTask(ctx, "tenant1", "t1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "a", records[0].ClientID)
	require.Equal(t, "2026-01", records[0].PeriodKey)
	require.Equal(t, "123456789012345", records[0].ReferenceNumber)
	require.Equal(t, "filing ack", records[0].ReferenceName)
}

func TestLedgerRepository_UpsertOverwrites(t *testing.T) {
	repo, ctx := setupLedger(t)

	first := newRecord("a", "2026-01")
	first.CompletedBy = "emp1"
	require.NoError(t, repo.Upsert(ctx, "tenant1", first))

	second := newRecord("a", "2026-01")
	second.CompletedBy = "emp2"
	second.CompletedAt = first.CompletedAt.Add(time.Hour)
	require.NoError(t, repo.Upsert(ctx, "tenant1", second))

	records, err := repo.ListByTask(ctx, "tenant1", "t1")
	require.NoError(t, err)
	require.Len(t, records, 1, "re-marking the same cell must not duplicate it")
	require.Equal(t, "emp2", records[0].CompletedBy)
}

func TestLedgerRepository_Delete(t *testing.T) {
	repo, ctx := setupLedger(t)

	require.NoError(t, repo.Upsert(ctx, "tenant1", newRecord("a", "2026-01")))
	require.NoError(t, repo.Delete(ctx, "tenant1", "t1", "a", "2026-01"))

	records, err := repo.ListByTask(ctx, "tenant1", "t1")
	require.NoError(t, err)
	require.Empty(t, records)

	// Deleting an absent cell reports not found; callers treat it as a no-op
	err = repo.Delete(ctx, "tenant1", "t1", "a", "2026-01")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestLedgerRepository_Ordering(t *testing.T) {
	repo, ctx := setupLedger(t)

	require.NoError(t, repo.Upsert(ctx, "tenant1", newRecord("b", "2026-02")))
	require.NoError(t, repo.Upsert(ctx, "tenant1", newRecord("a", "2026-02")))
	require.NoError(t, repo.Upsert(ctx, "tenant1", newRecord("b", "2026-01")))

	records, err := repo.ListByTask(ctx, "tenant1", "t1")
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "2026-01", records[0].PeriodKey)
	require.Equal(t, "a", records[1].ClientID)
	require.Equal(t, "b", records[2].ClientID)
}

func TestLedgerRepository_OrphanRejected(t *testing.T) {
	repo, ctx := setupLedger(t)

	orphan := newRecord("a", "2026-01")
	orphan.TaskID = "missing"
	err := repo.Upsert(ctx, "tenant1", orphan)
	require.Equal(t, repository.ErrForeignKeyViolation, err)
}

func TestLedgerRepository_TenantIsolation(t *testing.T) {
	repo, ctx := setupLedger(t)

	require.NoError(t, repo.Upsert(ctx, "tenant1", newRecord("a", "2026-01")))

	records, err := repo.ListByTask(ctx, "tenant2", "t1")
	require.NoError(t, err)
	require.Empty(t, records)

	err = repo.Delete(ctx, "tenant2", "t1", "a", "2026-01")
	require.Equal(t, repository.ErrNotFound, err)
}
