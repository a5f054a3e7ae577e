package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-to-csv/constants"
	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
	"github.com/joseph-ayodele/invoice-to-csv/internal/entity"
)

func openTestLedger(t *testing.T) (*DB, *ledgerRepo) {
	t.Helper()
	ctx := context.Background()
	db, err := Open(ctx, Config{DSN: MemoryDSN, DialTimeout: time.Second}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(nil) })
	require.NoError(t, db.Migrate(ctx))
	require.NoError(t, db.Migrate(ctx), "migrations must be repeatable")

	repo := NewLedgerRepository(db, nil).(*ledgerRepo)
	clock := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return db, repo
}

func testAsset(t *testing.T) entity.Asset {
	t.Helper()
	a, err := entity.NewAsset(entity.AssetParams{
		ModelNumber:   "MN-100",
		ItemName:      "Widget Pro",
		Model:         "ModelX",
		UnitPrice:     "500.00",
		SerialNumbers: []string{"SN1", "SN2"},
		PurchaseDate:  "2024-03-14",
		OrderNumber:   "531363",
		Category:      "Laptop",
	})
	require.NoError(t, err)
	return a
}

func TestLedger_DocumentLifecycle(t *testing.T) {
	ctx := context.Background()
	_, repo := openTestLedger(t)

	rec := &entity.DocumentRecord{RunID: "run-1", SourcePath: "/tmp/a.pdf", ContentHash: "abc"}
	require.NoError(t, repo.StartDocument(ctx, rec))
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, string(constants.DocumentStatusRunning), rec.Status)

	_, found, err := repo.FindExportedByHash(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found, "running documents are not exported")

	require.NoError(t, repo.UpdateStatus(ctx, rec.ID, constants.DocumentStatusTextOK, "pdftotext"))
	require.NoError(t, repo.RecordAssets(ctx, rec.ID, testAsset(t)))
	require.NoError(t, repo.FinishDocument(ctx, rec.ID, constants.DocumentStatusExported, 2, "out.csv", nil))

	got, found, err := repo.FindExportedByHash(ctx, "abc")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, "pdftotext", got.Method)
	assert.Equal(t, 2, got.RowsWritten)
	assert.Equal(t, "out.csv", got.OutputPath)
	assert.Nil(t, got.ErrorMessage)
	require.NotNil(t, got.FinishedAt)
	assert.True(t, got.FinishedAt.After(got.StartedAt))

	n, err := repo.CountAssets(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestLedger_FailedDocumentAndListRecent(t *testing.T) {
	ctx := context.Background()
	_, repo := openTestLedger(t)

	first := &entity.DocumentRecord{RunID: "run-1", SourcePath: "a.pdf", ContentHash: "h1"}
	second := &entity.DocumentRecord{RunID: "run-1", SourcePath: "b.pdf", ContentHash: "h2"}
	require.NoError(t, repo.StartDocument(ctx, first))
	require.NoError(t, repo.StartDocument(ctx, second))

	msg := "locate item block: anchor not found"
	require.NoError(t, repo.FinishDocument(ctx, second.ID, constants.DocumentStatusFailed, 0, "", &msg))

	_, found, err := repo.FindExportedByHash(ctx, "h2")
	require.NoError(t, err)
	assert.False(t, found)

	recent, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "b.pdf", recent[0].SourcePath, "newest first")
	require.NotNil(t, recent[0].ErrorMessage)
	assert.Equal(t, msg, *recent[0].ErrorMessage)
	assert.Equal(t, string(constants.DocumentStatusFailed), recent[0].Status)
	assert.Nil(t, recent[1].FinishedAt)

	recent, err = repo.ListRecent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestLedger_RecordAssetsUnknownDocument(t *testing.T) {
	_, repo := openTestLedger(t)
	err := repo.RecordAssets(context.Background(), uuid.New(), testAsset(t))
	assert.Error(t, err, "foreign key must reject assets without a document")
}

func TestSplitDSN(t *testing.T) {
	tests := []struct {
		dsn     string
		dialect string
		rest    string
	}{
		{"postgres://u:p@localhost:5432/db", Postgres, "postgres://u:p@localhost:5432/db"},
		{"postgresql://localhost/db", Postgres, "postgresql://localhost/db"},
		{"sqlite://ledger.db", SQLite, "ledger.db"},
		{"sqlite:ledger.db", SQLite, "ledger.db"},
		{":memory:", SQLite, ":memory:"},
		{"/var/lib/invoices/ledger.db", SQLite, "/var/lib/invoices/ledger.db"},
	}
	for _, tt := range tests {
		dialect, rest := splitDSN(tt.dsn)
		assert.Equal(t, tt.dialect, dialect, tt.dsn)
		assert.Equal(t, tt.rest, rest, tt.dsn)
	}
}

func TestRebind(t *testing.T) {
	pg := &DB{Dialect: Postgres}
	assert.Equal(t, "SELECT 1 WHERE a = $1 AND b = $2", pg.rebind("SELECT 1 WHERE a = ? AND b = ?"))
	lite := &DB{Dialect: SQLite}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestOpen_EmptySQLitePath(t *testing.T) {
	_, err := Open(context.Background(), Config{DSN: "sqlite:"}, nil)
	require.Error(t, err)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeLedger, appErr.Code)
}

func TestNopLedger(t *testing.T) {
	ctx := context.Background()
	var l LedgerRepository = NopLedger{}
	rec := &entity.DocumentRecord{}
	require.NoError(t, l.StartDocument(ctx, rec))
	assert.NotEqual(t, uuid.Nil, rec.ID)
	_, found, err := l.FindExportedByHash(ctx, "x")
	require.NoError(t, err)
	assert.False(t, found)
}
