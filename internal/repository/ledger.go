package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-to-csv/constants"
	"github.com/joseph-ayodele/invoice-to-csv/internal/entity"
)

// LedgerRepository records every processed document and the asset rows it produced.
type LedgerRepository interface {
	StartDocument(ctx context.Context, rec *entity.DocumentRecord) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status constants.DocumentStatus, method string) error
	FinishDocument(ctx context.Context, id uuid.UUID, status constants.DocumentStatus, rows int, outputPath string, errMsg *string) error
	RecordAssets(ctx context.Context, documentID uuid.UUID, asset entity.Asset) error
	FindExportedByHash(ctx context.Context, contentHash string) (*entity.DocumentRecord, bool, error)
	ListRecent(ctx context.Context, limit int) ([]entity.DocumentRecord, error)
	CountAssets(ctx context.Context, documentID uuid.UUID) (int, error)
}

// Timestamps are stored as fixed-width UTC text so they sort lexically.
const tsLayout = "2006-01-02T15:04:05.000000000Z"

type ledgerRepo struct {
	db     *DB
	logger *slog.Logger
	now    func() time.Time
}

func NewLedgerRepository(db *DB, logger *slog.Logger) LedgerRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &ledgerRepo{db: db, logger: logger, now: time.Now}
}

func (r *ledgerRepo) StartDocument(ctx context.Context, rec *entity.DocumentRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.StartedAt.IsZero() {
		rec.StartedAt = r.now().UTC()
	}
	rec.Status = string(constants.DocumentStatusRunning)

	_, err := r.db.SQL.ExecContext(ctx, r.db.rebind(`
		INSERT INTO documents (id, run_id, source_path, content_hash, status, method, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`),
		rec.ID.String(), rec.RunID, rec.SourcePath, rec.ContentHash, rec.Status, rec.Method,
		rec.StartedAt.UTC().Format(tsLayout))
	if err != nil {
		r.logger.Error("failed to start document", "source_path", rec.SourcePath, "error", err)
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *ledgerRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status constants.DocumentStatus, method string) error {
	_, err := r.db.SQL.ExecContext(ctx, r.db.rebind(`
		UPDATE documents SET status = ?, method = ? WHERE id = ?`),
		string(status), method, id.String())
	if err != nil {
		r.logger.Error("failed to update document status", "document_id", id, "status", status, "error", err)
		return fmt.Errorf("update document: %w", err)
	}
	return nil
}

func (r *ledgerRepo) FinishDocument(ctx context.Context, id uuid.UUID, status constants.DocumentStatus, rows int, outputPath string, errMsg *string) error {
	_, err := r.db.SQL.ExecContext(ctx, r.db.rebind(`
		UPDATE documents
		SET status = ?, rows_written = ?, output_path = ?, error_message = ?, finished_at = ?
		WHERE id = ?`),
		string(status), rows, outputPath, errMsg, r.now().UTC().Format(tsLayout), id.String())
	if err != nil {
		r.logger.Error("failed to finish document", "document_id", id, "status", status, "error", err)
		return fmt.Errorf("finish document: %w", err)
	}
	return nil
}

func (r *ledgerRepo) RecordAssets(ctx context.Context, documentID uuid.UUID, a entity.Asset) error {
	tx, err := r.db.SQL.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt := r.db.rebind(`
		INSERT INTO assets (id, document_id, model_number, serial_number, item_name, model,
			category, unit_price, purchase_date, order_number)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for _, serial := range a.SerialNumbers {
		if _, err := tx.ExecContext(ctx, stmt,
			uuid.NewString(), documentID.String(), a.ModelNumber, serial, a.ItemName, a.Model,
			a.Category, a.UnitPrice, a.PurchaseDate, a.OrderNumber); err != nil {
			r.logger.Error("failed to record asset", "document_id", documentID, "serial_number", serial, "error", err)
			return fmt.Errorf("insert asset: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit assets: %w", err)
	}
	return nil
}

const documentColumns = `id, run_id, source_path, content_hash, status, method, rows_written,
	output_path, error_message, started_at, finished_at`

func (r *ledgerRepo) FindExportedByHash(ctx context.Context, contentHash string) (*entity.DocumentRecord, bool, error) {
	row := r.db.SQL.QueryRowContext(ctx, r.db.rebind(`
		SELECT `+documentColumns+`
		FROM documents
		WHERE content_hash = ? AND status = ?
		ORDER BY started_at DESC
		LIMIT 1`),
		contentHash, string(constants.DocumentStatusExported))
	rec, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		r.logger.Error("failed to find document by hash", "content_hash", contentHash, "error", err)
		return nil, false, err
	}
	return &rec, true, nil
}

func (r *ledgerRepo) ListRecent(ctx context.Context, limit int) ([]entity.DocumentRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.SQL.QueryContext(ctx, r.db.rebind(`
		SELECT `+documentColumns+`
		FROM documents
		ORDER BY started_at DESC
		LIMIT ?`), limit)
	if err != nil {
		r.logger.Error("failed to list documents", "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []entity.DocumentRecord
	for rows.Next() {
		rec, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *ledgerRepo) CountAssets(ctx context.Context, documentID uuid.UUID) (int, error) {
	var n int
	err := r.db.SQL.QueryRowContext(ctx, r.db.rebind(`SELECT COUNT(*) FROM assets WHERE document_id = ?`),
		documentID.String()).Scan(&n)
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(s scanner) (entity.DocumentRecord, error) {
	var (
		rec        entity.DocumentRecord
		id         string
		errMsg     sql.NullString
		startedAt  string
		finishedAt sql.NullString
	)
	if err := s.Scan(&id, &rec.RunID, &rec.SourcePath, &rec.ContentHash, &rec.Status, &rec.Method,
		&rec.RowsWritten, &rec.OutputPath, &errMsg, &startedAt, &finishedAt); err != nil {
		return rec, err
	}

	var err error
	if rec.ID, err = uuid.Parse(id); err != nil {
		return rec, fmt.Errorf("document id %q: %w", id, err)
	}
	if errMsg.Valid {
		rec.ErrorMessage = &errMsg.String
	}
	if rec.StartedAt, err = time.Parse(tsLayout, startedAt); err != nil {
		return rec, fmt.Errorf("started_at %q: %w", startedAt, err)
	}
	if finishedAt.Valid {
		t, err := time.Parse(tsLayout, finishedAt.String)
		if err != nil {
			return rec, fmt.Errorf("finished_at %q: %w", finishedAt.String, err)
		}
		rec.FinishedAt = &t
	}
	return rec, nil
}

// NopLedger records nothing; it is used when no ledger DSN is configured.
type NopLedger struct{}

func (NopLedger) StartDocument(_ context.Context, rec *entity.DocumentRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	return nil
}
func (NopLedger) UpdateStatus(context.Context, uuid.UUID, constants.DocumentStatus, string) error {
	return nil
}
func (NopLedger) FinishDocument(context.Context, uuid.UUID, constants.DocumentStatus, int, string, *string) error {
	return nil
}
func (NopLedger) RecordAssets(context.Context, uuid.UUID, entity.Asset) error { return nil }
func (NopLedger) FindExportedByHash(context.Context, string) (*entity.DocumentRecord, bool, error) {
	return nil, false, nil
}
func (NopLedger) ListRecent(context.Context, int) ([]entity.DocumentRecord, error) { return nil, nil }
func (NopLedger) CountAssets(context.Context, uuid.UUID) (int, error)              { return 0, nil }
