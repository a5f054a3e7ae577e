package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-to-csv/constants"
	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
	"github.com/joseph-ayodele/invoice-to-csv/internal/entity"
	"github.com/joseph-ayodele/invoice-to-csv/internal/export"
	"github.com/joseph-ayodele/invoice-to-csv/internal/ingest"
	"github.com/joseph-ayodele/invoice-to-csv/internal/repository"
)

// Sink receives the rows of every exported asset.
type Sink interface {
	WriteAsset(a entity.Asset) (int, error)
}

// Report statuses that are not ledger statuses.
const (
	StatusNotFound = "NOT_FOUND"
	StatusInvalid  = "INVALID"
)

type BatchOptions struct {
	RunID         string
	OutputPath    string    // recorded in the ledger
	SkipProcessed bool      // skip documents already exported in an earlier run
	Progress      io.Writer // human-readable progress; nil discards
}

// Report summarizes a batch run.
type Report struct {
	RunID       string
	Exported    []string
	Failed      []string
	NotFound    []string
	Skipped     []string
	Invalid     []string
	Rows        []export.Row
	RowsWritten int
	Entries     []export.ReportEntry
	Duration    time.Duration
}

// Batch processes documents one after another into a single sink.
type Batch struct {
	processor *Processor
	ledger    repository.LedgerRepository
	sink      Sink
	opts      BatchOptions
	logger    *slog.Logger
}

func NewBatch(processor *Processor, ledger repository.LedgerRepository, sink Sink, opts BatchOptions, logger *slog.Logger) *Batch {
	if logger == nil {
		logger = slog.Default()
	}
	if ledger == nil {
		ledger = repository.NopLedger{}
	}
	if opts.Progress == nil {
		opts.Progress = io.Discard
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}
	return &Batch{processor: processor, ledger: ledger, sink: sink, opts: opts, logger: logger}
}

// Run processes names in order. A document that is missing or cannot be
// parsed is reported and skipped; rows already written stay written. Errors
// that are not document errors stop the batch, e.g. a failed output write or
// a closed category answer stream.
func (b *Batch) Run(ctx context.Context, names []string) (*Report, error) {
	start := time.Now()
	ctx = common.WithRunID(ctx, b.opts.RunID)
	report := &Report{RunID: b.opts.RunID}
	defer func() { report.Duration = time.Since(start) }()

	sel := ingest.SplitByExtension(names)
	report.Invalid = sel.Invalid
	for _, n := range sel.Invalid {
		report.Entries = append(report.Entries, export.ReportEntry{Path: n, Status: StatusInvalid, Note: "not a .pdf file"})
	}

	if len(sel.Valid) > 0 {
		fmt.Fprintln(b.opts.Progress, "Files to process:")
		for _, n := range sel.Valid {
			fmt.Fprintf(b.opts.Progress, "  %s\n", n)
		}
	}

	for _, name := range sel.Valid {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if err := b.processOne(common.WithDocument(ctx, name), name, report); err != nil {
			return report, err
		}
	}

	if len(report.Invalid) > 0 {
		fmt.Fprintln(b.opts.Progress, "Invalid filenames:")
		for _, n := range report.Invalid {
			fmt.Fprintf(b.opts.Progress, "  %s\n", n)
		}
	}

	b.logger.Info("batch finished",
		"run_id", report.RunID,
		"exported", len(report.Exported),
		"failed", len(report.Failed),
		"not_found", len(report.NotFound),
		"skipped", len(report.Skipped),
		"invalid", len(report.Invalid),
		"rows", report.RowsWritten,
	)
	return report, nil
}

// processOne returns an error only when the whole batch must stop.
func (b *Batch) processOne(ctx context.Context, name string, report *Report) error {
	fmt.Fprintf(b.opts.Progress, "\nProcessing %s\n", name)

	file, err := ingest.Inspect(name)
	if err != nil {
		if errors.Is(err, common.ErrDocumentNotFound) {
			fmt.Fprintf(b.opts.Progress, "%s not found.\n", name)
			b.logger.Warn("document not found", "path", name)
			report.NotFound = append(report.NotFound, name)
			report.Entries = append(report.Entries, export.ReportEntry{Path: name, Status: StatusNotFound})
			return nil
		}
		b.fail(report, name, "", err)
		if !common.IsDocumentError(err) {
			return common.NewAppError(common.CodeInput, "inspect "+name, err)
		}
		return nil
	}

	rec := &entity.DocumentRecord{RunID: b.opts.RunID, SourcePath: file.SourcePath, ContentHash: file.ContentHash}

	prev, seen, err := b.ledger.FindExportedByHash(ctx, file.ContentHash)
	if err != nil {
		b.logger.Warn("ledger lookup failed", "path", name, "error", err)
	}
	if seen {
		fmt.Fprintf(b.opts.Progress, "%s was previously processed (run %s, %d rows).\n", name, prev.RunID, prev.RowsWritten)
		b.logger.Info("previously processed", "path", name, "content_hash", file.ContentHash, "previous_run", prev.RunID)
		if b.opts.SkipProcessed {
			b.ledgerStart(ctx, rec)
			b.ledgerFinish(ctx, rec.ID, constants.DocumentStatusSkipped, 0, nil)
			report.Skipped = append(report.Skipped, name)
			report.Entries = append(report.Entries, export.ReportEntry{
				Path: name, Status: string(constants.DocumentStatusSkipped), ContentHash: file.ContentHash,
				Note: "previously processed in run " + prev.RunID,
			})
			return nil
		}
	}

	b.ledgerStart(ctx, rec)
	outcome, err := b.processor.ProcessFile(ctx, rec.ID, file.SourcePath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		msg := err.Error()
		b.ledgerFinish(ctx, rec.ID, constants.DocumentStatusFailed, 0, &msg)
		b.fail(report, name, file.ContentHash, err)
		if !common.IsDocumentError(err) {
			return common.NewAppError(common.CodeInput, "process "+name, err)
		}
		return nil
	}

	n, err := b.sink.WriteAsset(outcome.Asset)
	if err != nil {
		msg := err.Error()
		b.ledgerFinish(ctx, rec.ID, constants.DocumentStatusFailed, 0, &msg)
		return common.NewAppError(common.CodeOutput, "write rows for "+name, err)
	}

	if err := b.ledger.RecordAssets(ctx, rec.ID, outcome.Asset); err != nil {
		b.logger.Warn("ledger asset record failed", "path", name, "error", err)
	}
	b.ledgerFinish(ctx, rec.ID, constants.DocumentStatusExported, n, nil)

	report.Exported = append(report.Exported, name)
	report.Rows = append(report.Rows, export.Rows(outcome.Asset)...)
	report.RowsWritten += n
	entry := export.ReportEntry{
		Path: name, Status: string(constants.DocumentStatusExported), Rows: n, ContentHash: file.ContentHash,
	}
	if len(outcome.Warnings) > 0 {
		entry.Note = fmt.Sprintf("%d warning(s): %s", len(outcome.Warnings), outcome.Warnings[0])
	}
	report.Entries = append(report.Entries, entry)

	b.logger.Info("document processed",
		"path", name,
		"model_number", outcome.Asset.ModelNumber,
		"category", outcome.Asset.Category,
		"rows", n,
		"method", outcome.Method,
	)
	return nil
}

func (b *Batch) fail(report *Report, name, hash string, err error) {
	fmt.Fprintf(b.opts.Progress, "Could not process %s: %v\n", name, err)
	b.logger.Error("failed to process document", "path", name, "error", err)
	report.Failed = append(report.Failed, name)
	report.Entries = append(report.Entries, export.ReportEntry{
		Path: name, Status: string(constants.DocumentStatusFailed), ContentHash: hash, Note: err.Error(),
	})
}

func (b *Batch) ledgerStart(ctx context.Context, rec *entity.DocumentRecord) {
	if err := b.ledger.StartDocument(ctx, rec); err != nil {
		b.logger.Warn("ledger start failed", "path", rec.SourcePath, "error", err)
	}
}

func (b *Batch) ledgerFinish(ctx context.Context, id uuid.UUID, status constants.DocumentStatus, rows int, errMsg *string) {
	if err := b.ledger.FinishDocument(ctx, id, status, rows, b.opts.OutputPath, errMsg); err != nil {
		b.logger.Warn("ledger finish failed", "document_id", id, "status", status, "error", err)
	}
}
