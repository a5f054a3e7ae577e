package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-to-csv/constants"
	"github.com/joseph-ayodele/invoice-to-csv/internal/pagetext"
	"github.com/joseph-ayodele/invoice-to-csv/internal/repository"
)

// TextExtractor returns the layout-preserving text of a document page.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (pagetext.Result, error)
}

type TextStage struct {
	Extractor TextExtractor
	Ledger    repository.LedgerRepository
	Logger    *slog.Logger
}

func NewTextStage(tx TextExtractor, ledger repository.LedgerRepository, logger *slog.Logger) *TextStage {
	if logger == nil {
		logger = slog.Default()
	}
	if ledger == nil {
		ledger = repository.NopLedger{}
	}
	return &TextStage{Extractor: tx, Ledger: ledger, Logger: logger}
}

// Run extracts the page text and marks the ledger entry TEXT_OK.
func (s *TextStage) Run(ctx context.Context, documentID uuid.UUID, path string) (pagetext.Result, error) {
	logger := docLogger(ctx, s.Logger)
	res, err := s.Extractor.Extract(ctx, path)
	if err != nil {
		return res, err
	}
	for _, w := range res.Warnings {
		logger.Warn("page text warning", "warning", w)
	}
	if err := s.Ledger.UpdateStatus(ctx, documentID, constants.DocumentStatusTextOK, res.Method); err != nil {
		logger.Warn("ledger update failed", "document_id", documentID, "error", err)
	}
	return res, nil
}
