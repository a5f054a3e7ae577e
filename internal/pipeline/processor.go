package pipeline

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/invoice-to-csv/internal/entity"
)

// Processor coordinates page text extraction then parsing into an asset.
type Processor struct {
	logger *slog.Logger
	text   *TextStage
	parse  *ParseStage
}

func NewProcessor(logger *slog.Logger, text *TextStage, parse *ParseStage) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{logger: logger, text: text, parse: parse}
}

// Outcome is the result of processing one document.
type Outcome struct {
	Asset    entity.Asset
	Method   string
	Warnings []string
}

// ProcessFile turns the document at path into one asset.
func (p *Processor) ProcessFile(ctx context.Context, documentID uuid.UUID, path string) (Outcome, error) {
	logger := docLogger(ctx, p.logger)
	res, err := p.text.Run(ctx, documentID, path)
	if err != nil {
		logger.Debug("processor text stage failed", "error", err)
		return Outcome{}, err
	}
	logger.Debug("processor text stage success",
		"method", res.Method,
		"page", res.Page,
		"bytes", len(res.Text),
		"duration_ms", res.Duration.Milliseconds(),
	)

	asset, warnings, err := p.parse.Run(ctx, res.Text)
	if err != nil {
		logger.Debug("processor parse stage failed", "error", err)
		return Outcome{Method: res.Method, Warnings: warnings}, err
	}
	logger.Debug("processor parse stage success", "model_number", asset.ModelNumber, "units", asset.Units())

	return Outcome{
		Asset:    asset,
		Method:   res.Method,
		Warnings: append(res.Warnings, warnings...),
	}, nil
}
