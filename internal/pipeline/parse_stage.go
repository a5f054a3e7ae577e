package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoice-to-csv/internal/categorize"
	"github.com/joseph-ayodele/invoice-to-csv/internal/entity"
	"github.com/joseph-ayodele/invoice-to-csv/internal/invoice"
)

// Classifier assigns a category to an invoice item.
type Classifier interface {
	Classify(ctx context.Context, item categorize.Item) (string, error)
}

type ParseStage struct {
	Parser     *invoice.Parser
	Classifier Classifier
	Location   string
	Logger     *slog.Logger
}

func NewParseStage(parser *invoice.Parser, classifier Classifier, location string, logger *slog.Logger) *ParseStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParseStage{Parser: parser, Classifier: classifier, Location: location, Logger: logger}
}

// Run parses the page text, classifies the item and builds the asset.
func (s *ParseStage) Run(ctx context.Context, pageText string) (entity.Asset, []string, error) {
	logger := docLogger(ctx, s.Logger)
	doc, err := s.Parser.Parse(pageText)
	if err != nil {
		return entity.Asset{}, nil, err
	}

	warnings := CheckTotals(doc.Item)
	for _, w := range warnings {
		logger.Warn("invoice totals mismatch", "model_number", doc.Item.ModelNumber, "detail", w)
	}

	category, err := s.Classifier.Classify(ctx, categorize.Item{
		ModelNumber: doc.Item.ModelNumber,
		Model:       doc.Item.Model,
		Name:        doc.Item.Name,
	})
	if err != nil {
		return entity.Asset{}, warnings, fmt.Errorf("classify: %w", err)
	}

	asset, err := entity.NewAsset(entity.AssetParams{
		ModelNumber:   doc.Item.ModelNumber,
		ItemName:      doc.Item.Name,
		Model:         doc.Item.Model,
		UnitPrice:     doc.Item.UnitPrice,
		SerialNumbers: doc.Item.SerialNumbers,
		PurchaseDate:  doc.PurchaseDate,
		OrderNumber:   doc.OrderNumber,
		Category:      category,
		Location:      s.Location,
	})
	if err != nil {
		return entity.Asset{}, warnings, fmt.Errorf("build asset: %w", err)
	}
	return asset, warnings, nil
}

// CheckTotals compares the printed quantity and total with the serial count
// and quantity x unit price. Mismatches are reported, never fatal.
func CheckTotals(item invoice.Item) []string {
	var warnings []string
	if item.Quantity > 0 && item.Quantity != len(item.SerialNumbers) {
		warnings = append(warnings, fmt.Sprintf("quantity %d but %d serial numbers", item.Quantity, len(item.SerialNumbers)))
	}
	unit, err := decimal.NewFromString(item.UnitPrice)
	if err != nil || item.Quantity <= 0 {
		return warnings
	}
	total, err := decimal.NewFromString(item.TotalPrice)
	if err != nil {
		return warnings
	}
	if want := unit.Mul(decimal.NewFromInt(int64(item.Quantity))); !want.Equal(total) {
		warnings = append(warnings, fmt.Sprintf("%d x %s = %s but total is %s", item.Quantity, unit, want, total))
	}
	return warnings
}
