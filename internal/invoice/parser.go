package invoice

import (
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
)

// Layout holds the literal landmarks of the vendor's invoice page.
type Layout struct {
	StartAnchor string
	EndAnchor   string
	DateLabel   string
	OrderLabel  string
	Schema      ItemSchema
}

// DefaultLayout returns the landmarks of the current vendor template.
func DefaultLayout() Layout {
	return Layout{
		StartAnchor: "Billable  Products & Other Charges",
		EndAnchor:   "Total",
		DateLabel:   "BCB Homes",
		OrderLabel:  "Service Request Number",
		Schema:      DefaultSchema,
	}
}

// LayoutFromConfig builds a Layout from the invoice configuration section.
func LayoutFromConfig(cfg common.InvoiceConfig) (Layout, error) {
	layout := Layout{
		StartAnchor: cfg.StartAnchor,
		EndAnchor:   cfg.EndAnchor,
		DateLabel:   cfg.DateLabel,
		OrderLabel:  cfg.OrderLabel,
		Schema:      DefaultSchema,
	}
	if cfg.ItemColumns != "" {
		schema, err := ParseSchema(cfg.ItemColumns)
		if err != nil {
			return Layout{}, err
		}
		layout.Schema = schema
	}
	return layout, nil
}

// Document is everything read from one invoice page.
type Document struct {
	Item         Item
	PurchaseDate string // YYYY-MM-DD
	OrderNumber  string
}

// Parser extracts a Document from layout-preserving page text.
type Parser struct {
	layout Layout
	logger *slog.Logger
}

// NewParser creates a parser for the given layout.
func NewParser(layout Layout, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{layout: layout, logger: logger}
}

// Parse reads the item block, purchase date and order number from pageText.
func (p *Parser) Parse(pageText string) (Document, error) {
	block, err := Between(pageText, p.layout.StartAnchor, p.layout.EndAnchor)
	if err != nil {
		return Document{}, fmt.Errorf("locate item block: %w", err)
	}
	item, err := ExtractItem(block, p.layout.Schema)
	if err != nil {
		return Document{}, fmt.Errorf("extract item: %w", err)
	}

	rawDate, err := ValueAfter(pageText, p.layout.DateLabel)
	if err != nil {
		return Document{}, fmt.Errorf("purchase date: %w", err)
	}
	date, err := NormalizeDate(rawDate)
	if err != nil {
		return Document{}, fmt.Errorf("purchase date: %w", err)
	}

	order, err := ValueAfter(pageText, p.layout.OrderLabel)
	if err != nil {
		return Document{}, fmt.Errorf("order number: %w", err)
	}

	p.logger.Debug("invoice parsed",
		"model_number", item.ModelNumber,
		"serials", len(item.SerialNumbers),
		"purchase_date", date,
		"order_number", order)

	return Document{Item: item, PurchaseDate: date, OrderNumber: order}, nil
}
