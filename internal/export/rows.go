package export

import (
	"strings"

	"github.com/joseph-ayodele/invoice-to-csv/constants"
	"github.com/joseph-ayodele/invoice-to-csv/internal/entity"
)

// Row is one output line: one physical unit of an asset.
type Row struct {
	ItemName     string `csv:"Item Name"`
	Category     string `csv:"Category"`
	Location     string `csv:"Location"`
	PurchaseDate string `csv:"Purchase Date"`
	PurchaseCost string `csv:"Purchase Cost"`
	ModelName    string `csv:"Model Name"`
	ModelNumber  string `csv:"Model Number"`
	SerialNumber string `csv:"Serial Number"`
	OrderNumber  string `csv:"Order Number"`
	Requestable  string `csv:"Requestable"`
	LastAudit    string `csv:"Last Audit"`
}

// Fields returns the row values in header order.
func (r Row) Fields() []string {
	return []string{
		r.ItemName,
		r.Category,
		r.Location,
		r.PurchaseDate,
		r.PurchaseCost,
		r.ModelName,
		r.ModelNumber,
		r.SerialNumber,
		r.OrderNumber,
		r.Requestable,
		r.LastAudit,
	}
}

// Header is the output header line without a trailing newline.
func Header() string {
	return strings.Join(constants.CSVColumns, ",")
}

// Rows expands an asset into one Row per serial number.
func Rows(a entity.Asset) []Row {
	rows := make([]Row, 0, len(a.SerialNumbers))
	for _, serial := range a.SerialNumbers {
		rows = append(rows, Row{
			ItemName:     a.ItemName,
			Category:     a.Category,
			Location:     a.Location,
			PurchaseDate: a.PurchaseDate,
			PurchaseCost: a.UnitPrice,
			ModelName:    a.Model,
			ModelNumber:  a.ModelNumber,
			SerialNumber: serial,
			OrderNumber:  a.OrderNumber,
			Requestable:  a.Requestable,
			LastAudit:    a.LastAuditDate,
		})
	}
	return rows
}

// Render returns the comma-joined lines for an asset, one per serial number,
// without trailing newlines. Fields are not quoted; entity.NewAsset
// guarantees none contains a comma or line break.
func Render(a entity.Asset) []string {
	rows := Rows(a)
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = strings.Join(r.Fields(), ",")
	}
	return lines
}
