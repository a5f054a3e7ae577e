package entity

import (
	"slices"

	"github.com/joseph-ayodele/invoice-to-csv/constants"
	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
)

// Asset is one invoice line item covering one physical unit per serial number.
type Asset struct {
	ModelNumber   string   `json:"model_number"`
	ItemName      string   `json:"item_name"`
	Model         string   `json:"model"`
	UnitPrice     string   `json:"unit_price"`
	SerialNumbers []string `json:"serial_numbers"`
	PurchaseDate  string   `json:"purchase_date"`
	OrderNumber   string   `json:"order_number"`
	Category      string   `json:"category"`
	Location      string   `json:"location"`
	Requestable   string   `json:"requestable"`
	LastAuditDate string   `json:"last_audit_date"`
}

// AssetParams carries the extracted fields needed to build an Asset.
type AssetParams struct {
	ModelNumber   string
	ItemName      string
	Model         string
	UnitPrice     string
	SerialNumbers []string
	PurchaseDate  string
	OrderNumber   string
	Category      string
	Location      string // empty means constants.DefaultLocation
}

// NewAsset validates params and returns an Asset that is safe to render as
// comma-joined rows. The serial list is copied.
func NewAsset(p AssetParams) (Asset, error) {
	location := p.Location
	if location == "" {
		location = constants.DefaultLocation
	}

	v := common.NewValidator()
	v.Field("model_number", p.ModelNumber, common.Required, common.NoDelimiter)
	v.Field("item_name", p.ItemName, common.NoDelimiter)
	v.Field("model", p.Model, common.NoDelimiter)
	v.Field("unit_price", p.UnitPrice, common.DecimalString)
	v.Field("serial_numbers", p.SerialNumbers, common.MinItems(1), common.Required, common.NoDelimiter)
	v.Field("purchase_date", p.PurchaseDate, common.DateYMD)
	v.Field("order_number", p.OrderNumber, common.NoDelimiter)
	v.Field("category", p.Category, common.Required, common.NoDelimiter)
	v.Field("location", location, common.NoDelimiter)
	if err := v.Error(); err != nil {
		return Asset{}, err
	}

	return Asset{
		ModelNumber:   p.ModelNumber,
		ItemName:      p.ItemName,
		Model:         p.Model,
		UnitPrice:     p.UnitPrice,
		SerialNumbers: slices.Clone(p.SerialNumbers),
		PurchaseDate:  p.PurchaseDate,
		OrderNumber:   p.OrderNumber,
		Category:      p.Category,
		Location:      location,
		Requestable:   constants.Requestable,
		LastAuditDate: p.PurchaseDate,
	}, nil
}

// Units is the number of physical units, one per serial number.
func (a Asset) Units() int {
	return len(a.SerialNumbers)
}
