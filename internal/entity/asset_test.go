package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-to-csv/constants"
	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
)

func validParams() AssetParams {
	return AssetParams{
		ModelNumber:   "MN-100",
		ItemName:      "Widget Pro",
		Model:         "ModelX",
		UnitPrice:     "500.00",
		SerialNumbers: []string{"SN1", "SN2"},
		PurchaseDate:  "2024-03-14",
		OrderNumber:   "531363",
		Category:      "Laptop",
	}
}

func TestNewAsset(t *testing.T) {
	params := validParams()
	asset, err := NewAsset(params)
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultLocation, asset.Location)
	assert.Equal(t, constants.Requestable, asset.Requestable)
	assert.Equal(t, asset.PurchaseDate, asset.LastAuditDate)
	assert.Equal(t, 2, asset.Units())

	params.SerialNumbers[0] = "CHANGED"
	assert.Equal(t, "SN1", asset.SerialNumbers[0], "serials must be copied")
}

func TestNewAsset_Location(t *testing.T) {
	params := validParams()
	params.Location = "Tampa Office"
	asset, err := NewAsset(params)
	require.NoError(t, err)
	assert.Equal(t, "Tampa Office", asset.Location)
}

func TestNewAsset_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *AssetParams)
	}{
		{"no serials", func(p *AssetParams) { p.SerialNumbers = nil }},
		{"blank serial", func(p *AssetParams) { p.SerialNumbers = []string{"SN1", " "} }},
		{"comma in item name", func(p *AssetParams) { p.ItemName = "Widget, Pro" }},
		{"newline in order number", func(p *AssetParams) { p.OrderNumber = "53\n1363" }},
		{"currency in price", func(p *AssetParams) { p.UnitPrice = "$500.00" }},
		{"negative price", func(p *AssetParams) { p.UnitPrice = "-1" }},
		{"unnormalized date", func(p *AssetParams) { p.PurchaseDate = "03/14/2024" }},
		{"empty category", func(p *AssetParams) { p.Category = "" }},
		{"empty model number", func(p *AssetParams) { p.ModelNumber = " " }},
		{"comma in location", func(p *AssetParams) { p.Location = "Naples, FL" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			_, err := NewAsset(p)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}
