package invoice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
)

// Item is one billable line item as printed on the invoice.
type Item struct {
	ModelNumber   string
	Quantity      int // 0 when the column is not an integer
	UnitPrice     string
	TotalPrice    string // normalized when numeric, raw otherwise
	Model         string
	Name          string
	SerialNumbers []string
}

const (
	modelNumberSep = ": "
	serialMarker   = "Serial"
)

var columnGap = regexp.MustCompile(` {2,}`)

// ExtractItem parses a trimmed item block of the form
//
//	MN-100: 2  $500.00  $1,000.00  ModelX, Widget Pro
//	        Serial Numbers: SN1, SN2
//
// using schema to locate the fixed columns.
func ExtractItem(block string, schema ItemSchema) (Item, error) {
	head, rest, ok := strings.Cut(block, modelNumberSep)
	if !ok {
		return Item{}, fmt.Errorf("%w: no %q after model number", common.ErrMalformedItemBlock, modelNumberSep)
	}
	modelNumber := strings.TrimSpace(head)
	if modelNumber == "" {
		return Item{}, fmt.Errorf("%w: empty model number", common.ErrMalformedItemBlock)
	}

	structured, _, ok := strings.Cut(rest, serialMarker)
	if !ok {
		return Item{}, fmt.Errorf("%w: no %q section", common.ErrMalformedItemBlock, serialMarker)
	}

	cols, description, err := schema.split(tokenize(structured))
	if err != nil {
		return Item{}, err
	}
	unitPrice, err := NormalizePrice(cols.unitPrice)
	if err != nil {
		return Item{}, fmt.Errorf("unit price: %w", err)
	}
	total, err := NormalizePrice(cols.totalPrice)
	if err != nil {
		total = cols.totalPrice
	}
	quantity, err := strconv.Atoi(cols.quantity)
	if err != nil {
		quantity = 0
	}

	serialStart := len(head) + len(modelNumberSep) + len(structured)
	serials, err := serialNumbers(block, serialStart)
	if err != nil {
		return Item{}, err
	}

	model, name := describe(description)
	return Item{
		ModelNumber:   modelNumber,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		TotalPrice:    total,
		Model:         model,
		Name:          name,
		SerialNumbers: serials,
	}, nil
}

// tokenize cuts a structured section into column tokens on runs of two or
// more spaces and on line breaks.
func tokenize(s string) []string {
	var tokens []string
	for _, segment := range columnGap.Split(s, -1) {
		for _, line := range strings.Split(segment, "\n") {
			if tok := strings.TrimSpace(line); tok != "" {
				tokens = append(tokens, tok)
			}
		}
	}
	return tokens
}

// describe reads the model from the first description token and joins the
// rest into the item name. Commas never survive into either value.
func describe(description []string) (model, name string) {
	first := description[0]
	parts := description[1:]
	model, remainder, found := strings.Cut(first, ", ")
	if found {
		parts = append([]string{remainder}, parts...)
	} else {
		parts = description
	}
	model = strings.TrimSpace(strings.ReplaceAll(model, ",", ""))
	name = strings.Join(strings.Fields(strings.ReplaceAll(strings.Join(parts, " "), ",", "")), " ")
	if name == "" {
		name = model
	}
	return model, name
}

// serialNumbers reads the comma separated list after the last ": " of the
// block. The separator must belong to the serial section that begins at from.
func serialNumbers(block string, from int) ([]string, error) {
	sep := strings.LastIndex(block, modelNumberSep)
	if sep < from {
		return nil, fmt.Errorf("%w: serial section has no %q", common.ErrMalformedItemBlock, modelNumberSep)
	}
	var serials []string
	for _, s := range strings.Split(block[sep+len(modelNumberSep):], ",") {
		if s = strings.TrimSpace(s); s != "" {
			serials = append(serials, s)
		}
	}
	if len(serials) == 0 {
		return nil, fmt.Errorf("%w: no serial numbers", common.ErrMalformedItemBlock)
	}
	return serials, nil
}
