package invoice

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
)

var priceCleaner = strings.NewReplacer("$", "", ",", "")

// NormalizePrice strips the currency symbol and thousands separators:
// "$1,250.00" -> "1250.00". Already-clean input is returned unchanged.
func NormalizePrice(raw string) (string, error) {
	s := strings.TrimSpace(priceCleaner.Replace(raw))
	d, err := decimal.NewFromString(s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", common.ErrInvalidPrice, raw)
	}
	if d.IsNegative() {
		return "", fmt.Errorf("%w: negative %q", common.ErrInvalidPrice, raw)
	}
	return s, nil
}

var dateLayouts = []string{"1/2/2006", "1-2-2006"}

// NormalizeDate converts MM/DD/YYYY or MM-DD-YYYY into YYYY-MM-DD.
func NormalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrInvalidDate, raw)
}
