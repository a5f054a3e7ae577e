package invoice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
)

// ItemSchema declares where the fixed columns sit in the token list of an item
// block. Tokens at any other index form the description.
type ItemSchema struct {
	Quantity   int
	UnitPrice  int
	TotalPrice int
}

// DefaultSchema matches the vendor layout "<qty>  <unit>  <total>  <model>, <name>".
var DefaultSchema = ItemSchema{Quantity: 0, UnitPrice: 1, TotalPrice: 2}

// ParseSchema reads "quantity,unit,total" column indexes, e.g. "0,1,2".
func ParseSchema(s string) (ItemSchema, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return ItemSchema{}, fmt.Errorf("%w: item columns %q: want quantity,unit,total", common.ErrInvalidInput, s)
	}
	idx := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return ItemSchema{}, fmt.Errorf("%w: item columns %q: %v", common.ErrInvalidInput, s, err)
		}
		idx[i] = n
	}
	schema := ItemSchema{Quantity: idx[0], UnitPrice: idx[1], TotalPrice: idx[2]}
	if err := schema.Validate(); err != nil {
		return ItemSchema{}, err
	}
	return schema, nil
}

// Validate checks that the column indexes are distinct and non-negative.
func (s ItemSchema) Validate() error {
	cols := []int{s.Quantity, s.UnitPrice, s.TotalPrice}
	seen := map[int]struct{}{}
	for _, c := range cols {
		if c < 0 {
			return fmt.Errorf("%w: negative item column %d", common.ErrInvalidInput, c)
		}
		if _, dup := seen[c]; dup {
			return fmt.Errorf("%w: duplicate item column %d", common.ErrInvalidInput, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// MinTokens is the smallest token count the schema can read: every fixed
// column must be present and at least one description token must remain.
func (s ItemSchema) MinTokens() int {
	return max(s.Quantity+1, s.UnitPrice+1, s.TotalPrice+1, 4)
}

type columns struct {
	quantity   string
	unitPrice  string
	totalPrice string
}

// split reads the fixed columns and returns the remaining tokens in order.
func (s ItemSchema) split(tokens []string) (columns, []string, error) {
	if len(tokens) < s.MinTokens() {
		return columns{}, nil, fmt.Errorf("%w: found %d column tokens, need at least %d: %q",
			common.ErrMalformedItemBlock, len(tokens), s.MinTokens(), tokens)
	}
	cols := columns{
		quantity:   tokens[s.Quantity],
		unitPrice:  tokens[s.UnitPrice],
		totalPrice: tokens[s.TotalPrice],
	}
	description := make([]string, 0, len(tokens)-3)
	for i, tok := range tokens {
		if i == s.Quantity || i == s.UnitPrice || i == s.TotalPrice {
			continue
		}
		description = append(description, tok)
	}
	return cols, description, nil
}
