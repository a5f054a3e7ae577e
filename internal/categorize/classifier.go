package categorize

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/cloudflare/ahocorasick"

	"github.com/joseph-ayodele/invoice-to-csv/constants"
	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
)

// Item is what a Resolver is shown when no known category matches.
type Item struct {
	ModelNumber string
	Model       string
	Name        string
}

// Resolver decides the category of an item the classifier could not match.
type Resolver interface {
	Resolve(ctx context.Context, item Item) (string, error)
}

// DefaultMaxAttempts is how often an empty answer is asked again.
const DefaultMaxAttempts = 3

// Classifier assigns a category to an item from an ordered list of known
// categories, falling back to a Resolver.
type Classifier struct {
	categories  []string
	matcher     *ahocorasick.Matcher
	patternIdx  []int // matcher pattern index -> categories index
	mu          sync.Mutex
	resolver    Resolver
	maxAttempts int
	logger      *slog.Logger
}

// NewClassifier builds the matcher once over categories. The list order
// matters: when an item name mentions several categories the one listed last
// wins. An empty list falls back to constants.DefaultCategories.
func NewClassifier(categories []string, resolver Resolver, maxAttempts int, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	if len(categories) == 0 {
		categories = constants.DefaultCategories()
	}
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}

	c := &Classifier{
		categories:  slices.Clone(categories),
		resolver:    resolver,
		maxAttempts: maxAttempts,
		logger:      logger,
	}

	patterns := make([][]byte, 0, len(c.categories))
	for i, cat := range c.categories {
		p := strings.ToLower(strings.TrimSpace(cat))
		if p == "" {
			continue
		}
		patterns = append(patterns, []byte(p))
		c.patternIdx = append(c.patternIdx, i)
	}
	if len(patterns) > 0 {
		c.matcher = ahocorasick.NewMatcher(patterns)
	}
	return c
}

// Categories returns a copy of the known categories in match order.
func (c *Classifier) Categories() []string {
	return slices.Clone(c.categories)
}

// Match returns the known category found in name, if any.
func (c *Classifier) Match(name string) (string, bool) {
	if c.matcher == nil {
		return "", false
	}
	c.mu.Lock()
	hits := c.matcher.Match([]byte(strings.ToLower(name)))
	c.mu.Unlock()

	best := -1
	for _, h := range hits {
		if idx := c.patternIdx[h]; idx > best {
			best = idx
		}
	}
	if best < 0 {
		return "", false
	}
	return c.categories[best], true
}

// Classify returns the category for item. Unmatched items are handed to the
// resolver; its answer is trimmed and capitalized, or mapped onto the known
// spelling when it names a known category.
func (c *Classifier) Classify(ctx context.Context, item Item) (string, error) {
	if cat, ok := c.Match(item.Name); ok {
		c.logger.Debug("category matched", "model_number", item.ModelNumber, "category", cat)
		return cat, nil
	}
	if c.resolver == nil {
		return "", fmt.Errorf("%w: no match for %q and no resolver", common.ErrEmptyCategory, item.Name)
	}

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		answer, err := c.resolver.Resolve(ctx, item)
		if err != nil {
			return "", fmt.Errorf("resolve category: %w", err)
		}
		if cat := c.normalize(answer); cat != "" {
			c.logger.Debug("category resolved", "model_number", item.ModelNumber, "category", cat, "attempt", attempt)
			return cat, nil
		}
		c.logger.Warn("empty category answer", "model_number", item.ModelNumber, "attempt", attempt, "max_attempts", c.maxAttempts)
	}
	return "", fmt.Errorf("%w: model number %s", common.ErrEmptyCategory, item.ModelNumber)
}

func (c *Classifier) normalize(answer string) string {
	if known, ok := constants.Canonicalize(answer, c.categories); ok {
		return known
	}
	return Capitalize(strings.TrimSpace(answer))
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
