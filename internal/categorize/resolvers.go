package categorize

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// PromptResolver asks a person for the category on an interactive terminal.
type PromptResolver struct {
	in    *bufio.Reader
	out   io.Writer
	known []string
}

// NewPromptResolver reads answers from in and writes prompts to out. known
// categories are offered as suggestions.
func NewPromptResolver(in io.Reader, out io.Writer, known []string) *PromptResolver {
	br, ok := in.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(in)
	}
	return &PromptResolver{in: br, out: out, known: slices.Clone(known)}
}

// Resolve prints the item and reads one line. It blocks until a line or EOF.
func (r *PromptResolver) Resolve(ctx context.Context, item Item) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(r.out, "No category found for this item.\n")
	fmt.Fprintf(r.out, "  Model number: %s\n  Model: %s\n  Item name: %s\n", item.ModelNumber, item.Model, item.Name)
	if s := Suggest(item, r.known); len(s) > 0 {
		fmt.Fprintf(r.out, "  Known categories: %s\n", strings.Join(s, ", "))
	}
	fmt.Fprint(r.out, "Enter a category: ")

	line, err := r.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read category answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Suggest orders known categories by how closely they fuzzy-match a word of
// the item's model or name. Unranked categories follow in list order.
func Suggest(item Item, known []string) []string {
	best := map[string]int{}
	words := strings.Fields(item.Model + " " + item.Name)
	for _, w := range words {
		if len([]rune(w)) < 3 {
			continue
		}
		for _, rank := range fuzzy.RankFindFold(w, known) {
			if d, seen := best[rank.Target]; !seen || rank.Distance < d {
				best[rank.Target] = rank.Distance
			}
		}
	}

	out := make([]string, 0, len(known))
	for _, k := range known {
		if _, ok := best[k]; ok {
			out = append(out, k)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return best[out[i]] < best[out[j]] })
	for _, k := range known {
		if _, ok := best[k]; !ok {
			out = append(out, k)
		}
	}
	return out
}

// MapResolver answers from fixed per-model-number overrides and defers
// everything else to Fallback.
type MapResolver struct {
	Overrides map[string]string
	Fallback  Resolver
}

func (r MapResolver) Resolve(ctx context.Context, item Item) (string, error) {
	if cat, ok := r.Overrides[item.ModelNumber]; ok {
		return cat, nil
	}
	if r.Fallback == nil {
		return "", nil
	}
	return r.Fallback.Resolve(ctx, item)
}

// FixedResolver answers every item with the same category.
type FixedResolver struct {
	Category string
}

func (r FixedResolver) Resolve(context.Context, Item) (string, error) {
	return r.Category, nil
}
