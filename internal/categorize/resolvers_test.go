package categorize

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptResolver(t *testing.T) {
	var out bytes.Buffer
	r := NewPromptResolver(strings.NewReader("monitor\nsecond\n"), &out, []string{"Laptop", "Router"})
	item := Item{ModelNumber: "MN-3", Model: "P2422H", Name: "Dell 24 Monitor"}

	got, err := r.Resolve(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, "monitor", got)
	assert.Contains(t, out.String(), "Model number: MN-3")
	assert.Contains(t, out.String(), "Item name: Dell 24 Monitor")
	assert.Contains(t, out.String(), "Enter a category: ")

	got, err = r.Resolve(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestPromptResolver_EOF(t *testing.T) {
	r := NewPromptResolver(strings.NewReader("last line without newline"), io.Discard, nil)
	got, err := r.Resolve(context.Background(), Item{})
	require.NoError(t, err)
	assert.Equal(t, "last line without newline", got)

	_, err = r.Resolve(context.Background(), Item{})
	assert.ErrorIs(t, err, io.EOF)
}

func TestSuggest(t *testing.T) {
	known := []string{"Laptop", "Desktop", "Router", "Switch"}

	got := Suggest(Item{Name: "rtr"}, known)
	require.Len(t, got, 4)
	assert.Equal(t, "Router", got[0])

	assert.Equal(t, known, Suggest(Item{Name: "zz"}, known))
}

func TestMapResolver(t *testing.T) {
	ctx := context.Background()
	r := MapResolver{
		Overrides: map[string]string{"MN-100": "Monitor"},
		Fallback:  FixedResolver{Category: "Accessory"},
	}

	got, err := r.Resolve(ctx, Item{ModelNumber: "MN-100"})
	require.NoError(t, err)
	assert.Equal(t, "Monitor", got)

	got, err = r.Resolve(ctx, Item{ModelNumber: "MN-200"})
	require.NoError(t, err)
	assert.Equal(t, "Accessory", got)

	got, err = MapResolver{}.Resolve(ctx, Item{ModelNumber: "MN-200"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
