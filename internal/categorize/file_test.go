package categorize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
)

func TestParseFile(t *testing.T) {
	f, err := ParseFile([]byte(`{"categories": ["Laptop", " Monitor "], "overrides": {"MN-100": "Monitor"}}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"Laptop", "Monitor"}, f.Categories)
	assert.Equal(t, "Monitor", f.Overrides["MN-100"])
}

func TestParseFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{categories`},
		{"unknown key", `{"cats": []}`},
		{"comma in category", `{"categories": ["Laptop, Desktop"]}`},
		{"blank category", `{"categories": ["  "]}`},
		{"duplicate category", `{"categories": ["Laptop", "Laptop"]}`},
		{"non string override", `{"overrides": {"MN-1": 5}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile([]byte(tt.data))
			require.Error(t, err)
			var appErr *common.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, common.CodeConfig, appErr.Code)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"categories": ["Printer"]}`), 0o600))

	f, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Printer"}, f.Categories)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
