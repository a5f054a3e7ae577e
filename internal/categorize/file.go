package categorize

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/joseph-ayodele/invoice-to-csv/internal/common"
)

// File is the optional category configuration file:
//
//	{"categories": ["Laptop", "Monitor"], "overrides": {"MN-100": "Monitor"}}
type File struct {
	Categories []string          `json:"categories"`
	Overrides  map[string]string `json:"overrides"`
}

// LoadFile reads and validates a category file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, common.NewAppError(common.CodeConfig, "read category file "+path, err)
	}
	return ParseFile(data)
}

// ParseFile validates data against FileJSONSchema and decodes it.
func ParseFile(data []byte) (*File, error) {
	if err := validateJSON(FileJSONSchema(), data); err != nil {
		return nil, common.NewAppError(common.CodeConfig, "invalid category file", fmt.Errorf("%w: %v", common.ErrInvalidInput, err))
	}
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, common.NewAppError(common.CodeConfig, "decode category file", err)
	}
	for i, c := range f.Categories {
		f.Categories[i] = strings.TrimSpace(c)
	}
	return &f, nil
}
