package constants

import (
	"strings"
)

type Category string

const (
	Laptop      Category = "Laptop"
	Desktop     Category = "Desktop"
	AccessPoint Category = "Access Point"
	Smartphone  Category = "Smartphone"
	Router      Category = "Router"
	Switch      Category = "Switch"
)

// defaultCategories is ordered: when an item name mentions several of them,
// the one listed last is used.
var defaultCategories = []Category{
	Laptop,
	Desktop,
	AccessPoint,
	Smartphone,
	Router,
	Switch,
}

// DefaultCategories returns a copy of the built-in category list in match order.
func DefaultCategories() []string {
	result := make([]string, len(defaultCategories))
	for i, cat := range defaultCategories {
		result[i] = string(cat)
	}
	return result
}

// Canonicalize returns the known category equal to input (case-insensitive).
func Canonicalize(input string, known []string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		return "", false
	}
	for _, cat := range known {
		if normalized == strings.ToLower(cat) {
			return cat, true
		}
	}
	return "", false
}
