package catalog

import (
	"fmt"
	"strings"
)

// Category groups menu entries the way the counter menu is split.
type Category string

const (
	CategoryFood  Category = "food"
	CategoryDrink Category = "drink"
)

// ParseCategory accepts the API spelling as well as the Indonesian labels
// printed on the shop menu ("makanan", "minuman").
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "food", "makanan":
		return CategoryFood, nil
	case "drink", "minuman":
		return CategoryDrink, nil
	default:
		return "", fmt.Errorf("invalid category: %s (allowed: food, drink)", s)
	}
}

// Entry is a purchasable menu item. Entries are static configuration and are
// never mutated after the catalog is built.
type Entry struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	UnitPrice int64    `json:"unitPrice"`
	Category  Category `json:"category"`
}
