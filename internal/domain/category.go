package domain

import "strings"

// Category is a canonical nutritional grouping.
type Category string

const (
	CategoryVeg     Category = "VEG"
	CategoryFruit   Category = "FRUIT"
	CategoryDairy   Category = "DAIRY"
	CategoryGrain   Category = "GRAIN"
	CategoryProtein Category = "PROTEIN"
	CategoryProduce Category = "PRODUCE"
	CategoryMisc    Category = "MISC"
	CategoryOther   Category = "OTHER"
)

// PrimaryCategories are always present in an InventorySnapshot, in display order.
var PrimaryCategories = []Category{
	CategoryVeg,
	CategoryFruit,
	CategoryDairy,
	CategoryGrain,
	CategoryProtein,
	CategoryProduce,
	CategoryMisc,
}

// CoreCategories are the five MyPlate groups used for the balance score.
var CoreCategories = []Category{
	CategoryVeg,
	CategoryFruit,
	CategoryDairy,
	CategoryGrain,
	CategoryProtein,
}

var categoryLabels = map[Category]string{
	CategoryVeg:     "Vegetables",
	CategoryFruit:   "Fruit",
	CategoryDairy:   "Dairy",
	CategoryGrain:   "Grains",
	CategoryProtein: "Protein",
	CategoryProduce: "Fresh Produce",
	CategoryMisc:    "Miscellaneous",
	CategoryOther:   "Other",
}

// Valid reports whether c is one of the enumerated categories.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns a human-readable label for the category.
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}

	return string(c)
}

// IsCore reports whether c is one of the five core nutrition groups.
func (c Category) IsCore() bool {
	for _, core := range CoreCategories {
		if c == core {
			return true
		}
	}
	return false
}

// ParseCategory returns the category for a canonical name (case-insensitive).
// Raw donation labels go through category.Resolve instead.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", false
	}

	return c, true
}
