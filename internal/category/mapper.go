// Package category maps raw donation labels onto canonical categories and
// holds the MyPlate goal table.
package category

import "github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"

// rawLabels covers the historic donation-tracking codes and the shorthand
// volunteers type into the intake form. Lookups are case-sensitive.
var rawLabels = map[string]domain.Category{
	// canonical names
	"VEG":     domain.CategoryVeg,
	"FRUIT":   domain.CategoryFruit,
	"DAIRY":   domain.CategoryDairy,
	"GRAIN":   domain.CategoryGrain,
	"PROTEIN": domain.CategoryProtein,
	"PRODUCE": domain.CategoryProduce,
	"MISC":    domain.CategoryMisc,
	"OTHER":   domain.CategoryOther,

	// vegetables
	"VEGETABLES":     domain.CategoryVeg,
	"VEGETABLE":      domain.CategoryVeg,
	"VEGGIES":        domain.CategoryVeg,
	"CANNED VEG":     domain.CategoryVeg,
	"CANNED VEGGIES": domain.CategoryVeg,
	"FROZEN VEG":     domain.CategoryVeg,
	"Vegetables":     domain.CategoryVeg,

	// fruit
	"FRT":          domain.CategoryFruit,
	"FRUITS":       domain.CategoryFruit,
	"CANNED FRUIT": domain.CategoryFruit,
	"DRIED FRUIT":  domain.CategoryFruit,
	"JUICE":        domain.CategoryFruit,
	"100% JUICE":   domain.CategoryFruit,
	"Fruit":        domain.CategoryFruit,

	// dairy
	"MILK":        domain.CategoryDairy,
	"CHEESE":      domain.CategoryDairy,
	"YOGURT":      domain.CategoryDairy,
	"SHELF MILK":  domain.CategoryDairy,
	"DAIRY/EGGS":  domain.CategoryDairy,
	"Dairy":       domain.CategoryDairy,
	"DRY DAIRY":   domain.CategoryDairy,
	"POWDER MILK": domain.CategoryDairy,

	// grains
	"GRAINS":  domain.CategoryGrain,
	"BREAD":   domain.CategoryGrain,
	"BAKERY":  domain.CategoryGrain,
	"PASTA":   domain.CategoryGrain,
	"RICE":    domain.CategoryGrain,
	"CEREAL":  domain.CategoryGrain,
	"OATS":    domain.CategoryGrain,
	"FLOUR":   domain.CategoryGrain,
	"Grains":  domain.CategoryGrain,
	"STARCH":  domain.CategoryGrain,
	"CRACKER": domain.CategoryGrain,

	// protein
	"MEAT":          domain.CategoryProtein,
	"FROZEN MEAT":   domain.CategoryProtein,
	"CANNED MEAT":   domain.CategoryProtein,
	"CANNED FISH":   domain.CategoryProtein,
	"TUNA":          domain.CategoryProtein,
	"CHICKEN":       domain.CategoryProtein,
	"EGGS":          domain.CategoryProtein,
	"BEANS":         domain.CategoryProtein,
	"DRY BEANS":     domain.CategoryProtein,
	"PEANUT BUTTER": domain.CategoryProtein,
	"PB":            domain.CategoryProtein,
	"NUTS":          domain.CategoryProtein,
	"Protein":       domain.CategoryProtein,

	// fresh produce
	"FRESH PRODUCE": domain.CategoryProduce,
	"FRESH":         domain.CategoryProduce,
	"PROD":          domain.CategoryProduce,
	"Produce":       domain.CategoryProduce,

	// mixed and prepared food
	"MIXED":         domain.CategoryMisc,
	"MIXED FOOD":    domain.CategoryMisc,
	"ASSORTED":      domain.CategoryMisc,
	"PREPARED":      domain.CategoryMisc,
	"SOUP":          domain.CategoryMisc,
	"SNACKS":        domain.CategoryMisc,
	"CONDIMENTS":    domain.CategoryMisc,
	"BEVERAGES":     domain.CategoryMisc,
	"BABY FOOD":     domain.CategoryMisc,
	"Miscellaneous": domain.CategoryMisc,

	// non-food
	"NON-FOOD":  domain.CategoryOther,
	"NONFOOD":   domain.CategoryOther,
	"HYGIENE":   domain.CategoryOther,
	"CLEANING":  domain.CategoryOther,
	"PET FOOD":  domain.CategoryOther,
	"PAPER":     domain.CategoryOther,
	"HOUSEHOLD": domain.CategoryOther,
}

// Resolve maps a raw food-type label to its category. Unknown labels
// resolve to MISC.
func Resolve(rawLabel string) domain.Category {
	if c, ok := rawLabels[rawLabel]; ok {
		return c
	}

	return domain.CategoryMisc
}

// Known reports whether rawLabel is in the lookup table.
func Known(rawLabel string) bool {
	_, ok := rawLabels[rawLabel]
	return ok
}
