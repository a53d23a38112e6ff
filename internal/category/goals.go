package category

import (
	"fmt"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
)

// Goal is the static MyPlate target for a category.
type Goal struct {
	Percentage   float64 `json:"percentage"`
	PalletTarget int     `json:"pallet_target"`
}

// Pallet targets assume the default 900,000 lb capacity at 1,500 lb/pallet.
var goals = map[domain.Category]Goal{
	domain.CategoryVeg:     {Percentage: 15, PalletTarget: 90},
	domain.CategoryFruit:   {Percentage: 15, PalletTarget: 90},
	domain.CategoryDairy:   {Percentage: 3, PalletTarget: 18},
	domain.CategoryGrain:   {Percentage: 15, PalletTarget: 90},
	domain.CategoryProtein: {Percentage: 20, PalletTarget: 120},
	domain.CategoryProduce: {Percentage: 20, PalletTarget: 120},
	domain.CategoryMisc:    {Percentage: 12, PalletTarget: 72},
}

// GoalFor returns the static goal for c. OTHER and unknown categories get 0%.
func GoalFor(c domain.Category) Goal {
	return goals[c]
}

// DefaultGoalTable returns the MyPlate goals for the seven primary
// categories with the default tolerance band.
func DefaultGoalTable() domain.GoalTable {
	pcts := make(map[domain.Category]float64, len(goals))
	for c, g := range goals {
		pcts[c] = g.Percentage
	}

	return domain.GoalTable{
		Percentages: pcts,
		Tolerance:   domain.DefaultTolerance,
	}
}

// NewGoalTable validates and copies a goal table.
func NewGoalTable(pcts map[domain.Category]float64, tolerance float64) (domain.GoalTable, error) {
	copied := make(map[domain.Category]float64, len(pcts))
	for c, p := range pcts {
		copied[c] = p
	}

	table := domain.GoalTable{Percentages: copied, Tolerance: tolerance}
	if err := table.Validate(); err != nil {
		return domain.GoalTable{}, fmt.Errorf("goal table: %w", err)
	}

	return table, nil
}

// StatusOf classifies currentPct against goalPct. The band edges
// goalPct±tolerance are OKAY.
func StatusOf(currentPct, goalPct, tolerance float64) domain.ComplianceStatus {
	switch {
	case currentPct > goalPct+tolerance:
		return domain.StatusOver
	case currentPct < goalPct-tolerance:
		return domain.StatusUnder
	default:
		return domain.StatusOkay
	}
}

// WithinBand reports whether currentPct lies inside goalPct±tolerance.
func WithinBand(currentPct, goalPct, tolerance float64) bool {
	return StatusOf(currentPct, goalPct, tolerance) == domain.StatusOkay
}
