package domain

import (
	"fmt"
	"math"
)

// ComplianceStatus classifies a category's share against its goal.
type ComplianceStatus string

const (
	StatusOver  ComplianceStatus = "OVER"
	StatusUnder ComplianceStatus = "UNDER"
	StatusOkay  ComplianceStatus = "OKAY"
)

// GoalTable holds target percentages of total inventory per category.
type GoalTable struct {
	Percentages map[Category]float64 `json:"percentages"`
	Tolerance   float64              `json:"tolerance"`
}

// Goal returns the target percentage for c, zero when unset.
func (g GoalTable) Goal(c Category) float64 {
	return g.Percentages[c]
}

// Has reports whether c carries a goal.
func (g GoalTable) Has(c Category) bool {
	_, ok := g.Percentages[c]
	return ok
}

// Validate rejects negative or non-finite percentages, totals above 100
// and a negative tolerance.
func (g GoalTable) Validate() error {
	if math.IsNaN(g.Tolerance) || math.IsInf(g.Tolerance, 0) || g.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must be a non-negative number, got %v", ErrInvalidConfig, g.Tolerance)
	}

	var sum float64
	for c, pct := range g.Percentages {
		if !c.Valid() {
			return fmt.Errorf("%w: unknown category %q", ErrInvalidConfig, c)
		}
		if math.IsNaN(pct) || math.IsInf(pct, 0) || pct < 0 {
			return fmt.Errorf("%w: goal for %s must be a non-negative number, got %v", ErrInvalidConfig, c, pct)
		}
		sum += pct
	}

	if sum > 100+1e-9 {
		return fmt.Errorf("%w: goal percentages sum to %.2f, above 100", ErrInvalidConfig, sum)
	}

	return nil
}

// CategoryCompliance is the evaluated state of one category.
type CategoryCompliance struct {
	CurrentWeight float64          `json:"current_weight"`
	CurrentPct    float64          `json:"current_pct"`
	GoalPct       float64          `json:"goal_pct"`
	Status        ComplianceStatus `json:"status"`
	TargetWeight  float64          `json:"target_weight"`
	Shortfall     float64          `json:"shortfall"`
}

// ComplianceReport is the result of evaluating a snapshot against goals.
type ComplianceReport struct {
	Categories    map[Category]CategoryCompliance `json:"categories"`
	GrandTotal    float64                         `json:"grand_total"`
	CompliantCore int                             `json:"compliant_core"`
}

// Summary renders the balance score, e.g. "4/5 categories compliant".
func (r ComplianceReport) Summary() string {
	return fmt.Sprintf("%d/%d categories compliant", r.CompliantCore, len(CoreCategories))
}
