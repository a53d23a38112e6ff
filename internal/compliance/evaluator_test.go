package compliance

import (
	"testing"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/category"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func balancedSnapshot() domain.InventorySnapshot {
	return domain.InventorySnapshot{
		domain.CategoryVeg:     150,
		domain.CategoryFruit:   150,
		domain.CategoryDairy:   30,
		domain.CategoryGrain:   150,
		domain.CategoryProtein: 200,
		domain.CategoryProduce: 200,
		domain.CategoryMisc:    120,
	}
}

func TestEvaluate_BalancedSnapshotIsFullyCompliant(t *testing.T) {
	report := NewEvaluator(category.DefaultGoalTable(), 0).Evaluate(balancedSnapshot())

	assert.Equal(t, 1000.0, report.GrandTotal)

	veg := report.Categories[domain.CategoryVeg]
	assert.InDelta(t, 15, veg.CurrentPct, 1e-9)
	assert.Equal(t, 15.0, veg.GoalPct)
	assert.Equal(t, domain.StatusOkay, veg.Status)

	for _, c := range domain.PrimaryCategories {
		assert.Equal(t, domain.StatusOkay, report.Categories[c].Status, "category %s", c)
	}
	assert.Equal(t, 5, report.CompliantCore)
	assert.Equal(t, "5/5 categories compliant", report.Summary())
}

func TestEvaluate_TargetWeightAndShortfall(t *testing.T) {
	report := NewEvaluator(category.DefaultGoalTable(), 900000).Evaluate(balancedSnapshot())

	protein := report.Categories[domain.CategoryProtein]
	assert.InDelta(t, 180000, protein.TargetWeight, 1e-6)
	assert.InDelta(t, 179800, protein.Shortfall, 1e-6)

	// shortfall never goes negative
	over := NewEvaluator(category.DefaultGoalTable(), 1000).Evaluate(balancedSnapshot())
	assert.InDelta(t, 200, over.Categories[domain.CategoryProtein].TargetWeight, 1e-9)
	assert.Equal(t, 0.0, over.Categories[domain.CategoryProtein].Shortfall)
}

func TestEvaluate_DefaultCapacity(t *testing.T) {
	e := NewEvaluator(category.DefaultGoalTable(), -5)
	assert.Equal(t, domain.DefaultTargetCapacity, e.Capacity())

	report := e.Evaluate(balancedSnapshot())
	assert.InDelta(t, 135000, report.Categories[domain.CategoryVeg].TargetWeight, 1e-6)
}

func TestEvaluate_StatusesOffBalance(t *testing.T) {
	snap := balancedSnapshot()
	snap[domain.CategoryVeg] = 400   // 400/1200, about 33%
	snap[domain.CategoryFruit] = 100 // about 8%

	report := NewEvaluator(category.DefaultGoalTable(), 0).Evaluate(snap)

	assert.Equal(t, domain.StatusOver, report.Categories[domain.CategoryVeg].Status)
	assert.Equal(t, domain.StatusUnder, report.Categories[domain.CategoryFruit].Status)
	assert.Less(t, report.CompliantCore, 5)
}

func TestEvaluate_FoldsUngoaledCategoriesIntoMisc(t *testing.T) {
	snap := balancedSnapshot()
	snap[domain.CategoryMisc] = 70
	snap[domain.CategoryOther] = 50

	report := NewEvaluator(category.DefaultGoalTable(), 0).Evaluate(snap)

	_, hasOther := report.Categories[domain.CategoryOther]
	assert.False(t, hasOther)
	assert.Equal(t, 120.0, report.Categories[domain.CategoryMisc].CurrentWeight)
	assert.Equal(t, 1000.0, report.GrandTotal, "folded weight still counts toward the total")
}

func TestEvaluate_FoldsIntoMiscWithoutMiscGoal(t *testing.T) {
	goals, err := category.NewGoalTable(map[domain.Category]float64{
		domain.CategoryVeg:   50,
		domain.CategoryFruit: 50,
	}, 2)
	require.NoError(t, err)

	report := NewEvaluator(goals, 0).Evaluate(domain.InventorySnapshot{
		domain.CategoryVeg:   50,
		domain.CategoryFruit: 30,
		domain.CategoryDairy: 20,
	})

	misc, ok := report.Categories[domain.CategoryMisc]
	require.True(t, ok)
	assert.Equal(t, 20.0, misc.CurrentWeight)
	assert.Equal(t, 0.0, misc.GoalPct)
	assert.Equal(t, domain.StatusOver, misc.Status)
}

func TestEvaluate_EmptySnapshot(t *testing.T) {
	report := NewEvaluator(category.DefaultGoalTable(), 0).Evaluate(domain.NewInventorySnapshot())

	assert.Equal(t, 0.0, report.GrandTotal)
	for c, cc := range report.Categories {
		assert.Equal(t, 0.0, cc.CurrentPct, "category %s", c)
	}
	// DAIRY's band is 1–5%, so 0% is UNDER like every other core group
	assert.Equal(t, 0, report.CompliantCore)
	assert.Equal(t, "0/5 categories compliant", report.Summary())
}
