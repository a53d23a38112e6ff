package category

import (
	"math/rand"
	"testing"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_KnownLabels(t *testing.T) {
	cases := map[string]domain.Category{
		"DAIRY":         domain.CategoryDairy,
		"MILK":          domain.CategoryDairy,
		"CANNED VEG":    domain.CategoryVeg,
		"FRT":           domain.CategoryFruit,
		"BREAD":         domain.CategoryGrain,
		"PB":            domain.CategoryProtein,
		"FRESH PRODUCE": domain.CategoryProduce,
		"MIXED":         domain.CategoryMisc,
		"NON-FOOD":      domain.CategoryOther,
	}

	for label, want := range cases {
		assert.Equal(t, want, Resolve(label), "label %q", label)
	}
}

func TestResolve_UnknownFallsBackToMisc(t *testing.T) {
	assert.Equal(t, domain.CategoryMisc, Resolve("NOT_A_REAL_CODE"))
	assert.Equal(t, domain.CategoryMisc, Resolve(""))
	assert.False(t, Known("NOT_A_REAL_CODE"))
}

func TestResolve_IsCaseSensitive(t *testing.T) {
	assert.Equal(t, domain.CategoryDairy, Resolve("MILK"))
	assert.Equal(t, domain.CategoryMisc, Resolve("milk"))
}

func TestGoalFor(t *testing.T) {
	assert.Equal(t, Goal{Percentage: 15, PalletTarget: 90}, GoalFor(domain.CategoryVeg))
	assert.Equal(t, 3.0, GoalFor(domain.CategoryDairy).Percentage)
	assert.Equal(t, Goal{}, GoalFor(domain.CategoryOther))
}

func TestDefaultGoalTable_SumsTo100(t *testing.T) {
	table := DefaultGoalTable()
	require.NoError(t, table.Validate())

	var sum float64
	for _, pct := range table.Percentages {
		sum += pct
	}
	assert.InDelta(t, 100, sum, 1e-9)
	assert.False(t, table.Has(domain.CategoryOther))
	assert.Equal(t, domain.DefaultTolerance, table.Tolerance)
}

func TestNewGoalTable_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name      string
		pcts      map[domain.Category]float64
		tolerance float64
	}{
		{"negative goal", map[domain.Category]float64{domain.CategoryVeg: -1}, 2},
		{"sum above 100", map[domain.Category]float64{domain.CategoryVeg: 60, domain.CategoryFruit: 50}, 2},
		{"negative tolerance", map[domain.Category]float64{domain.CategoryVeg: 10}, -0.5},
		{"unknown category", map[domain.Category]float64{"SNACKS": 10}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGoalTable(tt.pcts, tt.tolerance)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}

func TestNewGoalTable_CopiesInput(t *testing.T) {
	pcts := map[domain.Category]float64{domain.CategoryVeg: 20}
	table, err := NewGoalTable(pcts, 1)
	require.NoError(t, err)

	pcts[domain.CategoryVeg] = 90
	assert.Equal(t, 20.0, table.Goal(domain.CategoryVeg))
}

func TestStatusOf(t *testing.T) {
	assert.Equal(t, domain.StatusOkay, StatusOf(15, 15, 2))
	assert.Equal(t, domain.StatusOkay, StatusOf(17, 15, 2), "upper edge is inclusive")
	assert.Equal(t, domain.StatusOkay, StatusOf(13, 15, 2), "lower edge is inclusive")
	assert.Equal(t, domain.StatusOver, StatusOf(17.01, 15, 2))
	assert.Equal(t, domain.StatusUnder, StatusOf(12.99, 15, 2))
	assert.Equal(t, domain.StatusOkay, StatusOf(0, 0, 0))
}

// TestStatusOf_Partition checks that exactly one status applies for
// arbitrary inputs and that it agrees with the band definition.
func TestStatusOf_Partition(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 500; trial++ {
		current := rng.Float64() * 100
		goal := rng.Float64() * 40
		tol := rng.Float64() * 5

		status := StatusOf(current, goal, tol)

		over := current > goal+tol
		under := current < goal-tol
		okay := !over && !under

		matches := 0
		for _, hit := range []bool{over, under, okay} {
			if hit {
				matches++
			}
		}
		assert.Equal(t, 1, matches, "trial %d", trial)

		switch status {
		case domain.StatusOver:
			assert.True(t, over, "trial %d", trial)
		case domain.StatusUnder:
			assert.True(t, under, "trial %d", trial)
		case domain.StatusOkay:
			assert.True(t, okay, "trial %d", trial)
		default:
			t.Fatalf("trial %d: unexpected status %q", trial, status)
		}

		assert.Equal(t, domain.StatusOkay, StatusOf(goal+tol, goal, tol), "trial %d upper edge", trial)
		assert.Equal(t, domain.StatusOkay, StatusOf(goal-tol, goal, tol), "trial %d lower edge", trial)
	}
}
