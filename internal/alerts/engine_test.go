package alerts

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/category"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
)

var now = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewEngine(category.DefaultGoalTable(), nil)
}

func byRule(alerts []domain.Alert, rule domain.RuleID) []domain.Alert {
	var out []domain.Alert
	for _, a := range alerts {
		if a.RuleID == rule {
			out = append(out, a)
		}
	}
	return out
}

func balanced(scale float64) domain.InventorySnapshot {
	return domain.InventorySnapshot{
		domain.CategoryVeg:     150 * scale,
		domain.CategoryFruit:   150 * scale,
		domain.CategoryDairy:   30 * scale,
		domain.CategoryGrain:   150 * scale,
		domain.CategoryProtein: 200 * scale,
		domain.CategoryProduce: 200 * scale,
		domain.CategoryMisc:    120 * scale,
	}
}

func TestCapacity_CriticalAt95Percent(t *testing.T) {
	alerts := newTestEngine().Evaluate(Input{
		Snapshot:       balanced(0.95),
		TargetCapacity: 1000,
		Now:            now,
	})

	capacity := byRule(alerts, domain.RuleCapacity)
	require.Len(t, capacity, 1)
	assert.Equal(t, domain.SeverityCritical, capacity[0].Severity)
	assert.Equal(t, domain.PriorityHigh, capacity[0].Priority)
	assert.Contains(t, capacity[0].Message, "95")
}

func TestCapacity_Thresholds(t *testing.T) {
	tests := []struct {
		name     string
		total    float64
		severity domain.Severity
		fires    bool
	}{
		{"under 75", 750, "", false},
		{"just over 75", 760, domain.SeverityWarning, true},
		{"exactly 90", 900, domain.SeverityWarning, true},
		{"over 90", 901, domain.SeverityCritical, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := newTestEngine().Evaluate(Input{
				Snapshot:       domain.InventorySnapshot{domain.CategoryGrain: tt.total},
				TargetCapacity: 1000,
				Now:            now,
			})
			capacity := byRule(alerts, domain.RuleCapacity)
			if !tt.fires {
				assert.Empty(t, capacity)
				return
			}
			require.Len(t, capacity, 1)
			assert.Equal(t, tt.severity, capacity[0].Severity)
		})
	}
}

func TestLowInventory(t *testing.T) {
	snap := balanced(1)
	snap[domain.CategoryDairy] = 30 // 3%
	snap[domain.CategoryVeg] = 80   // 8%
	snap[domain.CategoryFruit] = 220

	alerts := newTestEngine().Evaluate(Input{
		Snapshot: snap,
		Metrics:  domain.OutgoingMetrics{DistributedToday: 10},
		Now:      now,
	})

	low := byRule(alerts, domain.RuleLowInventory)
	require.Len(t, low, 2)

	got := map[domain.Category]domain.Severity{}
	for _, a := range low {
		got[a.Category] = a.Severity
	}
	assert.Equal(t, domain.SeverityCritical, got[domain.CategoryDairy])
	assert.Equal(t, domain.SeverityWarning, got[domain.CategoryVeg])
}

func TestEmptyInventory_NoCategoryAlerts(t *testing.T) {
	alerts := newTestEngine().Evaluate(Input{
		Snapshot: domain.NewInventorySnapshot(),
		Now:      now,
	})
	assert.Empty(t, alerts)
}

func TestNutritionalImbalance(t *testing.T) {
	t.Run("balanced stock", func(t *testing.T) {
		alerts := newTestEngine().Evaluate(Input{Snapshot: balanced(1), Now: now})
		assert.Empty(t, byRule(alerts, domain.RuleNutritionalImbalance))
	})

	t.Run("single food group", func(t *testing.T) {
		alerts := newTestEngine().Evaluate(Input{
			Snapshot: domain.InventorySnapshot{domain.CategoryGrain: 500},
			Now:      now,
		})
		imbalance := byRule(alerts, domain.RuleNutritionalImbalance)
		require.Len(t, imbalance, 1)
		assert.Equal(t, domain.SeverityWarning, imbalance[0].Severity)
		assert.Contains(t, imbalance[0].Message, "0/5")
	})
}

func TestNoDistributionsToday(t *testing.T) {
	alerts := newTestEngine().Evaluate(Input{Snapshot: balanced(1), Now: now})
	require.Len(t, byRule(alerts, domain.RuleNoDistributionsToday), 1)

	alerts = newTestEngine().Evaluate(Input{
		Snapshot: balanced(1),
		Metrics:  domain.OutgoingMetrics{DistributedToday: 40},
		Now:      now,
	})
	assert.Empty(t, byRule(alerts, domain.RuleNoDistributionsToday))
}

func TestStagnantInventory(t *testing.T) {
	snap := balanced(20) // 20,000 lbs

	alerts := newTestEngine().Evaluate(Input{
		Snapshot: snap,
		Metrics:  domain.OutgoingMetrics{DistributedToday: 1, DistributedThisWeek: 500},
		Now:      now,
	})
	require.Len(t, byRule(alerts, domain.RuleStagnantInventory), 1)

	alerts = newTestEngine().Evaluate(Input{
		Snapshot: snap,
		Metrics:  domain.OutgoingMetrics{DistributedToday: 1, DistributedThisWeek: 1000},
		Now:      now,
	})
	assert.Empty(t, byRule(alerts, domain.RuleStagnantInventory))

	// small warehouses never count as stagnant
	alerts = newTestEngine().Evaluate(Input{Snapshot: balanced(1), Now: now})
	assert.Empty(t, byRule(alerts, domain.RuleStagnantInventory))
}

func TestDistributionOpportunity(t *testing.T) {
	snap := balanced(1)
	snap[domain.CategoryProtein] = 400 // 400/1200

	alerts := newTestEngine().Evaluate(Input{Snapshot: snap, Now: now})
	opp := byRule(alerts, domain.RuleDistributionOpportunity)
	require.Len(t, opp, 1)
	assert.Equal(t, domain.CategoryProtein, opp[0].Category)
	assert.Equal(t, domain.PriorityLow, opp[0].Priority)
}

func TestSmallDistributions(t *testing.T) {
	for avg, fires := range map[float64]bool{0: false, 45: true, 99.9: true, 100: false} {
		alerts := newTestEngine().Evaluate(Input{
			Snapshot: balanced(1),
			Metrics:  domain.OutgoingMetrics{AvgDistributionSize: avg},
			Now:      now,
		})
		assert.Equal(t, fires, len(byRule(alerts, domain.RuleSmallDistributions)) == 1, "avg %v", avg)
	}
}

func TestItemAlerts(t *testing.T) {
	expired := now.Add(-24 * time.Hour)
	soon := now.Add(3 * 24 * time.Hour)
	later := now.Add(30 * 24 * time.Hour)

	items := []domain.TrackedItem{
		{ID: "milk", Name: "Milk", Category: domain.CategoryDairy, Quantity: 20, Unit: domain.UnitPallet, ExpirationDate: &expired},
		{ID: "apples", Name: "Apples", Category: domain.CategoryFruit, Quantity: 10, Unit: domain.UnitPallet, ExpirationDate: &soon},
		{ID: "rice", Name: "Rice", Category: domain.CategoryGrain, Quantity: 1800, Unit: domain.UnitPound, ExpirationDate: &later},
	}

	alerts := newTestEngine().Evaluate(Input{Items: items, Now: now})

	expiredAlerts := byRule(alerts, domain.RuleExpired)
	require.Len(t, expiredAlerts, 1)
	assert.Equal(t, "milk", expiredAlerts[0].ItemID)
	assert.Equal(t, domain.ScopeItem, expiredAlerts[0].Scope)
	assert.Equal(t, domain.PriorityHigh, expiredAlerts[0].Priority)

	soonAlerts := byRule(alerts, domain.RuleExpiringSoon)
	require.Len(t, soonAlerts, 1)
	assert.Equal(t, "apples", soonAlerts[0].ItemID)
	assert.Equal(t, domain.SeverityWarning, soonAlerts[0].Severity)

	// 1800 lbs of grain is one pallet
	lowStock := byRule(alerts, domain.RuleLowStock)
	require.Len(t, lowStock, 1)
	assert.Equal(t, "rice", lowStock[0].ItemID)
	assert.Contains(t, lowStock[0].Message, "1.00 pallet")
}

func TestEvaluate_SortedByPriority(t *testing.T) {
	alerts := newTestEngine().Evaluate(Input{
		Snapshot:       domain.InventorySnapshot{domain.CategoryGrain: 950, domain.CategoryDairy: 10},
		TargetCapacity: 1000,
		Metrics:        domain.OutgoingMetrics{AvgDistributionSize: 20},
		Now:            now,
	})
	require.NotEmpty(t, alerts)
	assert.Equal(t, domain.PriorityHigh, alerts[0].Priority)
	assert.Equal(t, domain.PriorityLow, alerts[len(alerts)-1].Priority)
}

func TestEvaluate_EqualPriorityKeepsRuleOrder(t *testing.T) {
	alerts := newTestEngine().Evaluate(Input{
		Snapshot:       domain.InventorySnapshot{domain.CategoryVeg: 64, domain.CategoryGrain: 736},
		TargetCapacity: 1000,
		Now:            now,
	})

	var high []domain.Category
	var medium []domain.RuleID
	for _, a := range alerts {
		switch a.Priority {
		case domain.PriorityHigh:
			high = append(high, a.Category)
		case domain.PriorityMedium:
			medium = append(medium, a.RuleID)
		}
	}

	assert.Equal(t, []domain.Category{
		domain.CategoryFruit,
		domain.CategoryDairy,
		domain.CategoryProtein,
		domain.CategoryProduce,
		domain.CategoryMisc,
	}, high)
	assert.Equal(t, []domain.RuleID{
		domain.RuleLowInventory,
		domain.RuleNutritionalImbalance,
		domain.RuleCapacity,
		domain.RuleNoDistributionsToday,
	}, medium)
	assert.Equal(t, domain.RuleDistributionOpportunity, alerts[len(alerts)-1].RuleID)
}

func TestEvaluate_OrderingProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	engine := newTestEngine()

	for trial := 0; trial < 300; trial++ {
		snap := domain.NewInventorySnapshot()
		for _, c := range domain.PrimaryCategories {
			if rng.Intn(4) > 0 {
				snap[c] = rng.Float64() * 5000
			}
		}

		var items []domain.TrackedItem
		for i := 0; i < rng.Intn(4); i++ {
			exp := now.Add(time.Duration(rng.Intn(20)-5) * 24 * time.Hour)
			items = append(items, domain.TrackedItem{
				ID:             "item",
				Category:       domain.PrimaryCategories[rng.Intn(len(domain.PrimaryCategories))],
				Quantity:       rng.Float64() * 20,
				Unit:           domain.UnitPallet,
				ExpirationDate: &exp,
			})
		}

		alerts := engine.Evaluate(Input{
			Snapshot:       snap,
			TargetCapacity: rng.Float64() * 40000,
			Metrics: domain.OutgoingMetrics{
				DistributedToday:    float64(rng.Intn(2)) * rng.Float64() * 500,
				DistributedThisWeek: rng.Float64() * 3000,
				AvgDistributionSize: rng.Float64() * 200,
			},
			Items: items,
			Now:   now,
		})

		for i := 1; i < len(alerts); i++ {
			require.GreaterOrEqual(t, alerts[i-1].Priority.Rank(), alerts[i].Priority.Rank(), "trial %d", trial)
		}
		for _, a := range alerts {
			require.Equal(t, domain.PriorityFor(a.Severity), a.Priority)
		}
	}
}

func TestItemAlerts_ExpiryByCalendarDay(t *testing.T) {
	day := func(offset int, hour, min int) *time.Time {
		d := time.Date(2025, 3, 14+offset, hour, min, 0, 0, time.UTC)
		return &d
	}

	tests := []struct {
		name    string
		expires *time.Time
		rule    domain.RuleID
		message string
	}{
		{"midnight today", day(0, 0, 0), domain.RuleExpiringSoon, "Beans expires today"},
		{"earlier today", day(0, 9, 30), domain.RuleExpiringSoon, "Beans expires today"},
		{"yesterday late", day(-1, 23, 59), domain.RuleExpired, "Beans expired on 2025-03-13"},
		{"tomorrow", day(1, 0, 0), domain.RuleExpiringSoon, "Beans expires in 1 day"},
		{"a week out", day(7, 23, 0), domain.RuleExpiringSoon, "Beans expires in 7 days"},
		{"eight days out", day(8, 0, 0), "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := newTestEngine().Evaluate(Input{
				Items: []domain.TrackedItem{{
					ID: "beans", Name: "Beans", Category: domain.CategoryProtein,
					Quantity: 20, Unit: domain.UnitPallet, ExpirationDate: tt.expires,
				}},
				Now: now,
			})

			expiry := append(byRule(alerts, domain.RuleExpired), byRule(alerts, domain.RuleExpiringSoon)...)
			if tt.rule == "" {
				assert.Empty(t, expiry)
				return
			}
			require.Len(t, expiry, 1)
			assert.Equal(t, tt.rule, expiry[0].RuleID)
			assert.Equal(t, tt.message, expiry[0].Message)
		})
	}
}
