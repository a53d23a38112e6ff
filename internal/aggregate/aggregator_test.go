package aggregate

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/units"
)

func TestIntakeThenOverDistribution_ClampsAndReports(t *testing.T) {
	start := domain.NewInventorySnapshot()

	afterIntake := ApplyIntake(start, Deltas{domain.CategoryGrain: 500})
	assert.Equal(t, 500.0, afterIntake[domain.CategoryGrain])

	afterDist, outcome := ApplyDistribution(afterIntake, Deltas{domain.CategoryGrain: 700})
	assert.Equal(t, 0.0, afterDist[domain.CategoryGrain])

	require.True(t, outcome.Clamped())
	short := outcome.Shortfall[domain.CategoryGrain]
	assert.Equal(t, 700.0, short.Requested)
	assert.Equal(t, 500.0, short.Applied)
	assert.Equal(t, 200.0, short.Unfilled)
	assert.Equal(t, 500.0, outcome.Applied[domain.CategoryGrain])
	assert.Equal(t, 200.0, outcome.Unfilled())
}

func TestApplyDistribution_WithinStockIsNotClamped(t *testing.T) {
	snap := domain.InventorySnapshot{domain.CategoryVeg: 100, domain.CategoryFruit: 50}

	out, outcome := ApplyDistribution(snap, Deltas{domain.CategoryVeg: 40})

	assert.False(t, outcome.Clamped())
	assert.Equal(t, 60.0, out[domain.CategoryVeg])
	assert.Equal(t, 50.0, out[domain.CategoryFruit], "categories absent from deltas are unchanged")
	assert.Zero(t, outcome.Unfilled())
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	snap := domain.InventorySnapshot{domain.CategoryVeg: 100}

	ApplyIntake(snap, Deltas{domain.CategoryVeg: 10})
	ApplyDistribution(snap, Deltas{domain.CategoryVeg: 10})

	assert.Equal(t, 100.0, snap[domain.CategoryVeg])
}

func TestApply_IgnoresInvalidDeltas(t *testing.T) {
	snap := domain.InventorySnapshot{domain.CategoryVeg: 100}
	bad := Deltas{domain.CategoryVeg: -20, domain.CategoryFruit: math.NaN(), domain.CategoryDairy: math.Inf(1)}

	in := ApplyIntake(snap, bad)
	out, outcome := ApplyDistribution(snap, bad)

	for _, s := range []domain.InventorySnapshot{in, out} {
		assert.Equal(t, 100.0, s[domain.CategoryVeg])
		assert.Equal(t, 0.0, s[domain.CategoryFruit])
		assert.Equal(t, 0.0, s[domain.CategoryDairy])
	}
	assert.False(t, outcome.Clamped())
}

func TestApplyDistribution_NeverNegative(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	snap := domain.NewInventorySnapshot()

	for step := 0; step < 1000; step++ {
		deltas := Deltas{}
		for _, c := range domain.PrimaryCategories {
			if rng.Intn(2) == 0 {
				deltas[c] = rng.Float64() * 1000
			}
		}

		before := snap
		if rng.Intn(3) == 0 {
			snap = ApplyIntake(snap, deltas)
			continue
		}

		var outcome Outcome
		snap, outcome = ApplyDistribution(snap, deltas)
		for c, w := range snap {
			require.GreaterOrEqual(t, w, 0.0, "step %d category %s", step, c)
		}
		for c, d := range deltas {
			// removed amount is exactly what the outcome says was applied
			require.InDelta(t, before[c]-snap[c], outcome.Applied[c], 1e-9)
			if s, ok := outcome.Shortfall[c]; ok {
				require.InDelta(t, d, s.Applied+s.Unfilled, 1e-9)
				require.Equal(t, 0.0, snap[c])
			}
		}
	}
}

func TestDeltasFor(t *testing.T) {
	conv := units.DefaultConverter()
	items := []domain.TransactionItem{
		{FoodType: "MILK", Quantity: 2, Unit: domain.UnitPallet},
		{FoodType: "CHEESE", Quantity: 100, Unit: domain.UnitPound},
		{FoodType: "MILK", Category: domain.CategoryProtein, Quantity: 1, Unit: domain.UnitCase},
		{FoodType: "mystery box", Quantity: 10, Unit: domain.UnitPound},
		{FoodType: "RICE", Quantity: 0, Unit: domain.UnitPallet},
	}

	deltas := DeltasFor(items, conv)

	assert.Equal(t, 2500.0, deltas[domain.CategoryDairy])
	assert.Equal(t, 30.0, deltas[domain.CategoryProtein])
	assert.Equal(t, 10.0, deltas[domain.CategoryMisc])
	_, hasGrain := deltas[domain.CategoryGrain]
	assert.False(t, hasGrain, "zero quantities produce no delta")
	assert.Equal(t, 2540.0, deltas.Total())
}

func TestComputeOutgoingMetrics(t *testing.T) {
	now := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)
	dist := func(ts time.Time, weight float64, clients int) domain.Transaction {
		return domain.Transaction{Kind: domain.KindDistribution, Timestamp: ts, TotalWeight: weight, ClientsServed: clients}
	}

	history := []domain.Transaction{
		dist(now.Add(-2*time.Hour), 120, 4),
		dist(time.Date(2025, 3, 14, 0, 30, 0, 0, time.UTC), 80, 2),
		dist(now.Add(-3*24*time.Hour), 200, 5),
		dist(now.Add(-10*24*time.Hour), 600, 9),
		{Kind: domain.KindIntake, Timestamp: now, TotalWeight: 5000},
	}

	m := ComputeOutgoingMetrics(history, now)

	assert.Equal(t, 200.0, m.DistributedToday)
	assert.Equal(t, 6, m.ClientsServedToday)
	assert.Equal(t, 400.0, m.DistributedThisWeek)
	assert.Equal(t, 250.0, m.AvgDistributionSize)
}

func TestComputeOutgoingMetrics_LaterTodayCountsForWeek(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	history := []domain.Transaction{
		{Kind: domain.KindDistribution, Timestamp: time.Date(2025, 3, 14, 17, 0, 0, 0, time.UTC), TotalWeight: 800},
		{Kind: domain.KindDistribution, Timestamp: time.Date(2025, 3, 15, 1, 0, 0, 0, time.UTC), TotalWeight: 50},
		{Kind: domain.KindDistribution, Timestamp: time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC), TotalWeight: 30},
		{Kind: domain.KindDistribution, Timestamp: time.Date(2025, 3, 7, 23, 59, 0, 0, time.UTC), TotalWeight: 70},
	}

	m := ComputeOutgoingMetrics(history, now)

	assert.Equal(t, 800.0, m.DistributedToday)
	assert.Equal(t, 830.0, m.DistributedThisWeek, "tomorrow and days before the window are excluded")
}

func TestComputeOutgoingMetrics_WeekCoversToday(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	for trial := 0; trial < 200; trial++ {
		var history []domain.Transaction
		for i := 0; i < rng.Intn(8); i++ {
			offset := time.Duration(rng.Intn(10*24*60)-8*24*60) * time.Minute
			history = append(history, domain.Transaction{
				Kind:        domain.KindDistribution,
				Timestamp:   now.Add(offset),
				TotalWeight: rng.Float64() * 500,
			})
		}

		m := ComputeOutgoingMetrics(history, now)
		assert.GreaterOrEqual(t, m.DistributedThisWeek+1e-9, m.DistributedToday, "trial %d", trial)
	}
}

func TestComputeOutgoingMetrics_Empty(t *testing.T) {
	m := ComputeOutgoingMetrics(nil, time.Now())
	assert.Equal(t, domain.OutgoingMetrics{}, m)
}

func TestValidateTransaction(t *testing.T) {
	item := domain.TransactionItem{FoodType: "RICE", Quantity: 10, Unit: domain.UnitPound}

	tests := []struct {
		name string
		tx   domain.Transaction
		ok   bool
	}{
		{
			name: "valid intake",
			tx:   domain.Transaction{Kind: domain.KindIntake, Items: []domain.TransactionItem{item}},
			ok:   true,
		},
		{
			name: "valid distribution",
			tx: domain.Transaction{
				Kind:          domain.KindDistribution,
				Items:         []domain.TransactionItem{item},
				ClientsServed: 6,
				AgeGroups:     domain.AgeGroups{Child: 2, Adult: 3, Elder: 1},
			},
			ok: true,
		},
		{
			name: "age groups do not add up",
			tx: domain.Transaction{
				Kind:          domain.KindDistribution,
				Items:         []domain.TransactionItem{item},
				ClientsServed: 6,
				AgeGroups:     domain.AgeGroups{Child: 2, Adult: 3},
			},
		},
		{
			name: "negative clients",
			tx: domain.Transaction{
				Kind:          domain.KindDistribution,
				Items:         []domain.TransactionItem{item},
				ClientsServed: -1,
				AgeGroups:     domain.AgeGroups{Child: 1, Adult: -2},
			},
		},
		{
			name: "no items",
			tx:   domain.Transaction{Kind: domain.KindIntake},
		},
		{
			name: "missing unit",
			tx:   domain.Transaction{Kind: domain.KindIntake, Items: []domain.TransactionItem{{FoodType: "RICE", Quantity: 1}}},
		},
		{
			name: "missing food type and category",
			tx:   domain.Transaction{Kind: domain.KindIntake, Items: []domain.TransactionItem{{Quantity: 1, Unit: domain.UnitCase}}},
		},
		{
			name: "category without food type",
			tx: domain.Transaction{Kind: domain.KindIntake, Items: []domain.TransactionItem{
				{Category: domain.CategoryVeg, Quantity: 1, Unit: domain.UnitCase},
			}},
			ok: true,
		},
		{
			name: "unknown kind",
			tx:   domain.Transaction{Kind: "TRANSFER", Items: []domain.TransactionItem{item}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransaction(tt.tx)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidTransaction))
		})
	}
}
