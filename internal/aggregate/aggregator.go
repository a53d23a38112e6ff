// Package aggregate applies intake and distribution deltas to an inventory
// snapshot and derives distribution velocity from history.
package aggregate

import (
	"math"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/category"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/units"
)

// Deltas maps a category to pounds added or removed.
type Deltas map[domain.Category]float64

// Total returns the sum of all positive deltas.
func (d Deltas) Total() float64 {
	var total float64
	for _, w := range d {
		if valid(w) {
			total += w
		}
	}
	return total
}

// Shortfall is the part of a distribution that exceeded stock.
type Shortfall struct {
	Requested float64 `json:"requested"`
	Applied   float64 `json:"applied"`
	Unfilled  float64 `json:"unfilled"`
}

// Outcome records what a distribution actually removed per category.
type Outcome struct {
	Applied   Deltas                        `json:"applied"`
	Shortfall map[domain.Category]Shortfall `json:"shortfall,omitempty"`
}

// Clamped reports whether any category was asked for more than it held.
func (o Outcome) Clamped() bool {
	return len(o.Shortfall) > 0
}

// Unfilled returns the total pounds that could not be distributed.
func (o Outcome) Unfilled() float64 {
	var total float64
	for _, s := range o.Shortfall {
		total += s.Unfilled
	}
	return total
}

func valid(w float64) bool {
	return w > 0 && !math.IsNaN(w) && !math.IsInf(w, 0)
}

// ApplyIntake returns a new snapshot with deltas added. Negative or
// non-finite deltas are ignored.
func ApplyIntake(snapshot domain.InventorySnapshot, deltas Deltas) domain.InventorySnapshot {
	out := snapshot.Clone()
	for c, d := range deltas {
		if !valid(d) {
			continue
		}
		out[c] += d
	}
	return out
}

// ApplyDistribution returns a new snapshot with deltas removed, clamping each
// category at zero. The outcome reports the pounds actually removed and every
// category where the request exceeded stock.
func ApplyDistribution(snapshot domain.InventorySnapshot, deltas Deltas) (domain.InventorySnapshot, Outcome) {
	out := snapshot.Clone()
	outcome := Outcome{Applied: make(Deltas, len(deltas))}

	for c, d := range deltas {
		if !valid(d) {
			continue
		}

		have := math.Max(0, out[c])
		applied := math.Min(have, d)
		out[c] = have - applied
		outcome.Applied[c] += applied

		if d > applied {
			if outcome.Shortfall == nil {
				outcome.Shortfall = make(map[domain.Category]Shortfall)
			}
			outcome.Shortfall[c] = Shortfall{
				Requested: d,
				Applied:   applied,
				Unfilled:  d - applied,
			}
		}
	}

	return out, outcome
}

// CategoryFor resolves the category of a form line. An explicit valid
// category wins over the food type label.
func CategoryFor(item domain.TransactionItem) domain.Category {
	if item.Category.Valid() {
		return item.Category
	}
	return category.Resolve(item.FoodType)
}

// DeltasFor converts transaction lines to per-category pounds.
func DeltasFor(items []domain.TransactionItem, conv *units.Converter) Deltas {
	deltas := make(Deltas)
	for _, item := range items {
		c := CategoryFor(item)
		w := conv.ToCanonicalWeight(item.Quantity, item.Unit, c)
		if w <= 0 {
			continue
		}
		deltas[c] += w
	}
	return deltas
}
