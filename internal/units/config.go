// Package units converts quantities between physical units through the
// canonical pound, using per-category weight tables.
package units

import (
	"fmt"
	"math"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
)

// DefaultConfig returns the stock weight tables in pounds per unit.
func DefaultConfig() domain.UnitConfig {
	return domain.UnitConfig{
		domain.UnitPallet: {
			BaseWeight: 1500,
			CategoryOverrides: map[domain.Category]float64{
				domain.CategoryDairy:   1200,
				domain.CategoryProduce: 1000,
				domain.CategoryGrain:   1800,
				domain.CategoryProtein: 1600,
			},
		},
		domain.UnitCase: {
			BaseWeight: 30,
			CategoryOverrides: map[domain.Category]float64{
				domain.CategoryDairy:   40,
				domain.CategoryProduce: 35,
				domain.CategoryGrain:   25,
			},
		},
		domain.UnitBox: {BaseWeight: 25},
		domain.UnitBag: {
			BaseWeight: 20,
			CategoryOverrides: map[domain.Category]float64{
				domain.CategoryGrain:   50,
				domain.CategoryProduce: 10,
			},
		},
	}
}

// Validate rejects tables that would make conversion meaningless: weights
// must be finite and positive, POUND cannot be configured and every key
// must be a known unit or category.
func Validate(cfg domain.UnitConfig) error {
	for unit, table := range cfg {
		if unit == domain.UnitPound {
			return fmt.Errorf("%w: POUND weight is fixed at 1 and cannot be configured", domain.ErrInvalidConfig)
		}
		if !unit.Valid() {
			return fmt.Errorf("%w: unknown unit %q", domain.ErrInvalidConfig, unit)
		}
		if !validWeight(table.BaseWeight) {
			return fmt.Errorf("%w: %s base weight must be positive, got %v", domain.ErrInvalidConfig, unit, table.BaseWeight)
		}
		for c, w := range table.CategoryOverrides {
			if !c.Valid() {
				return fmt.Errorf("%w: %s override for unknown category %q", domain.ErrInvalidConfig, unit, c)
			}
			if !validWeight(w) {
				return fmt.Errorf("%w: %s weight for %s must be positive, got %v", domain.ErrInvalidConfig, unit, c, w)
			}
		}
	}

	return nil
}

func validWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w > 0
}

// Clone deep-copies a unit configuration.
func Clone(cfg domain.UnitConfig) domain.UnitConfig {
	out := make(domain.UnitConfig, len(cfg))
	for unit, table := range cfg {
		overrides := make(map[domain.Category]float64, len(table.CategoryOverrides))
		for c, w := range table.CategoryOverrides {
			overrides[c] = w
		}
		out[unit] = domain.WeightTable{BaseWeight: table.BaseWeight, CategoryOverrides: overrides}
	}
	return out
}

// withDefaults fills units missing from cfg with the stock tables.
func withDefaults(cfg domain.UnitConfig) domain.UnitConfig {
	out := Clone(cfg)
	for unit, table := range DefaultConfig() {
		if _, ok := out[unit]; !ok {
			out[unit] = table
		}
	}
	return out
}

// WithWeight returns a copy of cfg with the category override for unit set
// to weight. cfg is left untouched.
func WithWeight(cfg domain.UnitConfig, unit domain.UnitType, c domain.Category, weight float64) (domain.UnitConfig, error) {
	out := withDefaults(cfg)
	table, ok := out[unit]
	if !ok {
		return nil, fmt.Errorf("%w: unit %q has no weight table", domain.ErrInvalidConfig, unit)
	}
	if table.CategoryOverrides == nil {
		table.CategoryOverrides = make(map[domain.Category]float64)
	}
	table.CategoryOverrides[c] = weight
	out[unit] = table

	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// WithBaseWeight returns a copy of cfg with the base weight for unit set.
func WithBaseWeight(cfg domain.UnitConfig, unit domain.UnitType, weight float64) (domain.UnitConfig, error) {
	out := withDefaults(cfg)
	table, ok := out[unit]
	if !ok {
		return nil, fmt.Errorf("%w: unit %q has no weight table", domain.ErrInvalidConfig, unit)
	}
	table.BaseWeight = weight
	out[unit] = table

	if err := Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}
