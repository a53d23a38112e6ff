package units

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
)

// Converter converts quantities to and from pounds. A Converter is
// immutable; build a new one from the latest configuration when the weight
// tables change.
type Converter struct {
	tables domain.UnitConfig
}

// NewConverter validates cfg and returns a converter over a private copy of
// it. Units missing from cfg use the default tables.
func NewConverter(cfg domain.UnitConfig) (*Converter, error) {
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("unit config: %w", err)
	}

	return &Converter{tables: withDefaults(cfg)}, nil
}

// DefaultConverter returns a converter over DefaultConfig.
func DefaultConverter() *Converter {
	return &Converter{tables: DefaultConfig()}
}

// Config returns a copy of the tables the converter uses.
func (c *Converter) Config() domain.UnitConfig {
	return Clone(c.tables)
}

// EffectiveWeight returns pounds per unit for the optional category. POUND
// is always 1; an unknown unit yields 0.
func (c *Converter) EffectiveWeight(unit domain.UnitType, category domain.Category) float64 {
	if unit == domain.UnitPound {
		return 1
	}

	table, ok := c.tables[unit]
	if !ok {
		return 0
	}

	if category != "" {
		if w, ok := table.CategoryOverrides[category]; ok {
			return w
		}
	}

	return table.BaseWeight
}

// ToCanonicalWeight converts quantity in unit into pounds. Negative,
// non-finite quantities and unknown units normalize to 0.
func (c *Converter) ToCanonicalWeight(quantity float64, unit domain.UnitType, category domain.Category) float64 {
	q := normalize(quantity)
	if unit == domain.UnitPound {
		return q
	}

	return q * c.EffectiveWeight(unit, category)
}

// FromCanonicalWeight converts pounds into unit.
func (c *Converter) FromCanonicalWeight(weightLbs float64, unit domain.UnitType, category domain.Category) float64 {
	w := normalize(weightLbs)
	if unit == domain.UnitPound {
		return w
	}

	per := c.EffectiveWeight(unit, category)
	if per <= 0 {
		return 0
	}

	return w / per
}

// Convert moves quantity from one unit to another through pounds.
func (c *Converter) Convert(quantity float64, from, to domain.UnitType, category domain.Category) float64 {
	return c.FromCanonicalWeight(c.ToCanonicalWeight(quantity, from, category), to, category)
}

func normalize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ParseQuantity reads a form value as a quantity. Anything that is not a
// non-negative number becomes 0.
func ParseQuantity(raw string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return 0
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}

	return normalize(v)
}
