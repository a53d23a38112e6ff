package domain

import "strings"

// UnitType is a physical unit a quantity can be recorded in.
type UnitType string

const (
	UnitPound  UnitType = "POUND"
	UnitCase   UnitType = "CASE"
	UnitPallet UnitType = "PALLET"
	UnitBox    UnitType = "BOX"
	UnitBag    UnitType = "BAG"
)

// EntryUnits are the units offered on the main entry forms.
var EntryUnits = []UnitType{UnitPound, UnitCase, UnitPallet}

// AllUnits lists every supported unit.
var AllUnits = []UnitType{UnitPound, UnitCase, UnitPallet, UnitBox, UnitBag}

var unitAliases = map[string]UnitType{
	"pound":   UnitPound,
	"pounds":  UnitPound,
	"lb":      UnitPound,
	"lbs":     UnitPound,
	"case":    UnitCase,
	"cases":   UnitCase,
	"cs":      UnitCase,
	"pallet":  UnitPallet,
	"pallets": UnitPallet,
	"plt":     UnitPallet,
	"box":     UnitBox,
	"boxes":   UnitBox,
	"bag":     UnitBag,
	"bags":    UnitBag,
}

var unitLabels = map[UnitType][2]string{
	UnitPound:  {"lb", "lbs"},
	UnitCase:   {"case", "cases"},
	UnitPallet: {"pallet", "pallets"},
	UnitBox:    {"box", "boxes"},
	UnitBag:    {"bag", "bags"},
}

// Valid reports whether u is a supported unit.
func (u UnitType) Valid() bool {
	_, ok := unitLabels[u]
	return ok
}

// Label returns the singular or plural display label for the unit.
func (u UnitType) Label(plural bool) string {
	labels, ok := unitLabels[u]
	if !ok {
		return strings.ToLower(string(u))
	}
	if plural {
		return labels[1]
	}
	return labels[0]
}

// ParseUnit resolves a unit name or abbreviation (case-insensitive).
func ParseUnit(s string) (UnitType, bool) {
	u, ok := unitAliases[strings.ToLower(strings.TrimSpace(s))]
	return u, ok
}

// ParseEntryUnit resolves a unit typed on an entry form or pasted row. A
// blank unit means pounds; anything else goes through ParseUnit.
func ParseEntryUnit(s string) (UnitType, bool) {
	if strings.TrimSpace(s) == "" {
		return UnitPound, true
	}
	return ParseUnit(s)
}

// WeightTable holds pounds-per-unit for one unit type.
type WeightTable struct {
	BaseWeight        float64              `json:"base_weight"`
	CategoryOverrides map[Category]float64 `json:"category_overrides,omitempty"`
}

// UnitConfig maps each non-pound unit to its weight table.
type UnitConfig map[UnitType]WeightTable
