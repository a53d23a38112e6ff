// internal/domain/models.go
package domain

import (
	"time"

	"github.com/google/uuid"
)

// InventorySnapshot maps each category to the pounds on hand.
// Snapshots are replaced wholesale; callers never mutate a shared snapshot.
type InventorySnapshot map[Category]float64

// NewInventorySnapshot returns a snapshot with every primary category at zero.
func NewInventorySnapshot() InventorySnapshot {
	s := make(InventorySnapshot, len(PrimaryCategories))
	for _, c := range PrimaryCategories {
		s[c] = 0
	}
	return s
}

// Clone returns a deep copy that always carries the primary categories.
func (s InventorySnapshot) Clone() InventorySnapshot {
	out := NewInventorySnapshot()
	for c, w := range s {
		out[c] = w
	}
	return out
}

// Get returns the weight for c, zero when absent.
func (s InventorySnapshot) Get(c Category) float64 {
	return s[c]
}

// Total returns the sum of all category weights.
func (s InventorySnapshot) Total() float64 {
	var total float64
	for _, w := range s {
		total += w
	}
	return total
}

// TransactionKind distinguishes intake from distribution.
type TransactionKind string

const (
	KindIntake       TransactionKind = "INTAKE"
	KindDistribution TransactionKind = "DISTRIBUTION"
)

// TransactionItem is a single line of an intake or distribution form.
type TransactionItem struct {
	FoodType       string     `json:"food_type"`
	Category       Category   `json:"category,omitempty"`
	Quantity       float64    `json:"quantity"`
	Unit           UnitType   `json:"unit"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}

// AgeGroups is the client demographic breakdown of a distribution.
type AgeGroups struct {
	Child int `json:"child"`
	Adult int `json:"adult"`
	Elder int `json:"elder"`
}

// Sum returns the number of clients across all age groups.
func (a AgeGroups) Sum() int {
	return a.Child + a.Adult + a.Elder
}

// Transaction is an intake or distribution. Once committed it is archived
// and never modified.
type Transaction struct {
	ID             uuid.UUID            `json:"id"`
	Kind           TransactionKind      `json:"kind"`
	Items          []TransactionItem    `json:"items"`
	Timestamp      time.Time            `json:"timestamp"`
	Donor          string               `json:"donor,omitempty"`
	Recipient      string               `json:"recipient,omitempty"`
	Notes          string               `json:"notes,omitempty"`
	ClientsServed  int                  `json:"clients_served,omitempty"`
	AgeGroups      AgeGroups            `json:"age_groups"`
	CategoryTotals map[Category]float64 `json:"category_totals"`
	TotalWeight    float64              `json:"total_weight"`
}

// ActivityEntry is one line of the bounded per-user activity log.
type ActivityEntry struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    string          `json:"user_id" db:"user_id"`
	Kind      TransactionKind `json:"kind" db:"kind"`
	Summary   string          `json:"summary" db:"summary"`
	Weight    float64         `json:"weight" db:"weight"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// DefaultTargetCapacity is the warehouse capacity used when none is configured.
const DefaultTargetCapacity = 900000.0

// DefaultTolerance is the compliance band in percentage points.
const DefaultTolerance = 2.0

// Settings are the user-editable evaluation parameters.
type Settings struct {
	TargetCapacity float64 `json:"target_capacity"`
	Tolerance      float64 `json:"tolerance"`
}

// DefaultSettings returns the settings used before a user saves their own.
func DefaultSettings() Settings {
	return Settings{
		TargetCapacity: DefaultTargetCapacity,
		Tolerance:      DefaultTolerance,
	}
}

// OutgoingMetrics summarizes recent distribution velocity.
type OutgoingMetrics struct {
	DistributedToday    float64 `json:"distributed_today"`
	DistributedThisWeek float64 `json:"distributed_this_week"`
	ClientsServedToday  int     `json:"clients_served_today"`
	AvgDistributionSize float64 `json:"avg_distribution_size"`
}

// TrackedItem is a line of detailed inventory used for item-level alerts.
type TrackedItem struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Category       Category   `json:"category"`
	Quantity       float64    `json:"quantity"`
	Unit           UnitType   `json:"unit"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
}
