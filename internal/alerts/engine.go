// Package alerts derives the prioritized alert feed from the current
// inventory, distribution velocity and warehouse capacity.
package alerts

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/category"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/units"
)

const (
	criticalLowPct       = 5.0
	lowPct               = 10.0
	minBalancedCore      = 3
	capacityCriticalPct  = 90.0
	capacityWarningPct   = 75.0
	stagnantMinTotal     = 10000.0
	stagnantWeeklyPct    = 5.0
	opportunityPct       = 25.0
	smallDistributionLbs = 100.0
	expiringWindowDays   = 7
	lowStockPallets      = 5.0
)

// Input is everything a single evaluation looks at.
type Input struct {
	Snapshot       domain.InventorySnapshot
	TargetCapacity float64
	Metrics        domain.OutgoingMetrics
	Items          []domain.TrackedItem
	Now            time.Time
}

// Engine evaluates the fixed alert rule set.
type Engine struct {
	goals domain.GoalTable
	conv  *units.Converter
}

// NewEngine creates an engine. A nil converter uses the default weight tables.
func NewEngine(goals domain.GoalTable, conv *units.Converter) *Engine {
	if conv == nil {
		conv = units.DefaultConverter()
	}
	return &Engine{goals: goals, conv: conv}
}

// Evaluate runs every rule and returns the triggered alerts ordered by
// priority, highest first. Alerts of equal priority keep rule order.
func (e *Engine) Evaluate(in Input) []domain.Alert {
	snapshot := in.Snapshot.Clone()
	total := snapshot.Total()

	capacity := in.TargetCapacity
	if capacity <= 0 || math.IsNaN(capacity) || math.IsInf(capacity, 0) {
		capacity = domain.DefaultTargetCapacity
	}

	var out []domain.Alert
	out = append(out, e.lowInventory(snapshot, total)...)
	out = append(out, e.nutritionalImbalance(snapshot, total)...)
	out = append(out, capacityAlerts(total, capacity)...)
	out = append(out, noDistributionsToday(total, in.Metrics)...)
	out = append(out, stagnantInventory(total, in.Metrics)...)
	out = append(out, distributionOpportunity(snapshot, total)...)
	out = append(out, smallDistributions(in.Metrics)...)
	out = append(out, e.itemAlerts(in.Items, in.Now)...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() > out[j].Priority.Rank()
	})

	return out
}

func newAlert(rule domain.RuleID, severity domain.Severity, c domain.Category, msg, action string) domain.Alert {
	return domain.Alert{
		Scope:    domain.ScopeCategory,
		Severity: severity,
		Priority: domain.PriorityFor(severity),
		RuleID:   rule,
		Category: c,
		Message:  msg,
		Action:   action,
	}
}

func share(weight, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * weight / total
}

// 1. Low inventory per primary category
func (e *Engine) lowInventory(snapshot domain.InventorySnapshot, total float64) []domain.Alert {
	if total <= 0 {
		return nil
	}

	var out []domain.Alert
	for _, c := range domain.PrimaryCategories {
		pct := share(snapshot[c], total)
		switch {
		case pct < criticalLowPct:
			out = append(out, newAlert(domain.RuleLowInventory, domain.SeverityCritical, c,
				fmt.Sprintf("%s critically low at %.1f%% of inventory", c.Label(), pct),
				fmt.Sprintf("Prioritize %s donations and food drives", c.Label())))
		case pct < lowPct:
			out = append(out, newAlert(domain.RuleLowInventory, domain.SeverityWarning, c,
				fmt.Sprintf("%s low at %.1f%% of inventory", c.Label(), pct),
				fmt.Sprintf("Reach out to donors for %s", c.Label())))
		}
	}
	return out
}

// 2. Fewer than three core groups inside their goal band
func (e *Engine) nutritionalImbalance(snapshot domain.InventorySnapshot, total float64) []domain.Alert {
	if total <= 0 {
		return nil
	}

	var balanced int
	for _, c := range domain.CoreCategories {
		if category.WithinBand(share(snapshot[c], total), e.goals.Goal(c), e.goals.Tolerance) {
			balanced++
		}
	}
	if balanced >= minBalancedCore {
		return nil
	}

	return []domain.Alert{newAlert(domain.RuleNutritionalImbalance, domain.SeverityWarning, "",
		fmt.Sprintf("Only %d/%d core food groups within MyPlate targets", balanced, len(domain.CoreCategories)),
		"Rebalance intake toward under-stocked food groups")}
}

// 3. Utilization against target capacity
func capacityAlerts(total, capacity float64) []domain.Alert {
	utilization := 100 * total / capacity
	detail := fmt.Sprintf("%s of %s lbs", humanize.Comma(int64(math.Round(total))), humanize.Comma(int64(math.Round(capacity))))

	switch {
	case utilization > capacityCriticalPct:
		return []domain.Alert{newAlert(domain.RuleCapacity, domain.SeverityCritical, "",
			fmt.Sprintf("Warehouse at %.0f%% of capacity (%s)", utilization, detail),
			"Schedule additional distributions and pause bulk intake")}
	case utilization > capacityWarningPct:
		return []domain.Alert{newAlert(domain.RuleCapacity, domain.SeverityWarning, "",
			fmt.Sprintf("Warehouse at %.0f%% of capacity (%s)", utilization, detail),
			"Plan distributions to free up storage")}
	}
	return nil
}

// 4. Stock on hand but nothing distributed today
func noDistributionsToday(total float64, m domain.OutgoingMetrics) []domain.Alert {
	if total <= 0 || m.DistributedToday != 0 {
		return nil
	}
	return []domain.Alert{newAlert(domain.RuleNoDistributionsToday, domain.SeverityWarning, "",
		"No distributions recorded today",
		"Record today's distributions or contact partner agencies")}
}

// 5. Large inventory with slow weekly turnover
func stagnantInventory(total float64, m domain.OutgoingMetrics) []domain.Alert {
	if total <= stagnantMinTotal {
		return nil
	}
	turnover := 100 * m.DistributedThisWeek / total
	if turnover >= stagnantWeeklyPct {
		return nil
	}
	return []domain.Alert{newAlert(domain.RuleStagnantInventory, domain.SeverityWarning, "",
		fmt.Sprintf("Only %.1f%% of inventory distributed this week", turnover),
		"Increase distribution frequency to keep stock moving")}
}

// 6. Categories holding more than a quarter of inventory
func distributionOpportunity(snapshot domain.InventorySnapshot, total float64) []domain.Alert {
	if total <= 0 {
		return nil
	}

	var out []domain.Alert
	for _, c := range domain.PrimaryCategories {
		pct := share(snapshot[c], total)
		if pct > opportunityPct {
			out = append(out, newAlert(domain.RuleDistributionOpportunity, domain.SeverityInfo, c,
				fmt.Sprintf("%s makes up %.1f%% of inventory", c.Label(), pct),
				fmt.Sprintf("Feature %s in upcoming distributions", c.Label())))
		}
	}
	return out
}

// 7. Distributions averaging under 100 lbs
func smallDistributions(m domain.OutgoingMetrics) []domain.Alert {
	if m.AvgDistributionSize <= 0 || m.AvgDistributionSize >= smallDistributionLbs {
		return nil
	}
	return []domain.Alert{newAlert(domain.RuleSmallDistributions, domain.SeverityInfo, "",
		fmt.Sprintf("Average distribution is %s", units.FormatWithUnit(m.AvgDistributionSize, domain.UnitPound)),
		"Consolidate small distributions where possible")}
}

// 8. Item-level expiry and stock checks
func (e *Engine) itemAlerts(items []domain.TrackedItem, now time.Time) []domain.Alert {
	if len(items) == 0 {
		return nil
	}
	if now.IsZero() {
		now = time.Now()
	}

	today := calendarDay(now)

	var out []domain.Alert
	for _, item := range items {
		if item.ExpirationDate != nil {
			exp := *item.ExpirationDate
			days := int(calendarDay(exp.In(now.Location())).Sub(today).Hours() / 24)
			switch {
			case days < 0:
				out = append(out, itemAlert(item, domain.RuleExpired, domain.SeverityCritical,
					fmt.Sprintf("%s expired on %s", item.Name, exp.Format(time.DateOnly)),
					"Remove from inventory"))
			case days <= expiringWindowDays:
				out = append(out, itemAlert(item, domain.RuleExpiringSoon, domain.SeverityWarning,
					fmt.Sprintf("%s expires %s", item.Name, daysUntil(days)),
					"Distribute before expiration"))
			}
		}

		pallets := e.conv.Convert(item.Quantity, item.Unit, domain.UnitPallet, item.Category)
		if item.Unit.Valid() && pallets < lowStockPallets {
			out = append(out, itemAlert(item, domain.RuleLowStock, domain.SeverityInfo,
				fmt.Sprintf("%s down to %s", item.Name, units.FormatWithUnit(pallets, domain.UnitPallet)),
				"Consider restocking"))
		}
	}
	return out
}

// calendarDay maps t's wall-clock date onto UTC midnight so day differences
// are whole numbers regardless of DST.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysUntil(days int) string {
	if days == 0 {
		return "today"
	}
	return fmt.Sprintf("in %s", english.Plural(days, "day", "days"))
}

func itemAlert(item domain.TrackedItem, rule domain.RuleID, severity domain.Severity, msg, action string) domain.Alert {
	a := newAlert(rule, severity, item.Category, msg, action)
	a.Scope = domain.ScopeItem
	a.ItemID = item.ID
	return a
}
