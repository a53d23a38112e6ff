// Package compliance scores an inventory snapshot against MyPlate goals.
package compliance

import (
	"math"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/category"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
)

// Evaluator computes per-category compliance for a goal table and a
// warehouse target capacity.
type Evaluator struct {
	goals          domain.GoalTable
	targetCapacity float64
}

// NewEvaluator creates an evaluator. A non-positive capacity falls back to
// the default 900,000 lbs.
func NewEvaluator(goals domain.GoalTable, targetCapacity float64) *Evaluator {
	if targetCapacity <= 0 || math.IsNaN(targetCapacity) || math.IsInf(targetCapacity, 0) {
		targetCapacity = domain.DefaultTargetCapacity
	}

	return &Evaluator{
		goals:          goals,
		targetCapacity: targetCapacity,
	}
}

// Capacity returns the target capacity in effect after defaulting.
func (e *Evaluator) Capacity() float64 {
	return e.targetCapacity
}

// Evaluate classifies every goal category of snapshot. Weight held under a
// category with no goal is counted as MISC.
func (e *Evaluator) Evaluate(snapshot domain.InventorySnapshot) domain.ComplianceReport {
	folded := e.fold(snapshot)

	var grandTotal float64
	for _, w := range folded {
		grandTotal += w
	}

	report := domain.ComplianceReport{
		Categories: make(map[domain.Category]domain.CategoryCompliance, len(e.goals.Percentages)+1),
		GrandTotal: grandTotal,
	}

	for c := range e.goals.Percentages {
		report.Categories[c] = e.evaluateCategory(c, folded[c], grandTotal)
	}
	// MISC always appears so folded weight is visible even without a MISC goal
	if _, ok := report.Categories[domain.CategoryMisc]; !ok && folded[domain.CategoryMisc] > 0 {
		report.Categories[domain.CategoryMisc] = e.evaluateCategory(domain.CategoryMisc, folded[domain.CategoryMisc], grandTotal)
	}

	for _, c := range domain.CoreCategories {
		if cc, ok := report.Categories[c]; ok && cc.Status == domain.StatusOkay {
			report.CompliantCore++
		}
	}

	return report
}

func (e *Evaluator) evaluateCategory(c domain.Category, weight, grandTotal float64) domain.CategoryCompliance {
	var pct float64
	if grandTotal > 0 {
		pct = 100 * weight / grandTotal
	}

	goal := e.goals.Goal(c)
	target := goal / 100 * e.targetCapacity

	return domain.CategoryCompliance{
		CurrentWeight: weight,
		CurrentPct:    pct,
		GoalPct:       goal,
		Status:        category.StatusOf(pct, goal, e.goals.Tolerance),
		TargetWeight:  target,
		Shortfall:     math.Max(0, target-weight),
	}
}

func (e *Evaluator) fold(snapshot domain.InventorySnapshot) map[domain.Category]float64 {
	folded := make(map[domain.Category]float64, len(snapshot))
	for c, w := range snapshot {
		if w <= 0 || math.IsNaN(w) {
			continue
		}
		if !e.goals.Has(c) {
			c = domain.CategoryMisc
		}
		folded[c] += w
	}
	return folded
}
