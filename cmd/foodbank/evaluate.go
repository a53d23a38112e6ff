package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/alerts"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/category"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/compliance"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/units"
)

func evaluateCommand() *cli.Command {
	return &cli.Command{
		Name:  "evaluate",
		Usage: "Print the compliance table and alert feed for a snapshot file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "snapshot", Required: true, Usage: "JSON object of category (or food type) to pounds"},
			&cli.Float64Flag{Name: "capacity", Value: domain.DefaultTargetCapacity, Usage: "Warehouse target capacity in lbs"},
			&cli.Float64Flag{Name: "tolerance", Value: domain.DefaultTolerance, Usage: "Compliance band in percentage points"},
			&cli.Float64Flag{Name: "distributed-today", Usage: "Pounds distributed today"},
			&cli.Float64Flag{Name: "distributed-week", Usage: "Pounds distributed in the last 7 days"},
			&cli.Float64Flag{Name: "avg-distribution", Usage: "Average distribution size in lbs"},
		},
		Action: func(c *cli.Context) error {
			f, err := os.Open(c.String("snapshot"))
			if err != nil {
				return fmt.Errorf("open snapshot: %w", err)
			}
			defer f.Close()

			snapshot, err := loadSnapshot(f)
			if err != nil {
				return err
			}

			goals := category.DefaultGoalTable()
			goals.Tolerance = c.Float64("tolerance")
			if err := goals.Validate(); err != nil {
				return err
			}

			in := alerts.Input{
				Snapshot:       snapshot,
				TargetCapacity: c.Float64("capacity"),
				Metrics: domain.OutgoingMetrics{
					DistributedToday:    c.Float64("distributed-today"),
					DistributedThisWeek: c.Float64("distributed-week"),
					AvgDistributionSize: c.Float64("avg-distribution"),
				},
				Now: time.Now(),
			}
			return runEvaluate(c.App.Writer, goals, in)
		},
	}
}

// loadSnapshot reads a JSON object of weights. Keys may be canonical
// category names or raw food type labels; unknown labels land in MISC.
func loadSnapshot(r io.Reader) (domain.InventorySnapshot, error) {
	var raw map[string]float64
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	snapshot := domain.NewInventorySnapshot()
	for label, weight := range raw {
		if weight < 0 {
			return nil, fmt.Errorf("snapshot weight for %q is negative", label)
		}
		snapshot[resolveCategory(label)] += weight
	}

	return snapshot, nil
}

func runEvaluate(w io.Writer, goals domain.GoalTable, in alerts.Input) error {
	evaluator := compliance.NewEvaluator(goals, in.TargetCapacity)
	report := evaluator.Evaluate(in.Snapshot)
	feed := alerts.NewEngine(goals, nil).Evaluate(in)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tLBS\tCURRENT\tGOAL\tSTATUS\tSHORTFALL")

	order := append(append([]domain.Category{}, domain.PrimaryCategories...), domain.CategoryOther)
	for _, c := range order {
		cc, ok := report.Categories[c]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%.1f%%\t%.1f%%\t%s\t%s\n",
			c.Label(),
			units.Format(cc.CurrentWeight, domain.UnitPound),
			cc.CurrentPct,
			cc.GoalPct,
			cc.Status,
			units.Format(cc.Shortfall, domain.UnitPound),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nTotal: %s of %s (%s)\n",
		units.FormatWithUnit(report.GrandTotal, domain.UnitPound),
		units.FormatWithUnit(evaluator.Capacity(), domain.UnitPound),
		report.Summary())

	if len(feed) == 0 {
		_, err := fmt.Fprintln(w, "\nNo alerts.")
		return err
	}

	fmt.Fprintf(w, "\nAlerts (%d):\n", len(feed))
	for _, a := range feed {
		fmt.Fprintf(w, "  [%s] %s: %s\n", a.Severity, a.RuleID, a.Message)
		if a.Action != "" {
			fmt.Fprintf(w, "      -> %s\n", a.Action)
		}
	}

	return nil
}
