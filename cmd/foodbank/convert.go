package main

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/category"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/units"
)

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Convert a quantity between units using the default weight tables",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "quantity", Required: true, Usage: "Quantity to convert"},
			&cli.StringFlag{Name: "unit", Required: true, Usage: "Source unit (lbs, case, pallet, box, bag)"},
			&cli.StringFlag{Name: "category", Usage: "Category or food type label"},
			&cli.StringFlag{Name: "to", Value: "POUND", Usage: "Target unit"},
		},
		Action: func(c *cli.Context) error {
			return runConvert(c.App.Writer, c.String("quantity"), c.String("unit"), c.String("category"), c.String("to"))
		},
	}
}

func runConvert(w io.Writer, rawQuantity, rawFrom, rawCategory, rawTo string) error {
	from, ok := domain.ParseUnit(rawFrom)
	if !ok {
		return fmt.Errorf("unknown unit %q", rawFrom)
	}
	to, ok := domain.ParseUnit(rawTo)
	if !ok {
		return fmt.Errorf("unknown unit %q", rawTo)
	}

	c := resolveCategory(rawCategory)
	quantity := units.ParseQuantity(rawQuantity)
	result := units.DefaultConverter().Convert(quantity, from, to, c)

	label := "base weight"
	if c != "" {
		label = c.Label()
	}

	_, err := fmt.Fprintf(w, "%s = %s (%s)\n",
		units.FormatWithUnit(quantity, from), units.FormatWithUnit(result, to), label)
	return err
}

// resolveCategory accepts either a category name or a food type label.
func resolveCategory(raw string) domain.Category {
	if raw == "" {
		return ""
	}
	if c, ok := domain.ParseCategory(raw); ok {
		return c
	}
	return category.Resolve(raw)
}
