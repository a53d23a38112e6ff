// Package ingest parses bulk-pasted intake rows and uploaded intake files.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/domain"
	"github.com/andresuchdata/foodbank-tracker/backend-go/internal/units"
)

// SkippedRow is a line that could not become an item.
type SkippedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Result holds the parsed items and the rows that were dropped.
type Result struct {
	Items   []domain.TransactionItem
	Skipped []SkippedRow
}

// ParseBulk reads rows of food_type,quantity,unit[,expiration]. Tab
// separated input (pasted from a spreadsheet) is detected from the first
// line, and a header row is skipped. Malformed quantities read as 0 and
// unparseable expiration dates are dropped; rows without a food type, with
// an unknown unit or with broken quoting are skipped.
func ParseBulk(r io.Reader) (Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("read bulk input: %w", err)
	}
	text := strings.TrimPrefix(string(raw), "\ufeff")

	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	if first, _, _ := strings.Cut(text, "\n"); strings.Contains(first, "\t") {
		reader.Comma = '\t'
	}

	var res Result
	for first := true; ; first = false {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			res.Skipped = append(res.Skipped, SkippedRow{Line: parseErr.StartLine, Reason: parseErr.Err.Error()})
			continue
		}
		if err != nil {
			return res, fmt.Errorf("parse bulk input: %w", err)
		}

		line, _ := reader.FieldPos(0)
		res.add(record, line, first)
	}

	return res, nil
}

// add parses one record into res. line is 1-based.
func (res *Result) add(record []string, line int, first bool) {
	if first && isHeader(record) {
		return
	}
	if blank(record) {
		return
	}

	item, reason := parseRow(record)
	if reason != "" {
		res.Skipped = append(res.Skipped, SkippedRow{Line: line, Reason: reason})
		return
	}
	res.Items = append(res.Items, item)
}

func parseRow(record []string) (domain.TransactionItem, string) {
	field := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	foodType := field(0)
	if foodType == "" {
		return domain.TransactionItem{}, "missing food type"
	}

	unit, ok := domain.ParseEntryUnit(field(2))
	if !ok {
		return domain.TransactionItem{}, fmt.Sprintf("unknown unit %q", field(2))
	}

	item := domain.TransactionItem{
		FoodType: foodType,
		Quantity: units.ParseQuantity(field(1)),
		Unit:     unit,
	}
	if exp, err := time.Parse(time.DateOnly, field(3)); err == nil {
		item.ExpirationDate = &exp
	}

	return item, ""
}

func isHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "food_type")
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
