package ingest

import (
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const expirationColumn = 3

// ParseFile picks a decoder from the file name: .xlsx workbooks go through
// ParseWorkbook and everything else is read as delimited text.
func ParseFile(name string, r io.Reader) (Result, error) {
	if strings.EqualFold(path.Ext(name), ".xlsx") {
		return ParseWorkbook(r)
	}
	return ParseBulk(r)
}

// ParseWorkbook reads the first sheet of an XLSX workbook with the same row
// layout as ParseBulk. Date-formatted expiration cells are converted from
// their serial value.
func ParseWorkbook(r io.Reader) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Result{}, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return Result{}, fmt.Errorf("read rows from sheet %s: %w", sheet, err)
	}

	var res Result
	for i, record := range rows {
		if len(record) > expirationColumn {
			record[expirationColumn] = cellDate(record[expirationColumn])
		}
		res.add(record, i+1, i == 0)
	}
	return res, nil
}

// cellDate turns a raw serial date into YYYY-MM-DD and leaves text alone.
func cellDate(raw string) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return raw
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return raw
	}
	return t.Format(time.DateOnly)
}
