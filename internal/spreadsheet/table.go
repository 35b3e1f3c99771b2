// Package spreadsheet loads product sheets and writes the augmented output.
package spreadsheet

import (
	"errors"
	"fmt"
	"strings"
)

// Column names the job reads or adds.
const (
	ColumnSKU          = "SKU"
	ColumnImage        = "Image"
	ColumnImageAltText = "Image Alt Text"
	ColumnProductName  = "Product Name"
	ColumnStartingURL  = "Starting Url"
	ColumnVariantSKU   = "Variant SKU"
	ColumnImageSrc     = "Image Src"
)

// RequiredColumns must be present in every source sheet.
var RequiredColumns = []string{ColumnSKU, ColumnImage}

// ErrInput marks failures that abort the whole run before any row is processed.
var ErrInput = errors.New("invalid input")

// MissingColumnError reports a required column absent from the header row.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("source file must contain column: '%s'", e.Column)
}

func (e *MissingColumnError) Unwrap() error { return ErrInput }

// Table is a sheet held in memory with its columns in source order.
type Table struct {
	Columns []string
	Rows    []Row
}

// Row is one record. Number is the 1-based sheet row, so the first data row
// under the header is 2.
type Row struct {
	Number int
	Values map[string]string
}

// Get returns the cell for column, or "" when the column does not exist.
func (r Row) Get(column string) string {
	return r.Values[column]
}

// With returns a copy of r with column set to value.
func (r Row) With(column, value string) Row {
	values := make(map[string]string, len(r.Values)+1)
	for k, v := range r.Values {
		values[k] = v
	}
	values[column] = value
	return Row{Number: r.Number, Values: values}
}

// HasColumn reports whether the header row contains column.
func (t *Table) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Validate checks that every required column exists.
func (t *Table) Validate() error {
	for _, col := range RequiredColumns {
		if !t.HasColumn(col) {
			return &MissingColumnError{Column: col}
		}
	}
	return nil
}

// OutputColumns returns the source columns in order followed by Variant SKU
// and Image Src, skipping either one the source already has.
func OutputColumns(source []string) []string {
	out := make([]string, 0, len(source)+2)
	out = append(out, source...)

	seen := make(map[string]bool, len(source))
	for _, c := range source {
		seen[c] = true
	}
	for _, c := range []string{ColumnVariantSKU, ColumnImageSrc} {
		if !seen[c] {
			out = append(out, c)
		}
	}
	return out
}

// CellString cleans a raw cell value: surrounding whitespace is removed and the
// spreadsheet "not a number" marker counts as empty.
func CellString(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}

func headerNames(raw []string) []string {
	names := make([]string, len(raw))
	counts := make(map[string]int, len(raw))
	for i, h := range raw {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n := counts[name]; n > 0 {
			counts[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		} else {
			counts[name] = 1
		}
		names[i] = name
	}
	return names
}

func buildTable(records [][]string) *Table {
	if len(records) == 0 {
		return &Table{}
	}

	table := &Table{Columns: headerNames(records[0])}
	for i, record := range records[1:] {
		values := make(map[string]string, len(table.Columns))
		blank := true
		for j, col := range table.Columns {
			v := ""
			if j < len(record) {
				v = CellString(record[j])
			}
			if v != "" {
				blank = false
			}
			values[col] = v
		}
		if blank {
			continue
		}
		table.Rows = append(table.Rows, Row{Number: i + 2, Values: values})
	}
	return table
}
