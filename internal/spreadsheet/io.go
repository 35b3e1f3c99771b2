package spreadsheet

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the sheet name used when none is configured.
const DefaultSheet = "Sheet1"

// Load reads sheet from path and checks the required columns. CSV files have a
// single table, so sheet is ignored for them. Every error wraps ErrInput.
func Load(path, sheet string) (*Table, error) {
	var (
		records [][]string
		err     error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		records, err = readWorkbook(path, sheet)
	case ".csv":
		records, err = readCSV(path)
	default:
		return nil, fmt.Errorf("%w: unsupported file format: %s (supported: .xlsx, .xlsm, .csv)", ErrInput, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: error reading %s: %w", ErrInput, path, err)
	}

	table := buildTable(records)
	if err := table.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("Loaded sheet", "path", path, "sheet", sheet, "columns", len(table.Columns), "rows", len(table.Rows))

	return table, nil
}

// Write stores rows under columns in a new file at path. Cells missing from a
// row are written empty.
func Write(path, sheet string, columns []string, rows []Row) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return writeWorkbook(path, sheet, columns, rows)
	case ".csv":
		return writeCSV(path, columns, rows)
	default:
		return fmt.Errorf("unsupported output format: %s (supported: .xlsx, .xlsm, .csv)", ext)
	}
}

func readWorkbook(path, sheet string) ([][]string, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func writeWorkbook(path, sheet string, columns []string, rows []Row) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	}

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name for row %d: %w", i+2, err)
		}
		values := make([]interface{}, len(columns))
		for j, c := range columns {
			values[j] = row.Get(c)
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeCSV(path string, columns []string, rows []Row) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	w := csv.NewWriter(out)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		record := make([]string, len(columns))
		for j, c := range columns {
			record[j] = row.Get(c)
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", row.Number, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return out.Close()
}
