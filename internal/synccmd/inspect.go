package synccmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/productmedia/skuimages/internal/config"
	"github.com/productmedia/skuimages/internal/pipeline"
	"github.com/productmedia/skuimages/internal/spreadsheet"
)

func executeInspect(out io.Writer, cfg config.Config, limit int) error {
	table, err := spreadsheet.Load(cfg.SourcePath, cfg.SourceSheet)
	if err != nil {
		return err
	}

	rows := table.Rows
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ROW\tSKU\tSTATUS\tPUBLIC ID")

	ready := 0
	for _, row := range rows {
		status, id := "ready", ""
		if err := pipeline.ValidateRow(row); err != nil {
			status = "skip: " + err.Error()
		} else {
			ready++
			id = pipeline.PublicID(row, cfg.PreferAltText)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", row.Number, row.Get(spreadsheet.ColumnSKU), status, id)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write inspection table: %w", err)
	}

	fmt.Fprintf(out, "\n%d of %d rows would be uploaded\n", ready, len(rows))
	return nil
}
