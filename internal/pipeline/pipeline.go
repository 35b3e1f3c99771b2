// Package pipeline mirrors the image of every spreadsheet row to the media
// host and collects the augmented rows.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/productmedia/skuimages/internal/cloudinary"
	"github.com/productmedia/skuimages/internal/config"
	"github.com/productmedia/skuimages/internal/images"
	"github.com/productmedia/skuimages/internal/manifest"
	"github.com/productmedia/skuimages/internal/publicid"
	"github.com/productmedia/skuimages/internal/spreadsheet"
)

// Row validation failures. Rows failing validation are skipped, not attempted.
var (
	ErrMissingSKU   = errors.New("missing SKU")
	ErrMissingImage = errors.New("empty Image cell")
)

// Fetcher downloads the source image of a row.
type Fetcher interface {
	Fetch(ctx context.Context, url, referer string) (*images.Image, error)
}

// Uploader stores image bytes on the media host and returns its secure URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, contentType, publicID string) (string, error)
}

// Result is the outcome of a run. Rows and Records follow input order.
type Result struct {
	Columns   []string
	Rows      []spreadsheet.Row
	Records   []manifest.Record
	Attempted int
	Processed int
	Skipped   int
	Failed    int
}

// Pipeline processes rows one at a time, or with a bounded pool when
// cfg.Workers is above 1.
type Pipeline struct {
	cfg      config.Config
	fetcher  Fetcher
	uploader Uploader

	// Logger receives one line per row. Defaults to slog.Default().
	Logger *slog.Logger
	// Sleep is called with the throttle interval after each row in sequential
	// mode.
	Sleep func(ctx context.Context, d time.Duration)
}

type outcome struct {
	done   bool
	record manifest.Record
	row    *spreadsheet.Row
}

// New creates a pipeline for cfg.
func New(cfg config.Config, fetcher Fetcher, uploader Uploader) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		fetcher:  fetcher,
		uploader: uploader,
		Logger:   slog.Default(),
		Sleep:    sleepContext,
	}
}

// Run processes every row of table. Per-row problems are logged and counted,
// never returned. A canceled ctx stops the run before the next row starts and
// the rows finished so far are still returned.
func (p *Pipeline) Run(ctx context.Context, table *spreadsheet.Table) (*Result, error) {
	if table == nil {
		return nil, fmt.Errorf("pipeline: nil table")
	}

	outcomes := make([]outcome, len(table.Rows))
	if p.cfg.Workers > 1 {
		p.runPool(ctx, table.Rows, outcomes)
	} else {
		p.runSequential(ctx, table.Rows, outcomes)
	}

	result := &Result{Columns: spreadsheet.OutputColumns(table.Columns)}
	for _, o := range outcomes {
		if !o.done {
			continue
		}
		result.Records = append(result.Records, o.record)
		switch o.record.Status {
		case manifest.StatusSkipped:
			result.Skipped++
		case manifest.StatusFailed:
			result.Attempted++
			result.Failed++
		case manifest.StatusSucceeded:
			result.Attempted++
			result.Processed++
			result.Rows = append(result.Rows, *o.row)
		}
	}

	if err := ctx.Err(); err != nil {
		p.Logger.Warn("Run interrupted", "completed", len(result.Records), "total", len(table.Rows), "err", err)
	}

	return result, nil
}

func (p *Pipeline) runSequential(ctx context.Context, rows []spreadsheet.Row, outcomes []outcome) {
	for i, row := range rows {
		if ctx.Err() != nil {
			return
		}
		outcomes[i] = p.processRow(ctx, row)
		p.Sleep(ctx, p.cfg.Throttle)
	}
}

// runPool spreads rows over cfg.Workers goroutines. Row starts are paced by a
// token bucket refilled once per throttle interval.
func (p *Pipeline) runPool(ctx context.Context, rows []spreadsheet.Row, outcomes []outcome) {
	limit := rate.Inf
	if p.cfg.Throttle > 0 {
		limit = rate.Every(p.cfg.Throttle)
	}
	limiter := rate.NewLimiter(limit, 1)

	var g errgroup.Group
	g.SetLimit(p.cfg.Workers)

	for i, row := range rows {
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		g.Go(func() error {
			// each goroutine owns outcomes[i]
			outcomes[i] = p.processRow(ctx, row)
			return nil
		})
	}

	_ = g.Wait()
}

func (p *Pipeline) processRow(ctx context.Context, row spreadsheet.Row) outcome {
	sku := row.Get(spreadsheet.ColumnSKU)
	imageURL := row.Get(spreadsheet.ColumnImage)

	record := manifest.Record{
		Row:       row.Number,
		SKU:       sku,
		SourceURL: imageURL,
	}

	if err := ValidateRow(row); err != nil {
		if errors.Is(err, ErrMissingSKU) {
			p.Logger.Warn("Missing SKU, skipping", "row", row.Number)
		} else {
			p.Logger.Warn("Empty Image cell, skipping", "row", row.Number, "sku", sku)
		}
		record.Status = manifest.StatusSkipped
		record.Error = err.Error()
		return outcome{done: true, record: record}
	}

	id := PublicID(row, p.cfg.PreferAltText)
	record.PublicID = id

	secureURL, err := p.upload(ctx, imageURL, id, row.Get(spreadsheet.ColumnStartingURL))
	if err != nil {
		p.logFailure(row.Number, sku, err)
		record.Status = manifest.StatusFailed
		record.Error = err.Error()
		return outcome{done: true, record: record}
	}

	finalURL := cloudinary.TransformURL(secureURL, p.cfg.Transform)
	record.SecureURL = secureURL
	record.ImageSrc = finalURL
	record.Status = manifest.StatusSucceeded

	out := row.
		With(spreadsheet.ColumnVariantSKU, sku).
		With(spreadsheet.ColumnImageSrc, finalURL)

	p.Logger.Info("Row uploaded", "row", row.Number, "sku", sku, "public_id", id, "url", finalURL)

	return outcome{done: true, record: record, row: &out}
}

// upload fetches imageURL and stores it on the media host under id.
func (p *Pipeline) upload(ctx context.Context, imageURL, id, referer string) (string, error) {
	img, err := p.fetcher.Fetch(ctx, imageURL, referer)
	if err != nil {
		return "", err
	}
	return p.uploader.Upload(ctx, img.Data, img.ContentType, id)
}

func (p *Pipeline) logFailure(rowNum int, sku string, err error) {
	attrs := []any{"row", rowNum, "sku", sku, "err", err}

	var fetchErr *images.FetchError
	var uploadErr *cloudinary.UploadError
	switch {
	case errors.As(err, &fetchErr):
		attrs = append(attrs, "stage", "fetch", "status", fetchErr.StatusCode)
	case errors.As(err, &uploadErr):
		attrs = append(attrs, "stage", "upload", "status", uploadErr.StatusCode)
	}

	p.Logger.Error("Row failed", attrs...)
}

// ValidateRow reports why a row cannot be uploaded, or nil.
func ValidateRow(row spreadsheet.Row) error {
	if row.Get(spreadsheet.ColumnSKU) == "" {
		return ErrMissingSKU
	}
	if row.Get(spreadsheet.ColumnImage) == "" {
		return ErrMissingImage
	}
	return nil
}

// PublicID derives the media host ID for a valid row.
func PublicID(row spreadsheet.Row, preferAltText bool) string {
	return publicid.Choose(
		row.Get(spreadsheet.ColumnImageAltText),
		row.Get(spreadsheet.ColumnProductName),
		row.Get(spreadsheet.ColumnSKU),
		preferAltText,
	)
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
