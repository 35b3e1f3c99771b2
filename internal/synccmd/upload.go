// Package synccmd implements the skuimages subcommands.
package synccmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/productmedia/skuimages/internal/cloudinary"
	"github.com/productmedia/skuimages/internal/config"
	"github.com/productmedia/skuimages/internal/images"
	"github.com/productmedia/skuimages/internal/manifest"
	"github.com/productmedia/skuimages/internal/pipeline"
	"github.com/productmedia/skuimages/internal/spreadsheet"
)

func executeUpload(ctx context.Context, out io.Writer, cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	slog.Info("Loading source sheet", "path", cfg.SourcePath, "sheet", cfg.SourceSheet)
	table, err := spreadsheet.Load(cfg.SourcePath, cfg.SourceSheet)
	if err != nil {
		return err
	}
	slog.Info("Source sheet loaded", "rows", len(table.Rows), "columns", len(table.Columns))

	fetcher := images.NewFetcher(cfg.FetchTimeout)
	uploader := cloudinary.NewClient(cloudinary.Options{
		CloudName: cfg.CloudName,
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
		Folder:    cfg.Folder,
		BaseURL:   cfg.APIBaseURL,
		Timeout:   cfg.UploadTimeout,
	})

	result, err := pipeline.New(cfg, fetcher, uploader).Run(ctx, table)
	if err != nil {
		return fmt.Errorf("failed to process rows: %w", err)
	}

	if cfg.ManifestPath != "" {
		info := manifest.RunInfo{
			Source:    cfg.SourcePath,
			Sheet:     cfg.SourceSheet,
			Folder:    cfg.Folder,
			Transform: cfg.Transform,
			Attempted: result.Attempted,
			Processed: result.Processed,
		}
		if len(result.Rows) > 0 {
			info.Dest = cfg.DestPath
		}
		if err := manifest.Save(cfg.ManifestPath, info, result.Records); err != nil {
			// the report is secondary to the output sheet
			slog.Error("Failed to write manifest", "path", cfg.ManifestPath, "err", err)
		} else {
			slog.Info("Manifest written", "path", cfg.ManifestPath, "records", len(result.Records))
		}
	}

	if len(result.Rows) == 0 {
		fmt.Fprintf(out, "\nDone. Attempted: %d, Processed: %d\n", result.Attempted, result.Processed)
		fmt.Fprintln(out, "No rows processed; nothing to write.")
		return nil
	}

	if err := spreadsheet.Write(cfg.DestPath, cfg.DestSheet, result.Columns, result.Rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", cfg.DestPath, err)
	}

	fmt.Fprintf(out, "\nDone. Attempted: %d, Processed: %d\n", result.Attempted, result.Processed)
	if result.Skipped > 0 || result.Failed > 0 {
		fmt.Fprintf(out, "  Skipped: %d, Failed: %d\n", result.Skipped, result.Failed)
	}
	fmt.Fprintf(out, "Output written to: %s\n", cfg.DestPath)

	return nil
}
