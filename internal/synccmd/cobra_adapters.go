package synccmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/productmedia/skuimages/internal/config"
)

// runFlags holds the command-line overrides shared by upload and inspect.
type runFlags struct {
	configPath    string
	folder        string
	preferAltText bool
	throttle      time.Duration
	transform     string
	source        string
	sourceSheet   string
	dest          string
	destSheet     string
	workers       int
	manifest      string
	verbose       bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	d := config.Default()

	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to a YAML settings file")
	cmd.Flags().StringVar(&f.source, "source", d.SourcePath, "Source spreadsheet (.xlsx or .csv)")
	cmd.Flags().StringVar(&f.sourceSheet, "sheet", d.SourceSheet, "Sheet to read from the source workbook")
	cmd.Flags().BoolVar(&f.preferAltText, "prefer-alt-text", d.PreferAltText, "Derive public IDs from the Image Alt Text column first")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "Verbose logging")
}

func (f *runFlags) registerUpload(cmd *cobra.Command) {
	d := config.Default()

	f.register(cmd)
	cmd.Flags().StringVar(&f.dest, "dest", d.DestPath, "Output spreadsheet (.xlsx or .csv)")
	cmd.Flags().StringVar(&f.destSheet, "dest-sheet", d.DestSheet, "Sheet name in the output workbook")
	cmd.Flags().StringVar(&f.folder, "folder", d.Folder, "Media host folder for uploaded assets")
	cmd.Flags().StringVar(&f.transform, "transform", d.Transform, "Delivery transformation inserted into every Image Src URL")
	cmd.Flags().DurationVar(&f.throttle, "throttle", d.Throttle, "Pause after each row")
	cmd.Flags().IntVar(&f.workers, "workers", d.Workers, "Rows processed in parallel (1 keeps the run sequential)")
	cmd.Flags().StringVar(&f.manifest, "manifest", "", "Write a per-row report (.yaml, .parquet or .jsonl)")
}

// resolve builds the run configuration: defaults, then the YAML file, then the
// environment, then flags the user actually set.
func (f *runFlags) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()

	if f.configPath != "" {
		if err := cfg.LoadFile(f.configPath); err != nil {
			return cfg, err
		}
	}
	cfg.ApplyEnv(os.Getenv)

	changed := cmd.Flags().Changed
	if changed("source") {
		cfg.SourcePath = f.source
	}
	if changed("sheet") {
		cfg.SourceSheet = f.sourceSheet
	}
	if changed("prefer-alt-text") {
		cfg.PreferAltText = f.preferAltText
	}
	if changed("dest") {
		cfg.DestPath = f.dest
	}
	if changed("dest-sheet") {
		cfg.DestSheet = f.destSheet
	}
	if changed("folder") {
		cfg.Folder = f.folder
	}
	if changed("transform") {
		cfg.Transform = f.transform
	}
	if changed("throttle") {
		cfg.Throttle = f.throttle
	}
	if changed("workers") {
		cfg.Workers = f.workers
	}
	if changed("manifest") {
		cfg.ManifestPath = f.manifest
	}

	return cfg, nil
}

// NewUploadCmd creates the upload command
func NewUploadCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload every row's image and write the augmented spreadsheet",
		Long: `Reads the source sheet, downloads the image referenced by each row, uploads it
to the media host under a public ID derived from the row, and writes every
successful row to the output sheet with two extra columns:

  Variant SKU  copy of SKU
  Image Src    delivery URL with the configured transformation

Credentials come from CLOUD_NAME, CLOUD_API_KEY and CLOUD_API_SECRET (a .env
file in the working directory is loaded automatically).`,
		Example: `  # Process source.xlsx into final_output.xlsx with default settings
  skuimages upload

  # Read another sheet and keep a parquet report of every row
  skuimages upload --source parts.xlsx --sheet Parts --manifest runs/parts.parquet

  # Use settings from a file, overriding the output path
  skuimages upload --config skuimages.yaml --dest out.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(flags.verbose)

			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			return executeUpload(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	flags.registerUpload(cmd)

	return cmd
}

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var flags runFlags
	var limit int

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the public ID each row would get, without uploading",
		Long: `Loads the source sheet and prints, for each row, whether it would be skipped and
which public ID it would be uploaded under. No network requests are made and
no credentials are needed.`,
		Example: `  # Preview the first 20 rows
  skuimages inspect --source source.xlsx --limit 20

  # Preview IDs derived from product names only
  skuimages inspect --prefer-alt-text=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(flags.verbose)

			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			return executeInspect(cmd.OutOrStdout(), cfg, limit)
		},
	}

	flags.register(cmd)
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of rows to show (0 for all)")

	return cmd
}
