package cmd

import (
	"github.com/joho/godotenv"
	"github.com/productmedia/skuimages/internal/synccmd"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skuimages",
		Short: "Mirror product images to a media host and add delivery URLs to the sheet",
		Long: `skuimages reads a product spreadsheet, uploads the image referenced by every
row to the media host under a readable public ID, and writes the sheet back
with Variant SKU and Image Src columns ready for a storefront import.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(synccmd.NewUploadCmd())
	cmd.AddCommand(synccmd.NewInspectCmd())

	return cmd
}
