package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/lehigh-university-libraries/coco2yolo/internal/config"
	"github.com/lehigh-university-libraries/coco2yolo/internal/convertcmd"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cfg := &config.Config{}

	cmd := &cobra.Command{
		Use:   "coco2yolo",
		Short: "Create a class-balanced YOLO dataset from COCO",
		Long: `coco2yolo selects up to --n_samples images for each requested COCO category,
copies them and writes YOLO label files next to them.

An image is only ever selected for one category. Categories are served in the
order they are given to --labels, so earlier labels get first pick of images
that contain several requested categories.`,
		Example: `  # 500 images each of cats and dogs
  coco2yolo --coco_path ./coco --output_path ./yolo --labels cat,dog --n_samples 500

  # Reproducible selection
  coco2yolo --coco_path ./coco --output_path ./yolo --labels person --seed 42`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			setupLogging(cfg.Verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return convertcmd.Run(cmd, cfg)
		},
	}

	cmd.PersistentFlags().BoolVar(&cfg.Verbose, "verbose", false, "Verbose logging")
	convertcmd.BindFlags(cmd.Flags(), cfg)

	// Add subcommands
	cmd.AddCommand(convertcmd.NewCategoriesCmd())
	cmd.AddCommand(convertcmd.NewSummaryCmd())

	return cmd
}

func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
