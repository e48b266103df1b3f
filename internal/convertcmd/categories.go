package convertcmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/lehigh-university-libraries/coco2yolo/internal/coco"
	"github.com/lehigh-university-libraries/coco2yolo/internal/config"
	"github.com/spf13/cobra"
)

// NewCategoriesCmd creates the categories command
func NewCategoriesCmd() *cobra.Command {
	var cocoPath string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the categories in a COCO annotation file",
		Long: `List every category of the COCO train2017 annotation file with the
number of images that contain it.

Use the names printed here as values for --labels.`,
		Example: `  # List categories
  coco2yolo categories --coco_path ./coco`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cocoPath == "" {
				cocoPath = os.Getenv(config.EnvCocoPath)
			}
			if cocoPath == "" {
				return fmt.Errorf("--%s is required", config.FlagCocoPath)
			}
			return executeCategories(cmd.OutOrStdout(), cocoPath)
		},
	}

	cmd.Flags().StringVar(&cocoPath, config.FlagCocoPath, "", "Path to COCO dataset root (required)")

	return cmd
}

func executeCategories(out io.Writer, cocoPath string) error {
	idx, err := coco.NewLoader(coco.AnnotationPath(cocoPath)).Load()
	if err != nil {
		return fmt.Errorf("failed to load annotations: %w", err)
	}

	counts := idx.CategoryImageCounts()

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSUPERCATEGORY\tIMAGES")
	for _, cat := range idx.Categories() {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", cat.ID, cat.Name, cat.Supercategory, counts[cat.ID])
	}
	return w.Flush()
}
