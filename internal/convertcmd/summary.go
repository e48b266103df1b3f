package convertcmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lehigh-university-libraries/coco2yolo/internal/config"
	"github.com/lehigh-university-libraries/coco2yolo/internal/manifest"
	"github.com/lehigh-university-libraries/coco2yolo/internal/yolo"
	"github.com/spf13/cobra"
)

// NewSummaryCmd creates the summary command
func NewSummaryCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarise a converted YOLO dataset from its manifest",
		Long: `Read manifest.parquet and data.yaml from a conversion output directory
and print how many images and label lines each class contributed.`,
		Example: `  # Summarise a previous run
  coco2yolo summary --output_path ./yolo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				outputPath = os.Getenv(config.EnvOutputPath)
			}
			if outputPath == "" {
				return fmt.Errorf("--%s is required", config.FlagOutputPath)
			}
			return executeSummary(cmd.OutOrStdout(), outputPath)
		},
	}

	cmd.Flags().StringVar(&outputPath, config.FlagOutputPath, "", "Path to converted YOLO dataset (required)")

	return cmd
}

type classSummary struct {
	id          int64
	name        string
	images      int
	annotations int64
}

func executeSummary(out io.Writer, outputPath string) error {
	rows, err := manifest.Read(filepath.Join(outputPath, manifest.FileName))
	if err != nil {
		return err
	}

	var classes []*classSummary
	byID := make(map[int64]*classSummary)
	for _, row := range rows {
		c, ok := byID[row.CategoryID]
		if !ok {
			c = &classSummary{id: row.CategoryID, name: row.CategoryName}
			byID[row.CategoryID] = c
			classes = append(classes, c)
		}
		c.images++
		c.annotations += row.Annotations
	}

	fmt.Fprintln(out, "========================================")
	fmt.Fprintf(out, "YOLO dataset: %s\n", outputPath)
	fmt.Fprintln(out, "========================================")

	cfg, err := yolo.ReadDataYAML(filepath.Join(outputPath, yolo.DataYAMLFile))
	if err == nil {
		fmt.Fprintf(out, "Train images: %s\n", cfg.Train)
		fmt.Fprintf(out, "Class names:  %d\n", len(cfg.Names))
	}

	var total int64
	for _, c := range classes {
		fmt.Fprintf(out, "  %-20s (%d): %d images, %d boxes\n", c.name, c.id, c.images, c.annotations)
		total += c.annotations
	}
	fmt.Fprintln(out, strings.Repeat("-", 40))
	fmt.Fprintf(out, "Total: %d images, %d boxes\n", len(rows), total)

	return nil
}
