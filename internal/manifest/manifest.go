// Package manifest records which images a conversion run exported, and for
// which class, as a parquet file next to the YOLO output.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/coco2yolo/internal/coco"
	"github.com/lehigh-university-libraries/coco2yolo/internal/sampler"
	"github.com/lehigh-university-libraries/coco2yolo/internal/yolo"
	"github.com/parquet-go/parquet-go"
)

// FileName is the manifest's name under the output root
const FileName = "manifest.parquet"

// Row describes one exported image
type Row struct {
	ImageID      int64  `parquet:"image_id"`
	FileName     string `parquet:"file_name"`
	LabelFile    string `parquet:"label_file"`
	Width        int64  `parquet:"width"`
	Height       int64  `parquet:"height"`
	CategoryID   int64  `parquet:"category_id"`   // class that claimed the image
	CategoryName string `parquet:"category_name"`
	Annotations  int64  `parquet:"annotations"` // label lines written
}

// Index is the subset of coco.Index needed to build rows
type Index interface {
	Image(id int64) (coco.Image, bool)
	Annotations(imageID int64) []coco.Annotation
}

// Build creates one row per selected image, in selection order.
func Build(idx Index, sel *sampler.Selection) []Row {
	rows := make([]Row, 0, sel.Total())
	for _, class := range sel.Classes {
		for _, id := range class.ImageIDs {
			img, ok := idx.Image(id)
			if !ok {
				slog.Warn("Selected image missing from index", "id", id)
				continue
			}
			rows = append(rows, Row{
				ImageID:      img.ID,
				FileName:     img.FileName,
				LabelFile:    yolo.LabelFileName(img.FileName),
				Width:        int64(img.Width),
				Height:       int64(img.Height),
				CategoryID:   class.CategoryID,
				CategoryName: class.Name,
				Annotations:  int64(len(idx.Annotations(id))),
			})
		}
	}
	return rows
}

// Write stores rows at path, replacing any existing file.
func Write(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create manifest directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest file: %w", err)
	}
	defer file.Close()

	writer := parquet.NewGenericWriter[Row](file)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("failed to write manifest rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize manifest: %w", err)
	}

	slog.Debug("Wrote manifest", "path", path, "rows", len(rows))

	return file.Close()
}

// Read loads every row of a manifest file.
func Read(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	reader := parquet.NewGenericReader[Row](pf)
	defer reader.Close()

	records := make([]Row, 0, pf.NumRows())
	batch := make([]Row, 128)
	for {
		n, err := reader.Read(batch)
		records = append(records, batch[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest rows: %w", err)
		}
	}

	return records, nil
}
