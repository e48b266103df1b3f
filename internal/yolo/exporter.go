package yolo

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/coco2yolo/internal/coco"
)

const (
	// Split is the only bucket the exporter produces
	Split = "train"

	imagesDir = "images"
	labelsDir = "labels"
)

// Index is the subset of coco.Index the exporter reads from
type Index interface {
	Image(id int64) (coco.Image, bool)
	Annotations(imageID int64) []coco.Annotation
}

// ExportConfig configures an Exporter
type ExportConfig struct {
	// CocoRoot contains train2017/
	CocoRoot string
	// OutputRoot receives images/train and labels/train
	OutputRoot string
}

// Exporter copies images and writes YOLO label files
type Exporter struct {
	config ExportConfig
}

// NewExporter creates a new exporter
func NewExporter(config ExportConfig) *Exporter {
	return &Exporter{
		config: config,
	}
}

// ImagesDir returns <output>/images/train.
func (e *Exporter) ImagesDir() string {
	return filepath.Join(e.config.OutputRoot, imagesDir, Split)
}

// LabelsDir returns <output>/labels/train.
func (e *Exporter) LabelsDir() string {
	return filepath.Join(e.config.OutputRoot, labelsDir, Split)
}

// Export copies every selected image and writes its label file. It stops at
// the first error, leaving whatever was already written on disk. The returned
// count is the number of images fully exported.
func (e *Exporter) Export(ctx context.Context, idx Index, imageIDs []int64) (int, error) {
	if err := os.MkdirAll(e.ImagesDir(), 0755); err != nil {
		return 0, fmt.Errorf("failed to create images directory: %w", err)
	}
	if err := os.MkdirAll(e.LabelsDir(), 0755); err != nil {
		return 0, fmt.Errorf("failed to create labels directory: %w", err)
	}

	exported := 0
	for i, id := range imageIDs {
		if err := ctx.Err(); err != nil {
			return exported, err
		}

		img, ok := idx.Image(id)
		if !ok {
			return exported, fmt.Errorf("image %d not found in annotation index", id)
		}

		if err := e.exportImage(img, idx.Annotations(id)); err != nil {
			return exported, err
		}
		exported++

		if exported%1000 == 0 {
			slog.Info("Exporting images", "progress", fmt.Sprintf("%d/%d", i+1, len(imageIDs)))
		}
	}

	slog.Debug("Finished export", "images", exported, "output", e.config.OutputRoot)

	return exported, nil
}

func (e *Exporter) exportImage(img coco.Image, anns []coco.Annotation) error {
	src := coco.ImagePath(e.config.CocoRoot, img.FileName)
	dst := filepath.Join(e.ImagesDir(), img.FileName)
	if err := copyFile(src, dst); err != nil {
		return fmt.Errorf("failed to copy image %d: %w", img.ID, err)
	}

	boxes := make([]Box, 0, len(anns))
	for _, ann := range anns {
		boxes = append(boxes, FromCOCO(ann, img.Width, img.Height))
	}

	labelPath := filepath.Join(e.LabelsDir(), LabelFileName(img.FileName))
	if err := writeLabelFile(labelPath, boxes); err != nil {
		return fmt.Errorf("failed to write labels for image %d: %w", img.ID, err)
	}

	slog.Debug("Exported image", "id", img.ID, "file", img.FileName, "boxes", len(boxes))

	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeLabelFile(path string, boxes []Box) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)
	if err := WriteLabels(w, boxes); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
