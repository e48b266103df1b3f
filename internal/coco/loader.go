package coco

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	// AnnotationsDir is the directory under the COCO root holding annotation files
	AnnotationsDir = "annotations"

	// TrainAnnotations is the detection annotation file for the train2017 split
	TrainAnnotations = "instances_train2017.json"

	// TrainImagesDir is the directory under the COCO root holding train2017 images
	TrainImagesDir = "train2017"
)

// AnnotationPath returns <root>/annotations/instances_train2017.json.
func AnnotationPath(root string) string {
	return filepath.Join(root, AnnotationsDir, TrainAnnotations)
}

// ImagePath returns <root>/train2017/<fileName>.
func ImagePath(root, fileName string) string {
	return filepath.Join(root, TrainImagesDir, fileName)
}

// Loader reads a COCO annotation file from disk
type Loader struct {
	annotationPath string
}

// NewLoader creates a loader for the given annotation file
func NewLoader(annotationPath string) *Loader {
	return &Loader{
		annotationPath: annotationPath,
	}
}

// Load parses the annotation file and builds an Index from it
func (l *Loader) Load() (*Index, error) {
	ext := strings.ToLower(filepath.Ext(l.annotationPath))
	if ext != ".json" {
		return nil, fmt.Errorf("unsupported annotation format: %s (supported: .json)", ext)
	}

	slog.Debug("Opening annotation file", "path", l.annotationPath)

	file, err := os.Open(l.annotationPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open annotation file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	slog.Debug("Annotation file stats", "size_bytes", info.Size(), "size_mb", info.Size()/1024/1024)

	var f File
	if err := json.NewDecoder(file).Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse annotation file %s: %w", l.annotationPath, err)
	}

	idx := NewIndex(f)

	slog.Debug("Finished reading annotation file",
		"images", len(f.Images),
		"annotations", len(f.Annotations),
		"categories", len(f.Categories))

	return idx, nil
}
