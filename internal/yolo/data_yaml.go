package yolo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/lehigh-university-libraries/coco2yolo/internal/coco"
	"gopkg.in/yaml.v3"
)

// DataYAMLFile is the dataset description file read by YOLO trainers
const DataYAMLFile = "data.yaml"

// DataConfig is the layout of data.yaml. Class ids are the COCO category
// ids, passed through unchanged. Val points at the train images since only
// one split is produced.
type DataConfig struct {
	Path  string           `yaml:"path"`
	Train string           `yaml:"train"`
	Val   string           `yaml:"val"`
	Names map[int64]string `yaml:"names"`
}

// WriteDataYAML writes <output>/data.yaml naming the given categories and
// returns the path written.
func (e *Exporter) WriteDataYAML(categories []coco.Category) (string, error) {
	root, err := filepath.Abs(e.config.OutputRoot)
	if err != nil {
		root = e.config.OutputRoot
	}

	trainDir := filepath.ToSlash(filepath.Join(imagesDir, Split))
	cfg := DataConfig{
		Path:  root,
		Train: trainDir,
		Val:   trainDir,
		Names: make(map[int64]string, len(categories)),
	}
	for _, cat := range categories {
		cfg.Names[cat.ID] = cat.Name
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err := os.MkdirAll(e.config.OutputRoot, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(e.config.OutputRoot, DataYAMLFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}

	return path, nil
}

// ReadDataYAML parses a data.yaml file.
func ReadDataYAML(path string) (*DataConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file: %w", err)
	}

	var cfg DataConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML file: %w", err)
	}
	return &cfg, nil
}
