package convertcmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/lehigh-university-libraries/coco2yolo/internal/coco"
	"github.com/lehigh-university-libraries/coco2yolo/internal/config"
	"github.com/lehigh-university-libraries/coco2yolo/internal/manifest"
	"github.com/lehigh-university-libraries/coco2yolo/internal/sampler"
	"github.com/lehigh-university-libraries/coco2yolo/internal/yolo"
)

// Result summarises a conversion run
type Result struct {
	Seed      uint64
	Selection *sampler.Selection
	Exported  int
}

func executeConvert(ctx context.Context, out io.Writer, cfg config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	labels := cfg.LabelList()
	slog.Info("Starting conversion", "coco", cfg.CocoPath, "output", cfg.OutputPath, "labels", labels, "n_samples", cfg.NSamples)

	slog.Info("Loading COCO annotations...")
	idx, err := coco.NewLoader(cfg.AnnotationPath()).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load annotations: %w", err)
	}

	candidates := idx.ImageIDs()
	slog.Info("Annotations loaded", "images", len(candidates), "categories", len(idx.Categories()))

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	slog.Info("Sampling images", "seed", seed)

	sel := sampler.Select(idx, candidates, labels, cfg.NSamples, sampler.Options{
		Rand: sampler.NewRand(seed),
	})

	for _, label := range sel.Unresolved {
		fmt.Fprintf(out, "Class '%s' not found in annotations, skipped.\n", label)
	}
	for _, class := range sel.Classes {
		fmt.Fprintf(out, "Class '%s' (%d): %d unique images selected.\n", class.Name, class.CategoryID, len(class.ImageIDs))
	}

	exp := yolo.NewExporter(yolo.ExportConfig{
		CocoRoot:   cfg.CocoPath,
		OutputRoot: cfg.OutputPath,
	})

	exported, err := exp.Export(ctx, idx, sel.ImageIDs())
	if err != nil {
		return nil, fmt.Errorf("export stopped after %d images: %w", exported, err)
	}

	if cfg.WriteDataYAML {
		path, err := exp.WriteDataYAML(idx.Categories())
		if err != nil {
			return nil, err
		}
		slog.Info("Wrote dataset config", "path", path)
	}

	if cfg.WriteManifest {
		path := filepath.Join(cfg.OutputPath, manifest.FileName)
		if err := manifest.Write(path, manifest.Build(idx, sel)); err != nil {
			return nil, err
		}
		slog.Info("Wrote manifest", "path", path)
	}

	fmt.Fprintf(out, "Total: %d images selected.\n", sel.Total())

	return &Result{
		Seed:      seed,
		Selection: sel,
		Exported:  exported,
	}, nil
}
