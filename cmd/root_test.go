package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/lehigh-university-libraries/coco2yolo/internal/coco"
)

func TestRootCommandConverts(t *testing.T) {
	cocoRoot := t.TempDir()
	f := coco.File{
		Images:      []coco.Image{{ID: 1, FileName: "000000000001.jpg", Width: 100, Height: 200}},
		Annotations: []coco.Annotation{{ID: 1, ImageID: 1, CategoryID: 17, BBox: [4]float64{10, 20, 30, 40}}},
		Categories:  []coco.Category{{ID: 17, Name: "cat"}},
	}
	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("Failed to marshal annotations: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(cocoRoot, "annotations"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(coco.AnnotationPath(cocoRoot), data, 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(cocoRoot, "train2017"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(coco.ImagePath(cocoRoot, "000000000001.jpg"), []byte("jpeg"), 0644); err != nil {
		t.Fatal(err)
	}

	out := t.TempDir()
	root := NewRootCmd()
	var stdout bytes.Buffer
	root.SetOut(&stdout)
	root.SetArgs([]string{
		"--coco_path", cocoRoot,
		"--output_path", out,
		"--labels", "cat",
		"--n_samples", "5",
		"--seed", "1",
		"--manifest=false",
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	label, err := os.ReadFile(filepath.Join(out, "labels", "train", "000000000001.txt"))
	if err != nil {
		t.Fatalf("Expected label file: %v", err)
	}
	if string(label) != "17 0.25 0.2 0.3 0.2\n" {
		t.Errorf("Unexpected label content: %q", label)
	}

	if _, err := os.Stat(filepath.Join(out, "manifest.parquet")); !os.IsNotExist(err) {
		t.Error("Expected no manifest when --manifest=false")
	}
}

func TestRootCommandRequiresFlags(t *testing.T) {
	t.Setenv("COCO_PATH", "")
	t.Setenv("YOLO_OUTPUT_PATH", "")
	t.Setenv("COCO_LABELS", "")

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--labels", "cat"})

	if err := root.Execute(); err == nil {
		t.Error("Expected error when --coco_path is missing, got nil")
	}
}

func TestSubcommands(t *testing.T) {
	root := NewRootCmd()

	for _, name := range []string{"categories", "summary"} {
		found, _, err := root.Find([]string{name})
		if err != nil || found.Name() != name {
			t.Errorf("Expected subcommand %s, got %v (err=%v)", name, found, err)
		}
	}
}
