package yolo

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/coco2yolo/internal/coco"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex() *coco.Index {
	return coco.NewIndex(coco.File{
		Images: []coco.Image{
			{ID: 1, FileName: "000000000001.jpg", Width: 100, Height: 200},
			{ID: 2, FileName: "000000000002.jpg", Width: 50, Height: 50},
			{ID: 3, FileName: "000000000003.jpg", Width: 10, Height: 10},
		},
		Annotations: []coco.Annotation{
			{ID: 1, ImageID: 1, CategoryID: 17, BBox: [4]float64{10, 20, 30, 40}},
			{ID: 2, ImageID: 1, CategoryID: 18, BBox: [4]float64{0, 0, 100, 200}},
			{ID: 3, ImageID: 2, CategoryID: 18, BBox: [4]float64{0, 0, 25, 25}},
		},
		Categories: []coco.Category{{ID: 17, Name: "cat"}, {ID: 18, Name: "dog"}},
	})
}

// setupCocoRoot writes fake image bytes for the given file names.
func setupCocoRoot(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "train2017")
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("jpeg:"+name), 0644))
	}
	return root
}

func TestExport(t *testing.T) {
	cocoRoot := setupCocoRoot(t, "000000000001.jpg", "000000000002.jpg")
	out := t.TempDir()

	exp := NewExporter(ExportConfig{CocoRoot: cocoRoot, OutputRoot: out})
	count, err := exp.Export(context.Background(), testIndex(), []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	data, err := os.ReadFile(filepath.Join(out, "images", "train", "000000000001.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg:000000000001.jpg", string(data))

	labels, err := os.ReadFile(filepath.Join(out, "labels", "train", "000000000001.txt"))
	require.NoError(t, err)
	assert.Equal(t, "17 0.25 0.2 0.3 0.2\n18 0.5 0.5 1 1\n", string(labels))

	labels, err = os.ReadFile(filepath.Join(out, "labels", "train", "000000000002.txt"))
	require.NoError(t, err)
	assert.Equal(t, "18 0.25 0.25 0.5 0.5\n", string(labels))

	_, err = os.Stat(filepath.Join(out, "images", "train", "000000000003.jpg"))
	assert.True(t, errors.Is(err, fs.ErrNotExist), "unselected image must not be copied")
}

func TestExportImageWithoutAnnotations(t *testing.T) {
	cocoRoot := setupCocoRoot(t, "000000000003.jpg")
	out := t.TempDir()

	exp := NewExporter(ExportConfig{CocoRoot: cocoRoot, OutputRoot: out})
	count, err := exp.Export(context.Background(), testIndex(), []int64{3})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	info, err := os.Stat(filepath.Join(out, "labels", "train", "000000000003.txt"))
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestExportOverwrites(t *testing.T) {
	cocoRoot := setupCocoRoot(t, "000000000002.jpg")
	out := t.TempDir()

	labelPath := filepath.Join(out, "labels", "train", "000000000002.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(labelPath), 0755))
	require.NoError(t, os.WriteFile(labelPath, []byte(strings.Repeat("stale line\n", 10)), 0644))

	exp := NewExporter(ExportConfig{CocoRoot: cocoRoot, OutputRoot: out})
	for i := 0; i < 2; i++ {
		_, err := exp.Export(context.Background(), testIndex(), []int64{2})
		require.NoError(t, err)
	}

	labels, err := os.ReadFile(labelPath)
	require.NoError(t, err)
	assert.Equal(t, "18 0.25 0.25 0.5 0.5\n", string(labels))
}

func TestExportMissingSourceImage(t *testing.T) {
	cocoRoot := setupCocoRoot(t, "000000000001.jpg")
	out := t.TempDir()

	exp := NewExporter(ExportConfig{CocoRoot: cocoRoot, OutputRoot: out})
	count, err := exp.Export(context.Background(), testIndex(), []int64{1, 2, 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Equal(t, 1, count)

	// output written before the failure stays on disk
	_, err = os.Stat(filepath.Join(out, "labels", "train", "000000000001.txt"))
	assert.NoError(t, err)
}

func TestExportUnknownImage(t *testing.T) {
	exp := NewExporter(ExportConfig{CocoRoot: t.TempDir(), OutputRoot: t.TempDir()})
	_, err := exp.Export(context.Background(), testIndex(), []int64{404})
	assert.Error(t, err)
}

func TestExportCanceled(t *testing.T) {
	cocoRoot := setupCocoRoot(t, "000000000001.jpg", "000000000002.jpg")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exp := NewExporter(ExportConfig{CocoRoot: cocoRoot, OutputRoot: t.TempDir()})
	count, err := exp.Export(ctx, testIndex(), []int64{1, 2})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, count)
}

func TestWriteDataYAML(t *testing.T) {
	out := t.TempDir()
	exp := NewExporter(ExportConfig{OutputRoot: out})

	path, err := exp.WriteDataYAML([]coco.Category{{ID: 17, Name: "cat"}, {ID: 18, Name: "dog"}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "data.yaml"), path)

	cfg, err := ReadDataYAML(path)
	require.NoError(t, err)
	assert.Equal(t, "images/train", cfg.Train)
	assert.Equal(t, "images/train", cfg.Val)
	assert.Equal(t, map[int64]string{17: "cat", 18: "dog"}, cfg.Names)
	assert.True(t, filepath.IsAbs(cfg.Path))
}
