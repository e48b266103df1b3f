// Package yolo writes COCO images and annotations out as a YOLO training set.
package yolo

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/coco2yolo/internal/coco"
)

// Box is a YOLO bounding box: center and size normalized by image dimensions
type Box struct {
	ClassID int64
	XCenter float64
	YCenter float64
	Width   float64
	Height  float64
}

// FromCOCO converts a pixel (x_min, y_min, width, height) box into YOLO form.
// Values are not clamped or validated.
func FromCOCO(ann coco.Annotation, imageWidth, imageHeight int) Box {
	w := float64(imageWidth)
	h := float64(imageHeight)
	return Box{
		ClassID: ann.CategoryID,
		XCenter: (ann.X() + ann.W()/2) / w,
		YCenter: (ann.Y() + ann.H()/2) / h,
		Width:   ann.W() / w,
		Height:  ann.H() / h,
	}
}

// String renders the box as a label line without the trailing newline.
func (b Box) String() string {
	return strings.Join([]string{
		strconv.FormatInt(b.ClassID, 10),
		formatFloat(b.XCenter),
		formatFloat(b.YCenter),
		formatFloat(b.Width),
		formatFloat(b.Height),
	}, " ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteLabels writes one line per box.
func WriteLabels(w io.Writer, boxes []Box) error {
	for _, b := range boxes {
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return fmt.Errorf("failed to write label line: %w", err)
		}
	}
	return nil
}

// LabelFileName swaps the image extension for .txt ("a.jpg" -> "a.txt").
func LabelFileName(imageFileName string) string {
	return strings.TrimSuffix(imageFileName, filepath.Ext(imageFileName)) + ".txt"
}
