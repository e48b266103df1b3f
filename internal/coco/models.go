package coco

// File is the top-level layout of a COCO detection annotation file
// (e.g. annotations/instances_train2017.json). Fields the converter does not
// use (info, licenses, segmentation) are ignored on decode.
type File struct {
	Images      []Image      `json:"images"`
	Annotations []Annotation `json:"annotations"`
	Categories  []Category   `json:"categories"`
}

// Image is a single entry of the "images" array
type Image struct {
	ID       int64  `json:"id"`
	FileName string `json:"file_name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Annotation is a single object instance
type Annotation struct {
	ID         int64 `json:"id"`
	ImageID    int64 `json:"image_id"`
	CategoryID int64 `json:"category_id"`
	// BBox is [x_min, y_min, width, height] in pixels
	BBox [4]float64 `json:"bbox"`
}

// Category maps a numeric id to a class name
type Category struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Supercategory string `json:"supercategory"`
}

// X returns the left edge of the box.
func (a Annotation) X() float64 { return a.BBox[0] }

// Y returns the top edge of the box.
func (a Annotation) Y() float64 { return a.BBox[1] }

// W returns the box width.
func (a Annotation) W() float64 { return a.BBox[2] }

// H returns the box height.
func (a Annotation) H() float64 { return a.BBox[3] }
