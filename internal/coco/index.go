package coco

import "sort"

// Index is a read-only lookup structure over a COCO annotation file.
// It is built once and never mutated afterwards.
type Index struct {
	imageIDs    []int64
	images      map[int64]Image
	annsByImage map[int64][]Annotation
	categories  map[int64]Category
	catByName   map[string]int64
}

// NewIndex builds an Index from a decoded annotation file
func NewIndex(f File) *Index {
	idx := &Index{
		imageIDs:    make([]int64, 0, len(f.Images)),
		images:      make(map[int64]Image, len(f.Images)),
		annsByImage: make(map[int64][]Annotation, len(f.Images)),
		categories:  make(map[int64]Category, len(f.Categories)),
		catByName:   make(map[string]int64, len(f.Categories)),
	}

	for _, img := range f.Images {
		if _, ok := idx.images[img.ID]; !ok {
			idx.imageIDs = append(idx.imageIDs, img.ID)
		}
		idx.images[img.ID] = img
	}

	for _, ann := range f.Annotations {
		idx.annsByImage[ann.ImageID] = append(idx.annsByImage[ann.ImageID], ann)
	}

	for _, cat := range f.Categories {
		idx.categories[cat.ID] = cat
		// first category with a given name wins
		if _, ok := idx.catByName[cat.Name]; !ok {
			idx.catByName[cat.Name] = cat.ID
		}
	}

	return idx
}

// ImageIDs returns every image id in file order.
func (idx *Index) ImageIDs() []int64 {
	out := make([]int64, len(idx.imageIDs))
	copy(out, idx.imageIDs)
	return out
}

// Image looks up an image record by id.
func (idx *Index) Image(id int64) (Image, bool) {
	img, ok := idx.images[id]
	return img, ok
}

// Annotations returns the annotations of an image in file order.
func (idx *Index) Annotations(imageID int64) []Annotation {
	return idx.annsByImage[imageID]
}

// CategoryID resolves a category name by exact match.
func (idx *Index) CategoryID(name string) (int64, bool) {
	id, ok := idx.catByName[name]
	return id, ok
}

// Category looks up a category by id.
func (idx *Index) Category(id int64) (Category, bool) {
	cat, ok := idx.categories[id]
	return cat, ok
}

// Categories returns all categories sorted by id.
func (idx *Index) Categories() []Category {
	cats := make([]Category, 0, len(idx.categories))
	for _, cat := range idx.categories {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		return cats[i].ID < cats[j].ID
	})
	return cats
}

// ImageCategories returns the set of category ids annotated in an image.
func (idx *Index) ImageCategories(imageID int64) map[int64]struct{} {
	anns := idx.annsByImage[imageID]
	set := make(map[int64]struct{}, len(anns))
	for _, ann := range anns {
		set[ann.CategoryID] = struct{}{}
	}
	return set
}

// CategoryImageCounts returns, per category id, how many images contain at
// least one annotation of that category.
func (idx *Index) CategoryImageCounts() map[int64]int {
	counts := make(map[int64]int, len(idx.categories))
	for _, id := range idx.imageIDs {
		for catID := range idx.ImageCategories(id) {
			counts[catID]++
		}
	}
	return counts
}
