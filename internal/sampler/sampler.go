// Package sampler selects a class-balanced subset of images from a COCO
// annotation index. Each image is claimed by at most one class.
package sampler

import (
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
	"github.com/lehigh-university-libraries/coco2yolo/internal/coco"
)

// Index is the subset of coco.Index the sampler reads from
type Index interface {
	CategoryID(name string) (int64, bool)
	Category(id int64) (coco.Category, bool)
	ImageCategories(imageID int64) map[int64]struct{}
}

// Options controls a Select call
type Options struct {
	// Rand is the random source used for sampling without replacement.
	// When nil a time-seeded source is used.
	Rand *rand.Rand

	// Claimed holds image ids that are already taken. Select adds every
	// chosen id to it. When nil an empty set is created.
	Claimed *roaring64.Bitmap
}

// ClassSelection is the outcome for one requested class
type ClassSelection struct {
	CategoryID int64
	Name       string
	// Eligible is the number of unclaimed images containing the class at the
	// time it was sampled.
	Eligible int
	ImageIDs []int64
}

// Selection is the result of Select
type Selection struct {
	Classes    []ClassSelection
	Unresolved []string
	Claimed    *roaring64.Bitmap
}

// NewRand returns a deterministic random source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Select picks up to n images per label from candidates.
//
// Labels are resolved by exact category name and processed in the order
// given; labels with no matching category are skipped and reported in
// Selection.Unresolved. For every class the images already in the claimed
// set are removed first. If at least n remain, n are drawn uniformly at
// random without replacement, otherwise all of them are taken.
func Select(idx Index, candidates []int64, labels []string, n int, opts Options) *Selection {
	r := opts.Rand
	if r == nil {
		r = NewRand(uint64(time.Now().UnixNano()))
	}
	claimed := opts.Claimed
	if claimed == nil {
		claimed = roaring64.New()
	}

	sel := &Selection{Claimed: claimed}

	// Resolve labels, keeping command-line order and dropping repeats.
	var targets []int64
	position := make(map[int64]int)
	for _, label := range labels {
		catID, ok := idx.CategoryID(label)
		if !ok {
			slog.Warn("No category matches label, skipping", "label", label)
			sel.Unresolved = append(sel.Unresolved, label)
			continue
		}
		if _, seen := position[catID]; seen {
			continue
		}
		position[catID] = len(targets)
		targets = append(targets, catID)
	}

	if len(targets) == 0 {
		return sel
	}

	eligible := make([][]int64, len(targets))
	for _, imgID := range candidates {
		for catID := range idx.ImageCategories(imgID) {
			if pos, ok := position[catID]; ok {
				eligible[pos] = append(eligible[pos], imgID)
			}
		}
	}

	for pos, catID := range targets {
		unclaimed := make([]int64, 0, len(eligible[pos]))
		for _, imgID := range eligible[pos] {
			if !claimed.Contains(uint64(imgID)) {
				unclaimed = append(unclaimed, imgID)
			}
		}

		var chosen []int64
		if n > 0 && len(unclaimed) >= n {
			chosen = sampleWithoutReplacement(r, unclaimed, n)
		} else if n > 0 {
			chosen = unclaimed
		}

		for _, imgID := range chosen {
			claimed.Add(uint64(imgID))
		}

		name := ""
		if cat, ok := idx.Category(catID); ok {
			name = cat.Name
		}

		slog.Debug("Selected images for class",
			"category", name,
			"category_id", catID,
			"eligible", len(unclaimed),
			"selected", len(chosen))

		sel.Classes = append(sel.Classes, ClassSelection{
			CategoryID: catID,
			Name:       name,
			Eligible:   len(unclaimed),
			ImageIDs:   chosen,
		})
	}

	return sel
}

// sampleWithoutReplacement runs a partial Fisher-Yates shuffle over a copy
// of ids and returns the first n elements.
func sampleWithoutReplacement(r *rand.Rand, ids []int64, n int) []int64 {
	pool := slices.Clone(ids)
	for i := 0; i < n; i++ {
		j := i + r.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n:n]
}

// ImageIDs returns every selected image id, class by class.
func (s *Selection) ImageIDs() []int64 {
	var ids []int64
	for _, c := range s.Classes {
		ids = append(ids, c.ImageIDs...)
	}
	return ids
}

// Total is the number of selected images across all classes.
func (s *Selection) Total() int {
	total := 0
	for _, c := range s.Classes {
		total += len(c.ImageIDs)
	}
	return total
}

// Owners maps each selected image id to the class that claimed it.
func (s *Selection) Owners() map[int64]ClassSelection {
	owners := make(map[int64]ClassSelection, s.Total())
	for _, c := range s.Classes {
		for _, id := range c.ImageIDs {
			owners[id] = c
		}
	}
	return owners
}
