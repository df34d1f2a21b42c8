// Package listing sorts and paginates the post collection. Sorting never
// mutates its input and keeps the original relative order for equal keys.
package listing

import (
	"math"
	"sort"

	"corkboard/internal/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	SortLatest   = "latest"
	SortOldest   = "oldest"
	SortTitleAsc = "title_asc"

	DefaultPage  = 1
	DefaultLimit = 10
)

// Sort returns a sorted copy of posts. Unrecognized keys fall back to latest.
func Sort(posts []models.Post, key string) []models.Post {
	out := make([]models.Post, len(posts))
	copy(out, posts)

	switch key {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	case SortTitleAsc:
		// A Collator keeps internal buffers, so it cannot be shared
		// between concurrent requests.
		col := collate.New(language.Und)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Title, out[j].Title) < 0
		})
	default: // SortLatest
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

// Paginate slices one page out of sorted and reports the total count.
// A page past the end yields an empty slice, never an error.
func Paginate(sorted []models.Post, page, limit int) ([]models.Post, int) {
	total := len(sorted)
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	start := (page - 1) * limit
	if start >= total {
		return []models.Post{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return sorted[start:end], total
}

// TotalPages is ceil(total/limit).
func TotalPages(total, limit int) int {
	if limit < 1 {
		limit = DefaultLimit
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}

// NormalizeSort maps arbitrary user input onto a supported sort key.
func NormalizeSort(key string) string {
	switch key {
	case SortOldest, SortTitleAsc:
		return key
	default:
		return SortLatest
	}
}
